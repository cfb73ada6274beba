package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/toolc/toolc/pkg/ast"
)

// TriggerEntry describes one script trigger type: its marker name, optional
// sigil, catalog opcode, and whether it supports argument/return lists.
type TriggerEntry struct {
	Name             string   `toml:"name"`
	Sigil            string   `toml:"sigil"`
	Opcode           int      `toml:"opcode"`
	SupportArguments bool     `toml:"support_arguments"`
	SupportReturns   bool     `toml:"support_returns"`
	ArgumentTypes    []string `toml:"argument_types"`
	ReturnTypes      []string `toml:"return_types"`
}

// CommandEntry describes one built-in command: its catalog opcode, return
// type, argument types, and whether it has an alternate overload or is a
// hook (accepts a callback script reference as its type parameter).
type CommandEntry struct {
	Name        string   `toml:"name"`
	Opcode      int      `toml:"opcode"`
	Type        string   `toml:"type"`
	Arguments   []string `toml:"arguments"`
	Alternative bool     `toml:"alternative"`
	Hook        bool     `toml:"hook"`
}

type triggerFile struct {
	Trigger map[string]TriggerEntry `toml:"trigger"`
}

type commandFile struct {
	Command map[string]CommandEntry `toml:"command"`
}

// Triggers is the loaded trigger catalog, keyed by trigger name.
type Triggers struct {
	entries map[string]TriggerEntry
}

// LoadTriggers parses a trigger catalog TOML file of the form:
//
//	[trigger.proc]
//	name = "proc"
//	opcode = 1
//	support_arguments = true
//	support_returns = true
func LoadTriggers(path string) (*Triggers, error) {
	var f triggerFile

	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: loading trigger catalog %s: %w", path, err)
	}

	return &Triggers{entries: f.Trigger}, nil
}

// Lookup resolves a trigger by name.
func (t *Triggers) Lookup(name string) (TriggerEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// BySigil finds the trigger whose sigil matches a leading character used in
// source (currently unused by the grammar, reserved for sigil-prefixed
// trigger shorthand).
func (t *Triggers) BySigil(sigil string) (TriggerEntry, bool) {
	for _, e := range t.entries {
		if e.Sigil == sigil {
			return e, true
		}
	}

	return TriggerEntry{}, false
}

// Commands is the loaded command catalog, keyed by command name.
type Commands struct {
	entries map[string]CommandEntry
}

// LoadCommands parses a command catalog TOML file of the form:
//
//	[command.println]
//	opcode = 7
//	type = "void"
//	arguments = ["string"]
func LoadCommands(path string) (*Commands, error) {
	var f commandFile

	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: loading command catalog %s: %w", path, err)
	}

	return &Commands{entries: f.Command}, nil
}

// Lookup resolves a command by name.
func (c *Commands) Lookup(name string) (CommandEntry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns every command name in the catalog.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}

	return names
}

// primitiveTypes maps the catalog's string type spellings to resolved
// ast.Type values, mirroring the parser's own primitive table.
var primitiveTypes = map[string]ast.Type{
	"int":     ast.TypeInt,
	"long":    ast.TypeLong,
	"string":  ast.TypeString,
	"boolean": ast.TypeBool,
}

// ResolveType looks up a catalog type spelling, defaulting to TypeUnknown
// for a name the primitive table does not recognize (a user-defined type
// alias, resolved elsewhere).
func ResolveType(name string) ast.Type {
	if t, ok := primitiveTypes[name]; ok {
		return t
	}

	return ast.TypeUnknown
}

// Types resolves a list of catalog type spellings.
func Types(names []string) []ast.Type {
	out := make([]ast.Type, len(names))
	for i, n := range names {
		out[i] = ResolveType(n)
	}

	return out
}
