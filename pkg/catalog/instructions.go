// Package catalog loads the closed, TOML-configured catalogs the driver
// needs before it will accept code-generation work: the core-opcode to
// concrete-opcode instruction map, and the trigger/command catalogs the
// semantic checker and code generator resolve script/command calls against.
package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/toolc/toolc/pkg/script"
	"github.com/toolc/toolc/pkg/script/bytecode"
)

// InstructionEntry is one core-opcode's concrete encoding: its byte value
// and whether its operand is encoded wide (u2/u4) rather than narrow (u1).
type InstructionEntry struct {
	Opcode int  `toml:"opcode"`
	Large  bool `toml:"large"`
}

type instructionFile struct {
	Instruction map[string]InstructionEntry `toml:"instruction"`
}

// InstructionMap resolves an abstract CoreOpcode to its concrete on-disk
// encoding. It must be Ready (every core opcode mapped) before the driver
// accepts code-generation work, per §6.3.
type InstructionMap struct {
	entries map[script.CoreOpcode]InstructionEntry
}

// LoadInstructionMap parses a TOML instruction map file of the form:
//
//	[instruction.PUSH_INT_CONSTANT]
//	opcode = 0
//	large = true
func LoadInstructionMap(path string) (*InstructionMap, error) {
	var f instructionFile

	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: loading instruction map %s: %w", path, err)
	}

	m := &InstructionMap{entries: make(map[script.CoreOpcode]InstructionEntry, len(f.Instruction))}

	for name, entry := range f.Instruction {
		op, ok := script.OpcodeByName(name)
		if !ok {
			return nil, fmt.Errorf("catalog: instruction map %s: unknown core opcode %q", path, name)
		}

		m.entries[op] = entry
	}

	return m, nil
}

// Resolve returns the concrete encoding for a core opcode, satisfying the
// bytecode.InstructionMap collaborator interface.
func (m *InstructionMap) Resolve(op script.CoreOpcode) (bytecode.Entry, bool) {
	e, ok := m.entries[op]
	return bytecode.Entry{Opcode: e.Opcode, Large: e.Large}, ok
}

// Ready reports whether every core opcode the generator can emit has a
// concrete mapping, as required before the driver will run code generation.
func (m *InstructionMap) Ready() bool {
	for _, op := range script.AllOpcodes() {
		if _, ok := m.entries[op]; !ok {
			return false
		}
	}

	return true
}

// Missing returns the core opcodes with no mapping, for a diagnostic message
// when Ready is false.
func (m *InstructionMap) Missing() []script.CoreOpcode {
	var out []script.CoreOpcode

	for _, op := range script.AllOpcodes() {
		if _, ok := m.entries[op]; !ok {
			out = append(out, op)
		}
	}

	return out
}
