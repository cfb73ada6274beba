// Package driver implements the compilation driver described by §4.8: it
// sequences tokenizing, parsing, semantic pre-pass and main pass, id
// generation and code generation across a batch of source files, and
// associates every diagnostic with the file it came from.
package driver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/binding"
	"github.com/toolc/toolc/pkg/catalog"
	"github.com/toolc/toolc/pkg/config"
	"github.com/toolc/toolc/pkg/config/binout"
	"github.com/toolc/toolc/pkg/diag"
	"github.com/toolc/toolc/pkg/parser"
	"github.com/toolc/toolc/pkg/script"
	"github.com/toolc/toolc/pkg/script/bytecode"
	"github.com/toolc/toolc/pkg/script/opt"
	"github.com/toolc/toolc/pkg/sema"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/symtab"
)

// Mode selects how far a batch runs: analysis only, or all the way through
// artifact emission. Named as a single field rather than the base spec's two
// independent booleans, since in practice id generation always runs and only
// code generation is switchable (SPEC_FULL §4).
type Mode int

// Driver modes.
const (
	AnalyzeOnly Mode = iota
	EmitArtifacts
)

// SourceFile is one input to a batch: its path, dialect extension, and raw
// bytes.
type SourceFile struct {
	Path      string
	Extension string
	Bytes     []byte
}

// Input is the driver's batch request, per §4.8.
type Input struct {
	SourceFiles []SourceFile
	Mode        Mode
}

// Unit is one declared script or config, with its generated artifact once
// code generation has run.
type Unit struct {
	Name     string
	Script   *script.BinaryScript
	Config   *config.BinaryConfig
	Bytecode []byte
}

// CompiledFile is one source file's compilation result.
type CompiledFile struct {
	Extension string
	Units     []*Unit
	Errors    []diag.Diagnostic
	Erroneous bool
}

// Output is the driver's batch result, per §4.8. BatchID is a random
// correlation id stamped on every batch so a host can tie a Compile call's
// logs, diagnostics report and written artifacts back together (SPEC_FULL
// addition; the spec itself says nothing about batch identity).
type Output struct {
	BatchID       string
	CompiledFiles map[string]*CompiledFile
	rep           *diag.Reporter
}

// Report returns every diagnostic collected during the batch, in discovery
// order, for a host to render a batch-wide summary without re-walking every
// file (SPEC_FULL §4 addition).
func (o *Output) Report() []diag.Diagnostic {
	return o.rep.Diagnostics()
}

// IdProvider is the §6.2 collaborator: deterministic id allocation for
// declared config/script names.
type IdProvider interface {
	FindOrCreateConfig(group, name string) int
	FindConfig(group, name string) (int, bool)
}

// Driver sequences compilation across batches sharing one root symbol
// table and one set of registered bindings.
type Driver struct {
	root          *symtab.Table
	bindings      map[string]*binding.Binding
	ids           IdProvider
	instructions  *catalog.InstructionMap
	triggers      *catalog.Triggers
	allowOverride bool
	log           *logrus.Logger
}

// New constructs a driver. instructions may be nil when the caller only
// ever runs AnalyzeOnly batches; Compile panics if EmitArtifacts is
// requested without a Ready instruction map, per §6.3.
func New(ids IdProvider, instructions *catalog.InstructionMap, allowOverride bool, log *logrus.Logger) *Driver {
	if log == nil {
		log = logrus.New()
	}

	return &Driver{
		root:          symtab.NewRoot(),
		bindings:      make(map[string]*binding.Binding),
		ids:           ids,
		instructions:  instructions,
		allowOverride: allowOverride,
		log:           log,
	}
}

// SetTriggers installs the trigger catalog used to validate each script's
// declared trigger, per §6.4. Without one, trigger names are accepted
// unchecked.
func (d *Driver) SetTriggers(triggers *catalog.Triggers) {
	d.triggers = triggers
}

// SeedCommands declares every entry of a loaded command catalog as a
// KindCommand symbol in the driver's root table, so every batch's semantic
// checker can resolve command calls against it.
func (d *Driver) SeedCommands(commands *catalog.Commands) {
	for _, name := range commands.Names() {
		entry, _ := commands.Lookup(name)

		d.root.Declare(&symtab.Symbol{
			Kind:        symtab.KindCommand,
			Name:        entry.Name,
			Opcode:      entry.Opcode,
			ArgTypes:    catalog.Types(entry.Arguments),
			ReturnType:  catalog.ResolveType(entry.Type),
			Alternative: entry.Alternative,
			IsHook:      entry.Hook,
		}, false)
	}
}

// RegisterBinding registers the config-dialect schema for a file extension.
// A duplicate extension is a hard failure, per §6.1.
func (d *Driver) RegisterBinding(extension string, b *binding.Binding) {
	if _, exists := d.bindings[extension]; exists {
		panic("driver: duplicate binding registration for extension " + extension)
	}

	d.bindings[extension] = b
}

type parsedScript struct {
	file *ast.ScriptFile
	src  SourceFile
}

type parsedConfig struct {
	file *ast.ConfigFile
	src  SourceFile
}

// Compile runs one batch to completion, per the sequence in §4.8.
func (d *Driver) Compile(in Input) *Output {
	rep := diag.NewReporter()
	table := d.root.NewChild()

	batchID := uuid.NewString()
	d.log.WithField("batch", batchID).Debug("starting compile batch")

	out := &Output{
		BatchID:       batchID,
		CompiledFiles: make(map[string]*CompiledFile, len(in.SourceFiles)),
		rep:           rep,
	}

	var scripts []parsedScript

	var configs []parsedConfig

	for _, sf := range in.SourceFiles {
		d.log.WithField("file", sf.Path).Debug("tokenizing and parsing")

		out.CompiledFiles[sf.Path] = &CompiledFile{Extension: sf.Extension}

		if _, isConfig := d.bindings[sf.Extension]; isConfig {
			d.parseConfigFile(sf, rep, &configs)
		} else {
			d.parseScriptFile(sf, rep, &scripts)
		}
	}

	if d.triggers != nil {
		d.validateTriggers(scripts, rep)
	}

	d.log.Debug("running semantic pre-pass")
	d.prepass(table, scripts, configs, rep)

	d.log.Debug("running semantic main pass")
	d.mainPass(table, scripts, configs, out, rep)

	for path, cf := range out.CompiledFiles {
		cf.Errors = filterByFile(rep.Diagnostics(), path)
		cf.Erroneous = len(cf.Errors) > 0
	}

	d.log.Debug("running id generation")
	d.assignIds(table)

	if in.Mode == AnalyzeOnly {
		return out
	}

	d.log.Debug("running code generation")
	d.codegen(table, scripts, configs, out)

	return out
}

func (d *Driver) parseScriptFile(sf SourceFile, rep *diag.Reporter, scripts *[]parsedScript) {
	file := source.NewFile(sf.Path, sf.Bytes)
	p := parser.NewScriptParser(file)
	tree := p.ParseScriptFile()

	for _, e := range p.Errors() {
		rep.ReportSyntaxError(e)
	}

	*scripts = append(*scripts, parsedScript{file: tree, src: sf})
}

func (d *Driver) parseConfigFile(sf SourceFile, rep *diag.Reporter, configs *[]parsedConfig) {
	file := source.NewFile(sf.Path, sf.Bytes)
	p := parser.NewConfigParser(file)
	tree := p.ParseConfigFile()

	for _, e := range p.Errors() {
		rep.ReportSyntaxError(e)
	}

	*configs = append(*configs, parsedConfig{file: tree, src: sf})
}

// validateTriggers reports a diagnostic for any script whose trigger is not
// in the catalog, or whose declared parameter/return list violates the
// trigger's support_arguments/support_returns flags.
func (d *Driver) validateTriggers(scripts []parsedScript, rep *diag.Reporter) {
	for _, p := range scripts {
		for _, s := range p.file.Scripts {
			entry, ok := d.triggers.Lookup(s.Trigger)
			if !ok {
				rep.Report(diag.Diagnostic{
					Kind:    source.ErrSemantic,
					Range:   s.Span(),
					File:    p.src.Path,
					Message: fmt.Sprintf("unknown trigger %q", s.Trigger),
				})

				continue
			}

			if len(s.Parameters) > 0 && !entry.SupportArguments {
				rep.Report(diag.Diagnostic{
					Kind:    source.ErrSemantic,
					Range:   s.Span(),
					File:    p.src.Path,
					Message: fmt.Sprintf("trigger %q does not support parameters", s.Trigger),
				})
			}

			if len(s.Returns) > 0 && !entry.SupportReturns {
				rep.Report(diag.Diagnostic{
					Kind:    source.ErrSemantic,
					Range:   s.Span(),
					File:    p.src.Path,
					Message: fmt.Sprintf("trigger %q does not support return values", s.Trigger),
				})
			}
		}
	}
}

func (d *Driver) prepass(table *symtab.Table, scripts []parsedScript, configs []parsedConfig, rep *diag.Reporter) {
	ss := make([]sema.ScriptSource, len(scripts))
	for i, p := range scripts {
		ss[i] = sema.ScriptSource{File: p.file, Filename: p.src.Path}
	}

	var cs []sema.ConfigSource

	for _, p := range configs {
		b := d.bindings[p.src.Extension]
		cs = append(cs, sema.ConfigSource{File: p.file, Binding: b, Filename: p.src.Path})
	}

	sema.Prepass(table, ss, cs, d.allowOverride, rep)
}

func (d *Driver) mainPass(table *symtab.Table, scripts []parsedScript, configs []parsedConfig, out *Output, rep *diag.Reporter) {
	for _, p := range scripts {
		for _, s := range p.file.Scripts {
			checker := sema.NewScriptChecker(table, p.src.Path, rep)
			checker.Check(s)

			cf := out.CompiledFiles[p.src.Path]
			cf.Units = append(cf.Units, &Unit{Name: s.FullName()})
		}
	}

	for _, p := range configs {
		b := d.bindings[p.src.Extension]

		for _, c := range p.file.Configs {
			checker := sema.NewConfigChecker(table, b, p.src.Path, rep)
			checker.Check(c)

			cf := out.CompiledFiles[p.src.Path]
			cf.Units = append(cf.Units, &Unit{Name: c.Name})
		}
	}
}

// assignIds interns an id for every declared config entry and script in the
// batch's child table — including erroneous units, since a later unit may
// still reference them by name — per §4.8 step 4. This always runs; only
// code generation is gated by Mode.
func (d *Driver) assignIds(table *symtab.Table) {
	for _, sym := range table.Symbols() {
		switch sym.Kind {
		case symtab.KindConfigEntry:
			d.ids.FindOrCreateConfig(sym.Group, sym.Name)
		case symtab.KindScript:
			d.ids.FindOrCreateConfig("script", sym.FullName())
		}
	}
}

func (d *Driver) codegen(table *symtab.Table, scripts []parsedScript, configs []parsedConfig, out *Output) {
	if d.instructions == nil || !d.instructions.Ready() {
		panic(fmt.Sprintf("driver: instruction map not ready, missing %v", d.instructions.Missing()))
	}

	for _, p := range scripts {
		cf := out.CompiledFiles[p.src.Path]
		if cf.Erroneous {
			continue
		}

		for _, s := range p.file.Scripts {
			gen := script.NewGenerator(p.src.Extension, table)
			bin := gen.Generate(s)
			opt.Run(bin)

			code := bytecode.Write(bin, d.instructions)

			unit := findUnit(cf, s.FullName())
			unit.Script = bin
			unit.Bytecode = code
		}
	}

	for _, p := range configs {
		cf := out.CompiledFiles[p.src.Path]
		if cf.Erroneous {
			continue
		}

		b := d.bindings[p.src.Extension]

		for _, c := range p.file.Configs {
			graphics := config.SymtabGraphics{Table: table}
			gen := config.NewGenerator(table, b, d.ids, graphics)
			bin := gen.Generate(c)

			code := binout.Write(bin)

			unit := findUnit(cf, c.Name)
			unit.Config = bin
			unit.Bytecode = code
		}
	}
}

func findUnit(cf *CompiledFile, name string) *Unit {
	for _, u := range cf.Units {
		if u.Name == name {
			return u
		}
	}

	return nil
}

func filterByFile(diags []diag.Diagnostic, path string) []diag.Diagnostic {
	var out []diag.Diagnostic

	for _, d := range diags {
		if d.File == path {
			out = append(out, d)
		}
	}

	return out
}
