// Package sema implements the two-phase semantic checker: a pre-pass that
// forward-declares every script and config entry into the batch's symbol
// table, and a main pass that type-checks expressions and statements
// bottom-up against that table. Diagnostics are always buffered into a
// [diag.Reporter] — the checker itself never panics on a malformed program.
package sema

import (
	"fmt"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/binding"
	"github.com/toolc/toolc/pkg/diag"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/symtab"
)

// ScriptSource pairs a parsed script file with the name of the file it came
// from, so declaration-collision diagnostics attach to the right file.
type ScriptSource struct {
	File     *ast.ScriptFile
	Filename string
}

// ConfigSource pairs a parsed config file with the binding that governs its
// file extension and the name of the file it came from.
type ConfigSource struct {
	File     *ast.ConfigFile
	Binding  *binding.Binding
	Filename string
}

// Prepass walks every script and config in the batch and declares its
// symbol in table, in file order and declaration order within a file. This
// is what makes forward references (a script calling one declared later in
// the same batch) resolvable in the main pass.
func Prepass(table *symtab.Table, scripts []ScriptSource, configs []ConfigSource, allowOverride bool, rep *diag.Reporter) {
	for _, ss := range scripts {
		for _, s := range ss.File.Scripts {
			declareScript(table, s, ss.Filename, allowOverride, rep)
		}
	}

	for _, cs := range configs {
		for _, cfg := range cs.File.Configs {
			declareConfigEntry(table, cs.Binding, cfg, cs.Filename, allowOverride, rep)
		}
	}
}

func declareScript(table *symtab.Table, s *ast.Script, filename string, allowOverride bool, rep *diag.Reporter) {
	sym := &symtab.Symbol{
		Kind:       symtab.KindScript,
		Name:       s.Name,
		Trigger:    s.Trigger,
		ParamTypes: s.ParameterTypes(),
		ReturnType: s.ReturnType(),
	}

	if !table.Declare(sym, allowOverride) {
		rep.Report(diag.Diagnostic{
			Kind:    source.ErrSemantic,
			Range:   s.Span(),
			File:    filename,
			Message: fmt.Sprintf("script [%s,%s] is already declared in this batch", s.Trigger, s.Name),
		})
	}
}

func declareConfigEntry(table *symtab.Table, b *binding.Binding, cfg *ast.Config, filename string, allowOverride bool, rep *diag.Reporter) {
	sym := &symtab.Symbol{
		Kind:  symtab.KindConfigEntry,
		Name:  cfg.Name,
		Group: b.Group,
	}

	if !table.Declare(sym, allowOverride) {
		rep.Report(diag.Diagnostic{
			Kind:    source.ErrSemantic,
			Range:   cfg.Span(),
			File:    filename,
			Message: fmt.Sprintf("config entry '%s' is already declared in this batch", cfg.Name),
		})
	}
}
