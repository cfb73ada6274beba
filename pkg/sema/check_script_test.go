package sema

import (
	"testing"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/diag"
	"github.com/toolc/toolc/pkg/symtab"
	"github.com/toolc/toolc/pkg/util/assert"
)

func declareConstant(table *symtab.Table, name string, typ ast.Type, value any) {
	table.Declare(&symtab.Symbol{Kind: symtab.KindConstant, Name: name, Type: typ, Value: value}, false)
}

// A bare Ident resolves against parameters before falling back to a
// same-named global constant — the most common case being a parameter
// echoed through a string placeholder.
func TestResolveIdentPrefersParamOverConstant(t *testing.T) {
	table := symtab.NewRoot()
	declareConstant(table, "name", ast.TypeString, "wrong")

	rep := diag.NewReporter()
	c := NewScriptChecker(table, "t.script", rep)
	c.params["name"] = ast.TypeString

	typ := c.infer(&ast.Ident{Name: "name"})

	assert.Equal(t, ast.TypeString, typ)
	assert.False(t, rep.HasErrors())
}

// A bare Ident resolves against locals before falling back to a same-named
// global constant.
func TestResolveIdentPrefersLocalOverConstant(t *testing.T) {
	table := symtab.NewRoot()
	declareConstant(table, "count", ast.TypeInt, int32(1))

	rep := diag.NewReporter()
	c := NewScriptChecker(table, "t.script", rep)
	c.locals["count"] = ast.TypeLong

	typ := c.infer(&ast.Ident{Name: "count"})

	assert.Equal(t, ast.TypeLong, typ)
	assert.False(t, rep.HasErrors())
}

// With no matching parameter or local, a bare Ident still resolves against
// the global constant table.
func TestResolveIdentFallsBackToConstant(t *testing.T) {
	table := symtab.NewRoot()
	declareConstant(table, "MAX_HP", ast.TypeInt, int32(99))

	rep := diag.NewReporter()
	c := NewScriptChecker(table, "t.script", rep)

	typ := c.infer(&ast.Ident{Name: "MAX_HP"})

	assert.Equal(t, ast.TypeInt, typ)
	assert.False(t, rep.HasErrors())
}

// An Ident matching no parameter, local, or constant reports a diagnostic.
func TestResolveIdentUnresolvedReportsDiagnostic(t *testing.T) {
	table := symtab.NewRoot()
	rep := diag.NewReporter()
	c := NewScriptChecker(table, "t.script", rep)

	c.infer(&ast.Ident{Name: "nope"})

	if !rep.HasErrors() {
		t.Fatalf("expected an unresolved-name diagnostic")
	}
}

// A string-literal placeholder that echoes a declared parameter type-checks
// cleanly end to end, through the real parser-produced tree shape (a
// VarExpr part inside a Concat, not a bare Ident) — the common case the
// resolution-order fix targets.
func TestCheckScriptPlaceholderEchoesParameter(t *testing.T) {
	table := symtab.NewRoot()
	rep := diag.NewReporter()
	c := NewScriptChecker(table, "t.script", rep)

	s := &ast.Script{
		Trigger:    "proc",
		Name:       "greet",
		Parameters: []*ast.Parameter{{Name: "name", Type: ast.TypeString}},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.VarDecl{
				Name: "s",
				Type: ast.TypeString,
				Init: &ast.Concat{Parts: []ast.Expr{
					&ast.StringLit{Value: "hi "},
					&ast.VarExpr{Scope: ast.ScopeLocal, Name: "name"},
				}},
			},
		}},
	}

	c.Check(s)

	if rep.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", rep.Diagnostics())
	}
}
