package script

import (
	"testing"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/symtab"
	"github.com/toolc/toolc/pkg/util/assert"
)

func newScript(trigger, name string, body *ast.Block) *ast.Script {
	return &ast.Script{Trigger: trigger, Name: name, Body: body}
}

// An empty script body lowers to a single block whose only instruction is
// the generator's default RETURN 0 sentinel.
func TestGenerateEmptyBodyEmitsSingleReturn(t *testing.T) {
	table := symtab.NewRoot()
	g := NewGenerator("proc", table)

	s := newScript("proc", "noop", &ast.Block{})
	bin := g.Generate(s)

	assert.Equal(t, 1, len(bin.Blocks))
	ins := bin.Blocks[0].Instructions
	assert.Equal(t, 1, len(ins))
	assert.Equal(t, Return, ins[0].Op)
	assert.Equal(t, int32(0), ins[0].Operand.IntValue)
}

func TestGenerateReturnIsNotDuplicated(t *testing.T) {
	table := symtab.NewRoot()
	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{&ast.Return{}}}
	s := newScript("proc", "noop", body)
	bin := g.Generate(s)

	ins := bin.Blocks[0].Instructions
	assert.Equal(t, 1, len(ins))
	assert.Equal(t, Return, ins[0].Op)
}

// if/else per §4.4: the source block branches into trueBlock/falseBlock,
// trueBlock's body ends by branching to falseBlock, and the else body is
// emitted directly into falseBlock.
func TestGenerateIfElseBlockShape(t *testing.T) {
	table := symtab.NewRoot()
	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{
		&ast.If{
			Cond: &ast.BinaryOp{Op: "==", Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}},
			Then: &ast.Block{Stmts: []ast.Stmt{&ast.Return{}}},
			Else: &ast.Block{Stmts: []ast.Stmt{&ast.Return{}}},
		},
	}}

	s := newScript("proc", "branchy", body)
	bin := g.Generate(s)

	// entry, true, false blocks.
	assert.Equal(t, 3, len(bin.Blocks))

	entry := bin.Blocks[0].Instructions
	assert.Equal(t, 4, len(entry)) // push, push, cmp-branch, branch
	assert.Equal(t, BranchEquals, entry[2].Op)
	assert.Equal(t, Branch, entry[3].Op)

	trueBlock := bin.Blocks[1].Instructions
	assert.Equal(t, 2, len(trueBlock)) // return, then branch-to-false
	assert.Equal(t, Return, trueBlock[0].Op)
	assert.Equal(t, Branch, trueBlock[1].Op)

	falseBlock := bin.Blocks[2].Instructions
	assert.Equal(t, 1, len(falseBlock))
	assert.Equal(t, Return, falseBlock[0].Op)
}

func TestGenerateVarDeclDefaultValue(t *testing.T) {
	table := symtab.NewRoot()
	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{
		&ast.VarDecl{Name: "x", Type: ast.TypeInt},
	}}

	s := newScript("proc", "decl", body)
	bin := g.Generate(s)

	ins := bin.Blocks[0].Instructions
	assert.Equal(t, PushIntConstant, ins[0].Op)
	assert.Equal(t, int32(0), ins[0].Operand.IntValue)
	assert.Equal(t, PopIntLocal, ins[1].Op)
}

func TestGenerateGosubResolvesDeclaredScript(t *testing.T) {
	table := symtab.NewRoot()
	table.Declare(&symtab.Symbol{Kind: symtab.KindScript, Trigger: "proc", Name: "helper"}, false)

	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Value: &ast.Gosub{Name: "helper"}},
	}}

	s := newScript("proc", "caller", body)
	bin := g.Generate(s)

	ins := bin.Blocks[0].Instructions
	assert.Equal(t, GosubWithParams, ins[0].Op)
	assert.Equal(t, "proc,helper", ins[0].Operand.Symbol)
}

func TestGenerateCommandCallUsesCatalogOpcode(t *testing.T) {
	table := symtab.NewRoot()
	table.Declare(&symtab.Symbol{Kind: symtab.KindCommand, Name: "println", Opcode: 7}, false)

	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Value: &ast.CommandCall{Name: "println", Args: []ast.Expr{&ast.StringLit{Value: "hi"}}}},
	}}

	s := newScript("proc", "printer", body)
	bin := g.Generate(s)

	ins := bin.Blocks[0].Instructions
	assert.Equal(t, PushStringConstant, ins[0].Op)
	assert.True(t, ins[1].IsCall)
	assert.Equal(t, 7, ins[1].Raw)
}

// A bare Ident resolves against the script's own parameters before falling
// back to a same-named global constant — this is what makes echoing a
// parameter through a string placeholder ("hi <name>") emit a load of the
// parameter, not the constant's value.
func TestGenerateIdentPrefersParamOverConstant(t *testing.T) {
	table := symtab.NewRoot()
	table.Declare(&symtab.Symbol{Kind: symtab.KindConstant, Name: "name", Type: ast.TypeString, Value: "wrong"}, false)

	g := NewGenerator("proc", table)

	s := &ast.Script{
		Trigger:    "proc",
		Name:       "greet",
		Parameters: []*ast.Parameter{{Name: "name", Type: ast.TypeString}},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.Ident{Name: "name"}},
		}},
	}

	bin := g.Generate(s)

	ins := bin.Blocks[0].Instructions
	assert.Equal(t, PushStringLocal, ins[0].Op)
	assert.True(t, ins[0].Operand.Local.IsParam)
}

// With no matching parameter or local, a bare Ident still resolves against
// the global constant table.
func TestGenerateIdentFallsBackToConstant(t *testing.T) {
	table := symtab.NewRoot()
	table.Declare(&symtab.Symbol{Kind: symtab.KindConstant, Name: "MAX_HP", Type: ast.TypeInt, Value: int32(99)}, false)

	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Value: &ast.Ident{Name: "MAX_HP"}},
	}}

	s := newScript("proc", "read_const", body)
	bin := g.Generate(s)

	ins := bin.Blocks[0].Instructions
	assert.Equal(t, PushIntConstant, ins[0].Op)
	assert.Equal(t, int32(99), ins[0].Operand.IntValue)
}

func TestGenerateBareComparisonOutsideConditionPanics(t *testing.T) {
	table := symtab.NewRoot()
	g := NewGenerator("proc", table)

	body := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Value: &ast.BinaryOp{Op: "==", Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 1}}},
	}}

	s := newScript("proc", "bad", body)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for bare comparison outside condition")
		}
	}()

	g.Generate(s)
}
