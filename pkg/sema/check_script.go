package sema

import (
	"fmt"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/diag"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/symtab"
)

// Types maps every expression node checked during a pass to its inferred
// type. The script code generator does not read it; it re-derives each
// name's kind and stack itself (see script.NewGenerator).
type Types map[ast.Expr]ast.Type

// ScriptChecker runs the main pass over a single script: bottom-up type
// inference and checking against the batch symbol table.
type ScriptChecker struct {
	table    *symtab.Table
	filename string
	rep      *diag.Reporter
	types    Types

	locals map[string]ast.Type
	params map[string]ast.Type
}

// NewScriptChecker constructs a checker for one script against table.
// Parameters are pre-seeded into scope; locals accumulate as var-decls are
// checked in source order (the script body is a single flat scope, matching
// the flat local-slot model the code generator allocates from).
func NewScriptChecker(table *symtab.Table, filename string, rep *diag.Reporter) *ScriptChecker {
	return &ScriptChecker{
		table:    table,
		filename: filename,
		rep:      rep,
		types:    make(Types),
		locals:   make(map[string]ast.Type),
		params:   make(map[string]ast.Type),
	}
}

// Check type-checks a script and returns the type annotations collected for
// its expressions.
func (c *ScriptChecker) Check(s *ast.Script) Types {
	for _, p := range s.Parameters {
		c.params[p.Name] = p.Type
	}

	c.checkBlock(s.Body, s.ReturnType())

	return c.types
}

func (c *ScriptChecker) errorf(r source.Range, format string, args ...any) {
	c.rep.Report(diag.Diagnostic{
		Kind:    source.ErrSemantic,
		Range:   r,
		File:    c.filename,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *ScriptChecker) checkBlock(b *ast.Block, returnType ast.Type) {
	for _, stmt := range b.Stmts {
		c.checkStmt(stmt, returnType)
	}
}

func (c *ScriptChecker) checkStmt(stmt ast.Stmt, returnType ast.Type) {
	switch s := stmt.(type) {
	case *ast.Block:
		c.checkBlock(s, returnType)
	case *ast.If:
		c.checkCondition(s.Cond)
		c.checkBlock(s.Then, returnType)

		if s.Else != nil {
			c.checkBlock(s.Else, returnType)
		}
	case *ast.While:
		c.checkCondition(s.Cond)
		c.checkBlock(s.Body, returnType)
	case *ast.Return:
		c.checkReturn(s, returnType)
	case *ast.ExprStmt:
		c.infer(s.Value)
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.Assign:
		c.checkAssign(s)
	default:
		c.errorf(stmt.Span(), "internal: unhandled statement node")
	}
}

func (c *ScriptChecker) checkCondition(cond ast.Expr) {
	typ := c.infer(cond)

	if _, ok := cond.(*ast.BinaryOp); ok {
		return
	}

	if !typ.Equal(ast.TypeBool) {
		c.errorf(cond.Span(), "condition must be boolean or a comparison, found %s", typ)
	}
}

func (c *ScriptChecker) checkReturn(r *ast.Return, returnType ast.Type) {
	types := make([]ast.Type, len(r.Values))
	for i, v := range r.Values {
		types[i] = c.infer(v)
	}

	got := ast.NewTuple(types...)
	if !got.Equal(returnType) {
		c.errorf(r.Span(), "return type mismatch: expected %s, found %s", returnType, got)
	}
}

func (c *ScriptChecker) checkVarDecl(v *ast.VarDecl) {
	if v.Init != nil {
		initType := c.infer(v.Init)
		if !initType.Equal(v.Type) {
			c.errorf(v.Init.Span(), "cannot initialize %s $%s with %s value", v.Type, v.Name, initType)
		}
	}

	if _, exists := c.params[v.Name]; exists {
		c.errorf(v.Span(), "local $%s shadows a parameter of the same name", v.Name)
	}

	c.locals[v.Name] = v.Type
}

func (c *ScriptChecker) checkAssign(a *ast.Assign) {
	targetType := c.resolveVar(a.Target)
	valueType := c.infer(a.Value)

	if !targetType.Equal(ast.TypeUnknown) && !valueType.Equal(targetType) {
		c.errorf(a.Value.Span(), "cannot assign %s value to %s variable", valueType, targetType)
	}

	c.types[a.Target] = targetType
}

// infer computes and records the type of an expression, recursing into its
// subexpressions first (bottom-up).
func (c *ScriptChecker) infer(e ast.Expr) ast.Type {
	typ := c.inferUncached(e)
	c.types[e] = typ

	return typ
}

func (c *ScriptChecker) inferUncached(e ast.Expr) ast.Type {
	switch ex := e.(type) {
	case *ast.IntLit:
		return ast.TypeInt
	case *ast.LongLit:
		return ast.TypeLong
	case *ast.StringLit:
		return ast.TypeString
	case *ast.BoolLit:
		return ast.TypeBool
	case *ast.VarExpr:
		return c.resolveVar(ex)
	case *ast.Ident:
		return c.resolveIdent(ex)
	case *ast.ConstRef:
		return c.resolveConstant(ex.Name, ex.Span())
	case *ast.Concat:
		for _, p := range ex.Parts {
			c.infer(p)
		}

		return ast.TypeString
	case *ast.Calc:
		left := c.infer(ex.Left)
		right := c.infer(ex.Right)

		if !left.Equal(right) {
			c.errorf(ex.Span(), "calc operands must share a type, found %s and %s", left, right)
		}

		return left
	case *ast.BinaryOp:
		left := c.infer(ex.Left)
		right := c.infer(ex.Right)

		if !left.Equal(right) {
			c.errorf(ex.Span(), "comparison operands must share a type, found %s and %s", left, right)
		}

		return ast.TypeBool
	case *ast.Gosub:
		return c.checkCall(ex.Span(), "proc", ex.Name, ex.Args)
	case *ast.CommandCall:
		return c.checkCommandCall(ex)
	default:
		c.errorf(e.Span(), "internal: unhandled expression node")
		return ast.TypeUnknown
	}
}

// resolveVar resolves a scoped variable reference. $local names must have
// been declared (parameter or prior var-decl); the global scopes (%player,
// %%player_bit, @client_int, ^client_string) are open namespaces whose type
// follows directly from the scope sigil.
func (c *ScriptChecker) resolveVar(v *ast.VarExpr) ast.Type {
	switch v.Scope {
	case ast.ScopeLocal:
		if t, ok := c.params[v.Name]; ok {
			return t
		}

		if t, ok := c.locals[v.Name]; ok {
			return t
		}

		c.errorf(v.Span(), "undeclared local variable $%s", v.Name)

		return ast.TypeUnknown
	case ast.ScopePlayer, ast.ScopePlayerBit, ast.ScopeClientInt:
		return ast.TypeInt
	case ast.ScopeClientString:
		return ast.TypeString
	default:
		return ast.TypeUnknown
	}
}

// resolveIdent resolves a bare identifier against the same resolution order
// as a scoped $local reference: parameters first, then locals, then global
// constants, falling back to an unresolved-name diagnostic.
func (c *ScriptChecker) resolveIdent(id *ast.Ident) ast.Type {
	if t, ok := c.params[id.Name]; ok {
		return t
	}

	if t, ok := c.locals[id.Name]; ok {
		return t
	}

	return c.resolveConstant(id.Name, id.Span())
}

func (c *ScriptChecker) resolveConstant(name string, r source.Range) ast.Type {
	sym, ok := c.table.Lookup(symtab.KindConstant, name)
	if !ok {
		c.errorf(r, "unresolved name '%s'", name)
		return ast.TypeUnknown
	}

	return sym.Type
}

func (c *ScriptChecker) checkCall(r source.Range, trigger, name string, args []ast.Expr) ast.Type {
	sym, ok := c.table.LookupScript(trigger, name)
	if !ok {
		c.errorf(r, "call to undeclared script ~%s", name)

		for _, a := range args {
			c.infer(a)
		}

		return ast.TypeUnknown
	}

	c.checkArgs(r, name, sym.ParamTypes, args)

	return sym.ReturnType
}

func (c *ScriptChecker) checkCommandCall(cc *ast.CommandCall) ast.Type {
	sym, ok := c.table.Lookup(symtab.KindCommand, cc.Name)
	if !ok {
		c.errorf(cc.Span(), "call to undeclared command %s", cc.Name)

		for _, a := range cc.Args {
			c.infer(a)
		}

		return ast.TypeUnknown
	}

	c.checkArgs(cc.Span(), cc.Name, sym.ArgTypes, cc.Args)

	return sym.ReturnType
}

func (c *ScriptChecker) checkArgs(r source.Range, name string, paramTypes []ast.Type, args []ast.Expr) {
	argTypes := make([]ast.Type, len(args))
	for i, a := range args {
		argTypes[i] = c.infer(a)
	}

	if paramTypes == nil {
		return
	}

	if len(argTypes) != len(paramTypes) {
		c.errorf(r, "call to '%s' expects %d argument(s), found %d", name, len(paramTypes), len(argTypes))
		return
	}

	for i, want := range paramTypes {
		if !argTypes[i].Equal(want) {
			c.errorf(args[i].Span(), "argument %d to '%s': expected %s, found %s", i+1, name, want, argTypes[i])
		}
	}
}
