package script

import (
	"fmt"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/symtab"
)

// Generator lowers one type-checked script into a BinaryScript. It assumes
// the tree is error-free — the driver only hands codegen non-erroneous
// units — so any unresolved reference it encounters is an internal
// invariant violation, not a user-facing diagnostic, and is reported as a
// panic per the error-handling design.
type Generator struct {
	extension string
	table     *symtab.Table
	script    *BinaryScript
	current   *Block
	labelN    int
}

// NewGenerator constructs a generator for scripts declared under the given
// file extension, resolving names against table. A name's kind (parameter,
// local, or constant) is re-derived here from g.script.Locals the same way
// the semantic checker derives it from its own params/locals maps — a
// recorded type alone can't distinguish a local from a same-typed constant,
// so codegen resolution doesn't route through the checker's type
// annotations.
func NewGenerator(extension string, table *symtab.Table) *Generator {
	return &Generator{extension: extension, table: table}
}

// Generate lowers s into a fresh BinaryScript.
func (g *Generator) Generate(s *ast.Script) *BinaryScript {
	g.script = NewBinaryScript(g.extension, s.FullName(), s.Trigger)
	g.labelN = 0

	for _, p := range s.Parameters {
		g.script.Locals.DeclareParam(p.Name, p.Type.Stack)
	}

	g.current = g.script.NewBlock(g.genLabel())
	g.genBlock(s.Body)
	g.ensureReturn()

	return g.script
}

func (g *Generator) genLabel() string {
	l := fmt.Sprintf("L%d", g.labelN)
	g.labelN++

	return l
}

func (g *Generator) ensureReturn() {
	n := len(g.current.Instructions)
	if n > 0 && g.current.Instructions[n-1].Op == Return {
		return
	}

	g.current.Emit(Return, Operand{Kind: OperandInt, IntValue: 0})
}

func (g *Generator) genBlock(b *ast.Block) {
	for _, stmt := range b.Stmts {
		g.genStmt(stmt)
	}
}

func (g *Generator) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		g.genBlock(s)
	case *ast.If:
		g.genIf(s)
	case *ast.While:
		g.genWhile(s)
	case *ast.Return:
		g.genReturn(s)
	case *ast.ExprStmt:
		g.genExpr(s.Value)
	case *ast.VarDecl:
		g.genVarDecl(s)
	case *ast.Assign:
		g.genAssign(s)
	default:
		panic(fmt.Sprintf("internal: unhandled statement node %T in codegen", stmt))
	}
}

// genIf lowers an if/else per §4.4: a source block branching to trueBlock
// on the condition and falseBlock unconditionally; trueBlock's body ends by
// branching to falseBlock; the else body (if any) is emitted directly into
// falseBlock, so statements following the whole if/else naturally continue
// there too.
func (g *Generator) genIf(s *ast.If) {
	trueLabel, falseLabel := g.genLabel(), g.genLabel()

	g.genCondition(s.Cond, trueLabel, falseLabel)

	trueBlock := g.script.NewBlock(trueLabel)
	g.current = trueBlock
	g.genBlock(s.Then)
	g.current.Emit(Branch, Operand{Kind: OperandLabel, Label: falseLabel})

	falseBlock := g.script.NewBlock(falseLabel)
	g.current = falseBlock

	if s.Else != nil {
		g.genBlock(s.Else)
	}
}

// genWhile lowers a while loop via a pre-header block that re-evaluates the
// condition on every iteration, mirroring the if lowering.
func (g *Generator) genWhile(s *ast.While) {
	preheader := g.genLabel()
	g.current.Emit(Branch, Operand{Kind: OperandLabel, Label: preheader})

	preBlock := g.script.NewBlock(preheader)
	g.current = preBlock

	bodyLabel, afterLabel := g.genLabel(), g.genLabel()
	g.genCondition(s.Cond, bodyLabel, afterLabel)

	bodyBlock := g.script.NewBlock(bodyLabel)
	g.current = bodyBlock
	g.genBlock(s.Body)
	g.current.Emit(Branch, Operand{Kind: OperandLabel, Label: preheader})

	afterBlock := g.script.NewBlock(afterLabel)
	g.current = afterBlock
}

// genCondition evaluates cond and branches to trueLabel/falseLabel. A bare
// comparison lowers to its branch opcode directly; anything else evaluates
// to an int and uses BRANCH_IF_TRUE.
func (g *Generator) genCondition(cond ast.Expr, trueLabel, falseLabel string) {
	if bop, ok := cond.(*ast.BinaryOp); ok {
		g.genExpr(bop.Left)
		g.genExpr(bop.Right)

		op, ok := comparisonOpcode(bop.Op)
		if !ok {
			panic(fmt.Sprintf("internal: unmapped comparison operator %q", bop.Op))
		}

		g.current.Emit(op, Operand{Kind: OperandLabel, Label: trueLabel})
		g.current.Emit(Branch, Operand{Kind: OperandLabel, Label: falseLabel})

		return
	}

	g.genExpr(cond)
	g.current.Emit(BranchIfTrue, Operand{Kind: OperandLabel, Label: trueLabel})
	g.current.Emit(Branch, Operand{Kind: OperandLabel, Label: falseLabel})
}

func (g *Generator) genReturn(r *ast.Return) {
	for _, v := range r.Values {
		g.genExpr(v)
	}

	g.current.Emit(Return, Operand{Kind: OperandInt, IntValue: 0})
}

func (g *Generator) genVarDecl(v *ast.VarDecl) {
	stack := v.Type.Stack

	if v.Init != nil {
		g.genExpr(v.Init)
	} else {
		g.emitDefault(stack)
	}

	ref := g.script.Locals.DeclareLocal(v.Name, stack)
	g.current.Emit(popOpcodeForLocal(stack), Operand{Kind: OperandLocal, Local: ref})
}

func (g *Generator) genAssign(a *ast.Assign) {
	g.genExpr(a.Value)
	g.genStoreVar(a.Target)
}

func (g *Generator) genStoreVar(v *ast.VarExpr) {
	switch v.Scope {
	case ast.ScopeLocal:
		ref, ok := g.script.Locals.Lookup(v.Name)
		if !ok {
			panic("internal: unresolved local at codegen: $" + v.Name)
		}

		g.current.Emit(popOpcodeForLocal(ref.Stack), Operand{Kind: OperandLocal, Local: ref})
	case ast.ScopePlayer:
		g.current.Emit(PopVarp, Operand{Kind: OperandSymbol, Symbol: v.Name})
	case ast.ScopePlayerBit:
		g.current.Emit(PopVarpBit, Operand{Kind: OperandSymbol, Symbol: v.Name})
	case ast.ScopeClientInt:
		g.current.Emit(PopVarcInt, Operand{Kind: OperandSymbol, Symbol: v.Name})
	case ast.ScopeClientString:
		g.current.Emit(PopVarcString, Operand{Kind: OperandSymbol, Symbol: v.Name})
	}
}

func (g *Generator) emitDefault(stack ast.StackType) {
	switch stack {
	case ast.StackInt:
		g.current.Emit(PushIntConstant, Operand{Kind: OperandInt, IntValue: 0})
	case ast.StackLong:
		g.current.Emit(PushLongConstant, Operand{Kind: OperandLong, LongValue: 0})
	case ast.StackString:
		g.current.Emit(PushStringConstant, Operand{Kind: OperandString, StringValue: ""})
	}
}

func popOpcodeForLocal(stack ast.StackType) CoreOpcode {
	switch stack {
	case ast.StackLong:
		return PopLongLocal
	case ast.StackString:
		return PopStringLocal
	default:
		return PopIntLocal
	}
}

func pushOpcodeForLocal(stack ast.StackType) CoreOpcode {
	switch stack {
	case ast.StackLong:
		return PushLongLocal
	case ast.StackString:
		return PushStringLocal
	default:
		return PushIntLocal
	}
}

// genExpr evaluates e and pushes its result onto the appropriate stack.
func (g *Generator) genExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.IntLit:
		g.current.Emit(PushIntConstant, Operand{Kind: OperandInt, IntValue: ex.Value})
	case *ast.LongLit:
		g.current.Emit(PushLongConstant, Operand{Kind: OperandLong, LongValue: ex.Value})
	case *ast.StringLit:
		g.current.Emit(PushStringConstant, Operand{Kind: OperandString, StringValue: ex.Value})
	case *ast.BoolLit:
		v := int32(0)
		if ex.Value {
			v = 1
		}

		g.current.Emit(PushIntConstant, Operand{Kind: OperandInt, IntValue: v})
	case *ast.VarExpr:
		g.genLoadVar(ex)
	case *ast.Ident:
		g.genIdentRef(ex.Name)
	case *ast.ConstRef:
		g.genConstRef(ex.Name)
	case *ast.Concat:
		for _, p := range ex.Parts {
			g.genExpr(p)
		}

		g.current.Emit(JoinString, Operand{Kind: OperandInt, IntValue: int32(len(ex.Parts))})
	case *ast.Calc:
		g.genExpr(ex.Left)
		g.genExpr(ex.Right)

		op, ok := arithmeticOpcode(ex.Op)
		if !ok {
			panic(fmt.Sprintf("internal: unmapped calc operator %q", ex.Op))
		}

		g.current.Emit(op, Operand{})
	case *ast.Gosub:
		g.genGosub(ex)
	case *ast.CommandCall:
		g.genCommandCall(ex)
	case *ast.BinaryOp:
		panic("internal: comparison expression outside if/while condition is not representable in bytecode")
	default:
		panic(fmt.Sprintf("internal: unhandled expression node %T in codegen", e))
	}
}

func (g *Generator) genLoadVar(v *ast.VarExpr) {
	switch v.Scope {
	case ast.ScopeLocal:
		ref, ok := g.script.Locals.Lookup(v.Name)
		if !ok {
			panic("internal: unresolved local at codegen: $" + v.Name)
		}

		g.current.Emit(pushOpcodeForLocal(ref.Stack), Operand{Kind: OperandLocal, Local: ref})
	case ast.ScopePlayer:
		g.current.Emit(PushVarp, Operand{Kind: OperandSymbol, Symbol: v.Name})
	case ast.ScopePlayerBit:
		g.current.Emit(PushVarpBit, Operand{Kind: OperandSymbol, Symbol: v.Name})
	case ast.ScopeClientInt:
		g.current.Emit(PushVarcInt, Operand{Kind: OperandSymbol, Symbol: v.Name})
	case ast.ScopeClientString:
		g.current.Emit(PushVarcString, Operand{Kind: OperandSymbol, Symbol: v.Name})
	}
}

// genIdentRef resolves a bare identifier the same way the semantic checker
// does: a parameter or local by that name takes priority over a global
// constant of the same name.
func (g *Generator) genIdentRef(name string) {
	if ref, ok := g.script.Locals.Lookup(name); ok {
		g.current.Emit(pushOpcodeForLocal(ref.Stack), Operand{Kind: OperandLocal, Local: ref})
		return
	}

	g.genConstRef(name)
}

func (g *Generator) genConstRef(name string) {
	sym, ok := g.table.Lookup(symtab.KindConstant, name)
	if !ok {
		panic("internal: unresolved constant at codegen: " + name)
	}

	switch sym.Type.Stack {
	case ast.StackLong:
		g.current.Emit(PushLongConstant, Operand{Kind: OperandLong, LongValue: toInt64(sym.Value)})
	case ast.StackString:
		s, _ := sym.Value.(string)
		g.current.Emit(PushStringConstant, Operand{Kind: OperandString, StringValue: s})
	default:
		g.current.Emit(PushIntConstant, Operand{Kind: OperandInt, IntValue: int32(toInt64(sym.Value))})
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case bool:
		if n {
			return 1
		}

		return 0
	default:
		return 0
	}
}

func (g *Generator) genGosub(gs *ast.Gosub) {
	for _, a := range gs.Args {
		g.genExpr(a)
	}

	target := gs.Name

	if sym, ok := g.table.LookupScript("proc", gs.Name); ok {
		target = sym.FullName()
	}

	g.current.Emit(GosubWithParams, Operand{Kind: OperandSymbol, Symbol: target})
}

func (g *Generator) genCommandCall(cc *ast.CommandCall) {
	for _, a := range cc.Args {
		g.genExpr(a)
	}

	opcode := 0
	if sym, ok := g.table.Lookup(symtab.KindCommand, cc.Name); ok {
		opcode = sym.Opcode
	}

	alt := int32(0)
	if cc.Alternative {
		alt = 1
	}

	g.current.EmitCall(opcode, Operand{Kind: OperandInt, IntValue: alt})
}
