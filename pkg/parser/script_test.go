package parser

import (
	"testing"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/util/assert"
)

func parseScriptSrc(t *testing.T, src string) *ast.ScriptFile {
	t.Helper()

	file := source.NewFile("t.script", []byte(src))
	p := NewScriptParser(file)
	tree := p.ParseScriptFile()

	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	return tree
}

func TestParseScriptParametersAndReturns(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,add](int $a, int $b)(int){ return(1); }`)

	s := tree.Scripts[0]
	assert.Equal(t, "proc", s.Trigger)
	assert.Equal(t, "add", s.Name)
	assert.Equal(t, 2, len(s.Parameters))
	assert.Equal(t, "a", s.Parameters[0].Name)
	assert.Equal(t, ast.TypeInt, s.Parameters[0].Type)
	assert.Equal(t, 1, len(s.Returns))
	assert.Equal(t, ast.TypeInt, s.Returns[0])
}

// looksLikeParamList must distinguish a parameter list from a
// return-type-only tuple: "(int $a)" declares a parameter, "(int)" alone
// (with no preceding parameter list) declares a return type.
func TestParseScriptReturnOnlyTupleIsNotMistakenForParams(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,noargs](int){ return(1); }`)

	s := tree.Scripts[0]
	assert.Equal(t, 0, len(s.Parameters))
	assert.Equal(t, 1, len(s.Returns))
}

func TestParseIfElse(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,branchy]{
		if ($x == 1) {
			return;
		} else {
			return;
		}
	}`)

	body := tree.Scripts[0].Body
	assert.Equal(t, 1, len(body.Stmts))

	ifStmt, ok := body.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", body.Stmts[0])
	}

	cond, ok := ifStmt.Cond.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected *ast.BinaryOp condition, got %T", ifStmt.Cond)
	}

	assert.Equal(t, "==", cond.Op)
	if ifStmt.Else == nil {
		t.Fatalf("expected an else block")
	}
}

func TestParseWhileLoop(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,loop]{
		while ($i < 10) {
			$i = $i + 1;
		}
	}`)

	_, ok := tree.Scripts[0].Body.Stmts[0].(*ast.While)
	if !ok {
		t.Fatalf("expected *ast.While, got %T", tree.Scripts[0].Body.Stmts[0])
	}
}

func TestParseVarDeclWithDefault(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,decl]{ def_int $x = 5; }`)

	decl, ok := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", tree.Scripts[0].Body.Stmts[0])
	}

	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, ast.TypeInt, decl.Type)

	lit, ok := decl.Init.(*ast.IntLit)
	if !ok {
		t.Fatalf("expected *ast.IntLit init, got %T", decl.Init)
	}

	assert.Equal(t, int32(5), lit.Value)
}

func TestParseGosubWithArgs(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,caller]{ ~callee(1, $x); return; }`)

	stmt := tree.Scripts[0].Body.Stmts[0].(*ast.ExprStmt)
	gosub, ok := stmt.Value.(*ast.Gosub)
	if !ok {
		t.Fatalf("expected *ast.Gosub, got %T", stmt.Value)
	}

	assert.Equal(t, "callee", gosub.Name)
	assert.Equal(t, 2, len(gosub.Args))
}

func TestParseCommandCall(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,printer]{ println("hi"); }`)

	stmt := tree.Scripts[0].Body.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.Value.(*ast.CommandCall)
	if !ok {
		t.Fatalf("expected *ast.CommandCall, got %T", stmt.Value)
	}

	assert.Equal(t, "println", call.Name)
	assert.Equal(t, 1, len(call.Args))
}

// "%%" (adjacent, no intervening whitespace) denotes the player-bit scope;
// a lone "%" denotes the ordinary player scope.
func TestParsePlayerBitScopeRequiresAdjacentPercents(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,bits]{ def_int $x = %%flag; }`)

	decl := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	v := decl.Init.(*ast.VarExpr)
	assert.Equal(t, ast.ScopePlayerBit, v.Scope)
	assert.Equal(t, "flag", v.Name)
}

func TestParsePlayerScopeSinglePercent(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,single]{ def_int $x = %var; }`)

	decl := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	v := decl.Init.(*ast.VarExpr)
	assert.Equal(t, ast.ScopePlayer, v.Scope)
}

// A string literal containing a "<$name>" placeholder lowers to a Concat of
// a literal part and the placeholder's inner text parsed as a full
// expression — here a scoped local reference, not a bare constant name.
func TestParseStringLiteralWithPlaceholder(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,greet]{ def_string $s = "hello <$name>"; }`)

	decl := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	concat, ok := decl.Init.(*ast.Concat)
	if !ok {
		t.Fatalf("expected *ast.Concat, got %T", decl.Init)
	}

	assert.Equal(t, 2, len(concat.Parts))

	lit, ok := concat.Parts[0].(*ast.StringLit)
	if !ok {
		t.Fatalf("expected *ast.StringLit first part, got %T", concat.Parts[0])
	}

	assert.Equal(t, "hello ", lit.Value)

	v, ok := concat.Parts[1].(*ast.VarExpr)
	if !ok {
		t.Fatalf("expected *ast.VarExpr second part, got %T", concat.Parts[1])
	}

	assert.Equal(t, ast.ScopeLocal, v.Scope)
	assert.Equal(t, "name", v.Name)
}

// A placeholder may hold any expression, not just a bare "$name" reference —
// e.g. a player-scoped variable or a gosub call.
func TestParseStringLiteralPlaceholderArbitraryExpr(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,greet]{ def_string $s = "points: <%score>"; }`)

	decl := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	concat := decl.Init.(*ast.Concat)

	v, ok := concat.Parts[1].(*ast.VarExpr)
	if !ok {
		t.Fatalf("expected *ast.VarExpr second part, got %T", concat.Parts[1])
	}

	assert.Equal(t, ast.ScopePlayer, v.Scope)
	assert.Equal(t, "score", v.Name)
}

// A placeholder containing a bare name with no sigil still resolves as an
// unresolved Ident at parse time — its final resolution (parameter, local,
// or constant) happens during the semantic pass.
func TestParseStringLiteralPlaceholderBareNameIsIdent(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,greet]{ def_string $s = "hi <CONST_NAME>"; }`)

	decl := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	concat := decl.Init.(*ast.Concat)

	ident, ok := concat.Parts[1].(*ast.Ident)
	if !ok {
		t.Fatalf("expected *ast.Ident second part, got %T", concat.Parts[1])
	}

	assert.Equal(t, "CONST_NAME", ident.Name)
}

func TestParseCalcCallUnwrapsToCalcNode(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,math]{ def_int $x = calc($a + $b); }`)

	decl := tree.Scripts[0].Body.Stmts[0].(*ast.VarDecl)
	calc, ok := decl.Init.(*ast.Calc)
	if !ok {
		t.Fatalf("expected *ast.Calc, got %T", decl.Init)
	}

	assert.Equal(t, "+", calc.Op)
}

func TestParseMultipleScriptsInOneFile(t *testing.T) {
	tree := parseScriptSrc(t, `[proc,a]{ return; } [proc,b]{ return; }`)

	assert.Equal(t, 2, len(tree.Scripts))
	assert.Equal(t, "a", tree.Scripts[0].Name)
	assert.Equal(t, "b", tree.Scripts[1].Name)
}

// A malformed statement is recovered from rather than aborting the whole
// file: the parser resynchronizes at the next ';' and keeps going.
func TestParseRecoversFromMalformedStatement(t *testing.T) {
	file := source.NewFile("t.script", []byte(`[proc,bad]{ def_int $x = ; return; }`))
	p := NewScriptParser(file)
	tree := p.ParseScriptFile()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one syntax error")
	}

	assert.Equal(t, 1, len(tree.Scripts))
}
