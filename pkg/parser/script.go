package parser

import (
	"strconv"
	"strings"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/token"
)

// ScriptParser parses the scripting dialect.
type ScriptParser struct {
	base
}

// NewScriptParser constructs a parser over a source file, tokenized with the
// shared script lexical table.
func NewScriptParser(file *source.File) *ScriptParser {
	tab := NewScriptTable()
	lx := token.NewLexer(token.NewTokenizer(file, tab, token.Options{}))

	return &ScriptParser{newBase(file, lx)}
}

// ParseScriptFile parses a complete script source file. It always returns a
// (possibly partial) tree; errors are available via Errors().
func (p *ScriptParser) ParseScriptFile() *ast.ScriptFile {
	start := p.peek().Range
	var scripts []*ast.Script
	//
	for p.lex.Remaining() {
		scripts = append(scripts, p.parseScript())
	}
	//
	end := start
	if len(scripts) > 0 {
		end = scripts[len(scripts)-1].Range
	}

	return &ast.ScriptFile{Base: ast.NewBase(source.Cover(start, end)), Scripts: scripts}
}

func (p *ScriptParser) parseScript() *ast.Script {
	start := p.peek().Range
	//
	p.expect(token.Separator, "[")
	trigger := p.parseIdentName()
	p.expect(token.Separator, ",")
	name := p.parseIdentName()
	p.expect(token.Separator, "]")

	var params []*ast.Parameter

	if p.at(token.Separator, "(") && p.looksLikeParamList() {
		params = p.parseParameters()
	}

	var returns []ast.Type
	if p.at(token.Separator, "(") {
		returns = p.parseReturnTypes()
	}

	body := p.parseBlock()
	end := body.Range

	return &ast.Script{
		Base:       ast.NewBase(source.Cover(start, end)),
		Trigger:    trigger,
		Name:       name,
		Parameters: params,
		Returns:    returns,
		Body:       body,
	}
}

// looksLikeParamList distinguishes "(types...)" parameter lists from a
// return-type-only tuple by checking whether the first token after '(' is a
// type name followed by a '$'-prefixed parameter name. A simpler, robust
// heuristic: a parameter list's entries are "<type> $name", so we scan ahead
// for a '$' before the matching ')'.
func (p *ScriptParser) looksLikeParamList() bool {
	depth := 0
	for i := 0; ; i++ {
		tok := p.peekAt(i)
		if tok.IsEOF() {
			return false
		}

		if tok.Is(token.Separator, "(") {
			depth++
		} else if tok.Is(token.Separator, ")") {
			depth--
			if depth == 0 {
				return false
			}
		} else if tok.Is(token.Separator, "$") && depth == 1 {
			return true
		}
	}
}

func (p *ScriptParser) parseParameters() []*ast.Parameter {
	p.expect(token.Separator, "(")

	var params []*ast.Parameter

	for !p.at(token.Separator, ")") && !p.peek().IsEOF() {
		start := p.peek().Range
		typ := p.parseTypeName()
		p.expect(token.Separator, "$")
		nameTok, _ := p.expect(token.Ident, "")

		params = append(params, &ast.Parameter{
			Base: ast.NewBase(source.Cover(start, nameTok.Range)),
			Name: nameTok.Lexeme,
			Type: typ,
		})

		if p.at(token.Separator, ",") {
			p.take()
		}
	}

	p.expect(token.Separator, ")")

	return params
}

func (p *ScriptParser) parseReturnTypes() []ast.Type {
	p.expect(token.Separator, "(")

	var types []ast.Type

	for !p.at(token.Separator, ")") && !p.peek().IsEOF() {
		types = append(types, p.parseTypeName())

		if p.at(token.Separator, ",") {
			p.take()
		}
	}

	p.expect(token.Separator, ")")

	return types
}

func (p *ScriptParser) parseTypeName() ast.Type {
	tok := p.peek()
	if tok.Kind != token.Ident && tok.Kind != token.Keyword {
		p.errorf(tok.Range, "expected type name, found %s '%s'", tok.Kind, tok.Lexeme)
		p.take()

		return ast.TypeUnknown
	}

	p.take()

	return resolvePrimitiveName(tok.Lexeme)
}

func resolvePrimitiveName(name string) ast.Type {
	switch name {
	case "int":
		return ast.TypeInt
	case "long":
		return ast.TypeLong
	case "string":
		return ast.TypeString
	case "boolean":
		return ast.TypeBool
	default:
		return ast.NewPrimitive(name, ast.StackInt)
	}
}

func (p *ScriptParser) parseIdentName() string {
	tok, _ := p.expect(token.Ident, "")
	return tok.Lexeme
}

func (p *ScriptParser) parseBlock() *ast.Block {
	start, _ := p.expect(token.Separator, "{")
	var stmts []ast.Stmt

	for !p.at(token.Separator, "}") && !p.peek().IsEOF() {
		stmts = append(stmts, p.parseStmt())
	}

	end, _ := p.expect(token.Separator, "}")

	return &ast.Block{Base: ast.NewBase(source.Cover(start.Range, end.Range)), Stmts: stmts}
}

func (p *ScriptParser) parseStmt() ast.Stmt {
	tok := p.peek()

	switch {
	case tok.Is(token.Separator, "{"):
		return p.parseBlock()
	case tok.Is(token.Keyword, KwIf):
		return p.parseIf()
	case tok.Is(token.Keyword, KwWhile):
		return p.parseWhile()
	case tok.Is(token.Keyword, KwReturn):
		return p.parseReturn()
	case tok.Kind == token.Keyword && strings.HasPrefix(tok.Lexeme, "def_"):
		return p.parseVarDecl()
	case tok.Is(token.Separator, "$") && p.peekAt(2).Is(token.Operator, "="):
		return p.parseAssign()
	default:
		return p.parseExprStmt()
	}
}

func (p *ScriptParser) parseIf() ast.Stmt {
	start := p.peek().Range
	p.take() // if
	p.expect(token.Separator, "(")
	cond := p.parseExpr()
	p.expect(token.Separator, ")")
	thenBlk := p.parseBlock()

	var elseBlk *ast.Block
	if p.at(token.Keyword, KwElse) {
		p.take()
		elseBlk = p.parseBlock()
	}

	end := thenBlk.Range
	if elseBlk != nil {
		end = elseBlk.Range
	}

	return &ast.If{Base: ast.NewBase(source.Cover(start, end)), Cond: cond, Then: thenBlk, Else: elseBlk}
}

func (p *ScriptParser) parseWhile() ast.Stmt {
	start := p.peek().Range
	p.take()
	p.expect(token.Separator, "(")
	cond := p.parseExpr()
	p.expect(token.Separator, ")")
	body := p.parseBlock()

	return &ast.While{Base: ast.NewBase(source.Cover(start, body.Range)), Cond: cond, Body: body}
}

func (p *ScriptParser) parseReturn() ast.Stmt {
	start := p.peek().Range
	p.take()

	var values []ast.Expr

	if p.at(token.Separator, "(") {
		p.take()

		for !p.at(token.Separator, ")") && !p.peek().IsEOF() {
			values = append(values, p.parseExpr())

			if p.at(token.Separator, ",") {
				p.take()
			}
		}

		p.expect(token.Separator, ")")
	}

	end, ok := p.expect(token.Separator, ";")
	if !ok {
		p.recover(";")
	}

	r := start
	if ok {
		r = source.Cover(start, end.Range)
	}

	return &ast.Return{Base: ast.NewBase(r), Values: values}
}

func (p *ScriptParser) parseVarDecl() ast.Stmt {
	start := p.peek().Range
	kwTok := p.take()
	typ := resolvePrimitiveName(strings.TrimPrefix(kwTok.Lexeme, "def_"))
	p.expect(token.Separator, "$")
	nameTok, _ := p.expect(token.Ident, "")

	var init ast.Expr
	if p.at(token.Operator, "=") {
		p.take()
		init = p.parseExpr()
	}

	end, ok := p.expect(token.Separator, ";")
	if !ok {
		p.recover(";")
	}

	r := source.Cover(start, nameTok.Range)
	if ok {
		r = source.Cover(start, end.Range)
	}

	return &ast.VarDecl{Base: ast.NewBase(r), Name: nameTok.Lexeme, Type: typ, Init: init}
}

func (p *ScriptParser) parseAssign() ast.Stmt {
	start := p.peek().Range
	target := p.parseVarExpr()
	p.expect(token.Operator, "=")
	value := p.parseExpr()

	end, ok := p.expect(token.Separator, ";")
	if !ok {
		p.recover(";")
	}

	r := source.Cover(start, value.Span())
	if ok {
		r = source.Cover(start, end.Range)
	}

	return &ast.Assign{Base: ast.NewBase(r), Target: target, Value: value}
}

func (p *ScriptParser) parseExprStmt() ast.Stmt {
	start := p.peek().Range
	value := p.parseExpr()

	end, ok := p.expect(token.Separator, ";")
	if !ok {
		p.recover(";")
	}

	r := source.Cover(start, value.Span())
	if ok {
		r = source.Cover(start, end.Range)
	}

	return &ast.ExprStmt{Base: ast.NewBase(r), Value: value}
}

// parseExpr parses a full expression, handling the relational-comparison
// level above the additive/primary levels.
func (p *ScriptParser) parseExpr() ast.Expr {
	left := p.parseAdditive()

	if op, ok := p.matchComparison(); ok {
		right := p.parseAdditive()
		return &ast.BinaryOp{Base: ast.NewBase(source.Cover(left.Span(), right.Span())), Op: op, Left: left, Right: right}
	}

	return left
}

func (p *ScriptParser) matchComparison() (string, bool) {
	for _, op := range []string{"==", "<=", ">=", "<", ">"} {
		if p.at(token.Operator, op) {
			p.take()
			return op, true
		}
	}

	return "", false
}

func (p *ScriptParser) parseAdditive() ast.Expr {
	left := p.parsePrimary()
	//
	for p.at(token.Operator, "+") || p.at(token.Operator, "-") || p.at(token.Operator, "*") || p.at(token.Operator, "/") {
		op := p.take().Lexeme
		right := p.parsePrimary()
		left = &ast.Calc{Base: ast.NewBase(source.Cover(left.Span(), right.Span())), Op: op, Left: left, Right: right}
	}

	return left
}

func (p *ScriptParser) parsePrimary() ast.Expr {
	tok := p.peek()

	switch {
	case tok.Kind == token.Int:
		p.take()
		return p.intLit(tok)
	case tok.Kind == token.Long:
		p.take()
		return p.longLit(tok)
	case tok.Kind == token.Bool:
		p.take()

		return &ast.BoolLit{Base: ast.NewBase(tok.Range), Value: tok.Lexeme == "true"}
	case tok.Kind == token.String:
		p.take()
		return p.parseStringLiteral(tok)
	case tok.Is(token.Separator, "$"), tok.Is(token.Separator, "%"), tok.Is(token.Separator, "@"), tok.Is(token.Separator, "^"):
		return p.parseVarExpr()
	case tok.Is(token.Separator, "~"):
		return p.parseGosub()
	case tok.Is(token.Keyword, KwCalc):
		return p.parseCalcCall()
	case tok.Kind == token.Ident && p.peekAt(1).Is(token.Separator, "("):
		return p.parseCommandCall()
	case tok.Kind == token.Ident:
		p.take()
		return &ast.Ident{Base: ast.NewBase(tok.Range), Name: tok.Lexeme}
	case tok.Is(token.Separator, "("):
		p.take()
		inner := p.parseExpr()
		p.expect(token.Separator, ")")

		return inner
	default:
		p.errorf(tok.Range, "unexpected token '%s'", tok.Lexeme)
		p.take()

		return &ast.Ident{Base: ast.NewBase(tok.Range), Name: "<error>"}
	}
}

func (p *ScriptParser) intLit(tok token.Token) ast.Expr {
	v, _ := parseIntLiteral(tok.Lexeme)
	return &ast.IntLit{Base: ast.NewBase(tok.Range), Value: int32(v)}
}

func (p *ScriptParser) longLit(tok token.Token) ast.Expr {
	v, _ := parseLongLiteral(tok.Lexeme)
	return &ast.LongLit{Base: ast.NewBase(tok.Range), Value: v}
}

func parseIntLiteral(lexeme string) (int64, error) {
	s := strings.TrimSuffix(strings.TrimSuffix(lexeme, "L"), "l")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 64)
		return v, err
	}

	return strconv.ParseInt(s, 10, 64)
}

func parseLongLiteral(lexeme string) (int64, error) {
	return parseIntLiteral(lexeme)
}

// parseStringLiteral splits a string literal into a Concat of literal and
// "<expr>" placeholder parts, or returns a plain StringLit when there are no
// placeholders.
func (p *ScriptParser) parseStringLiteral(tok token.Token) ast.Expr {
	text := tok.Lexeme
	//
	if !strings.Contains(text, "<") {
		return &ast.StringLit{Base: ast.NewBase(tok.Range), Value: text}
	}

	var parts []ast.Expr

	rest := text
	for {
		i := strings.IndexByte(rest, '<')
		if i < 0 {
			if rest != "" {
				parts = append(parts, &ast.StringLit{Base: ast.NewBase(tok.Range), Value: rest})
			}

			break
		}

		if i > 0 {
			parts = append(parts, &ast.StringLit{Base: ast.NewBase(tok.Range), Value: rest[:i]})
		}

		j := strings.IndexByte(rest[i:], '>')
		if j < 0 {
			p.errorf(tok.Range, "unterminated placeholder in string literal")
			break
		}

		inner := rest[i+1 : i+j]
		parts = append(parts, p.parsePlaceholderExpr(inner, tok))
		rest = rest[i+j+1:]
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return &ast.Concat{Base: ast.NewBase(tok.Range), Parts: parts}
}

// parsePlaceholderExpr parses the text inside a "<...>" string-literal
// placeholder as a full expression, run through its own sub-parse over the
// placeholder's own token stream, so "<$name>", "<%player>", "<calc(...)>"
// etc. all resolve exactly the way the same text would outside a string.
// Any errors the sub-parse reports are folded into the enclosing parser's
// diagnostics, anchored to the whole string literal.
func (p *ScriptParser) parsePlaceholderExpr(inner string, tok token.Token) ast.Expr {
	sub := NewScriptParser(source.NewFile(p.file.Filename(), []byte(inner)))
	expr := sub.parseExpr()

	for _, err := range sub.Errors() {
		p.errorf(tok.Range, "invalid placeholder expression: %s", err.Message())
	}

	return expr
}

func (p *ScriptParser) parseVarExpr() *ast.VarExpr {
	start := p.peek().Range
	scope := ast.ScopeLocal

	switch {
	case p.at(token.Separator, "$"):
		p.take()
		scope = ast.ScopeLocal
	case p.at(token.Separator, "%"):
		first := p.take()

		if p.at(token.Separator, "%") && p.peek().Range.Start == first.Range.End {
			p.take()
			scope = ast.ScopePlayerBit
		} else {
			scope = ast.ScopePlayer
		}
	case p.at(token.Separator, "@"):
		p.take()
		scope = ast.ScopeClientInt
	case p.at(token.Separator, "^"):
		p.take()
		scope = ast.ScopeClientString
	}

	nameTok, _ := p.expect(token.Ident, "")

	return &ast.VarExpr{Base: ast.NewBase(source.Cover(start, nameTok.Range)), Scope: scope, Name: nameTok.Lexeme}
}

func (p *ScriptParser) parseGosub() ast.Expr {
	start := p.peek().Range
	p.take() // ~
	nameTok, _ := p.expect(token.Ident, "")
	args := p.parseArgs()

	end := nameTok.Range
	if len(args) > 0 {
		end = args[len(args)-1].Span()
	}

	return &ast.Gosub{Base: ast.NewBase(source.Cover(start, end)), Name: nameTok.Lexeme, Args: args}
}

func (p *ScriptParser) parseCommandCall() ast.Expr {
	nameTok := p.take()
	args := p.parseArgs()
	end := nameTok.Range

	if len(args) > 0 {
		end = args[len(args)-1].Span()
	}

	return &ast.CommandCall{Base: ast.NewBase(source.Cover(nameTok.Range, end)), Name: nameTok.Lexeme, Args: args}
}

func (p *ScriptParser) parseCalcCall() ast.Expr {
	start := p.peek().Range
	p.take() // calc
	p.expect(token.Separator, "(")
	inner := p.parseExpr()
	end, _ := p.expect(token.Separator, ")")

	if bop, ok := inner.(*ast.BinaryOp); ok {
		return &ast.Calc{Base: ast.NewBase(source.Cover(start, end.Range)), Op: bop.Op, Left: bop.Left, Right: bop.Right}
	}

	return inner
}

func (p *ScriptParser) parseArgs() []ast.Expr {
	p.expect(token.Separator, "(")

	var args []ast.Expr

	for !p.at(token.Separator, ")") && !p.peek().IsEOF() {
		args = append(args, p.parseExpr())

		if p.at(token.Separator, ",") {
			p.take()
		}
	}

	p.expect(token.Separator, ")")

	return args
}
