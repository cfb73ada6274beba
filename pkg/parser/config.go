package parser

import (
	"strconv"
	"strings"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/token"
)

// ConfigParser parses the configuration dialect.
type ConfigParser struct {
	base
}

// NewConfigParser constructs a parser over a source file, tokenized with the
// shared config lexical table. Coordinate-grid literals are introduced with
// '#', e.g. "#3200_3200_0".
func NewConfigParser(file *source.File) *ConfigParser {
	tab := NewConfigTable()
	lx := token.NewLexer(token.NewTokenizer(file, tab, token.Options{CoordSigil: '#'}))

	return &ConfigParser{newBase(file, lx)}
}

// ParseConfigFile parses a complete config source file: zero or more
// "[name]\nkey=value..." declarations.
func (p *ConfigParser) ParseConfigFile() *ast.ConfigFile {
	start := p.peek().Range
	var configs []*ast.Config

	for p.lex.Remaining() {
		configs = append(configs, p.parseConfig())
	}

	end := start
	if len(configs) > 0 {
		end = configs[len(configs)-1].Range
	}

	return &ast.ConfigFile{Base: ast.NewBase(source.Cover(start, end)), Configs: configs}
}

func (p *ConfigParser) parseConfig() *ast.Config {
	start := p.peek().Range

	if !p.at(token.Separator, "[") {
		p.errorf(start, "expected '[', found %s '%s'", p.peek().Kind, p.peek().Lexeme)
		p.recover("[")
	} else {
		p.take()
	}

	nameTok, ok := p.expect(token.Ident, "")
	if !ok {
		p.recover("]")
	}

	p.expect(token.Separator, "]")

	var props []*ast.Property
	end := nameTok.Range

	for p.atPropertyStart() {
		prop := p.parseProperty()
		props = append(props, prop)
		end = prop.Range
	}

	return &ast.Config{
		Base:       ast.NewBase(source.Cover(start, end)),
		Name:       nameTok.Lexeme,
		Properties: props,
	}
}

// atPropertyStart reports whether the parser is positioned at a property
// entry rather than the next config's '[' header or end of input.
func (p *ConfigParser) atPropertyStart() bool {
	tok := p.peek()
	if tok.IsEOF() || tok.Is(token.Separator, "[") {
		return false
	}

	return tok.Kind == token.Ident || tok.Kind == token.Keyword
}

func (p *ConfigParser) parseProperty() *ast.Property {
	start := p.peek().Range
	keyTok, ok := p.expect(token.Ident, "")

	if !ok {
		p.recover(",")
		return &ast.Property{Base: ast.NewBase(start)}
	}

	if _, ok := p.expect(token.Separator, "="); !ok {
		p.recover(",")
		return &ast.Property{Base: ast.NewBase(source.Cover(start, keyTok.Range)), Key: keyTok.Lexeme}
	}

	var values []ast.Value
	values = append(values, p.parseValue())

	for p.at(token.Separator, ",") {
		p.take()
		values = append(values, p.parseValue())
	}

	end := start
	if len(values) > 0 {
		end = values[len(values)-1].Span()
	}

	return &ast.Property{
		Base:   ast.NewBase(source.Cover(start, end)),
		Key:    keyTok.Lexeme,
		Values: values,
	}
}

func (p *ConfigParser) parseValue() ast.Value {
	tok := p.peek()

	switch tok.Kind {
	case token.String:
		p.take()
		return &ast.StringValue{Base: ast.NewBase(tok.Range), Value: tok.Lexeme}
	case token.Int:
		p.take()
		v, _ := parseIntLiteral(tok.Lexeme)

		return &ast.IntValue{Base: ast.NewBase(tok.Range), Value: int32(v)}
	case token.Long:
		p.take()
		v, _ := parseLongLiteral(tok.Lexeme)

		return &ast.LongValue{Base: ast.NewBase(tok.Range), Value: v}
	case token.Bool:
		p.take()
		truthy := tok.Lexeme == "yes" || tok.Lexeme == "true"

		return &ast.BoolValue{Base: ast.NewBase(tok.Range), Value: truthy}
	case token.Coord:
		p.take()
		return p.coordValue(tok)
	case token.Ident:
		p.take()
		if isPrimitiveTypeName(tok.Lexeme) {
			return &ast.TypeLiteralValue{Base: ast.NewBase(tok.Range), Name: tok.Lexeme}
		}

		return &ast.RefValue{Base: ast.NewBase(tok.Range), Name: tok.Lexeme}
	default:
		p.errorf(tok.Range, "expected value, found %s '%s'", tok.Kind, tok.Lexeme)
		p.take()

		return &ast.RefValue{Base: ast.NewBase(tok.Range), Name: "<error>"}
	}
}

func isPrimitiveTypeName(name string) bool {
	switch name {
	case "int", "long", "string", "boolean":
		return true
	default:
		return false
	}
}

func (p *ConfigParser) coordValue(tok token.Token) ast.Value {
	parts := strings.Split(tok.Lexeme, "_")
	if len(parts) != 3 {
		p.errorf(tok.Range, "coordinate literal must have exactly 3 components, found %d", len(parts))
		return &ast.CoordValue{Base: ast.NewBase(tok.Range)}
	}

	var coords [3]int32

	for i, part := range parts {
		n, err := strconv.ParseInt(part, 10, 32)
		if err != nil {
			p.errorf(tok.Range, "malformed coordinate component '%s'", part)
			continue
		}

		coords[i] = int32(n)
	}

	return &ast.CoordValue{Base: ast.NewBase(tok.Range), X: coords[0], Y: coords[1], Z: coords[2]}
}
