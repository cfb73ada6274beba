package token

import (
	"testing"

	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/util/assert"
)

func scriptTable() *Table {
	t := NewTable()
	t.AddKeywords("if", "while", "return", "def_int")
	t.AddSeparators("(){};,[]")
	t.AddOperators("==", "<=", ">=", "<", ">", "=")
	t.AddBoolean("true", true)
	t.AddBoolean("false", false)
	//
	return t
}

func collect(tb *Table, src string) []Token {
	f := source.NewFile("t", []byte(src))
	tz := NewTokenizer(f, tb, Options{})
	lx := NewLexer(tz)
	//
	var toks []Token
	for lx.Remaining() {
		toks = append(toks, lx.Take())
	}
	//
	return toks
}

// Position fidelity: the source slice of every token's range equals its
// lexeme, for tokens whose lexeme is not decoded (i.e. everything but
// strings and coordinates).
func TestPositionFidelity(t *testing.T) {
	f := source.NewFile("t", []byte("if (x == 3) return;"))
	tb := scriptTable()
	tz := NewTokenizer(f, tb, Options{})
	lx := NewLexer(tz)
	//
	for lx.Remaining() {
		tok := lx.Take()
		if tok.Kind == String {
			continue
		}

		got := f.Slice(tok.Range)
		assert.Equal(t, tok.Lexeme, got)
	}
}

func TestKeywordWinsOverIdentifier(t *testing.T) {
	toks := collect(scriptTable(), "if ifnot")
	assert.Equal(t, Keyword, toks[0].Kind)
	assert.Equal(t, Ident, toks[1].Kind)
}

func TestIntBoundary(t *testing.T) {
	tb := scriptTable()
	toks := collect(tb, "2147483647")
	assert.Equal(t, Int, toks[0].Kind)

	f := source.NewFile("t", []byte("2147483648"))
	tz := NewTokenizer(f, tb, Options{})
	tz.Next()
	assert.Equal(t, 1, len(tz.Errors()))
}

func TestLongBoundary(t *testing.T) {
	tb := scriptTable()
	toks := collect(tb, "9223372036854775807L")
	assert.Equal(t, Long, toks[0].Kind)

	f := source.NewFile("t", []byte("9223372036854775808L"))
	tz := NewTokenizer(f, tb, Options{})
	tz.Next()
	assert.Equal(t, 1, len(tz.Errors()))
}

func TestStringEscape(t *testing.T) {
	toks := collect(scriptTable(), `"hi\nthere"`)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "hi\nthere", toks[0].Lexeme)
}

func TestUnterminatedString(t *testing.T) {
	tb := scriptTable()
	f := source.NewFile("t", []byte(`"oops`))
	tz := NewTokenizer(f, tb, Options{})
	tok := tz.Next()
	assert.Equal(t, String, tok.Kind)
	assert.Equal(t, 1, len(tz.Errors()))
}

func TestCoordinateLiteral(t *testing.T) {
	tb := scriptTable()
	f := source.NewFile("t", []byte("#3200_3200_0"))
	tz := NewTokenizer(f, tb, Options{CoordSigil: '#'})
	tok := tz.Next()
	assert.Equal(t, Coord, tok.Kind)
	assert.Equal(t, "3200_3200_0", tok.Lexeme)
}

func TestLongestMatchOperator(t *testing.T) {
	toks := collect(scriptTable(), "x <= 3")
	assert.Equal(t, Operator, toks[1].Kind)
	assert.Equal(t, "<=", toks[1].Lexeme)
}
