package parser

import (
	"fmt"

	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/token"
)

// base is embedded by both dialect parsers. It wraps a [token.Lexer] with
// the bookkeeping every recursive-descent parser needs: diagnostic
// collection and panic-mode recovery.
type base struct {
	file   *source.File
	lex    *token.Lexer
	errors []*source.SyntaxError
}

func newBase(file *source.File, lex *token.Lexer) base {
	return base{file: file, lex: lex}
}

// Errors returns every syntax error collected so far, lexical and
// syntactic alike (lexical errors surface through the underlying lexer).
func (p *base) Errors() []*source.SyntaxError {
	return append(append([]*source.SyntaxError(nil), p.lex.Errors()...), p.errors...)
}

func (p *base) peek() token.Token {
	return p.lex.Peek(0)
}

func (p *base) peekAt(n int) token.Token {
	return p.lex.Peek(n)
}

func (p *base) take() token.Token {
	return p.lex.Take()
}

// at reports whether the next token has the given kind and (when non-empty)
// lexeme.
func (p *base) at(kind token.Kind, lexeme string) bool {
	return p.peek().Is(kind, lexeme)
}

// expect consumes the next token if it matches, or reports a diagnostic and
// returns the zero token otherwise. Callers that cannot sensibly continue
// after a mismatch should invoke recover afterwards.
func (p *base) expect(kind token.Kind, lexeme string) (token.Token, bool) {
	tok := p.peek()
	if tok.Is(kind, lexeme) {
		return p.take(), true
	}

	want := lexeme
	if want == "" {
		want = kind.String()
	}

	p.errorf(tok.Range, "expected %s, found %s '%s'", want, tok.Kind, tok.Lexeme)

	return token.Token{}, false
}

func (p *base) errorf(r source.Range, format string, args ...any) {
	err := p.file.SyntaxError(source.ErrSyntactic, r, fmt.Sprintf(format, args...))
	p.errors = append(p.errors, err)
}

// recover discards tokens until it reaches one of the given synchronization
// kinds/lexemes (inclusive — the matching token is also consumed), or EOF.
// This is panic-mode recovery: it lets one malformed construct be skipped
// without aborting the rest of the file.
func (p *base) recover(syncLexemes ...string) {
	for {
		tok := p.peek()
		if tok.IsEOF() {
			return
		}

		for _, s := range syncLexemes {
			if tok.Lexeme == s {
				p.take()
				return
			}
		}

		p.take()
	}
}
