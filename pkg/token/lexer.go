package token

import "github.com/toolc/toolc/pkg/source"

// Lexer wraps a [Tokenizer] with a look-ahead buffer so the parser can peek
// at the next token before committing to consume it.
type Lexer struct {
	tok    *Tokenizer
	buffer []Token
}

// NewLexer constructs a lexer over the given tokenizer.
func NewLexer(tok *Tokenizer) *Lexer {
	return &Lexer{tok, nil}
}

// Errors returns the lexical diagnostics accumulated by the underlying
// tokenizer so far.
func (l *Lexer) Errors() []*source.SyntaxError {
	return l.tok.Errors()
}

func (l *Lexer) fill(n int) {
	for len(l.buffer) <= n {
		l.buffer = append(l.buffer, l.tok.Next())

		if l.buffer[len(l.buffer)-1].IsEOF() {
			break
		}
	}
}

// Peek returns the nth token ahead (0 == next token to be taken) without
// consuming it.
func (l *Lexer) Peek(n int) Token {
	l.fill(n)

	if n < len(l.buffer) {
		return l.buffer[n]
	}
	// Beyond EOF: keep returning the EOF sentinel.
	return l.buffer[len(l.buffer)-1]
}

// Take consumes and returns the next token.
func (l *Lexer) Take() Token {
	t := l.Peek(0)
	//
	if len(l.buffer) > 0 {
		l.buffer = l.buffer[1:]
	}
	//
	return t
}

// Remaining reports whether there is at least one more non-EOF token.
func (l *Lexer) Remaining() bool {
	return !l.Peek(0).IsEOF()
}
