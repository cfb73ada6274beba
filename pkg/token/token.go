package token

import "github.com/toolc/toolc/pkg/source"

// Token associates a lexical kind and its decoded text with the range of the
// original source it was scanned from.  For string literals, Lexeme holds the
// text *after* escape decoding, and for coordinate literals the sigil-less
// parts joined with '_'; for everything else it is the verbatim source
// slice, so that `source.Slice(tok.Range) == tok.Lexeme` for all other
// kinds (position fidelity, per the specification's testable invariants).
type Token struct {
	Kind   Kind
	Lexeme string
	Range  source.Range
}

// Is reports whether this token has the given kind and (when non-empty)
// lexeme — e.g. tok.Is(token.Keyword, "if").
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && (lexeme == "" || t.Lexeme == lexeme)
}

// IsEOF reports whether this is the end-of-file sentinel token.
func (t Token) IsEOF() bool {
	return t.Kind == EOF
}
