package token

import (
	"strconv"
	"strings"

	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/source/lex"
)

// Options configures the handful of tokenizer behaviours that differ between
// the two dialects.
type Options struct {
	// CoordSigil, if non-zero, is the character introducing a coordinate-grid
	// literal, e.g. '#' in "#3200_3200_0".
	CoordSigil rune
	// KeepComments controls whether comment tokens are yielded (true) or
	// silently discarded (false).
	KeepComments bool
}

// Tokenizer is a streaming scanner over a source file, driven by a [Table].
// It recognizes whitespace, comments, string/numeric literals, identifiers
// (reclassified against the keyword table), operators (longest match) and
// separators, in that priority order, and reports lexical errors as
// recoverable diagnostics rather than aborting.
type Tokenizer struct {
	file    *source.File
	table   *Table
	opts    Options
	runes   []rune
	index   int
	line    int
	col     int
	errors  []*source.SyntaxError
}

// NewTokenizer constructs a tokenizer over a source file using the given
// lexical table and options.
func NewTokenizer(file *source.File, table *Table, opts Options) *Tokenizer {
	return &Tokenizer{file, table, opts, file.Contents(), 0, 1, 1, nil}
}

// Errors returns the lexical diagnostics accumulated so far.
func (t *Tokenizer) Errors() []*source.SyntaxError {
	return t.errors
}

func (t *Tokenizer) pos() source.Position {
	return source.Position{Line: t.line, Col: t.col}
}

func (t *Tokenizer) peekRune(offset int) (rune, bool) {
	i := t.index + offset
	if i < 0 || i >= len(t.runes) {
		return 0, false
	}
	//
	return t.runes[i], true
}

func (t *Tokenizer) advance() rune {
	r := t.runes[t.index]
	t.index++
	//
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	//
	return r
}

func (t *Tokenizer) remainder() []rune {
	return t.runes[t.index:]
}

// Next scans and returns the next token, advancing past it. When the input is
// exhausted it returns a Kind==EOF token (repeatedly, if called again).
func (t *Tokenizer) Next() Token {
	for {
		if t.index >= len(t.runes) {
			p := t.pos()
			return Token{EOF, "", source.NewRange(p, p)}
		}

		tok, skip := t.scanOne()
		if skip {
			continue
		}
		//
		return tok
	}
}

// scanOne scans exactly one lexical unit; skip is true when it was
// whitespace or a discarded comment and the caller should loop for a real
// token.
func (t *Tokenizer) scanOne() (Token, bool) {
	r, _ := t.peekRune(0)

	switch {
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		t.advance()
		return Token{}, true
	case r == '/' && t.peekAt(1, '/'):
		return t.scanLineComment()
	case r == '/' && t.peekAt(1, '*'):
		return t.scanBlockComment()
	case r == '"':
		return t.scanString(), false
	case isDigit(r):
		return t.scanNumber(), false
	case t.opts.CoordSigil != 0 && r == t.opts.CoordSigil && t.peekAtDigitAfterSigil():
		return t.scanCoord(), false
	case isIdentStart(r):
		return t.scanWord(), false
	default:
		if op, n := t.table.MatchOperator(t.remainder()); n > 0 {
			start := t.pos()
			for range op {
				t.advance()
			}
			//
			return Token{Operator, op, source.NewRange(start, t.pos())}, false
		}

		if t.table.IsSeparator(r) {
			start := t.pos()
			t.advance()
			//
			return Token{Separator, string(r), source.NewRange(start, t.pos())}, false
		}
		// Unknown character: recoverable lexical error, synthesize a token so
		// the parser can continue.
		start := t.pos()
		t.advance()
		end := t.pos()
		t.report(start, end, "unknown character '"+string(r)+"'")
		//
		return Token{Invalid, string(r), source.NewRange(start, end)}, false
	}
}

func (t *Tokenizer) peekAt(offset int, want rune) bool {
	r, ok := t.peekRune(offset)
	return ok && r == want
}

func (t *Tokenizer) peekAtDigitAfterSigil() bool {
	r, ok := t.peekRune(1)
	return ok && isDigit(r)
}

func (t *Tokenizer) report(start, end source.Position, msg string) {
	err := t.file.SyntaxError(source.ErrLexical, source.NewRange(start, end), msg)
	t.errors = append(t.errors, err)
}

func (t *Tokenizer) scanLineComment() (Token, bool) {
	start := t.pos()
	t.advance()
	t.advance()
	//
	for {
		r, ok := t.peekRune(0)
		if !ok || r == '\n' {
			break
		}

		t.advance()
	}
	//
	if !t.opts.KeepComments {
		return Token{}, true
	}
	//
	end := t.pos()
	return Token{Comment, t.file.Slice(source.NewRange(start, end)), source.NewRange(start, end)}, false
}

func (t *Tokenizer) scanBlockComment() (Token, bool) {
	start := t.pos()
	t.advance()
	t.advance()
	//
	for {
		r, ok := t.peekRune(0)
		if !ok {
			t.report(start, t.pos(), "unterminated block comment")
			break
		}

		if r == '*' && t.peekAt(1, '/') {
			t.advance()
			t.advance()

			break
		}

		t.advance()
	}
	//
	if !t.opts.KeepComments {
		return Token{}, true
	}
	//
	end := t.pos()
	return Token{Comment, t.file.Slice(source.NewRange(start, end)), source.NewRange(start, end)}, false
}

func (t *Tokenizer) scanString() Token {
	start := t.pos()
	t.advance() // opening quote
	//
	var sb strings.Builder
	//
	for {
		r, ok := t.peekRune(0)
		if !ok || r == '\n' {
			end := t.pos()
			t.report(start, end, "unterminated string literal")
			return Token{String, sb.String(), source.NewRange(start, end)}
		}

		if r == '"' {
			t.advance()
			break
		}

		if r == '\\' {
			t.advance()
			esc, ok2 := t.peekRune(0)
			if !ok2 {
				t.report(start, t.pos(), "unterminated string literal")
				break
			}

			decoded, ok3 := decodeEscape(esc)
			if !ok3 {
				t.report(t.pos(), t.pos(), "invalid escape sequence '\\"+string(esc)+"'")
			}

			t.advance()
			sb.WriteRune(decoded)

			continue
		}

		sb.WriteRune(r)
		t.advance()
	}
	//
	end := t.pos()
	return Token{String, sb.String(), source.NewRange(start, end)}
}

func decodeEscape(r rune) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	default:
		return r, false
	}
}

func (t *Tokenizer) scanNumber() Token {
	start := t.pos()
	//
	if r0, _ := t.peekRune(0); r0 == '0' {
		if r1, ok := t.peekRune(1); ok && (r1 == 'x' || r1 == 'X') {
			return t.scanHex(start)
		}
	}
	//
	digits := lex.Many(lex.Within('0', '9'))
	n := digits(t.remainder())
	//
	for range n {
		t.advance()
	}
	//
	isLong := false
	if r, ok := t.peekRune(0); ok && (r == 'L' || r == 'l') {
		isLong = true
		t.advance()
	}
	//
	end := t.pos()
	text := t.file.Slice(source.NewRange(start, end))
	digitsOnly := strings.TrimSuffix(strings.TrimSuffix(text, "L"), "l")

	return t.finishInteger(digitsOnly, text, isLong, start, end, 10)
}

func (t *Tokenizer) scanHex(start source.Position) Token {
	t.advance() // '0'
	t.advance() // 'x'/'X'

	hexDigits := lex.Many(lex.Or(lex.Within('0', '9'), lex.Within('a', 'f'), lex.Within('A', 'F')))
	n := hexDigits(t.remainder())
	//
	for range n {
		t.advance()
	}

	isLong := false
	if r, ok := t.peekRune(0); ok && (r == 'L' || r == 'l') {
		isLong = true
		t.advance()
	}

	end := t.pos()
	full := t.file.Slice(source.NewRange(start, end))
	digitsOnly := strings.TrimSuffix(strings.TrimSuffix(full, "L"), "l")
	digitsOnly = digitsOnly[2:] // drop "0x"

	return t.finishInteger(digitsOnly, full, isLong, start, end, 16)
}

func (t *Tokenizer) finishInteger(digits, lexeme string, isLong bool, start, end source.Position, base int) Token {
	if isLong {
		if _, err := strconv.ParseUint(digits, base, 63); err != nil {
			t.report(start, end, "long literal overflow")
		}

		return Token{Long, lexeme, source.NewRange(start, end)}
	}
	//
	if _, err := strconv.ParseUint(digits, base, 31); err != nil {
		t.report(start, end, "integer literal overflow")
	}
	//
	return Token{Int, lexeme, source.NewRange(start, end)}
}

// scanCoord scans a coordinate-grid literal: a sigil followed by a
// comma-or-underscore-separated tuple of integers, e.g. "#3200_3200_0".  The
// lexeme is the scanned parts joined as "a_b_c..." (no sigil, commas
// replaced) so callers can split on '_' without re-parsing the sigil.
func (t *Tokenizer) scanCoord() Token {
	start := t.pos()
	t.advance() // sigil
	//
	var parts []string

	for {
		digits := lex.Many(lex.Within('0', '9'))
		n := digits(t.remainder())

		if n == 0 {
			t.report(start, t.pos(), "malformed coordinate literal")
			break
		}

		partStart := t.index
		for range n {
			t.advance()
		}

		parts = append(parts, string(t.runes[partStart:t.index]))

		r, ok := t.peekRune(0)
		if !ok || (r != ',' && r != '_') {
			break
		}

		t.advance()
	}
	//
	end := t.pos()
	return Token{Coord, strings.Join(parts, "_"), source.NewRange(start, end)}
}

func (t *Tokenizer) scanWord() Token {
	start := t.pos()
	ident := lex.Many(lex.Or(
		lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Within('0', '9'), lex.Unit('_'),
	))
	n := ident(t.remainder())
	//
	for range n {
		t.advance()
	}
	//
	end := t.pos()
	word := t.file.Slice(source.NewRange(start, end))
	kind := t.table.ClassifyWord(word)
	//
	if _, ok := t.table.BoolValue(word); ok {
		kind = Bool
	}
	//
	return Token{kind, word, source.NewRange(start, end)}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
