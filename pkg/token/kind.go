// Package token defines the lexical vocabulary shared by both dialects: the
// closed set of token kinds, the token value itself, and the table that maps
// source spellings onto kinds.
package token

import "fmt"

// Kind is the closed enumeration of token categories recognized by the
// tokenizer. The table (see [Table]) decides which spellings map onto
// Keyword, Separator and Operator; everything else falls out of the
// tokenizer's own scanning rules (literals, identifiers, comments, EOF).
type Kind uint8

// Token kinds.
const (
	Invalid Kind = iota
	Keyword
	Separator
	Operator
	Int
	Long
	String
	Bool
	Coord
	TypeLiteral
	Ident
	Comment
	EOF
)

var kindNames = map[Kind]string{
	Invalid:     "invalid",
	Keyword:     "keyword",
	Separator:   "separator",
	Operator:    "operator",
	Int:         "int",
	Long:        "long",
	String:      "string",
	Bool:        "bool",
	Coord:       "coord",
	TypeLiteral: "type",
	Ident:       "identifier",
	Comment:     "comment",
	EOF:         "eof",
}

// String renders a human-readable name for a token kind, used in diagnostic
// messages such as "expected separator, found identifier".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}
