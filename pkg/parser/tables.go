// Package parser implements the recursive-descent parsers for both
// dialects. Grammar mismatches produce a diagnostic and trigger panic-mode
// recovery — tokens are discarded up to a synchronization point — so that
// one malformed file never aborts a batch, per §4.2 of the specification.
package parser

import "github.com/toolc/toolc/pkg/token"

// Script-dialect keywords.
const (
	KwIf     = "if"
	KwElse   = "else"
	KwWhile  = "while"
	KwReturn = "return"
	KwCalc   = "calc"
)

// NewScriptTable constructs the lexical table for the scripting dialect.
func NewScriptTable() *token.Table {
	t := token.NewTable()
	t.AddKeywords(KwIf, KwElse, KwWhile, KwReturn, KwCalc)
	t.AddKeywords("def_int", "def_long", "def_string", "def_boolean")
	t.AddSeparators("(){}[];,$%@^~")
	t.AddOperators("==", "<=", ">=", "<", ">", "=", "+", "-", "*", "/")
	t.AddBoolean("true", true)
	t.AddBoolean("false", false)
	//
	return t
}

// NewConfigTable constructs the lexical table for the configuration
// dialect.
func NewConfigTable() *token.Table {
	t := token.NewTable()
	t.AddSeparators("[]=,")
	t.AddBoolean("yes", true)
	t.AddBoolean("no", false)
	//
	return t
}
