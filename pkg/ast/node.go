// Package ast defines the typed syntax tree shared by the script and
// configuration dialects. Every node variant carries its own [source.Range];
// parsing never discards position information, and a parent's range always
// covers the ranges of all of its children.
package ast

import "github.com/toolc/toolc/pkg/source"

// Node is implemented by every syntax tree variant, script or config alike.
type Node interface {
	// Span returns the range of source text this node was parsed from.
	Span() source.Range
}

// Base is embedded by every concrete node to provide the Span accessor
// without repeating the field and method on each variant.
type Base struct {
	Range source.Range
}

// Span implements Node.
func (b Base) Span() source.Range { return b.Range }

// NewBase constructs a Base from a range, for use by parsers building node
// literals outside this package.
func NewBase(r source.Range) Base {
	return Base{Range: r}
}

// StackType is the coarse classification determining which virtual-machine
// stack an operand or local variable lives on.
type StackType uint8

// Stack types.
const (
	StackInt StackType = iota
	StackLong
	StackString
)

// String renders a stack type's name.
func (s StackType) String() string {
	switch s {
	case StackInt:
		return "int"
	case StackLong:
		return "long"
	case StackString:
		return "string"
	default:
		return "unknown"
	}
}

// Scope classifies where a variable expression's value lives, per the
// script dialect's scoped variable forms ($local, %player, %%player_bit,
// @client_int, ^client_string).
type Scope uint8

// Variable scopes.
const (
	ScopeLocal Scope = iota
	ScopePlayer
	ScopePlayerBit
	ScopeClientInt
	ScopeClientString
)
