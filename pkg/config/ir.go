// Package config implements the configuration-dialect code generator: one
// binary property per source property, except for the aggregate descriptor
// kinds (split-array, parameter, map), which are found-or-created once per
// opcode and accumulated into across the properties that contribute to
// them, per §4.5 of the specification.
package config

// ValueKind classifies a lowered property value's primitive representation.
type ValueKind uint8

// Value kinds.
const (
	ValInt ValueKind = iota
	ValLong
	ValString
)

// Value is a single lowered primitive: a config property's component after
// string/graphic/identifier resolution.
type Value struct {
	Kind   ValueKind
	Int    int32
	Long   int64
	String string
}

// IntValue constructs a lowered int component.
func IntValue(v int32) Value { return Value{Kind: ValInt, Int: v} }

// LongValue constructs a lowered long component.
func LongValue(v int64) Value { return Value{Kind: ValLong, Long: v} }

// StringValueOf constructs a lowered string component.
func StringValueOf(v string) Value { return Value{Kind: ValString, String: v} }

// Entry is one key/value pair of an aggregate Map property.
type Entry struct {
	Key Value
	Val Value
}

// Property is one binary config record: an opcode plus its payload, which is
// either a fixed tuple of values (Basic, TypeDispatchedBasic, a single
// SplitArray/Parameter slot) or an accumulated list of values/entries for an
// aggregate record spanning several source properties.
type Property struct {
	Opcode int

	// Values holds the fixed-tuple payload, or the accumulated component
	// list for a SplitArray/Parameter aggregate (indexed by ComponentIdx /
	// parameter id respectively, source-order-of-first-component per §9).
	Values []Value

	// Entries holds the accumulated key/value payload for a Map aggregate.
	Entries []Entry

	// Empty marks a zero-payload record (an EMIT_EMPTY_IF_* rule firing):
	// the opcode is written with no following bytes.
	Empty bool
}

// BinaryConfig is the generator's output for one source config: an ordered
// list of binary properties, ready for writing per §6.6.
type BinaryConfig struct {
	Name       string
	Properties []*Property
}
