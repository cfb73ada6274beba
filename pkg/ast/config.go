package ast

// ConfigFile is the root node of a parsed configuration-dialect source
// file: zero or more config declarations.
type ConfigFile struct {
	Base
	Configs []*Config
}

// Config is a single "[name]\nkey=values..." declaration.
type Config struct {
	Base
	Name       string
	Properties []*Property
}

// Property is a single "key = value (, value)*" entry within a config.
type Property struct {
	Base
	Key    string
	Values []Value
}

// Value is implemented by every config-dialect value variant.
type Value interface {
	Node
	value()
}

// StringValue is a string literal value.
type StringValue struct {
	Base
	Value string
}

func (*StringValue) value() {}

// IntValue is an integer literal value.
type IntValue struct {
	Base
	Value int32
}

func (*IntValue) value() {}

// LongValue is a 64-bit integer literal value.
type LongValue struct {
	Base
	Value int64
}

func (*LongValue) value() {}

// BoolValue is a boolean literal value.
type BoolValue struct {
	Base
	Value bool
}

func (*BoolValue) value() {}

// TypeLiteralValue names a type directly, e.g. "type=long".
type TypeLiteralValue struct {
	Base
	Name string
}

func (*TypeLiteralValue) value() {}

// CoordValue is a coordinate-grid literal value, already packed by the
// tokenizer into its X/Y/Z components.
type CoordValue struct {
	Base
	X, Y, Z int32
}

func (*CoordValue) value() {}

// RefValue is an unresolved identifier value: either a reference to another
// config entry or to a named constant. Which it is is determined during
// semantic resolution against the symbol table, not by the parser.
type RefValue struct {
	Base
	Name string
}

func (*RefValue) value() {}
