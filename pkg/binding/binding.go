// Package binding models the per-file-extension configuration schema: the
// mapping from a property key to its binary descriptor and rules, per §3
// ("Binding (config dialect schema)") of the specification.
package binding

import "github.com/toolc/toolc/pkg/ast"

// RuleKind classifies a binding rule.
type RuleKind uint8

// Rule kinds.
const (
	RuleEmitEmptyIfTrue RuleKind = iota
	RuleEmitEmptyIfFalse
	RuleRange
	RuleRequire
)

// Rule is a single validation/emission rule attached to a property.
type Rule struct {
	Kind RuleKind
	// Lo, Hi are used by RuleRange.
	Lo, Hi int64
	// Other is used by RuleRequire: the name of the companion property that
	// must also appear in the same config.
	Other string
}

// DescriptorKind classifies a property descriptor.
type DescriptorKind uint8

// Descriptor kinds.
const (
	KindBasic DescriptorKind = iota
	KindTypeDispatchedBasic
	KindSplitArray
	KindParameter
	KindMap
)

// Descriptor describes how a single config property is validated and
// lowered to its binary form. Exactly one of the kind-specific fields below
// is meaningful, selected by Kind.
type Descriptor struct {
	Kind DescriptorKind
	Key  string
	Rules []Rule

	// Basic: fixed opcode, tuple of primitive component types.
	Opcode     int
	Components []ast.Type

	// TypeDispatchedBasic: two opcodes, dispatched on the companion
	// property's resolved stack class.
	IntOpcode      int
	LongOpcode     int
	CompanionProp  string

	// SplitArray: membership in an aggregate record.
	AggOpcode    int
	SizeType     ast.Type
	MaxSize      int
	ComponentIdx int
	ElementID    int
	ComponentCnt int

	// Parameter: opcode, values indexed by parameter id.
	ParamOpcode int

	// Map: two opcodes (dispatched by value stack type), companion
	// value-type property, key/value primitive types.
	MapIntOpcode  int
	MapLongOpcode int
	ValueTypeProp string
	KeyType       ast.Type
	ValType       ast.Type
}

// HasRule reports whether this descriptor carries a rule of the given kind,
// returning it if so.
func (d *Descriptor) HasRule(kind RuleKind) (Rule, bool) {
	for _, r := range d.Rules {
		if r.Kind == kind {
			return r, true
		}
	}

	return Rule{}, false
}

// Binding is the schema for one file extension of the configuration
// dialect: the target symbol-table group and the key->descriptor mapping.
type Binding struct {
	Extension string
	Group     string
	Props     map[string]*Descriptor
}

// NewBinding constructs an empty binding for a given extension/group.
func NewBinding(extension, group string) *Binding {
	return &Binding{Extension: extension, Group: group, Props: make(map[string]*Descriptor)}
}

// Add registers a property descriptor under its key.
func (b *Binding) Add(d *Descriptor) *Binding {
	b.Props[d.Key] = d
	return b
}

// Lookup finds the descriptor for a property key, if bound.
func (b *Binding) Lookup(key string) (*Descriptor, bool) {
	d, ok := b.Props[key]
	return d, ok
}
