package config

import (
	"fmt"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/binding"
	"github.com/toolc/toolc/pkg/symtab"
)

// IdProvider resolves a declared config/script name to its numeric id,
// per §6.2. The code generator only ever looks up ids that id generation
// has already assigned, so a miss here is an internal invariant violation.
type IdProvider interface {
	FindConfig(group, name string) (int, bool)
}

// Graphics resolves a string value that names a registered graphic to its
// numeric id, per §4.5's "string value — if it matches a registered
// graphic, emit its id" rule.
type Graphics interface {
	FindGraphic(name string) (int, bool)
}

// Generator lowers one type-checked config entry into a BinaryConfig.
// Assumes the entry is error-free, mirroring the script Generator.
type Generator struct {
	table    *symtab.Table
	binding  *binding.Binding
	ids      IdProvider
	graphics Graphics

	out   *BinaryConfig
	index map[int]*Property
}

// SymtabGraphics adapts the batch symbol table's KindGraphic entries into
// the Graphics collaborator, the reference implementation used whenever a
// host doesn't supply its own registered-graphics source.
type SymtabGraphics struct {
	Table *symtab.Table
}

// FindGraphic resolves a graphic name to its declared id.
func (g SymtabGraphics) FindGraphic(name string) (int, bool) {
	sym, ok := g.Table.Lookup(symtab.KindGraphic, name)
	if !ok {
		return 0, false
	}

	return sym.GraphicID, true
}

// NewGenerator constructs a generator for configs bound to b, resolving
// identifier values against table and ids/graphics against the given
// collaborators.
func NewGenerator(table *symtab.Table, b *binding.Binding, ids IdProvider, graphics Graphics) *Generator {
	return &Generator{table: table, binding: b, ids: ids, graphics: graphics}
}

// Generate lowers cfg into a fresh BinaryConfig.
func (g *Generator) Generate(cfg *ast.Config) *BinaryConfig {
	g.out = &BinaryConfig{Name: cfg.Name}
	g.index = make(map[int]*Property)

	for _, p := range cfg.Properties {
		g.genProperty(cfg, p)
	}

	return g.out
}

func (g *Generator) genProperty(cfg *ast.Config, p *ast.Property) {
	// A type-dispatched property's companion is folded into that property's
	// payload and emits nothing of its own.
	for _, d := range g.binding.Props {
		if d.Kind == binding.KindTypeDispatchedBasic && d.CompanionProp == p.Key {
			return
		}
	}

	desc, ok := g.binding.Lookup(p.Key)
	if !ok {
		panic("internal: unbound property key at codegen: " + p.Key)
	}

	switch desc.Kind {
	case binding.KindBasic:
		g.genBasic(cfg, p, desc)
	case binding.KindTypeDispatchedBasic:
		g.genTypeDispatched(cfg, p, desc)
	case binding.KindSplitArray:
		g.genSplitArray(cfg, p, desc)
	case binding.KindParameter:
		g.genParameter(cfg, p, desc)
	case binding.KindMap:
		g.genMap(cfg, p, desc)
	}
}

// genBasic lowers a fixed-tuple property. A single boolean component with an
// EMIT_EMPTY_IF_TRUE/FALSE rule either emits an empty payload or is omitted
// entirely, per §4.5.
func (g *Generator) genBasic(cfg *ast.Config, p *ast.Property, desc *binding.Descriptor) {
	if len(p.Values) == 1 {
		if b, ok := p.Values[0].(*ast.BoolValue); ok {
			if _, ok := desc.HasRule(binding.RuleEmitEmptyIfTrue); ok {
				if b.Value {
					g.emit(&Property{Opcode: desc.Opcode, Empty: true})
				}

				return
			}

			if _, ok := desc.HasRule(binding.RuleEmitEmptyIfFalse); ok {
				if !b.Value {
					g.emit(&Property{Opcode: desc.Opcode, Empty: true})
				}

				return
			}
		}
	}

	values := make([]Value, len(p.Values))
	for i, v := range p.Values {
		values[i] = g.lower(cfg, v)
	}

	g.emit(&Property{Opcode: desc.Opcode, Values: values})
}

// genTypeDispatched resolves the companion "type" property to choose the
// int/long opcode, then emits (opcode, [type, value]) per §4.5/scenario 4.
func (g *Generator) genTypeDispatched(cfg *ast.Config, p *ast.Property, desc *binding.Descriptor) {
	companion := g.findProperty(cfg, desc.CompanionProp)
	if companion == nil || len(companion.Values) != 1 {
		panic("internal: missing or malformed companion property " + desc.CompanionProp + " at codegen")
	}

	typeName, stack := g.resolveTypeLiteral(companion.Values[0])

	opcode := desc.IntOpcode
	if stack == ast.StackLong {
		opcode = desc.LongOpcode
	}

	g.emit(&Property{
		Opcode: opcode,
		Values: []Value{StringValueOf(typeName), g.lower(cfg, p.Values[0])},
	})
}

func (g *Generator) resolveTypeLiteral(v ast.Value) (string, ast.StackType) {
	switch t := v.(type) {
	case *ast.TypeLiteralValue:
		switch t.Name {
		case "long":
			return t.Name, ast.StackLong
		default:
			return t.Name, ast.StackInt
		}
	default:
		return "", ast.StackInt
	}
}

// genSplitArray finds-or-creates the aggregate keyed by AggOpcode and writes
// this property's value at its declared component index, growing Values as
// needed. Source-order-of-first-component (§9 open question) falls out
// naturally: the slot is created the first time any contributing property
// is seen, in source order.
func (g *Generator) genSplitArray(cfg *ast.Config, p *ast.Property, desc *binding.Descriptor) {
	agg := g.findOrCreate(desc.AggOpcode, desc.ComponentCnt)

	idx := desc.ComponentIdx
	for len(agg.Values) <= idx {
		agg.Values = append(agg.Values, Value{})
	}

	if len(p.Values) != 1 {
		panic(fmt.Sprintf("internal: split-array property %s expects exactly 1 value at codegen", p.Key))
	}

	agg.Values[idx] = g.lower(cfg, p.Values[0])
}

// genParameter finds-or-creates the aggregate keyed by ParamOpcode and
// writes this property's value at the parameter id resolved via the id
// provider.
func (g *Generator) genParameter(cfg *ast.Config, p *ast.Property, desc *binding.Descriptor) {
	agg := g.findOrCreate(desc.ParamOpcode, 0)

	id, ok := g.ids.FindConfig("param", p.Key)
	if !ok {
		panic("internal: unresolved parameter id for " + p.Key + " at codegen")
	}

	for len(agg.Values) <= id {
		agg.Values = append(agg.Values, Value{})
	}

	if len(p.Values) != 1 {
		panic(fmt.Sprintf("internal: parameter property %s expects exactly 1 value at codegen", p.Key))
	}

	agg.Values[id] = g.lower(cfg, p.Values[0])
}

// genMap finds-or-creates the aggregate keyed by the value-stack-dispatched
// map opcode and appends this property's key/value pair as a new entry.
func (g *Generator) genMap(cfg *ast.Config, p *ast.Property, desc *binding.Descriptor) {
	companion := g.findProperty(cfg, desc.ValueTypeProp)

	opcode := desc.MapIntOpcode

	if companion != nil && len(companion.Values) == 1 {
		if _, stack := g.resolveTypeLiteral(companion.Values[0]); stack == ast.StackLong {
			opcode = desc.MapLongOpcode
		}
	}

	agg := g.findOrCreate(opcode, 0)

	if len(p.Values) != 2 {
		panic(fmt.Sprintf("internal: map property %s expects a key and a value at codegen", p.Key))
	}

	agg.Entries = append(agg.Entries, Entry{
		Key: g.lower(cfg, p.Values[0]),
		Val: g.lower(cfg, p.Values[1]),
	})
}

func (g *Generator) findOrCreate(opcode, reserve int) *Property {
	if agg, ok := g.index[opcode]; ok {
		return agg
	}

	agg := &Property{Opcode: opcode, Values: make([]Value, 0, reserve)}
	g.index[opcode] = agg
	g.emit(agg)

	return agg
}

func (g *Generator) findProperty(cfg *ast.Config, key string) *ast.Property {
	for _, p := range cfg.Properties {
		if p.Key == key {
			return p
		}
	}

	return nil
}

func (g *Generator) emit(p *Property) {
	g.out.Properties = append(g.out.Properties, p)
}

// lower resolves one parsed value node to its binary representation,
// per §4.5: strings pass through unless they name a registered graphic;
// identifiers resolve via the symbol table (config reference → provider id,
// constant reference → the constant's stored value); coordinates lower to
// their packed int32 components.
func (g *Generator) lower(cfg *ast.Config, v ast.Value) Value {
	switch val := v.(type) {
	case *ast.StringValue:
		if id, ok := g.graphics.FindGraphic(val.Value); ok {
			return IntValue(int32(id))
		}

		return StringValueOf(val.Value)
	case *ast.IntValue:
		return IntValue(val.Value)
	case *ast.LongValue:
		return LongValue(val.Value)
	case *ast.BoolValue:
		if val.Value {
			return IntValue(1)
		}

		return IntValue(0)
	case *ast.TypeLiteralValue:
		return StringValueOf(val.Name)
	case *ast.CoordValue:
		packed := (val.X << 14) | (val.Y << 6) | val.Z
		return IntValue(packed)
	case *ast.RefValue:
		return g.lowerRef(val)
	default:
		panic(fmt.Sprintf("internal: unhandled value node %T at codegen", v))
	}
}

func (g *Generator) lowerRef(v *ast.RefValue) Value {
	if sym, ok := g.table.Lookup(symtab.KindConstant, v.Name); ok {
		switch sym.Type.Stack {
		case ast.StackLong:
			return LongValue(toInt64(sym.Value))
		case ast.StackString:
			s, _ := sym.Value.(string)
			return StringValueOf(s)
		default:
			return IntValue(int32(toInt64(sym.Value)))
		}
	}

	if sym, ok := g.table.Lookup(symtab.KindConfigEntry, v.Name); ok {
		if id, ok := g.ids.FindConfig(sym.Group, v.Name); ok {
			return IntValue(int32(id))
		}
	}

	panic("internal: unresolved reference at codegen: " + v.Name)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case bool:
		if n {
			return 1
		}

		return 0
	default:
		return 0
	}
}
