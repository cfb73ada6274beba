package sema

import (
	"fmt"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/binding"
	"github.com/toolc/toolc/pkg/diag"
	"github.com/toolc/toolc/pkg/source"
	"github.com/toolc/toolc/pkg/symtab"
)

// ConfigChecker runs the main pass over a single config entry: each
// property key is validated against the file extension's binding, value
// types are checked against the descriptor's declared components, and rules
// (RANGE, REQUIRE) are evaluated.
type ConfigChecker struct {
	table    *symtab.Table
	binding  *binding.Binding
	filename string
	rep      *diag.Reporter
}

// NewConfigChecker constructs a checker for one config against table and
// the binding governing its file extension.
func NewConfigChecker(table *symtab.Table, b *binding.Binding, filename string, rep *diag.Reporter) *ConfigChecker {
	return &ConfigChecker{table: table, binding: b, filename: filename, rep: rep}
}

func (c *ConfigChecker) errorf(r source.Range, format string, args ...any) {
	c.rep.Report(diag.Diagnostic{
		Kind:    source.ErrSemantic,
		Range:   r,
		File:    c.filename,
		Message: fmt.Sprintf(format, args...),
	})
}

// Check validates every property of cfg against its binding.
func (c *ConfigChecker) Check(cfg *ast.Config) {
	present := make(map[string]bool, len(cfg.Properties))

	for _, p := range cfg.Properties {
		present[p.Key] = true
	}

	for _, p := range cfg.Properties {
		c.checkProperty(cfg, p, present)
	}
}

func (c *ConfigChecker) checkProperty(cfg *ast.Config, p *ast.Property, present map[string]bool) {
	desc, ok := c.binding.Lookup(p.Key)
	if !ok {
		c.errorf(p.Span(), "property '%s' is not defined for [%s]", p.Key, c.binding.Extension)
		return
	}

	c.checkValues(desc, p)
	c.checkRules(cfg, p, desc, present)
}

func (c *ConfigChecker) checkValues(desc *binding.Descriptor, p *ast.Property) {
	switch desc.Kind {
	case binding.KindBasic, binding.KindSplitArray, binding.KindParameter:
		c.checkComponents(p, desc.Components)
	case binding.KindTypeDispatchedBasic:
		c.checkTypeDispatched(p, desc)
	case binding.KindMap:
		c.checkMap(p, desc)
	}
}

func (c *ConfigChecker) checkComponents(p *ast.Property, components []ast.Type) {
	if len(components) == 0 {
		return
	}

	if len(p.Values) != len(components) {
		c.errorf(p.Span(), "property '%s' expects %d value(s), found %d", p.Key, len(components), len(p.Values))
		return
	}

	for i, v := range p.Values {
		got := c.valueType(v)
		if !got.Equal(ast.TypeUnknown) && !got.Equal(components[i]) {
			c.errorf(v.Span(), "property '%s' component %d: expected %s, found %s", p.Key, i+1, components[i], got)
		}
	}
}

func (c *ConfigChecker) checkTypeDispatched(p *ast.Property, desc *binding.Descriptor) {
	if len(p.Values) != 1 {
		c.errorf(p.Span(), "property '%s' expects exactly 1 value, found %d", p.Key, len(p.Values))
		return
	}
	// The companion property's presence is verified by checkRules; here we
	// only check that this property carries a primitive value the dispatch
	// can act on.
	switch v := p.Values[0].(type) {
	case *ast.IntValue, *ast.LongValue, *ast.StringValue, *ast.BoolValue, *ast.RefValue, *ast.CoordValue:
		return
	default:
		c.errorf(p.Span(), "property '%s' has an unsupported value kind %T", p.Key, v)
	}
}

func (c *ConfigChecker) checkMap(p *ast.Property, desc *binding.Descriptor) {
	if len(p.Values) != 2 {
		c.errorf(p.Span(), "property '%s' expects a key and a value, found %d entries", p.Key, len(p.Values))
		return
	}

	key, val := c.valueType(p.Values[0]), c.valueType(p.Values[1])

	if !key.Equal(ast.TypeUnknown) && !key.Equal(desc.KeyType) {
		c.errorf(p.Values[0].Span(), "property '%s' key: expected %s, found %s", p.Key, desc.KeyType, key)
	}

	if !val.Equal(ast.TypeUnknown) && !val.Equal(desc.ValType) {
		c.errorf(p.Values[1].Span(), "property '%s' value: expected %s, found %s", p.Key, desc.ValType, val)
	}
}

func (c *ConfigChecker) checkRules(cfg *ast.Config, p *ast.Property, desc *binding.Descriptor, present map[string]bool) {
	if r, ok := desc.HasRule(binding.RuleRange); ok {
		c.checkRange(p, r)
	}

	if r, ok := desc.HasRule(binding.RuleRequire); ok {
		if !present[r.Other] {
			c.errorf(p.Span(), "property '%s' requires companion property '%s'", p.Key, r.Other)
		}
	}

	if desc.Kind == binding.KindTypeDispatchedBasic || desc.Kind == binding.KindMap {
		companion := desc.CompanionProp
		if desc.Kind == binding.KindMap {
			companion = desc.ValueTypeProp
		}

		if companion != "" && !present[companion] {
			c.errorf(p.Span(), "property '%s' requires a companion '%s' property to resolve its dispatch type", p.Key, companion)
		}
	}
}

func (c *ConfigChecker) checkRange(p *ast.Property, r binding.Rule) {
	for _, v := range p.Values {
		var n int64

		switch val := v.(type) {
		case *ast.IntValue:
			n = int64(val.Value)
		case *ast.LongValue:
			n = val.Value
		default:
			continue
		}

		if n < r.Lo || n > r.Hi {
			c.errorf(v.Span(), "property '%s' value %d out of range [%d, %d]", p.Key, n, r.Lo, r.Hi)
		}
	}
}

// valueType classifies a config value node by its primitive type, for
// matching against a descriptor's declared component types. A RefValue's
// type depends on what it resolves to: a named constant carries its own
// declared type; a config/graphic reference is an integer id. Returning
// TypeUnknown signals "could not determine — skip the check" rather than a
// mismatch, since an unresolved or forward reference is not itself an
// error here. An unresolved config reference is not diagnosed by this
// checker, and the driver's id-generation phase does not report it either.
func (c *ConfigChecker) valueType(v ast.Value) ast.Type {
	switch val := v.(type) {
	case *ast.StringValue:
		return ast.TypeString
	case *ast.IntValue:
		return ast.TypeInt
	case *ast.LongValue:
		return ast.TypeLong
	case *ast.BoolValue:
		return ast.TypeBool
	case *ast.TypeLiteralValue:
		return ast.TypeString
	case *ast.CoordValue:
		return ast.TypeInt
	case *ast.RefValue:
		if sym, ok := c.table.Lookup(symtab.KindConstant, val.Name); ok {
			return sym.Type
		}

		if _, ok := c.table.Lookup(symtab.KindConfigEntry, val.Name); ok {
			return ast.TypeInt
		}

		return ast.TypeUnknown
	default:
		return ast.TypeUnknown
	}
}
