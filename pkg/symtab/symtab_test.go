package symtab

import (
	"testing"

	"github.com/toolc/toolc/pkg/util/assert"
)

func TestDeclareRejectsCollisionWithoutOverride(t *testing.T) {
	table := NewRoot()

	ok := table.Declare(&Symbol{Kind: KindConstant, Name: "max_price", Value: int32(1)}, false)
	assert.True(t, ok)

	ok = table.Declare(&Symbol{Kind: KindConstant, Name: "max_price", Value: int32(2)}, false)
	assert.False(t, ok)

	sym, found := table.Lookup(KindConstant, "max_price")
	assert.True(t, found)
	assert.Equal(t, int32(1), sym.Value.(int32))
}

func TestDeclareReplacesCollisionWithOverride(t *testing.T) {
	table := NewRoot()

	table.Declare(&Symbol{Kind: KindConstant, Name: "max_price", Value: int32(1)}, true)
	ok := table.Declare(&Symbol{Kind: KindConstant, Name: "max_price", Value: int32(2)}, true)
	assert.True(t, ok)

	sym, _ := table.Lookup(KindConstant, "max_price")
	assert.Equal(t, int32(2), sym.Value.(int32))
}

// A child table's lookup walks out to its parent, but a declaration in the
// child never mutates the parent.
func TestChildTableWalksParentWithoutMutatingIt(t *testing.T) {
	root := NewRoot()
	root.Declare(&Symbol{Kind: KindScript, Trigger: "proc", Name: "shared"}, false)

	child := root.NewChild()
	_, foundInChild := child.LookupScript("proc", "shared")
	assert.True(t, foundInChild)

	child.Declare(&Symbol{Kind: KindScript, Trigger: "proc", Name: "local"}, false)

	_, foundInParent := root.LookupScript("proc", "local")
	assert.False(t, foundInParent)
}

func TestLookupScriptIsQualifiedByTrigger(t *testing.T) {
	table := NewRoot()
	table.Declare(&Symbol{Kind: KindScript, Trigger: "proc", Name: "x"}, false)

	_, foundWrongTrigger := table.LookupScript("clientscript", "x")
	assert.False(t, foundWrongTrigger)

	_, foundRightTrigger := table.LookupScript("proc", "x")
	assert.True(t, foundRightTrigger)
}

func TestSymbolsPreservesDeclarationOrder(t *testing.T) {
	table := NewRoot()
	table.Declare(&Symbol{Kind: KindConstant, Name: "a"}, false)
	table.Declare(&Symbol{Kind: KindConstant, Name: "b"}, false)
	table.Declare(&Symbol{Kind: KindConstant, Name: "c"}, false)

	syms := table.Symbols()
	assert.Equal(t, 3, len(syms))
	assert.Equal(t, "a", syms[0].Name)
	assert.Equal(t, "b", syms[1].Name)
	assert.Equal(t, "c", syms[2].Name)
}

func TestFullNameQualifiesOnlyScripts(t *testing.T) {
	script := &Symbol{Kind: KindScript, Trigger: "proc", Name: "helper"}
	assert.Equal(t, "proc,helper", script.FullName())

	constant := &Symbol{Kind: KindConstant, Name: "max_price"}
	assert.Equal(t, "max_price", constant.FullName())
}
