package bytecode

import (
	"testing"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/script"
	"github.com/toolc/toolc/pkg/util/assert"
)

type fakeMap map[script.CoreOpcode]Entry

func (m fakeMap) Resolve(op script.CoreOpcode) (Entry, bool) {
	e, ok := m[op]
	return e, ok
}

func allEntries() fakeMap {
	m := make(fakeMap)
	for i, op := range script.AllOpcodes() {
		m[op] = Entry{Opcode: i, Large: false}
	}

	return m
}

func TestWriteHeaderAndCounts(t *testing.T) {
	s := script.NewBinaryScript("proc", "[proc,hello]", "proc")
	s.Locals.DeclareParam("a", ast.StackInt)
	s.Locals.DeclareLocal("b", ast.StackString)

	b := s.NewBlock("L0")
	b.Emit(script.Return, script.Operand{Kind: script.OperandInt, IntValue: 0})

	out := Write(s, allEntries())

	nameLen := int(out[0])<<8 | int(out[1])
	assert.Equal(t, len("[proc,hello]"), nameLen)
	assert.Equal(t, "[proc,hello]", string(out[2:2+nameLen]))

	pos := 2 + nameLen
	count := int(out[pos])<<8 | int(out[pos+1])
	assert.Equal(t, 1, count)
}

func TestWriteMissingMappingPanics(t *testing.T) {
	s := script.NewBinaryScript("proc", "[proc,hello]", "proc")
	b := s.NewBlock("L0")
	b.Emit(script.Return, script.Operand{Kind: script.OperandInt, IntValue: 0})

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for unmapped opcode")
		}
	}()

	Write(s, fakeMap{})
}

func TestWriteLabelResolvesToOffset(t *testing.T) {
	s := script.NewBinaryScript("proc", "[proc,t]", "proc")
	b0 := s.NewBlock("L0")
	b0.Emit(script.Branch, script.Operand{Kind: script.OperandLabel, Label: "L1"})
	b1 := s.NewBlock("L1")
	b1.Emit(script.Return, script.Operand{Kind: script.OperandInt, IntValue: 0})

	m := allEntries()
	// force BRANCH to a large (u16) operand so the offset is unambiguous.
	m[script.Branch] = Entry{Opcode: m[script.Branch].Opcode, Large: true}

	out := Write(s, m)

	nameLen := int(out[0])<<8 | int(out[1])
	pos := 2 + nameLen + 2 // past name + instruction count

	opcodeWord := int(out[pos])<<8 | int(out[pos+1])
	assert.Equal(t, m[script.Branch].Opcode, opcodeWord)

	offset := int(out[pos+2])<<8 | int(out[pos+3])
	assert.Equal(t, 1, offset)
}

func TestWriteCallBypassesInstructionMap(t *testing.T) {
	s := script.NewBinaryScript("proc", "[proc,t]", "proc")
	b0 := s.NewBlock("L0")
	b0.EmitCall(42, script.Operand{Kind: script.OperandInt, IntValue: 0})
	b0.Emit(script.Return, script.Operand{Kind: script.OperandInt, IntValue: 0})

	out := Write(s, allEntries())

	nameLen := int(out[0])<<8 | int(out[1])
	pos := 2 + nameLen + 2

	raw := int(out[pos])<<8 | int(out[pos+1])
	assert.Equal(t, 42, raw)
}
