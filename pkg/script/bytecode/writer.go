// Package bytecode serializes an optimized script.BinaryScript to the
// on-disk layout described by §6.5: the name, the instruction count and a
// flat instruction stream with labels resolved to instruction-relative
// offsets, followed by the per-stack local/parameter counts and the
// switch-table count and tables. This package is the single
// authority for that layout; the generator and optimizer never encode
// anything themselves.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/toolc/toolc/pkg/ast"
	"github.com/toolc/toolc/pkg/script"
)

// InstructionMap resolves a core opcode to its concrete on-disk encoding.
// Satisfied by *catalog.InstructionMap; declared locally to avoid an import
// cycle between pkg/script/bytecode and pkg/catalog.
type InstructionMap interface {
	Resolve(op script.CoreOpcode) (Entry, bool)
}

// Entry is a concrete opcode's on-disk encoding.
type Entry struct {
	Opcode int
	Large  bool
}

// Write serializes s to its on-disk bytecode form, resolving core opcodes
// through m. It panics if m lacks a mapping for an opcode s actually uses —
// the driver's Ready check is the intended guard against this ever firing
// on a real compilation.
func Write(s *script.BinaryScript, m InstructionMap) []byte {
	offsets, total := layOutOffsets(s)

	var buf bytes.Buffer

	writeString(&buf, s.FullName)

	u16(&buf, total)

	for _, b := range s.Blocks {
		for _, in := range b.Instructions {
			writeInstruction(&buf, in, m, offsets)
		}
	}

	locals, params := s.Locals.Counts(ast.StackInt)
	u8(&buf, locals)
	u8(&buf, params)

	locals, params = s.Locals.Counts(ast.StackString)
	u8(&buf, locals)
	u8(&buf, params)

	locals, params = s.Locals.Counts(ast.StackLong)
	u8(&buf, locals)
	u8(&buf, params)

	u16(&buf, len(s.SwitchTables))

	for _, t := range s.SwitchTables {
		writeSwitchTable(&buf, t)
	}

	return buf.Bytes()
}

// layOutOffsets computes each block's starting instruction-relative offset
// by concatenating blocks in label (declaration) order, and the total
// instruction count.
func layOutOffsets(s *script.BinaryScript) (map[string]int, int) {
	offsets := make(map[string]int, len(s.Blocks))
	offset := 0

	for _, b := range s.Blocks {
		offsets[b.Label] = offset
		offset += len(b.Instructions)
	}

	return offsets, offset
}

func writeInstruction(buf *bytes.Buffer, in script.Instruction, m InstructionMap, offsets map[string]int) {
	if in.IsCall {
		u16(buf, in.Raw)
		writeOperand(buf, in.Operand, Entry{Large: true}, offsets)

		return
	}

	entry, ok := m.Resolve(in.Op)
	if !ok {
		panic(fmt.Sprintf("internal: no instruction-map entry for opcode %s", in.Op))
	}

	if entry.Large {
		u16(buf, entry.Opcode)
	} else {
		u8(buf, entry.Opcode)
	}

	writeOperand(buf, in.Operand, entry, offsets)
}

func writeOperand(buf *bytes.Buffer, op script.Operand, entry Entry, offsets map[string]int) {
	switch op.Kind {
	case script.OperandNone:
	case script.OperandInt:
		i32(buf, op.IntValue)
	case script.OperandLong:
		i64(buf, op.LongValue)
	case script.OperandString:
		writeString(buf, op.StringValue)
	case script.OperandLabel:
		target, ok := offsets[op.Label]
		if !ok {
			panic("internal: branch to unknown label " + op.Label)
		}

		if entry.Large {
			u16(buf, target)
		} else {
			u8(buf, target)
		}
	case script.OperandLocal:
		u16(buf, op.Local.Index)
	case script.OperandSymbol:
		writeString(buf, op.Symbol)
	case script.OperandRawOpcode:
		u16(buf, op.RawOpcode)
	}
}

func writeSwitchTable(buf *bytes.Buffer, t script.SwitchTable) {
	writeString(buf, t.Name)
	u16(buf, len(t.Cases))

	for k, v := range t.Cases {
		i32(buf, k)
		writeString(buf, v)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	u16(buf, len(s))
	buf.WriteString(s)
}

func u8(buf *bytes.Buffer, v int) {
	buf.WriteByte(byte(v))
}

func u16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func i32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func i64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}
