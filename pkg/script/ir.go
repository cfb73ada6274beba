package script

import "github.com/toolc/toolc/pkg/ast"

// OperandKind classifies an instruction's operand.
type OperandKind uint8

// Operand kinds.
const (
	OperandNone OperandKind = iota
	OperandInt
	OperandLong
	OperandString
	OperandLabel
	OperandLocal
	OperandSymbol
	OperandRawOpcode
)

// Operand is a typed instruction operand. Exactly one of the value fields is
// meaningful, selected by Kind.
type Operand struct {
	Kind OperandKind

	IntValue    int32
	LongValue   int64
	StringValue string
	Label       string
	Local       LocalRef
	Symbol      string
	RawOpcode   int
}

// LocalRef identifies a local slot: its stack-type-partitioned index and
// whether it is a parameter or a declared variable.
type LocalRef struct {
	Stack   ast.StackType
	Index   int
	IsParam bool
}

// Instruction is a single {opcode, operand} pair. Opcode is abstract
// (CoreOpcode) except for command calls, which carry the command's own
// catalog-assigned opcode directly in Raw, with IsCall set — commands
// bypass the InstructionMap entirely.
type Instruction struct {
	Op      CoreOpcode
	Operand Operand
	// Raw is set instead of Op for a command call: the instruction stream
	// invokes the command's own numeric opcode, not a CoreOpcode.
	Raw    int
	IsCall bool
}

// Block is an ordered, labeled sequence of instructions.
type Block struct {
	Label        string
	Instructions []Instruction
}

// SwitchTable is reserved for a future switch-statement lowering; the
// current grammar never produces one, but the binary layout always carries
// a (possibly empty) switch table count.
type SwitchTable struct {
	Name  string
	Cases map[int32]string
}

// LocalMap partitions declared locals and parameters by stack type, with
// separate slot counters for each — mirroring the three independent counter
// pairs the bytecode header records (int/long/string locals and params).
type LocalMap struct {
	names map[string]LocalRef

	nextParam map[ast.StackType]int
	nextLocal map[ast.StackType]int
}

// NewLocalMap constructs an empty local map.
func NewLocalMap() *LocalMap {
	return &LocalMap{
		names:     make(map[string]LocalRef),
		nextParam: make(map[ast.StackType]int),
		nextLocal: make(map[ast.StackType]int),
	}
}

// DeclareParam allocates the next slot for a parameter of the given stack
// type and binds name to it.
func (m *LocalMap) DeclareParam(name string, stack ast.StackType) LocalRef {
	ref := LocalRef{Stack: stack, Index: m.nextParam[stack], IsParam: true}
	m.nextParam[stack]++
	m.names[name] = ref

	return ref
}

// DeclareLocal allocates the next slot for a variable of the given stack
// type and binds name to it.
func (m *LocalMap) DeclareLocal(name string, stack ast.StackType) LocalRef {
	ref := LocalRef{Stack: stack, Index: m.nextLocal[stack], IsParam: false}
	m.nextLocal[stack]++
	m.names[name] = ref

	return ref
}

// Lookup resolves a previously declared parameter or local by name.
func (m *LocalMap) Lookup(name string) (LocalRef, bool) {
	ref, ok := m.names[name]
	return ref, ok
}

// Counts returns the (locals, params) count for a given stack type, in the
// order the bytecode header records them.
func (m *LocalMap) Counts(stack ast.StackType) (locals, params int) {
	return m.nextLocal[stack], m.nextParam[stack]
}

// BinaryScript is the generator's output: the abstract bytecode IR for one
// compiled script, ready for optimization and writing.
type BinaryScript struct {
	Extension string
	FullName  string
	Trigger   string

	Blocks   []*Block
	blockIdx map[string]int

	Locals *LocalMap

	SwitchTables []SwitchTable
}

// NewBinaryScript constructs an empty script IR.
func NewBinaryScript(extension, fullName, trigger string) *BinaryScript {
	return &BinaryScript{
		Extension: extension,
		FullName:  fullName,
		Trigger:   trigger,
		Locals:    NewLocalMap(),
		blockIdx:  make(map[string]int),
	}
}

// NewBlock appends a new, empty block labeled with a generator-assigned
// name and returns it.
func (s *BinaryScript) NewBlock(label string) *Block {
	b := &Block{Label: label}
	s.blockIdx[label] = len(s.Blocks)
	s.Blocks = append(s.Blocks, b)

	return b
}

// BlockByLabel looks up a block by its label.
func (s *BinaryScript) BlockByLabel(label string) (*Block, bool) {
	i, ok := s.blockIdx[label]
	if !ok {
		return nil, false
	}

	return s.Blocks[i], true
}

// IndexOf returns a block's position in source/textual order.
func (s *BinaryScript) IndexOf(b *Block) int {
	return s.blockIdx[b.Label]
}

// RemoveBlock drops a block (used by the dead-block optimizer pass) and
// reindexes blockIdx.
func (s *BinaryScript) RemoveBlock(label string) {
	i, ok := s.blockIdx[label]
	if !ok {
		return
	}

	s.Blocks = append(s.Blocks[:i], s.Blocks[i+1:]...)
	delete(s.blockIdx, label)

	for l, idx := range s.blockIdx {
		if idx > i {
			s.blockIdx[l] = idx - 1
		}
	}
}

// Emit appends an instruction to b.
func (b *Block) Emit(op CoreOpcode, operand Operand) {
	b.Instructions = append(b.Instructions, Instruction{Op: op, Operand: operand})
}

// EmitCall appends a raw-opcode call instruction (a command invocation).
func (b *Block) EmitCall(raw int, operand Operand) {
	b.Instructions = append(b.Instructions, Instruction{Raw: raw, IsCall: true, Operand: operand})
}
