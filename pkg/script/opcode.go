// Package script implements the script-dialect code generator: lowering a
// type-checked syntax tree into the abstract stack-machine bytecode IR
// (BinaryScript) described by the specification. The IR is independent of
// any on-disk encoding — concrete opcode bytes are resolved later, by the
// bytecode writer, through an InstructionMap loaded at driver build time.
package script

import "fmt"

// CoreOpcode is the abstract, dialect-level instruction set the generator
// emits. It is mapped onto concrete byte opcodes by an InstructionMap at
// write time — the generator itself never sees a concrete opcode.
type CoreOpcode uint8

// Core opcodes.
const (
	PushIntConstant CoreOpcode = iota
	PushLongConstant
	PushStringConstant
	PushIntLocal
	PushLongLocal
	PushStringLocal
	PushVarp
	PushVarpBit
	PushVarcInt
	PushVarcString
	PopIntLocal
	PopLongLocal
	PopStringLocal
	PopVarp
	PopVarpBit
	PopVarcInt
	PopVarcString
	JoinString
	GosubWithParams
	BranchEquals
	BranchLessThan
	BranchGreaterThan
	BranchLessThanOrEquals
	BranchGreaterThanOrEquals
	BranchIfTrue
	Branch
	Return
	CalcAdd
	CalcSub
	CalcMultiply
	CalcDivide
)

var opcodeNames = map[CoreOpcode]string{
	PushIntConstant:           "PUSH_INT_CONSTANT",
	PushLongConstant:          "PUSH_LONG_CONSTANT",
	PushStringConstant:        "PUSH_STRING_CONSTANT",
	PushIntLocal:              "PUSH_INT_LOCAL",
	PushLongLocal:             "PUSH_LONG_LOCAL",
	PushStringLocal:           "PUSH_STRING_LOCAL",
	PushVarp:                  "PUSH_VARP",
	PushVarpBit:               "PUSH_VARP_BIT",
	PushVarcInt:               "PUSH_VARC_INT",
	PushVarcString:            "PUSH_VARC_STRING",
	PopIntLocal:               "POP_INT_LOCAL",
	PopLongLocal:              "POP_LONG_LOCAL",
	PopStringLocal:            "POP_STRING_LOCAL",
	PopVarp:                   "POP_VARP",
	PopVarpBit:                "POP_VARP_BIT",
	PopVarcInt:                "POP_VARC_INT",
	PopVarcString:             "POP_VARC_STRING",
	JoinString:                "JOIN_STRING",
	GosubWithParams:           "GOSUB_WITH_PARAMS",
	BranchEquals:              "BRANCH_EQUALS",
	BranchLessThan:            "BRANCH_LESS_THAN",
	BranchGreaterThan:         "BRANCH_GREATER_THAN",
	BranchLessThanOrEquals:    "BRANCH_LESS_THAN_OR_EQUALS",
	BranchGreaterThanOrEquals: "BRANCH_GREATER_THAN_OR_EQUALS",
	BranchIfTrue:              "BRANCH_IF_TRUE",
	Branch:                    "BRANCH",
	Return:                    "RETURN",
	CalcAdd:                   "CALC_ADD",
	CalcSub:                   "CALC_SUB",
	CalcMultiply:              "CALC_MULTIPLY",
	CalcDivide:                "CALC_DIVIDE",
}

// String renders an opcode's mnemonic, used in disassembly and tests.
func (op CoreOpcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}

	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// IsBranch reports whether op is one of the conditional branch opcodes
// lowered from a comparison expression.
func (op CoreOpcode) IsBranch() bool {
	switch op {
	case BranchEquals, BranchLessThan, BranchGreaterThan, BranchLessThanOrEquals, BranchGreaterThanOrEquals, BranchIfTrue:
		return true
	default:
		return false
	}
}

// comparisonOpcode maps a parsed comparison operator spelling to its branch
// opcode.
func comparisonOpcode(op string) (CoreOpcode, bool) {
	switch op {
	case "==":
		return BranchEquals, true
	case "<":
		return BranchLessThan, true
	case ">":
		return BranchGreaterThan, true
	case "<=":
		return BranchLessThanOrEquals, true
	case ">=":
		return BranchGreaterThanOrEquals, true
	default:
		return 0, false
	}
}

// allOpcodes lists every core opcode the generator can emit, in declaration
// order; built once from opcodeNames so a new opcode only needs adding there.
var allOpcodes = func() []CoreOpcode {
	ops := make([]CoreOpcode, 0, len(opcodeNames))
	for op := CoreOpcode(0); int(op) < len(opcodeNames); op++ {
		ops = append(ops, op)
	}

	return ops
}()

// AllOpcodes returns every core opcode the instruction map must cover before
// it is considered Ready.
func AllOpcodes() []CoreOpcode {
	return allOpcodes
}

// OpcodeByName resolves a mnemonic (as written in the instruction map TOML)
// back to its CoreOpcode.
func OpcodeByName(name string) (CoreOpcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return op, true
		}
	}

	return 0, false
}

// arithmeticOpcode maps a parsed calc() operator spelling to its opcode.
func arithmeticOpcode(op string) (CoreOpcode, bool) {
	switch op {
	case "+":
		return CalcAdd, true
	case "-":
		return CalcSub, true
	case "*":
		return CalcMultiply, true
	case "/":
		return CalcDivide, true
	default:
		return 0, false
	}
}
