// Package opt implements the three optimizer passes applied once, in order,
// to a generated BinaryScript: natural-flow folding, dead-branch
// elimination, dead-block elimination. Each pass is individually idempotent;
// per §4.6 no fixed-point iteration is required.
package opt

import (
	"github.com/toolc/toolc/pkg/script"
	"github.com/toolc/toolc/pkg/util/collection/stack"
)

// Run applies the three passes once, in order, and returns s for chaining.
func Run(s *script.BinaryScript) *script.BinaryScript {
	naturalFlow(s)
	deadBranch(s)
	deadBlock(s)

	return s
}

// naturalFlow drops a trailing unconditional BRANCH whose target is the
// textually next block, since control falls through to it anyway.
func naturalFlow(s *script.BinaryScript) {
	for i, b := range s.Blocks {
		n := len(b.Instructions)
		if n == 0 {
			continue
		}

		last := b.Instructions[n-1]
		if last.Op != script.Branch || last.IsCall {
			continue
		}

		if i+1 >= len(s.Blocks) {
			continue
		}

		if last.Operand.Label == s.Blocks[i+1].Label {
			b.Instructions = b.Instructions[:n-1]
		}
	}
}

// deadBranch constant-folds a comparison whose both operands are pushed as
// constants immediately before the branch: the pair (push, push, branch,
// branch) collapses to the unconditional branch on the taken side, with the
// now-dead pushes and comparison removed.
func deadBranch(s *script.BinaryScript) {
	for _, b := range s.Blocks {
		b.Instructions = foldBlock(b.Instructions)
	}
}

func foldBlock(ins []script.Instruction) []script.Instruction {
	for i := 0; i+1 < len(ins); i++ {
		cmp := ins[i]
		if cmp.IsCall || !cmp.Op.IsBranch() || cmp.Op == script.BranchIfTrue {
			continue
		}

		fallthroughIdx := i + 1
		if fallthroughIdx >= len(ins) || ins[fallthroughIdx].Op != script.Branch {
			continue
		}

		lhs, lhsOK := constBefore(ins, i, 1)
		rhs, rhsOK := constBefore(ins, i, 0)

		if !lhsOK || !rhsOK {
			continue
		}

		taken := evalComparison(cmp.Op, lhs, rhs)

		target := cmp.Operand.Label
		if !taken {
			target = ins[fallthroughIdx].Operand.Label
		}

		folded := script.Instruction{
			Op:      script.Branch,
			Operand: script.Operand{Kind: script.OperandLabel, Label: target},
		}

		pushStart := i - 2
		if pushStart < 0 {
			pushStart = 0
		}

		out := make([]script.Instruction, 0, len(ins))
		out = append(out, ins[:pushStart]...)
		out = append(out, folded)
		out = append(out, ins[fallthroughIdx+1:]...)

		return foldBlock(out)
	}

	return ins
}

// constBefore inspects the instruction `back` positions before index i,
// expecting a constant push, and returns its int64 value.
func constBefore(ins []script.Instruction, i, back int) (int64, bool) {
	idx := i - 2 + back
	if idx < 0 || idx >= len(ins) {
		return 0, false
	}

	switch ins[idx].Op {
	case script.PushIntConstant:
		return int64(ins[idx].Operand.IntValue), true
	case script.PushLongConstant:
		return ins[idx].Operand.LongValue, true
	default:
		return 0, false
	}
}

func evalComparison(op script.CoreOpcode, lhs, rhs int64) bool {
	switch op {
	case script.BranchEquals:
		return lhs == rhs
	case script.BranchLessThan:
		return lhs < rhs
	case script.BranchGreaterThan:
		return lhs > rhs
	case script.BranchLessThanOrEquals:
		return lhs <= rhs
	case script.BranchGreaterThanOrEquals:
		return lhs >= rhs
	default:
		return false
	}
}

// deadBlock removes every block unreachable from the entry (the first
// block), following Branch/IsBranch targets and fall-through into the next
// block via an explicit worklist DFS rather than a fixed-point sweep over
// all blocks. It then re-runs naturalFlow, since a removal can leave a
// branch whose target is now the next block.
func deadBlock(s *script.BinaryScript) {
	if len(s.Blocks) == 0 {
		return
	}

	byLabel := make(map[string]*script.Block, len(s.Blocks))
	next := make(map[string]string, len(s.Blocks))
	for i, b := range s.Blocks {
		byLabel[b.Label] = b
		if i+1 < len(s.Blocks) {
			next[b.Label] = s.Blocks[i+1].Label
		}
	}

	reachable := map[string]bool{s.Blocks[0].Label: true}

	worklist := stack.NewStack[string]()
	worklist.Push(s.Blocks[0].Label)

	for !worklist.IsEmpty() {
		label := worklist.Pop()

		b, ok := byLabel[label]
		if !ok {
			continue
		}

		for _, in := range b.Instructions {
			if in.Operand.Kind != script.OperandLabel {
				continue
			}

			if !reachable[in.Operand.Label] {
				reachable[in.Operand.Label] = true
				worklist.Push(in.Operand.Label)
			}
		}

		n := len(b.Instructions)
		ends := n > 0 && !b.Instructions[n-1].IsCall &&
			(b.Instructions[n-1].Op == script.Branch || b.Instructions[n-1].Op == script.Return)
		if nl, ok := next[label]; ok && !ends && !reachable[nl] {
			reachable[nl] = true
			worklist.Push(nl)
		}
	}

	for _, b := range append([]*script.Block{}, s.Blocks...) {
		if !reachable[b.Label] {
			s.RemoveBlock(b.Label)
		}
	}

	naturalFlow(s)
}
