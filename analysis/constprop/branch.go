package constprop

import (
	L "github.com/finch-opt/finch/analysis/lattice"
	"github.com/finch-opt/finch/ir"
)

// BranchOutcome is the verdict of evaluating a conditional branch
// against an abstract state.
type BranchOutcome int

const (
	// BranchUnknown means the available facts admit both outcomes.
	BranchUnknown BranchOutcome = iota
	// BranchAlwaysTaken means the branch condition provably holds.
	BranchAlwaysTaken
	// BranchNeverTaken means the branch condition provably fails.
	BranchNeverTaken
)

func (o BranchOutcome) String() string {
	switch o {
	case BranchUnknown:
		return "unknown"
	case BranchAlwaysTaken:
		return "always"
	case BranchNeverTaken:
		return "never"
	}
	panic(errInternal)
}

func fold(taken bool) BranchOutcome {
	if taken {
		return BranchAlwaysTaken
	}
	return BranchNeverTaken
}

// EvalIf evaluates a conditional branch instruction against env.
// The zero compare forms test against an implicit constant zero.
// Calling this on anything but a conditional branch is a contract
// violation and panics.
func EvalIf(insn *ir.Instruction, env *Environment) BranchOutcome {
	if !insn.Opcode().IsConditionalBranch() {
		panic(errInternal)
	}
	if env.IsBottom() {
		// Unreachable states prove everything; folding on them would
		// rewrite dead branches based on no information.
		return BranchUnknown
	}

	left := env.Get(insn.Src(0))
	var right L.SignedConstantDomain
	if insn.Opcode().IsZeroCompare() {
		right = L.Elements().SignedNarrow(0)
	} else {
		right = env.Get(insn.Src(1))
	}
	if left.IsBot() || right.IsBot() {
		return BranchUnknown
	}

	switch insn.Opcode() {
	case ir.OpIfEq, ir.OpIfEqz:
		return evalEquality(left, right, true)
	case ir.OpIfNe, ir.OpIfNez:
		return evalEquality(left, right, false)

	// The ordered comparisons fold on interval bounds alone, so they
	// also fire on inexact range facts seeded by an external driver.
	case ir.OpIfLt, ir.OpIfLtz:
		return evalLess(left, right)
	case ir.OpIfGe, ir.OpIfGez:
		return invert(evalLess(left, right))
	case ir.OpIfGt, ir.OpIfGtz:
		return evalLess(right, left)
	case ir.OpIfLe, ir.OpIfLez:
		return invert(evalLess(right, left))
	}
	panic(errInternal)
}

// evalEquality folds an (in)equality test. It only fires when both
// sides are exact constants; overlapping but inexact ranges prove
// nothing either way.
func evalEquality(left, right L.SignedConstantDomain, wantEqual bool) BranchOutcome {
	if !left.IsValue() || !right.IsValue() {
		return BranchUnknown
	}
	equal := left.Constant().Value() == right.Constant().Value()
	return fold(equal == wantEqual)
}

// evalLess folds a strict less-than test on interval bounds:
// max(l) < min(r) proves it, min(l) >= max(r) refutes it. The other
// ordered comparisons reduce to this one by swapping or inverting.
func evalLess(left, right L.SignedConstantDomain) BranchOutcome {
	switch {
	case left.MaxElement() < right.MinElement():
		return BranchAlwaysTaken
	case left.MinElement() >= right.MaxElement():
		return BranchNeverTaken
	}
	return BranchUnknown
}

func invert(o BranchOutcome) BranchOutcome {
	switch o {
	case BranchAlwaysTaken:
		return BranchNeverTaken
	case BranchNeverTaken:
		return BranchAlwaysTaken
	}
	return BranchUnknown
}
