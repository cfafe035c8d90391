package constprop

import (
	"math"

	"github.com/finch-opt/finch/ir"
)

// AnalyzeInstruction applies the transfer function of one instruction
// to env in place. Instructions whose effect is not modeled clobber
// their destination register, if any, with an unknown value.
func (p *LocalConstantPropagation) AnalyzeInstruction(insn *ir.Instruction, env *Environment) {
	p.tracer.Tracef("analyzing instruction: %s", insn)

	switch insn.Opcode() {
	case ir.OpConst:
		env.SetNarrow(insn.Dest(), int32(insn.Literal()))
	case ir.OpConstWide:
		env.SetWide(insn.Dest(), insn.Literal())

	case ir.OpMove, ir.OpMoveObject:
		analyzeNonBranch(insn, env, false)
	case ir.OpMoveWide:
		analyzeNonBranch(insn, env, true)

	case ir.OpCmplFloat, ir.OpCmpgFloat:
		analyzeCompare(insn, env, compareFloat, false)
	case ir.OpCmplDouble, ir.OpCmpgDouble:
		analyzeCompare(insn, env, compareDouble, true)
	case ir.OpCmpLong:
		analyzeCompare(insn, env, compareLong, true)

	case ir.OpAddIntLit8, ir.OpAddIntLit16:
		if p.config.FoldArithmetic {
			analyzeAddLiteral(insn, env)
		} else {
			env.SetTop(insn.Dest(), false)
		}

	default:
		if insn.Opcode().HasDest() {
			p.tracer.Tracef("marking value unknown: v%d", insn.Dest())
			env.SetTop(insn.Dest(), insn.Opcode().DestIsWide())
		}
	}
}

// analyzeNonBranch propagates the value of the single source register
// into the destination register.
func analyzeNonBranch(insn *ir.Instruction, env *Environment, isWide bool) {
	dst := insn.Dest()
	src := insn.Src(0)

	if !isWide {
		if value, ok := env.GetNarrow(src); ok {
			env.SetNarrow(dst, value)
			return
		}
	} else {
		if value, ok := env.GetWide(src); ok {
			env.SetWide(dst, value)
			return
		}
	}
	env.SetTop(dst, isWide)
}

// analyzeCompare folds the three-way comparison opcodes when both
// operands are constants. The operand registers hold raw bit patterns;
// each comparator reinterprets them in its own value domain.
func analyzeCompare(insn *ir.Instruction, env *Environment, compare func(op ir.Opcode, left, right int64) int32, isWide bool) {
	left, leftOk := operandBits(env, insn.Src(0), isWide)
	right, rightOk := operandBits(env, insn.Src(1), isWide)
	if !leftOk || !rightOk {
		env.SetTop(insn.Dest(), false)
		return
	}
	env.SetNarrow(insn.Dest(), compare(insn.Opcode(), left, right))
}

func operandBits(env *Environment, reg ir.Register, isWide bool) (int64, bool) {
	if isWide {
		return env.GetWide(reg)
	}
	value, ok := env.GetNarrow(reg)
	return int64(value), ok
}

// analyzeAddLiteral folds an add-int/lit instruction when its register
// operand is a known constant and the addition provably stays within
// the 32 bit range. Overflowing additions are left alone rather than
// modeled with wrap-around.
func analyzeAddLiteral(insn *ir.Instruction, env *Environment) {
	lit := int32(insn.Literal())
	value, ok := env.GetNarrow(insn.Src(0))
	if !ok || additionOutOfBounds(lit, value) {
		env.SetTop(insn.Dest(), false)
		return
	}
	env.SetNarrow(insn.Dest(), value+lit)
}

func additionOutOfBounds(lit, value int32) bool {
	return (lit > 0 && value > math.MaxInt32-lit) ||
		(lit < 0 && value < math.MinInt32-lit)
}
