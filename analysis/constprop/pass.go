// Package constprop implements local (basic block level) constant
// propagation for the register bytecode IR.
//
// The analysis goes instruction by instruction at the basic block
// boundary and gathers facts about constants inside the signed
// constant domain lattice. On its own it drives a simple propagation
// that resets at every block boundary; an external fixed-point driver
// may instead seed each block with a joined entry environment to
// obtain whole-method precision.
package constprop

import (
	"github.com/finch-opt/finch/ir"
)

// Config selects the optional rewrites of the pass.
type Config struct {
	// FoldArithmetic folds add-int/lit instructions with a proven
	// constant operand. add-int/lit8 is by far the most common
	// arithmetic instruction, so it is the only arithmetic form
	// modeled here.
	FoldArithmetic bool `yaml:"fold_arithmetic"`
	// ReplaceMovesWithConsts rematerializes moves of proven constants
	// as constant loads.
	ReplaceMovesWithConsts bool `yaml:"replace_moves_with_consts"`
}

// Stats exposes the observable effect of a pass run.
type Stats struct {
	BranchesPropagated int
	MaterializedConsts int
}

// Tracer receives a line for every analysis event. The zero value of
// the engine traces nowhere.
type Tracer interface {
	Tracef(format string, args ...interface{})
}

type nopTracer struct{}

func (nopTracer) Tracef(string, ...interface{}) {}

// NopTracer discards all trace output.
var NopTracer Tracer = nopTracer{}

// LocalConstantPropagation analyzes and rewrites one basic block at a
// time. It has no internal synchronization and assumes exclusive
// access to the method being processed.
type LocalConstantPropagation struct {
	config Config
	tracer Tracer
	stats  Stats
}

// New creates a pass instance. A nil tracer traces nowhere.
func New(config Config, tracer Tracer) *LocalConstantPropagation {
	if tracer == nil {
		tracer = NopTracer
	}
	return &LocalConstantPropagation{config: config, tracer: tracer}
}

// Stats returns the counters accumulated across all processed blocks.
func (p *LocalConstantPropagation) Stats() Stats {
	return p.stats
}

// ProcessBlock runs the two-phase analyze/decide pass over one block,
// starting from the given entry environment, and returns the edit log
// of planned rewrites. The block itself is untouched until the caller
// applies the log.
func (p *LocalConstantPropagation) ProcessBlock(block *ir.Block, env *Environment) *ir.Editor {
	ed := ir.NewEditor(block)
	for _, insn := range block.Instructions() {
		// Simplification reads the state *after* the instruction's own
		// transfer function: for a move, the destination then holds
		// the propagated value. Branches are identity transfers, so
		// the ordering is immaterial for them.
		p.AnalyzeInstruction(insn, env)
		p.SimplifyInstruction(insn, env, ed)
	}
	return ed
}

// simplifyBranch folds a conditional branch whose outcome is statically
// determined under env.
func (p *LocalConstantPropagation) simplifyBranch(insn *ir.Instruction, env *Environment, ed *ir.Editor) {
	outcome := EvalIf(insn, env)
	if outcome == BranchUnknown {
		return
	}

	var repl *ir.Instruction
	if outcome == BranchAlwaysTaken {
		repl = ir.NewInstruction(ir.OpGoto).SetTarget(insn.Target())
	} else {
		// Deleting the branch is left to dead code elimination; a nop
		// keeps the block layout stable for this pass.
		repl = ir.NewInstruction(ir.OpNop)
	}

	p.tracer.Tracef("folding conditional branch %s: always %v", insn, outcome == BranchAlwaysTaken)
	p.stats.BranchesPropagated++
	ed.Replace(insn, repl)
}

// SimplifyInstruction records a rewrite for an instruction whose effect
// is statically determined under `env`, the state after the
// instruction's own transfer function.
func (p *LocalConstantPropagation) SimplifyInstruction(insn *ir.Instruction, env *Environment, ed *ir.Editor) {
	if insn.Opcode().IsConditionalBranch() {
		p.simplifyBranch(insn, env, ed)
		return
	}

	switch insn.Opcode() {
	case ir.OpMove:
		if p.config.ReplaceMovesWithConsts {
			p.simplifyNonBranch(insn, env, false, ed)
		}
	case ir.OpMoveWide:
		if p.config.ReplaceMovesWithConsts {
			p.simplifyNonBranch(insn, env, true, ed)
		}
	case ir.OpAddIntLit8, ir.OpAddIntLit16:
		if p.config.FoldArithmetic {
			p.simplifyNonBranch(insn, env, false, ed)
		}
	}
}

// simplifyNonBranch replaces an instruction that has a single
// destination register with a constant load. We read from the
// destination because the transfer function has already put the new
// value there.
func (p *LocalConstantPropagation) simplifyNonBranch(insn *ir.Instruction, env *Environment, isWide bool, ed *ir.Editor) {
	dst := insn.Dest()

	var repl *ir.Instruction
	if !isWide {
		value, ok := env.GetNarrow(dst)
		if !ok {
			return
		}
		repl = ir.NewInstruction(ir.OpConst).SetDest(dst).SetLiteral(int64(value))
	} else {
		value, ok := env.GetWide(dst)
		if !ok {
			return
		}
		repl = ir.NewInstruction(ir.OpConstWide).SetDest(dst).SetLiteral(value)
	}

	p.tracer.Tracef("replacing %s with %s", insn, repl)
	p.stats.MaterializedConsts++
	ed.Replace(insn, repl)
}
