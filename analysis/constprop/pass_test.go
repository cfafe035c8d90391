package constprop

import (
	"testing"

	"github.com/finch-opt/finch/ir"
)

func newBlock(t *testing.T) (*ir.Block, *ir.Block) {
	t.Helper()
	m := ir.NewMethod(ir.NewClass("Lcom/example/Foo;", "classes.dex"), "bar", "()V")
	entry := m.Code().NewBlock()
	target := m.Code().NewBlock()
	m.Code().AddEdge(entry, target)
	return entry, target
}

func TestProcessBlockFoldsTakenBranch(t *testing.T) {
	entry, target := newBlock(t)
	branch := ir.NewInstruction(ir.OpIfLt).AddSrc(0).AddSrc(1).SetTarget(target)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(10),
		ir.NewInstruction(ir.OpConst).SetDest(1).SetLiteral(20),
		branch,
	)

	p := newPass(Config{})
	ed := p.ProcessBlock(entry, NewEnvironment())

	if applied := ed.Apply(); applied != 1 {
		t.Errorf("expected 1 applied edit, got %d", applied)
	}
	if got := p.Stats().BranchesPropagated; got != 1 {
		t.Errorf("expected 1 propagated branch, got %d", got)
	}
	if branch.Opcode() != ir.OpGoto {
		t.Errorf("expected branch folded to goto, got %s", branch)
	}
	if branch.Target() != target {
		t.Errorf("folded goto does not keep the branch target")
	}
}

func TestProcessBlockFoldsUntakenBranch(t *testing.T) {
	entry, target := newBlock(t)
	branch := ir.NewInstruction(ir.OpIfEqz).AddSrc(0).SetTarget(target)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(3),
		branch,
	)

	p := newPass(Config{})
	p.ProcessBlock(entry, NewEnvironment()).Apply()

	if branch.Opcode() != ir.OpNop {
		t.Errorf("expected untaken branch folded to nop, got %s", branch)
	}
	if got := p.Stats().BranchesPropagated; got != 1 {
		t.Errorf("expected 1 propagated branch, got %d", got)
	}
}

func TestProcessBlockLeavesOpenBranch(t *testing.T) {
	entry, target := newBlock(t)
	branch := ir.NewInstruction(ir.OpIfEq).AddSrc(0).AddSrc(1).SetTarget(target)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(10),
		ir.NewInstruction(ir.OpMove).SetDest(0).AddSrc(2),
		branch,
	)

	p := newPass(Config{})
	ed := p.ProcessBlock(entry, NewEnvironment())

	if ed.Pending() != 0 {
		t.Errorf("expected no edits, got %d pending", ed.Pending())
	}
	if branch.Opcode() != ir.OpIfEq {
		t.Errorf("branch was rewritten to %s", branch)
	}
}

func TestProcessBlockReplacesMove(t *testing.T) {
	entry, _ := newBlock(t)
	move := ir.NewInstruction(ir.OpMove).SetDest(1).AddSrc(0)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(42),
		move,
	)

	p := newPass(Config{ReplaceMovesWithConsts: true})
	p.ProcessBlock(entry, NewEnvironment()).Apply()

	if move.Opcode() != ir.OpConst || move.Literal() != 42 || move.Dest() != 1 {
		t.Errorf("expected move rematerialized as const v1, #42, got %s", move)
	}
	if got := p.Stats().MaterializedConsts; got != 1 {
		t.Errorf("expected 1 materialized constant, got %d", got)
	}
}

func TestProcessBlockReplacesWideMove(t *testing.T) {
	entry, _ := newBlock(t)
	move := ir.NewInstruction(ir.OpMoveWide).SetDest(2).AddSrc(0)
	entry.Append(
		ir.NewInstruction(ir.OpConstWide).SetDest(0).SetLiteral(1<<40),
		move,
	)

	p := newPass(Config{ReplaceMovesWithConsts: true})
	p.ProcessBlock(entry, NewEnvironment()).Apply()

	if move.Opcode() != ir.OpConstWide || move.Literal() != 1<<40 {
		t.Errorf("expected wide move rematerialized, got %s", move)
	}
}

func TestProcessBlockMoveReplacementDisabled(t *testing.T) {
	entry, _ := newBlock(t)
	move := ir.NewInstruction(ir.OpMove).SetDest(1).AddSrc(0)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(42),
		move,
	)

	p := newPass(Config{})
	p.ProcessBlock(entry, NewEnvironment()).Apply()

	if move.Opcode() != ir.OpMove {
		t.Errorf("move was rewritten to %s with replacement disabled", move)
	}
}

func TestProcessBlockFoldsAddLiteral(t *testing.T) {
	entry, _ := newBlock(t)
	add := ir.NewInstruction(ir.OpAddIntLit8).SetDest(1).AddSrc(0).SetLiteral(3)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(5),
		add,
	)

	p := newPass(Config{FoldArithmetic: true})
	p.ProcessBlock(entry, NewEnvironment()).Apply()

	if add.Opcode() != ir.OpConst || add.Literal() != 8 || add.Dest() != 1 {
		t.Errorf("expected add folded to const v1, #8, got %s", add)
	}
}

func TestProcessBlockChainsFacts(t *testing.T) {
	// Facts established earlier in the block feed later folds, so a
	// chain of moves and adds collapses in a single pass.
	entry, target := newBlock(t)
	branch := ir.NewInstruction(ir.OpIfGtz).AddSrc(3).SetTarget(target)
	entry.Append(
		ir.NewInstruction(ir.OpConst).SetDest(0).SetLiteral(1),
		ir.NewInstruction(ir.OpMove).SetDest(1).AddSrc(0),
		ir.NewInstruction(ir.OpAddIntLit8).SetDest(3).AddSrc(1).SetLiteral(1),
		branch,
	)

	p := newPass(Config{FoldArithmetic: true, ReplaceMovesWithConsts: true})
	p.ProcessBlock(entry, NewEnvironment()).Apply()

	if branch.Opcode() != ir.OpGoto {
		t.Errorf("expected chained facts to fold the branch, got %s", branch)
	}
	stats := p.Stats()
	if stats.BranchesPropagated != 1 || stats.MaterializedConsts != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
