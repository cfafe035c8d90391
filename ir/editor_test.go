package ir

import "testing"

func testBlock(t *testing.T, n int) (*Block, []*Instruction) {
	t.Helper()
	m := NewMethod(NewClass("Lcom/example/Foo;", "classes.dex"), "bar", "()V")
	b := m.Code().NewBlock()
	ins := make([]*Instruction, n)
	for i := range ins {
		ins[i] = NewInstruction(OpConst).SetDest(Register(i)).SetLiteral(int64(i))
		b.Append(ins[i])
	}
	return b, ins
}

func opcodes(b *Block) []Opcode {
	ops := make([]Opcode, 0, len(b.Instructions()))
	for _, insn := range b.Instructions() {
		ops = append(ops, insn.Opcode())
	}
	return ops
}

func TestEditorBatchesEdits(t *testing.T) {
	b, ins := testBlock(t, 3)
	ed := NewEditor(b)
	ed.Replace(ins[0], NewInstruction(OpNop))
	ed.Delete(ins[1])
	ed.InsertBefore(ins[2], NewInstruction(OpGoto))

	// Nothing happens until Apply.
	if got := opcodes(b); len(got) != 3 || got[0] != OpConst {
		t.Errorf("block mutated before apply: %v", got)
	}
	if ed.Pending() != 3 {
		t.Errorf("expected 3 pending edits, got %d", ed.Pending())
	}

	if applied := ed.Apply(); applied != 3 {
		t.Errorf("expected 3 applied edits, got %d", applied)
	}
	want := []Opcode{OpNop, OpGoto, OpConst}
	got := opcodes(b)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestEditorReplacePreservesIdentity(t *testing.T) {
	b, ins := testBlock(t, 1)
	ed := NewEditor(b)
	ed.Replace(ins[0], NewInstruction(OpReturnVoid))
	ed.Apply()

	if b.Instructions()[0] != ins[0] {
		t.Errorf("replacement broke node identity")
	}
	if ins[0].Opcode() != OpReturnVoid {
		t.Errorf("replacement did not overwrite the instruction, got %s", ins[0])
	}
}

func TestEditorApplyTwiceIsNoop(t *testing.T) {
	b, ins := testBlock(t, 2)
	ed := NewEditor(b)
	ed.Delete(ins[0])
	ed.Apply()

	if applied := ed.Apply(); applied != 0 {
		t.Errorf("second apply performed %d edits", applied)
	}
	if ed.Pending() != 0 {
		t.Errorf("consumed editor reports %d pending edits", ed.Pending())
	}
	if len(b.Instructions()) != 1 {
		t.Errorf("second apply mutated the block again")
	}
}

func TestEditorRejectsDoubleClaim(t *testing.T) {
	b, ins := testBlock(t, 1)
	ed := NewEditor(b)
	ed.Replace(ins[0], NewInstruction(OpNop))

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on second claim of the same instruction")
		}
	}()
	ed.Delete(ins[0])
}

func TestEditorRejectsForeignInstruction(t *testing.T) {
	b, _ := testBlock(t, 1)
	ed := NewEditor(b)

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on instruction outside the block")
		}
	}()
	ed.Delete(NewInstruction(OpNop))
}

func TestEditorMultipleInsertsBeforeSameAnchor(t *testing.T) {
	b, ins := testBlock(t, 1)
	ed := NewEditor(b)
	first := NewInstruction(OpConst).SetDest(7).SetLiteral(7)
	second := NewInstruction(OpGoto)
	ed.InsertBefore(ins[0], first)
	ed.InsertBefore(ins[0], second)
	ed.Apply()

	instrs := b.Instructions()
	if len(instrs) != 3 || instrs[0] != first || instrs[1] != second || instrs[2] != ins[0] {
		t.Errorf("insertions applied out of order: %v", opcodes(b))
	}
}
