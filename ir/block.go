package ir

// Block is a basic block: a maximal straight-line instruction sequence
// with a single entry and a single exit. Blocks own their instruction
// nodes; edits go through an Editor, never through direct mutation
// while the block is being iterated.
type Block struct {
	id     int
	code   *Code
	instrs []*Instruction
	preds  []*Block
	succs  []*Block
}

func (b *Block) ID() int {
	return b.id
}

func (b *Block) Code() *Code {
	return b.code
}

// Instructions exposes the ordered instruction sequence. Callers must
// not mutate the returned slice.
func (b *Block) Instructions() []*Instruction {
	return b.instrs
}

func (b *Block) Preds() []*Block {
	return b.preds
}

func (b *Block) Succs() []*Block {
	return b.succs
}

func (b *Block) Append(ins ...*Instruction) *Block {
	b.instrs = append(b.instrs, ins...)
	return b
}

// IndexOf locates an instruction node by identity, or returns -1.
func (b *Block) IndexOf(insn *Instruction) int {
	for i, in := range b.instrs {
		if in == insn {
			return i
		}
	}
	return -1
}

// InstructionCount returns the number of instructions in the block,
// pseudo opcodes included.
func (b *Block) InstructionCount() int {
	return len(b.instrs)
}

// FirstNonInternal returns the index of the first instruction that is
// neither a nop nor a control-flow-internal pseudo opcode, or -1 if
// the block consists only of such instructions.
func (b *Block) FirstNonInternal() int {
	for i, in := range b.instrs {
		if in.Opcode() == OpNop || in.Opcode().IsInternal() {
			continue
		}
		return i
	}
	return -1
}

// insertAt splices instructions before position i. Only the Editor
// calls this, after the analysis pass over the block has finished.
func (b *Block) insertAt(i int, ins ...*Instruction) {
	b.instrs = append(b.instrs[:i], append(append([]*Instruction{}, ins...), b.instrs[i:]...)...)
}

// removeAt deletes the instruction at position i. Only the Editor
// calls this.
func (b *Block) removeAt(i int) {
	b.instrs = append(b.instrs[:i], b.instrs[i+1:]...)
}
