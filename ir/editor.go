package ir

import "fmt"

type editKind uint8

const (
	editReplace editKind = iota
	editDelete
	editInsertBefore
)

type edit struct {
	kind   editKind
	anchor *Instruction
	repl   []*Instruction
}

// Editor collects planned edits against one block during an analysis
// pass and applies them afterwards in a single batch. The two-phase
// split is the central correctness invariant of every transformation
// in this module: the instruction list must never be mutated while it
// is being iterated.
//
// Every original instruction may be replaced or deleted at most once,
// and every recorded edit must reference an instruction present in the
// block. Violations are programming errors and panic.
type Editor struct {
	block   *Block
	edits   []edit
	claimed map[*Instruction]bool
	applied bool
}

func NewEditor(b *Block) *Editor {
	return &Editor{
		block:   b,
		claimed: make(map[*Instruction]bool),
	}
}

func (ed *Editor) check(insn *Instruction) {
	if ed.block.IndexOf(insn) < 0 {
		panic(fmt.Sprintf("editor: instruction %q is not a member of block b%d",
			insn, ed.block.ID()))
	}
}

func (ed *Editor) claim(insn *Instruction) {
	ed.check(insn)
	if ed.claimed[insn] {
		panic(fmt.Sprintf("editor: instruction %q already replaced or deleted", insn))
	}
	ed.claimed[insn] = true
}

// Replace records an in-place replacement of `old` by `repl`. The
// identity of the original node is preserved on apply; only its opcode
// and operands are overwritten.
func (ed *Editor) Replace(old, repl *Instruction) {
	ed.claim(old)
	ed.edits = append(ed.edits, edit{editReplace, old, []*Instruction{repl}})
}

// Delete records the removal of `old` from the block.
func (ed *Editor) Delete(old *Instruction) {
	ed.claim(old)
	ed.edits = append(ed.edits, edit{editDelete, old, nil})
}

// InsertBefore records the insertion of `ins` immediately before
// `anchor`. The anchor may be targeted by several insertions; they are
// applied in the order recorded.
func (ed *Editor) InsertBefore(anchor *Instruction, ins ...*Instruction) {
	ed.check(anchor)
	ed.edits = append(ed.edits, edit{editInsertBefore, anchor, ins})
}

// Pending returns the number of recorded, unapplied edits.
func (ed *Editor) Pending() int {
	if ed.applied {
		return 0
	}
	return len(ed.edits)
}

// Apply consumes the edit log in creation order and mutates the
// block's instruction list. It returns the number of edits applied.
// A consumed editor is inert: applying twice is a no-op.
func (ed *Editor) Apply() int {
	if ed.applied {
		return 0
	}
	ed.applied = true

	applied := 0
	for _, e := range ed.edits {
		i := ed.block.IndexOf(e.anchor)
		if i < 0 {
			panic(fmt.Sprintf("editor: instruction %q vanished from block b%d before apply",
				e.anchor, ed.block.ID()))
		}
		switch e.kind {
		case editReplace:
			e.anchor.ReplaceWith(e.repl[0])
		case editDelete:
			ed.block.removeAt(i)
		case editInsertBefore:
			ed.block.insertAt(i, e.repl...)
		}
		applied++
	}
	return applied
}
