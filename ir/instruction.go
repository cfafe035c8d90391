package ir

import (
	"fmt"
	"strings"
)

// Register is a small non-negative virtual register index.
type Register uint32

// MethodRef names an external callable.
type MethodRef struct {
	Class      string
	Name       string
	Descriptor string
}

func (r *MethodRef) String() string {
	return r.Class + "." + r.Name + ":" + r.Descriptor
}

// FieldRef names an external static field.
type FieldRef struct {
	Class string
	Name  string
	Type  string
}

func (r *FieldRef) String() string {
	return r.Class + "." + r.Name + ":" + r.Type
}

// Instruction is a single bytecode instruction. The node itself is
// owned by the enclosing block; its pointer identity is stable across
// in-place edits, which lets later passes track an instruction's
// origin through rewrites.
type Instruction struct {
	op      Opcode
	dest    Register
	srcs    []Register
	literal int64
	target  *Block
	method  *MethodRef
	field   *FieldRef
}

// NewInstruction creates a fresh instruction node of the given opcode.
func NewInstruction(op Opcode) *Instruction {
	return &Instruction{op: op}
}

func (i *Instruction) Opcode() Opcode {
	return i.op
}

func (i *Instruction) Dest() Register {
	return i.dest
}

func (i *Instruction) SetDest(r Register) *Instruction {
	i.dest = r
	return i
}

// HasDest reports whether this instruction writes a register.
func (i *Instruction) HasDest() bool {
	return i.op.HasDest()
}

// DestIsWide reports whether the written register is a pair.
func (i *Instruction) DestIsWide() bool {
	return i.op.DestIsWide()
}

// Src returns the n'th source register.
func (i *Instruction) Src(n int) Register {
	return i.srcs[n]
}

func (i *Instruction) SetSrc(n int, r Register) *Instruction {
	i.srcs[n] = r
	return i
}

func (i *Instruction) AddSrc(r Register) *Instruction {
	i.srcs = append(i.srcs, r)
	return i
}

func (i *Instruction) SrcCount() int {
	return len(i.srcs)
}

func (i *Instruction) Literal() int64 {
	return i.literal
}

func (i *Instruction) SetLiteral(lit int64) *Instruction {
	i.literal = lit
	return i
}

// Target is the branch target block, if any.
func (i *Instruction) Target() *Block {
	return i.target
}

func (i *Instruction) SetTarget(b *Block) *Instruction {
	i.target = b
	return i
}

func (i *Instruction) MethodRef() *MethodRef {
	return i.method
}

func (i *Instruction) SetMethodRef(m *MethodRef) *Instruction {
	i.method = m
	return i
}

func (i *Instruction) FieldRef() *FieldRef {
	return i.field
}

func (i *Instruction) SetFieldRef(f *FieldRef) *Instruction {
	i.field = f
	return i
}

// ReplaceWith overwrites the opcode and operands of the receiver with
// those of `other`, preserving the receiver's node identity.
func (i *Instruction) ReplaceWith(other *Instruction) {
	i.op = other.op
	i.dest = other.dest
	i.srcs = append(i.srcs[:0], other.srcs...)
	i.literal = other.literal
	i.target = other.target
	i.method = other.method
	i.field = other.field
}

func (i *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.op.String())

	operands := []string{}
	if i.HasDest() {
		operands = append(operands, fmt.Sprintf("v%d", i.dest))
	}
	for _, src := range i.srcs {
		operands = append(operands, fmt.Sprintf("v%d", src))
	}
	if i.op.HasLiteral() {
		operands = append(operands, fmt.Sprintf("#%d", i.literal))
	}
	if i.target != nil {
		operands = append(operands, fmt.Sprintf("b%d", i.target.ID()))
	}
	if i.method != nil {
		operands = append(operands, "@"+i.method.String())
	}
	if i.field != nil {
		operands = append(operands, "@"+i.field.String())
	}

	if len(operands) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(operands, ", "))
	}
	return sb.String()
}
