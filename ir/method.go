package ir

// Code is the body of a method: its control-flow graph and register
// file. Register indices below regCount are in use; AllocateTemp hands
// out fresh scratch registers above them.
type Code struct {
	method   *Method
	blocks   []*Block
	regCount uint32
}

func (c *Code) Method() *Method {
	return c.method
}

// NewBlock appends a fresh empty block to the code.
func (c *Code) NewBlock() *Block {
	b := &Block{id: len(c.blocks), code: c}
	c.blocks = append(c.blocks, b)
	return b
}

// Entry is the unique entry block.
func (c *Code) Entry() *Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[0]
}

// Blocks returns all blocks in layout order.
func (c *Code) Blocks() []*Block {
	return c.blocks
}

// AddEdge connects two blocks in the control-flow graph.
func (c *Code) AddEdge(from, to *Block) {
	for _, s := range from.succs {
		if s == to {
			return
		}
	}
	from.succs = append(from.succs, to)
	to.preds = append(to.preds, from)
}

// RegisterCount is the number of registers the method declares.
func (c *Code) RegisterCount() uint32 {
	return c.regCount
}

func (c *Code) SetRegisterCount(n uint32) {
	c.regCount = n
}

// AllocateTemp allocates a fresh scratch register.
func (c *Code) AllocateTemp() Register {
	r := Register(c.regCount)
	c.regCount++
	return r
}

// ForEachInstruction visits every instruction of every block in layout
// order.
func (c *Code) ForEachInstruction(do func(b *Block, insn *Instruction)) {
	for _, b := range c.blocks {
		for _, insn := range b.instrs {
			do(b, insn)
		}
	}
}

// Method is a callable unit: a named member of a class with a code
// body.
type Method struct {
	class      *Class
	name       string
	descriptor string
	code       *Code
}

func NewMethod(cls *Class, name, descriptor string) *Method {
	m := &Method{class: cls, name: name, descriptor: descriptor}
	m.code = &Code{method: m}
	return m
}

func (m *Method) Class() *Class {
	return m.class
}

func (m *Method) Name() string {
	return m.name
}

func (m *Method) Descriptor() string {
	return m.descriptor
}

func (m *Method) Code() *Code {
	return m.code
}

// Show renders the human-readable method descriptor used in reports.
func (m *Method) Show() string {
	return m.class.Name() + "." + m.name + ":" + m.descriptor
}

// IsClinit checks for the static class initializer.
func (m *Method) IsClinit() bool {
	return m.name == "<clinit>"
}
