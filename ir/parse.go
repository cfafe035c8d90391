package ir

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The assembler syntax is line oriented:
//
//	class Lcom/example/Main; classes.dex
//
//	method run:(II)I regs=4
//	b0:
//	  load-param v0
//	  const v1, #10
//	  if-lt v0, v1, b2
//	b1:
//	  return v0
//	b2:
//	  invoke-static v0, @Lcom/example/Debug;.hook:(I)V
//	  goto b1
//
// Control-flow edges are derived from the trailing instruction of each
// block: conditional branches fall through to the next block in layout
// order and additionally target their label, gotos only target their
// label, returns end the method.

type parser struct {
	program *Program
	cls     *Class
	method  *Method
	blocks  map[string]*Block
	cur     *Block
	lineno  int
}

type parseError struct {
	lineno int
	msg    string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.lineno, e.msg)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &parseError{p.lineno, fmt.Sprintf(format, args...)}
}

// Parse reads a whole program in assembler syntax.
func Parse(r io.Reader) (*Program, error) {
	p := &parser{program: &Program{}}

	// Method bodies are parsed in two passes so that forward branches
	// can resolve their target blocks.
	var pending []string

	flush := func() error {
		if p.method == nil {
			return nil
		}
		if err := p.parseBody(pending); err != nil {
			return err
		}
		pending = nil
		p.method = nil
		return nil
	}

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		p.lineno++
		line := strings.TrimSpace(stripComment(scan.Text()))
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "class "):
			if err := flush(); err != nil {
				return nil, err
			}
			fields := strings.Fields(line[len("class "):])
			if len(fields) == 0 {
				return nil, p.errorf("class requires a name")
			}
			location := ""
			if len(fields) > 1 {
				location = fields[1]
			}
			p.cls = NewClass(fields[0], location)
			p.program.AddClass(p.cls)

		case strings.HasPrefix(line, "method "):
			if err := flush(); err != nil {
				return nil, err
			}
			if p.cls == nil {
				return nil, p.errorf("method outside of a class")
			}
			m, err := p.parseMethodHeader(line[len("method "):])
			if err != nil {
				return nil, err
			}
			p.method = m
			p.cls.AddMethod(m)

		default:
			if p.method == nil {
				return nil, p.errorf("instruction outside of a method: %q", line)
			}
			pending = append(pending, line)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return p.program, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func (p *parser) parseMethodHeader(rest string) (*Method, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, p.errorf("method requires a name")
	}
	name, descriptor := fields[0], ""
	if i := strings.Index(name, ":"); i >= 0 {
		name, descriptor = name[:i], name[i+1:]
	}
	m := NewMethod(p.cls, name, descriptor)
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "regs=") {
			n, err := strconv.ParseUint(f[len("regs="):], 10, 32)
			if err != nil {
				return nil, p.errorf("bad register count %q", f)
			}
			m.Code().SetRegisterCount(uint32(n))
		}
	}
	return m, nil
}

func (p *parser) parseBody(lines []string) error {
	code := p.method.Code()
	p.blocks = make(map[string]*Block)
	p.cur = nil

	// Pass 1: create the blocks in label definition order, so block
	// ids match the b<N> labels of a well-formed listing.
	for _, line := range lines {
		if label, ok := blockLabel(line); ok {
			if _, dup := p.blocks[label]; dup {
				return p.errorf("duplicate block label %q", label)
			}
			p.blocks[label] = code.NewBlock()
		}
	}

	// Pass 2: parse instructions.
	for _, line := range lines {
		if label, ok := blockLabel(line); ok {
			p.cur = p.blocks[label]
			continue
		}
		if p.cur == nil {
			if len(code.Blocks()) > 0 {
				return p.errorf("instruction before first block label: %q", line)
			}
			p.cur = code.NewBlock()
		}
		insn, err := p.parseInstruction(line)
		if err != nil {
			return err
		}
		p.cur.Append(insn)
	}

	connectEdges(code)
	return nil
}

func blockLabel(line string) (string, bool) {
	if strings.HasSuffix(line, ":") && strings.HasPrefix(line, "b") {
		return strings.TrimSuffix(line, ":"), true
	}
	return "", false
}

// numSrcs is the number of source register operands per opcode, with
// -1 denoting a variable argument list.
func numSrcs(op Opcode) int {
	switch op {
	case OpMove, OpMoveObject, OpMoveWide,
		OpAddIntLit8, OpAddIntLit16,
		OpIfEqz, OpIfNez, OpIfLtz, OpIfGez, OpIfGtz, OpIfLez,
		OpReturn, OpReturnWide, OpReturnObject,
		OpSput, OpSputObject,
		OpNewArray:
		return 1
	case OpCmplFloat, OpCmpgFloat, OpCmplDouble, OpCmpgDouble, OpCmpLong,
		OpIfEq, OpIfNe, OpIfLt, OpIfGe, OpIfGt, OpIfLe:
		return 2
	case OpInvokeStatic:
		return -1
	}
	return 0
}

func (p *parser) parseInstruction(line string) (*Instruction, error) {
	name, rest, _ := strings.Cut(line, " ")
	op, ok := OpcodeByName(name)
	if !ok {
		return nil, p.errorf("unknown opcode %q", name)
	}
	insn := NewInstruction(op)

	operands := []string{}
	for _, o := range strings.Split(rest, ",") {
		if o = strings.TrimSpace(o); o != "" {
			operands = append(operands, o)
		}
	}

	next := func() (string, error) {
		if len(operands) == 0 {
			return "", p.errorf("missing operand for %q", name)
		}
		o := operands[0]
		operands = operands[1:]
		return o, nil
	}

	reg := func() (Register, error) {
		o, err := next()
		if err != nil {
			return 0, err
		}
		if !strings.HasPrefix(o, "v") {
			return 0, p.errorf("expected register, got %q", o)
		}
		n, err := strconv.ParseUint(o[1:], 10, 32)
		if err != nil {
			return 0, p.errorf("bad register %q", o)
		}
		return Register(n), nil
	}

	if op.HasDest() {
		d, err := reg()
		if err != nil {
			return nil, err
		}
		insn.SetDest(d)
	}

	srcs := numSrcs(op)
	if srcs < 0 {
		// Source registers up to the first non-register operand.
		for len(operands) > 0 && strings.HasPrefix(operands[0], "v") {
			s, err := reg()
			if err != nil {
				return nil, err
			}
			insn.AddSrc(s)
		}
	} else {
		for i := 0; i < srcs; i++ {
			s, err := reg()
			if err != nil {
				return nil, err
			}
			insn.AddSrc(s)
		}
	}

	if op.HasLiteral() {
		o, err := next()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(o, "#") {
			return nil, p.errorf("expected literal, got %q", o)
		}
		lit, err := strconv.ParseInt(o[1:], 10, 64)
		if err != nil {
			return nil, p.errorf("bad literal %q", o)
		}
		insn.SetLiteral(lit)
	}

	if op.IsBranch() {
		o, err := next()
		if err != nil {
			return nil, err
		}
		target, ok := p.blocks[o]
		if !ok {
			return nil, p.errorf("unknown branch target %q", o)
		}
		insn.SetTarget(target)
	}

	if len(operands) > 0 && strings.HasPrefix(operands[0], "@") {
		o, _ := next()
		ref := o[1:]
		cls, member, okc := strings.Cut(ref, ".")
		memberName, sig, oks := strings.Cut(member, ":")
		if !okc || !oks {
			return nil, p.errorf("bad reference %q", o)
		}
		switch op {
		case OpSput, OpSputObject:
			insn.SetFieldRef(&FieldRef{Class: cls, Name: memberName, Type: sig})
		default:
			insn.SetMethodRef(&MethodRef{Class: cls, Name: memberName, Descriptor: sig})
		}
	}

	if len(operands) > 0 {
		return nil, p.errorf("trailing operands for %q: %v", name, operands)
	}
	return insn, nil
}

// connectEdges derives control-flow edges from trailing instructions.
func connectEdges(code *Code) {
	blocks := code.Blocks()
	for i, b := range blocks {
		var last *Instruction
		if n := len(b.Instructions()); n > 0 {
			last = b.Instructions()[n-1]
		}

		fallsThrough := true
		if last != nil {
			switch {
			case last.Opcode() == OpGoto:
				code.AddEdge(b, last.Target())
				fallsThrough = false
			case last.Opcode().IsConditionalBranch():
				code.AddEdge(b, last.Target())
			case last.Opcode() == OpReturnVoid || last.Opcode() == OpReturn ||
				last.Opcode() == OpReturnWide || last.Opcode() == OpReturnObject:
				fallsThrough = false
			}
		}

		if fallsThrough && i+1 < len(blocks) {
			code.AddEdge(b, blocks[i+1])
		}
	}
}
