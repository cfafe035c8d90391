package ir

import (
	"fmt"
	"io"
)

// Fprint writes the program back out in assembler syntax. The output
// parses back to an equivalent program and is stable, which makes it
// suitable for golden tests.
func Fprint(w io.Writer, p *Program) error {
	for ci, c := range p.Classes() {
		if ci > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := fprintClass(w, c); err != nil {
			return err
		}
	}
	return nil
}

func fprintClass(w io.Writer, c *Class) error {
	if c.Location() != "" {
		fmt.Fprintf(w, "class %s %s\n", c.Name(), c.Location())
	} else {
		fmt.Fprintf(w, "class %s\n", c.Name())
	}
	for _, m := range c.Methods() {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := FprintMethod(w, m); err != nil {
			return err
		}
	}
	return nil
}

// FprintMethod writes a single method in assembler syntax.
func FprintMethod(w io.Writer, m *Method) error {
	fmt.Fprintf(w, "method %s:%s regs=%d\n", m.Name(), m.Descriptor(), m.Code().RegisterCount())
	for _, b := range m.Code().Blocks() {
		fmt.Fprintf(w, "b%d:\n", b.ID())
		for _, insn := range b.Instructions() {
			if _, err := fmt.Fprintf(w, "  %s\n", insn); err != nil {
				return err
			}
		}
	}
	return nil
}
