package ir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

const sampleListing = `
class Lcom/example/Main; classes.dex

// Comments and blank lines are dropped.
method run:(II)I regs=4
b0:
  load-param v0
  load-param v1
  const v2, #10
  if-lt v0, v2, b2
b1:
  add-int/lit8 v3, v0, #-1
  return v3
b2:
  invoke-static v0, v1, @Lcom/example/Debug;.hook:(II)V
  goto b1

method <clinit>:()V regs=2
b0:
  const v0, #8
  new-array v1, v0
  move-result-pseudo-object v1
  sput-object v1, @Lcom/example/Main;.sStats:[I
  return-void
`

func parse(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return p
}

func TestParseProgramShape(t *testing.T) {
	p := parse(t, sampleListing)

	cls := p.GetClass("Lcom/example/Main;")
	if cls == nil {
		t.Fatalf("class was not parsed")
	}
	if cls.Location() != "classes.dex" {
		t.Errorf("expected location classes.dex, got %q", cls.Location())
	}

	run := cls.FindMethod("run")
	if run == nil {
		t.Fatalf("method was not parsed")
	}
	if run.Descriptor() != "(II)I" || run.Code().RegisterCount() != 4 {
		t.Errorf("bad method header: %s regs=%d", run.Show(), run.Code().RegisterCount())
	}
	if cls.Clinit() == nil {
		t.Errorf("class initializer was not recognized")
	}

	blocks := run.Code().Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
}

func TestParseResolvesForwardBranches(t *testing.T) {
	p := parse(t, sampleListing)
	blocks := p.FindMethod("run").Code().Blocks()

	branch := blocks[0].Instructions()[3]
	if branch.Opcode() != OpIfLt || branch.Target() != blocks[2] {
		t.Errorf("forward branch did not resolve to b2: %s", branch)
	}
	back := blocks[2].Instructions()[1]
	if back.Opcode() != OpGoto || back.Target() != blocks[1] {
		t.Errorf("backward goto did not resolve to b1: %s", back)
	}
}

func TestParseDerivesEdges(t *testing.T) {
	p := parse(t, sampleListing)
	blocks := p.FindMethod("run").Code().Blocks()

	succs := func(b *Block) map[int]bool {
		set := map[int]bool{}
		for _, s := range b.Succs() {
			set[s.ID()] = true
		}
		return set
	}

	if s := succs(blocks[0]); len(s) != 2 || !s[1] || !s[2] {
		t.Errorf("expected b0 -> {b1, b2}, got %v", s)
	}
	if s := succs(blocks[1]); len(s) != 0 {
		t.Errorf("expected no successors after return, got %v", s)
	}
	if s := succs(blocks[2]); len(s) != 1 || !s[1] {
		t.Errorf("expected b2 -> {b1}, got %v", s)
	}
	if p := blocks[1].Preds(); len(p) != 2 {
		t.Errorf("expected 2 predecessors of b1, got %d", len(p))
	}
}

func TestParseMethodRef(t *testing.T) {
	p := parse(t, sampleListing)
	call := p.FindMethod("run").Code().Blocks()[2].Instructions()[0]

	if call.SrcCount() != 2 {
		t.Errorf("expected 2 call arguments, got %d", call.SrcCount())
	}
	ref := call.MethodRef()
	if ref.Class != "Lcom/example/Debug;" || ref.Name != "hook" || ref.Descriptor != "(II)V" {
		t.Errorf("bad method ref: %s", ref)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"instruction outside method", "class LFoo;\nconst v0, #1"},
		{"method outside class", "method run:()V\nb0:\n return-void"},
		{"unknown opcode", "class LFoo;\nmethod run:()V\nb0:\n  frob v0"},
		{"unknown branch target", "class LFoo;\nmethod run:()V\nb0:\n  goto b9"},
		{"duplicate label", "class LFoo;\nmethod run:()V\nb0:\nb0:\n  return-void"},
		{"bad literal", "class LFoo;\nmethod run:()V\nb0:\n  const v0, ten"},
		{"missing operand", "class LFoo;\nmethod run:()V\nb0:\n  move v0"},
	}

	for _, test := range tests {
		if _, err := Parse(strings.NewReader(test.src)); err == nil {
			t.Errorf("%s: expected a parse error", test.name)
		}
	}
}

func TestPrintGolden(t *testing.T) {
	p := parse(t, sampleListing)

	var buf bytes.Buffer
	if err := Fprint(&buf, p); err != nil {
		t.Fatalf("print error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "sample_listing", buf.Bytes())
}

func TestPrintRoundTrip(t *testing.T) {
	p := parse(t, sampleListing)

	var first bytes.Buffer
	if err := Fprint(&first, p); err != nil {
		t.Fatalf("print error: %v", err)
	}

	var second bytes.Buffer
	if err := Fprint(&second, parse(t, first.String())); err != nil {
		t.Fatalf("print error: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("output is not stable under reparsing:\n%s\nvs:\n%s", &first, &second)
	}
}
