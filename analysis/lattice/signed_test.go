package lattice

import (
	"math"
	"testing"
)

func TestSignedJoin(t *testing.T) {
	lat := Create().Lattice().Signed()
	narrow := Create().Element().SignedNarrow
	wide := Create().Element().SignedWide
	rng := Create().Element().SignedRange

	tests := []struct {
		a, b, expected Element
	}{
		{lat.Bot(), lat.Bot(), lat.Bot()},
		{lat.Bot(), narrow(5), narrow(5)},
		{narrow(5), lat.Bot(), narrow(5)},
		{narrow(5), narrow(5), narrow(5)},
		{narrow(5), narrow(7), rng(5, 7)},
		{narrow(7), narrow(5), rng(5, 7)},
		{wide(5), wide(9), rng(5, 9)},
		{rng(0, 5), rng(3, 9), rng(0, 9)},
		{narrow(5), lat.Top(), lat.Top()},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		} else {
			t.Logf("%s ⊔ %s = %s\n", test.a, test.b, res)
		}
	}
}

func TestSignedJoinLosesExactness(t *testing.T) {
	narrow := Create().Element().SignedNarrow

	res := narrow(5).Join(narrow(7)).Signed()
	if res.IsValue() {
		t.Errorf("%s should not retain an exact constant", res)
	}
	if res.MinElement() != 5 || res.MaxElement() != 7 {
		t.Errorf("bounds of %s = [%d, %d], expected [5, 7]",
			res, res.MinElement(), res.MaxElement())
	}
}

func TestSignedWidthMismatch(t *testing.T) {
	narrow := Create().Element().SignedNarrow
	wide := Create().Element().SignedWide

	res := narrow(5).Join(wide(5)).Signed()
	if res.IsValue() {
		t.Errorf("%s should not fold a narrow and a wide constant together", res)
	}
	// Both operands denote the numeric value 5, so the bounds stay exact.
	if res.MinElement() != 5 || res.MaxElement() != 5 {
		t.Errorf("bounds of %s = [%d, %d], expected [5, 5]",
			res, res.MinElement(), res.MaxElement())
	}
}

func TestSignedTopBounds(t *testing.T) {
	top := Create().Element().SignedTop

	n := top(false)
	if n.MinElement() != math.MinInt32 || n.MaxElement() != math.MaxInt32 {
		t.Errorf("narrow ⊤ has bounds [%d, %d], expected 32-bit range",
			n.MinElement(), n.MaxElement())
	}

	w := top(true)
	if w.MinElement() != math.MinInt64 || w.MaxElement() != math.MaxInt64 {
		t.Errorf("wide ⊤ has bounds [%d, %d], expected clamped 64-bit range",
			w.MinElement(), w.MaxElement())
	}
}

func TestSignedReduction(t *testing.T) {
	narrow := Create().Element().SignedNarrow
	rng := Create().Element().SignedRange

	// Meeting a range with an exact constant inside it keeps the constant.
	res := rng(0, 10).Meet(narrow(5)).Signed()
	if !res.IsValue() || res.Constant().NarrowValue() != 5 {
		t.Errorf("[0, 10] ⊓ 5 = %s, expected 5", res)
	}

	// Disjoint components collapse to ⊥.
	res = rng(0, 4).Meet(narrow(9)).Signed()
	if !res.IsBot() {
		t.Errorf("[0, 4] ⊓ 9 = %s, expected ⊥", res)
	}

	// An empty range is ⊥ on construction.
	if !rng(3, 2).Signed().IsBot() {
		t.Errorf("SignedRange(3, 2) should be ⊥")
	}
}
