package lattice

import "testing"

func TestIntervalJoin(t *testing.T) {
	lat := Create().Lattice().Interval()
	int_ := Create().Element().Interval

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Element
	}{
		{lat.Bot(), lat.Bot(), lat.Bot()},
		{lat.Bot(), lat.Top(), lat.Top()},
		{lat.Top(), lat.Bot(), lat.Top()},
		{lat.Top(), lat.Top(), lat.Top()},
		{lat.Bot(), int_(b(0), b(0)), int_(b(0), b(0))},
		{int_(b(0), b(0)), lat.Bot(), int_(b(0), b(0))},
		{int_(b(0), b(0)), int_(b(1), b(1)), int_(b(0), b(1))},
		{int_(b(1), b(2)), int_(b(3), b(4)), int_(b(1), b(4))},
		{int_(b(-1), b(0)), int_(b(0), b(1)), int_(b(-1), b(1))},
		{int_(b(0), b(1024)), int_(b(0), P{}), int_(b(0), P{})},
		{int_(M{}, b(0)), int_(b(-1024), b(0)), int_(M{}, b(0))},
		{int_(M{}, b(-1024)), int_(b(1024), P{}), lat.Top()},
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

func TestIntervalMeet(t *testing.T) {
	lat := Create().Lattice().Interval()
	int_ := Create().Element().IntervalFinite

	tests := []struct {
		a, b, expected Element
	}{
		{lat.Top(), int_(0, 10), int_(0, 10)},
		{int_(0, 10), int_(5, 20), int_(5, 10)},
		{int_(0, 10), int_(10, 20), int_(10, 10)},
		{int_(0, 4), int_(5, 20), lat.Bot()},
		{int_(5, 20), int_(0, 4), lat.Bot()},
		{lat.Bot(), int_(0, 10), lat.Bot()},
	}

	for _, test := range tests {
		res := test.a.Meet(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊓ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		} else {
			t.Logf("%s ⊓ %s = %s\n", test.a, test.b, res)
		}
	}
}

func TestIntervalBounds(t *testing.T) {
	int_ := Create().Element().IntervalFinite

	lo, hi := int_(-3, 12).GetFiniteBounds()
	if lo != -3 || hi != 12 {
		t.Errorf("GetFiniteBounds() = %d, %d, expected -3, 12", lo, hi)
	}

	top := Create().Lattice().Interval().Top().Interval()
	if top.Low() >= top.High() {
		t.Errorf("Low() = %d should clamp below High() = %d", top.Low(), top.High())
	}
}
