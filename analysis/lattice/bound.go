package lattice

import "strconv"

// IntervalBound is an interface implemented by all interval lattice
// bounds i.e., any FiniteBound value, PlusInfinity and MinusInfinity.
type IntervalBound interface {
	String() string

	// IsInfinite checks whether the interval bound is infinite.
	IsInfinite() bool

	// Eq checks for interval bound equality.
	Eq(IntervalBound) bool
	// Leq computes b1 ≤ b2. The semantics is -∞ ≤ c ≤ ∞, where c ∈ ℤ.
	Leq(IntervalBound) bool
	// Geq computes b1 ≥ b2. The semantics is ∞ ≥ c ≥ -∞, where c ∈ ℤ.
	Geq(IntervalBound) bool
	// Lt computes b1 < b2. The semantics is -∞ < c < ∞, where c ∈ ℤ.
	Lt(IntervalBound) bool
	// Gt computes b1 > b2. The semantics is ∞ > c > -∞, where c ∈ ℤ.
	Gt(IntervalBound) bool

	// Max computes max(b1, b2).
	Max(IntervalBound) IntervalBound
	// Min computes min(b1, b2).
	Min(IntervalBound) IntervalBound
}

type (
	// FiniteBound is used to represent finite limits of an interval value.
	FiniteBound int64
	// PlusInfinity represents ∞.
	PlusInfinity struct{}
	// MinusInfinity represents -∞.
	MinusInfinity struct{}
)

func (b FiniteBound) String() string {
	return colorize.Const(strconv.FormatInt(int64(b), 10))
}

func (FiniteBound) IsInfinite() bool {
	return false
}

func (b1 FiniteBound) Eq(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 == b2
	default:
		return false
	}
}

func (b1 FiniteBound) Leq(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 <= b2
	case PlusInfinity:
		return true
	default:
		return false
	}
}

func (b1 FiniteBound) Geq(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 >= b2
	case MinusInfinity:
		return true
	default:
		return false
	}
}

func (b1 FiniteBound) Lt(b2 IntervalBound) bool {
	return !b1.Geq(b2)
}

func (b1 FiniteBound) Gt(b2 IntervalBound) bool {
	return !b1.Leq(b2)
}

func (b1 FiniteBound) Max(b2 IntervalBound) IntervalBound {
	if b1.Geq(b2) {
		return b1
	}
	return b2
}

func (b1 FiniteBound) Min(b2 IntervalBound) IntervalBound {
	if b1.Leq(b2) {
		return b1
	}
	return b2
}

func (PlusInfinity) String() string {
	return colorize.Const("∞")
}

func (PlusInfinity) IsInfinite() bool {
	return true
}

func (PlusInfinity) Eq(b2 IntervalBound) bool {
	_, ok := b2.(PlusInfinity)
	return ok
}

func (b1 PlusInfinity) Leq(b2 IntervalBound) bool {
	return b1.Eq(b2)
}

func (PlusInfinity) Geq(IntervalBound) bool {
	return true
}

func (PlusInfinity) Lt(IntervalBound) bool {
	return false
}

func (b1 PlusInfinity) Gt(b2 IntervalBound) bool {
	return !b1.Eq(b2)
}

func (b1 PlusInfinity) Max(IntervalBound) IntervalBound {
	return b1
}

func (b1 PlusInfinity) Min(b2 IntervalBound) IntervalBound {
	return b2
}

func (MinusInfinity) String() string {
	return colorize.Const("-∞")
}

func (MinusInfinity) IsInfinite() bool {
	return true
}

func (MinusInfinity) Eq(b2 IntervalBound) bool {
	_, ok := b2.(MinusInfinity)
	return ok
}

func (MinusInfinity) Leq(IntervalBound) bool {
	return true
}

func (b1 MinusInfinity) Geq(b2 IntervalBound) bool {
	return b1.Eq(b2)
}

func (b1 MinusInfinity) Lt(b2 IntervalBound) bool {
	return !b1.Eq(b2)
}

func (MinusInfinity) Gt(IntervalBound) bool {
	return false
}

func (b1 MinusInfinity) Max(b2 IntervalBound) IntervalBound {
	return b2
}

func (b1 MinusInfinity) Min(IntervalBound) IntervalBound {
	return b1
}
