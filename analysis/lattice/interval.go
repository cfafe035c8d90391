package lattice

import (
	"fmt"
	"math"
)

// Interval is an interval and a member of the interval lattice.
// Any interval consists of two interval bounds, `low` and `high`.
type Interval struct {
	element
	low  IntervalBound
	high IntervalBound
}

// Interval creates an interval with possibly infinite bounds.
func (elementFactory) Interval(low IntervalBound, high IntervalBound) Interval {
	return Interval{low: low, high: high}
}

// IntervalFinite creates an interval with finite bounds.
func (elementFactory) IntervalFinite(low int64, high int64) Interval {
	return Interval{
		low:  FiniteBound(low),
		high: FiniteBound(high),
	}
}

// Lattice retrieves the interval lattice for any interval.
func (Interval) Lattice() Lattice {
	return intervalLattice
}

func (e Interval) String() string {
	_, low := e.low.(PlusInfinity)
	_, high := e.high.(MinusInfinity)
	if low && high {
		return colorize.Element("⊥")
	}
	return "[" + e.low.String() + ", " + e.high.String() + "]"
}

// Height returns the height of the interval in the interval lattice.
// Unknown (infinite) intervals are represented as height -1.
func (e Interval) Height() int {
	l, lok := e.low.(FiniteBound)
	h, hok := e.high.(FiniteBound)
	if !(lok && hok) {
		return -1
	}
	if h < l {
		return 0
	}
	return int(h - l)
}

// Interval safely converts an interval.
func (e Interval) Interval() Interval {
	return e
}

// IsBot checks that the interval is equal to ⊥ = [∞, -∞].
func (e Interval) IsBot() bool {
	return e == intervalLattice.Bot().Interval()
}

// IsTop checks that the interval is equal to ⊤ = [-∞, ∞].
func (e Interval) IsTop() bool {
	return e == intervalLattice.Top().Interval()
}

// Eq computes m = o. Performs lattice dynamic type checking.
func (e1 Interval) Eq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "=")
	return e1.eq(e2)
}

func (e1 Interval) eq(e2 Element) bool {
	return e1.leq(e2) && e1.geq(e2)
}

// Leq computes m ⊑ o. Performs lattice dynamic type checking.
func (e1 Interval) Leq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊑")
	return e1.leq(e2)
}

func (e1 Interval) leq(e2 Element) bool {
	switch e2 := e2.(type) {
	case Interval:
		return e1.low.Geq(e2.low) && e1.high.Leq(e2.high)
	}
	panic(errInternal)
}

// Geq computes m ⊒ o. Performs lattice dynamic type checking.
func (e1 Interval) Geq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊒")
	return e1.geq(e2)
}

func (e1 Interval) geq(e2 Element) bool {
	switch e2 := e2.(type) {
	case Interval:
		return e1.low.Leq(e2.low) && e1.high.Geq(e2.high)
	}
	panic(errInternal)
}

// Join computes m ⊔ o. Performs lattice dynamic type checking.
func (e1 Interval) Join(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊔")
	return e1.join(e2)
}

// join computes m ⊔ o. The resulting interval takes the lowest of the
// lower bounds, and the highest of the upper bounds.
func (e1 Interval) join(e2 Element) Element {
	switch e2 := e2.(type) {
	case Interval:
		return Interval{
			low:  e1.low.Min(e2.low),
			high: e1.high.Max(e2.high),
		}
	}
	panic(errInternal)
}

// Meet computes m ⊓ o. Performs lattice dynamic type checking.
func (e1 Interval) Meet(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊓")
	return e1.meet(e2)
}

func (e1 Interval) meet(e2 Element) Element {
	switch e2 := e2.(type) {
	case Interval:
		if e1.high.Lt(e2.low) || e2.high.Lt(e1.low) {
			return e1.Lattice().Bot()
		}
		return Interval{
			low:  e1.low.Max(e2.low),
			high: e1.high.Min(e2.high),
		}
	}
	panic(errInternal)
}

// GetFiniteBounds unpacks the interval bounds, if finite, and panics otherwise.
func (i Interval) GetFiniteBounds() (int64, int64) {
	if i.low.IsInfinite() || i.high.IsInfinite() {
		panic(fmt.Sprintf("Interval %s does not have finite bounds", i))
	}
	return (int64)(i.low.(FiniteBound)), (int64)(i.high.(FiniteBound))
}

// Low returns the lower bound clamped into the int64 range.
func (i Interval) Low() int64 {
	if b, ok := i.low.(FiniteBound); ok {
		return int64(b)
	}
	if _, ok := i.low.(PlusInfinity); ok {
		return math.MaxInt64
	}
	return math.MinInt64
}

// High returns the upper bound clamped into the int64 range.
func (i Interval) High() int64 {
	if b, ok := i.high.(FiniteBound); ok {
		return int64(b)
	}
	if _, ok := i.high.(MinusInfinity); ok {
		return math.MinInt64
	}
	return math.MaxInt64
}

// IntervalLattice is the lattice of intervals over int64 values.
type IntervalLattice struct {
	lattice
}

var intervalLattice = &IntervalLattice{}

func (latticeFactory) Interval() *IntervalLattice {
	return intervalLattice
}

func (l *IntervalLattice) Interval() *IntervalLattice {
	return l
}

func (*IntervalLattice) Top() Element {
	return Interval{
		low:  MinusInfinity{},
		high: PlusInfinity{},
	}
}

func (*IntervalLattice) Bot() Element {
	return Interval{
		low:  PlusInfinity{},
		high: MinusInfinity{},
	}
}

func (l1 *IntervalLattice) Eq(l2 Lattice) bool {
	_, ok := l2.(*IntervalLattice)
	return ok
}

func (*IntervalLattice) String() string {
	return colorize.Lattice("Interval")
}
