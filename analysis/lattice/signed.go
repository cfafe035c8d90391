package lattice

import (
	"fmt"
	"math"
)

// SignedConstantDomain is the reduced product of the constant
// propagation lattice and the interval lattice. The interval component
// always encloses the constant component, which lets the branch
// evaluator reason about ordered comparisons between registers that are
// not proven equal to an exact constant.
type SignedConstantDomain struct {
	element
	cnst ConstElement
	rng  Interval
}

// SignedBot creates the unreachable signed constant domain element.
func (elementFactory) SignedBot() SignedConstantDomain {
	return signedLattice.Bot().Signed()
}

// SignedTop creates the unknown signed constant domain element for a
// register of the given width. Narrow registers are still known to
// carry a 32-bit twos-complement pattern.
func (elementFactory) SignedTop(wide bool) SignedConstantDomain {
	rng := intervalLattice.Top().Interval()
	if !wide {
		rng = elFact.IntervalFinite(math.MinInt32, math.MaxInt32)
	}
	return SignedConstantDomain{
		element: element{signedLattice},
		cnst:    constantPropagationLattice.Top().Const(),
		rng:     rng,
	}
}

// SignedNarrow creates an exact single-width signed constant domain element.
func (elementFactory) SignedNarrow(value int32) SignedConstantDomain {
	return SignedConstantDomain{
		element: element{signedLattice},
		cnst:    elFact.NarrowConstant(value).Const(),
		rng:     elFact.IntervalFinite(int64(value), int64(value)),
	}
}

// SignedWide creates an exact double-width signed constant domain element.
func (elementFactory) SignedWide(value int64) SignedConstantDomain {
	return SignedConstantDomain{
		element: element{signedLattice},
		cnst:    elFact.WideConstant(value).Const(),
		rng:     elFact.IntervalFinite(value, value),
	}
}

// SignedRange creates a signed constant domain element with interval
// bounds but no exact constant.
func (elementFactory) SignedRange(low int64, high int64) SignedConstantDomain {
	if high < low {
		return signedLattice.Bot().Signed()
	}
	return SignedConstantDomain{
		element: element{signedLattice},
		cnst:    constantPropagationLattice.Top().Const(),
		rng:     elFact.IntervalFinite(low, high),
	}
}

func (SignedConstantDomain) Lattice() Lattice {
	return signedLattice
}

func (e SignedConstantDomain) Signed() SignedConstantDomain {
	return e
}

func (e SignedConstantDomain) String() string {
	switch {
	case e.IsBot():
		return colorize.Element("⊥")
	case e.cnst.IsConst():
		return e.cnst.String()
	}
	return fmt.Sprintf("(%s, %s)", e.cnst, e.rng)
}

func (e SignedConstantDomain) Height() int {
	return e.cnst.Height()
}

// IsBot checks whether the element denotes no concrete value at all.
func (e SignedConstantDomain) IsBot() bool {
	return e.cnst.IsBot() || e.rng.IsBot()
}

// IsValue checks whether an exact constant is known.
func (e SignedConstantDomain) IsValue() bool {
	return e.cnst.IsConst()
}

// Constant unpacks the exact constant. Panics unless IsValue holds.
func (e SignedConstantDomain) Constant() Constant {
	c, ok := e.cnst.(Constant)
	if !ok {
		panic(errUnsupportedTypeConversion)
	}
	return c
}

// MinElement returns the lower interval bound, clamped into int64.
func (e SignedConstantDomain) MinElement() int64 {
	return e.rng.Low()
}

// MaxElement returns the upper interval bound, clamped into int64.
func (e SignedConstantDomain) MaxElement() int64 {
	return e.rng.High()
}

// reduce restores the product invariants: a bottom component poisons
// the whole element and an exact constant pins the interval.
func (e SignedConstantDomain) reduce() SignedConstantDomain {
	if e.IsBot() {
		return signedLattice.Bot().Signed()
	}
	if c, ok := e.cnst.(Constant); ok {
		e.rng = elFact.IntervalFinite(c.Value(), c.Value())
	}
	return e
}

func (e1 SignedConstantDomain) Leq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊑")
	return e1.leq(e2)
}

func (e1 SignedConstantDomain) leq(e2 Element) bool {
	switch e2 := e2.(type) {
	case SignedConstantDomain:
		if e1.IsBot() {
			return true
		}
		if e2.IsBot() {
			return false
		}
		return e1.cnst.leq(e2.cnst) && e1.rng.leq(e2.rng)
	}
	panic(errInternal)
}

func (e1 SignedConstantDomain) Geq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊒")
	return e1.geq(e2)
}

func (e1 SignedConstantDomain) geq(e2 Element) bool {
	switch e2 := e2.(type) {
	case SignedConstantDomain:
		return e2.leq(e1)
	}
	panic(errInternal)
}

func (e1 SignedConstantDomain) Eq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "=")
	return e1.eq(e2)
}

func (e1 SignedConstantDomain) eq(e2 Element) bool {
	return e1.leq(e2) && e1.geq(e2)
}

func (e1 SignedConstantDomain) Join(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊔")
	return e1.join(e2)
}

func (e1 SignedConstantDomain) join(e2 Element) Element {
	switch e2 := e2.(type) {
	case SignedConstantDomain:
		if e1.IsBot() {
			return e2
		}
		if e2.IsBot() {
			return e1
		}
		return SignedConstantDomain{
			element: e1.element,
			cnst:    e1.cnst.join(e2.cnst).Const(),
			rng:     e1.rng.join(e2.rng).Interval(),
		}.reduce()
	}
	panic(errInternal)
}

func (e1 SignedConstantDomain) Meet(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊓")
	return e1.meet(e2)
}

func (e1 SignedConstantDomain) meet(e2 Element) Element {
	switch e2 := e2.(type) {
	case SignedConstantDomain:
		if e1.IsBot() || e2.IsBot() {
			return signedLattice.Bot()
		}
		return SignedConstantDomain{
			element: e1.element,
			cnst:    e1.cnst.meet(e2.cnst).Const(),
			rng:     e1.rng.meet(e2.rng).Interval(),
		}.reduce()
	}
	panic(errInternal)
}

// SignedLattice is the lattice of signed constant domain elements.
type SignedLattice struct {
	lattice
}

var signedLattice = &SignedLattice{}

func (latticeFactory) Signed() *SignedLattice {
	return signedLattice
}

func (l *SignedLattice) Signed() *SignedLattice {
	return l
}

func (l *SignedLattice) Top() Element {
	return SignedConstantDomain{
		element: element{l},
		cnst:    constantPropagationLattice.Top().Const(),
		rng:     intervalLattice.Top().Interval(),
	}
}

func (l *SignedLattice) Bot() Element {
	return SignedConstantDomain{
		element: element{l},
		cnst:    constantPropagationLattice.Bot().Const(),
		rng:     intervalLattice.Bot().Interval(),
	}
}

func (l1 *SignedLattice) Eq(l2 Lattice) bool {
	_, ok := l2.(*SignedLattice)
	return ok
}

func (SignedLattice) String() string {
	return colorize.Lattice("SignedConstant")
}
