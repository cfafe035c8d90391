package lattice

import (
	"strconv"
)

type (
	// constElementBase is the basis for constructing all members of the
	// constant propagation lattice. Is embedded by ⊥, ⊤ and constants.
	constElementBase struct {
		element
	}

	// ConstElement is an interface implemented by all members of the
	// constant propagation lattice.
	ConstElement interface {
		Element
		// IsBot checks whether the member is ⊥.
		IsBot() bool
		// IsTop checks whether the member is ⊤.
		IsTop() bool
		// IsConst checks whether the member is a known constant.
		IsConst() bool
	}

	// ConstBot is the unreachable member of the constant propagation lattice.
	ConstBot struct {
		constElementBase
	}

	// ConstTop is the unknown member of the constant propagation lattice.
	ConstTop struct {
		constElementBase
	}

	// Constant is a known constant of the constant propagation lattice.
	// Narrow and wide constants form disjoint sub-lattices: a narrow
	// constant never subsumes a wide one of the same numeric value.
	Constant struct {
		element
		wide  bool
		value int64
	}
)

// NarrowConstant creates a known single-width constant.
func (elementFactory) NarrowConstant(value int32) Constant {
	return Constant{
		element: element{constantPropagationLattice},
		wide:    false,
		value:   int64(value),
	}
}

// WideConstant creates a known double-width constant.
func (elementFactory) WideConstant(value int64) Constant {
	return Constant{
		element: element{constantPropagationLattice},
		wide:    true,
		value:   value,
	}
}

func (ConstBot) String() string {
	return colorize.Element("⊥")
}

func (ConstBot) Height() int {
	return 0
}

func (e ConstBot) Const() ConstElement {
	return e
}

func (ConstBot) IsBot() bool {
	return true
}

func (ConstBot) IsTop() bool {
	return false
}

func (ConstBot) IsConst() bool {
	return false
}

func (e1 ConstBot) Leq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊑")
	return e1.leq(e2)
}

func (e1 ConstBot) leq(e2 Element) bool {
	return true
}

func (e1 ConstBot) Geq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊒")
	return e1.geq(e2)
}

func (e1 ConstBot) geq(e2 Element) bool {
	_, ok := e2.(ConstBot)
	return ok
}

func (e1 ConstBot) Eq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "=")
	return e1.eq(e2)
}

func (e1 ConstBot) eq(e2 Element) bool {
	_, ok := e2.(ConstBot)
	return ok
}

func (e1 ConstBot) Join(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊔")
	return e1.join(e2)
}

func (e1 ConstBot) join(e2 Element) Element {
	return e2
}

func (e1 ConstBot) Meet(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊓")
	return e1.meet(e2)
}

func (e1 ConstBot) meet(e2 Element) Element {
	return e1
}

func (ConstTop) String() string {
	return colorize.Element("T")
}

func (ConstTop) Height() int {
	return 2
}

func (e ConstTop) Const() ConstElement {
	return e
}

func (ConstTop) IsBot() bool {
	return false
}

func (ConstTop) IsTop() bool {
	return true
}

func (ConstTop) IsConst() bool {
	return false
}

func (e1 ConstTop) Leq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊑")
	return e1.leq(e2)
}

func (e1 ConstTop) leq(e2 Element) bool {
	_, ok := e2.(ConstTop)
	return ok
}

func (e1 ConstTop) Geq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊒")
	return e1.geq(e2)
}

func (e1 ConstTop) geq(e2 Element) bool {
	return true
}

func (e1 ConstTop) Eq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "=")
	return e1.eq(e2)
}

func (e1 ConstTop) eq(e2 Element) bool {
	_, ok := e2.(ConstTop)
	return ok
}

func (e1 ConstTop) Join(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊔")
	return e1.join(e2)
}

func (e1 ConstTop) join(e2 Element) Element {
	return e1
}

func (e1 ConstTop) Meet(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊓")
	return e1.meet(e2)
}

func (e1 ConstTop) meet(e2 Element) Element {
	return e2
}

func (e Constant) String() string {
	s := strconv.FormatInt(e.value, 10)
	if e.wide {
		s += "L"
	}
	return colorize.Const(s)
}

func (Constant) Height() int {
	return 1
}

func (e Constant) Const() ConstElement {
	return e
}

func (Constant) IsBot() bool {
	return false
}

func (Constant) IsTop() bool {
	return false
}

func (Constant) IsConst() bool {
	return true
}

// IsWide checks whether the constant occupies a register pair.
func (e Constant) IsWide() bool {
	return e.wide
}

// NarrowValue unpacks a narrow constant. Panics on wide constants.
func (e Constant) NarrowValue() int32 {
	if e.wide {
		panic(errInternal)
	}
	return int32(e.value)
}

// WideValue unpacks a wide constant. Panics on narrow constants.
func (e Constant) WideValue() int64 {
	if !e.wide {
		panic(errInternal)
	}
	return e.value
}

// Value returns the raw twos-complement value, regardless of width.
func (e Constant) Value() int64 {
	return e.value
}

func (e1 Constant) Leq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊑")
	return e1.leq(e2)
}

func (e1 Constant) leq(e2 Element) bool {
	switch e2 := e2.(type) {
	case ConstBot:
		return false
	case ConstTop:
		return true
	case Constant:
		return e1 == e2
	}
	panic(errInternal)
}

func (e1 Constant) Geq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊒")
	return e1.geq(e2)
}

func (e1 Constant) geq(e2 Element) bool {
	switch e2 := e2.(type) {
	case ConstBot:
		return true
	case ConstTop:
		return false
	case Constant:
		return e1 == e2
	}
	panic(errInternal)
}

func (e1 Constant) Eq(e2 Element) bool {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "=")
	return e1.eq(e2)
}

func (e1 Constant) eq(e2 Element) bool {
	switch e2 := e2.(type) {
	case Constant:
		return e1 == e2
	}
	return false
}

func (e1 Constant) Join(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊔")
	return e1.join(e2)
}

func (e1 Constant) join(e2 Element) Element {
	switch e2 := e2.(type) {
	case ConstBot:
		return e1
	case ConstTop:
		return e2
	case Constant:
		if e1 == e2 {
			return e1
		}
		return constantPropagationLattice.Top()
	}
	panic(errInternal)
}

func (e1 Constant) Meet(e2 Element) Element {
	checkLatticeMatch(e1.lattice, e2.Lattice(), "⊓")
	return e1.meet(e2)
}

func (e1 Constant) meet(e2 Element) Element {
	switch e2 := e2.(type) {
	case ConstBot:
		return e2
	case ConstTop:
		return e1
	case Constant:
		if e1 == e2 {
			return e1
		}
		return constantPropagationLattice.Bot()
	}
	panic(errInternal)
}

// ConstantPropagationLattice is the flat lattice of width-tagged
// integer constants.
type ConstantPropagationLattice struct {
	lattice
	top ConstTop
	bot ConstBot
}

var constantPropagationLattice = func() *ConstantPropagationLattice {
	lat := &ConstantPropagationLattice{}
	inner := constElementBase{element{lat}}
	lat.top = ConstTop{inner}
	lat.bot = ConstBot{inner}
	return lat
}()

func (latticeFactory) ConstantPropagation() *ConstantPropagationLattice {
	return constantPropagationLattice
}

func (l *ConstantPropagationLattice) ConstantPropagation() *ConstantPropagationLattice {
	return l
}

func (l *ConstantPropagationLattice) Top() Element {
	return l.top
}

func (l *ConstantPropagationLattice) Bot() Element {
	return l.bot
}

func (l1 *ConstantPropagationLattice) Eq(l2 Lattice) bool {
	_, ok := l2.(*ConstantPropagationLattice)
	return ok
}

func (ConstantPropagationLattice) String() string {
	return colorize.Lattice("Constant")
}
