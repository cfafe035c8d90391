package constprop

import (
	"fmt"
	"sort"
	"strings"

	L "github.com/finch-opt/finch/analysis/lattice"
	"github.com/finch-opt/finch/ir"

	"github.com/benbjohnson/immutable"
)

// Environment is the abstract machine state at a program point: a
// mapping from register index to signed constant domain element, plus
// a bottom flag marking the whole state unreachable. Registers absent
// from the mapping are unknown.
//
// The register mapping is persistent, so copying an environment is
// cheap. The external driver takes advantage of this when seeding
// every block of a method from the same entry state.
type Environment struct {
	regs   *immutable.Map[ir.Register, L.SignedConstantDomain]
	bottom bool
}

// registerHasher hashes register indices for the persistent map.
type registerHasher struct{}

func (registerHasher) Hash(reg ir.Register) uint32 {
	return uint32(reg)
}

func (registerHasher) Equal(a, b ir.Register) bool {
	return a == b
}

// NewEnvironment creates the fully unknown environment.
func NewEnvironment() *Environment {
	return &Environment{
		regs: immutable.NewMap[ir.Register, L.SignedConstantDomain](registerHasher{}),
	}
}

// Copy creates an independent environment with the same contents.
func (env *Environment) Copy() *Environment {
	return &Environment{regs: env.regs, bottom: env.bottom}
}

// IsBottom checks whether the state is unreachable.
func (env *Environment) IsBottom() bool {
	return env.bottom
}

// SetBottom marks the state unreachable. Dead code after an
// unconditional jump or return is analyzed under a bottom state and
// never folds anything.
func (env *Environment) SetBottom() {
	env.bottom = true
}

// Get returns the signed constant domain element of a register.
func (env *Environment) Get(reg ir.Register) L.SignedConstantDomain {
	if env.bottom {
		return L.Elements().SignedBot()
	}
	if v, ok := env.regs.Get(reg); ok {
		return v
	}
	return L.Create().Lattice().Signed().Top().Signed()
}

// Set overwrites the element of a register. Used by external drivers
// to seed entry states.
func (env *Environment) Set(reg ir.Register, v L.SignedConstantDomain) {
	env.regs = env.regs.Set(reg, v)
}

// SetNarrow binds a register to an exact single-width constant.
func (env *Environment) SetNarrow(reg ir.Register, value int32) {
	env.Set(reg, L.Elements().SignedNarrow(value))
}

// SetWide binds a register to an exact double-width constant.
func (env *Environment) SetWide(reg ir.Register, value int64) {
	env.Set(reg, L.Elements().SignedWide(value))
}

// SetTop degrades a register to unknown of the given width.
func (env *Environment) SetTop(reg ir.Register, isWide bool) {
	env.Set(reg, L.Elements().SignedTop(isWide))
}

// IsNarrowConstant checks whether a register is a proven single-width
// constant.
func (env *Environment) IsNarrowConstant(reg ir.Register) bool {
	_, ok := env.GetNarrow(reg)
	return ok
}

// IsWideConstant checks whether a register is a proven double-width
// constant.
func (env *Environment) IsWideConstant(reg ir.Register) bool {
	_, ok := env.GetWide(reg)
	return ok
}

// GetNarrow reads a register as a single-width constant. The second
// result is false unless the register is proven constant of that
// width.
func (env *Environment) GetNarrow(reg ir.Register) (int32, bool) {
	v := env.Get(reg)
	if !v.IsValue() {
		return 0, false
	}
	c := v.Constant()
	if c.IsWide() {
		return 0, false
	}
	return c.NarrowValue(), true
}

// GetWide reads a register as a double-width constant. The second
// result is false unless the register is proven constant of that
// width.
func (env *Environment) GetWide(reg ir.Register) (int64, bool) {
	v := env.Get(reg)
	if !v.IsValue() {
		return 0, false
	}
	c := v.Constant()
	if !c.IsWide() {
		return 0, false
	}
	return c.WideValue(), true
}

// Eq checks exact equality of the tracked facts. Drivers use it to
// detect that a block's entry state has stabilized.
func (env *Environment) Eq(other *Environment) bool {
	if env.bottom || other.bottom {
		return env.bottom == other.bottom
	}
	if env.regs.Len() != other.regs.Len() {
		return false
	}
	itr := env.regs.Iterator()
	for !itr.Done() {
		reg, v, _ := itr.Next()
		o, ok := other.regs.Get(reg)
		if !ok || !v.Eq(o) {
			return false
		}
	}
	return true
}

// Join computes the pointwise least upper bound of two environments.
// Bottom is the identity.
func (env *Environment) Join(other *Environment) *Environment {
	switch {
	case env.bottom:
		return other.Copy()
	case other.bottom:
		return env.Copy()
	}

	res := NewEnvironment()
	itr := env.regs.Iterator()
	for !itr.Done() {
		reg, v, _ := itr.Next()
		if o, ok := other.regs.Get(reg); ok {
			res.Set(reg, v.Join(o).Signed())
		}
		// Registers tracked on only one side stay unknown.
	}
	return res
}

func (env *Environment) String() string {
	if env.bottom {
		return "⊥"
	}

	keys := make([]ir.Register, 0, env.regs.Len())
	itr := env.regs.Iterator()
	for !itr.Done() {
		reg, _, _ := itr.Next()
		keys = append(keys, reg)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	entries := make([]string, 0, len(keys))
	for _, reg := range keys {
		v, _ := env.regs.Get(reg)
		entries = append(entries, fmt.Sprintf("v%d ↦ %s", reg, v))
	}
	return "[" + strings.Join(entries, ", ") + "]"
}
