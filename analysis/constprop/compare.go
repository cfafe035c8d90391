package constprop

import (
	"math"

	"github.com/finch-opt/finch/ir"
)

// The cmp family collapses a typed comparison into {-1, 0, 1}. The
// float and double variants differ only in how an unordered result
// (either operand NaN) is biased: cmpl pushes NaN toward -1, cmpg
// toward +1.

func nanBias(op ir.Opcode) int32 {
	switch op {
	case ir.OpCmplFloat, ir.OpCmplDouble:
		return -1
	case ir.OpCmpgFloat, ir.OpCmpgDouble:
		return 1
	}
	panic(errInternal)
}

// compareFloat reinterprets the low 32 bits of each operand as an IEEE
// 754 single precision value.
func compareFloat(op ir.Opcode, left, right int64) int32 {
	l := math.Float32frombits(uint32(left))
	r := math.Float32frombits(uint32(right))
	if l != l || r != r {
		return nanBias(op)
	}
	return threeWay(l, r)
}

// compareDouble reinterprets each operand as an IEEE 754 double
// precision value.
func compareDouble(op ir.Opcode, left, right int64) int32 {
	l := math.Float64frombits(uint64(left))
	r := math.Float64frombits(uint64(right))
	if l != l || r != r {
		return nanBias(op)
	}
	return threeWay(l, r)
}

func compareLong(_ ir.Opcode, left, right int64) int32 {
	return threeWay(left, right)
}

func threeWay[T float32 | float64 | int64](left, right T) int32 {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}
