package mathutil

import (
	"errors"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a guarded product wraps around.
var ErrOverflow = errors.New("product overflows uint")

// MaxIndex is the largest element count usable as a slice length and as a
// parallel loop index.
const MaxIndex = uint(math.MaxInt)

// CheckedMul returns lhs*rhs, or ErrOverflow if the product wraps around
// the uint range. A zero factor short-circuits to zero.
func CheckedMul(lhs, rhs uint) (uint, error) {
	if lhs == 0 || rhs == 0 {
		return 0, nil
	}

	hi, lo := bits.Mul(lhs, rhs)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}
