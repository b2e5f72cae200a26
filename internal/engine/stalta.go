// Package engine implements the recursive STA/LTA recurrence.
//
// Both averages are exponential moving averages of the rectified signal,
// so a trace is filtered in O(n) time with two scalars of state no matter
// how long the windows are. Callers are expected to validate window
// lengths before building a Filter.
package engine

import (
	"math"

	"github.com/tphakala/go-stalta/internal/mathutil"
)

// Filter holds the recurrence coefficients for one (sta, lta) pair.
// It carries no per-trace state and is safe for concurrent use.
type Filter struct {
	cSTA, cLTA float64 // 1/staLen, 1/ltaLen
	dSTA, dLTA float64 // 1-cSTA, 1-cLTA
}

// NewFilter creates a filter for the given window lengths.
// The lengths must already satisfy 0 < staLen < ltaLen.
func NewFilter(staLen, ltaLen uint) Filter {
	cSTA := 1.0 / float64(staLen)
	cLTA := 1.0 / float64(ltaLen)
	return Filter{
		cSTA: cSTA,
		cLTA: cLTA,
		dSTA: 1.0 - cSTA,
		dLTA: 1.0 - cLTA,
	}
}

// Coefficients returns the STA and LTA blend weights.
func (f Filter) Coefficients() (cSTA, cLTA float64) {
	return f.cSTA, f.cLTA
}

// Apply writes the ratio series of src into dst.
// dst must be at least len(src) long; src must not be empty.
//
// State is seeded with |src[0]| and the loop then starts again at index 0,
// so the first sample enters the recurrence twice.
func (f Filter) Apply(dst, src []float64) {
	dst = dst[:len(src)]

	first := math.Abs(src[0])
	sta, lta := first, first

	for i, x := range src {
		v := math.Abs(x)

		sta = f.cSTA*v + f.dSTA*sta
		lta = f.cLTA*v + f.dLTA*lta

		dst[i] = ratio(sta, lta)
	}
}

// Compute allocates and returns the ratio series of src.
func (f Filter) Compute(src []float64) []float64 {
	dst := make([]float64, len(src))
	f.Apply(dst, src)
	return dst
}

// ratio is the only branch in the hot loop.
func ratio(sta, lta float64) float64 {
	if lta > mathutil.RatioEpsilon {
		return sta / lta
	}
	return mathutil.ZeroRatio
}
