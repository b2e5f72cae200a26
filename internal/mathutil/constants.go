package mathutil

// Recurrence guard constants
const (
	// RatioEpsilon is the smallest LTA value a ratio is computed for.
	// Below it the ratio is reported as zero.
	RatioEpsilon = 1e-10

	// ZeroRatio is emitted when the LTA falls under RatioEpsilon.
	ZeroRatio = 0.0
)
