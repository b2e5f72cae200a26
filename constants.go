package stalta

// Trigger threshold limits
const (
	// minThreshold is the exclusive lower bound of a trigger-on threshold.
	// Ratios are never negative, so anything at or below zero would
	// trigger on every sample.
	minThreshold = 0.0
)
