package pipeline

// Dispatch thresholds
const (
	// minParallelRows is the largest batch always filtered on the calling
	// goroutine.
	minParallelRows = 1
)
