package stalta

import (
	"fmt"

	"github.com/tphakala/go-stalta/internal/mathutil"
)

// validateWindows checks the window lengths on their own.
func validateWindows(staLen, ltaLen uint) error {
	if staLen == 0 || ltaLen == 0 {
		return fmt.Errorf("%w: window lengths must be > 0", ErrInvalidArgument)
	}
	if staLen >= ltaLen {
		return fmt.Errorf("%w: STA length must be < LTA length", ErrInvalidArgument)
	}
	return nil
}

// validateTrace checks a single trace of n samples.
func validateTrace(n int, staLen, ltaLen uint) error {
	if n == 0 {
		return fmt.Errorf("%w: empty input array", ErrInvalidArgument)
	}
	if err := validateWindows(staLen, ltaLen); err != nil {
		return err
	}
	if staLen > uint(n) || ltaLen > uint(n) {
		return fmt.Errorf("%w: window lengths must not exceed trace length (%d)", ErrInvalidArgument, n)
	}
	return nil
}

// validateShape checks batch dimensions and windows and returns the total
// element count. It runs before anything is allocated.
func validateShape(nTraces, nSamples, staLen, ltaLen uint) (int, error) {
	if nTraces == 0 || nSamples == 0 {
		return 0, fmt.Errorf("%w: batch dimensions must be > 0", ErrInvalidArgument)
	}
	if err := validateWindows(staLen, ltaLen); err != nil {
		return 0, err
	}
	if staLen > nSamples || ltaLen > nSamples {
		return 0, fmt.Errorf("%w: window lengths must not exceed number of samples per trace (%d)",
			ErrInvalidArgument, nSamples)
	}

	total, err := mathutil.CheckedMul(nTraces, nSamples)
	if err != nil {
		return 0, fmt.Errorf("%w: batch dimensions are too large (%d x %d)", ErrLength, nTraces, nSamples)
	}
	if total > mathutil.MaxIndex {
		return 0, fmt.Errorf("%w: batch dimensions exceed supported parallel index range (%d elements)",
			ErrLength, total)
	}
	return int(total), nil
}

// validateBatch checks a row-major batch buffer against its declared shape.
func validateBatch(data []float64, nTraces, nSamples, staLen, ltaLen uint) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: input buffer must not be empty", ErrInvalidArgument)
	}
	total, err := validateShape(nTraces, nSamples, staLen, ltaLen)
	if err != nil {
		return 0, err
	}
	if len(data) < total {
		return 0, fmt.Errorf("%w: input buffer holds %d values, batch needs %d",
			ErrInvalidArgument, len(data), total)
	}
	return total, nil
}
