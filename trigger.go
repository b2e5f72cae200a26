package stalta

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-stalta/internal/simdops"
)

// Trigger is one detected event in a ratio series.
type Trigger struct {
	// On is the first index whose ratio exceeded the on threshold.
	On int

	// Off is the last index of the event: the sample before the ratio
	// dropped below the off threshold, or the final sample if it never did.
	Off int

	// PeakIndex is the index of the largest ratio in [On, Off].
	PeakIndex int

	// Peak is the ratio at PeakIndex.
	Peak float64
}

// Len returns the number of samples covered by the trigger.
func (t Trigger) Len() int {
	return t.Off - t.On + 1
}

// Triggers scans a ratio series and returns the events it contains.
// An event starts when the ratio rises above thresholdOn and ends once it
// falls below thresholdOff. thresholdOff must not exceed thresholdOn.
func Triggers(ratio []float64, thresholdOn, thresholdOff float64) ([]Trigger, error) {
	if math.IsNaN(thresholdOn) || math.IsInf(thresholdOn, 0) || thresholdOn <= minThreshold {
		return nil, fmt.Errorf("%w: trigger-on threshold must be finite and > %v", ErrInvalidArgument, minThreshold)
	}
	if math.IsNaN(thresholdOff) || thresholdOff > thresholdOn {
		return nil, fmt.Errorf("%w: trigger-off threshold must be <= trigger-on threshold", ErrInvalidArgument)
	}

	var (
		triggers []Trigger
		active   bool
		on       int
	)
	for i, r := range ratio {
		switch {
		case !active && r > thresholdOn:
			active = true
			on = i
		case active && r < thresholdOff:
			triggers = append(triggers, newTrigger(ratio, on, i-1))
			active = false
		}
	}
	if active {
		triggers = append(triggers, newTrigger(ratio, on, len(ratio)-1))
	}
	return triggers, nil
}

func newTrigger(ratio []float64, on, off int) Trigger {
	segment := ratio[on : off+1]
	peak := floats.MaxIdx(segment)
	return Trigger{
		On:        on,
		Off:       off,
		PeakIndex: on + peak,
		Peak:      segment[peak],
	}
}

// Summary describes a ratio series.
type Summary struct {
	Samples   int
	Mean      float64
	Peak      float64
	PeakIndex int
}

// Summarize returns basic statistics of a ratio series.
func Summarize(ratio []float64) Summary {
	if len(ratio) == 0 {
		return Summary{}
	}
	peak := floats.MaxIdx(ratio)
	return Summary{
		Samples:   len(ratio),
		Mean:      simdops.Mean(ratio),
		Peak:      ratio[peak],
		PeakIndex: peak,
	}
}
