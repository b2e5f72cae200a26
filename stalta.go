package stalta

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-stalta/internal/engine"
	"github.com/tphakala/go-stalta/internal/matrix"
	"github.com/tphakala/go-stalta/internal/pipeline"
)

// Common errors returned by the detector.
var (
	// ErrInvalidArgument indicates an empty input, a bad window length or a
	// buffer that does not match its declared shape.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLength indicates that a batch element count cannot be addressed.
	// It is always raised before any output is allocated.
	ErrLength = errors.New("length error")
)

// Config holds detector configuration.
type Config struct {
	// STALength is the short-term window in samples.
	STALength uint

	// LTALength is the long-term window in samples. Must be > STALength.
	LTALength uint

	// EnableParallel enables parallel trace processing in batch calls.
	// Output is bit-identical with or without it.
	EnableParallel bool

	// Workers caps the number of goroutines used by batch calls.
	// Zero uses runtime.GOMAXPROCS(0). Ignored unless EnableParallel is set.
	Workers int
}

// Validate checks if the configuration is valid. Trace-length checks
// happen per call, since a Config can be applied to traces of any length.
func (c *Config) Validate() error {
	if err := validateWindows(c.STALength, c.LTALength); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidArgument)
	}
	return nil
}

// Detector computes STA/LTA ratios for a fixed pair of window lengths.
// A Detector holds no per-trace state and is safe for concurrent use.
type Detector struct {
	config     Config
	filter     engine.Filter
	dispatcher *pipeline.Dispatcher
}

// New creates a detector with the specified configuration.
func New(config *Config) (*Detector, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidArgument)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newDetector(*config), nil
}

// newDetector builds a detector without validating the windows; every
// Compute call validates them again together with the input shape.
func newDetector(config Config) *Detector {
	return &Detector{
		config:     config,
		filter:     engine.NewFilter(config.STALength, config.LTALength),
		dispatcher: pipeline.NewDispatcher(config.EnableParallel, config.Workers),
	}
}

// Config returns a copy of the detector configuration.
func (d *Detector) Config() Config {
	return d.config
}

// Compute returns the ratio series of a single trace.
// The input is never modified; the result has the same length.
func (d *Detector) Compute(trace []float64) ([]float64, error) {
	if err := validateTrace(len(trace), d.config.STALength, d.config.LTALength); err != nil {
		return nil, err
	}
	return d.filter.Compute(trace), nil
}

// ComputeBatch computes the ratio series of nTraces rows of nSamples
// values stored row-major in data. The result is a new buffer with the
// same layout; row r of the result always belongs to row r of data.
func (d *Detector) ComputeBatch(data []float64, nTraces, nSamples uint) ([]float64, error) {
	total, err := validateBatch(data, nTraces, nSamples, d.config.STALength, d.config.LTALength)
	if err != nil {
		return nil, err
	}

	rows, cols := int(nTraces), int(nSamples)
	in, err := matrix.New(data, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	output := make([]float64, total)
	out, err := matrix.New(output, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	d.dispatcher.Run(d.filter, in, out)
	return output, nil
}

// Compute returns the STA/LTA ratio series of trace.
//
// It fails with ErrInvalidArgument when trace is empty, either window is
// zero, staLen >= ltaLen, or either window exceeds len(trace).
func Compute(trace []float64, staLen, ltaLen uint) ([]float64, error) {
	if err := validateTrace(len(trace), staLen, ltaLen); err != nil {
		return nil, err
	}
	return engine.NewFilter(staLen, ltaLen).Compute(trace), nil
}

// ComputeBatch computes the STA/LTA ratio of every row of a row-major
// batch of nTraces × nSamples values, using all available CPUs.
//
// It fails with ErrInvalidArgument for an empty buffer, zero dimensions,
// bad windows or a buffer shorter than the shape, and with ErrLength when
// nTraces × nSamples cannot be addressed. Both are reported before the
// output is allocated.
func ComputeBatch(data []float64, nTraces, nSamples, staLen, ltaLen uint) ([]float64, error) {
	d := newDetector(Config{
		STALength:      staLen,
		LTALength:      ltaLen,
		EnableParallel: true,
	})
	return d.ComputeBatch(data, nTraces, nSamples)
}
