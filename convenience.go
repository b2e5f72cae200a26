package stalta

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-stalta/internal/engine"
	"github.com/tphakala/go-stalta/internal/matrix"
)

// ComputeFloat32 is like Compute but for float32 samples.
// Samples are widened to float64 for the recurrence and the ratios are
// narrowed on return.
func ComputeFloat32(trace []float32, staLen, ltaLen uint) ([]float32, error) {
	if err := validateTrace(len(trace), staLen, ltaLen); err != nil {
		return nil, err
	}

	input64 := make([]float64, len(trace))
	for i, v := range trace {
		input64[i] = float64(v)
	}

	output64 := engine.NewFilter(staLen, ltaLen).Compute(input64)

	output32 := make([]float32, len(output64))
	for i, v := range output64 {
		output32[i] = float32(v)
	}
	return output32, nil
}

// ComputeChannels processes equal-length traces given as separate slices.
// The traces are packed into one row-major batch; the returned rows share
// a single allocation.
func (d *Detector) ComputeChannels(channels [][]float64) ([][]float64, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidArgument)
	}

	nSamples := len(channels[0])
	for ch, trace := range channels {
		if len(trace) != nSamples {
			return nil, fmt.Errorf("%w: channel %d has %d samples, expected %d",
				ErrInvalidArgument, ch, len(trace), nSamples)
		}
	}

	rows := len(channels)
	total, err := validateShape(uint(rows), uint(nSamples), d.config.STALength, d.config.LTALength)
	if err != nil {
		return nil, err
	}

	packed := make([]float64, 0, total)
	for _, trace := range channels {
		packed = append(packed, trace...)
	}

	flat, err := d.ComputeBatch(packed, uint(rows), uint(nSamples))
	if err != nil {
		return nil, err
	}

	view, err := matrix.New(flat, rows, nSamples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	output := make([][]float64, rows)
	for r := range output {
		output[r] = view.Row(r)
	}
	return output, nil
}

// ComputeDense processes every row of m as a trace. m may be a strided
// sub-matrix; it is read in place. The result is a new, contiguous
// matrix of the same shape.
func (d *Detector) ComputeDense(m *mat.Dense) (*mat.Dense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: input matrix must not be empty", ErrInvalidArgument)
	}

	in := matrix.FromDense(m)
	rows, cols := in.Dims()
	total, err := validateShape(uint(rows), uint(cols), d.config.STALength, d.config.LTALength)
	if err != nil {
		return nil, err
	}

	output := make([]float64, total)
	out, err := matrix.New(output, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	d.dispatcher.Run(d.filter, in, out)
	return out.Dense(), nil
}

// Stream computes the ratio series of a trace that arrives in chunks.
// Output is bit-identical to Compute over the concatenated chunks.
// A Stream is not safe for concurrent use.
type Stream struct {
	engine *engine.Stream
}

// NewStream creates a streaming detector for the given windows. Window
// lengths cannot be checked against a trace length that is not yet known.
func NewStream(staLen, ltaLen uint) (*Stream, error) {
	if err := validateWindows(staLen, ltaLen); err != nil {
		return nil, err
	}
	return &Stream{engine: engine.NewStream(engine.NewFilter(staLen, ltaLen))}, nil
}

// NewStream creates a streaming detector sharing the detector's windows.
func (d *Detector) NewStream() *Stream {
	return &Stream{engine: engine.NewStream(d.filter)}
}

// Process returns the ratio series for chunk.
func (s *Stream) Process(chunk []float64) []float64 {
	return s.engine.Process(make([]float64, 0, len(chunk)), chunk)
}

// AppendProcess appends the ratio series for chunk to dst.
func (s *Stream) AppendProcess(dst, chunk []float64) []float64 {
	return s.engine.Process(dst, chunk)
}

// Samples returns the number of samples processed since the last Reset.
func (s *Stream) Samples() int64 {
	return s.engine.Samples()
}

// Reset clears all internal state.
func (s *Stream) Reset() {
	s.engine.Reset()
}
