package stalta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-stalta/internal/testutil"
)

func TestStream_MatchesCompute(t *testing.T) {
	rng := testutil.NewRand(9)
	trace := testutil.UniformNoise(rng, 2500, 3)

	want, err := Compute(trace, 25, 250)
	require.NoError(t, err)

	s, err := NewStream(25, 250)
	require.NoError(t, err)

	var got []float64
	for start := 0; start < len(trace); start += 333 {
		end := min(start+333, len(trace))
		chunk := s.Process(trace[start:end])
		assert.Len(t, chunk, end-start)
		got = append(got, chunk...)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, int64(len(trace)), s.Samples())
}

func TestStream_FromDetector(t *testing.T) {
	d, err := New(&Config{STALength: 2, LTALength: 4})
	require.NoError(t, err)

	input := []float64{0.2, -0.5, 1.0, 2.0, -1.0, 0.1, 0.3, -0.2}
	want, err := d.Compute(input)
	require.NoError(t, err)

	s := d.NewStream()
	got := s.AppendProcess(nil, input[:3])
	got = s.AppendProcess(got, input[3:])
	assert.Equal(t, want, got)

	s.Reset()
	assert.Zero(t, s.Samples())
	assert.Equal(t, want, s.Process(input))
}

func TestNewStream_InvalidWindows(t *testing.T) {
	_, err := NewStream(0, 4)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewStream(4, 4)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(&Config{STALength: 5, LTALength: 3})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(&Config{STALength: 1, LTALength: 3, Workers: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)

	d, err := New(&Config{STALength: 1, LTALength: 3, EnableParallel: true, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, uint(3), d.Config().LTALength)

	// Windows longer than the trace are rejected per call.
	_, err = d.Compute([]float64{1, 2})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
