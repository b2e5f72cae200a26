package engine

import "math"

// Stream runs a Filter over a trace delivered in chunks.
// Feeding a trace through Process in any chunking produces the same
// values, bit for bit, as Filter.Apply over the whole trace.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	filter   Filter
	sta, lta float64
	seeded   bool
	samples  int64
}

// NewStream creates an unseeded stream for filter f.
func NewStream(f Filter) *Stream {
	return &Stream{filter: f}
}

// Process appends the ratio series of chunk to dst and returns the result.
// The first sample ever processed seeds both averages.
func (s *Stream) Process(dst, chunk []float64) []float64 {
	if len(chunk) == 0 {
		return dst
	}

	if !s.seeded {
		first := math.Abs(chunk[0])
		s.sta, s.lta = first, first
		s.seeded = true
	}

	f := s.filter
	sta, lta := s.sta, s.lta
	for _, x := range chunk {
		v := math.Abs(x)

		sta = f.cSTA*v + f.dSTA*sta
		lta = f.cLTA*v + f.dLTA*lta

		dst = append(dst, ratio(sta, lta))
	}
	s.sta, s.lta = sta, lta
	s.samples += int64(len(chunk))

	return dst
}

// State returns the current STA and LTA values and whether the stream
// has been seeded.
func (s *Stream) State() (sta, lta float64, seeded bool) {
	return s.sta, s.lta, s.seeded
}

// Samples returns the number of samples processed since the last Reset.
func (s *Stream) Samples() int64 {
	return s.samples
}

// Reset clears all state. The next sample processed seeds the averages again.
func (s *Stream) Reset() {
	s.sta, s.lta = 0, 0
	s.seeded = false
	s.samples = 0
}
