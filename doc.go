// Package stalta computes the Short-Term-Average / Long-Term-Average
// ratio, the classic onset detector for transient bursts of energy in a
// continuous signal such as a seismic trace.
//
// Both averages are recursive (exponential moving averages of the
// rectified signal), so a trace of n samples is filtered in O(n) time
// with two scalars of state regardless of the window lengths.
//
// # Quick Start
//
// For a single trace:
//
//	ratio, err := stalta.Compute(trace, 50, 500)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For many traces of equal length stored row-major in one buffer:
//
//	ratios, err := stalta.ComputeBatch(data, nTraces, nSamples, 50, 500)
//
// For repeated use with explicit parallelism settings:
//
//	d, err := stalta.New(&stalta.Config{
//	    STALength:      50,
//	    LTALength:      500,
//	    EnableParallel: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ratios, err := d.ComputeBatch(data, nTraces, nSamples)
//
// # The Recurrence
//
// With cSTA = 1/staLen and cLTA = 1/ltaLen, both averages are seeded with
// |x[0]| and then, for every i starting at 0,
//
//	sta = cSTA*|x[i]| + (1-cSTA)*sta
//	lta = cLTA*|x[i]| + (1-cLTA)*lta
//	ratio[i] = sta/lta   (0 when lta <= 1e-10)
//
// The first sample therefore enters the recurrence twice: once as the
// seed and once in the loop.
//
// # Validation
//
// Window lengths must satisfy 0 < staLen < ltaLen <= trace length.
// Violations are reported as [ErrInvalidArgument]; a batch whose element
// count cannot be addressed is reported as [ErrLength]. Nothing is
// computed or allocated for a rejected call, and no parameter is ever
// clamped.
//
// # Thread Safety
//
// [Compute], [ComputeBatch] and all [Detector] methods are safe for
// concurrent use. Batch calls read the input concurrently and give each
// worker a disjoint block of output rows; the result is bit-identical for
// any number of workers. A [Stream] carries state and must not be shared
// between goroutines.
//
// # Events
//
// [Triggers] turns a ratio series into on/off events using a pair of
// thresholds, and [Summarize] reports the mean and peak ratio.
package stalta
