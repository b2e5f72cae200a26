package stalta

import (
	"testing"
)

// BenchmarkComputeBatchSequential benchmarks sequential batch processing.
func BenchmarkComputeBatchSequential(b *testing.B) {
	benchmarkComputeBatch(b, false)
}

// BenchmarkComputeBatchParallel benchmarks parallel batch processing.
func BenchmarkComputeBatchParallel(b *testing.B) {
	benchmarkComputeBatch(b, true)
}

func benchmarkComputeBatch(b *testing.B, parallel bool) {
	b.Helper()

	const (
		nTraces  = 64
		nSamples = 100 * 60 // one minute at 100 Hz
	)

	d, err := New(&Config{
		STALength:      100,
		LTALength:      1000,
		EnableParallel: parallel,
	})
	if err != nil {
		b.Fatalf("Failed to create detector: %v", err)
	}

	input := makeTraces(nTraces, nSamples)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		if _, err := d.ComputeBatch(input, nTraces, nSamples); err != nil {
			b.Fatalf("ComputeBatch failed: %v", err)
		}
	}
}

// BenchmarkCompute benchmarks a single long trace.
func BenchmarkCompute(b *testing.B) {
	input := makeTraces(1, 100*3600)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Compute(input, 100, 1000); err != nil {
			b.Fatalf("Compute failed: %v", err)
		}
	}
}
