package stalta

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// makeTraces creates nTraces × nSamples of phase-shifted sine bursts.
func makeTraces(nTraces, nSamples int) []float64 {
	data := make([]float64, nTraces*nSamples)
	for tr := range nTraces {
		phase := float64(tr) * math.Pi / 4
		for i := range nSamples {
			amp := 0.1
			if i >= nSamples/2 && i < nSamples/2+nSamples/10 {
				amp = 5.0
			}
			data[tr*nSamples+i] = amp * math.Sin(2*math.Pi*float64(i)/50+phase)
		}
	}
	return data
}

// TestComputeBatchParallel tests that parallel processing produces bit-exact results.
func TestComputeBatchParallel(t *testing.T) {
	const (
		nTraces  = 13
		nSamples = 4000
	)
	input := makeTraces(nTraces, nSamples)

	seq, err := New(&Config{STALength: 20, LTALength: 400, EnableParallel: false})
	if err != nil {
		t.Fatalf("Failed to create sequential detector: %v", err)
	}

	outputSeq, err := seq.ComputeBatch(input, nTraces, nSamples)
	if err != nil {
		t.Fatalf("Sequential ComputeBatch failed: %v", err)
	}

	for _, workers := range []int{0, 1, 2, 4, 16} {
		par, err := New(&Config{STALength: 20, LTALength: 400, EnableParallel: true, Workers: workers})
		if err != nil {
			t.Fatalf("Failed to create parallel detector: %v", err)
		}

		outputPar, err := par.ComputeBatch(input, nTraces, nSamples)
		if err != nil {
			t.Fatalf("Parallel ComputeBatch failed: %v", err)
		}

		if len(outputSeq) != len(outputPar) {
			t.Fatalf("Length mismatch: seq=%d, par=%d", len(outputSeq), len(outputPar))
		}
		for i := range outputSeq {
			if outputSeq[i] != outputPar[i] {
				t.Errorf("workers=%d index %d mismatch: seq=%v, par=%v",
					workers, i, outputSeq[i], outputPar[i])
				break // Don't flood with errors
			}
		}
	}
}

// TestComputeBatchRowIndependence verifies rows are processed independently.
func TestComputeBatchRowIndependence(t *testing.T) {
	const nSamples = 2000

	d, err := New(&Config{STALength: 10, LTALength: 100, EnableParallel: true})
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	// Row 0 is silence, row 1 carries a burst.
	input := make([]float64, 2*nSamples)
	for i := 1000; i < 1050; i++ {
		input[nSamples+i] = math.Sin(float64(i))
	}

	output, err := d.ComputeBatch(input, 2, nSamples)
	if err != nil {
		t.Fatalf("ComputeBatch failed: %v", err)
	}

	for i, v := range output[:nSamples] {
		if v != 0 {
			t.Fatalf("Silent row has non-zero ratio at %d: %v", i, v)
		}
	}
	if peak := Summarize(output[nSamples:]).Peak; peak < 2 {
		t.Errorf("Burst row peak ratio too low: %v", peak)
	}
}

// TestComputeBatchSingleTraceFallback verifies one row works with parallel enabled.
func TestComputeBatchSingleTraceFallback(t *testing.T) {
	const nSamples = 500

	d, err := New(&Config{STALength: 5, LTALength: 50, EnableParallel: true})
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	input := makeTraces(1, nSamples)
	batch, err := d.ComputeBatch(input, 1, nSamples)
	if err != nil {
		t.Fatalf("ComputeBatch failed: %v", err)
	}
	single, err := d.Compute(input)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i := range single {
		if batch[i] != single[i] {
			t.Fatalf("Sample %d mismatch: batch=%v, single=%v", i, batch[i], single[i])
		}
	}
}

// TestDetectorConcurrentUse runs one detector from many goroutines.
func TestDetectorConcurrentUse(t *testing.T) {
	const (
		nTraces  = 4
		nSamples = 1000
	)
	d, err := New(&Config{STALength: 10, LTALength: 100, EnableParallel: true, Workers: 2})
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	input := makeTraces(nTraces, nSamples)
	want, err := d.ComputeBatch(input, nTraces, nSamples)
	if err != nil {
		t.Fatalf("ComputeBatch failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := d.ComputeBatch(input, nTraces, nSamples)
			if err != nil {
				errs <- err.Error()
				return
			}
			for i := range want {
				if got[i] != want[i] {
					errs <- "concurrent result differs"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

// TestComputeChannels verifies packing separate slices into a batch.
func TestComputeChannels(t *testing.T) {
	const nSamples = 300

	d, err := New(&Config{STALength: 3, LTALength: 30, EnableParallel: true})
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	flat := makeTraces(3, nSamples)
	channels := [][]float64{flat[:nSamples], flat[nSamples : 2*nSamples], flat[2*nSamples:]}

	output, err := d.ComputeChannels(channels)
	if err != nil {
		t.Fatalf("ComputeChannels failed: %v", err)
	}
	if len(output) != 3 {
		t.Fatalf("Expected 3 channels, got %d", len(output))
	}
	for ch := range channels {
		want, _ := d.Compute(channels[ch])
		if cap(output[ch]) != nSamples {
			t.Errorf("Channel %d capacity %d, want %d", ch, cap(output[ch]), nSamples)
		}
		for i := range want {
			if output[ch][i] != want[i] {
				t.Fatalf("Channel %d sample %d mismatch", ch, i)
			}
		}
	}

	if _, err := d.ComputeChannels([][]float64{make([]float64, 40), make([]float64, 41)}); err == nil {
		t.Error("Expected error for ragged channels")
	}
	if _, err := d.ComputeChannels(nil); err == nil {
		t.Error("Expected error for no channels")
	}
}

// TestComputeDense verifies gonum matrices, including strided slices.
func TestComputeDense(t *testing.T) {
	const nSamples = 200

	d, err := New(&Config{STALength: 4, LTALength: 40, EnableParallel: true})
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	wide := mat.NewDense(4, nSamples+10, makeTraces(4, nSamples+10))
	sub, ok := wide.Slice(1, 3, 5, 5+nSamples).(*mat.Dense)
	if !ok {
		t.Fatal("Slice did not return *mat.Dense")
	}

	out, err := d.ComputeDense(sub)
	if err != nil {
		t.Fatalf("ComputeDense failed: %v", err)
	}
	r, c := out.Dims()
	if r != 2 || c != nSamples {
		t.Fatalf("Unexpected shape %dx%d", r, c)
	}

	for row := range 2 {
		want, _ := d.Compute(mat.Row(nil, row, sub))
		got := out.RawRowView(row)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Row %d sample %d mismatch: got=%v want=%v", row, i, got[i], want[i])
			}
		}
	}

	if _, err := d.ComputeDense(nil); err == nil {
		t.Error("Expected error for nil matrix")
	}
}
