// Package pipeline dispatches the per-trace recurrence across a batch.
// Rows are independent, so the batch is split into contiguous row blocks
// that are filtered concurrently, each worker writing a disjoint region
// of the output.
package pipeline

import (
	"runtime"
	"sync"

	"github.com/tphakala/go-stalta/internal/engine"
	"github.com/tphakala/go-stalta/internal/matrix"
)

// Block is a half-open range of row indices handled by one worker.
type Block struct {
	Start, End int
}

// Len returns the number of rows in the block.
func (b Block) Len() int {
	return b.End - b.Start
}

// Dispatcher maps a row function over a batch.
// The zero value runs sequentially.
type Dispatcher struct {
	parallel bool
	workers  int
}

// NewDispatcher creates a dispatcher. When parallel is true, workers <= 0
// selects runtime.GOMAXPROCS(0).
func NewDispatcher(parallel bool, workers int) *Dispatcher {
	return &Dispatcher{parallel: parallel, workers: workers}
}

// Workers returns the number of goroutines used for a batch of rows.
func (d *Dispatcher) Workers(rows int) int {
	if d == nil || !d.parallel || rows <= minParallelRows {
		return 1
	}
	w := d.workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return min(w, rows)
}

// Partition splits [0, rows) into n contiguous blocks whose sizes differ
// by at most one. Empty blocks are never returned.
func Partition(rows, n int) []Block {
	if rows <= 0 {
		return nil
	}
	n = max(1, min(n, rows))

	blocks := make([]Block, n)
	for w := range n {
		blocks[w] = Block{
			Start: w * rows / n,
			End:   (w + 1) * rows / n,
		}
	}
	return blocks
}

// ForEachRow calls fn once for every row in [0, rows). With more than one
// worker, calls happen concurrently and in no particular order; fn must
// only touch state owned by its row.
func (d *Dispatcher) ForEachRow(rows int, fn func(row int)) {
	workers := d.Workers(rows)
	if workers <= 1 {
		for r := range rows {
			fn(r)
		}
		return
	}

	var wg sync.WaitGroup
	for _, b := range Partition(rows, workers) {
		wg.Add(1)
		go func(b Block) {
			defer wg.Done()
			for r := b.Start; r < b.End; r++ {
				fn(r)
			}
		}(b)
	}
	wg.Wait()
}

// Run filters every row of in into the matching row of out.
// Both views must have the same shape.
func (d *Dispatcher) Run(f engine.Filter, in, out matrix.View) {
	rows, _ := in.Dims()
	d.ForEachRow(rows, func(r int) {
		f.Apply(out.Row(r), in.Row(r))
	})
}
