// Package matrix provides a non-owning row-major view over a flat buffer.
package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when a buffer cannot hold the requested shape.
var ErrShape = errors.New("buffer does not match view shape")

// View addresses a flat buffer as rows×cols with strides (cols, 1).
// It never owns, copies or grows the buffer and must not outlive it.
type View struct {
	data   []float64
	rows   int
	cols   int
	stride int
}

// New creates a view over data. data must hold at least rows*cols values;
// rows*cols must already be known not to overflow.
func New(data []float64, rows, cols int) (View, error) {
	if rows <= 0 || cols <= 0 {
		return View{}, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}
	if len(data) < rows*cols {
		return View{}, fmt.Errorf("%w: need %d values, have %d", ErrShape, rows*cols, len(data))
	}
	return View{data: data, rows: rows, cols: cols, stride: cols}, nil
}

// Dims returns the number of rows and columns.
func (v View) Dims() (rows, cols int) {
	return v.rows, v.cols
}

// Stride returns the distance between the starts of consecutive rows.
func (v View) Stride() int {
	return v.stride
}

// Offset returns the flat index of element (r, c).
func (v View) Offset(r, c int) int {
	return r*v.stride + c
}

// Row returns row r as a slice aliasing the buffer. Its capacity is capped
// at cols so appends can never spill into row r+1.
func (v View) Row(r int) []float64 {
	if r < 0 || r >= v.rows {
		panic(fmt.Sprintf("matrix: row %d out of range [0,%d)", r, v.rows))
	}
	start := r * v.stride
	end := start + v.cols
	return v.data[start:end:end]
}

// At returns element (r, c).
func (v View) At(r, c int) float64 {
	return v.Row(r)[c]
}

// extent is the number of buffer values spanned by the view.
func (v View) extent() int {
	return (v.rows-1)*v.stride + v.cols
}

// General returns the view as a blas64.General sharing the same storage.
func (v View) General() blas64.General {
	return blas64.General{
		Rows:   v.rows,
		Cols:   v.cols,
		Stride: v.stride,
		Data:   v.data[:v.extent()],
	}
}

// Dense wraps the same storage in a gonum *mat.Dense. Writes through the
// returned matrix are visible in the view and vice versa.
func (v View) Dense() *mat.Dense {
	var d mat.Dense
	d.SetRawMatrix(v.General())
	return &d
}

// FromDense creates a view over the backing store of m without copying.
func FromDense(m *mat.Dense) View {
	raw := m.RawMatrix()
	return View{data: raw.Data, rows: raw.Rows, cols: raw.Cols, stride: raw.Stride}
}
