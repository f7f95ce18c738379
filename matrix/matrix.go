// Package matrix provides the column-major numeric container used by every
// descriptor store. A Matrix holds dim x n values in one contiguous slice,
// one descriptor per column, so a column is a single copy-free sub-slice.
package matrix

import (
	"fmt"

	"github.com/hupe1980/descgo/model"
)

// Matrix is a dense column-major matrix of rows x cols elements.
// Rows is the descriptor dimensionality, cols the descriptor count.
type Matrix[T model.Float] struct {
	rows int
	cols int
	data []T
}

// New creates a zeroed rows x cols matrix.
func New[T model.Float](rows, cols int) *Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative shape %dx%d", rows, cols))
	}
	return &Matrix[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// FromData wraps an existing column-major slice. The slice is NOT copied;
// the caller must not mutate it afterwards.
func FromData[T model.Float](rows, cols int, data []T) (*Matrix[T], error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix: data length %d does not match shape %dx%d", len(data), rows, cols)
	}
	return &Matrix[T]{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows (descriptor dimensionality).
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the number of columns (descriptor count).
func (m *Matrix[T]) Cols() int { return m.cols }

// Data returns the underlying column-major slice.
// The slice is shared; treat it as read-only unless you own the matrix.
func (m *Matrix[T]) Data() []T { return m.data }

// At returns the element at row r, column c.
func (m *Matrix[T]) At(r, c int) T {
	return m.data[c*m.rows+r]
}

// Set assigns the element at row r, column c.
func (m *Matrix[T]) Set(r, c int, v T) {
	m.data[c*m.rows+r] = v
}

// Col returns column c as a sub-slice of the backing array (no copy).
func (m *Matrix[T]) Col(c int) []T {
	return m.data[c*m.rows : (c+1)*m.rows]
}

// SetCol copies vals into column c. len(vals) must equal Rows.
func (m *Matrix[T]) SetCol(c int, vals []T) {
	if len(vals) != m.rows {
		panic(fmt.Sprintf("matrix: SetCol with %d values into %d rows", len(vals), m.rows))
	}
	copy(m.Col(c), vals)
}

// Gather returns a new matrix whose columns are the requested columns of m,
// in the given order.
func (m *Matrix[T]) Gather(cols []int) *Matrix[T] {
	out := New[T](m.rows, len(cols))
	for i, c := range cols {
		copy(out.Col(i), m.Col(c))
	}
	return out
}

// Equal reports element-for-element equality. NaN is not equal to NaN,
// matching the IEEE semantics the consistency checker relies on.
func (m *Matrix[T]) Equal(other *Matrix[T]) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}
