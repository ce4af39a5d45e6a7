// Package matrix provides the dense 2-D float64 buffer shared by every
// multiplication kernel. Storage order is tracked explicitly so kernels can
// normalize layout at their boundary instead of guessing.
package matrix

import (
	"fmt"
	"math"
	"math/rand"
)

// Order describes how a matrix lays out its elements in memory.
type Order int

// Supported storage orders.
const (
	RowMajor Order = iota
	ColMajor
)

// String returns a human-readable order name.
func (o Order) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColMajor:
		return "col-major"
	default:
		return "unknown"
	}
}

// Dense is a dense 2-D float64 matrix. The backing slice holds exactly
// rows*cols contiguous elements and is owned by this matrix: kernels never
// write into a caller's buffer, they allocate a fresh output instead.
type Dense struct {
	rows  int
	cols  int
	order Order
	data  []float64
}

// NewDense creates a rows x cols matrix. When data is nil a zeroed buffer is
// allocated; otherwise data is adopted as the row-major backing store and
// must hold exactly rows*cols elements.
func NewDense(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix: invalid dimensions %dx%d", rows, cols)
	}
	if data == nil {
		data = make([]float64, rows*cols)
	} else if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix: data length %d does not match %dx%d", len(data), rows, cols)
	}
	return &Dense{rows: rows, cols: cols, order: RowMajor, data: data}, nil
}

// NewDenseOrder is NewDense with an explicit storage order for data.
func NewDenseOrder(rows, cols int, data []float64, order Order) (*Dense, error) {
	m, err := NewDense(rows, cols, data)
	if err != nil {
		return nil, err
	}
	m.order = order
	return m, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Dense {
	m, err := NewDense(n, n, nil)
	if err != nil {
		panic(fmt.Sprintf("matrix: identity: %v", err))
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// Randn returns a rows x cols matrix with normally distributed entries.
// A fixed seed gives reproducible matrices for tests and benchmarks.
func Randn(rows, cols int, seed int64) *Dense {
	m, err := NewDense(rows, cols, nil)
	if err != nil {
		panic(fmt.Sprintf("matrix: randn: %v", err))
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range m.data {
		m.data[i] = rng.NormFloat64()
	}
	return m
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// Order returns the storage order of the backing slice.
func (m *Dense) Order() Order { return m.order }

// Data returns the backing slice in the matrix's storage order.
// Direct access to underlying memory; callers must not resize it.
func (m *Dense) Data() []float64 { return m.data }

// At returns the element at row i, column j.
func (m *Dense) At(i, j int) float64 {
	if m.order == ColMajor {
		return m.data[j*m.rows+i]
	}
	return m.data[i*m.cols+j]
}

// Set stores v at row i, column j.
func (m *Dense) Set(i, j int, v float64) {
	if m.order == ColMajor {
		m.data[j*m.rows+i] = v
		return
	}
	m.data[i*m.cols+j] = v
}

// Clone returns a deep copy, preserving storage order.
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Dense{rows: m.rows, cols: m.cols, order: m.order, data: data}
}

// ToOrder returns a matrix with the requested storage order. When the matrix
// already uses that order it is returned unchanged (no copy); otherwise a
// fresh transposed-layout buffer is allocated. Kernels call this at their
// boundary to normalize input layout.
func (m *Dense) ToOrder(order Order) *Dense {
	if m.order == order {
		return m
	}
	data := make([]float64, len(m.data))
	if order == RowMajor {
		// col-major -> row-major
		for i := 0; i < m.rows; i++ {
			for j := 0; j < m.cols; j++ {
				data[i*m.cols+j] = m.data[j*m.rows+i]
			}
		}
	} else {
		// row-major -> col-major
		for j := 0; j < m.cols; j++ {
			for i := 0; i < m.rows; i++ {
				data[j*m.rows+i] = m.data[i*m.cols+j]
			}
		}
	}
	return &Dense{rows: m.rows, cols: m.cols, order: order, data: data}
}

// Slice returns a copy of the sub-matrix rows [i0,i1) x cols [j0,j1) in
// row-major order. Used by the block-decomposed kernel to carve tiles.
func (m *Dense) Slice(i0, i1, j0, j1 int) (*Dense, error) {
	if i0 < 0 || j0 < 0 || i1 > m.rows || j1 > m.cols || i0 >= i1 || j0 >= j1 {
		return nil, fmt.Errorf("matrix: slice [%d:%d, %d:%d] out of range for %dx%d", i0, i1, j0, j1, m.rows, m.cols)
	}
	rows, cols := i1-i0, j1-j0
	out, err := NewDense(rows, cols, nil)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[i*cols+j] = m.At(i0+i, j0+j)
		}
	}
	return out, nil
}

// AddInto accumulates tile element-wise into the region of m whose top-left
// corner is (i0, j0). m must be row-major.
func (m *Dense) AddInto(tile *Dense, i0, j0 int) error {
	if m.order != RowMajor {
		return fmt.Errorf("matrix: AddInto requires a row-major destination")
	}
	if i0+tile.rows > m.rows || j0+tile.cols > m.cols {
		return fmt.Errorf("matrix: tile %dx%d at (%d,%d) exceeds %dx%d", tile.rows, tile.cols, i0, j0, m.rows, m.cols)
	}
	for i := 0; i < tile.rows; i++ {
		row := m.data[(i0+i)*m.cols+j0:]
		for j := 0; j < tile.cols; j++ {
			row[j] += tile.At(i, j)
		}
	}
	return nil
}

// EqualApprox reports whether m and other have the same shape and every
// element differs by at most tol.
func (m *Dense) EqualApprox(other *Dense, tol float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if math.Abs(m.At(i, j)-other.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}
