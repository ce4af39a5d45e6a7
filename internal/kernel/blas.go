package kernel

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/gemm-go/gemm/internal/matrix"
)

// blasAccelerated is flipped by the netlib registration (see
// blas_netlib.go). Without it, gonum's pure Go Dgemm serves, so the
// native-blas strategy works on every platform, just slower.
var blasAccelerated bool

// BLASAccelerated reports whether a system BLAS is linked in.
func BLASAccelerated() bool {
	return blasAccelerated
}

// BLAS computes C = A @ B through the registered blas64 implementation
// (Dgemm with alpha=1, beta=0: a pure product, no accumulation into a
// pre-existing C).
//
// The Go BLAS interface indexes row-major, so inputs are normalized to
// row-major at this boundary; a column-major input is converted exactly
// once and the output is always row-major.
func BLAS(a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.CheckMul(a, b); err != nil {
		return nil, err
	}
	a = a.ToOrder(matrix.RowMajor)
	b = b.ToOrder(matrix.RowMajor)

	m, k, n := a.Rows(), a.Cols(), b.Cols()
	c, err := matrix.NewDense(m, n, nil)
	if err != nil {
		return nil, err
	}

	ga := blas64.General{Rows: m, Cols: k, Stride: k, Data: a.Data()}
	gb := blas64.General{Rows: k, Cols: n, Stride: n, Data: b.Data()}
	gc := blas64.General{Rows: m, Cols: n, Stride: n, Data: c.Data()}

	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, ga, gb, 0, gc)
	return c, nil
}
