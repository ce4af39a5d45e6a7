// Package kernel implements the CPU multiplication kernels: the
// cache-blocked direct kernel for small matrices, the BLAS kernel for
// medium and large ones, and the block-decomposed kernel for matrices too
// big to multiply monolithically.
package kernel

import (
	"github.com/gemm-go/gemm/internal/matrix"
	"github.com/gemm-go/gemm/internal/parallel"
)

// blockEdge is the cubic tile edge of the cache-blocked path, sized so an
// A-tile, B-tile, and C-tile of float64 together fit a first-level cache.
const blockEdge = 64

// DefaultTinyMax is the largest dimension for which the plain triple loop
// beats the blocked path; blocking overhead dominates below it.
const DefaultTinyMax = 50

// Direct computes C = A @ B with the cache-blocked triple loop.
// Matrices whose largest dimension is at most tinyMax take the unblocked
// path. Accumulation is a plain floating-point sum in iteration order
// (row tile, col tile, depth tile, then element-wise), so results are
// bit-identical across runs for fixed inputs.
func Direct(a, b *matrix.Dense, tinyMax int, cfg parallel.Config) (*matrix.Dense, error) {
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

	if m <= tinyMax && k <= tinyMax && n <= tinyMax {
		multiplyNaive(c.Data(), a.Data(), b.Data(), m, k, n)
		return c, nil
	}
	multiplyBlocked(c.Data(), a.Data(), b.Data(), m, k, n, cfg)
	return c, nil
}

// Reference computes C = A @ B with the unblocked triple loop, whatever the
// size. It is the semantic baseline the other kernels are tested against.
func Reference(a, b *matrix.Dense) (*matrix.Dense, error) {
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
	multiplyNaive(c.Data(), a.Data(), b.Data(), m, k, n)
	return c, nil
}

// multiplyNaive is the plain triple loop: C[i,j] = sum_p A[i,p] * B[p,j].
func multiplyNaive(c, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for p := 0; p < k; p++ {
				sum += a[i*k+p] * b[p*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// multiplyBlocked partitions the M x K x N iteration space into cubic tiles
// of edge blockEdge and accumulates each output tile over its depth tiles
// before moving on, maximizing reuse of resident tiles. Row blocks own
// disjoint output rows, so they can run on separate workers; the depth sweep
// within a row block stays sequential to keep the accumulation order fixed.
func multiplyBlocked(c, a, b []float64, m, k, n int, cfg parallel.Config) {
	rowBlocks := (m + blockEdge - 1) / blockEdge

	parallel.For(rowBlocks, func(bi int) {
		i0 := bi * blockEdge
		i1 := min(i0+blockEdge, m)
		for j0 := 0; j0 < n; j0 += blockEdge {
			j1 := min(j0+blockEdge, n)
			for p0 := 0; p0 < k; p0 += blockEdge {
				p1 := min(p0+blockEdge, k)
				for i := i0; i < i1; i++ {
					for j := j0; j < j1; j++ {
						sum := 0.0
						for p := p0; p < p1; p++ {
							sum += a[i*k+p] * b[p*n+j]
						}
						c[i*n+j] += sum
					}
				}
			}
		}
	}, cfg)
}
