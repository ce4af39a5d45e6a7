package kernel

import (
	"sync"

	"github.com/gemm-go/gemm/internal/matrix"
	"github.com/gemm-go/gemm/internal/parallel"
)

// DefaultTileEdge is the square tile edge of the block-decomposed kernel.
// Sized so one A-tile, B-tile, and output tile of float64 stay well under
// typical working-set limits; a single huge multiply never needs all three
// full matrices plus the output resident at once.
const DefaultTileEdge = 1000

// TileMultiplier multiplies one pair of tiles. The block-decomposed kernel
// takes it as a parameter so the dispatcher's size-based policy can be
// reused at tile granularity instead of duplicating kernel selection here.
type TileMultiplier func(a, b *matrix.Dense) (*matrix.Dense, error)

// BlockDecomposed computes C = A @ B by partitioning the operands into a
// grid of square tiles of edge tileEdge and accumulating, for every output
// tile, the contributions of each (row-tile, depth-tile) x (depth-tile,
// col-tile) pair.
//
// Independent output tiles run in parallel; they write disjoint regions of
// C, so no locking is needed between them. The depth sweep within one
// output tile is sequential, keeping the element-wise accumulation order
// deterministic.
func BlockDecomposed(a, b *matrix.Dense, tileEdge int, mul TileMultiplier, cfg parallel.Config) (*matrix.Dense, error) {
	if err := matrix.CheckMul(a, b); err != nil {
		return nil, err
	}
	if tileEdge <= 0 {
		tileEdge = DefaultTileEdge
	}
	a = a.ToOrder(matrix.RowMajor)
	b = b.ToOrder(matrix.RowMajor)

	m, k, n := a.Rows(), a.Cols(), b.Cols()
	c, err := matrix.NewDense(m, n, nil)
	if err != nil {
		return nil, err
	}

	rowTiles := (m + tileEdge - 1) / tileEdge
	colTiles := (n + tileEdge - 1) / tileEdge
	depthTiles := (k + tileEdge - 1) / tileEdge

	var (
		firstErr error
		errOnce  sync.Once
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	parallel.ForTiles(rowTiles, colTiles, func(ti, tj int) {
		i0 := ti * tileEdge
		i1 := min(i0+tileEdge, m)
		j0 := tj * tileEdge
		j1 := min(j0+tileEdge, n)

		for tp := 0; tp < depthTiles; tp++ {
			p0 := tp * tileEdge
			p1 := min(p0+tileEdge, k)

			tileA, err := a.Slice(i0, i1, p0, p1)
			if err != nil {
				fail(err)
				return
			}
			tileB, err := b.Slice(p0, p1, j0, j1)
			if err != nil {
				fail(err)
				return
			}
			partial, err := mul(tileA, tileB)
			if err != nil {
				fail(err)
				return
			}
			if err := c.AddInto(partial, i0, j0); err != nil {
				fail(err)
				return
			}
		}
	}, cfg)

	if firstErr != nil {
		return nil, firstErr
	}
	return c, nil
}
