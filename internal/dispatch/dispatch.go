package dispatch

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/gemm-go/gemm/internal/gpu"
	"github.com/gemm-go/gemm/internal/hwcaps"
	"github.com/gemm-go/gemm/internal/kernel"
	"github.com/gemm-go/gemm/internal/matrix"
	"github.com/gemm-go/gemm/internal/parallel"
)

// logger receives the verbose dispatch diagnostics. Observability only,
// never affects results.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Multiply validates A and B, resolves the strategy, and invokes exactly
// one kernel with the default policy.
func Multiply(a, b *matrix.Dense, strategy Strategy, verbose bool) (*matrix.Dense, error) {
	return MultiplyPolicy(a, b, strategy, verbose, DefaultPolicy())
}

// MultiplyPolicy is Multiply with explicit thresholds.
func MultiplyPolicy(a, b *matrix.Dense, strategy Strategy, verbose bool, pol Policy) (*matrix.Dense, error) {
	if err := matrix.CheckMul(a, b); err != nil {
		return nil, err
	}
	if err := pol.Validate(); err != nil {
		return nil, err
	}

	m, k, n := a.Rows(), a.Cols(), b.Cols()
	resolved := strategy
	if strategy == Auto {
		// Probe failures are advisory under auto: a GPU that fails to
		// initialize counts as absent, never as an error.
		resolved = Resolve(maxDim(m, k, n), hwcaps.Get().GPUAvailable, pol)
	}

	if verbose {
		logger.Info().
			Int("m", m).Int("k", k).Int("n", n).
			Str("requested", strategy.String()).
			Str("kernel", resolved.String()).
			Msg("dispatch")
	}

	switch resolved {
	case DirectBlocked:
		return kernel.Direct(a, b, pol.TinyMax, parallel.DefaultConfig())
	case NativeBLAS:
		return kernel.BLAS(a, b)
	case GPUCompute:
		dev, err := gpu.Open()
		if err != nil {
			// Only "auto" may substitute; an explicit GPU request on a
			// GPU-less system fails here.
			return nil, &BackendUnavailableError{Backend: "gpu-compute", Err: err}
		}
		return dev.Multiply(a, b)
	case BlockDecomposed:
		return kernel.BlockDecomposed(a, b, pol.TileEdge, tileMultiplier(pol), parallel.DefaultConfig())
	default:
		return nil, &UnknownStrategyError{Name: resolved.String()}
	}
}

// Resolve maps size = max(M, K, N) to a concrete strategy:
// small -> direct blocked, medium -> BLAS, large with GPU -> GPU, large
// without GPU -> block-decomposed, huge without GPU -> BLAS fallback.
func Resolve(size int, gpuAvailable bool, pol Policy) Strategy {
	switch {
	case size < pol.BlockedMax:
		// The direct kernel itself drops to the unblocked triple loop at
		// or below TinyMax.
		return DirectBlocked
	case size < pol.BLASMax:
		return NativeBLAS
	case gpuAvailable:
		return GPUCompute
	case size < pol.DecomposeMax:
		return BlockDecomposed
	default:
		return NativeBLAS
	}
}

// tileMultiplier reuses the size-based policy at tile granularity: direct
// for small tiles, then GPU when present, then BLAS.
func tileMultiplier(pol Policy) kernel.TileMultiplier {
	return func(ta, tb *matrix.Dense) (*matrix.Dense, error) {
		size := maxDim(ta.Rows(), ta.Cols(), tb.Cols())
		if size < pol.BlockedMax {
			return kernel.Direct(ta, tb, pol.TinyMax, parallel.Sequential())
		}
		if gpu.Available() {
			dev, err := gpu.Open()
			if err == nil {
				return dev.Multiply(ta, tb)
			}
		}
		return kernel.BLAS(ta, tb)
	}
}

func maxDim(m, k, n int) int {
	return max(m, max(k, n))
}
