// Package parallel provides the worker helpers used to spread independent
// kernel work (output tiles, row blocks) across CPU threads.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// Sequential returns a config that disables all parallelism. Useful when a
// caller needs a fixed, single-threaded execution order.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 0}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n <= cfg.MinChunkSize || cfg.NumWorkers <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, 1)
	if cfg.MinChunkSize > chunkSize {
		chunkSize = cfg.MinChunkSize
	}

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForTiles executes f(r, c) for every (row-tile, col-tile) pair of an
// rows x cols tile grid. Tiles write disjoint output regions, so no
// locking is needed between invocations.
func ForTiles(rows, cols int, f func(r, c int), cfg Config) {
	n := rows * cols
	For(n, func(k int) {
		f(k/cols, k%cols)
	}, cfg)
}
