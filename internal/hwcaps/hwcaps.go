// Package hwcaps probes, once per process, which acceleration backends are
// usable on the current machine. The resulting Snapshot is immutable and
// advisory: probe failures mean "not available", never an error.
package hwcaps

import (
	"runtime"
	"sync"

	"github.com/gemm-go/gemm/internal/gpu"
	"github.com/gemm-go/gemm/internal/kernel"
)

// SIMD tiers, ordered by capability. On amd64 they follow the classic
// SSE2 < AVX < AVX2 < AVX-512 ladder; arm64 NEON maps to TierAVX-equivalent
// and SVE/SVE2 above it.
const (
	TierNone   = 0
	TierSSE2   = 1
	TierAVX    = 2
	TierAVX2   = 3
	TierAVX512 = 4
)

// Snapshot describes the acceleration backends present on this machine.
// Computed once, read-only afterwards, process-wide lifetime.
type Snapshot struct {
	BLASAccelerated bool // a system BLAS is registered (netlib build)
	GPUAvailable    bool // a WebGPU adapter initialized successfully
	CPUThreads      int
	SIMDTier        int

	// Rough throughput estimates per size tier, for capability reporting
	// only. Not a correctness concern.
	EstimatedGFLOPSSmall  float64
	EstimatedGFLOPSMedium float64
	EstimatedGFLOPSLarge  float64
}

var (
	once sync.Once
	snap Snapshot
)

// Get returns the process-wide capability snapshot, probing on first call.
func Get() Snapshot {
	once.Do(func() {
		snap = probe()
	})
	return snap
}

func probe() Snapshot {
	s := Snapshot{
		BLASAccelerated: kernel.BLASAccelerated(),
		GPUAvailable:    gpu.Available(),
		CPUThreads:      runtime.NumCPU(),
		SIMDTier:        simdTier(),
	}
	s.EstimatedGFLOPSSmall, s.EstimatedGFLOPSMedium, s.EstimatedGFLOPSLarge = estimateGFLOPS(s.SIMDTier, s.GPUAvailable)
	return s
}

// estimateGFLOPS maps the SIMD tier and GPU presence to coarse per-tier
// throughput estimates. Small covers the direct kernel, medium the BLAS
// kernel, large the GPU kernel (zero without a GPU).
func estimateGFLOPS(tier int, gpuAvailable bool) (small, medium, large float64) {
	switch {
	case tier >= TierAVX2:
		small, medium, large = 26.0, 143.0, 397.0
	case tier == TierAVX:
		small, medium, large = 18.0, 95.0, 320.0
	case tier == TierSSE2:
		small, medium, large = 15.0, 80.0, 90.0
	default:
		small, medium, large = 10.0, 20.0, 20.0
	}
	if !gpuAvailable {
		large = 0
	}
	return small, medium, large
}
