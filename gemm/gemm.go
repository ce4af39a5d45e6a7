// Copyright 2026 The gemm-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gemm multiplies dense float64 matrices, selecting among several
// execution strategies based on matrix size and available hardware
// acceleration.
//
// Four kernels back the API: a cache-blocked direct kernel for small
// matrices, a BLAS kernel (gonum, optionally a linked system BLAS) for
// medium ones, a WebGPU compute kernel for large ones, and a
// block-decomposed kernel for matrices too big to multiply monolithically
// on a GPU-less machine. The "auto" strategy picks one per call; an
// explicit strategy bypasses size-based selection and never silently
// substitutes another kernel.
//
// Example:
//
//	a := matrix.Randn(512, 512, 1)
//	b := matrix.Randn(512, 512, 2)
//	c, err := gemm.Multiply(a, b)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gemm

import (
	"github.com/gemm-go/gemm/internal/dispatch"
	"github.com/gemm-go/gemm/internal/gpu"
	"github.com/gemm-go/gemm/internal/hwcaps"
	"github.com/gemm-go/gemm/internal/matrix"
)

// Strategy names a kernel-selection policy.
type Strategy = dispatch.Strategy

// Recognized strategies. Auto resolves to a concrete kernel per call.
const (
	Auto            = dispatch.Auto
	DirectBlocked   = dispatch.DirectBlocked
	NativeBLAS      = dispatch.NativeBLAS
	GPUCompute      = dispatch.GPUCompute
	BlockDecomposed = dispatch.BlockDecomposed
)

// Error kinds surfaced by Multiply.
type (
	// DimensionError reports that cols(A) != rows(B).
	DimensionError = matrix.DimensionError
	// AllocationError reports a failed host or device buffer allocation.
	AllocationError = matrix.AllocationError
	// UnknownStrategyError reports an unrecognized strategy name.
	UnknownStrategyError = dispatch.UnknownStrategyError
	// BackendUnavailableError reports an explicitly requested kernel whose
	// backend failed to initialize.
	BackendUnavailableError = dispatch.BackendUnavailableError
)

// Capabilities is the immutable snapshot of acceleration backends present
// on this machine.
type Capabilities = hwcaps.Snapshot

// Policy holds the auto-selection thresholds.
type Policy = dispatch.Policy

// Multiply computes C = A @ B with the auto strategy.
func Multiply(a, b *matrix.Dense) (*matrix.Dense, error) {
	return dispatch.Multiply(a, b, dispatch.Auto, false)
}

// MultiplyWith computes C = A @ B with an explicit strategy. When verbose
// is set, a diagnostic naming the dimension triple and the chosen kernel is
// emitted; it never affects the result.
func MultiplyWith(a, b *matrix.Dense, strategy Strategy, verbose bool) (*matrix.Dense, error) {
	return dispatch.Multiply(a, b, strategy, verbose)
}

// MultiplyPolicy is MultiplyWith under caller-supplied thresholds.
func MultiplyPolicy(a, b *matrix.Dense, strategy Strategy, verbose bool, pol Policy) (*matrix.Dense, error) {
	return dispatch.MultiplyPolicy(a, b, strategy, verbose, pol)
}

// ParseStrategy resolves a strategy name, canonical ("native-blas") or
// legacy alias ("accelerate"), to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	return dispatch.ParseStrategy(name)
}

// DefaultPolicy returns the built-in auto-selection thresholds.
func DefaultPolicy() Policy {
	return dispatch.DefaultPolicy()
}

// LoadPolicy reads auto-selection thresholds from a YAML file.
func LoadPolicy(path string) (Policy, error) {
	return dispatch.LoadPolicy(path)
}

// GetCapabilities returns the process-wide capability snapshot, probing the
// hardware on first call.
func GetCapabilities() Capabilities {
	return hwcaps.Get()
}

// IsGPUAvailable reports whether a usable GPU device exists. The first call
// drives the GPU state machine to Ready or Unavailable; the outcome is
// cached for the process lifetime.
func IsGPUAvailable() bool {
	return gpu.Available()
}
