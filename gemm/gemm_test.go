// Copyright 2026 The gemm-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gemm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemm-go/gemm/gemm"
	"github.com/gemm-go/gemm/matrix"
)

func TestMultiplyIdentityPerTier(t *testing.T) {
	sizes := []int{10, 300}
	if !testing.Short() {
		sizes = append(sizes, 1500)
	}

	for _, n := range sizes {
		a := matrix.Randn(n, n, int64(n))
		got, err := gemm.Multiply(a, matrix.Identity(n))
		require.NoError(t, err, "size %d", n)

		tol := 1e-10
		if gemm.IsGPUAvailable() && n >= 1000 {
			// The auto ladder routes sizes >= 1000 to the f32 GPU kernel.
			tol = 1e-3
		}
		assert.True(t, got.EqualApprox(a, tol), "A @ I differs from A at size %d", n)
	}
}

func TestMultiplyStrategiesAgree(t *testing.T) {
	a := matrix.Randn(150, 120, 1)
	b := matrix.Randn(120, 180, 2)

	reference, err := gemm.MultiplyWith(a, b, gemm.DirectBlocked, false)
	require.NoError(t, err)

	blas, err := gemm.MultiplyWith(a, b, gemm.NativeBLAS, false)
	require.NoError(t, err)
	assert.True(t, blas.EqualApprox(reference, 1e-10), "native-blas disagrees with direct")

	pol := gemm.DefaultPolicy()
	pol.TileEdge = 64
	decomposed, err := gemm.MultiplyPolicy(a, b, gemm.BlockDecomposed, false, pol)
	require.NoError(t, err)
	assert.True(t, decomposed.EqualApprox(reference, 1e-10), "block-decomposed disagrees with direct")

	if gemm.IsGPUAvailable() {
		gpu, err := gemm.MultiplyWith(a, b, gemm.GPUCompute, false)
		require.NoError(t, err)
		assert.True(t, gpu.EqualApprox(reference, 1e-3), "gpu-compute disagrees with direct")
	}
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	a := matrix.Randn(3, 4, 1)
	b := matrix.Randn(5, 6, 2)

	for _, s := range []gemm.Strategy{gemm.Auto, gemm.DirectBlocked, gemm.NativeBLAS, gemm.GPUCompute, gemm.BlockDecomposed} {
		_, err := gemm.MultiplyWith(a, b, s, false)
		var dimErr *gemm.DimensionError
		assert.ErrorAs(t, err, &dimErr, "strategy %s", s)
	}
}

func TestExplicitGPURequestWithoutGPU(t *testing.T) {
	if gemm.IsGPUAvailable() {
		t.Skip("GPU present")
	}

	a := matrix.Randn(16, 16, 1)
	b := matrix.Randn(16, 16, 2)

	// An explicit GPU request never silently substitutes a CPU kernel.
	_, err := gemm.MultiplyWith(a, b, gemm.GPUCompute, false)
	var backendErr *gemm.BackendUnavailableError
	require.ErrorAs(t, err, &backendErr)
}

func TestMultiplyIdempotent(t *testing.T) {
	a := matrix.Randn(128, 128, 3)
	b := matrix.Randn(128, 128, 4)

	for _, s := range []gemm.Strategy{gemm.DirectBlocked, gemm.NativeBLAS} {
		first, err := gemm.MultiplyWith(a, b, s, false)
		require.NoError(t, err)
		second, err := gemm.MultiplyWith(a, b, s, false)
		require.NoError(t, err)
		assert.True(t, first.EqualApprox(second, 0), "strategy %s is not bit-identical across calls", s)
	}
}

func TestGetCapabilities(t *testing.T) {
	caps := gemm.GetCapabilities()
	assert.Greater(t, caps.CPUThreads, 0)
	assert.Equal(t, caps.GPUAvailable, gemm.IsGPUAvailable())
}

func TestParseStrategyAliases(t *testing.T) {
	for name, want := range map[string]gemm.Strategy{
		"auto":       gemm.Auto,
		"tiny":       gemm.DirectBlocked,
		"accelerate": gemm.NativeBLAS,
		"gpu":        gemm.GPUCompute,
		"blocked":    gemm.BlockDecomposed,
	} {
		got, err := gemm.ParseStrategy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := gemm.ParseStrategy("quantum")
	var unknownErr *gemm.UnknownStrategyError
	assert.ErrorAs(t, err, &unknownErr)
}
