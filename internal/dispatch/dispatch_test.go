package dispatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemm-go/gemm/internal/gpu"
	"github.com/gemm-go/gemm/internal/matrix"
)

func TestResolveThresholds(t *testing.T) {
	pol := DefaultPolicy()

	tests := []struct {
		name string
		size int
		gpu  bool
		want Strategy
	}{
		{"below tiny threshold", 49, false, DirectBlocked},
		{"at tiny threshold", 50, false, DirectBlocked},
		{"blocked band", 199, false, DirectBlocked},
		{"blas lower bound", 200, false, NativeBLAS},
		{"blas band", 999, false, NativeBLAS},
		{"large with gpu", 1000, true, GPUCompute},
		{"large without gpu", 1000, false, BlockDecomposed},
		{"decompose upper bound", 1999, false, BlockDecomposed},
		{"huge without gpu falls back to blas", 2000, false, NativeBLAS},
		{"huge with gpu", 4096, true, GPUCompute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.size, tt.gpu, pol))
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"auto", Auto},
		{"direct-blocked", DirectBlocked},
		{"native-blas", NativeBLAS},
		{"gpu-compute", GPUCompute},
		{"block-decomposed", BlockDecomposed},
		// Legacy aliases collapse onto the canonical strategies.
		{"tiny", DirectBlocked},
		{"accelerate", NativeBLAS},
		{"cpu-fast", NativeBLAS},
		{"metal", GPUCompute},
		{"blocked", BlockDecomposed},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseStrategy("simd-magic")
	var unknownErr *UnknownStrategyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "simd-magic", unknownErr.Name)
}

func TestMultiplyDimensionMismatchEveryStrategy(t *testing.T) {
	a := matrix.Randn(3, 4, 1)
	b := matrix.Randn(5, 6, 2)

	for _, s := range []Strategy{Auto, DirectBlocked, NativeBLAS, GPUCompute, BlockDecomposed} {
		_, err := Multiply(a, b, s, false)
		var dimErr *matrix.DimensionError
		assert.ErrorAs(t, err, &dimErr, "strategy %s", s)
	}
}

func TestMultiplyCPUStrategiesAgree(t *testing.T) {
	a := matrix.Randn(120, 90, 3)
	b := matrix.Randn(90, 140, 4)

	direct, err := Multiply(a, b, DirectBlocked, false)
	require.NoError(t, err)
	blas, err := Multiply(a, b, NativeBLAS, false)
	require.NoError(t, err)
	decomposed, err := MultiplyPolicy(a, b, BlockDecomposed, false, Policy{
		TinyMax: 50, BlockedMax: 200, BLASMax: 1000, DecomposeMax: 2000, TileEdge: 64,
	})
	require.NoError(t, err)

	assert.True(t, blas.EqualApprox(direct, 1e-10))
	assert.True(t, decomposed.EqualApprox(direct, 1e-10))
}

func TestMultiplyAutoSmall(t *testing.T) {
	a := matrix.Randn(20, 20, 5)
	b := matrix.Randn(20, 20, 6)

	got, err := Multiply(a, b, Auto, true)
	require.NoError(t, err)
	want, err := Multiply(a, b, DirectBlocked, false)
	require.NoError(t, err)

	// Verbose output is observability only; the result is the same
	// bit-identical product the direct kernel produces.
	assert.True(t, got.EqualApprox(want, 0))
}

func TestMultiplyExplicitGPUWithoutDevice(t *testing.T) {
	if gpu.Available() {
		t.Skip("GPU present; unavailable-backend path not reachable")
	}

	a := matrix.Randn(8, 8, 1)
	b := matrix.Randn(8, 8, 2)

	_, err := Multiply(a, b, GPUCompute, false)
	var backendErr *BackendUnavailableError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "gpu-compute", backendErr.Backend)
}

func TestMultiplyAutoNeverSurfacesBackendError(t *testing.T) {
	// size >= BLASMax forces the auto ladder through the GPU probe; on a
	// GPU-less machine it must fall back, never error.
	a := matrix.Randn(1000, 4, 7)
	b := matrix.Randn(4, 8, 8)

	_, err := Multiply(a, b, Auto, false)
	var backendErr *BackendUnavailableError
	assert.False(t, errors.As(err, &backendErr), "auto must not surface BackendUnavailable")
	require.NoError(t, err)
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())

	bad := DefaultPolicy()
	bad.BlockedMax = 40 // below TinyMax, breaks tier ordering
	assert.Error(t, bad.Validate())

	bad = DefaultPolicy()
	bad.TileEdge = 0
	assert.Error(t, bad.Validate())
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiny_max: 32\nblas_max: 768\n"), 0o600))

	pol, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 32, pol.TinyMax)
	assert.Equal(t, 768, pol.BLASMax)
	// Absent fields keep their defaults.
	assert.Equal(t, DefaultPolicy().BlockedMax, pol.BlockedMax)
	assert.Equal(t, DefaultPolicy().TileEdge, pol.TileEdge)

	require.NoError(t, os.WriteFile(path, []byte("tiny_max: 5000\n"), 0o600))
	_, err = LoadPolicy(path)
	assert.Error(t, err, "policy breaking the tier ordering must not load")

	_, err = LoadPolicy(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
