package gpu

import (
	"testing"

	"github.com/gemm-go/gemm/internal/matrix"
)

// gpuTol is the absolute tolerance for the GPU kernel against the float64
// reference: the kernel accumulates in float32, so the downcast alone costs
// ~1e-7 relative per element and the K-sweep compounds it.
const gpuTol = 1e-3

func referenceMul(a, b *matrix.Dense) *matrix.Dense {
	m, k, n := a.Rows(), a.Cols(), b.Cols()
	c, _ := matrix.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for p := 0; p < k; p++ {
				sum += a.At(i, p) * b.At(p, j)
			}
			c.Set(i, j, sum)
		}
	}
	return c
}

func TestStateSettles(t *testing.T) {
	available := Available()
	state := CurrentState()

	// Probing must leave the machine in a terminal state, and repeated
	// checks observe the cached outcome.
	if available && state != Ready {
		t.Errorf("Available() = true but state = %v", state)
	}
	if !available && state != Unavailable {
		t.Errorf("Available() = false but state = %v", state)
	}
	if Available() != available {
		t.Error("repeated Available() calls disagree")
	}
}

func TestMultiplyMatchesReference(t *testing.T) {
	if !Available() {
		t.Skip("WebGPU not available")
	}
	dev, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	tests := []struct {
		name    string
		m, k, n int
	}{
		{"small", 8, 8, 8},
		{"workgroup edge", 16, 16, 16},
		{"uneven grid", 33, 47, 19},
		{"medium", 128, 96, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := matrix.Randn(tt.m, tt.k, 1)
			b := matrix.Randn(tt.k, tt.n, 2)

			got, err := dev.Multiply(a, b)
			if err != nil {
				t.Fatalf("Multiply failed: %v", err)
			}
			if !got.EqualApprox(referenceMul(a, b), gpuTol) {
				t.Error("GPU result differs from reference beyond tolerance")
			}
		})
	}
}

func TestMultiplyDeterministicOnDevice(t *testing.T) {
	if !Available() {
		t.Skip("WebGPU not available")
	}
	dev, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	a := matrix.Randn(64, 64, 9)
	b := matrix.Randn(64, 64, 10)

	first, err := dev.Multiply(a, b)
	if err != nil {
		t.Fatalf("Multiply failed: %v", err)
	}
	second, err := dev.Multiply(a, b)
	if err != nil {
		t.Fatalf("Multiply failed: %v", err)
	}
	if !first.EqualApprox(second, 0) {
		t.Error("repeated GPU multiplies on a fixed device are not bit-identical")
	}
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	if !Available() {
		t.Skip("WebGPU not available")
	}
	dev, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	a := matrix.Randn(3, 4, 1)
	b := matrix.Randn(5, 6, 2)
	if _, err := dev.Multiply(a, b); err == nil {
		t.Fatal("Multiply(3x4, 5x6) should fail")
	}
}
