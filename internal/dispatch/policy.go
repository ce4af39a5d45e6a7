package dispatch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gemm-go/gemm/internal/kernel"
)

// Policy holds the size thresholds of the auto-selection ladder. The values
// are policy constants, not derived; they can be overridden from a YAML
// file, but the tier ordering (tiny < blocked < blas < decompose) must hold.
type Policy struct {
	// TinyMax is the largest dimension multiplied with the plain triple
	// loop; above it the direct kernel blocks for cache.
	TinyMax int `yaml:"tiny_max"`
	// BlockedMax is the exclusive upper bound of the direct kernel's band.
	BlockedMax int `yaml:"blocked_max"`
	// BLASMax is the exclusive upper bound of the BLAS band; at and above
	// it the GPU kernel is preferred when present.
	BLASMax int `yaml:"blas_max"`
	// DecomposeMax is the exclusive upper bound of the block-decomposed
	// band on GPU-less systems; at and above it BLAS is the safe fallback.
	DecomposeMax int `yaml:"decompose_max"`
	// TileEdge is the square tile edge used by the block-decomposed kernel.
	TileEdge int `yaml:"tile_edge"`
}

// DefaultPolicy returns the built-in thresholds.
func DefaultPolicy() Policy {
	return Policy{
		TinyMax:      50,
		BlockedMax:   200,
		BLASMax:      1000,
		DecomposeMax: 2000,
		TileEdge:     kernel.DefaultTileEdge,
	}
}

// Validate checks the tier ordering.
func (p Policy) Validate() error {
	if p.TinyMax <= 0 || p.TinyMax >= p.BlockedMax || p.BlockedMax >= p.BLASMax || p.BLASMax >= p.DecomposeMax {
		return fmt.Errorf("dispatch: policy thresholds must satisfy 0 < tiny_max < blocked_max < blas_max < decompose_max, got %d/%d/%d/%d",
			p.TinyMax, p.BlockedMax, p.BLASMax, p.DecomposeMax)
	}
	if p.TileEdge <= 0 {
		return fmt.Errorf("dispatch: tile_edge must be positive, got %d", p.TileEdge)
	}
	return nil
}

// LoadPolicy reads a Policy from a YAML file. Fields absent from the file
// keep their defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("dispatch: read policy: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("dispatch: parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
