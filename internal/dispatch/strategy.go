// Package dispatch selects exactly one multiplication kernel per call,
// based on the requested strategy, matrix dimensions, and the capability
// snapshot.
package dispatch

// Strategy names a kernel-selection policy. Auto is resolved to a concrete
// strategy by the dispatcher and never reaches a kernel.
type Strategy int

// Recognized strategies.
const (
	Auto Strategy = iota
	DirectBlocked
	NativeBLAS
	GPUCompute
	BlockDecomposed
)

// String returns the canonical strategy name.
func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case DirectBlocked:
		return "direct-blocked"
	case NativeBLAS:
		return "native-blas"
	case GPUCompute:
		return "gpu-compute"
	case BlockDecomposed:
		return "block-decomposed"
	default:
		return "unknown"
	}
}

// strategyNames maps every accepted name, canonical and legacy alias alike,
// to its strategy. Earlier releases of the library this design comes from
// accumulated layers of backward-compatible wrapper names; they collapse to
// one resolution table here.
var strategyNames = map[string]Strategy{
	"auto":             Auto,
	"direct-blocked":   DirectBlocked,
	"native-blas":      NativeBLAS,
	"gpu-compute":      GPUCompute,
	"block-decomposed": BlockDecomposed,

	// Legacy aliases.
	"tiny":       DirectBlocked,
	"direct":     DirectBlocked,
	"blas":       NativeBLAS,
	"accelerate": NativeBLAS,
	"cpu-fast":   NativeBLAS,
	"gpu":        GPUCompute,
	"metal":      GPUCompute,
	"blocked":    BlockDecomposed,
}

// ParseStrategy resolves a strategy name (canonical or alias) to its
// strategy, or fails with UnknownStrategyError.
func ParseStrategy(name string) (Strategy, error) {
	s, ok := strategyNames[name]
	if !ok {
		return Auto, &UnknownStrategyError{Name: name}
	}
	return s, nil
}
