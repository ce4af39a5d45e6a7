//go:build arm64

package hwcaps

import "golang.org/x/sys/cpu"

// NEON is baseline on arm64 and roughly matches the AVX tier for float64
// work; SVE and SVE2 rank above it.
func simdTier() int {
	switch {
	case cpu.ARM64.HasSVE2:
		return TierAVX512
	case cpu.ARM64.HasSVE:
		return TierAVX2
	case cpu.ARM64.HasASIMD:
		return TierAVX
	default:
		return TierNone
	}
}
