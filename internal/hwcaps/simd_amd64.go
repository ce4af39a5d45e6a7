//go:build amd64

package hwcaps

import "golang.org/x/sys/cpu"

func simdTier() int {
	switch {
	case cpu.X86.HasAVX512F:
		return TierAVX512
	case cpu.X86.HasAVX2:
		return TierAVX2
	case cpu.X86.HasAVX:
		return TierAVX
	case cpu.X86.HasSSE2:
		return TierSSE2
	default:
		return TierNone
	}
}
