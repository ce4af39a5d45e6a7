//go:build !amd64 && !arm64

package hwcaps

func simdTier() int {
	return TierNone
}
