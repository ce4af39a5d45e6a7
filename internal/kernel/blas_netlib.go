//go:build netlib && cgo

package kernel

// This file registers the netlib BLAS implementation, which links the
// system BLAS (Accelerate on macOS, OpenBLAS on Linux). Built with
// -tags netlib; without it the pure Go gonum implementation serves.

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/netlib/blas/netlib"
)

func init() {
	blas64.Use(netlib.Implementation{})
	blasAccelerated = true
	log.Debug().Msg("system BLAS registered (netlib)")
}
