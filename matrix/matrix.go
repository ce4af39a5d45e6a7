// Copyright 2026 The gemm-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix exposes the dense 2-D float64 matrix type consumed and
// produced by the multiplication kernels.
//
// Storage order (row-major vs column-major) is tracked explicitly on every
// matrix and normalized at each kernel boundary. Each kernel allocates a
// fresh output buffer it exclusively owns until it is returned; no matrix
// ever aliases another matrix's storage across kernel calls.
//
// Example:
//
//	a, _ := matrix.NewDense(3, 4, []float64{...})
//	b := matrix.Randn(4, 5, 42)
//	c, err := gemm.Multiply(a, b)
package matrix

import (
	"github.com/gemm-go/gemm/internal/matrix"
)

// Dense is a dense 2-D float64 matrix with an explicit storage order.
type Dense = matrix.Dense

// Order describes how a matrix lays out its elements in memory.
type Order = matrix.Order

// Supported storage orders.
const (
	RowMajor = matrix.RowMajor
	ColMajor = matrix.ColMajor
)

// DimensionError reports that cols(A) != rows(B).
type DimensionError = matrix.DimensionError

// AllocationError reports a failed host or device buffer allocation.
type AllocationError = matrix.AllocationError

// NewDense creates a rows x cols matrix. When data is nil a zeroed buffer
// is allocated; otherwise data is adopted as the row-major backing store.
func NewDense(rows, cols int, data []float64) (*Dense, error) {
	return matrix.NewDense(rows, cols, data)
}

// NewDenseOrder is NewDense with an explicit storage order for data.
func NewDenseOrder(rows, cols int, data []float64, order Order) (*Dense, error) {
	return matrix.NewDenseOrder(rows, cols, data, order)
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Dense {
	return matrix.Identity(n)
}

// Randn returns a rows x cols matrix of normally distributed entries drawn
// from a deterministic source seeded with seed.
func Randn(rows, cols int, seed int64) *Dense {
	return matrix.Randn(rows, cols, seed)
}
