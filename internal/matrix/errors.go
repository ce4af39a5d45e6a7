package matrix

import "fmt"

// DimensionError reports that cols(A) != rows(B). It carries both operand
// shapes so callers can identify the offending dimensions.
type DimensionError struct {
	ARows, ACols int
	BRows, BCols int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("matrix: dimension mismatch [%d,%d] @ [%d,%d]: cols(A)=%d must equal rows(B)=%d",
		e.ARows, e.ACols, e.BRows, e.BCols, e.ACols, e.BRows)
}

// AllocationError reports that a host or device buffer allocation failed.
// It poisons only the call that hit it, never process-wide state.
type AllocationError struct {
	What string
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("matrix: allocation failed for %s: %v", e.What, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// CheckMul validates that a and b are multiplication-compatible.
func CheckMul(a, b *Dense) error {
	if a == nil || b == nil {
		return fmt.Errorf("matrix: nil operand")
	}
	if a.Cols() != b.Rows() {
		return &DimensionError{ARows: a.Rows(), ACols: a.Cols(), BRows: b.Rows(), BCols: b.Cols()}
	}
	return nil
}
