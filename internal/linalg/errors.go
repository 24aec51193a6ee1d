package linalg

import (
	"errors"
	"fmt"
)

// Error kinds reported by containers and kernels.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrAllocation      = errors.New("allocation failed")
)

// OpError records the operation that failed and why.
type OpError struct {
	Op     string // Operation name (e.g. "MulMatVec")
	Err    error  // One of the error kinds above
	Detail string // Operand shapes or the offending argument
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
}

// Unwrap returns the error kind so errors.Is works on OpError.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op string, kind error, format string, args ...any) error {
	return &OpError{Op: op, Err: kind, Detail: fmt.Sprintf(format, args...)}
}
