package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/ffnn/internal/linalg"
)

// Error kinds specific to training. Container failures surface as
// linalg.ErrInvalidArgument, linalg.ErrShapeMismatch and linalg.ErrAllocation.
var (
	ErrGenerator = errors.New("generator failed")
	ErrInternal  = errors.New("internal computation failed")
)

// Re-exported container error kinds, so callers of this package can match
// every kind without importing linalg.
var (
	ErrInvalidArgument = linalg.ErrInvalidArgument
	ErrShapeMismatch   = linalg.ErrShapeMismatch
	ErrAllocation      = linalg.ErrAllocation
)

// Stages at which a single example can fail.
const (
	StageInput    = "input"
	StageForward  = "forward"
	StageLabel    = "label"
	StageError    = "error"
	StageBackprop = "backprop"
)

// ExampleError reports one skipped example of a batch.
type ExampleError struct {
	Index int    // Example index passed to the generators
	Stage string // One of the Stage constants
	Err   error  // Wraps ErrGenerator or ErrInternal
}

// Error implements the error interface.
func (e *ExampleError) Error() string {
	return fmt.Sprintf("example %d: %s: %v", e.Index, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExampleError) Unwrap() error {
	return e.Err
}

func generatorFailure(index int, stage string, err error) *ExampleError {
	return &ExampleError{Index: index, Stage: stage, Err: fmt.Errorf("%w: %w", ErrGenerator, err)}
}

func internalFailure(index int, stage string, err error) *ExampleError {
	return &ExampleError{Index: index, Stage: stage, Err: fmt.Errorf("%w: %w", ErrInternal, err)}
}

func invalidArg(op, format string, args ...any) error {
	return &linalg.OpError{Op: op, Err: linalg.ErrInvalidArgument, Detail: fmt.Sprintf(format, args...)}
}

func shapeMismatch(op, format string, args ...any) error {
	return &linalg.OpError{Op: op, Err: linalg.ErrShapeMismatch, Detail: fmt.Sprintf(format, args...)}
}
