// Package activation provides the elementwise activation functions a network
// applies to every hidden and output unit, each paired with its derivative.
package activation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/chewxy/math32"
)

// LeakySlope is the LeakyReLU gradient for negative inputs.
const LeakySlope = 0.01

// Func is an activation strategy: a function together with its derivative,
// both evaluated at the pre-activation value z.
type Func[T linalg.Float] interface {
	// Name identifies the activation in configuration and saved models.
	Name() string
	// Apply returns f(z).
	Apply(z T) T
	// Derivative returns f'(z).
	Derivative(z T) T
}

// ReLU is the rectified linear unit: f(z) = max(0, z).
type ReLU[T linalg.Float] struct{}

// Name implements Func.
func (ReLU[T]) Name() string { return "relu" }

// Apply implements Func.
func (ReLU[T]) Apply(z T) T {
	if z > 0 {
		return z
	}
	return 0
}

// Derivative implements Func.
func (ReLU[T]) Derivative(z T) T {
	if z > 0 {
		return 1
	}
	return 0
}

// LeakyReLU passes positive inputs through and scales negative ones by
// LeakySlope.
type LeakyReLU[T linalg.Float] struct{}

// Name implements Func.
func (LeakyReLU[T]) Name() string { return "lrelu" }

// Apply implements Func.
func (LeakyReLU[T]) Apply(z T) T {
	if z > 0 {
		return z
	}
	return LeakySlope * z
}

// Derivative implements Func.
func (LeakyReLU[T]) Derivative(z T) T {
	if z > 0 {
		return 1
	}
	return LeakySlope
}

// Sigmoid is the logistic function 1 / (1 + e^-z).
type Sigmoid[T linalg.Float] struct{}

// Name implements Func.
func (Sigmoid[T]) Name() string { return "sigmoid" }

// Apply implements Func.
func (Sigmoid[T]) Apply(z T) T {
	return sigmoid(z)
}

// Derivative implements Func: f'(z) = f(z)(1 - f(z)).
func (Sigmoid[T]) Derivative(z T) T {
	s := sigmoid(z)
	return s * (1 - s)
}

func sigmoid[T linalg.Float](z T) T {
	if x, ok := any(z).(float32); ok {
		return T(1 / (1 + math32.Exp(-x)))
	}
	return T(1 / (1 + math.Exp(-float64(z))))
}

// ByName returns the activation registered under name (case-insensitive).
func ByName[T linalg.Float](name string) (Func[T], error) {
	switch strings.ToLower(name) {
	case "relu":
		return ReLU[T]{}, nil
	case "lrelu", "leakyrelu", "leaky_relu":
		return LeakyReLU[T]{}, nil
	case "sigmoid":
		return Sigmoid[T]{}, nil
	default:
		return nil, fmt.Errorf("unknown activation %q (known: %s)", name, strings.Join(Names(), ", "))
	}
}

// Names lists the canonical activation names.
func Names() []string {
	names := []string{"relu", "lrelu", "sigmoid"}
	sort.Strings(names)
	return names
}

// Default is the activation networks use when none is configured.
func Default[T linalg.Float]() Func[T] {
	return LeakyReLU[T]{}
}

// ApplyVec stores f(src[i]) in dst[i]. dst may be src; it is resized to
// src's length within its capacity.
func ApplyVec[T linalg.Float](f Func[T], dst, src *linalg.Vector[T]) error {
	if dst != src {
		if err := dst.Resize(src.Len()); err != nil {
			return fmt.Errorf("apply %s: %w", f.Name(), err)
		}
	}
	out, in := dst.Data(), src.Data()
	for i, z := range in {
		out[i] = f.Apply(z)
	}
	return nil
}
