// Package dataset generates the synthetic classification sets used to train
// and evaluate networks, and adapts them to nn generators.
package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/nn"
)

// Ring bounds of the circle set: radii strictly between GapLow and GapHigh
// are never sampled, and Boundary splits the two classes.
const (
	GapLow   = 0.25
	GapHigh  = 0.4
	Boundary = 0.3
)

// Set is a labelled set of 2-D points. Row i of X is example i, Y[i] its
// class.
type Set struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Len returns the number of examples.
func (s *Set) Len() int {
	r, _ := s.X.Dims()
	return r
}

// Circle samples n points of the two-ring problem: a point at radius r < 0.3
// is class 0, anything further out class 1. Radii in (0.25, 0.4) are
// rejected and redrawn, leaving a visible gap between the classes.
func Circle(rng *rand.Rand, n int) (*Set, error) {
	if rng == nil {
		return nil, fmt.Errorf("dataset.Circle: %w: nil random source", linalg.ErrInvalidArgument)
	}
	if n <= 0 {
		return nil, fmt.Errorf("dataset.Circle: %w: size %d", linalg.ErrInvalidArgument, n)
	}

	x := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		r := rng.Float64()
		for GapLow < r && r < GapHigh {
			r = rng.Float64()
		}
		theta := rng.Float64() * 2 * math.Pi
		x.Set(i, 0, r*math.Cos(theta))
		x.Set(i, 1, r*math.Sin(theta))
		if r >= Boundary {
			y.SetVec(i, 1)
		}
	}
	return &Set{X: x, Y: y}, nil
}

// Inputs adapts s to an nn.Generator producing example i's coordinates.
func Inputs[T linalg.Float](s *Set) nn.Generator[T] {
	return func(index int, dst *linalg.Vector[T]) error {
		if index < 0 || index >= s.Len() {
			return fmt.Errorf("input %d: out of range [0, %d)", index, s.Len())
		}
		_, cols := s.X.Dims()
		if dst.Len() != cols {
			return fmt.Errorf("input %d: destination length %d, want %d", index, dst.Len(), cols)
		}
		for j := 0; j < cols; j++ {
			dst.Set(j, T(s.X.At(index, j)))
		}
		return nil
	}
}

// Labels adapts s to an nn.Generator producing example i's class as a
// single-element vector.
func Labels[T linalg.Float](s *Set) nn.Generator[T] {
	return func(index int, dst *linalg.Vector[T]) error {
		if index < 0 || index >= s.Len() {
			return fmt.Errorf("label %d: out of range [0, %d)", index, s.Len())
		}
		if dst.Len() != 1 {
			return fmt.Errorf("label %d: destination length %d, want 1", index, dst.Len())
		}
		dst.Set(0, T(s.Y.AtVec(index)))
		return nil
	}
}

// Batch returns the nn.Batch covering all of s.
func Batch[T linalg.Float](s *Set) nn.Batch[T] {
	return nn.Batch[T]{
		Inputs: Inputs[T](s),
		Labels: Labels[T](s),
		Size:   s.Len(),
	}
}

// ClassCounts returns the number of class 0 and class 1 examples.
func (s *Set) ClassCounts() (zeros, ones int) {
	ones = int(mat.Sum(s.Y))
	return s.Len() - ones, ones
}
