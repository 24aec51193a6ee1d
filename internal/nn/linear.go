package nn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/linalg"
)

// Layer is a fully connected layer.
//
// Computes: a = f(W·x + b)
// where:
//   - W has shape [neurons, inputs] (row n holds the weights into neuron n)
//   - b has length neurons
//   - f is the network-wide activation
type Layer[T linalg.Float] struct {
	Weights linalg.Matrix[T]
	Biases  linalg.Vector[T]
}

// alloc obtains zeroed storage for a layer mapping inputs to neurons. On
// failure nothing stays allocated.
func (l *Layer[T]) alloc(a linalg.Allocator[T], inputs, neurons int) error {
	if err := l.Weights.Alloc(a, neurons, inputs); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := l.Biases.Alloc(a, neurons); err != nil {
		l.Weights.Release()
		return fmt.Errorf("biases: %w", err)
	}
	return nil
}

// release frees the layer's storage.
func (l *Layer[T]) release() {
	l.Weights.Release()
	l.Biases.Release()
}

// Neurons returns the layer width.
func (l *Layer[T]) Neurons() int {
	return l.Biases.Len()
}

// Inputs returns the width of the layer feeding this one.
func (l *Layer[T]) Inputs() int {
	return l.Weights.Cols()
}

// forward computes z = W·in + b into z and a = f(z) into a. a may be z.
func (l *Layer[T]) forward(f activation.Func[T], in, z, a *linalg.Vector[T]) error {
	if err := linalg.MulMatVec(z, &l.Weights, in); err != nil {
		return err
	}
	if err := linalg.AddVec(z, z, &l.Biases); err != nil {
		return err
	}
	return activation.ApplyVec(f, a, z)
}
