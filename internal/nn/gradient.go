package nn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/linalg"
)

// Gradient holds the weight and bias gradient of one layer.
type Gradient[T linalg.Float] struct {
	Weights linalg.Matrix[T]
	Biases  linalg.Vector[T]
}

// Gradients is the caller-owned accumulator array filled by
// Trainer.TrainBatch and consumed by an optimizer: one entry per layer, each
// shaped like that layer.
type Gradients[T linalg.Float] []Gradient[T]

// NewGradients allocates zeroed gradient buffers mirroring net's layers with
// net's allocator. On failure nothing stays allocated.
func NewGradients[T linalg.Float](net *Network[T]) (Gradients[T], error) {
	g := make(Gradients[T], len(net.layers))
	for i := range net.layers {
		l := &net.layers[i]
		if err := g[i].Weights.Alloc(net.alloc, l.Weights.Rows(), l.Weights.Cols()); err != nil {
			g.Release()
			return nil, fmt.Errorf("gradient %d weights: %w", i, err)
		}
		if err := g[i].Biases.Alloc(net.alloc, l.Neurons()); err != nil {
			g.Release()
			return nil, fmt.Errorf("gradient %d biases: %w", i, err)
		}
	}
	return g, nil
}

// Release frees every buffer. Safe to call more than once.
func (g Gradients[T]) Release() {
	for i := range g {
		g[i].Weights.Release()
		g[i].Biases.Release()
	}
}

// Zero clears every buffer.
func (g Gradients[T]) Zero() {
	for i := range g {
		g[i].Weights.Zero()
		g[i].Biases.Zero()
	}
}

// Matches checks that g mirrors net's layers exactly.
func (g Gradients[T]) Matches(net *Network[T]) error {
	if len(g) != len(net.layers) {
		return shapeMismatch("Gradients", "%d entries for %d layers", len(g), len(net.layers))
	}
	for i := range g {
		l := &net.layers[i]
		if !g[i].Weights.SameShape(&l.Weights) || g[i].Biases.Len() != l.Biases.Len() {
			return shapeMismatch("Gradients", "entry %d is %dx%d/%d, layer is %dx%d/%d", i,
				g[i].Weights.Rows(), g[i].Weights.Cols(), g[i].Biases.Len(),
				l.Weights.Rows(), l.Weights.Cols(), l.Biases.Len())
		}
	}
	return nil
}

// SquaredNorm returns the squared L2 norm over every entry.
func (g Gradients[T]) SquaredNorm() float64 {
	var sum float64
	for i := range g {
		for _, v := range g[i].Weights.Data() {
			sum += float64(v) * float64(v)
		}
		sum += float64(g[i].Biases.SquaredNorm())
	}
	return sum
}

// copyFromTrace copies the trace's accumulators into g.
func (g Gradients[T]) copyFromTrace(tr *Trace[T]) error {
	for i := range g {
		st := &tr.states[i+1]
		if err := g[i].Weights.CopyFrom(&st.WeightGrad); err != nil {
			return fmt.Errorf("gradient %d: %w", i, err)
		}
		if err := g[i].Biases.CopyFrom(&st.BiasGrad); err != nil {
			return fmt.Errorf("gradient %d: %w", i, err)
		}
	}
	return nil
}
