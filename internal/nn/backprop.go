package nn

import (
	"github.com/born-ml/ffnn/internal/linalg"
)

// Backpropagate runs the reverse pass over a trace filled by Calculate.
//
// dCda is the loss gradient with respect to the output activations. Walking
// from the output layer to the first hidden layer, for every neuron n:
//
//	delta        = f'(z[n]) * dCda[n]
//	biasGrad[n] += delta
//	weightGrad[n,j] += delta * prev.a[j]
//	next[j]     += W[n,j] * delta
//
// after which next becomes dCda for the previous layer. Gradients are added to
// the trace's accumulators, never overwritten, so a batch can sum many
// examples before averaging.
//
// dCda and scratch are the two rotating error buffers: both need capacity for
// the widest layer, they must not share storage, and their contents are
// clobbered. Nothing else is modified.
func (n *Network[T]) Backpropagate(tr *Trace[T], dCda, scratch *linalg.Vector[T]) error {
	if tr == nil || dCda == nil || scratch == nil {
		return invalidArg("Network.Backpropagate", "nil argument")
	}
	if dCda.Overlaps(scratch) {
		return invalidArg("Network.Backpropagate", "dCda and scratch share storage")
	}
	if err := tr.matches(n); err != nil {
		return err
	}
	if dCda.Len() != n.OutputSize() {
		return shapeMismatch("Network.Backpropagate", "dCda length %d, output width %d", dCda.Len(), n.OutputSize())
	}
	if width := n.widest(); dCda.Cap() < width || scratch.Cap() < width {
		return shapeMismatch("Network.Backpropagate", "error buffers hold %d/%d, need %d", dCda.Cap(), scratch.Cap(), width)
	}

	f := n.act
	for l := len(n.layers) - 1; l >= 0; l-- {
		layer := &n.layers[l]
		st := &tr.states[l+1]
		prev := tr.states[l].A.Data()
		propagate := l > 0
		if propagate {
			_ = scratch.Resize(len(prev))
			scratch.Zero()
		}

		cols := layer.Weights.Cols()
		w := layer.Weights.Data()
		wg := st.WeightGrad.Data()
		bg := st.BiasGrad.Data()
		z := st.Z.Data()
		e := dCda.Data()
		next := scratch.Data()

		for neuron := range bg {
			delta := f.Derivative(z[neuron]) * e[neuron]
			bg[neuron] += delta
			row := neuron * cols
			for j := 0; j < cols; j++ {
				wg[row+j] += delta * prev[j]
				if propagate {
					next[j] += w[row+j] * delta
				}
			}
		}

		if propagate {
			// Rotate buffers: the accumulated error becomes the incoming signal.
			*dCda, *scratch = *scratch, *dCda
		}
	}
	return nil
}
