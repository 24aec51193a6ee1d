package nn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/linalg"
)

// LayerState is the training-time record of one layer: its post-activation
// A, pre-activation Z and the gradient accumulators shaped like the layer's
// weights and biases. The input pseudo-record only uses A.
type LayerState[T linalg.Float] struct {
	A          linalg.Vector[T]
	Z          linalg.Vector[T]
	WeightGrad linalg.Matrix[T]
	BiasGrad   linalg.Vector[T]
}

// Trace holds one LayerState per layer plus the input record at index 0.
// It is what a cached forward pass writes and back-propagation reads.
type Trace[T linalg.Float] struct {
	states []LayerState[T]
}

// NewTrace allocates a trace for net with zeroed gradient accumulators.
// Allocation is staged: on failure everything allocated so far is released.
func NewTrace[T linalg.Float](net *Network[T]) (*Trace[T], error) {
	a := net.alloc
	tr := &Trace[T]{states: make([]LayerState[T], len(net.layers)+1)}
	ok := false
	defer func() {
		if !ok {
			tr.Release()
		}
	}()

	if err := tr.states[0].A.Alloc(a, net.inputSize); err != nil {
		return nil, fmt.Errorf("trace input: %w", err)
	}
	for i := range net.layers {
		l := &net.layers[i]
		st := &tr.states[i+1]
		if err := st.A.Alloc(a, l.Neurons()); err != nil {
			return nil, fmt.Errorf("trace layer %d activations: %w", i, err)
		}
		if err := st.Z.Alloc(a, l.Neurons()); err != nil {
			return nil, fmt.Errorf("trace layer %d pre-activations: %w", i, err)
		}
		if err := st.WeightGrad.Alloc(a, l.Weights.Rows(), l.Weights.Cols()); err != nil {
			return nil, fmt.Errorf("trace layer %d weight gradient: %w", i, err)
		}
		if err := st.BiasGrad.Alloc(a, l.Neurons()); err != nil {
			return nil, fmt.Errorf("trace layer %d bias gradient: %w", i, err)
		}
	}
	ok = true
	return tr, nil
}

// Release frees every buffer of the trace. Safe to call more than once.
func (tr *Trace[T]) Release() {
	for i := range tr.states {
		st := &tr.states[i]
		st.A.Release()
		st.Z.Release()
		st.WeightGrad.Release()
		st.BiasGrad.Release()
	}
}

// Input returns the input record's activation vector; generators fill it.
func (tr *Trace[T]) Input() *linalg.Vector[T] { return &tr.states[0].A }

// Output returns the output layer's activation vector.
func (tr *Trace[T]) Output() *linalg.Vector[T] { return &tr.states[len(tr.states)-1].A }

// State returns record i: 0 is the input, i >= 1 is layer i-1.
func (tr *Trace[T]) State(i int) *LayerState[T] { return &tr.states[i] }

// Len returns the number of records, including the input record.
func (tr *Trace[T]) Len() int { return len(tr.states) }

// ZeroGradients clears every gradient accumulator.
func (tr *Trace[T]) ZeroGradients() {
	for i := 1; i < len(tr.states); i++ {
		tr.states[i].WeightGrad.Zero()
		tr.states[i].BiasGrad.Zero()
	}
}

// matches reports whether the trace was built for net's topology.
func (tr *Trace[T]) matches(net *Network[T]) error {
	if len(tr.states) != len(net.layers)+1 {
		return shapeMismatch("Trace", "%d records for %d layers", len(tr.states), len(net.layers))
	}
	if tr.states[0].A.Len() != net.inputSize {
		return shapeMismatch("Trace", "input record %d, network input %d", tr.states[0].A.Len(), net.inputSize)
	}
	for i := range net.layers {
		st := &tr.states[i+1]
		if !st.WeightGrad.SameShape(&net.layers[i].Weights) || st.Z.Cap() < net.layers[i].Neurons() {
			return shapeMismatch("Trace", "record %d does not match layer %d", i+1, i)
		}
	}
	return nil
}

// Calculate runs the cached forward pass: starting from tr.Input(), it stores
// every layer's pre-activation in Z and post-activation in A.
func (n *Network[T]) Calculate(tr *Trace[T]) error {
	if tr == nil {
		return invalidArg("Network.Calculate", "nil trace")
	}
	if err := tr.matches(n); err != nil {
		return err
	}
	for i := range n.layers {
		prev, st := &tr.states[i], &tr.states[i+1]
		if err := n.layers[i].forward(n.act, &prev.A, &st.Z, &st.A); err != nil {
			return fmt.Errorf("Network.Calculate: layer %d: %w", i, err)
		}
	}
	return nil
}
