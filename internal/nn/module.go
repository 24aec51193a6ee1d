// Package nn implements a fully connected feed-forward network engine.
//
// This package provides:
//   - Layer / Network: dense parameter layout with He initialization
//   - Feed: single-example inference
//   - Trace, Calculate, Backpropagate: cached forward pass and reverse pass
//   - Trainer: mini-batch gradient averaging and held-out evaluation
//   - Save / Load: binary persistence of networks and gradients
//
// Every hidden and output unit uses the one activation selected when the
// network is built. The engine is single-threaded: a Network must not be used
// from several goroutines at once.
package nn

import "github.com/born-ml/ffnn/internal/linalg"

// Model is anything that maps one input vector to one output vector.
//
// Network implements Model; evaluation only relies on this interface.
type Model[T linalg.Float] interface {
	// Feed computes the output for input into dst, (re)allocating dst when it
	// cannot hold OutputSize elements.
	Feed(input, dst *linalg.Vector[T]) error

	// InputSize returns the expected input length.
	InputSize() int

	// OutputSize returns the output length.
	OutputSize() int
}
