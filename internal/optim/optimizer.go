// Package optim implements the optimizers that apply batch-averaged
// gradients to a network's parameters.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - LinearDecay: a step-based learning rate schedule
//
// Example usage:
//
//	sgd := optim.NewSGD[float32](optim.SGDConfig{LR: 0.01})
//	defer sgd.Release()
//
//	for step := 0; ; step++ {
//	    if _, err := trainer.TrainBatch(batch, grads); err != nil {
//	        return err
//	    }
//	    if err := sgd.Step(net, grads); err != nil {
//	        return err
//	    }
//	    sgd.SetLR(decay.Next(sgd.GetLR(), step))
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Step is the only operation that mutates a network's parameters. The
// gradients must be shaped like the network (as filled by
// nn.Trainer.TrainBatch); they are read, never modified.
type Optimizer[T linalg.Float] interface {
	// Step applies one update to every layer of net.
	Step(net *nn.Network[T], grads nn.Gradients[T]) error

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate, e.g. from a schedule.
	SetLR(lr float64)

	// Release frees any optimizer state buffers.
	Release()
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// checkStep validates the arguments shared by every Step implementation.
func checkStep[T linalg.Float](op string, net *nn.Network[T], grads nn.Gradients[T]) error {
	if net == nil {
		return &linalg.OpError{Op: op, Err: linalg.ErrInvalidArgument, Detail: "nil network"}
	}
	if err := grads.Matches(net); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ensureState allocates zeroed state buffers shaped like net, or reuses
// state that already matches.
func ensureState[T linalg.Float](state *nn.Gradients[T], net *nn.Network[T]) error {
	if *state != nil && state.Matches(net) == nil {
		return nil
	}
	state.Release()
	*state = nil
	fresh, err := nn.NewGradients(net)
	if err != nil {
		return err
	}
	*state = fresh
	return nil
}
