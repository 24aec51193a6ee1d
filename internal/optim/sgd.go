package optim

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/nn"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	W = W - lr * G
//	b = b - lr * g
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Velocity buffers are allocated with the network's allocator on the first
// step that needs them; Release frees them.
type SGD[T linalg.Float] struct {
	lr         float64
	momentum   float64
	velocities nn.Gradients[T]
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	sgd := optim.NewSGD[float32](optim.SGDConfig{LR: 0.01})
func NewSGD[T linalg.Float](config SGDConfig) *SGD[T] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD[T]{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step performs a single optimization step in place.
func (s *SGD[T]) Step(net *nn.Network[T], grads nn.Gradients[T]) error {
	if err := checkStep("SGD.Step", net, grads); err != nil {
		return err
	}

	if s.momentum == 0 {
		lr := T(-s.lr)
		for i := range grads {
			l := net.Layer(i)
			if err := linalg.AddScaledMat(&l.Weights, lr, &grads[i].Weights); err != nil {
				return fmt.Errorf("SGD.Step: layer %d: %w", i, err)
			}
			if err := linalg.AddScaledVec(&l.Biases, lr, &grads[i].Biases); err != nil {
				return fmt.Errorf("SGD.Step: layer %d: %w", i, err)
			}
		}
		return nil
	}

	if err := ensureState(&s.velocities, net); err != nil {
		return fmt.Errorf("SGD.Step: velocity: %w", err)
	}
	for i := range grads {
		s.updateWithMomentum(net.Layer(i), &s.velocities[i], &grads[i])
	}
	return nil
}

// updateWithMomentum updates one layer; shapes were checked by Step.
func (s *SGD[T]) updateWithMomentum(l *nn.Layer[T], v, g *nn.Gradient[T]) {
	momentum, lr := T(s.momentum), T(s.lr)
	update := func(param, velocity, grad []T) {
		for i := range param {
			velocity[i] = momentum*velocity[i] + grad[i]
			param[i] -= lr * velocity[i]
		}
	}
	update(l.Weights.Data(), v.Weights.Data(), g.Weights.Data())
	update(l.Biases.Data(), v.Biases.Data(), g.Biases.Data())
}

// GetLR returns the current learning rate.
func (s *SGD[T]) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD[T]) SetLR(lr float64) {
	s.lr = lr
}

// Release frees the velocity buffers. The optimizer stays usable; the next
// momentum step starts from zero velocity.
func (s *SGD[T]) Release() {
	s.velocities.Release()
	s.velocities = nil
}
