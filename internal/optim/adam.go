package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/nn"
)

// Adam implements the Adam optimizer (Adaptive Moment Estimation).
//
// Update rule:
//
//	m = beta1 * m + (1 - beta1) * g
//	v = beta2 * v + (1 - beta2) * g²
//	m̂ = m / (1 - beta1^t)
//	v̂ = v / (1 - beta2^t)
//	param = param - lr * m̂ / (√v̂ + eps)
//
// Moment buffers are allocated with the network's allocator on the first
// step. Stepping a network of another topology starts fresh moments.
type Adam[T linalg.Float] struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int             // Timestep for bias correction
	m     nn.Gradients[T] // First moment estimates
	v     nn.Gradients[T] // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
func NewAdam[T linalg.Float](config AdamConfig) *Adam[T] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam[T]{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
	}
}

// Step performs a single optimization step in place.
func (a *Adam[T]) Step(net *nn.Network[T], grads nn.Gradients[T]) error {
	if err := checkStep("Adam.Step", net, grads); err != nil {
		return err
	}
	if a.m == nil || a.m.Matches(net) != nil {
		a.t = 0
	}
	if err := ensureState(&a.m, net); err != nil {
		return fmt.Errorf("Adam.Step: first moment: %w", err)
	}
	if err := ensureState(&a.v, net); err != nil {
		return fmt.Errorf("Adam.Step: second moment: %w", err)
	}

	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i := range grads {
		l := net.Layer(i)
		a.update(l.Weights.Data(), a.m[i].Weights.Data(), a.v[i].Weights.Data(), grads[i].Weights.Data(), c1, c2)
		a.update(l.Biases.Data(), a.m[i].Biases.Data(), a.v[i].Biases.Data(), grads[i].Biases.Data(), c1, c2)
	}
	return nil
}

func (a *Adam[T]) update(param, m, v, grad []T, c1, c2 float64) {
	for i := range param {
		g := float64(grad[i])
		mi := a.beta1*float64(m[i]) + (1-a.beta1)*g
		vi := a.beta2*float64(v[i]) + (1-a.beta2)*g*g
		m[i], v[i] = T(mi), T(vi)
		param[i] -= T(a.lr * (mi / c1) / (math.Sqrt(vi/c2) + a.eps))
	}
}

// GetLR returns the current learning rate.
func (a *Adam[T]) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam[T]) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken with the current moments.
func (a *Adam[T]) GetTimestep() int {
	return a.t
}

// Release frees the moment buffers and resets the timestep.
func (a *Adam[T]) Release() {
	a.m.Release()
	a.v.Release()
	a.m, a.v = nil, nil
	a.t = 0
}
