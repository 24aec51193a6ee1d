// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/nn"
)

// Network is a stack of dense layers: hidden layers followed by one output layer.
type Network[T linalg.Float] = nn.Network[T]

// Config describes the network New builds.
type Config[T linalg.Float] = nn.Config[T]

// Layer holds one dense layer's weights (rows = neurons) and biases.
type Layer[T linalg.Float] = nn.Layer[T]

// Model is anything that maps one input vector to one output vector.
type Model[T linalg.Float] = nn.Model[T]

// New allocates a network and initializes it with He-normal weights and zero biases.
//
// Example:
//
//	net, err := nn.New(nn.Config[float32]{
//	    InputSize:  2,
//	    Widths:     []int{4, 2, 1},
//	    Activation: nn.LeakyReLU[float32]{},
//	    Rand:       rand.New(rand.NewPCG(1, 0)),
//	})
func New[T linalg.Float](cfg Config[T]) (*Network[T], error) {
	return nn.New(cfg)
}

// HeNormal fills data with N(0, 2/fanIn) draws from rng.
func HeNormal[T linalg.Float](rng *rand.Rand, data []T, fanIn int) {
	nn.HeNormal(rng, data, fanIn)
}

// Activations

// Activation is an element-wise activation with its derivative.
type Activation[T linalg.Float] = activation.Func[T]

// ReLU is max(0, z).
type ReLU[T linalg.Float] = activation.ReLU[T]

// LeakyReLU is z for z > 0 and 0.01·z otherwise.
type LeakyReLU[T linalg.Float] = activation.LeakyReLU[T]

// Sigmoid is the logistic function 1/(1+e^-z).
type Sigmoid[T linalg.Float] = activation.Sigmoid[T]

// ActivationByName resolves "relu", "lrelu" or "sigmoid".
func ActivationByName[T linalg.Float](name string) (Activation[T], error) {
	return activation.ByName[T](name)
}

// ActivationNames lists the names ActivationByName accepts.
func ActivationNames() []string {
	return activation.Names()
}

// Forward and backward pass

// Trace caches the pre-activations and activations of one forward pass,
// together with the per-layer gradient accumulators back-propagation adds to.
type Trace[T linalg.Float] = nn.Trace[T]

// LayerState is the cached state of one layer inside a Trace.
type LayerState[T linalg.Float] = nn.LayerState[T]

// NewTrace allocates a trace shaped for net.
func NewTrace[T linalg.Float](net *Network[T]) (*Trace[T], error) {
	return nn.NewTrace(net)
}

// Gradient is the gradient of one layer's weights and biases.
type Gradient[T linalg.Float] = nn.Gradient[T]

// Gradients holds one Gradient per layer, shaped like a network.
type Gradients[T linalg.Float] = nn.Gradients[T]

// NewGradients allocates zeroed gradients shaped like net.
func NewGradients[T linalg.Float](net *Network[T]) (Gradients[T], error) {
	return nn.NewGradients(net)
}

// Training

// Generator fills dst with the example at index.
type Generator[T linalg.Float] = nn.Generator[T]

// Batch is a contiguous range of examples.
type Batch[T linalg.Float] = nn.Batch[T]

// BatchResult summarizes one TrainBatch call.
type BatchResult = nn.BatchResult

// EvalResult summarizes one evaluation pass.
type EvalResult = nn.EvalResult

// TrainerConfig configures a Trainer.
type TrainerConfig = nn.TrainerConfig

// Trainer computes averaged mini-batch gradients for a network.
type Trainer[T linalg.Float] = nn.Trainer[T]

// NewTrainer creates a trainer bound to net.
func NewTrainer[T linalg.Float](net *Network[T], cfg TrainerConfig) *Trainer[T] {
	return nn.NewTrainer(net, cfg)
}

// Evaluate runs model over batch and reports loss and accuracy.
func Evaluate[T linalg.Float](model Model[T], batch Batch[T], logger *slog.Logger) (EvalResult, error) {
	return nn.Evaluate(model, batch, logger)
}

// Persistence

// Save writes net to path atomically.
func Save[T linalg.Float](path string, net *Network[T], metadata map[string]string) error {
	return nn.Save(path, net, metadata)
}

// WriteNetwork encodes net to w.
func WriteNetwork[T linalg.Float](w io.Writer, net *Network[T], metadata map[string]string) error {
	return nn.WriteNetwork(w, net, metadata)
}

// Load reads a network saved with Save. A nil allocator means the heap.
func Load[T linalg.Float](path string, alloc linalg.Allocator[T]) (*Network[T], error) {
	return nn.Load(path, alloc)
}

// ReadNetwork decodes a network from r.
func ReadNetwork[T linalg.Float](r io.Reader, alloc linalg.Allocator[T]) (*Network[T], error) {
	return nn.ReadNetwork(r, alloc)
}

// SaveGradients writes grads to path.
func SaveGradients[T linalg.Float](path string, grads Gradients[T], metadata map[string]string) error {
	return nn.SaveGradients(path, grads, metadata)
}

// LoadGradients reads gradients saved for a network shaped like net.
func LoadGradients[T linalg.Float](path string, net *Network[T]) (Gradients[T], error) {
	return nn.LoadGradients(path, net)
}

// Errors

// ExampleError reports why one example of a batch was skipped.
type ExampleError = nn.ExampleError

// Error sentinels, usable with errors.Is.
var (
	ErrInvalidArgument = nn.ErrInvalidArgument
	ErrShapeMismatch   = nn.ErrShapeMismatch
	ErrAllocation      = nn.ErrAllocation
	ErrGenerator       = nn.ErrGenerator
	ErrInternal        = nn.ErrInternal
)

// Stages reported in ExampleError.Stage.
const (
	StageInput    = nn.StageInput
	StageForward  = nn.StageForward
	StageLabel    = nn.StageLabel
	StageError    = nn.StageError
	StageBackprop = nn.StageBackprop
)
