package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/linalg"
)

// Config describes the network New builds.
type Config[T linalg.Float] struct {
	InputSize int // Width of the input vector

	// Widths lists one neuron count per hidden layer followed by the output
	// layer width. The hidden-layer count is len(Widths)-1.
	Widths []int

	Activation activation.Func[T]  // Default: activation.LeakyReLU
	Rand       *rand.Rand          // Required: drives weight initialization
	Allocator  linalg.Allocator[T] // Default: linalg.Heap
}

// Network is a stack of dense layers: zero or more hidden layers followed by
// exactly one output layer.
//
// The network's parameters are mutated only by an optimizer step; inference,
// the cached forward pass, back-propagation and batch training read them.
type Network[T linalg.Float] struct {
	inputSize int
	layers    []Layer[T] // Hidden layers in order, output layer last
	act       activation.Func[T]
	alloc     linalg.Allocator[T]
}

// New allocates a network and initializes it: weights are drawn with He
// initialization from cfg.Rand, biases start at zero.
//
// Example:
//
//	net, err := nn.New(nn.Config[float32]{
//	    InputSize: 2,
//	    Widths:    []int{4, 2, 1}, // two hidden layers, one output
//	    Rand:      rand.New(rand.NewPCG(seed, 0)),
//	})
//	if err != nil {
//	    return err
//	}
//	defer net.Release()
func New[T linalg.Float](cfg Config[T]) (*Network[T], error) {
	if cfg.Rand == nil {
		return nil, invalidArg("nn.New", "nil random source")
	}
	net, err := build(cfg.InputSize, cfg.Widths, cfg.Activation, cfg.Allocator)
	if err != nil {
		return nil, err
	}
	net.initHe(cfg.Rand)
	return net, nil
}

// build validates the topology and allocates zeroed layers.
func build[T linalg.Float](inputSize int, widths []int, act activation.Func[T], alloc linalg.Allocator[T]) (*Network[T], error) {
	if inputSize <= 0 {
		return nil, invalidArg("nn.New", "input size %d", inputSize)
	}
	if len(widths) == 0 {
		return nil, invalidArg("nn.New", "no layer widths")
	}
	for i, w := range widths {
		if w <= 0 {
			return nil, invalidArg("nn.New", "layer %d width %d", i, w)
		}
	}
	if act == nil {
		act = activation.Default[T]()
	}
	if alloc == nil {
		alloc = linalg.Heap[T]{}
	}

	net := &Network[T]{
		inputSize: inputSize,
		layers:    make([]Layer[T], len(widths)),
		act:       act,
		alloc:     alloc,
	}
	prev := inputSize
	for i, w := range widths {
		if err := net.layers[i].alloc(alloc, prev, w); err != nil {
			net.Release()
			return nil, fmt.Errorf("nn.New: layer %d: %w", i, err)
		}
		prev = w
	}
	return net, nil
}

// Release frees every layer. The network must not be used afterwards.
// Calling Release more than once is harmless.
func (n *Network[T]) Release() {
	for i := range n.layers {
		n.layers[i].release()
	}
}

// InputSize returns the input width.
func (n *Network[T]) InputSize() int { return n.inputSize }

// OutputSize returns the output layer width.
func (n *Network[T]) OutputSize() int { return n.Output().Neurons() }

// NumLayers returns the number of layers including the output layer.
func (n *Network[T]) NumLayers() int { return len(n.layers) }

// NumHidden returns the number of hidden layers.
func (n *Network[T]) NumHidden() int { return len(n.layers) - 1 }

// Layer returns layer i; the output layer is Layer(NumLayers()-1).
func (n *Network[T]) Layer(i int) *Layer[T] { return &n.layers[i] }

// Hidden returns the hidden layers in order.
func (n *Network[T]) Hidden() []Layer[T] { return n.layers[:len(n.layers)-1] }

// Output returns the output layer.
func (n *Network[T]) Output() *Layer[T] { return &n.layers[len(n.layers)-1] }

// Activation returns the network-wide activation.
func (n *Network[T]) Activation() activation.Func[T] { return n.act }

// Allocator returns the allocator the network and its temporaries use.
func (n *Network[T]) Allocator() linalg.Allocator[T] { return n.alloc }

// Widths returns the layer widths in Config.Widths form.
func (n *Network[T]) Widths() []int {
	widths := make([]int, len(n.layers))
	for i := range n.layers {
		widths[i] = n.layers[i].Neurons()
	}
	return widths
}

// widest returns the largest of the input width and every layer width.
func (n *Network[T]) widest() int {
	m := n.inputSize
	for i := range n.layers {
		m = max(m, n.layers[i].Neurons())
	}
	return m
}

// NumParameters returns the total count of weights and biases.
func (n *Network[T]) NumParameters() int {
	total := 0
	for i := range n.layers {
		total += n.layers[i].Weights.Len() + n.layers[i].Biases.Len()
	}
	return total
}

// String implements fmt.Stringer.
func (n *Network[T]) String() string {
	return fmt.Sprintf("Network(%d -> %v, %s)", n.inputSize, n.Widths(), n.act.Name())
}
