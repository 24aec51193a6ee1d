package nn

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/born-ml/ffnn/internal/serialization"
)

// Save writes net to path. metadata is stored verbatim in the header and may
// be nil.
//
// Example:
//
//	if err := nn.Save("model.ffnn", net, map[string]string{"seed": "42"}); err != nil {
//	    return err
//	}
func Save[T linalg.Float](path string, net *Network[T], metadata map[string]string) error {
	if err := serialization.WriteFile(path, networkHeader(net, metadata), layerTensors(net.params())); err != nil {
		return fmt.Errorf("nn.Save: %w", err)
	}
	return nil
}

// WriteNetwork writes net to w in the same format as Save.
func WriteNetwork[T linalg.Float](w io.Writer, net *Network[T], metadata map[string]string) error {
	if err := serialization.Write(w, networkHeader(net, metadata), layerTensors(net.params())); err != nil {
		return fmt.Errorf("nn.WriteNetwork: %w", err)
	}
	return nil
}

// Load reads a network saved by Save. Parameters stored at a different
// float width are converted to T. alloc may be nil for linalg.Heap.
func Load[T linalg.Float](path string, alloc linalg.Allocator[T]) (*Network[T], error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nn.Load: %w", err)
	}
	defer func() { _ = f.Close() }()

	net, err := ReadNetwork(f, alloc)
	if err != nil {
		return nil, fmt.Errorf("nn.Load: %w", err)
	}
	return net, nil
}

// ReadNetwork reads a network written by WriteNetwork or Save.
func ReadNetwork[T linalg.Float](r io.Reader, alloc linalg.Allocator[T]) (*Network[T], error) {
	file, err := serialization.Read(r, serialization.ReaderOptions{})
	if err != nil {
		return nil, err
	}
	h := file.Header()
	if h.ModelType != serialization.ModelTypeNetwork {
		return nil, fmt.Errorf("%w: model type %q, want %q",
			ErrInvalidArgument, h.ModelType, serialization.ModelTypeNetwork)
	}
	act, err := activation.ByName[T](h.Activation)
	if err != nil {
		return nil, err
	}
	net, err := build(h.InputSize, h.Widths, act, alloc)
	if err != nil {
		return nil, err
	}
	if err := readLayerTensors(file, net.params()); err != nil {
		net.Release()
		return nil, err
	}
	return net, nil
}

// SaveGradients writes a gradient snapshot to path. The topology is taken
// from the gradient shapes.
func SaveGradients[T linalg.Float](path string, grads Gradients[T], metadata map[string]string) error {
	if len(grads) == 0 {
		return invalidArg("nn.SaveGradients", "no gradient entries")
	}
	header := serialization.Header{
		ModelType: serialization.ModelTypeGradients,
		InputSize: grads[0].Weights.Cols(),
		Widths:    grads.widths(),
		Metadata:  metadata,
	}
	if err := serialization.WriteFile(path, header, layerTensors(grads.params())); err != nil {
		return fmt.Errorf("nn.SaveGradients: %w", err)
	}
	return nil
}

// LoadGradients reads a snapshot written by SaveGradients into freshly
// allocated buffers shaped like net. A snapshot of another topology is
// rejected with ErrShapeMismatch.
func LoadGradients[T linalg.Float](path string, net *Network[T]) (Gradients[T], error) {
	file, err := serialization.Open(path, serialization.ReaderOptions{})
	if err != nil {
		return nil, fmt.Errorf("nn.LoadGradients: %w", err)
	}
	h := file.Header()
	if h.ModelType != serialization.ModelTypeGradients {
		return nil, fmt.Errorf("nn.LoadGradients: %w: model type %q, want %q",
			ErrInvalidArgument, h.ModelType, serialization.ModelTypeGradients)
	}
	if h.InputSize != net.inputSize || !slices.Equal(h.Widths, net.Widths()) {
		return nil, shapeMismatch("nn.LoadGradients", "snapshot is %d->%v, network is %d->%v",
			h.InputSize, h.Widths, net.inputSize, net.Widths())
	}

	grads, err := NewGradients(net)
	if err != nil {
		return nil, fmt.Errorf("nn.LoadGradients: %w", err)
	}
	if err := readLayerTensors(file, grads.params()); err != nil {
		grads.Release()
		return nil, fmt.Errorf("nn.LoadGradients: %w", err)
	}
	return grads, nil
}

func networkHeader[T linalg.Float](net *Network[T], metadata map[string]string) serialization.Header {
	return serialization.Header{
		ModelType:  serialization.ModelTypeNetwork,
		Activation: net.act.Name(),
		InputSize:  net.inputSize,
		Widths:     net.Widths(),
		Metadata:   metadata,
	}
}

// layerParams pairs one layer's weight matrix with its bias vector.
type layerParams[T linalg.Float] struct {
	weights *linalg.Matrix[T]
	biases  *linalg.Vector[T]
}

func (n *Network[T]) params() []layerParams[T] {
	out := make([]layerParams[T], len(n.layers))
	for i := range n.layers {
		out[i] = layerParams[T]{&n.layers[i].Weights, &n.layers[i].Biases}
	}
	return out
}

func (g Gradients[T]) params() []layerParams[T] {
	out := make([]layerParams[T], len(g))
	for i := range g {
		out[i] = layerParams[T]{&g[i].Weights, &g[i].Biases}
	}
	return out
}

func (g Gradients[T]) widths() []int {
	w := make([]int, len(g))
	for i := range g {
		w[i] = g[i].Biases.Len()
	}
	return w
}

func weightName(i int) string { return fmt.Sprintf("layer.%d.weight", i) }
func biasName(i int) string   { return fmt.Sprintf("layer.%d.bias", i) }

func layerTensors[T linalg.Float](params []layerParams[T]) []serialization.Tensor {
	dtype := serialization.DTypeOf[T]()
	tensors := make([]serialization.Tensor, 0, 2*len(params))
	for i, p := range params {
		tensors = append(tensors,
			serialization.Tensor{
				Name:  weightName(i),
				DType: dtype,
				Shape: []int{p.weights.Rows(), p.weights.Cols()},
				Data:  serialization.EncodeFloats(p.weights.Data()),
			},
			serialization.Tensor{
				Name:  biasName(i),
				DType: dtype,
				Shape: []int{p.biases.Len()},
				Data:  serialization.EncodeFloats(p.biases.Data()),
			})
	}
	return tensors
}

func readLayerTensors[T linalg.Float](file *serialization.Reader, params []layerParams[T]) error {
	if got, want := len(file.Header().Tensors), 2*len(params); got != want {
		return shapeMismatch("nn.Load", "%d tensors, want %d", got, want)
	}
	for i, p := range params {
		if err := readTensor(file, weightName(i), []int{p.weights.Rows(), p.weights.Cols()}, p.weights.Data()); err != nil {
			return err
		}
		if err := readTensor(file, biasName(i), []int{p.biases.Len()}, p.biases.Data()); err != nil {
			return err
		}
	}
	return nil
}

func readTensor[T linalg.Float](file *serialization.Reader, name string, shape []int, dst []T) error {
	meta, err := file.TensorInfo(name)
	if err != nil {
		return err
	}
	if !slices.Equal(meta.Shape, shape) {
		return shapeMismatch("nn.Load", "tensor %s has shape %v, want %v", name, meta.Shape, shape)
	}
	raw, err := file.TensorData(name)
	if err != nil {
		return err
	}
	return serialization.DecodeFloats(meta.DType, raw, dst)
}
