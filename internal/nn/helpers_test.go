package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/stretchr/testify/require"
)

var errNoExample = errors.New("no such example")

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func newNet[T linalg.Float](t *testing.T, inputSize int, widths []int, act activation.Func[T], alloc linalg.Allocator[T]) *Network[T] {
	t.Helper()
	net, err := New(Config[T]{
		InputSize:  inputSize,
		Widths:     widths,
		Activation: act,
		Rand:       seeded(7),
		Allocator:  alloc,
	})
	require.NoError(t, err)
	t.Cleanup(net.Release)
	return net
}

// table serves rows[index] as an example; indexes listed in fail report an
// error instead.
func table[T linalg.Float](rows [][]T, fail ...int) Generator[T] {
	bad := make(map[int]bool, len(fail))
	for _, i := range fail {
		bad[i] = true
	}
	return func(index int, dst *linalg.Vector[T]) error {
		if bad[index] {
			return fmt.Errorf("example %d: %w", index, errNoExample)
		}
		if index < 0 || index >= len(rows) {
			return errNoExample
		}
		if len(rows[index]) != dst.Len() {
			return fmt.Errorf("row %d has %d values, want %d", index, len(rows[index]), dst.Len())
		}
		copy(dst.Data(), rows[index])
		return nil
	}
}

// repeat returns n copies of row.
func repeat[T linalg.Float](row []T, n int) [][]T {
	out := make([][]T, n)
	for i := range out {
		out[i] = row
	}
	return out
}

// setParams overwrites layer i's weights (row-major) and biases.
func setParams[T linalg.Float](net *Network[T], i int, weights, biases []T) {
	l := net.Layer(i)
	copy(l.Weights.Data(), weights)
	copy(l.Biases.Data(), biases)
}

// snapshot copies every parameter of net, layer by layer.
func snapshot[T linalg.Float](net *Network[T]) [][]T {
	var out [][]T
	for i := 0; i < net.NumLayers(); i++ {
		l := net.Layer(i)
		out = append(out, append([]T(nil), l.Weights.Data()...), append([]T(nil), l.Biases.Data()...))
	}
	return out
}

// flatten concatenates every gradient entry, weights before biases.
func flatten[T linalg.Float](g Gradients[T]) []float64 {
	var out []float64
	for i := range g {
		for _, v := range g[i].Weights.Data() {
			out = append(out, float64(v))
		}
		for _, v := range g[i].Biases.Data() {
			out = append(out, float64(v))
		}
	}
	return out
}

func newGrads[T linalg.Float](t *testing.T, net *Network[T]) Gradients[T] {
	t.Helper()
	g, err := NewGradients(net)
	require.NoError(t, err)
	t.Cleanup(g.Release)
	return g
}

// zeroSource always yields 0, so every uniform draw is exactly 0.
type zeroSource struct{}

func (zeroSource) Uint64() uint64 { return 0 }

func zeroRand() *rand.Rand { return rand.New(zeroSource{}) }

// params flattens every parameter of net in the same order as flatten.
func params[T linalg.Float](net *Network[T]) []float64 {
	var out []float64
	for i := 0; i < net.NumLayers(); i++ {
		l := net.Layer(i)
		for _, v := range l.Weights.Data() {
			out = append(out, float64(v))
		}
		for _, v := range l.Biases.Data() {
			out = append(out, float64(v))
		}
	}
	return out
}

// loadParams is the inverse of params.
func loadParams[T linalg.Float](net *Network[T], x []float64) {
	k := 0
	for i := 0; i < net.NumLayers(); i++ {
		l := net.Layer(i)
		for _, buf := range [][]T{l.Weights.Data(), l.Biases.Data()} {
			for j := range buf {
				buf[j] = T(x[k])
				k++
			}
		}
	}
}
