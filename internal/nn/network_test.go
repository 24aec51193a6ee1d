package nn

import (
	"math"
	"testing"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestNewTopology(t *testing.T) {
	net := newNet[float32](t, 2, []int{4, 2, 1}, nil, nil)

	assert.Equal(t, 2, net.InputSize())
	assert.Equal(t, 1, net.OutputSize())
	assert.Equal(t, 3, net.NumLayers())
	assert.Equal(t, 2, net.NumHidden())
	assert.Len(t, net.Hidden(), 2)
	assert.Equal(t, []int{4, 2, 1}, net.Widths())
	assert.Equal(t, "lrelu", net.Activation().Name())

	// Layer i maps the previous width to its own.
	assert.Equal(t, 4, net.Layer(0).Weights.Rows())
	assert.Equal(t, 2, net.Layer(0).Weights.Cols())
	assert.Equal(t, 2, net.Layer(1).Weights.Rows())
	assert.Equal(t, 4, net.Layer(1).Weights.Cols())
	assert.Equal(t, 1, net.Output().Neurons())
	assert.Equal(t, 2, net.Output().Inputs())

	assert.Equal(t, 4*2+4+2*4+2+1*2+1, net.NumParameters())
	assert.Equal(t, "Network(2 -> [4 2 1], lrelu)", net.String())
}

func TestNewWithoutHiddenLayers(t *testing.T) {
	net := newNet[float64](t, 3, []int{2}, activation.Sigmoid[float64]{}, nil)
	assert.Equal(t, 0, net.NumHidden())
	assert.Empty(t, net.Hidden())
	assert.Equal(t, 3, net.Output().Inputs())
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config[float32]
	}{
		{"nil rand", Config[float32]{InputSize: 2, Widths: []int{1}}},
		{"zero input", Config[float32]{InputSize: 0, Widths: []int{1}, Rand: seeded(1)}},
		{"no widths", Config[float32]{InputSize: 2, Rand: seeded(1)}},
		{"zero width", Config[float32]{InputSize: 2, Widths: []int{3, 0, 1}, Rand: seeded(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := New(tt.cfg)
			assert.Nil(t, net)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestNewAllocationFailureLeaksNothing(t *testing.T) {
	// Two buffers per layer, three layers.
	for k := 0; k < 6; k++ {
		budget := linalg.NewBudget[float64](nil, 0)
		budget.FailAfter(k)
		net, err := New(Config[float64]{InputSize: 2, Widths: []int{4, 2, 1}, Rand: seeded(1), Allocator: budget})
		require.ErrorIs(t, err, ErrAllocation, "failure after %d allocations", k)
		assert.Nil(t, net)
		assert.Zero(t, budget.Outstanding(), "failure after %d allocations", k)
		assert.Zero(t, budget.Live())
	}
}

func TestReleaseReturnsEverything(t *testing.T) {
	budget := linalg.NewBudget[float32](nil, 0)
	net, err := New(Config[float32]{InputSize: 2, Widths: []int{4, 2, 1}, Rand: seeded(1), Allocator: budget})
	require.NoError(t, err)
	assert.Equal(t, 6, budget.Outstanding())
	assert.Equal(t, net.NumParameters(), budget.Live())

	net.Release()
	net.Release()
	assert.Zero(t, budget.Outstanding())
	assert.Zero(t, budget.Live())
}

func TestHeInitialization(t *testing.T) {
	const fanIn = 50
	net := newNet[float64](t, fanIn, []int{400, 1}, nil, nil)

	w := net.Layer(0).Weights.Data()
	mean, std := stat.MeanStdDev(w, nil)
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, math.Sqrt(2.0/fanIn), std, 0.01)

	for i := 0; i < net.NumLayers(); i++ {
		for _, v := range net.Layer(i).Weights.Data() {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
		for _, b := range net.Layer(i).Biases.Data() {
			assert.Zero(t, b)
		}
	}
}

func TestHeInitializationIsSeeded(t *testing.T) {
	a := newNet[float32](t, 3, []int{5, 2}, nil, nil)
	b := newNet[float32](t, 3, []int{5, 2}, nil, nil)
	assert.Equal(t, snapshot(a), snapshot(b))

	c, err := New(Config[float32]{InputSize: 3, Widths: []int{5, 2}, Rand: seeded(99)})
	require.NoError(t, err)
	defer c.Release()
	assert.NotEqual(t, snapshot(a), snapshot(c))
}

func TestBoxMullerDegenerateDraw(t *testing.T) {
	// A source whose first uniform draw is exactly 0 makes log(0) = -Inf.
	data := make([]float64, 4)
	HeNormal(zeroRand(), data, 2)
	for _, v := range data {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}
