package nn

import (
	"testing"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handNet is a 2 -> 2 -> 1 LeakyReLU network with fixed parameters.
func handNet(t *testing.T) *Network[float64] {
	net := newNet[float64](t, 2, []int{2, 1}, nil, nil)
	setParams(net, 0, []float64{1, -1, 0.5, 0.5}, []float64{0, 0.1})
	setParams(net, 1, []float64{2, -1}, []float64{0.5})
	return net
}

func TestFeedKnownValues(t *testing.T) {
	net := handNet(t)
	tests := []struct {
		input []float64
		want  float64
	}{
		// z0 = [1, 1.6], a0 = z0, z1 = 2 - 1.6 + 0.5
		{[]float64{2, 1}, 0.9},
		// z0 = [-2, 0.1], a0 = [-0.02, 0.1], z1 = -0.04 - 0.1 + 0.5
		{[]float64{-1, 1}, 0.36},
		// z0 = [0, -2.9], a0 = [0, -0.029], z1 = 0.029 + 0.5
		{[]float64{-3, -3}, 0.529},
	}
	for _, tt := range tests {
		in := linalg.VectorOf(tt.input)
		var out linalg.Vector[float64]
		require.NoError(t, net.Feed(&in, &out))
		require.Equal(t, 1, out.Len())
		assert.InDelta(t, tt.want, out.At(0), 1e-12, "input %v", tt.input)
		out.Release()
	}
}

func TestFeedDeterministic(t *testing.T) {
	net := newNet[float32](t, 3, []int{8, 8, 2}, nil, nil)
	in := linalg.VectorOf([]float32{0.3, -1.2, 2})

	var a, b linalg.Vector[float32]
	defer a.Release()
	defer b.Release()
	require.NoError(t, net.Feed(&in, &a))
	require.NoError(t, net.Feed(&in, &b))
	assert.Equal(t, a.Data(), b.Data())
}

func TestFeedDestination(t *testing.T) {
	net := newNet[float64](t, 2, []int{3, 2}, nil, nil)
	in := linalg.VectorOf([]float64{1, 2})

	// A roomy caller buffer is resized in place and stays a view.
	buf := make([]float64, 5)
	dst := linalg.VectorOf(buf)
	require.NoError(t, net.Feed(&in, &dst))
	assert.Equal(t, 2, dst.Len())
	assert.False(t, dst.Owned())
	assert.Same(t, &buf[0], &dst.Data()[0])

	// A too-small destination is reallocated.
	small := linalg.VectorOf(make([]float64, 1))
	require.NoError(t, net.Feed(&in, &small))
	assert.Equal(t, 2, small.Len())
	assert.True(t, small.Owned())
	small.Release()
}

func TestFeedErrors(t *testing.T) {
	net := handNet(t)
	var out linalg.Vector[float64]

	wrong := linalg.VectorOf([]float64{1, 2, 3})
	assert.ErrorIs(t, net.Feed(&wrong, &out), ErrShapeMismatch)
	assert.ErrorIs(t, net.Feed(nil, &out), ErrInvalidArgument)

	in := linalg.VectorOf([]float64{1, 2})
	assert.ErrorIs(t, net.Feed(&in, nil), ErrInvalidArgument)
}

func TestFeedReleasesScratch(t *testing.T) {
	budget := linalg.NewBudget[float64](nil, 0)
	net := newNet[float64](t, 2, []int{4, 1}, nil, budget)
	baseline := budget.Outstanding()

	in := linalg.VectorOf([]float64{1, 2})
	out := linalg.VectorOf(make([]float64, 1))
	require.NoError(t, net.Feed(&in, &out))
	assert.Equal(t, baseline, budget.Outstanding())

	for k := 0; k < 2; k++ {
		budget.FailAfter(k)
		assert.ErrorIs(t, net.Feed(&in, &out), ErrAllocation)
		assert.Equal(t, baseline, budget.Outstanding())
	}
	budget.FailAfter(-1)
}

func TestCalculateMatchesFeed(t *testing.T) {
	net := handNet(t)
	tr, err := NewTrace(net)
	require.NoError(t, err)
	defer tr.Release()

	copy(tr.Input().Data(), []float64{-1, 1})
	require.NoError(t, net.Calculate(tr))

	assert.Equal(t, 3, tr.Len())
	assert.InDeltaSlice(t, []float64{-2, 0.1}, tr.State(1).Z.Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{-0.02, 0.1}, tr.State(1).A.Data(), 1e-12)
	assert.InDelta(t, 0.36, tr.State(2).Z.At(0), 1e-12)
	assert.InDelta(t, 0.36, tr.Output().At(0), 1e-12)

	in := linalg.VectorOf([]float64{-1, 1})
	var out linalg.Vector[float64]
	defer out.Release()
	require.NoError(t, net.Feed(&in, &out))
	assert.Equal(t, out.Data(), tr.Output().Data())
}

func TestCalculateRejectsForeignTrace(t *testing.T) {
	net := handNet(t)
	other := newNet[float64](t, 2, []int{3, 1}, nil, nil)
	tr, err := NewTrace(other)
	require.NoError(t, err)
	defer tr.Release()

	assert.ErrorIs(t, net.Calculate(tr), ErrShapeMismatch)
	assert.ErrorIs(t, net.Calculate(nil), ErrInvalidArgument)
}

func TestNewTraceAllocationFailure(t *testing.T) {
	budget := linalg.NewBudget[float32](nil, 0)
	net := newNet[float32](t, 2, []int{4, 2, 1}, nil, budget)
	baseline := budget.Outstanding()

	// Input record plus four buffers per layer.
	for k := 0; k < 1+4*3; k++ {
		budget.FailAfter(k)
		tr, err := NewTrace(net)
		assert.Nil(t, tr)
		require.ErrorIs(t, err, ErrAllocation)
		assert.Equal(t, baseline, budget.Outstanding(), "failure after %d allocations", k)
	}
	budget.FailAfter(-1)

	tr, err := NewTrace(net)
	require.NoError(t, err)
	tr.Release()
	assert.Equal(t, baseline, budget.Outstanding())
}
