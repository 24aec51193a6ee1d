package nn

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/born-ml/ffnn/internal/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleBatch(input, label []float64, size int, fail ...int) Batch[float64] {
	return Batch[float64]{
		Inputs: table(repeat(input, size), fail...),
		Labels: table(repeat(label, size)),
		Size:   size,
	}
}

func TestTrainBatchAveragesIdenticalExamples(t *testing.T) {
	net := newNet[float64](t, 2, []int{4, 2, 1}, nil, nil)
	trainer := NewTrainer(net, TrainerConfig{})
	input, label := []float64{0.4, -0.7}, []float64{1}

	one := newGrads(t, net)
	resOne, err := trainer.TrainBatch(singleBatch(input, label, 1), one)
	require.NoError(t, err)

	many := newGrads(t, net)
	resMany, err := trainer.TrainBatch(singleBatch(input, label, 8), many)
	require.NoError(t, err)

	assert.Equal(t, 8, resMany.Examples)
	assert.InDeltaSlice(t, flatten(one), flatten(many), 1e-12)
	assert.InDelta(t, resOne.Loss, resMany.Loss, 1e-12)
	assert.Greater(t, one.SquaredNorm(), 0.0)
}

func TestTrainBatchOverwritesGradients(t *testing.T) {
	net := newNet[float64](t, 2, []int{3, 1}, nil, nil)
	trainer := NewTrainer(net, TrainerConfig{})
	batch := singleBatch([]float64{1, 2}, []float64{0}, 3)

	grads := newGrads(t, net)
	_, err := trainer.TrainBatch(batch, grads)
	require.NoError(t, err)
	first := flatten(grads)

	_, err = trainer.TrainBatch(batch, grads)
	require.NoError(t, err)
	assert.Equal(t, first, flatten(grads))
}

func TestTrainBatchSkipsFailedExamples(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	net := newNet[float64](t, 2, []int{4, 1}, nil, nil)
	trainer := NewTrainer(net, TrainerConfig{Logger: logger})
	input, label := []float64{0.3, 0.9}, []float64{0}

	full := newGrads(t, net)
	resFull, err := trainer.TrainBatch(singleBatch(input, label, 4), full)
	require.NoError(t, err)

	grads := newGrads(t, net)
	res, err := trainer.TrainBatch(singleBatch(input, label, 4, 2), grads)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Examples)
	require.Len(t, res.Failures, 1)
	fail := res.Failures[0]
	assert.Equal(t, 2, fail.Index)
	assert.Equal(t, StageInput, fail.Stage)
	assert.ErrorIs(t, fail, ErrGenerator)
	assert.ErrorIs(t, fail, errNoExample)

	// The divisor stays the batch size, so gradients and loss shrink by the
	// skipped fraction instead of being renormalized over three examples.
	want := flatten(full)
	for i := range want {
		want[i] *= 3.0 / 4.0
	}
	assert.InDeltaSlice(t, want, flatten(grads), 1e-12)
	assert.InDelta(t, resFull.Loss*3/4, res.Loss, 1e-12)

	assert.Contains(t, logs.String(), "skipping example")
	assert.Contains(t, logs.String(), "index=2")
	assert.Contains(t, logs.String(), "stage=input")
}

func TestTrainBatchLabelFailure(t *testing.T) {
	net := newNet[float64](t, 2, []int{1}, nil, nil)
	batch := Batch[float64]{
		Inputs: table(repeat([]float64{1, 1}, 3)),
		Labels: table([][]float64{{1}, {0, 0}, {1}}),
		Size:   3,
	}
	res, err := NewTrainer(net, TrainerConfig{}).TrainBatch(batch, newGrads(t, net))
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 1, res.Failures[0].Index)
	assert.Equal(t, StageLabel, res.Failures[0].Stage)
	assert.Equal(t, 2, res.Examples)
}

func TestTrainBatchAllFailures(t *testing.T) {
	net := newNet[float64](t, 2, []int{2, 1}, nil, nil)
	grads := newGrads(t, net)
	res, err := NewTrainer(net, TrainerConfig{}).TrainBatch(singleBatch([]float64{1, 1}, []float64{1}, 2, 0, 1), grads)
	require.NoError(t, err)
	assert.Zero(t, res.Examples)
	assert.Len(t, res.Failures, 2)
	assert.Zero(t, res.Loss)
	assert.Zero(t, grads.SquaredNorm())
}

func TestTrainBatchStartOffset(t *testing.T) {
	net := newNet[float64](t, 1, []int{2, 1}, nil, nil)
	rows := [][]float64{{-5}, {-5}, {0.5}, {0.5}}
	labels := repeat([]float64{1}, 4)
	trainer := NewTrainer(net, TrainerConfig{})

	tail := newGrads(t, net)
	_, err := trainer.TrainBatch(Batch[float64]{Inputs: table(rows), Labels: table(labels), Start: 2, Size: 2}, tail)
	require.NoError(t, err)

	ref := newGrads(t, net)
	_, err = trainer.TrainBatch(singleBatch([]float64{0.5}, []float64{1}, 2), ref)
	require.NoError(t, err)
	assert.Equal(t, flatten(ref), flatten(tail))
}

func TestTrainBatchLeavesNetworkAlone(t *testing.T) {
	net := newNet[float32](t, 2, []int{4, 2, 1}, nil, nil)
	before := snapshot(net)

	grads := newGrads(t, net)
	batch := Batch[float32]{
		Inputs: table([][]float32{{1, 0}, {0, 1}, {1, 1}}),
		Labels: table([][]float32{{1}, {0}, {1}}),
		Size:   3,
	}
	_, err := NewTrainer(net, TrainerConfig{}).TrainBatch(batch, grads)
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(net))
}

func TestTrainBatchInvalidArguments(t *testing.T) {
	net := newNet[float64](t, 2, []int{2, 1}, nil, nil)
	trainer := NewTrainer(net, TrainerConfig{})
	grads := newGrads(t, net)
	gen := table([][]float64{{1, 2}})

	tests := []struct {
		name  string
		batch Batch[float64]
	}{
		{"nil inputs", Batch[float64]{Labels: gen, Size: 1}},
		{"nil labels", Batch[float64]{Inputs: gen, Size: 1}},
		{"zero size", Batch[float64]{Inputs: gen, Labels: gen}},
		{"negative start", Batch[float64]{Inputs: gen, Labels: gen, Start: -1, Size: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trainer.TrainBatch(tt.batch, grads)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	other := newNet[float64](t, 2, []int{3, 1}, nil, nil)
	_, err := trainer.TrainBatch(singleBatch([]float64{1, 2}, []float64{1}, 1), newGrads(t, other))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = trainer.TrainBatch(singleBatch([]float64{1, 2}, []float64{1}, 1), grads[:1])
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTrainBatchAllocationFailure(t *testing.T) {
	budget := linalg.NewBudget[float64](nil, 0)
	net := newNet[float64](t, 2, []int{4, 2, 1}, nil, budget)
	grads := newGrads(t, net)
	for i := range grads {
		for j := range grads[i].Biases.Data() {
			grads[i].Biases.Set(j, 42)
		}
	}
	before := flatten(grads)
	baseline := budget.Outstanding()
	trainer := NewTrainer(net, TrainerConfig{})
	batch := singleBatch([]float64{0.1, 0.2}, []float64{1}, 5)

	// Trace: input record plus four buffers per layer; then label, error and
	// scratch buffers.
	perCall := 1 + 4*net.NumLayers() + 3
	for k := 0; k < perCall; k++ {
		budget.FailAfter(k)
		_, err := trainer.TrainBatch(batch, grads)
		require.ErrorIs(t, err, ErrAllocation, "failure after %d allocations", k)
		assert.Equal(t, baseline, budget.Outstanding(), "failure after %d allocations", k)
		assert.Equal(t, before, flatten(grads), "gradients touched after %d allocations", k)
	}

	budget.FailAfter(-1)
	allocs := budget.Allocs()
	res, err := trainer.TrainBatch(batch, grads)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Examples)
	assert.Equal(t, perCall, budget.Allocs()-allocs)
	assert.Equal(t, baseline, budget.Outstanding())
}
