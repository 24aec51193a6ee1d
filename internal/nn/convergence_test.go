package nn_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ffnn/internal/dataset"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/born-ml/ffnn/internal/optim"
)

func TestCircleConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping training run in short mode")
	}

	rng := rand.New(rand.NewPCG(11, 0))
	trainSet, err := dataset.Circle(rng, 300)
	require.NoError(t, err)
	testSet, err := dataset.Circle(rng, 200)
	require.NoError(t, err)

	net, err := nn.New(nn.Config[float64]{InputSize: 2, Widths: []int{16, 8, 1}, Rand: rng})
	require.NoError(t, err)
	defer net.Release()
	grads, err := nn.NewGradients(net)
	require.NoError(t, err)
	defer grads.Release()

	trainer := nn.NewTrainer(net, nn.TrainerConfig{})
	adam := optim.NewAdam[float64](optim.AdamConfig{LR: 0.01})
	defer adam.Release()

	testBatch := dataset.Batch[float64](testSet)
	before, err := trainer.Evaluate(testBatch)
	require.NoError(t, err)

	trainBatch := dataset.Batch[float64](trainSet)
	for i := 0; i < 2000; i++ {
		res, err := trainer.TrainBatch(trainBatch, grads)
		require.NoError(t, err)
		require.Equal(t, 300, res.Examples)
		require.NoError(t, adam.Step(net, grads))
	}

	after, err := trainer.Evaluate(testBatch)
	require.NoError(t, err)
	assert.Less(t, after.Loss, before.Loss/2)
	assert.GreaterOrEqual(t, after.Accuracy, 0.9)
}

// TestCircleTrainingLossSGD runs the default 4-2-1 LeakyReLU setup with plain
// SGD and checks that the training loss goes down.
func TestCircleTrainingLossSGD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping training run in short mode")
	}

	for _, seed := range []uint64{1, 2, 3} {
		rng := rand.New(rand.NewPCG(seed, 0))
		trainSet, err := dataset.Circle(rng, 300)
		require.NoError(t, err)

		net, err := nn.New(nn.Config[float32]{InputSize: 2, Widths: []int{4, 2, 1}, Rand: rng})
		require.NoError(t, err)
		grads, err := nn.NewGradients(net)
		require.NoError(t, err)

		trainer := nn.NewTrainer(net, nn.TrainerConfig{})
		sgd := optim.NewSGD[float32](optim.SGDConfig{LR: 0.01})
		batch := dataset.Batch[float32](trainSet)

		var first, last float64
		for i := 0; i < 5000; i++ {
			res, err := trainer.TrainBatch(batch, grads)
			require.NoError(t, err)
			if i == 0 {
				first = res.Loss
			}
			last = res.Loss
			require.NoError(t, sgd.Step(net, grads))
		}
		assert.Less(t, last, 0.8*first, "seed %d: loss %.4f -> %.4f", seed, first, last)

		grads.Release()
		net.Release()
	}
}
