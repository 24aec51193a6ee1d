// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ffnn/linalg"
	"github.com/born-ml/ffnn/nn"
	"github.com/born-ml/ffnn/optim"
)

// xorBatch serves the four XOR points; index i picks point i%4.
func xorBatch() nn.Batch[float64] {
	points := [4][3]float64{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}}
	return nn.Batch[float64]{
		Inputs: func(i int, dst *linalg.Vector[float64]) error {
			p := points[i%4]
			dst.Set(0, p[0])
			dst.Set(1, p[1])
			return nil
		},
		Labels: func(i int, dst *linalg.Vector[float64]) error {
			dst.Set(0, points[i%4][2])
			return nil
		},
		Size: 4,
	}
}

func TestTrainSaveLoad(t *testing.T) {
	net, err := nn.New(nn.Config[float64]{
		InputSize:  2,
		Widths:     []int{8, 1},
		Activation: nn.Sigmoid[float64]{},
		Rand:       rand.New(rand.NewPCG(7, 0)),
	})
	require.NoError(t, err)
	defer net.Release()

	grads, err := nn.NewGradients(net)
	require.NoError(t, err)
	defer grads.Release()

	trainer := nn.NewTrainer(net, nn.TrainerConfig{})
	var opt optim.Optimizer[float64] = optim.NewAdam[float64](optim.AdamConfig{LR: 0.05})
	defer opt.Release()

	batch := xorBatch()
	first, err := trainer.TrainBatch(batch, grads)
	require.NoError(t, err)

	var last nn.BatchResult
	for range 500 {
		last, err = trainer.TrainBatch(batch, grads)
		require.NoError(t, err)
		require.NoError(t, opt.Step(net, grads))
	}
	assert.Less(t, last.Loss, first.Loss)

	var buf bytes.Buffer
	require.NoError(t, nn.WriteNetwork(&buf, net, map[string]string{"task": "xor"}))
	loaded, err := nn.ReadNetwork[float64](&buf, nil)
	require.NoError(t, err)
	defer loaded.Release()

	want, err := nn.Evaluate[float64](net, batch, nil)
	require.NoError(t, err)
	got, err := nn.Evaluate[float64](loaded, batch, nil)
	require.NoError(t, err)
	assert.Equal(t, want.Loss, got.Loss)
	assert.Equal(t, want.Correct, got.Correct)
}

func TestActivationByName(t *testing.T) {
	for _, name := range nn.ActivationNames() {
		act, err := nn.ActivationByName[float32](name)
		require.NoError(t, err, name)
		assert.Equal(t, name, act.Name())
	}
	_, err := nn.ActivationByName[float32]("tanh")
	assert.Error(t, err)
}

func TestErrorsAreShared(t *testing.T) {
	_, err := nn.New(nn.Config[float32]{InputSize: 0, Widths: []int{1}, Rand: rand.New(rand.NewPCG(1, 0))})
	assert.True(t, errors.Is(err, nn.ErrInvalidArgument))
	assert.True(t, errors.Is(err, linalg.ErrInvalidArgument))
}

func TestBudgetThroughFacade(t *testing.T) {
	budget := linalg.NewBudget[float32](nil, 0)
	net, err := nn.New(nn.Config[float32]{
		InputSize: 3,
		Widths:    []int{2, 1},
		Rand:      rand.New(rand.NewPCG(1, 0)),
		Allocator: budget,
	})
	require.NoError(t, err)
	assert.Equal(t, 3*2+2+2*1+1, budget.Live())
	net.Release()
	assert.Zero(t, budget.Live())
}
