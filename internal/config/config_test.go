package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{4, 2, 1}, cfg.Widths)
	assert.Equal(t, 1, cfg.Batches())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
widths: [8, 1]
activation: sigmoid
optimizer: adam
learning_rate: 0.005
decay:
  every: 0
train_size: 600
batch_size: 200
seed: 42
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 1}, cfg.Widths)
	assert.Equal(t, "sigmoid", cfg.Activation)
	assert.Equal(t, OptimizerAdam, cfg.Optimizer)
	assert.Equal(t, 0.005, cfg.LR)
	assert.Equal(t, Decay{Every: 0, Delta: 1e-6, Min: 1e-6}, cfg.Decay)
	assert.Equal(t, 3, cfg.Batches())
	assert.Equal(t, uint64(42), cfg.Seed)

	// Untouched keys keep their defaults.
	assert.Equal(t, 2, cfg.InputSize)
	assert.Equal(t, 200, cfg.TestSize)
	assert.Equal(t, "model.ffnn", cfg.Model)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse(nil, &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("widht: [3]\n"), &cfg)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Train)
	}{
		{"input size", func(c *Train) { c.InputSize = 0 }},
		{"no widths", func(c *Train) { c.Widths = nil }},
		{"zero width", func(c *Train) { c.Widths = []int{3, 0} }},
		{"activation", func(c *Train) { c.Activation = "tanh" }},
		{"optimizer", func(c *Train) { c.Optimizer = "rmsprop" }},
		{"learning rate", func(c *Train) { c.LR = 0 }},
		{"momentum", func(c *Train) { c.Momentum = 1 }},
		{"decay", func(c *Train) { c.Decay.Delta = -1 }},
		{"train size", func(c *Train) { c.TrainSize = 0 }},
		{"test size", func(c *Train) { c.TestSize = -1 }},
		{"batch larger than set", func(c *Train) { c.BatchSize = c.TrainSize + 1 }},
		{"iterations", func(c *Train) { c.Iterations = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := Default()
	cfg.InputSize = 0
	cfg.LR = -1
	err := cfg.Validate()
	assert.ErrorContains(t, err, "input_size 0")
	assert.ErrorContains(t, err, "learning_rate -1")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
