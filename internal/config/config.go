// Package config loads the YAML run configuration of the ffnn command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/ffnn/internal/activation"
)

// Optimizer names.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// ErrInvalid marks a configuration that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Decay configures the linear learning rate schedule.
type Decay struct {
	Every int     `yaml:"every"` // Steps between decays; 0 disables
	Delta float64 `yaml:"delta"`
	Min   float64 `yaml:"min"`
}

// Train is the configuration of a training run.
type Train struct {
	InputSize  int     `yaml:"input_size"`
	Widths     []int   `yaml:"widths"`     // Hidden layer widths, output layer last
	Activation string  `yaml:"activation"` // relu, lrelu or sigmoid
	Optimizer  string  `yaml:"optimizer"`  // sgd or adam
	LR         float64 `yaml:"learning_rate"`
	Momentum   float64 `yaml:"momentum"` // SGD only
	Decay      Decay   `yaml:"decay"`

	TrainSize int `yaml:"train_size"`
	TestSize  int `yaml:"test_size"`
	BatchSize int `yaml:"batch_size"`

	Iterations int    `yaml:"iterations"` // 0 runs until interrupted
	Seed       uint64 `yaml:"seed"`
	LossLog    string `yaml:"loss_log"` // Tab-separated loss curve; empty disables
	Model      string `yaml:"model"`    // Where the trained network is saved
}

// Default returns the configuration of the reference training run: a
// 2 -> 4 -> 2 -> 1 LeakyReLU network trained with SGD on the circle set.
func Default() Train {
	return Train{
		InputSize:  2,
		Widths:     []int{4, 2, 1},
		Activation: "lrelu",
		Optimizer:  OptimizerSGD,
		LR:         0.01,
		Decay:      Decay{Every: 1000, Delta: 1e-6, Min: 1e-6},
		TrainSize:  300,
		TestSize:   200,
		BatchSize:  300,
		Iterations: 20000,
		Seed:       1,
		LossLog:    "loss.tsv",
		Model:      "model.ffnn",
	}
}

// Load reads a YAML file on top of Default and validates the result. Keys
// missing from the file keep their default value.
func Load(path string) (Train, error) {
	cfg := Default()
	//nolint:gosec // G304: config path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return Train{}, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return Train{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg, rejecting unknown keys, and validates it.
func Parse(data []byte, cfg *Train) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks every field for a usable value.
func (c *Train) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.InputSize > 0, "input_size %d", c.InputSize)
	check(len(c.Widths) > 0, "widths must name at least the output layer")
	for i, w := range c.Widths {
		check(w > 0, "widths[%d] = %d", i, w)
	}
	_, err := activation.ByName[float32](c.Activation)
	check(err == nil, "activation %q (known: %v)", c.Activation, activation.Names())
	check(c.Optimizer == OptimizerSGD || c.Optimizer == OptimizerAdam, "optimizer %q", c.Optimizer)
	check(c.LR > 0, "learning_rate %g", c.LR)
	check(c.Momentum >= 0 && c.Momentum < 1, "momentum %g", c.Momentum)
	check(c.Decay.Every >= 0 && c.Decay.Delta >= 0 && c.Decay.Min >= 0, "decay %+v", c.Decay)
	check(c.TrainSize > 0, "train_size %d", c.TrainSize)
	check(c.TestSize > 0, "test_size %d", c.TestSize)
	check(c.BatchSize > 0 && c.BatchSize <= c.TrainSize, "batch_size %d with train_size %d", c.BatchSize, c.TrainSize)
	check(c.Iterations >= 0, "iterations %d", c.Iterations)

	return errors.Join(errs...)
}

// Batches returns the number of whole batches per pass over the training
// set.
func (c *Train) Batches() int {
	return c.TrainSize / c.BatchSize
}
