package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/born-ml/ffnn/internal/dataset"
	"github.com/born-ml/ffnn/internal/nn"
)

func evalCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	model := fs.String("model", "model.ffnn", "Model to evaluate")
	seed := fs.Uint64("seed", 2, "Seed for the evaluation set")
	size := fs.Int("size", 200, "Number of evaluation examples")
	verbose := fs.Bool("v", false, "Log skipped examples")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	net, err := nn.Load[float32](*model, nil)
	if err != nil {
		return err
	}
	defer net.Release()

	set, err := dataset.Circle(rand.New(rand.NewPCG(*seed, 0)), *size)
	if err != nil {
		return err
	}
	res, err := nn.Evaluate[float32](net, dataset.Batch[float32](set), newLogger(stderr, *verbose))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "model=%s network=%s examples=%d loss=%.6f accuracy=%.4f\n",
		*model, net, res.Examples, res.Loss, res.Accuracy)
	return nil
}
