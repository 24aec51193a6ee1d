package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/born-ml/ffnn/internal/activation"
	"github.com/born-ml/ffnn/internal/config"
	"github.com/born-ml/ffnn/internal/dataset"
	"github.com/born-ml/ffnn/internal/nn"
	"github.com/born-ml/ffnn/internal/optim"
)

// progressEvery is the number of iterations between progress log lines.
const progressEvery = 1000

func trainCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML run configuration (defaults apply to missing keys)")
	iterations := fs.Int("iterations", 0, "Training iterations, 0 = until interrupted (overrides config)")
	seed := fs.Uint64("seed", 0, "Seed for data and weights (overrides config)")
	lr := fs.Float64("lr", 0, "Learning rate (overrides config)")
	act := fs.String("activation", "", "Activation: relu, lrelu or sigmoid (overrides config)")
	opt := fs.String("optimizer", "", "Optimizer: sgd or adam (overrides config)")
	model := fs.String("model", "", "Output model path (overrides config)")
	lossLog := fs.String("log", "", "Loss log path, tab-separated (overrides config)")
	verbose := fs.Bool("v", false, "Log skipped examples and every iteration")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	// Only flags given on the command line override the configuration.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "iterations":
			cfg.Iterations = *iterations
		case "seed":
			cfg.Seed = *seed
		case "lr":
			cfg.LR = *lr
		case "activation":
			cfg.Activation = *act
		case "optimizer":
			cfg.Optimizer = *opt
		case "model":
			cfg.Model = *model
		case "log":
			cfg.LossLog = *lossLog
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, *verbose)
	res, err := train(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "iterations=%d train_loss=%.6f test_loss=%.6f accuracy=%.4f model=%s\n",
		res.iterations, res.trainLoss, res.eval.Loss, res.eval.Accuracy, cfg.Model)
	return nil
}

type trainResult struct {
	iterations int
	trainLoss  float64
	eval       nn.EvalResult
}

// train runs the training loop described by cfg until cfg.Iterations is
// reached or ctx is canceled, then saves the network to cfg.Model.
func train(ctx context.Context, cfg config.Train, logger *slog.Logger) (trainResult, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	trainSet, err := dataset.Circle(rng, cfg.TrainSize)
	if err != nil {
		return trainResult{}, err
	}
	testSet, err := dataset.Circle(rng, cfg.TestSize)
	if err != nil {
		return trainResult{}, err
	}

	act, err := activation.ByName[float32](cfg.Activation)
	if err != nil {
		return trainResult{}, err
	}
	net, err := nn.New(nn.Config[float32]{
		InputSize:  cfg.InputSize,
		Widths:     cfg.Widths,
		Activation: act,
		Rand:       rng,
	})
	if err != nil {
		return trainResult{}, err
	}
	defer net.Release()

	grads, err := nn.NewGradients(net)
	if err != nil {
		return trainResult{}, err
	}
	defer grads.Release()

	optimizer := newOptimizer(cfg)
	defer optimizer.Release()
	decay := optim.LinearDecay{Every: cfg.Decay.Every, Delta: cfg.Decay.Delta, Min: cfg.Decay.Min}

	var (
		logFile *os.File
		lossLog *bufio.Writer
	)
	if cfg.LossLog != "" {
		if logFile, err = os.Create(cfg.LossLog); err != nil {
			return trainResult{}, fmt.Errorf("loss log: %w", err)
		}
		defer func() { _ = logFile.Close() }()
		lossLog = bufio.NewWriter(logFile)
	}

	logger.Info("training",
		slog.String("network", net.String()),
		slog.Int("parameters", net.NumParameters()),
		slog.String("optimizer", cfg.Optimizer),
		slog.Float64("lr", cfg.LR),
		slog.Int("train", cfg.TrainSize),
		slog.Int("test", cfg.TestSize),
		slog.Int("batch", cfg.BatchSize),
		slog.Uint64("seed", cfg.Seed),
	)

	trainer := nn.NewTrainer(net, nn.TrainerConfig{Logger: logger})
	trainBatch := dataset.Batch[float32](trainSet)
	trainBatch.Size = cfg.BatchSize
	testBatch := dataset.Batch[float32](testSet)
	batches := cfg.Batches()
	start := time.Now()

	var (
		res  trainResult
		i    int
		eval nn.EvalResult
	)
	for i = 0; cfg.Iterations == 0 || i < cfg.Iterations; i++ {
		if ctx.Err() != nil {
			logger.Info("interrupted", slog.Int("iteration", i))
			break
		}
		trainBatch.Start = (i % batches) * cfg.BatchSize
		br, err := trainer.TrainBatch(trainBatch, grads)
		if err != nil {
			return trainResult{}, fmt.Errorf("iteration %d: %w", i, err)
		}
		if err := optimizer.Step(net, grads); err != nil {
			return trainResult{}, fmt.Errorf("iteration %d: %w", i, err)
		}
		if eval, err = trainer.Evaluate(testBatch); err != nil {
			return trainResult{}, fmt.Errorf("iteration %d: %w", i, err)
		}
		res.trainLoss = br.Loss

		if lossLog != nil {
			if _, err := fmt.Fprintf(lossLog, "%d\t%f\t%f\n", i, br.Loss, eval.Loss); err != nil {
				return trainResult{}, fmt.Errorf("loss log: %w", err)
			}
		}
		optimizer.SetLR(decay.Next(optimizer.GetLR(), i))

		if i%progressEvery == 0 {
			logger.Info("progress",
				slog.Int("iteration", i),
				slog.Float64("train_loss", br.Loss),
				slog.Float64("test_loss", eval.Loss),
				slog.Float64("accuracy", eval.Accuracy),
				slog.Float64("lr", optimizer.GetLR()),
			)
		} else {
			logger.Debug("iteration",
				slog.Int("iteration", i),
				slog.Float64("train_loss", br.Loss),
				slog.Float64("test_loss", eval.Loss),
			)
		}
	}
	res.iterations = i

	if lossLog != nil {
		if err := lossLog.Flush(); err != nil {
			return trainResult{}, fmt.Errorf("loss log: %w", err)
		}
		if err := logFile.Close(); err != nil {
			return trainResult{}, fmt.Errorf("loss log: %w", err)
		}
	}

	if res.eval, err = trainer.Evaluate(testBatch); err != nil {
		return trainResult{}, err
	}

	if cfg.Model != "" {
		meta := map[string]string{
			"seed":       strconv.FormatUint(cfg.Seed, 10),
			"iterations": strconv.Itoa(res.iterations),
			"optimizer":  cfg.Optimizer,
			"test_loss":  strconv.FormatFloat(res.eval.Loss, 'g', -1, 64),
		}
		if err := nn.Save(cfg.Model, net, meta); err != nil {
			return trainResult{}, err
		}
	}
	logger.Info("done",
		slog.Int("iterations", res.iterations),
		slog.Float64("test_loss", res.eval.Loss),
		slog.Float64("accuracy", res.eval.Accuracy),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("model", cfg.Model),
	)
	return res, nil
}

func newOptimizer(cfg config.Train) optim.Optimizer[float32] {
	if cfg.Optimizer == config.OptimizerAdam {
		return optim.NewAdam[float32](optim.AdamConfig{LR: cfg.LR})
	}
	return optim.NewSGD[float32](optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
}
