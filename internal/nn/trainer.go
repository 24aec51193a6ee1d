package nn

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/ffnn/internal/linalg"
)

// Generator fills dst with example index. dst already has the expected
// length (the network input width for inputs, the output width for labels).
// A non-nil error marks the example as failed; it is skipped.
type Generator[T linalg.Float] func(index int, dst *linalg.Vector[T]) error

// Batch is a contiguous range [Start, Start+Size) of examples.
type Batch[T linalg.Float] struct {
	Inputs Generator[T]
	Labels Generator[T]
	Start  int
	Size   int
}

func (b *Batch[T]) validate(op string) error {
	if b.Inputs == nil || b.Labels == nil {
		return invalidArg(op, "nil generator")
	}
	if b.Size <= 0 {
		return invalidArg(op, "batch size %d", b.Size)
	}
	if b.Start < 0 {
		return invalidArg(op, "batch start %d", b.Start)
	}
	return nil
}

// BatchResult summarizes one TrainBatch call.
type BatchResult struct {
	Loss     float64         // Σ‖output − label‖² · 2/Size over the processed examples
	Examples int             // Examples that contributed
	Failures []*ExampleError // Skipped examples, in index order
}

// TrainerConfig configures a Trainer.
type TrainerConfig struct {
	Logger *slog.Logger // Receives skipped-example reports. Default: discard.
}

// Trainer computes batch-averaged gradients and held-out statistics for one
// network. It never modifies the network's parameters.
type Trainer[T linalg.Float] struct {
	net    *Network[T]
	logger *slog.Logger
}

// NewTrainer creates a trainer for net.
func NewTrainer[T linalg.Float](net *Network[T], cfg TrainerConfig) *Trainer[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Trainer[T]{net: net, logger: cfg.Logger}
}

// Network returns the trained network.
func (t *Trainer[T]) Network() *Network[T] { return t.net }

// TrainBatch computes the mean loss over batch and writes the batch-averaged
// gradient of every layer into grads.
//
// For each example: generate the input, run the cached forward pass,
// generate the label, form e = output − label, add Σe² to the loss, scale e
// by 1/Size and back-propagate it. Because back-propagation is linear in the
// incoming error, pre-scaling e is what averages the summed gradients; no
// further division happens after the loop.
//
// An example whose generator or computation fails is skipped and reported in
// BatchResult.Failures, and the loop continues. The divisor stays Size, so a
// batch with failures yields gradients and loss biased toward zero by the
// fraction of skipped examples.
//
// Failure to allocate the per-batch buffers aborts the call; grads is then
// left untouched. All per-batch buffers are released before returning.
func (t *Trainer[T]) TrainBatch(batch Batch[T], grads Gradients[T]) (BatchResult, error) {
	const op = "Trainer.TrainBatch"
	net := t.net
	if err := batch.validate(op); err != nil {
		return BatchResult{}, err
	}
	if err := grads.Matches(net); err != nil {
		return BatchResult{}, err
	}

	tr, err := NewTrace(net)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tr.Release()

	var label, dCda, scratch linalg.Vector[T]
	if err := label.Alloc(net.alloc, net.OutputSize()); err != nil {
		return BatchResult{}, fmt.Errorf("%s: label buffer: %w", op, err)
	}
	defer label.Release()
	if err := dCda.Alloc(net.alloc, net.widest()); err != nil {
		return BatchResult{}, fmt.Errorf("%s: error buffer: %w", op, err)
	}
	defer dCda.Release()
	if err := scratch.Alloc(net.alloc, net.widest()); err != nil {
		return BatchResult{}, fmt.Errorf("%s: scratch buffer: %w", op, err)
	}
	defer scratch.Release()

	var (
		result BatchResult
		sum    T
	)
	scale := 1 / T(batch.Size)
	for i := batch.Start; i < batch.Start+batch.Size; i++ {
		sq, fail := t.trainExample(tr, batch, i, &label, &dCda, &scratch, scale)
		if fail != nil {
			reportSkip(t.logger, op, fail)
			result.Failures = append(result.Failures, fail)
			continue
		}
		sum += sq
		result.Examples++
	}

	if err := grads.copyFromTrace(tr); err != nil {
		return BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	result.Loss = finalizeLoss(sum, batch.Size)
	return result, nil
}

// trainExample processes example i and returns its squared error.
func (t *Trainer[T]) trainExample(tr *Trace[T], batch Batch[T], i int, label, dCda, scratch *linalg.Vector[T], scale T) (T, *ExampleError) {
	net := t.net
	if err := batch.Inputs(i, tr.Input()); err != nil {
		return 0, generatorFailure(i, StageInput, err)
	}
	if err := net.Calculate(tr); err != nil {
		return 0, internalFailure(i, StageForward, err)
	}
	if err := batch.Labels(i, label); err != nil {
		return 0, generatorFailure(i, StageLabel, err)
	}
	if err := linalg.SubVec(dCda, tr.Output(), label); err != nil {
		return 0, internalFailure(i, StageError, err)
	}
	sq := dCda.SquaredNorm()
	if err := dCda.Scale(scale); err != nil {
		return 0, internalFailure(i, StageError, err)
	}
	if err := net.Backpropagate(tr, dCda, scratch); err != nil {
		return 0, internalFailure(i, StageBackprop, err)
	}
	return sq, nil
}

func reportSkip(logger *slog.Logger, op string, fail *ExampleError) {
	logger.Warn("skipping example",
		slog.String("op", op),
		slog.Int("index", fail.Index),
		slog.String("stage", fail.Stage),
		slog.Any("err", fail.Err),
	)
}
