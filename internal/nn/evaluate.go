package nn

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/ffnn/internal/linalg"
)

// EvalResult summarizes an evaluation pass.
type EvalResult struct {
	Loss     float64         // Same statistic as BatchResult.Loss
	Accuracy float64         // Correct / Size
	Correct  int             // Binary predictions matching their label
	Examples int             // Examples that were scored
	Failures []*ExampleError // Skipped examples, in index order
}

// Evaluate scores the trainer's network on a held-out batch.
func (t *Trainer[T]) Evaluate(batch Batch[T]) (EvalResult, error) {
	return Evaluate[T](t.net, batch, t.logger)
}

// Evaluate runs plain inference over batch and reports the loss statistic
// used by TrainBatch together with a binary-classification accuracy.
//
// Accuracy is meant for single-output binary classifiers: an example counts
// as correct when the first label component is 1 and the first output exceeds
// 0.5, or the label is 0 and the output is below 0.5. Skipped examples still
// count in the Size divisor of both statistics.
func Evaluate[T linalg.Float](model Model[T], batch Batch[T], logger *slog.Logger) (EvalResult, error) {
	const op = "Evaluate"
	if model == nil {
		return EvalResult{}, invalidArg(op, "nil model")
	}
	if err := batch.validate(op); err != nil {
		return EvalResult{}, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var alloc linalg.Allocator[T]
	if a, ok := model.(interface{ Allocator() linalg.Allocator[T] }); ok {
		alloc = a.Allocator()
	}

	var input, label, output linalg.Vector[T]
	if err := input.Alloc(alloc, model.InputSize()); err != nil {
		return EvalResult{}, fmt.Errorf("%s: input buffer: %w", op, err)
	}
	defer input.Release()
	if err := label.Alloc(alloc, model.OutputSize()); err != nil {
		return EvalResult{}, fmt.Errorf("%s: label buffer: %w", op, err)
	}
	defer label.Release()
	if err := output.Alloc(alloc, model.OutputSize()); err != nil {
		return EvalResult{}, fmt.Errorf("%s: output buffer: %w", op, err)
	}
	defer output.Release()

	var (
		result EvalResult
		sum    T
	)
	for i := batch.Start; i < batch.Start+batch.Size; i++ {
		if fail := evalExample(model, batch, i, &input, &label, &output); fail != nil {
			reportSkip(logger, op, fail)
			result.Failures = append(result.Failures, fail)
			continue
		}
		sum += sumSquaredError(&output, &label)
		if binaryCorrect(&output, &label) {
			result.Correct++
		}
		result.Examples++
	}

	result.Loss = finalizeLoss(sum, batch.Size)
	result.Accuracy = float64(result.Correct) / float64(batch.Size)
	return result, nil
}

func evalExample[T linalg.Float](model Model[T], batch Batch[T], i int, input, label, output *linalg.Vector[T]) *ExampleError {
	if err := batch.Inputs(i, input); err != nil {
		return generatorFailure(i, StageInput, err)
	}
	if err := batch.Labels(i, label); err != nil {
		return generatorFailure(i, StageLabel, err)
	}
	if err := model.Feed(input, output); err != nil {
		return internalFailure(i, StageForward, err)
	}
	if output.Len() != label.Len() {
		return internalFailure(i, StageError, shapeMismatch(
			"Evaluate", "output %d, label %d", output.Len(), label.Len()))
	}
	return nil
}
