package nn

import (
	"github.com/born-ml/ffnn/internal/linalg"
)

// sumSquaredError returns Σ (output[i] - label[i])².
func sumSquaredError[T linalg.Float](output, label *linalg.Vector[T]) T {
	var sum T
	o, l := output.Data(), label.Data()
	for i := range o {
		d := o[i] - l[i]
		sum += d * d
	}
	return sum
}

// finalizeLoss turns a summed squared error over a batch of size examples
// into the reported loss statistic: sum · 2/size.
//
// The same statistic is reported by training and evaluation so the two
// curves are comparable.
func finalizeLoss[T linalg.Float](sum T, size int) float64 {
	return float64(sum) * 2 / float64(size)
}

// binaryCorrect scores a binary prediction on the first output unit. The
// label's first component, truncated to an integer, selects the class: 1 is
// matched by an output above 0.5, 0 by an output below 0.5, anything else is
// never correct.
func binaryCorrect[T linalg.Float](output, label *linalg.Vector[T]) bool {
	y := output.At(0)
	switch int(label.At(0)) {
	case 0:
		return y < 0.5
	case 1:
		return y > 0.5
	default:
		return false
	}
}
