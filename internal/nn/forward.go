package nn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/linalg"
)

// Feed runs plain inference on one example and writes the output into dst.
//
// dst is resized to OutputSize when its capacity allows, otherwise it is
// reallocated with the network's allocator (releasing anything it owned).
// Intermediate results alternate between two scratch buffers sized to the
// widest layer, allocated once per call and released before returning.
//
// On error dst holds no meaningful output.
func (n *Network[T]) Feed(input, dst *linalg.Vector[T]) error {
	if input == nil || dst == nil {
		return invalidArg("Network.Feed", "nil vector")
	}
	if input.Len() != n.inputSize {
		return shapeMismatch("Network.Feed", "input length %d, network expects %d", input.Len(), n.inputSize)
	}

	width := n.widest()
	var cur, next linalg.Vector[T]
	if err := cur.Alloc(n.alloc, width); err != nil {
		return fmt.Errorf("Network.Feed: input buffer: %w", err)
	}
	defer cur.Release()
	if err := next.Alloc(n.alloc, width); err != nil {
		return fmt.Errorf("Network.Feed: output buffer: %w", err)
	}
	defer next.Release()

	// cur holds the current layer input; it starts as a copy of input.
	_ = cur.Resize(input.Len())
	copy(cur.Data(), input.Data())

	for i := range n.layers {
		if err := n.layers[i].forward(n.act, &cur, &next, &next); err != nil {
			return fmt.Errorf("Network.Feed: layer %d: %w", i, err)
		}
		cur, next = next, cur
	}

	out := n.OutputSize()
	if dst.Cap() < out {
		if err := dst.Realloc(n.alloc, out); err != nil {
			return fmt.Errorf("Network.Feed: destination: %w", err)
		}
	} else if err := dst.Resize(out); err != nil {
		return fmt.Errorf("Network.Feed: destination: %w", err)
	}
	copy(dst.Data(), cur.Data())
	return nil
}
