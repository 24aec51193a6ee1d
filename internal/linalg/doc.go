// Package linalg provides the dense vector and matrix containers used by the
// network engine, together with the handful of arithmetic kernels it needs.
//
// Containers are generic over the element width (see Float) and draw their
// storage from an Allocator so that callers can account for, limit and release
// every buffer explicitly. All kernels write into a caller supplied destination
// and return an error instead of panicking on bad operands:
//
//	var dst linalg.Vector[float32]
//	if err := dst.Alloc(linalg.Heap[float32]{}, m.Rows()); err != nil {
//	    return err
//	}
//	defer dst.Release()
//	if err := linalg.MulMatVec(&dst, m, v); err != nil {
//	    return err
//	}
//
// Shape validation can be compiled out with the nolinalgchecks build tag.
// Doing so removes the ErrShapeMismatch and ErrInvalidArgument results from the
// hot kernels; mismatched operands then panic or silently read the wrong
// elements.
package linalg
