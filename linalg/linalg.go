// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package linalg

import "github.com/born-ml/ffnn/internal/linalg"

// Float is the set of supported element types.
type Float = linalg.Float

// Vector is a fixed-length, contiguous sequence of elements.
type Vector[T Float] = linalg.Vector[T]

// Matrix is a dense row-major matrix.
type Matrix[T Float] = linalg.Matrix[T]

// VectorOf wraps data in a non-owning vector.
func VectorOf[T Float](data []T) Vector[T] {
	return linalg.VectorOf(data)
}

// MatrixOf wraps data in a non-owning rows×cols matrix.
func MatrixOf[T Float](rows, cols int, data []T) (Matrix[T], error) {
	return linalg.MatrixOf(rows, cols, data)
}

// Allocation

// Allocator supplies element storage for containers.
type Allocator[T Float] = linalg.Allocator[T]

// Heap allocates from the Go heap.
type Heap[T Float] = linalg.Heap[T]

// Budget counts every buffer it hands out and can cap or fail allocations.
type Budget[T Float] = linalg.Budget[T]

// NewBudget wraps inner with a cap of limit live elements (0 means no cap).
func NewBudget[T Float](inner Allocator[T], limit int) *Budget[T] {
	return linalg.NewBudget(inner, limit)
}

// Kernels

// AddVec computes dst = a + b.
func AddVec[T Float](dst, a, b *Vector[T]) error { return linalg.AddVec(dst, a, b) }

// SubVec computes dst = a - b.
func SubVec[T Float](dst, a, b *Vector[T]) error { return linalg.SubVec(dst, a, b) }

// AddScaledVec computes dst += alpha·x.
func AddScaledVec[T Float](dst *Vector[T], alpha T, x *Vector[T]) error {
	return linalg.AddScaledVec(dst, alpha, x)
}

// AddMat computes dst = a + b.
func AddMat[T Float](dst, a, b *Matrix[T]) error { return linalg.AddMat(dst, a, b) }

// SubMat computes dst = a - b.
func SubMat[T Float](dst, a, b *Matrix[T]) error { return linalg.SubMat(dst, a, b) }

// AddScaledMat computes dst += alpha·x.
func AddScaledMat[T Float](dst *Matrix[T], alpha T, x *Matrix[T]) error {
	return linalg.AddScaledMat(dst, alpha, x)
}

// MulMatVec computes dst = m·v.
func MulMatVec[T Float](dst *Vector[T], m *Matrix[T], v *Vector[T]) error {
	return linalg.MulMatVec(dst, m, v)
}

// MulMat computes dst = a·b.
func MulMat[T Float](dst, a, b *Matrix[T]) error { return linalg.MulMat(dst, a, b) }

// Errors

// OpError records the operation that failed and why.
type OpError = linalg.OpError

// Error kinds wrapped by OpError.
var (
	ErrInvalidArgument = linalg.ErrInvalidArgument
	ErrShapeMismatch   = linalg.ErrShapeMismatch
	ErrAllocation      = linalg.ErrAllocation
)
