// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linalg provides the dense vectors and matrices the network engine
// is built on.
//
// # Overview
//
// This package provides:
//   - Generic containers (Vector[T], Matrix[T]) over float32 and float64
//   - Explicit storage ownership through an Allocator
//   - Budget: an accounting allocator with an element cap and fault injection
//   - Kernels that write into a caller supplied destination
//
// # Basic Usage
//
//	import "github.com/born-ml/ffnn/linalg"
//
//	func main() {
//	    m, _ := linalg.MatrixOf(2, 2, []float64{1, 2, 3, 4})
//	    v := linalg.VectorOf([]float64{1, 1})
//
//	    var out linalg.Vector[float64]
//	    if err := out.Alloc(nil, 2); err != nil {
//	        log.Fatal(err)
//	    }
//	    defer out.Release()
//
//	    if err := linalg.MulMatVec(&out, &m, &v); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.Data()) // [3 7]
//	}
//
// # Ownership
//
// Containers filled by Alloc own their storage and must be released exactly
// once. VectorOf, MatrixOf, Vector.AsColumn and Matrix.AsVector build views
// that borrow storage; releasing a view only forgets the reference.
//
// # Errors
//
// Kernels return *OpError wrapping ErrInvalidArgument, ErrShapeMismatch or
// ErrAllocation. Use errors.Is to test the kind.
package linalg
