package linalg

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
)

// Vector is a fixed-length, contiguous sequence of elements.
//
// A Vector owns its storage when it was filled by Alloc or Realloc; it must
// then be released exactly once with Release. Vectors built by VectorOf or
// Matrix.AsVector are views: they never own storage and Release on them is a
// no-op.
//
// The zero value is an empty, non-owning vector.
type Vector[T Float] struct {
	data  []T          // len is the current size, cap the allocated size
	alloc Allocator[T] // nil for views
}

// VectorOf wraps data in a non-owning vector.
func VectorOf[T Float](data []T) Vector[T] {
	return Vector[T]{data: data}
}

// Alloc obtains storage for n zeroed elements. The vector must not already own
// storage; use Realloc to reuse a vector. A nil allocator means Heap.
func (v *Vector[T]) Alloc(a Allocator[T], n int) error {
	if v == nil || n <= 0 {
		return opErr("Vector.Alloc", ErrInvalidArgument, "size=%d", n)
	}
	if v.alloc != nil {
		return opErr("Vector.Alloc", ErrInvalidArgument, "vector already owns %d elements", cap(v.data))
	}
	if a == nil {
		a = Heap[T]{}
	}
	buf, err := a.Alloc(n)
	if err != nil {
		return fmt.Errorf("Vector.Alloc: %w", err)
	}
	v.data = buf[:n]
	v.alloc = a
	return nil
}

// Realloc releases any storage the vector owns and allocates n fresh elements.
func (v *Vector[T]) Realloc(a Allocator[T], n int) error {
	if v == nil {
		return opErr("Vector.Realloc", ErrInvalidArgument, "nil vector")
	}
	v.Release()
	return v.Alloc(a, n)
}

// Release returns owned storage to its allocator and empties the vector.
// Releasing an empty vector or a view only forgets the reference.
func (v *Vector[T]) Release() {
	if v == nil {
		return
	}
	if v.alloc != nil && v.data != nil {
		v.alloc.Free(v.data[:cap(v.data)])
	}
	v.data = nil
	v.alloc = nil
}

// Owned reports whether the vector owns its storage.
func (v *Vector[T]) Owned() bool { return v.alloc != nil }

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return len(v.data) }

// Cap returns the number of elements the storage can hold.
func (v *Vector[T]) Cap() int { return cap(v.data) }

// Data returns the backing slice. Writes through it are visible to the vector.
func (v *Vector[T]) Data() []T { return v.data }

// Resize changes the length within the allocated capacity without touching
// the elements.
func (v *Vector[T]) Resize(n int) error {
	if n <= 0 || n > cap(v.data) {
		return opErr("Vector.Resize", ErrInvalidArgument, "size=%d cap=%d", n, cap(v.data))
	}
	v.data = v.data[:n]
	return nil
}

// At returns element i.
func (v *Vector[T]) At(i int) T { return v.data[i] }

// Set stores x at element i.
func (v *Vector[T]) Set(i int, x T) { v.data[i] = x }

// Inc adds x to element i.
func (v *Vector[T]) Inc(i int, x T) { v.data[i] += x }

// Zero sets every element to 0.
func (v *Vector[T]) Zero() {
	clear(v.data)
}

// CopyFrom copies src into v. Lengths must match.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if checks {
		if v == nil || src == nil {
			return opErr("Vector.CopyFrom", ErrInvalidArgument, "nil operand")
		}
		if len(src.data) == 0 {
			return opErr("Vector.CopyFrom", ErrInvalidArgument, "empty operand")
		}
		if len(v.data) != len(src.data) {
			return opErr("Vector.CopyFrom", ErrShapeMismatch, "dst=%d src=%d", len(v.data), len(src.data))
		}
	}
	copy(v.data, src.data)
	return nil
}

// Scale multiplies every element by s in place.
func (v *Vector[T]) Scale(s T) error {
	if checks && (v == nil || len(v.data) == 0) {
		return opErr("Vector.Scale", ErrInvalidArgument, "empty vector")
	}
	for i := range v.data {
		v.data[i] *= s
	}
	return nil
}

// SquaredNorm returns the sum of squared elements.
func (v *Vector[T]) SquaredNorm() T {
	var sum T
	for _, x := range v.data {
		sum += x * x
	}
	return sum
}

// Norm returns the Euclidean magnitude.
func (v *Vector[T]) Norm() T {
	sq := v.SquaredNorm()
	switch s := any(sq).(type) {
	case float32:
		return T(math32.Sqrt(s))
	default:
		return T(math.Sqrt(float64(sq)))
	}
}

// Overlaps reports whether the storage reachable through v and o (up to their
// capacities) shares any element.
func (v *Vector[T]) Overlaps(o *Vector[T]) bool {
	if v == nil || o == nil || cap(v.data) == 0 || cap(o.data) == 0 {
		return false
	}
	size := unsafe.Sizeof(v.data[:1][0])
	a := uintptr(unsafe.Pointer(&v.data[:1][0]))
	b := uintptr(unsafe.Pointer(&o.data[:1][0]))
	return a < b+uintptr(cap(o.data))*size && b < a+uintptr(cap(v.data))*size
}

// AsColumn returns an N×1 matrix view sharing the vector's storage. The view
// never owns the storage and must not outlive the vector.
func (v *Vector[T]) AsColumn() Matrix[T] {
	return Matrix[T]{data: v.data, rows: len(v.data), cols: 1}
}

// String implements fmt.Stringer.
func (v *Vector[T]) String() string {
	return fmt.Sprint(v.data)
}
