package linalg

import "unsafe"

// Float is the constraint for container element types.
//
// An engine is instantiated with exactly one width; nothing in this package
// mixes widths.
type Float interface {
	~float32 | ~float64
}

// Element type names used in persisted headers.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
)

// SizeOf returns the byte size of one element of T.
func SizeOf[T Float]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// DTypeOf returns the element type name of T.
func DTypeOf[T Float]() string {
	if SizeOf[T]() == 4 {
		return DTypeFloat32
	}
	return DTypeFloat64
}
