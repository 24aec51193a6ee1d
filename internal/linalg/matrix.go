package linalg

import "fmt"

// Matrix is a dense row-major matrix: element (r, c) lives at r*cols + c.
//
// Ownership follows the same rules as Vector.
type Matrix[T Float] struct {
	data  []T
	rows  int
	cols  int
	alloc Allocator[T]
}

// MatrixOf wraps data in a non-owning rows×cols matrix.
func MatrixOf[T Float](rows, cols int, data []T) (Matrix[T], error) {
	if rows <= 0 || cols <= 0 {
		return Matrix[T]{}, opErr("MatrixOf", ErrInvalidArgument, "rows=%d cols=%d", rows, cols)
	}
	if len(data) != rows*cols {
		return Matrix[T]{}, opErr("MatrixOf", ErrShapeMismatch, "%d elements for %dx%d", len(data), rows, cols)
	}
	return Matrix[T]{data: data, rows: rows, cols: cols}, nil
}

// Alloc obtains zeroed storage for a rows×cols matrix. The matrix must not
// already own storage. A nil allocator means Heap.
func (m *Matrix[T]) Alloc(a Allocator[T], rows, cols int) error {
	if m == nil || rows <= 0 || cols <= 0 {
		return opErr("Matrix.Alloc", ErrInvalidArgument, "rows=%d cols=%d", rows, cols)
	}
	if m.alloc != nil {
		return opErr("Matrix.Alloc", ErrInvalidArgument, "matrix already owns %dx%d", m.rows, m.cols)
	}
	if a == nil {
		a = Heap[T]{}
	}
	buf, err := a.Alloc(rows * cols)
	if err != nil {
		return fmt.Errorf("Matrix.Alloc: %w", err)
	}
	m.data = buf
	m.rows, m.cols = rows, cols
	m.alloc = a
	return nil
}

// Realloc releases owned storage and allocates a fresh rows×cols matrix.
func (m *Matrix[T]) Realloc(a Allocator[T], rows, cols int) error {
	if m == nil {
		return opErr("Matrix.Realloc", ErrInvalidArgument, "nil matrix")
	}
	m.Release()
	return m.Alloc(a, rows, cols)
}

// Release returns owned storage to its allocator and empties the matrix.
func (m *Matrix[T]) Release() {
	if m == nil {
		return
	}
	if m.alloc != nil && m.data != nil {
		m.alloc.Free(m.data[:cap(m.data)])
	}
	m.data = nil
	m.rows, m.cols = 0, 0
	m.alloc = nil
}

// Owned reports whether the matrix owns its storage.
func (m *Matrix[T]) Owned() bool { return m.alloc != nil }

// Rows returns the row count.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix[T]) Cols() int { return m.cols }

// Len returns rows*cols.
func (m *Matrix[T]) Len() int { return len(m.data) }

// Data returns the row-major backing slice.
func (m *Matrix[T]) Data() []T { return m.data }

// Row returns a slice over row r.
func (m *Matrix[T]) Row(r int) []T {
	return m.data[r*m.cols : (r+1)*m.cols]
}

// At returns element (r, c).
func (m *Matrix[T]) At(r, c int) T { return m.data[r*m.cols+c] }

// Set stores x at (r, c).
func (m *Matrix[T]) Set(r, c int, x T) { m.data[r*m.cols+c] = x }

// Inc adds x to (r, c).
func (m *Matrix[T]) Inc(r, c int, x T) { m.data[r*m.cols+c] += x }

// Zero sets every element to 0.
func (m *Matrix[T]) Zero() {
	clear(m.data)
}

// SameShape reports whether m and o have identical dimensions.
func (m *Matrix[T]) SameShape(o *Matrix[T]) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// CopyFrom copies src into m. Shapes must match.
func (m *Matrix[T]) CopyFrom(src *Matrix[T]) error {
	if checks {
		if m == nil || src == nil {
			return opErr("Matrix.CopyFrom", ErrInvalidArgument, "nil operand")
		}
		if src.rows == 0 || src.cols == 0 {
			return opErr("Matrix.CopyFrom", ErrInvalidArgument, "empty operand")
		}
		if !m.SameShape(src) {
			return opErr("Matrix.CopyFrom", ErrShapeMismatch, "dst=%dx%d src=%dx%d", m.rows, m.cols, src.rows, src.cols)
		}
	}
	copy(m.data, src.data)
	return nil
}

// Scale multiplies every element by s in place.
func (m *Matrix[T]) Scale(s T) error {
	if checks && (m == nil || len(m.data) == 0) {
		return opErr("Matrix.Scale", ErrInvalidArgument, "empty matrix")
	}
	for i := range m.data {
		m.data[i] *= s
	}
	return nil
}

// AsVector returns a vector view over an N×1 matrix. The view never owns the
// storage and must not outlive the matrix.
func (m *Matrix[T]) AsVector() (Vector[T], error) {
	if m == nil || m.data == nil {
		return Vector[T]{}, opErr("Matrix.AsVector", ErrInvalidArgument, "empty matrix")
	}
	if m.cols != 1 {
		return Vector[T]{}, opErr("Matrix.AsVector", ErrShapeMismatch, "columns=%d", m.cols)
	}
	return Vector[T]{data: m.data}, nil
}

// String implements fmt.Stringer.
func (m *Matrix[T]) String() string {
	return fmt.Sprintf("%dx%d%v", m.rows, m.cols, m.data)
}
