package linalg

// sameStorage reports whether two non-empty slices start at the same element.
func sameStorage[T Float](a, b []T) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// fit resizes dst to n elements when its storage allows it.
func fit[T Float](op string, dst *Vector[T], n int) error {
	if checks && n > cap(dst.data) {
		return opErr(op, ErrShapeMismatch, "destination holds %d, result needs %d", cap(dst.data), n)
	}
	dst.data = dst.data[:n]
	return nil
}

// AddVec stores a + b in dst. dst may alias a or b; it is resized to the
// operand length within its capacity.
func AddVec[T Float](dst, a, b *Vector[T]) error {
	if checks {
		if dst == nil || a == nil || b == nil {
			return opErr("AddVec", ErrInvalidArgument, "nil operand")
		}
		if len(a.data) == 0 {
			return opErr("AddVec", ErrInvalidArgument, "empty operand")
		}
		if len(a.data) != len(b.data) {
			return opErr("AddVec", ErrShapeMismatch, "a=%d b=%d", len(a.data), len(b.data))
		}
	}
	if err := fit("AddVec", dst, len(a.data)); err != nil {
		return err
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] + b.data[i]
	}
	return nil
}

// SubVec stores a - b in dst. dst may alias a or b.
func SubVec[T Float](dst, a, b *Vector[T]) error {
	if checks {
		if dst == nil || a == nil || b == nil {
			return opErr("SubVec", ErrInvalidArgument, "nil operand")
		}
		if len(a.data) == 0 {
			return opErr("SubVec", ErrInvalidArgument, "empty operand")
		}
		if len(a.data) != len(b.data) {
			return opErr("SubVec", ErrShapeMismatch, "a=%d b=%d", len(a.data), len(b.data))
		}
	}
	if err := fit("SubVec", dst, len(a.data)); err != nil {
		return err
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] - b.data[i]
	}
	return nil
}

// AddScaledVec computes dst += alpha*x.
func AddScaledVec[T Float](dst *Vector[T], alpha T, x *Vector[T]) error {
	if checks {
		if dst == nil || x == nil {
			return opErr("AddScaledVec", ErrInvalidArgument, "nil operand")
		}
		if len(x.data) == 0 {
			return opErr("AddScaledVec", ErrInvalidArgument, "empty operand")
		}
		if len(dst.data) != len(x.data) {
			return opErr("AddScaledVec", ErrShapeMismatch, "dst=%d x=%d", len(dst.data), len(x.data))
		}
	}
	for i, v := range x.data {
		dst.data[i] += alpha * v
	}
	return nil
}

// AddMat stores a + b in dst. All three must share a shape; dst may alias.
func AddMat[T Float](dst, a, b *Matrix[T]) error {
	if err := checkElementwise("AddMat", dst, a, b); err != nil {
		return err
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] + b.data[i]
	}
	return nil
}

// SubMat stores a - b in dst. All three must share a shape; dst may alias.
func SubMat[T Float](dst, a, b *Matrix[T]) error {
	if err := checkElementwise("SubMat", dst, a, b); err != nil {
		return err
	}
	for i := range dst.data {
		dst.data[i] = a.data[i] - b.data[i]
	}
	return nil
}

func checkElementwise[T Float](op string, dst, a, b *Matrix[T]) error {
	if !checks {
		return nil
	}
	if dst == nil || a == nil || b == nil {
		return opErr(op, ErrInvalidArgument, "nil operand")
	}
	if a.rows == 0 || a.cols == 0 {
		return opErr(op, ErrInvalidArgument, "empty operand")
	}
	if !a.SameShape(b) || !a.SameShape(dst) {
		return opErr(op, ErrShapeMismatch, "dst=%dx%d a=%dx%d b=%dx%d",
			dst.rows, dst.cols, a.rows, a.cols, b.rows, b.cols)
	}
	return nil
}

// AddScaledMat computes dst += alpha*x.
func AddScaledMat[T Float](dst *Matrix[T], alpha T, x *Matrix[T]) error {
	if checks {
		if dst == nil || x == nil {
			return opErr("AddScaledMat", ErrInvalidArgument, "nil operand")
		}
		if x.rows == 0 || x.cols == 0 {
			return opErr("AddScaledMat", ErrInvalidArgument, "empty operand")
		}
		if !dst.SameShape(x) {
			return opErr("AddScaledMat", ErrShapeMismatch, "dst=%dx%d x=%dx%d", dst.rows, dst.cols, x.rows, x.cols)
		}
	}
	for i, v := range x.data {
		dst.data[i] += alpha * v
	}
	return nil
}

// MulMatVec computes dst[r] = Σ_c m[r,c]·v[c]. dst is resized to m.Rows()
// within its capacity and must not share storage with v.
func MulMatVec[T Float](dst *Vector[T], m *Matrix[T], v *Vector[T]) error {
	if checks {
		if dst == nil || m == nil || v == nil {
			return opErr("MulMatVec", ErrInvalidArgument, "nil operand")
		}
		if m.rows == 0 || m.cols == 0 {
			return opErr("MulMatVec", ErrInvalidArgument, "empty matrix")
		}
		if m.cols != len(v.data) {
			return opErr("MulMatVec", ErrShapeMismatch, "matrix=%dx%d vector=%d", m.rows, m.cols, len(v.data))
		}
		if sameStorage(dst.data[:cap(dst.data)], v.data) {
			return opErr("MulMatVec", ErrInvalidArgument, "destination aliases the vector operand")
		}
	}
	if err := fit("MulMatVec", dst, m.rows); err != nil {
		return err
	}
	for r := 0; r < m.rows; r++ {
		var sum T
		row := m.data[r*m.cols : (r+1)*m.cols]
		for c, w := range row {
			sum += w * v.data[c]
		}
		dst.data[r] = sum
	}
	return nil
}

// MulMat computes the matrix product dst[r,c] = Σ_k a[r,k]·b[k,c].
// dst must be a.Rows()×b.Cols() and must not share storage with a or b.
func MulMat[T Float](dst, a, b *Matrix[T]) error {
	if checks {
		if dst == nil || a == nil || b == nil {
			return opErr("MulMat", ErrInvalidArgument, "nil operand")
		}
		if a.rows == 0 || a.cols == 0 || b.rows == 0 || b.cols == 0 {
			return opErr("MulMat", ErrInvalidArgument, "empty operand")
		}
		if a.cols != b.rows {
			return opErr("MulMat", ErrShapeMismatch, "a=%dx%d b=%dx%d", a.rows, a.cols, b.rows, b.cols)
		}
		if dst.rows != a.rows || dst.cols != b.cols {
			return opErr("MulMat", ErrShapeMismatch, "dst=%dx%d want %dx%d", dst.rows, dst.cols, a.rows, b.cols)
		}
		if sameStorage(dst.data, a.data) || sameStorage(dst.data, b.data) {
			return opErr("MulMat", ErrInvalidArgument, "destination aliases an operand")
		}
	}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < b.cols; c++ {
			var sum T
			for k := 0; k < a.cols; k++ {
				sum += a.data[r*a.cols+k] * b.data[k*b.cols+c]
			}
			dst.data[r*dst.cols+c] = sum
		}
	}
	return nil
}
