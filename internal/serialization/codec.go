package serialization

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/born-ml/ffnn/internal/linalg"
)

// DTypeOf returns the dtype string for T.
func DTypeOf[T linalg.Float]() string {
	return linalg.DTypeOf[T]()
}

// EncodeFloats returns the little-endian encoding of data.
func EncodeFloats[T linalg.Float](data []T) []byte {
	if linalg.DTypeOf[T]() == linalg.DTypeFloat32 {
		buf := make([]byte, 4*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
		}
		return buf
	}
	buf := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(float64(v)))
	}
	return buf
}

// DecodeFloats decodes raw bytes stored as dtype into dst. Float32 data
// widens to float64 and float64 data narrows to float32 when T differs.
func DecodeFloats[T linalg.Float](dtype string, raw []byte, dst []T) error {
	size, ok := DTypeSize(dtype)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDType, dtype)
	}
	if len(raw) != size*len(dst) {
		return fmt.Errorf("decode: %d bytes of %s cannot fill %d elements", len(raw), dtype, len(dst))
	}
	switch dtype {
	case DTypeFloat32:
		for i := range dst {
			dst[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	case DTypeFloat64:
		for i := range dst {
			dst[i] = T(math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:])))
		}
	}
	return nil
}
