package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "FFNN"
	FormatVersion   = 1    // v1: fixed header with SHA-256 checksum
	HeaderAlignment = 64   // Align tensor data to 64 bytes
	FixedHeaderSize = 64   // fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
)

// Data type string constants for serialization.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
)

// Model types stored in the header.
const (
	ModelTypeNetwork   = "Network"
	ModelTypeGradients = "Gradients"
)

// Flags for the fixed header.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
	FlagGradients   uint32 = 1 << 1 // bit 1: file holds a gradient snapshot
)

// Header represents the JSON header of a saved file.
type Header struct {
	FormatVersion int               `json:"format_version"`       // Version of the file format
	ModelType     string            `json:"model_type"`           // "Network" or "Gradients"
	Activation    string            `json:"activation,omitempty"` // Activation name (networks only)
	InputSize     int               `json:"input_size"`           // Network input dimension
	Widths        []int             `json:"widths"`               // Layer widths, output layer last
	CreatedAt     time.Time         `json:"created_at"`           // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`              // Tensor metadata
	Metadata      map[string]string `json:"metadata,omitempty"`   // Custom metadata
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layer.0.weight")
	DType  string `json:"dtype"`  // "float32" or "float64"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of tensor data)
	Size   int64  `json:"size"`   // Size in bytes
}

// NumElements returns the product of the shape.
func (m TensorMeta) NumElements() int {
	n := 1
	for _, d := range m.Shape {
		n *= d
	}
	return n
}

// Tensor is one named tensor handed to the writer.
type Tensor struct {
	Name  string
	DType string
	Shape []int
	Data  []byte
}

// DTypeSize returns the element size in bytes of a dtype string.
func DTypeSize(dtype string) (int, bool) {
	switch dtype {
	case DTypeFloat32:
		return 4, true
	case DTypeFloat64:
		return 8, true
	default:
		return 0, false
	}
}

// padding returns the number of zero bytes needed after the JSON header so
// tensor data starts on a HeaderAlignment boundary.
func padding(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
