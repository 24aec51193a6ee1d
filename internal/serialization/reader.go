package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Reader gives access to a decoded file held in memory.
type Reader struct {
	header Header
	flags  uint32
	data   []byte
	index  map[string]int
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Open reads and validates the file at path.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, opts)
}

// Read decodes and validates a file from r.
func Read(r io.Reader, opts ReaderOptions) (*Reader, error) {
	fixedHeader := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixedHeader); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}

	// 0x00-0x03: magic
	if !bytes.Equal(fixedHeader[0:4], []byte(MagicBytes)) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, fixedHeader[0:4])
	}

	// 0x04-0x07: version
	if version := binary.LittleEndian.Uint32(fixedHeader[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	// 0x08-0x0B: flags
	flags := binary.LittleEndian.Uint32(fixedHeader[8:12])

	// 0x10-0x17: header size
	headerSize := binary.LittleEndian.Uint64(fixedHeader[16:24])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	// 0x18-0x1F: data size
	dataSize := binary.LittleEndian.Uint64(fixedHeader[24:32])

	// 0x20-0x3F: SHA-256 checksum
	var stored [32]byte
	copy(stored[:], fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header JSON: %w", err)
	}
	if pad := padding(int64(headerSize)); pad > 0 {
		if _, err := io.CopyN(io.Discard, r, pad); err != nil {
			return nil, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	// Read through a LimitReader so a lying data size cannot force a huge
	// allocation before the stream runs dry.
	data, err := io.ReadAll(io.LimitReader(r, int64(dataSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if uint64(len(data)) != dataSize {
		return nil, fmt.Errorf("failed to read tensor data: %w", io.ErrUnexpectedEOF)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(headerJSON, data), stored); err != nil {
			return nil, err
		}
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	if header.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: header says %d", ErrUnsupportedVersion, header.FormatVersion)
	}
	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	index := make(map[string]int, len(header.Tensors))
	for i, t := range header.Tensors {
		index[t.Name] = i
	}
	return &Reader{header: header, flags: flags, data: data, index: index}, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the fixed-header flags.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// Metadata returns the custom metadata.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the sorted names of all tensors in the file.
func (r *Reader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for _, t := range r.header.Tensors {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns metadata for a specific tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	meta := r.header.Tensors[i]
	return &meta, nil
}

// TensorData returns the raw bytes of a tensor. The slice aliases the
// reader's buffer and must not be modified.
func (r *Reader) TensorData(name string) ([]byte, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > int64(len(r.data)) {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  name,
			Details: fmt.Sprintf("offset %d + size %d > data_size %d", meta.Offset, meta.Size, len(r.data)),
			Err:     ErrOutOfBounds,
		}
	}
	return r.data[meta.Offset : meta.Offset+meta.Size], nil
}
