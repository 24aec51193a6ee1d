package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Write encodes header and tensors to w.
//
// Offsets and sizes in header.Tensors are recomputed from tensors in the
// order given; FormatVersion and a zero CreatedAt are filled in.
func Write(w io.Writer, header Header, tensors []Tensor) error {
	header.FormatVersion = FormatVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	header.Tensors = make([]TensorMeta, 0, len(tensors))

	var dataSize int64
	for _, t := range tensors {
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   t.Name,
			DType:  t.DType,
			Shape:  append([]int(nil), t.Shape...),
			Offset: dataSize,
			Size:   int64(len(t.Data)),
		})
		dataSize += int64(len(t.Data))
	}
	if err := ValidateHeader(&header, dataSize, ValidationStrict); err != nil {
		return fmt.Errorf("invalid tensors: %w", err)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	data := make([]byte, 0, dataSize)
	for _, t := range tensors {
		data = append(data, t.Data...)
	}
	checksum := ComputeChecksum(headerJSON, data)

	fixedHeader := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes "FFNN"
	copy(fixedHeader[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.ModelType == ModelTypeGradients {
		flags |= FlagGradients
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x0C-0x0F: Reserved (0)

	// 0x10-0x17: Header size
	binary.LittleEndian.PutUint64(fixedHeader[16:24], uint64(len(headerJSON)))

	// 0x18-0x1F: Data size
	binary.LittleEndian.PutUint64(fixedHeader[24:32], uint64(dataSize))

	// 0x20-0x3F: SHA-256 checksum
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}
	if pad := padding(int64(len(headerJSON))); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// WriteFile writes header and tensors to path. The file is written to a
// temporary sibling first and renamed into place, so a failed write never
// leaves a truncated file behind.
func WriteFile(path string, header Header, tensors []Tensor) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Write(tmp, header, tensors); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
