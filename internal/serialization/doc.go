// Package serialization implements the binary file format networks and
// gradient snapshots are saved in.
//
//	Format Structure (little-endian):
//	  0x00 [4 bytes: Magic "FFNN"]
//	  0x04 [4 bytes: Version (uint32)]
//	  0x08 [4 bytes: Flags (uint32)]
//	  0x0C [4 bytes: Reserved]
//	  0x10 [8 bytes: Header Size (uint64)]
//	  0x18 [8 bytes: Data Size (uint64)]
//	  0x20 [32 bytes: SHA-256 of header JSON followed by tensor data]
//	  0x40 [Header: JSON metadata]
//	  [zero padding to a 64-byte boundary]
//	  [Tensor data: raw little-endian elements]
//
// The header names the model type, the activation, the topology and every
// tensor's dtype, shape, offset and size. Readers validate magic, version,
// limits, tensor names, offsets and the checksum before handing out data.
//
// Example usage:
//
//	// Save
//	err := serialization.WriteFile("model.ffnn", header, tensors)
//
//	// Load
//	r, err := serialization.Open("model.ffnn", serialization.ReaderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := r.TensorData("layer.0.weight")
package serialization
