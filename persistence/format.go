package persistence

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies descgo cache files (ASCII: "DSC1").
	MagicNumber = 0x44534331
	// Version is the current cache format version (v1.0.0).
	Version = 0x00010000

	// headerSize is the fixed encoded size of FileHeader.
	headerSize = 64
)

var (
	ErrInvalidMagic     = errors.New("invalid magic number")
	ErrInvalidVersion   = errors.New("unsupported cache format version")
	ErrElemKindMismatch = errors.New("cache element kind does not match requested type")
)

// Compression selects the payload codec of a cache file.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionZstd Compression = 1
	CompressionLZ4  Compression = 2
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression resolves a codec by its stable name.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression codec: %q", s)
	}
}

// FileHeader is the fixed 64-byte header at the start of every cache file.
type FileHeader struct {
	Magic       uint32 // 0x44534331 ("DSC1")
	Version     uint32 // Cache format version
	Variant     uint8  // model.Variant
	ElemKind    uint8  // model.ElemKind
	Compression uint8  // Payload codec
	Padding1    [1]byte
	Dim         uint32 // Descriptor dimensionality
	SlotCount   uint32 // Image-axis slots (16 for hpatches, 1 for phototourism)
	Total       uint64 // Index-axis size (descriptor slots, not raw columns)
	SeqCount    uint32 // Number of sequences
	Checksum    uint32 // CRC32 of the stored payload bytes
	PayloadSize uint64 // Stored (possibly compressed) payload size in bytes
	NaNFillBits uint64 // math.Float64bits of the NaN-fill value
	Reserved    [12]byte
}
