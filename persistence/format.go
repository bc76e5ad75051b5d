package persistence

import "errors"

const (
	// MagicNumber identifies k-tree binary files (ASCII: "KTR1").
	MagicNumber = 0x4B545231
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000
)

// Compression identifies the codec applied to the node stream after the header.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("unsupported compression codec")
)

// FileHeader is the fixed-size header at the start of every tree file.
// It is stored uncompressed so readers can select the body codec.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	Padding     [3]byte
	Order       uint32
	Dimension   uint32
	ObjectCount uint64
	NodeCount   uint64
	Reserved    [16]byte
}
