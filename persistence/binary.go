// Package persistence provides the binary on-disk format for clustering
// trees: a fixed little-endian header followed by a depth-first node stream,
// optionally compressed.
package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Writer writes the tree stream in little-endian binary format.
type Writer struct {
	w         io.Writer
	byteOrder binary.ByteOrder
	buf       []byte
}

// NewWriter creates a new binary writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:         w,
		byteOrder: binary.LittleEndian,
	}
}

// WriteHeader writes the file header, filling in magic and version.
func (bw *Writer) WriteHeader(header *FileHeader) error {
	header.Magic = MagicNumber
	header.Version = Version
	return binary.Write(bw.w, bw.byteOrder, header)
}

// WriteUint8 writes a single byte.
func (bw *Writer) WriteUint8(v uint8) error {
	_, err := bw.w.Write([]byte{v})
	return err
}

// WriteUint32 writes a uint32.
func (bw *Writer) WriteUint32(v uint32) error {
	var b [4]byte
	bw.byteOrder.PutUint32(b[:], v)
	_, err := bw.w.Write(b[:])
	return err
}

// WriteUint64 writes a uint64.
func (bw *Writer) WriteUint64(v uint64) error {
	var b [8]byte
	bw.byteOrder.PutUint64(b[:], v)
	_, err := bw.w.Write(b[:])
	return err
}

// WriteFloat32Slice writes a float32 slice with an explicit byte order, so
// output is identical across host endianness.
func (bw *Writer) WriteFloat32Slice(vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	need := len(vec) * 4
	if cap(bw.buf) < need {
		bw.buf = make([]byte, need)
	}
	buf := bw.buf[:need]
	for i, v := range vec {
		bw.byteOrder.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := bw.w.Write(buf)
	return err
}

// Reader reads the tree stream from binary format.
type Reader struct {
	r         io.Reader
	byteOrder binary.ByteOrder
	buf       []byte
}

// NewReader creates a new binary reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:         r,
		byteOrder: binary.LittleEndian,
	}
}

// ReadHeader reads and validates the file header.
func (br *Reader) ReadHeader() (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(br.r, br.byteOrder, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if Compression(header.Compression) > CompressionLZ4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompression, header.Compression)
	}
	return &header, nil
}

// ReadUint8 reads a single byte.
func (br *Reader) ReadUint8() (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(br.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 reads a uint32.
func (br *Reader) ReadUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(br.r, b[:]); err != nil {
		return 0, err
	}
	return br.byteOrder.Uint32(b[:]), nil
}

// ReadUint64 reads a uint64.
func (br *Reader) ReadUint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(br.r, b[:]); err != nil {
		return 0, err
	}
	return br.byteOrder.Uint64(b[:]), nil
}

// ReadFloat32SliceInto reads a float32 slice into the provided buffer.
func (br *Reader) ReadFloat32SliceInto(vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	need := len(vec) * 4
	if cap(br.buf) < need {
		br.buf = make([]byte, need)
	}
	buf := br.buf[:need]
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return err
	}
	for i := range vec {
		vec[i] = math.Float32frombits(br.byteOrder.Uint32(buf[i*4:]))
	}
	return nil
}

// SaveToFile writes a file atomically: the content goes to a temp file in the
// same directory, which is fsynced and renamed over the target.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile reads a file through a buffered reader.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 256*1024)
	return readFunc(buf)
}
