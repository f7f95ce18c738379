package persistence

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// CRC32 (IEEE) is used for payload integrity. It detects accidental
// storage corruption; it is not tamper-proof.

// ChecksumWriter wraps an io.Writer, computing a running CRC32 and byte
// count of everything written through it.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{w: w, hash: crc32.NewIEEE()}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		cw.hash.Write(p[:n])
		cw.n += int64(n)
	}
	return n, err
}

// Sum returns the current checksum value.
func (cw *ChecksumWriter) Sum() uint32 { return cw.hash.Sum32() }

// Count returns the number of bytes written so far.
func (cw *ChecksumWriter) Count() int64 { return cw.n }

// ChecksumReader wraps an io.Reader and computes a running CRC32 of the
// bytes read through it.
type ChecksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

// NewChecksumReader creates a new checksumming reader.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, hash: crc32.NewIEEE()}
}

// Read implements io.Reader.
func (cr *ChecksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}

// Verify checks the computed checksum against the expected value.
func (cr *ChecksumReader) Verify(expected uint32) error {
	if actual := cr.hash.Sum32(); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}
