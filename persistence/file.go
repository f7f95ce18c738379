package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/descgo/model"
)

// Save serializes the snapshot to path atomically: the payload is written
// to a temp file in the same directory and renamed into place only after
// everything (including the checksum) is on disk. A failed save never
// leaves a cache file behind.
func Save[T model.Float](path string, snap *Snapshot[T], comp Compression) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing to cache invalid store: %w", err)
	}
	header, err := snap.header(comp)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()
	_ = tmp.Chmod(0644)

	// Header goes first with a zero checksum; it is rewritten once the
	// payload checksum and stored size are known.
	if err := binary.Write(tmp, binary.LittleEndian, header); err != nil {
		return err
	}

	cw := NewChecksumWriter(tmp)
	var (
		payload io.Writer = cw
		finish  func() error
	)
	switch comp {
	case CompressionNone:
	case CompressionZstd:
		enc, err := zstd.NewWriter(cw)
		if err != nil {
			return err
		}
		payload, finish = enc, enc.Close
	case CompressionLZ4:
		lw := lz4.NewWriter(cw)
		payload, finish = lw, lw.Close
	default:
		return fmt.Errorf("unknown compression codec: %d", comp)
	}

	buf := bufio.NewWriterSize(payload, 256*1024)
	if err := snap.encodePayload(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if finish != nil {
		if err := finish(); err != nil {
			return err
		}
	}

	header.Checksum = cw.Sum()
	header.PayloadSize = uint64(cw.Count())
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(tmp, binary.LittleEndian, header); err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = "" // success: keep the final file
	return nil
}

// Load deserializes a snapshot from path, verifying the header and the
// payload checksum. Any corruption is surfaced as an error; a truncated or
// tampered cache never yields a partial snapshot.
func Load[T model.Float](path string) (*Snapshot[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := readHeader[T](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cr := NewChecksumReader(io.LimitReader(f, int64(header.PayloadSize)))
	snap, err := decodeStored[T](cr, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Consume any trailing compressed bytes so the checksum covers the
	// whole stored payload.
	if _, err := io.Copy(io.Discard, cr); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cr.Verify(header.Checksum); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// LoadMapped deserializes an uncompressed snapshot through a memory map,
// avoiding read syscalls on multi-gigabyte caches. Compressed caches fall
// back to the streaming Load path.
func LoadMapped[T model.Float](path string) (*Snapshot[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := readHeader[T](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if Compression(header.Compression) != CompressionNone {
		return Load[T](path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: mmap: %w", path, err)
	}
	defer m.Unmap()

	if uint64(len(m)) < headerSize+header.PayloadSize {
		return nil, fmt.Errorf("%s: truncated cache: %d bytes, header promises %d",
			path, len(m), headerSize+header.PayloadSize)
	}
	payload := m[headerSize : headerSize+header.PayloadSize]

	cr := NewChecksumReader(bytes.NewReader(payload))
	snap, err := decodePayload[T](cr, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := io.Copy(io.Discard, cr); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cr.Verify(header.Checksum); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func readHeader[T model.Float](r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if got, want := model.ElemKind(header.ElemKind), model.KindOf[T](); got != want {
		return nil, fmt.Errorf("%w: cache has %s, want %s", ErrElemKindMismatch, got, want)
	}
	return &header, nil
}

// decodeStored decodes the stored payload bytes, decompressing per the
// header codec.
func decodeStored[T model.Float](stored io.Reader, header *FileHeader) (*Snapshot[T], error) {
	switch Compression(header.Compression) {
	case CompressionNone:
		return decodePayload[T](stored, header)
	case CompressionZstd:
		dec, err := zstd.NewReader(stored)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return decodePayload[T](dec, header)
	case CompressionLZ4:
		return decodePayload[T](lz4.NewReader(stored), header)
	default:
		return nil, fmt.Errorf("unknown compression codec: %d", header.Compression)
	}
}
