package persistence

import (
	"io"
	"unsafe"
)

// Raw slice I/O for the payload sections. Slices are written as native
// little-endian memory (x86/ARM); no per-element encoding, no allocation
// on the write path.

func writeSlice[E any](w io.Writer, s []E) error {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
	_, err := w.Write(b)
	return err
}

func readSlice[E any](r io.Reader, count int) ([]E, error) {
	if count == 0 {
		return nil, nil
	}
	s := make([]E, count)
	size := int(unsafe.Sizeof(s[0]))
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), count*size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}
