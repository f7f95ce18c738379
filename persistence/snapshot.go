package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/descgo/internal/conv"
	"github.com/hupe1980/descgo/model"
)

// Snapshot is the variant-neutral serialized form of a descriptor store.
// The loaders convert their Store types to and from this shape; the cache
// gateway only ever sees snapshots.
//
// Identity metadata (dataset root, descriptor name) is deliberately NOT
// part of a snapshot: a cache file may be relocated, so the opener
// re-attaches those fields after a cache load.
type Snapshot[T model.Float] struct {
	Variant   model.Variant
	Dim       int
	SlotCount int
	Total     int
	NaNFill   float64

	Sequences []string
	Counts    []int
	Offsets   model.OffsetTable

	// Phototourism only; nil for hpatches.
	CorrespondenceIDs []int64
	ReferenceImageIDs []int64

	// Data is the column-major dim x (Total*SlotCount) payload.
	Data []T
}

// Validate checks the structural invariants a snapshot must satisfy before
// it is written or after it is read.
func (s *Snapshot[T]) Validate() error {
	if s.Dim <= 0 {
		return fmt.Errorf("invalid dimension: %d", s.Dim)
	}
	if s.SlotCount < 1 {
		return fmt.Errorf("invalid slot count: %d", s.SlotCount)
	}
	if len(s.Sequences) != len(s.Counts) {
		return fmt.Errorf("%d sequences but %d counts", len(s.Sequences), len(s.Counts))
	}
	if err := s.Offsets.Validate(s.Counts, s.Total); err != nil {
		return err
	}
	if want := s.Dim * s.Total * s.SlotCount; len(s.Data) != want {
		return fmt.Errorf("data has %d elements, want %d", len(s.Data), want)
	}
	switch s.Variant {
	case model.VariantHPatches:
		if s.CorrespondenceIDs != nil || s.ReferenceImageIDs != nil {
			return fmt.Errorf("hpatches snapshot carries phototourism auxiliary arrays")
		}
	case model.VariantPhototourism:
		if len(s.CorrespondenceIDs) != s.Total || len(s.ReferenceImageIDs) != s.Total {
			return fmt.Errorf("auxiliary arrays have %d/%d entries, want %d",
				len(s.CorrespondenceIDs), len(s.ReferenceImageIDs), s.Total)
		}
	default:
		return fmt.Errorf("%w: %d", model.ErrUnknownVariant, uint8(s.Variant))
	}
	return nil
}

func (s *Snapshot[T]) header(comp Compression) (*FileHeader, error) {
	dim, err := conv.IntToUint32(s.Dim)
	if err != nil {
		return nil, err
	}
	slots, err := conv.IntToUint32(s.SlotCount)
	if err != nil {
		return nil, err
	}
	seqCount, err := conv.IntToUint32(len(s.Sequences))
	if err != nil {
		return nil, err
	}
	total, err := conv.IntToUint64(s.Total)
	if err != nil {
		return nil, err
	}
	return &FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Variant:     uint8(s.Variant),
		ElemKind:    uint8(model.KindOf[T]()),
		Compression: uint8(comp),
		Dim:         dim,
		SlotCount:   slots,
		Total:       total,
		SeqCount:    seqCount,
		NaNFillBits: math.Float64bits(s.NaNFill),
	}, nil
}

// encodePayload writes the payload sections in their fixed order:
// sequence names, counts, offsets, auxiliary arrays, data.
func (s *Snapshot[T]) encodePayload(w io.Writer) error {
	var scratch []byte
	for _, name := range s.Sequences {
		scratch = binary.AppendUvarint(scratch[:0], uint64(len(name)))
		scratch = append(scratch, name...)
		if _, err := w.Write(scratch); err != nil {
			return err
		}
	}

	counts := make([]uint64, len(s.Counts))
	offsets := make([]uint64, len(s.Offsets))
	for i, c := range s.Counts {
		v, err := conv.IntToUint64(c)
		if err != nil {
			return err
		}
		counts[i] = v
	}
	for i, o := range s.Offsets {
		v, err := conv.IntToUint64(o)
		if err != nil {
			return err
		}
		offsets[i] = v
	}
	if err := writeSlice(w, counts); err != nil {
		return err
	}
	if err := writeSlice(w, offsets); err != nil {
		return err
	}

	if s.Variant == model.VariantPhototourism {
		if err := writeSlice(w, s.CorrespondenceIDs); err != nil {
			return err
		}
		if err := writeSlice(w, s.ReferenceImageIDs); err != nil {
			return err
		}
	}

	return writeSlice(w, s.Data)
}

// decodePayload reads the payload sections described by the header.
func decodePayload[T model.Float](r io.Reader, header *FileHeader) (*Snapshot[T], error) {
	br := bufio.NewReaderSize(r, 256*1024)

	seqCount, err := conv.Uint32ToInt(header.SeqCount)
	if err != nil {
		return nil, err
	}
	dim, err := conv.Uint32ToInt(header.Dim)
	if err != nil {
		return nil, err
	}
	slots, err := conv.Uint32ToInt(header.SlotCount)
	if err != nil {
		return nil, err
	}
	total, err := conv.Uint64ToInt(header.Total)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot[T]{
		Variant:   model.Variant(header.Variant),
		Dim:       dim,
		SlotCount: slots,
		Total:     total,
		NaNFill:   math.Float64frombits(header.NaNFillBits),
	}

	snap.Sequences = make([]string, seqCount)
	for i := range snap.Sequences {
		n, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, fmt.Errorf("sequence name %d: %w", i, err)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(br, name); err != nil {
			return nil, fmt.Errorf("sequence name %d: %w", i, err)
		}
		snap.Sequences[i] = string(name)
	}

	counts, err := readSlice[uint64](br, seqCount)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	offsets, err := readSlice[uint64](br, seqCount)
	if err != nil {
		return nil, fmt.Errorf("offsets: %w", err)
	}
	snap.Counts = make([]int, seqCount)
	snap.Offsets = make(model.OffsetTable, seqCount)
	for i := range counts {
		if snap.Counts[i], err = conv.Uint64ToInt(counts[i]); err != nil {
			return nil, err
		}
		if snap.Offsets[i], err = conv.Uint64ToInt(offsets[i]); err != nil {
			return nil, err
		}
	}

	if snap.Variant == model.VariantPhototourism {
		if snap.CorrespondenceIDs, err = readSlice[int64](br, total); err != nil {
			return nil, fmt.Errorf("correspondence ids: %w", err)
		}
		if snap.ReferenceImageIDs, err = readSlice[int64](br, total); err != nil {
			return nil, fmt.Errorf("reference image ids: %w", err)
		}
	}

	if snap.Data, err = readSlice[T](br, dim*total*slots); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}
