package phototourism

import (
	"fmt"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
)

// Store is the in-memory concatenated descriptor corpus for one
// Phototourism-style descriptor set. Immutable after construction.
type Store[T model.Float] struct {
	name     string
	root     string
	metaRoot string
	nanFill  float64

	sequences []string
	seqIndex  map[string]int
	counts    []int
	offsets   model.OffsetTable

	dim   int
	total int

	// data is dim x total; sequence blocks are contiguous column ranges.
	data *matrix.Matrix[T]

	// Ground-truth metadata, one entry per descriptor column, 0-based.
	correspondenceIDs []int64
	referenceImageIDs []int64
}

// Name returns the descriptor-set name.
func (s *Store[T]) Name() string { return s.name }

// Root returns the dataset root path the store was built from.
func (s *Store[T]) Root() string { return s.root }

// MetaRoot returns the metadata root path.
func (s *Store[T]) MetaRoot() string { return s.metaRoot }

// Variant returns model.VariantPhototourism.
func (s *Store[T]) Variant() model.Variant { return model.VariantPhototourism }

// Dim returns the descriptor dimensionality.
func (s *Store[T]) Dim() int { return s.dim }

// Total returns the total descriptor count across all sequences.
func (s *Store[T]) Total() int { return s.total }

// Sequences returns the ordered sequence names.
func (s *Store[T]) Sequences() []string { return s.sequences }

// Counts returns the per-sequence descriptor counts.
func (s *Store[T]) Counts() []int { return s.counts }

// Offsets returns the sequence offset table.
func (s *Store[T]) Offsets() model.OffsetTable { return s.offsets }

// NaNFill returns the NaN replacement value the store was loaded with.
func (s *Store[T]) NaNFill() float64 { return s.nanFill }

// Data returns the full concatenated matrix. Treat it as read-only.
func (s *Store[T]) Data() *matrix.Matrix[T] { return s.data }

// CorrespondenceIDs returns the per-descriptor correspondence ids.
func (s *Store[T]) CorrespondenceIDs() []int64 { return s.correspondenceIDs }

// ReferenceImageIDs returns the per-descriptor reference image ids.
func (s *Store[T]) ReferenceImageIDs() []int64 { return s.referenceImageIDs }

func (s *Store[T]) sequenceIndex(name string) (int, error) {
	si, ok := s.seqIndex[name]
	if !ok {
		return 0, &model.UnknownSequenceError{Name: name}
	}
	return si, nil
}

// Get returns the descriptors at the 1-based indices within one sequence,
// along with the resolved 0-based sequence id per returned column.
func (s *Store[T]) Get(sequence string, indices []int) (*matrix.Matrix[T], []int, error) {
	si, err := s.sequenceIndex(sequence)
	if err != nil {
		return nil, nil, err
	}
	seqIDs := make([]int, len(indices))
	for k := range seqIDs {
		seqIDs[k] = si
	}
	m, err := s.gather(seqIDs, indices)
	if err != nil {
		return nil, nil, err
	}
	return m, seqIDs, nil
}

// GetByIDs is the pre-resolved form of Get: seqIDs[k] is the 0-based
// sequence id for indices[k]. Both slices must have equal length.
func (s *Store[T]) GetByIDs(seqIDs, indices []int) (*matrix.Matrix[T], []int, error) {
	if len(indices) != len(seqIDs) {
		return nil, nil, &model.LengthMismatchError{Arg: "indices", Want: len(seqIDs), Got: len(indices)}
	}
	m, err := s.gather(seqIDs, indices)
	if err != nil {
		return nil, nil, err
	}
	return m, seqIDs, nil
}

func (s *Store[T]) gather(seqIDs, indices []int) (*matrix.Matrix[T], error) {
	out := matrix.New[T](s.dim, len(indices))
	for k := range indices {
		si := seqIDs[k]
		if si < 0 || si >= len(s.sequences) {
			return nil, fmt.Errorf("sequence id %d out of range [0, %d)", si, len(s.sequences))
		}
		if indices[k] < 1 || indices[k] > s.counts[si] {
			return nil, &model.IndexError{Kind: "descriptor", Index: indices[k], Limit: s.counts[si]}
		}
		copy(out.Col(k), s.data.Col(s.offsets[si]+indices[k]-1))
	}
	return out, nil
}

func buildSeqIndex(sequences []string) map[string]int {
	idx := make(map[string]int, len(sequences))
	for i, name := range sequences {
		idx[name] = i
	}
	return idx
}
