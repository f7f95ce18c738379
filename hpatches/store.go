package hpatches

import (
	"fmt"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
)

// Store is the in-memory concatenated descriptor corpus for one
// HPatches-style descriptor set. It is immutable after construction:
// build it with Load or restore it through the cache gateway, then only
// read from it. Concurrent readers need no locking.
type Store[T model.Float] struct {
	name    string
	root    string
	nanFill float64

	sequences []string
	seqIndex  map[string]int
	counts    []int
	offsets   model.OffsetTable

	dim   int
	total int

	// data is dim x (total * NumImageSlots), slot-major: the column for
	// (absolute index a, image slot s) is s*total + a.
	data *matrix.Matrix[T]
}

// Name returns the descriptor-set name.
func (s *Store[T]) Name() string { return s.name }

// Root returns the dataset root path the store was built from.
func (s *Store[T]) Root() string { return s.root }

// Variant returns model.VariantHPatches.
func (s *Store[T]) Variant() model.Variant { return model.VariantHPatches }

// Dim returns the descriptor dimensionality.
func (s *Store[T]) Dim() int { return s.dim }

// Total returns the total number of descriptor-index slots across all
// sequences (NOT multiplied by the 16-slot image axis).
func (s *Store[T]) Total() int { return s.total }

// Sequences returns the insertion-ordered sequence names.
func (s *Store[T]) Sequences() []string { return s.sequences }

// Counts returns the per-sequence descriptor-index counts.
func (s *Store[T]) Counts() []int { return s.counts }

// Offsets returns the sequence offset table.
func (s *Store[T]) Offsets() model.OffsetTable { return s.offsets }

// NaNFill returns the NaN replacement value the store was loaded with.
// It is NaN itself when the loader kept NaN entries untouched.
func (s *Store[T]) NaNFill() float64 { return s.nanFill }

// Data returns the full concatenated matrix. Treat it as read-only.
func (s *Store[T]) Data() *matrix.Matrix[T] { return s.data }

func (s *Store[T]) sequenceIndex(name string) (int, error) {
	si, ok := s.seqIndex[name]
	if !ok {
		return 0, &model.UnknownSequenceError{Name: name}
	}
	return si, nil
}

// col returns the stored column for (absolute index, image slot).
func (s *Store[T]) col(abs, slot int) []T {
	return s.data.Col(slot*s.total + abs)
}

// Get resolves each (sequence, image, index) key under the given noise
// level and returns the requested descriptor columns in input order.
//
// images[k] is the 1-based position within the 6-entry noise-level set;
// indices[k] is the 1-based descriptor index within the sequence. All
// argument slices must have equal length.
func (s *Store[T]) Get(sequences []string, level model.NoiseLevel, images, indices []int) (*matrix.Matrix[T], error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownNoiseLevel, uint8(level))
	}
	if len(images) != len(sequences) {
		return nil, &model.LengthMismatchError{Arg: "images", Want: len(sequences), Got: len(images)}
	}
	if len(indices) != len(sequences) {
		return nil, &model.LengthMismatchError{Arg: "indices", Want: len(sequences), Got: len(indices)}
	}

	set := level.Set()
	out := matrix.New[T](s.dim, len(sequences))
	for k := range sequences {
		si, err := s.sequenceIndex(sequences[k])
		if err != nil {
			return nil, err
		}
		if images[k] < 1 || images[k] > len(set) {
			return nil, &model.IndexError{Kind: "image", Index: images[k], Limit: len(set)}
		}
		if indices[k] < 1 || indices[k] > s.counts[si] {
			return nil, &model.IndexError{Kind: "descriptor", Index: indices[k], Limit: s.counts[si]}
		}
		abs := s.offsets[si] + indices[k] - 1
		copy(out.Col(k), s.col(abs, set[images[k]-1]))
	}
	return out, nil
}

// GetImage returns every descriptor of one (sequence, noise level, image)
// triple in ascending index order, as a dim x count matrix.
func (s *Store[T]) GetImage(sequence string, level model.NoiseLevel, image int) (*matrix.Matrix[T], error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownNoiseLevel, uint8(level))
	}
	set := level.Set()
	if image < 1 || image > len(set) {
		return nil, &model.IndexError{Kind: "image", Index: image, Limit: len(set)}
	}
	si, err := s.sequenceIndex(sequence)
	if err != nil {
		return nil, err
	}

	slot := set[image-1]
	out := matrix.New[T](s.dim, s.counts[si])
	for i := 0; i < s.counts[si]; i++ {
		copy(out.Col(i), s.col(s.offsets[si]+i, slot))
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
