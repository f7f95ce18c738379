package hpatches

import (
	"fmt"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/persistence"
)

// Snapshot converts the store to its serialized form for the cache
// gateway. The data slice is shared, not copied.
func (s *Store[T]) Snapshot() *persistence.Snapshot[T] {
	return &persistence.Snapshot[T]{
		Variant:   model.VariantHPatches,
		Dim:       s.dim,
		SlotCount: model.NumImageSlots,
		Total:     s.total,
		NaNFill:   s.nanFill,
		Sequences: s.sequences,
		Counts:    s.counts,
		Offsets:   s.offsets,
		Data:      s.data.Data(),
	}
}

// FromSnapshot restores a store from a cache snapshot, re-attaching the
// identity metadata (dataset root, descriptor name) that is not persisted.
func FromSnapshot[T model.Float](snap *persistence.Snapshot[T], root, name string) (*Store[T], error) {
	if snap.Variant != model.VariantHPatches {
		return nil, fmt.Errorf("cannot restore hpatches store from %s snapshot", snap.Variant)
	}
	if snap.SlotCount != model.NumImageSlots {
		return nil, fmt.Errorf("hpatches snapshot has %d image slots, want %d", snap.SlotCount, model.NumImageSlots)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	m, err := matrix.FromData(snap.Dim, snap.Total*snap.SlotCount, snap.Data)
	if err != nil {
		return nil, err
	}
	return &Store[T]{
		name:      name,
		root:      root,
		nanFill:   snap.NaNFill,
		sequences: snap.Sequences,
		seqIndex:  buildSeqIndex(snap.Sequences),
		counts:    snap.Counts,
		offsets:   snap.Offsets,
		dim:       snap.Dim,
		total:     snap.Total,
		data:      m,
	}, nil
}
