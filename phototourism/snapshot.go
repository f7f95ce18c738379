package phototourism

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
		Variant:           model.VariantPhototourism,
		Dim:               s.dim,
		SlotCount:         1,
		Total:             s.total,
		NaNFill:           s.nanFill,
		Sequences:         s.sequences,
		Counts:            s.counts,
		Offsets:           s.offsets,
		CorrespondenceIDs: s.correspondenceIDs,
		ReferenceImageIDs: s.referenceImageIDs,
		Data:              s.data.Data(),
	}
}

// FromSnapshot restores a store from a cache snapshot, re-attaching the
// identity metadata (dataset root, metadata root, descriptor name) that is
// not persisted.
func FromSnapshot[T model.Float](snap *persistence.Snapshot[T], root, metaRoot, name string) (*Store[T], error) {
	if snap.Variant != model.VariantPhototourism {
		return nil, fmt.Errorf("cannot restore phototourism store from %s snapshot", snap.Variant)
	}
	if snap.SlotCount != 1 {
		return nil, fmt.Errorf("phototourism snapshot has %d image slots, want 1", snap.SlotCount)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	m, err := matrix.FromData(snap.Dim, snap.Total, snap.Data)
	if err != nil {
		return nil, err
	}
	if metaRoot == "" {
		metaRoot = root
	}
	return &Store[T]{
		name:              name,
		root:              root,
		metaRoot:          metaRoot,
		nanFill:           snap.NaNFill,
		sequences:         snap.Sequences,
		seqIndex:          buildSeqIndex(snap.Sequences),
		counts:            snap.Counts,
		offsets:           snap.Offsets,
		dim:               snap.Dim,
		total:             snap.Total,
		data:              m,
		correspondenceIDs: snap.CorrespondenceIDs,
		referenceImageIDs: snap.ReferenceImageIDs,
	}, nil
}
