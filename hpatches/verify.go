package hpatches

import (
	"fmt"
	"path/filepath"

	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/tableio"
)

// Verify is a correctness oracle, not a production path: it re-derives the
// raw on-disk filename for the (sequence, level, image) key, re-reads that
// file independently of the store, and compares the descriptor at the given
// 1-based index element-for-element with the accessor's answer. Any
// mismatch means an addressing bug or a corrupted cache.
func (s *Store[T]) Verify(sequence string, level model.NoiseLevel, image, index int) error {
	got, err := s.Get([]string{sequence}, level, []int{image}, []int{index})
	if err != nil {
		return err
	}

	slot := level.Set()[image-1]
	label := model.ImageAxis[slot]
	path := filepath.Join(s.root, s.name, sequence, label+".csv")
	raw, err := tableio.ReadTable[T](path, s.nanFill)
	if err != nil {
		return err
	}
	if raw.Rows() != s.dim {
		return &model.DimensionMismatchError{Path: path, Expected: s.dim, Actual: raw.Rows()}
	}
	if index > raw.Cols() {
		return &model.IndexError{Kind: "descriptor", Index: index, Limit: raw.Cols()}
	}

	key := fmt.Sprintf("%s/%s/%s[%d]", sequence, level, label, index)
	return model.CompareColumns(key, got.Col(0), raw.Col(index-1))
}

// VerifyAll sweeps every (sequence, noise level, image) triple, checking a
// sample of descriptor indices per triple: the first, a middle, and the
// last index. The first error stops the sweep.
func (s *Store[T]) VerifyAll() error {
	for _, sequence := range s.sequences {
		si := s.seqIndex[sequence]
		count := s.counts[si]
		for _, level := range model.NoiseLevels {
			for image := 1; image <= len(level.Set()); image++ {
				for _, index := range model.SampleIndices(count) {
					if err := s.Verify(sequence, level, image, index); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
