package phototourism

import (
	"fmt"
	"path/filepath"

	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/tableio"
)

// Verify is a correctness oracle, not a production path: it re-reads the
// raw source of the (sequence, index) key, walking the per-image files in
// listed order until the file containing the index is found (or taking the
// row of the single per-sequence table), and compares element-for-element
// with the accessor's answer.
func (s *Store[T]) Verify(sequence string, index int) error {
	got, _, err := s.Get(sequence, []int{index})
	if err != nil {
		return err
	}

	want, err := s.rawColumn(sequence, index)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s[%d]", sequence, index)
	return model.CompareColumns(key, got.Col(0), want)
}

// VerifyAll checks a sample of descriptor indices (first, middle, last)
// for every sequence. The first error stops the sweep.
func (s *Store[T]) VerifyAll() error {
	for i, sequence := range s.sequences {
		for _, index := range model.SampleIndices(s.counts[i]) {
			if err := s.Verify(sequence, index); err != nil {
				return err
			}
		}
	}
	return nil
}

// rawColumn independently re-derives the descriptor at the 1-based index
// from the raw files, re-running the layout auto-detection.
func (s *Store[T]) rawColumn(sequence string, index int) ([]T, error) {
	dir := filepath.Join(s.root, s.name)
	perImage, err := detectPerImageLayout(dir, s.sequences[0])
	if err != nil {
		return nil, err
	}

	if !perImage {
		path := filepath.Join(dir, sequence+".txt")
		raw, err := tableio.ReadTable[T](path, s.nanFill)
		if err != nil {
			return nil, err
		}
		if index > raw.Cols() {
			return nil, &model.IndexError{Kind: "descriptor", Index: index, Limit: raw.Cols()}
		}
		return raw.Col(index - 1), nil
	}

	seqDir := filepath.Join(dir, sequence)
	files, err := listFiles(seqDir)
	if err != nil {
		return nil, err
	}
	seen := 0
	for _, name := range files {
		raw, err := tableio.ReadTable[T](filepath.Join(seqDir, name), s.nanFill)
		if err != nil {
			return nil, err
		}
		if index <= seen+raw.Cols() {
			return raw.Col(index - 1 - seen), nil
		}
		seen += raw.Cols()
	}
	return nil, &model.IndexError{Kind: "descriptor", Index: index, Limit: seen}
}
