package model

import "fmt"

// OffsetTable maps a sequence index to the first descriptor-index slot of
// that sequence in the concatenated store. It is the exclusive prefix sum
// over the per-sequence counts: offsets[0] == 0 and
// offsets[i] == offsets[i-1] + counts[i-1].
type OffsetTable []int

// NewOffsetTable builds the exclusive prefix sum over counts.
func NewOffsetTable(counts []int) OffsetTable {
	offsets := make(OffsetTable, len(counts))
	sum := 0
	for i, c := range counts {
		offsets[i] = sum
		sum += c
	}
	return offsets
}

// Total returns the total number of index slots covered by the table.
func (o OffsetTable) Total(counts []int) int {
	if len(o) == 0 {
		return 0
	}
	last := len(o) - 1
	return o[last] + counts[last]
}

// Validate checks the prefix-sum invariant against counts and the total
// index-axis size. A store whose offsets fail validation is unusable: any
// retrieval would address the wrong columns.
func (o OffsetTable) Validate(counts []int, total int) error {
	if len(o) != len(counts) {
		return fmt.Errorf("offset table length %d does not match count table length %d", len(o), len(counts))
	}
	sum := 0
	for i, c := range counts {
		if c < 0 {
			return fmt.Errorf("sequence %d has negative count %d", i, c)
		}
		if o[i] != sum {
			return fmt.Errorf("offset[%d] = %d, want prefix sum %d", i, o[i], sum)
		}
		sum += c
	}
	if sum != total {
		return fmt.Errorf("offsets cover %d index slots, store has %d", sum, total)
	}
	return nil
}
