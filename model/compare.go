package model

import "math"

// CompareColumns compares two descriptor columns element-for-element for
// the consistency checkers. NaN compares equal to NaN so that stores
// loaded with the keep-NaN sentinel still verify against their raw files.
func CompareColumns[T Float](key string, got, want []T) error {
	if len(got) != len(want) {
		return &LengthMismatchError{Arg: "raw column", Want: len(got), Got: len(want)}
	}
	for i := range got {
		g, w := float64(got[i]), float64(want[i])
		if g == w || (math.IsNaN(g) && math.IsNaN(w)) {
			continue
		}
		return &ConsistencyError{Key: key, Element: i, Got: g, Want: w}
	}
	return nil
}

// SampleIndices returns a small 1-based index sample for a sequence of
// count descriptors: first, middle, last.
func SampleIndices(count int) []int {
	switch {
	case count <= 0:
		return nil
	case count == 1:
		return []int{1}
	case count == 2:
		return []int{1, 2}
	default:
		return []int{1, count/2 + 1, count}
	}
}
