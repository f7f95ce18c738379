// Package normalize provides optional post-processing transforms applied
// to a finished descriptor store. A Normalizer runs once, in place, over
// the whole concatenated matrix after loading (or cache restore) and
// before the store is handed to callers.
package normalize

import (
	"math"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
)

// Normalizer transforms a descriptor matrix in place.
type Normalizer[T model.Float] interface {
	// Normalize rewrites m column by column. It must not change the shape.
	Normalize(m *matrix.Matrix[T])
	// Name identifies the transform for logging.
	Name() string
}

// L2 scales every descriptor column to unit Euclidean norm.
// Zero columns are left untouched.
type L2[T model.Float] struct{}

// Name implements Normalizer.
func (L2[T]) Name() string { return "l2" }

// Normalize implements Normalizer.
func (L2[T]) Normalize(m *matrix.Matrix[T]) {
	for c := 0; c < m.Cols(); c++ {
		col := m.Col(c)
		var sum float64
		for _, v := range col {
			sum += float64(v) * float64(v)
		}
		if sum == 0 {
			continue
		}
		inv := 1 / math.Sqrt(sum)
		for i, v := range col {
			col[i] = T(float64(v) * inv)
		}
	}
}
