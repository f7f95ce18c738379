package model

import "fmt"

// NumImageSlots is the size of the fixed image axis of an HPatches
// sequence: the reference image plus 5 levels for each of the 3
// geometric-transform categories.
const NumImageSlots = 16

// LevelsPerCategory is the number of perturbation levels per category.
const LevelsPerCategory = 5

// ImageAxis is the fixed ordered list of image labels within a sequence.
// Slot 0 is the reference image; slots 1..15 are the perturbed variants.
var ImageAxis = [NumImageSlots]string{
	"ref",
	"e1", "e2", "e3", "e4", "e5",
	"h1", "h2", "h3", "h4", "h5",
	"t1", "t2", "t3", "t4", "t5",
}

// NoiseLevel is a geometric-transform category of the HPatches benchmark.
type NoiseLevel uint8

const (
	NoiseEasy NoiseLevel = iota + 1
	NoiseHard
	NoiseTough
)

// NoiseLevels lists all defined levels in canonical order.
var NoiseLevels = [3]NoiseLevel{NoiseEasy, NoiseHard, NoiseTough}

// noiseSets maps each level to its 6 image-axis slots: the reference
// slot plus the 5 level slots of that category. Built at compile time;
// never mutated.
var noiseSets = map[NoiseLevel][6]int{
	NoiseEasy:  {0, 1, 2, 3, 4, 5},
	NoiseHard:  {0, 6, 7, 8, 9, 10},
	NoiseTough: {0, 11, 12, 13, 14, 15},
}

// Set returns the ordered image-axis slots belonging to the level.
func (n NoiseLevel) Set() [6]int {
	return noiseSets[n]
}

// Valid reports whether n is one of the defined levels.
func (n NoiseLevel) Valid() bool {
	_, ok := noiseSets[n]
	return ok
}

// String returns the canonical level name.
func (n NoiseLevel) String() string {
	switch n {
	case NoiseEasy:
		return "easy"
	case NoiseHard:
		return "hard"
	case NoiseTough:
		return "tough"
	default:
		return fmt.Sprintf("NoiseLevel(%d)", uint8(n))
	}
}

// ParseNoiseLevel resolves a level by its canonical name.
func ParseNoiseLevel(s string) (NoiseLevel, error) {
	switch s {
	case "easy":
		return NoiseEasy, nil
	case "hard":
		return NoiseHard, nil
	case "tough":
		return NoiseTough, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNoiseLevel, s)
	}
}
