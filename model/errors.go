package model

import (
	"errors"
	"fmt"
)

// Configuration errors. These fail before any I/O happens.
var (
	// ErrUnknownVariant is returned for an unrecognized dataset variant selector.
	ErrUnknownVariant = errors.New("unknown dataset variant")
	// ErrUnknownNoiseLevel is returned for an unrecognized noise-level name.
	ErrUnknownNoiseLevel = errors.New("unknown noise level")
)

// LengthMismatchError indicates that parallel argument slices of an accessor
// call do not have equal lengths.
type LengthMismatchError struct {
	Want int
	Got  int
	Arg  string
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: %s has %d entries, want %d", e.Arg, e.Got, e.Want)
}

// UnknownSequenceError indicates a sequence name that is not part of the store.
type UnknownSequenceError struct {
	Name string
}

func (e *UnknownSequenceError) Error() string {
	return fmt.Sprintf("unknown sequence: %q", e.Name)
}

// IndexError indicates a descriptor or image index outside its valid 1-based
// range.
type IndexError struct {
	Kind  string // "descriptor", "image", "sequence id"
	Index int
	Limit int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [1, %d]", e.Kind, e.Index, e.Limit)
}

// DimensionMismatchError indicates that a raw file's descriptor
// dimensionality disagrees with the rest of the corpus. This aborts a load;
// no partial store is produced or cached.
type DimensionMismatchError struct {
	Path     string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("descriptor dimension mismatch in %s: expected %d, got %d", e.Path, e.Expected, e.Actual)
}

// CountMismatchError indicates that an image block within an HPatches
// sequence does not have the same descriptor count as the reference block.
type CountMismatchError struct {
	Sequence string
	Label    string
	Expected int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("descriptor count mismatch in sequence %q image %q: expected %d, got %d",
		e.Sequence, e.Label, e.Expected, e.Actual)
}

// ConsistencyError indicates that a store answer disagrees with a fresh
// re-read of the raw source file. It signals either an addressing bug or a
// corrupted cache and is never tolerated.
type ConsistencyError struct {
	Key     string
	Element int
	Got     float64
	Want    float64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency check failed for %s at element %d: store has %g, raw file has %g",
		e.Key, e.Element, e.Got, e.Want)
}
