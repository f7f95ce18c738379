package model

import (
	"fmt"
	"unsafe"
)

// Float constrains the numeric storage types a descriptor store can hold.
type Float interface {
	~float32 | ~float64
}

// ElemKind identifies the numeric storage type of a descriptor matrix.
// It is recorded in the cache file header so a cache written as float64
// cannot be silently reinterpreted as float32.
type ElemKind uint8

const (
	ElemFloat32 ElemKind = 1
	ElemFloat64 ElemKind = 2
)

// Size returns the element size in bytes.
func (k ElemKind) Size() int {
	switch k {
	case ElemFloat32:
		return 4
	case ElemFloat64:
		return 8
	default:
		return 0
	}
}

// String returns a string representation of the ElemKind.
func (k ElemKind) String() string {
	switch k {
	case ElemFloat32:
		return "float32"
	case ElemFloat64:
		return "float64"
	default:
		return fmt.Sprintf("ElemKind(%d)", uint8(k))
	}
}

// KindOf returns the ElemKind for the type parameter T.
func KindOf[T Float]() ElemKind {
	var z T
	if unsafe.Sizeof(z) == 4 {
		return ElemFloat32
	}
	return ElemFloat64
}

// Variant identifies the dataset family a store was built from.
type Variant uint8

const (
	// VariantHPatches is the "sequence x noise-level x image" layout.
	VariantHPatches Variant = 1
	// VariantPhototourism is the "sequence x image-list" layout.
	VariantPhototourism Variant = 2
)

// String returns a string representation of the Variant.
func (v Variant) String() string {
	switch v {
	case VariantHPatches:
		return "hpatches"
	case VariantPhototourism:
		return "phototourism"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant resolves a variant selector string.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "hpatches":
		return VariantHPatches, nil
	case "phototourism":
		return VariantPhototourism, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}
