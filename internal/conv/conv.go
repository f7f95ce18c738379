// Package conv provides overflow-checked integer conversions for values
// crossing the cache file boundary (header fields, counts, offsets).
// Conversions that are provably safe by domain constraints should use
// direct casts instead.
package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is wrapped by every failed conversion.
var ErrOverflow = errors.New("integer overflow")

// IntToUint32 converts int to uint32, rejecting negatives and overflow.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// IntToUint64 converts int to uint64, rejecting negatives.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d does not fit uint64", ErrOverflow, v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int, rejecting overflow.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}

// Uint32ToInt converts uint32 to int, rejecting overflow on 32-bit hosts.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}
