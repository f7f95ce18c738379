// Package persistence implements the on-disk cache of a descriptor store.
//
// One cache file holds one whole serialized store: a fixed 64-byte header
// (magic, format version, variant, element kind, compression codec, shape,
// payload checksum) followed by the payload sections: sequence names,
// counts, offsets, variant-specific auxiliary arrays, and the raw
// column-major data. The payload may be zstd- or lz4-compressed; the codec
// is recorded in the header.
//
// The format is whole-object and versionless in the compatibility sense:
// a version bump invalidates old caches, there is no migration. Writes are
// atomic (temp file + rename) and happen only after a store is fully
// assembled, so an aborted build never poisons future runs.
package persistence
