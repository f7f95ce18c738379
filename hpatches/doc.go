// Package hpatches implements the descriptor store for the HPatches-style
// "sequence x noise-level x image" benchmark layout.
//
// Raw layout on disk:
//
//	<root>/<descriptor>/<sequence>/<label>.csv
//
// where label is one of the 16 fixed image-axis labels (ref, e1..e5,
// h1..h5, t1..t5) and each file is one flat numeric table, one descriptor
// per row.
//
// The loader concatenates every per-image table into one contiguous
// column-major matrix with an explicit slot-major layout: the column for
// (absolute descriptor index a, image slot s) lives at s*Total + a. The
// offset table addresses only the descriptor-index axis; the image axis is
// resolved through the fixed noise-level sets in package model.
package hpatches
