// Package phototourism implements the descriptor store for the
// Phototourism-style "sequence x image-list" benchmark layout.
//
// Two raw layouts are supported and auto-detected:
//
//	<root>/<descriptor>/<sequence>/<image>.csv   one table per image
//	<root>/<descriptor>/<sequence>.txt           one tab-delimited table per sequence
//
// Images within a sequence are concatenated directly into the descriptor
// index axis, so the offset table addresses the full column axis of the
// data matrix; there is no separate image axis.
//
// Each sequence additionally carries ground-truth metadata from
// <metaRoot>/<sequence>/info.txt (correspondence ids) and interest.txt
// (reference image ids), one entry per descriptor, stored 0-based.
package phototourism
