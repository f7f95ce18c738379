// Package descgo provides an embedded descriptor store for local feature
// benchmarks.
//
// A store ingests per-sequence, per-image descriptor tables (one flat
// numeric file per image), concatenates them into a single contiguous
// column-major matrix with a per-sequence offset index, and answers
// offset-based random-access lookups by logical key (sequence name, noise
// level, image, 1-based descriptor index) instead of file path. A built
// store is cached on disk so repeated runs skip re-parsing thousands of
// small files.
//
// Two dataset variants are supported:
//
//   - hpatches: "sequence x noise-level x image". Each sequence has a
//     fixed 16-slot image axis (ref, e1..e5, h1..h5, t1..t5) addressed
//     through noise-level sets (easy/hard/tough).
//   - phototourism: "sequence x image-list". Images concatenate directly
//     into the descriptor index axis, plus per-descriptor ground-truth
//     correspondence and reference-image ids.
//
// # Quick Start
//
//	store, err := descgo.OpenHPatches[float32]("sift",
//	    descgo.WithRoot[float32]("./data/hpatches"),
//	)
//	if err != nil {
//	    panic(err)
//	}
//	cols, err := store.Get([]string{"v_wall"}, model.NoiseEasy, []int{1}, []int{3})
//
// Stores are immutable after construction; concurrent readers need no
// locking. Rebuilding means deleting the cache file and opening again.
package descgo
