// Package model defines core types shared across descgo.
//
// # Identity Types
//
//   - Variant: dataset family tag (hpatches, phototourism)
//   - ElemKind: numeric storage type of the descriptor matrix
//   - NoiseLevel: geometric-transform category (easy, hard, tough)
//
// # Addressing Types
//
//   - ImageAxis: the fixed 16-slot image axis of an HPatches sequence
//   - OffsetTable: prefix-sum index mapping a sequence to its first
//     descriptor column in the concatenated store
//
// All addressing inside the library is 0-based; the public accessor APIs
// accept 1-based descriptor indices to match the benchmark convention.
package model
