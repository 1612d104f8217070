// Package sparsevec provides a columnar sparse-vector engine for Go.
//
// Sparsevec converts dense, variable-length numeric row-vectors stored in a
// column into compact sparse records, and renormalizes sparse columns along
// the vertical axis using an Lp norm. It is a pure, synchronous, in-memory
// transform: every call reads the caller's column and returns a fresh one.
//
// # Quick Start
//
//	b := column.NewListBuilder[float64]("features", 2)
//	b.Append([]float64{3, 4, 0})
//	b.Append([]float64{6, 0, 0})
//
//	eng := sparsevec.New()
//	encoded, _ := eng.Encode(b.Finish())
//	normalized, _ := eng.Normalize(encoded, sparsevec.DefaultNormalizeConfig())
//
// # Sparse Records
//
// A sparse record is {dim: u32, indices: list[u32], values: list[T]}. Encode
// keeps the input value kind; Normalize always produces float64 values.
// Supported value kinds are int32, int64, float32 and float64.
//
// # Vertical Normalization
//
// Normalize runs two passes. The summarize pass accumulates |v|^p per
// dimension over every non-null row and closes each sum with the 1/p root.
// The rescale pass divides every value by the norm of its dimension. Use
// WithShards to spread the summarize pass over several goroutines.
//
// Horizontal (per-row) normalization returns ErrNotImplemented.
//
// # Errors
//
// Configuration and type errors are raised before any row is processed:
//
//	_, err := eng.Normalize(col, sparsevec.NormalizeConfig{How: "vertical", P: 0.5})
//	errors.Is(err, sparsevec.ErrInvalidConfig) // true
//
// Null rows are never errors; they pass through as null records.
package sparsevec
