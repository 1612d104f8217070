// Package column provides the null-aware, columnar in-memory model the
// sparse engine operates on.
//
// Columns are Arrow-like: a ragged list column stores one flat value buffer
// plus row offsets, and null rows or null elements are tracked in Roaring
// bitmaps rather than with sentinel values. Rows are exposed as zero-copy
// views into the shared buffers.
//
// # Column Types
//
//   - List[T]: ragged rows of nullable numeric scalars (dense row-vectors)
//   - Sparse[T]: struct rows {dim, indices, values} (sparse records)
//   - Strings: nullable strings
//   - StringList: ragged rows of nullable strings
//
// Columns are limited to 2^32 rows and 2^32 elements per buffer.
package column
