// Package sparse implements the sparse-vector algorithms: dense-to-sparse
// encoding and vertical Lp renormalization.
//
// Every algorithm is written once over the Supported constraint and widened
// to float64 for arithmetic. Kind dispatch and configuration validation
// happen at the public API boundary, not here.
//
// Normalization runs in two passes. Summarize builds an immutable NormTable
// from the whole batch; Rescale only reads it. Summarize may shard rows
// across goroutines; partial sums are merged before the closing root.
package sparse
