// Package testutil provides testing utilities for sparsevec.
//
// This package is intended for use in tests and benchmarks only.
// It generates random ragged columns with a controlled share of null rows,
// null elements and zeros, so encode and normalize invariants can be
// checked over many shapes.
//
// # Random Columns
//
//	rng := testutil.NewRNG(seed)
//	col := testutil.RandomDenseList[float64](rng, "x", testutil.DenseSpec{Rows: 100, MaxDim: 16})
package testutil
