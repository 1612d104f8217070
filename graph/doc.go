// Package graph connects columnar edge data to an external graph-embedding
// trainer.
//
// The walk sampling and skip-gram/CBOW training are opaque: a Trainer
// receives a Graph and returns two node x dim matrices. This package only
// reads a source column, a neighbor-list column and an optional weight-list
// column into a deduplicated edge set, and writes the per-node vectors back
// into a list column aligned with the original rows.
//
//	g, _ := graph.FromColumns(src, neighbors, nil, false)
//	vectors, _ := graph.Embed(ctx, src, neighbors, nil, trainer, graph.DefaultParams())
package graph
