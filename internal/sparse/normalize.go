package sparse

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/sparsevec/column"
	"golang.org/x/sync/errgroup"
)

// ErrMissingNorm is returned when Rescale meets a dimension the table does
// not cover, i.e. the table was built from a different batch.
var ErrMissingNorm = errors.New("sparse: dimension missing from norm table")

// minShardRows keeps tiny batches on a single goroutine.
const minShardRows = 1024

// Summarize accumulates |v|^p per dimension over every non-null row and
// closes each sum with the 1/p root. With shards > 1, row ranges are
// summed concurrently and merged before closing.
func Summarize[T Supported](col *column.Sparse[T], p float64, shards int) (*NormTable, error) {
	n := col.Len()
	if shards > 1 && n >= 2*minShardRows {
		shards = min(shards, n/minShardRows)
	} else {
		shards = 1
	}

	if shards == 1 {
		acc := make(accumulator)
		sumRows(col, 0, n, p, acc)
		return acc.close(p), nil
	}

	partials := make([]accumulator, shards)
	size := (n + shards - 1) / shards

	var g errgroup.Group
	for s := range shards {
		start := s * size
		end := min(start+size, n)
		g.Go(func() error {
			acc := make(accumulator)
			sumRows(col, start, end, p, acc)
			partials[s] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := partials[0]
	for _, part := range partials[1:] {
		acc.merge(part)
	}
	return acc.close(p), nil
}

func sumRows[T Supported](col *column.Sparse[T], start, end int, p float64, acc accumulator) {
	for i := start; i < end; i++ {
		r, ok := col.Row(i)
		if !ok {
			continue
		}
		for k, idx := range r.Indices {
			acc.add(idx, column.ToFloat64(r.Values[k]), p)
		}
	}
}

// Rescale divides every value by the norm of its dimension. dim and
// indices are copied unchanged; null rows stay null. A zero norm can only
// come from explicit zero values, which rescale to zero.
func Rescale[T Supported](col *column.Sparse[T], table *NormTable) (*column.Sparse[float64], error) {
	offsets := col.Offsets()
	out := make([]float64, col.NNZ())

	for i, r := range col.All() {
		base := offsets[i]
		for k, idx := range r.Indices {
			norm, ok := table.Norm(idx)
			if !ok {
				return nil, fmt.Errorf("%w: row %d, index %d", ErrMissingNorm, i, idx)
			}
			if norm == 0 {
				continue
			}
			out[base+k] = column.ToFloat64(r.Values[k]) / norm
		}
	}

	return column.NewSparse(
		col.Name(),
		slices.Clone(col.Dims()),
		slices.Clone(offsets),
		slices.Clone(col.Indices()),
		out,
		col.Validity().Clone(),
	)
}
