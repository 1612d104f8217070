package sparse

import (
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/internal/conv"
)

// Supported is the set of value types the sparse algorithms accept.
type Supported interface {
	int32 | int64 | float32 | float64
}

// Encode converts each dense row into a sparse record, dropping zero and
// null entries. Values keep their input type.
func Encode[T Supported](in *column.List[T]) (*column.Sparse[T], error) {
	n := in.Len()
	nnz := len(in.Values())
	b := column.NewSparseBuilder[T](in.Name(), n, nnz)

	var (
		indices []uint32
		values  []T
	)
	for i := range n {
		if in.IsNull(i) {
			b.AppendNull()
			continue
		}
		row := in.Row(i)
		dim, err := conv.Uint32(row.Len())
		if err != nil {
			return nil, err
		}
		indices, values = indices[:0], values[:0]
		for j, v := range row.Values {
			if v == 0 || row.IsNull(j) {
				continue
			}
			indices = append(indices, uint32(j)) //nolint:gosec // j < dim
			values = append(values, v)
		}
		if err := b.Append(dim, indices, values); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}
