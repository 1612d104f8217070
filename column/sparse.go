package column

import (
	"fmt"
	"iter"
	"slices"
)

// Sparse is a column of sparse records {dim, indices, values}.
//
// indices and values share one offsets buffer, so a row's indices and values
// always have equal length. A null row is null as a whole: its dim is stored
// as 0, its span is empty, and it is marked in the validity.
type Sparse[T Numeric] struct {
	name    string
	dims    []uint32
	offsets []int
	indices []uint32
	values  []T
	nulls   Validity
}

// NewSparse assembles a Sparse column from raw buffers after checking every
// record invariant. The buffers are not copied.
func NewSparse[T Numeric](name string, dims []uint32, offsets []int, indices []uint32, values []T, nulls Validity) (*Sparse[T], error) {
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	if len(indices) != len(values) {
		return nil, fmt.Errorf("%w: %d indices, %d values", ErrLengthMismatch, len(indices), len(values))
	}
	if len(offsets) != len(dims)+1 {
		return nil, fmt.Errorf("%w: %d offsets for %d rows", ErrLengthMismatch, len(offsets), len(dims))
	}
	if err := checkOffsets(offsets, len(indices)); err != nil {
		return nil, err
	}
	if nulls.outside(len(dims)) {
		return nil, fmt.Errorf("%w: null mask exceeds %d rows", ErrLengthMismatch, len(dims))
	}
	for i, dim := range dims {
		row := indices[offsets[i]:offsets[i+1]]
		if nulls.IsNull(i) {
			if len(row) != 0 {
				return nil, fmt.Errorf("%w: null row %d has elements", ErrInvalidOffsets, i)
			}
			continue
		}
		if err := checkIndices(dim, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return &Sparse[T]{name: name, dims: dims, offsets: offsets, indices: indices, values: values, nulls: nulls}, nil
}

func checkIndices(dim uint32, indices []uint32) error {
	ascending := true
	for k, idx := range indices {
		if idx >= dim {
			return fmt.Errorf("%w: index %d, dim %d", ErrIndexOutOfRange, idx, dim)
		}
		if k > 0 && idx <= indices[k-1] {
			ascending = false
		}
	}
	if ascending {
		return nil
	}
	seen := make(map[uint32]struct{}, len(indices))
	for _, idx := range indices {
		if _, ok := seen[idx]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateIndex, idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// Name implements Array.
func (s *Sparse[T]) Name() string { return s.name }

// Len implements Array.
func (s *Sparse[T]) Len() int { return len(s.dims) }

// NullCount implements Array.
func (s *Sparse[T]) NullCount() int { return s.nulls.Count() }

// IsNull implements Array.
func (s *Sparse[T]) IsNull(i int) bool { return s.nulls.IsNull(i) }

// ValueKind returns the kind of the values field.
func (s *Sparse[T]) ValueKind() Kind { return KindOf[T]() }

// DataType implements Array.
func (s *Sparse[T]) DataType() DataType { return SparseOf(KindOf[T]()) }

// Field implements Array.
func (s *Sparse[T]) Field() Field { return Field{Name: s.name, Type: s.DataType()} }

// NNZ returns the total number of stored entries.
func (s *Sparse[T]) NNZ() int { return len(s.indices) }

// Row returns a view of row i, or false if the row is null.
func (s *Sparse[T]) Row(i int) (SparseRow[T], bool) {
	if s.nulls.IsNull(i) {
		return SparseRow[T]{}, false
	}
	return s.row(i), true
}

func (s *Sparse[T]) row(i int) SparseRow[T] {
	start, end := s.offsets[i], s.offsets[i+1]
	return SparseRow[T]{
		Dim:     s.dims[i],
		Indices: s.indices[start:end:end],
		Values:  s.values[start:end:end],
	}
}

// All iterates the non-null rows in order with their row position.
func (s *Sparse[T]) All() iter.Seq2[int, SparseRow[T]] {
	return func(yield func(int, SparseRow[T]) bool) {
		for i := range s.dims {
			if s.nulls.IsNull(i) {
				continue
			}
			if !yield(i, s.row(i)) {
				return
			}
		}
	}
}

// Dense scatters row i into a dense slice of length dim.
func (s *Sparse[T]) Dense(i int) ([]T, bool) {
	r, ok := s.Row(i)
	if !ok {
		return nil, false
	}
	return r.Dense(), true
}

// Clone returns a deep copy of the column.
func (s *Sparse[T]) Clone() *Sparse[T] {
	return &Sparse[T]{
		name:    s.name,
		dims:    slices.Clone(s.dims),
		offsets: slices.Clone(s.offsets),
		indices: slices.Clone(s.indices),
		values:  slices.Clone(s.values),
		nulls:   s.nulls.Clone(),
	}
}

// Dims returns the per-row dimensions. Callers must not modify the result.
func (s *Sparse[T]) Dims() []uint32 { return s.dims }

// Offsets returns the row offsets. Callers must not modify the result.
func (s *Sparse[T]) Offsets() []int { return s.offsets }

// Indices returns the flat index buffer. Callers must not modify the result.
func (s *Sparse[T]) Indices() []uint32 { return s.indices }

// Values returns the flat value buffer. Callers must not modify the result.
func (s *Sparse[T]) Values() []T { return s.values }

// Validity returns the row null mask.
func (s *Sparse[T]) Validity() Validity { return s.nulls }

// SparseRow is a zero-copy view of one sparse record.
type SparseRow[T Numeric] struct {
	Dim     uint32
	Indices []uint32
	Values  []T
}

// Dense scatters the record into a slice of length Dim.
func (r SparseRow[T]) Dense() []T {
	out := make([]T, r.Dim)
	for k, idx := range r.Indices {
		out[idx] = r.Values[k]
	}
	return out
}

// SparseBuilder accumulates records for a Sparse column.
type SparseBuilder[T Numeric] struct {
	name    string
	dims    []uint32
	offsets []int
	indices []uint32
	values  []T
	nulls   Validity
}

// NewSparseBuilder returns a builder sized for rows records and nnz entries.
func NewSparseBuilder[T Numeric](name string, rows, nnz int) *SparseBuilder[T] {
	return &SparseBuilder[T]{
		name:    name,
		dims:    make([]uint32, 0, rows),
		offsets: append(make([]int, 0, rows+1), 0),
		indices: make([]uint32, 0, nnz),
		values:  make([]T, 0, nnz),
	}
}

// Append adds a non-null record. indices and values are copied.
func (b *SparseBuilder[T]) Append(dim uint32, indices []uint32, values []T) error {
	if len(indices) != len(values) {
		return fmt.Errorf("%w: %d indices, %d values", ErrLengthMismatch, len(indices), len(values))
	}
	if err := checkIndices(dim, indices); err != nil {
		return err
	}
	b.dims = append(b.dims, dim)
	b.indices = append(b.indices, indices...)
	b.values = append(b.values, values...)
	b.offsets = append(b.offsets, len(b.indices))
	return nil
}

// AppendNull adds a null record.
func (b *SparseBuilder[T]) AppendNull() {
	b.nulls.setNull(len(b.dims))
	b.dims = append(b.dims, 0)
	b.offsets = append(b.offsets, len(b.indices))
}

// Len returns the number of records appended so far.
func (b *SparseBuilder[T]) Len() int { return len(b.dims) }

// Finish returns the built column. The builder must not be reused.
func (b *SparseBuilder[T]) Finish() *Sparse[T] {
	return &Sparse[T]{
		name:    b.name,
		dims:    slices.Clip(b.dims),
		offsets: slices.Clip(b.offsets),
		indices: slices.Clip(b.indices),
		values:  slices.Clip(b.values),
		nulls:   b.nulls,
	}
}
