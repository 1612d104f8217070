package column

import (
	"fmt"
	"slices"
)

// List is a ragged column of nullable numeric rows.
//
// Row i spans values[offsets[i]:offsets[i+1]]. A null row has an empty span
// and is marked in the row validity; a null element inside a non-null row is
// marked in the element validity at its flat position.
type List[T Numeric] struct {
	name    string
	offsets []int
	values  []T
	rows    Validity
	elems   Validity
}

// NewList assembles a List from raw buffers. The buffers are not copied.
func NewList[T Numeric](name string, offsets []int, values []T, rows, elems Validity) (*List[T], error) {
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	if err := checkOffsets(offsets, len(values)); err != nil {
		return nil, err
	}
	n := len(offsets) - 1
	if rows.outside(n) {
		return nil, fmt.Errorf("%w: row null mask exceeds %d rows", ErrLengthMismatch, n)
	}
	if elems.outside(len(values)) {
		return nil, fmt.Errorf("%w: element null mask exceeds %d elements", ErrLengthMismatch, len(values))
	}
	for i := range n {
		if rows.IsNull(i) && offsets[i+1] != offsets[i] {
			return nil, fmt.Errorf("%w: null row %d has elements", ErrInvalidOffsets, i)
		}
	}
	return &List[T]{name: name, offsets: offsets, values: values, rows: rows, elems: elems}, nil
}

func checkOffsets(offsets []int, size int) error {
	if offsets[0] != 0 {
		return fmt.Errorf("%w: first offset is %d", ErrInvalidOffsets, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: offset %d decreases", ErrInvalidOffsets, i)
		}
	}
	if last := offsets[len(offsets)-1]; last != size {
		return fmt.Errorf("%w: last offset %d, buffer length %d", ErrInvalidOffsets, last, size)
	}
	return nil
}

// Name implements Array.
func (l *List[T]) Name() string { return l.name }

// Len implements Array.
func (l *List[T]) Len() int {
	if len(l.offsets) == 0 {
		return 0
	}
	return len(l.offsets) - 1
}

// NullCount implements Array.
func (l *List[T]) NullCount() int { return l.rows.Count() }

// IsNull implements Array.
func (l *List[T]) IsNull(i int) bool { return l.rows.IsNull(i) }

// ElemKind returns the kind of the list elements.
func (l *List[T]) ElemKind() Kind { return KindOf[T]() }

// DataType implements Array.
func (l *List[T]) DataType() DataType { return ListOf(Primitive(KindOf[T]())) }

// Field implements Array.
func (l *List[T]) Field() Field { return Field{Name: l.name, Type: l.DataType()} }

// Row returns a view of row i. The view aliases the column buffers.
func (l *List[T]) Row(i int) ListRow[T] {
	start, end := l.offsets[i], l.offsets[i+1]
	return ListRow[T]{Values: l.values[start:end:end], base: start, elems: l.elems}
}

// Offsets returns the row offsets. Callers must not modify the result.
func (l *List[T]) Offsets() []int { return l.offsets }

// Values returns the flat element buffer. Callers must not modify the result.
func (l *List[T]) Values() []T { return l.values }

// RowValidity returns the row null mask.
func (l *List[T]) RowValidity() Validity { return l.rows }

// ElemValidity returns the element null mask, indexed by flat position.
func (l *List[T]) ElemValidity() Validity { return l.elems }

// ListRow is a zero-copy view of one List row.
type ListRow[T Numeric] struct {
	Values []T
	base   int
	elems  Validity
}

// Len returns the row length, counting null elements.
func (r ListRow[T]) Len() int { return len(r.Values) }

// IsNull reports whether element j of the row is null.
func (r ListRow[T]) IsNull(j int) bool { return r.elems.IsNull(r.base + j) }

// ListBuilder accumulates rows for a List.
type ListBuilder[T Numeric] struct {
	name    string
	offsets []int
	values  []T
	rows    Validity
	elems   Validity
}

// NewListBuilder returns a builder sized for capacity rows.
func NewListBuilder[T Numeric](name string, capacity int) *ListBuilder[T] {
	offsets := make([]int, 1, capacity+1)
	return &ListBuilder[T]{name: name, offsets: offsets}
}

// Append adds a non-null row without null elements. values is copied.
func (b *ListBuilder[T]) Append(values []T) {
	b.values = append(b.values, values...)
	b.offsets = append(b.offsets, len(b.values))
}

// AppendOptional adds a non-null row where nil entries are null elements.
func (b *ListBuilder[T]) AppendOptional(values []*T) {
	for _, v := range values {
		if v == nil {
			b.elems.setNull(len(b.values))
			var zero T
			b.values = append(b.values, zero)
			continue
		}
		b.values = append(b.values, *v)
	}
	b.offsets = append(b.offsets, len(b.values))
}

// AppendNull adds a null row.
func (b *ListBuilder[T]) AppendNull() {
	b.rows.setNull(len(b.offsets) - 1)
	b.offsets = append(b.offsets, len(b.values))
}

// Len returns the number of rows appended so far.
func (b *ListBuilder[T]) Len() int { return len(b.offsets) - 1 }

// Finish returns the built List. The builder must not be reused.
func (b *ListBuilder[T]) Finish() *List[T] {
	return &List[T]{
		name:    b.name,
		offsets: slices.Clip(b.offsets),
		values:  slices.Clip(b.values),
		rows:    b.rows,
		elems:   b.elems,
	}
}
