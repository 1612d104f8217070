package column

import "slices"

// Strings is a nullable string column.
type Strings struct {
	name   string
	values []string
	nulls  Validity
}

// Name implements Array.
func (s *Strings) Name() string { return s.name }

// Len implements Array.
func (s *Strings) Len() int { return len(s.values) }

// NullCount implements Array.
func (s *Strings) NullCount() int { return s.nulls.Count() }

// IsNull implements Array.
func (s *Strings) IsNull(i int) bool { return s.nulls.IsNull(i) }

// DataType implements Array.
func (s *Strings) DataType() DataType { return Primitive(KindString) }

// Field implements Array.
func (s *Strings) Field() Field { return Field{Name: s.name, Type: s.DataType()} }

// Value returns row i, or false if it is null.
func (s *Strings) Value(i int) (string, bool) {
	if s.nulls.IsNull(i) {
		return "", false
	}
	return s.values[i], true
}

// StringsBuilder accumulates rows for a Strings column.
type StringsBuilder struct {
	name   string
	values []string
	nulls  Validity
}

// NewStringsBuilder returns a builder sized for capacity rows.
func NewStringsBuilder(name string, capacity int) *StringsBuilder {
	return &StringsBuilder{name: name, values: make([]string, 0, capacity)}
}

// Append adds a non-null row.
func (b *StringsBuilder) Append(v string) {
	b.values = append(b.values, v)
}

// AppendNull adds a null row.
func (b *StringsBuilder) AppendNull() {
	b.nulls.setNull(len(b.values))
	b.values = append(b.values, "")
}

// Finish returns the built column. The builder must not be reused.
func (b *StringsBuilder) Finish() *Strings {
	return &Strings{name: b.name, values: slices.Clip(b.values), nulls: b.nulls}
}

// StringList is a ragged column of nullable string rows.
type StringList struct {
	name    string
	offsets []int
	values  []string
	rows    Validity
	elems   Validity
}

// Name implements Array.
func (l *StringList) Name() string { return l.name }

// Len implements Array.
func (l *StringList) Len() int {
	if len(l.offsets) == 0 {
		return 0
	}
	return len(l.offsets) - 1
}

// NullCount implements Array.
func (l *StringList) NullCount() int { return l.rows.Count() }

// IsNull implements Array.
func (l *StringList) IsNull(i int) bool { return l.rows.IsNull(i) }

// DataType implements Array.
func (l *StringList) DataType() DataType { return ListOf(Primitive(KindString)) }

// Field implements Array.
func (l *StringList) Field() Field { return Field{Name: l.name, Type: l.DataType()} }

// Row returns a view of row i. The view aliases the column buffers.
func (l *StringList) Row(i int) StringListRow {
	start, end := l.offsets[i], l.offsets[i+1]
	return StringListRow{Values: l.values[start:end:end], base: start, elems: l.elems}
}

// StringListRow is a zero-copy view of one StringList row.
type StringListRow struct {
	Values []string
	base   int
	elems  Validity
}

// Len returns the row length, counting null elements.
func (r StringListRow) Len() int { return len(r.Values) }

// IsNull reports whether element j of the row is null.
func (r StringListRow) IsNull(j int) bool { return r.elems.IsNull(r.base + j) }

// StringListBuilder accumulates rows for a StringList.
type StringListBuilder struct {
	name    string
	offsets []int
	values  []string
	rows    Validity
	elems   Validity
}

// NewStringListBuilder returns a builder sized for capacity rows.
func NewStringListBuilder(name string, capacity int) *StringListBuilder {
	return &StringListBuilder{name: name, offsets: make([]int, 1, capacity+1)}
}

// Append adds a non-null row without null elements.
func (b *StringListBuilder) Append(values []string) {
	b.values = append(b.values, values...)
	b.offsets = append(b.offsets, len(b.values))
}

// AppendOptional adds a non-null row where nil entries are null elements.
func (b *StringListBuilder) AppendOptional(values []*string) {
	for _, v := range values {
		if v == nil {
			b.elems.setNull(len(b.values))
			b.values = append(b.values, "")
			continue
		}
		b.values = append(b.values, *v)
	}
	b.offsets = append(b.offsets, len(b.values))
}

// AppendNull adds a null row.
func (b *StringListBuilder) AppendNull() {
	b.rows.setNull(len(b.offsets) - 1)
	b.offsets = append(b.offsets, len(b.values))
}

// Finish returns the built column. The builder must not be reused.
func (b *StringListBuilder) Finish() *StringList {
	return &StringList{
		name:    b.name,
		offsets: slices.Clip(b.offsets),
		values:  slices.Clip(b.values),
		rows:    b.rows,
		elems:   b.elems,
	}
}
