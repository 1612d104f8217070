package column

import (
	"reflect"
	"slices"
	"strings"
)

// Field names of the sparse record struct.
const (
	DimField     = "dim"
	IndicesField = "indices"
	ValuesField  = "values"
)

// DataType describes the logical type of a column.
//
// Elem is set for KindList, Fields for KindStruct.
type DataType struct {
	Kind   Kind
	Elem   *DataType
	Fields []Field
}

// Field is a named DataType.
type Field struct {
	Name string
	Type DataType
}

// Primitive returns the DataType for a scalar kind.
func Primitive(k Kind) DataType {
	return DataType{Kind: k}
}

// ListOf returns a list DataType with the given element type.
func ListOf(elem DataType) DataType {
	return DataType{Kind: KindList, Elem: &elem}
}

// StructOf returns a struct DataType with the given fields.
func StructOf(fields ...Field) DataType {
	return DataType{Kind: KindStruct, Fields: slices.Clone(fields)}
}

// SparseOf returns the sparse record type {dim: u32, indices: list[u32], values: list[values]}.
func SparseOf(values Kind) DataType {
	return StructOf(
		Field{Name: DimField, Type: Primitive(KindUint32)},
		Field{Name: IndicesField, Type: ListOf(Primitive(KindUint32))},
		Field{Name: ValuesField, Type: ListOf(Primitive(values))},
	)
}

// SparseValueKind reports the value kind if d has the sparse record shape.
func (d DataType) SparseValueKind() (Kind, bool) {
	if d.Kind != KindStruct || len(d.Fields) != 3 {
		return KindNull, false
	}
	dim, idx, val := d.Fields[0], d.Fields[1], d.Fields[2]
	if dim.Name != DimField || dim.Type.Kind != KindUint32 {
		return KindNull, false
	}
	if idx.Name != IndicesField || !idx.Type.Equal(ListOf(Primitive(KindUint32))) {
		return KindNull, false
	}
	if val.Name != ValuesField || val.Type.Kind != KindList || val.Type.Elem == nil {
		return KindNull, false
	}
	return val.Type.Elem.Kind, true
}

// Equal reports whether d and o describe the same type.
func (d DataType) Equal(o DataType) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case KindList:
		if d.Elem == nil || o.Elem == nil {
			return d.Elem == o.Elem
		}
		return d.Elem.Equal(*o.Elem)
	case KindStruct:
		return slices.EqualFunc(d.Fields, o.Fields, func(a, b Field) bool {
			return a.Name == b.Name && a.Type.Equal(b.Type)
		})
	default:
		return true
	}
}

func (d DataType) String() string {
	switch d.Kind {
	case KindList:
		if d.Elem == nil {
			return "list[?]"
		}
		return "list[" + d.Elem.String() + "]"
	case KindStruct:
		var sb strings.Builder
		sb.WriteString("struct{")
		for i, f := range d.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			sb.WriteString(f.Type.String())
		}
		sb.WriteString("}")
		return sb.String()
	default:
		return d.Kind.String()
	}
}

// Array is a named, nullable column.
type Array interface {
	// Name returns the column name.
	Name() string

	// Len returns the number of rows.
	Len() int

	// NullCount returns the number of null rows.
	NullCount() int

	// IsNull reports whether row i is null.
	IsNull(i int) bool

	// DataType returns the logical type of the column.
	DataType() DataType

	// Field returns the column name and type.
	Field() Field
}

// IsNil reports whether a is nil or holds a nil pointer.
func IsNil(a Array) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
