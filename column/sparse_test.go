package column

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSparse(t *testing.T) *Sparse[float32] {
	t.Helper()
	b := NewSparseBuilder[float32]("v", 3, 3)
	require.NoError(t, b.Append(4, []uint32{0, 3}, []float32{1.5, -2}))
	b.AppendNull()
	require.NoError(t, b.Append(2, []uint32{1}, []float32{7}))
	return b.Finish()
}

func TestSparseBuilder(t *testing.T) {
	s := buildSparse(t)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.NullCount())
	assert.Equal(t, 3, s.NNZ())
	assert.Equal(t, KindFloat32, s.ValueKind())

	r, ok := s.Row(0)
	require.True(t, ok)
	assert.Equal(t, uint32(4), r.Dim)
	assert.Equal(t, []uint32{0, 3}, r.Indices)
	assert.Equal(t, []float32{1.5, -2}, r.Values)

	_, ok = s.Row(1)
	assert.False(t, ok)
	assert.True(t, s.IsNull(1))

	dense, ok := s.Dense(0)
	require.True(t, ok)
	assert.Equal(t, []float32{1.5, 0, 0, -2}, dense)

	_, ok = s.Dense(1)
	assert.False(t, ok)
}

func TestSparseBuilderValidation(t *testing.T) {
	b := NewSparseBuilder[int32]("v", 0, 0)

	err := b.Append(3, []uint32{0, 1}, []int32{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = b.Append(3, []uint32{3}, []int32{1})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	err = b.Append(3, []uint32{2, 0, 2}, []int32{1, 2, 3})
	assert.ErrorIs(t, err, ErrDuplicateIndex)

	// Unsorted but unique indices are accepted.
	require.NoError(t, b.Append(3, []uint32{2, 0}, []int32{1, 2}))
	assert.Equal(t, 1, b.Len(), "rejected records must not be appended")
}

func TestSparseAll(t *testing.T) {
	s := buildSparse(t)

	var rows []int
	for i, r := range s.All() {
		rows = append(rows, i)
		assert.Len(t, r.Values, len(r.Indices))
	}
	assert.Equal(t, []int{0, 2}, rows)

	var first []int
	for i := range s.All() {
		first = append(first, i)
		break
	}
	assert.Equal(t, []int{0}, first)
}

func TestSparseClone(t *testing.T) {
	s := buildSparse(t)
	c := s.Clone()

	c.values[0] = 42
	c.nulls.setNull(0)

	r, ok := s.Row(0)
	require.True(t, ok)
	assert.Equal(t, float32(1.5), r.Values[0])
	assert.True(t, c.IsNull(0))
}

func TestNewSparse(t *testing.T) {
	nulls := roaring.New()
	nulls.Add(1)

	s, err := NewSparse[float64]("v", []uint32{3, 0}, []int{0, 2, 2}, []uint32{0, 2}, []float64{1, 2}, ValidityFromBitmap(nulls))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.IsNull(1))

	_, err = NewSparse[float64]("v", []uint32{3}, []int{0, 2}, []uint32{0, 2}, []float64{1}, Validity{})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = NewSparse[float64]("v", []uint32{2}, []int{0, 2}, []uint32{0, 2}, []float64{1, 2}, Validity{})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = NewSparse[float64]("v", []uint32{3, 3}, []int{0, 2}, []uint32{0, 2}, []float64{1, 2}, Validity{})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	empty, err := NewSparse[float64]("v", nil, nil, nil, nil, Validity{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestSparseDataType(t *testing.T) {
	dt := SparseOf(KindInt64)
	assert.Equal(t, "struct{dim: u32, indices: list[u32], values: list[i64]}", dt.String())

	k, ok := dt.SparseValueKind()
	require.True(t, ok)
	assert.Equal(t, KindInt64, k)

	_, ok = ListOf(Primitive(KindInt64)).SparseValueKind()
	assert.False(t, ok)

	_, ok = StructOf(
		Field{Name: "dim", Type: Primitive(KindUint32)},
		Field{Name: "idx", Type: ListOf(Primitive(KindUint32))},
		Field{Name: "values", Type: ListOf(Primitive(KindInt64))},
	).SparseValueKind()
	assert.False(t, ok)

	assert.True(t, dt.Equal(SparseOf(KindInt64)))
	assert.False(t, dt.Equal(SparseOf(KindFloat64)))
}
