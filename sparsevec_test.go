package sparsevec

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var denseSpec = testutil.DenseSpec{Rows: 200, MaxDim: 12, NullRows: 0.1, NullElem: 0.1, Zeros: 0.4}

func checkEncoded[T column.Numeric](t *testing.T, in *column.List[T], out column.Array) {
	t.Helper()
	s, ok := out.(*column.Sparse[T])
	require.True(t, ok, "encode must preserve the value kind, got %T", out)
	require.Equal(t, in.Len(), s.Len())

	for i := range in.Len() {
		if in.IsNull(i) {
			assert.True(t, s.IsNull(i), "row %d", i)
			continue
		}
		r, ok := s.Row(i)
		require.True(t, ok, "row %d", i)

		assert.Len(t, r.Values, len(r.Indices))
		assert.LessOrEqual(t, len(r.Indices), int(r.Dim))
		for k, v := range r.Values {
			assert.NotZero(t, v)
			if k > 0 {
				assert.Greater(t, r.Indices[k], r.Indices[k-1])
			}
		}

		src := in.Row(i)
		require.Equal(t, src.Len(), int(r.Dim))
		dense := r.Dense()
		for j, v := range src.Values {
			if src.IsNull(j) {
				assert.Zero(t, dense[j], "row %d pos %d", i, j)
				continue
			}
			assert.Equal(t, v, dense[j], "row %d pos %d", i, j)
		}
	}
}

func TestEncodeProperties(t *testing.T) {
	eng := New()
	rng := testutil.NewRNG(42)

	t.Run("int32", func(t *testing.T) {
		in := testutil.RandomDenseList[int32](rng, "x", denseSpec)
		out, err := eng.Encode(in)
		require.NoError(t, err)
		checkEncoded(t, in, out)
	})
	t.Run("int64", func(t *testing.T) {
		in := testutil.RandomDenseList[int64](rng, "x", denseSpec)
		out, err := eng.Encode(in)
		require.NoError(t, err)
		checkEncoded(t, in, out)
	})
	t.Run("float32", func(t *testing.T) {
		in := testutil.RandomDenseList[float32](rng, "x", denseSpec)
		out, err := eng.Encode(in)
		require.NoError(t, err)
		checkEncoded(t, in, out)
	})
	t.Run("float64", func(t *testing.T) {
		in := testutil.RandomDenseList[float64](rng, "x", denseSpec)
		out, err := eng.Encode(in)
		require.NoError(t, err)
		checkEncoded(t, in, out)
	})
}

func TestEncodeUnsupported(t *testing.T) {
	eng := New()

	tests := []struct {
		name string
		in   column.Array
	}{
		{"uint8 list", column.NewListBuilder[uint8]("x", 0).Finish()},
		{"int16 list", column.NewListBuilder[int16]("x", 0).Finish()},
		{"strings", column.NewStringsBuilder("x", 0).Finish()},
		{"already sparse", column.NewSparseBuilder[float64]("x", 0, 0).Finish()},
		{"nil", nil},
		{"typed nil list", (*column.List[int32])(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := eng.Encode(tt.in)
			assert.Nil(t, out)
			require.ErrorIs(t, err, ErrUnsupportedType)

			var uk *ErrUnsupportedKind
			require.ErrorAs(t, err, &uk)
			assert.Equal(t, "encode", uk.Op)
			assert.Contains(t, err.Error(), "i32, i64, f32, f64")
		})
	}
}

func exampleColumn(t *testing.T) *column.Sparse[int64] {
	t.Helper()
	b := column.NewSparseBuilder[int64]("v", 2, 3)
	require.NoError(t, b.Append(3, []uint32{0, 1}, []int64{3, 4}))
	require.NoError(t, b.Append(3, []uint32{0}, []int64{6}))
	return b.Finish()
}

func TestNormalize(t *testing.T) {
	eng := New()
	out, err := eng.Normalize(exampleColumn(t), NormalizeConfig{How: AxisVertical, P: 2})
	require.NoError(t, err)

	s, ok := out.(*column.Sparse[float64])
	require.True(t, ok)
	require.Equal(t, 2, s.Len())

	r, _ := s.Row(0)
	assert.Equal(t, uint32(3), r.Dim)
	assert.Equal(t, []uint32{0, 1}, r.Indices)
	assert.InDelta(t, 3/math.Sqrt(45), r.Values[0], 1e-12)
	assert.InDelta(t, 1.0, r.Values[1], 1e-12)

	r, _ = s.Row(1)
	assert.Equal(t, []uint32{0}, r.Indices)
	assert.InDelta(t, 6/math.Sqrt(45), r.Values[0], 1e-12)
}

func TestNormalizeAfterEncode(t *testing.T) {
	eng := New(WithShards(4))
	rng := testutil.NewRNG(3)
	in := testutil.RandomDenseList[float32](rng, "x", testutil.DenseSpec{Rows: 3000, MaxDim: 6, NullRows: 0.05, Zeros: 0.5})

	enc, err := eng.Encode(in)
	require.NoError(t, err)
	out, err := eng.Normalize(enc, NormalizeConfig{How: AxisVertical, P: 3})
	require.NoError(t, err)

	s := out.(*column.Sparse[float64])
	src := enc.(*column.Sparse[float32])
	require.Equal(t, src.Len(), s.Len())

	// Every dimension has unit L3 norm after rescaling, and no NaN appears.
	sums := map[uint32]float64{}
	for i := range s.Len() {
		assert.Equal(t, src.IsNull(i), s.IsNull(i))
		r, ok := s.Row(i)
		if !ok {
			continue
		}
		sr, _ := src.Row(i)
		assert.Equal(t, sr.Indices, r.Indices)
		for k, v := range r.Values {
			require.False(t, math.IsNaN(v))
			sums[r.Indices[k]] += math.Pow(math.Abs(v), 3)
		}
	}
	for d, sum := range sums {
		assert.InDelta(t, 1.0, sum, 1e-9, "dim %d", d)
	}
}

func TestNormalizeDoesNotAlias(t *testing.T) {
	in := exampleColumn(t)
	out, err := New().Normalize(in, DefaultNormalizeConfig())
	require.NoError(t, err)

	s := out.(*column.Sparse[float64])
	s.Indices()[0] = 99
	r, _ := in.Row(0)
	assert.Equal(t, uint32(0), r.Indices[0])
}

func TestNormalizeValidation(t *testing.T) {
	eng := New()
	col := exampleColumn(t)

	t.Run("p below one", func(t *testing.T) {
		_, err := eng.Normalize(col, NormalizeConfig{How: AxisVertical, P: 0.5})
		require.ErrorIs(t, err, ErrInvalidConfig)
		var ip *ErrInvalidP
		require.ErrorAs(t, err, &ip)
		assert.InDelta(t, 0.5, ip.P, 0)
	})

	t.Run("p NaN", func(t *testing.T) {
		_, err := eng.Normalize(col, NormalizeConfig{How: AxisVertical, P: math.NaN()})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("p infinite", func(t *testing.T) {
		_, err := eng.Normalize(col, NormalizeConfig{How: AxisVertical, P: math.Inf(1)})
		require.ErrorIs(t, err, ErrInvalidConfig)
		var ip *ErrInvalidP
		require.ErrorAs(t, err, &ip)
		assert.True(t, math.IsInf(ip.P, 1))
	})

	t.Run("p equal one", func(t *testing.T) {
		_, err := eng.Normalize(col, NormalizeConfig{How: AxisVertical, P: 1})
		assert.NoError(t, err)
	})

	t.Run("horizontal", func(t *testing.T) {
		_, err := eng.Normalize(col, NormalizeConfig{How: AxisHorizontal, P: 2})
		require.ErrorIs(t, err, ErrNotImplemented)
		assert.False(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("unknown axis", func(t *testing.T) {
		_, err := eng.Normalize(col, NormalizeConfig{How: "diagonal", P: 2})
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "diagonal")
		assert.False(t, errors.Is(err, ErrNotImplemented))
	})

	t.Run("unsupported kind", func(t *testing.T) {
		_, err := eng.Normalize(column.NewSparseBuilder[uint16]("v", 0, 0).Finish(), DefaultNormalizeConfig())
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("dense input", func(t *testing.T) {
		_, err := eng.Normalize(column.NewListBuilder[float64]("v", 0).Finish(), DefaultNormalizeConfig())
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestNormalizeTypedNil(t *testing.T) {
	out, err := New().Normalize((*column.Sparse[float64])(nil), DefaultNormalizeConfig())
	assert.Nil(t, out)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNormalizeEmpty(t *testing.T) {
	out, err := New().Normalize(column.NewSparseBuilder[int32]("v", 0, 0).Finish(), DefaultNormalizeConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.True(t, out.DataType().Equal(column.SparseOf(column.KindFloat64)))
}

func TestNormalizeNullRows(t *testing.T) {
	b := column.NewSparseBuilder[float64]("v", 3, 1)
	b.AppendNull()
	require.NoError(t, b.Append(2, []uint32{1}, []float64{-5}))
	b.AppendNull()

	out, err := New().Normalize(b.Finish(), NormalizeConfig{How: AxisVertical, P: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.NullCount())
	r, ok := out.(*column.Sparse[float64]).Row(1)
	require.True(t, ok)
	assert.Equal(t, []float64{-1}, r.Values)
}

func TestFields(t *testing.T) {
	f, err := EncodeField(column.Field{Name: "x", Type: column.ListOf(column.Primitive(column.KindFloat32))})
	require.NoError(t, err)
	assert.Equal(t, "x", f.Name)
	assert.True(t, f.Type.Equal(column.SparseOf(column.KindFloat32)))

	_, err = EncodeField(column.Field{Name: "x", Type: column.ListOf(column.Primitive(column.KindUint8))})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = EncodeField(column.Field{Name: "x", Type: column.Primitive(column.KindFloat32)})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	f, err = NormalizeField(column.Field{Name: "x", Type: column.SparseOf(column.KindInt32)})
	require.NoError(t, err)
	assert.True(t, f.Type.Equal(column.SparseOf(column.KindFloat64)))

	_, err = NormalizeField(column.Field{Name: "x", Type: column.ListOf(column.Primitive(column.KindInt32))})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	metrics := &BasicMetricsCollector{}
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := New(WithMetricsCollector(metrics), WithLogger(logger))

	enc, err := eng.Encode(func() column.Array {
		b := column.NewListBuilder[int32]("feat", 2)
		b.Append([]int32{0, 2, 0})
		b.AppendNull()
		return b.Finish()
	}())
	require.NoError(t, err)
	_, err = eng.Normalize(enc, DefaultNormalizeConfig())
	require.NoError(t, err)
	_, err = eng.Normalize(enc, NormalizeConfig{How: AxisHorizontal, P: 2})
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.EncodeCount)
	assert.Equal(t, int64(2), stats.EncodeRows)
	assert.Equal(t, int64(1), stats.EncodeNNZ)
	assert.Equal(t, int64(2), stats.NormalizeCount)
	assert.Equal(t, int64(1), stats.NormalizeErrors)
	assert.Equal(t, int64(2), stats.NormalizeRows)

	logs := buf.String()
	assert.Contains(t, logs, "encode completed")
	assert.Contains(t, logs, "column=feat")
	assert.Contains(t, logs, "normalize failed")
}

func TestNilOptions(t *testing.T) {
	eng := New(WithLogger(nil), WithMetricsCollector(nil))
	_, err := eng.Encode(column.NewListBuilder[int64]("x", 0).Finish())
	assert.NoError(t, err)
}
