package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsevec"
	"github.com/hupe1980/sparsevec/codec"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/graph"
)

func denseColumn() *column.List[int64] {
	b := column.NewListBuilder[int64]("x", 3)
	b.Append([]int64{3, 0})
	b.AppendNull()
	b.Append([]int64{4, 6})
	return b.Finish()
}

func constTrainer() graph.Trainer {
	return graph.TrainerFunc(func(_ context.Context, g *graph.Graph, p graph.Params) (graph.Matrix, graph.Matrix, error) {
		n, d := g.NodeCount(), int(p.EmbeddingSize)
		m := graph.Matrix{Rows: n, Cols: d, Data: make([]float32, n*d)}
		for i := range m.Data {
			m.Data[i] = 1
		}
		return m, m, nil
	})
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Equal(t, []string{FromList, Normalize, SnowballStem}, reg.Names())

	reg = NewRegistry(nil, WithTrainer(constTrainer()))
	assert.Contains(t, reg.Names(), Node2Vec)
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry(sparsevec.New())
	ctx := context.Background()

	_, err := reg.Call(ctx, "nope", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownFunction)

	_, err = reg.Call(ctx, FromList, nil, nil)
	assert.ErrorIs(t, err, ErrArity)

	_, err = reg.OutputField(Node2Vec, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownFunction, "node2vec needs a trainer")

	err = reg.Register(Function{Name: FromList, Call: fromList(sparsevec.New()).Call, OutputField: fromList(sparsevec.New()).OutputField})
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Error(t, reg.Register(Function{Name: "half"}))

	_, err = reg.Call(ctx, SnowballStem, []column.Array{(*column.Strings)(nil)}, []byte(`{"language": "english"}`))
	assert.ErrorIs(t, err, sparsevec.ErrUnsupportedType)
}

func TestFromListThenNormalize(t *testing.T) {
	reg := NewRegistry(sparsevec.New())
	ctx := context.Background()
	in := denseColumn()

	field, err := reg.OutputField(FromList, []column.Field{in.Field()}, nil)
	require.NoError(t, err)
	assert.Equal(t, column.SparseOf(column.KindInt64), field.Type)

	enc, err := reg.Call(ctx, FromList, []column.Array{in}, nil)
	require.NoError(t, err)
	assert.True(t, field.Type.Equal(enc.DataType()))

	kwargs := []byte(`{"p": 1}`)
	field, err = reg.OutputField(Normalize, []column.Field{enc.Field()}, kwargs)
	require.NoError(t, err)
	assert.Equal(t, column.SparseOf(column.KindFloat64), field.Type)

	out, err := reg.Call(ctx, Normalize, []column.Array{enc}, kwargs)
	require.NoError(t, err)
	s, ok := out.(*column.Sparse[float64])
	require.True(t, ok)

	row, ok := s.Row(0)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{3.0 / 7}, row.Values, 1e-12)
	row, ok = s.Row(2)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{4.0 / 7, 1}, row.Values, 1e-12)
}

func TestNormalizeKwargs(t *testing.T) {
	reg := NewRegistry(nil, WithCodec(codec.JSON{}))
	enc, err := reg.Call(context.Background(), FromList, []column.Array{denseColumn()}, nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		kwargs string
		target error
	}{
		{"p below one", `{"p": 0.5}`, sparsevec.ErrInvalidConfig},
		{"horizontal", `{"how": "horizontal"}`, sparsevec.ErrNotImplemented},
		{"bad axis", `{"how": "diagonal"}`, sparsevec.ErrInvalidConfig},
		{"malformed", `{"p":`, sparsevec.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Call(context.Background(), Normalize, []column.Array{enc}, []byte(tt.kwargs))
			assert.ErrorIs(t, err, tt.target)
			_, err = reg.OutputField(Normalize, []column.Field{enc.Field()}, []byte(tt.kwargs))
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestNormalizeKwargsDefaults(t *testing.T) {
	reg := NewRegistry(nil)
	ctx := context.Background()
	enc, err := reg.Call(ctx, FromList, []column.Array{denseColumn()}, nil)
	require.NoError(t, err)

	for _, kwargs := range []string{``, `{}`, `{"how": "vertical"}`} {
		out, err := reg.Call(ctx, Normalize, []column.Array{enc}, []byte(kwargs))
		require.NoError(t, err, kwargs)
		row, ok := out.(*column.Sparse[float64]).Row(0)
		require.True(t, ok)
		// dim 0 holds 3 and 4 across the batch, so its L2 norm is 5.
		assert.InDeltaSlice(t, []float64{3.0 / 5}, row.Values, 1e-12, kwargs)
	}
}

func TestSnowballStem(t *testing.T) {
	reg := NewRegistry(nil)
	b := column.NewStringsBuilder("w", 2)
	b.Append("running")
	b.AppendNull()
	words := b.Finish()

	kwargs := []byte(`{"language": "english"}`)
	field, err := reg.OutputField(SnowballStem, []column.Field{words.Field()}, kwargs)
	require.NoError(t, err)
	assert.Equal(t, words.Field(), field)

	out, err := reg.Call(context.Background(), SnowballStem, []column.Array{words}, kwargs)
	require.NoError(t, err)
	got, ok := out.(*column.Strings).Value(0)
	require.True(t, ok)
	assert.Equal(t, "run", got)
	assert.True(t, out.IsNull(1))

	_, err = reg.Call(context.Background(), SnowballStem, []column.Array{words}, []byte(`{"language": "elvish"}`))
	assert.ErrorIs(t, err, sparsevec.ErrInvalidConfig)

	_, err = reg.Call(context.Background(), SnowballStem, []column.Array{denseColumn()}, kwargs)
	assert.ErrorIs(t, err, sparsevec.ErrUnsupportedType)
}

func TestNode2Vec(t *testing.T) {
	reg := NewRegistry(nil, WithTrainer(constTrainer()))

	sb := column.NewStringsBuilder("node", 2)
	sb.Append("a")
	sb.AppendNull()
	lb := column.NewStringListBuilder("neighbors", 2)
	lb.Append([]string{"b"})
	lb.Append([]string{"c"})
	inputs := []column.Array{sb.Finish(), lb.Finish()}

	kwargs := []byte(`{"embedding_size": 3}`)
	field, err := reg.OutputField(Node2Vec, []column.Field{inputs[0].Field(), inputs[1].Field()}, kwargs)
	require.NoError(t, err)
	assert.Equal(t, "node", field.Name)

	out, err := reg.Call(context.Background(), Node2Vec, inputs, kwargs)
	require.NoError(t, err)
	vecs, ok := out.(*column.List[float32])
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1, 1}, vecs.Row(0).Values)
	assert.True(t, vecs.IsNull(1))

	_, err = reg.Call(context.Background(), Node2Vec, inputs, []byte(`{"model_type": "glove"}`))
	assert.ErrorIs(t, err, graph.ErrInvalidParams)

	_, err = reg.Call(context.Background(), Node2Vec, inputs[:1], nil)
	assert.ErrorIs(t, err, ErrArity)
}
