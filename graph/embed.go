package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/sparsevec/column"
)

// ErrBadEmbedding is returned when a trainer yields a matrix whose shape
// does not match the graph and params.
var ErrBadEmbedding = errors.New("graph: bad embedding")

// Matrix is a dense row-major float32 matrix, one row per node id.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// Row returns the vector of node id. The result aliases m.Data.
func (m Matrix) Row(id uint32) []float32 {
	start := int(id) * m.Cols
	return m.Data[start : start+m.Cols]
}

func (m Matrix) check(rows, cols int) error {
	if m.Rows != rows || m.Cols != cols || len(m.Data) != rows*cols {
		return fmt.Errorf("%w: got %dx%d with %d values, want %dx%d", ErrBadEmbedding, m.Rows, m.Cols, len(m.Data), rows, cols)
	}
	return nil
}

// Trainer turns a graph into node embeddings. Walk sampling and model
// fitting live behind this interface.
type Trainer interface {
	Train(ctx context.Context, g *Graph, params Params) (central, contextual Matrix, err error)
}

// TrainerFunc adapts a function to the Trainer interface.
type TrainerFunc func(ctx context.Context, g *Graph, params Params) (Matrix, Matrix, error)

// Train calls f.
func (f TrainerFunc) Train(ctx context.Context, g *Graph, params Params) (Matrix, Matrix, error) {
	return f(ctx, g, params)
}

// Embed builds a graph from the columns, trains it and writes one vector
// per source row. Null sources produce null rows.
func Embed(ctx context.Context, src *column.Strings, neighbors *column.StringList, weights column.Array, trainer Trainer, params Params) (*column.List[float32], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g, err := FromColumns(src, neighbors, weights, params.Directed)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	central, contextual, err := trainer.Train(ctx, g, params)
	if err != nil {
		return nil, fmt.Errorf("graph: train: %w", err)
	}
	m := central
	if params.EmbeddingType == EmbeddingContextual {
		m = contextual
	}
	if err := m.check(g.NodeCount(), int(params.EmbeddingSize)); err != nil {
		return nil, err
	}

	b := column.NewListBuilder[float32](src.Name(), src.Len())
	for i := range src.Len() {
		name, ok := src.Value(i)
		if !ok {
			b.AppendNull()
			continue
		}
		id, err := g.NodeID(name)
		if err != nil {
			return nil, err
		}
		b.Append(m.Row(id))
	}
	return b.Finish(), nil
}
