package graph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparsevec/column"
)

// DefaultWeight is the weight of edges without an explicit weight.
const DefaultWeight = 1.0

var (
	// ErrUnknownNode is returned when a node name is not in the graph.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrColumnMismatch is returned when input columns are not row-aligned
	// or have an unsupported type.
	ErrColumnMismatch = errors.New("graph: column mismatch")
)

// Edge connects two interned nodes.
type Edge struct {
	Src    uint32
	Dst    uint32
	Weight float64
}

type edgeKey struct{ a, b uint32 }

// Builder accumulates nodes and deduplicated edges.
type Builder struct {
	directed bool
	names    []string
	ids      map[string]uint32
	edges    []Edge
	seen     map[edgeKey]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder(directed bool) *Builder {
	return &Builder{
		directed: directed,
		ids:      make(map[string]uint32),
		seen:     make(map[edgeKey]struct{}),
	}
}

// AddNode interns name and returns its id.
func (b *Builder) AddNode(name string) uint32 {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := uint32(len(b.names)) //nolint:gosec
	b.names = append(b.names, name)
	b.ids[name] = id
	return id
}

// AddEdge adds src->dst unless an equal edge exists. In undirected graphs
// dst->src counts as equal. The first weight seen for an edge wins.
func (b *Builder) AddEdge(src, dst string, weight float64) {
	s, d := b.AddNode(src), b.AddNode(dst)
	key := edgeKey{s, d}
	if !b.directed && d < s {
		key = edgeKey{d, s}
	}
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = struct{}{}
	b.edges = append(b.edges, Edge{Src: s, Dst: d, Weight: weight})
}

// Build returns the Graph. The builder must not be reused.
func (b *Builder) Build() *Graph {
	return &Graph{directed: b.directed, names: b.names, ids: b.ids, edges: b.edges}
}

// Graph is an immutable node dictionary plus edge list.
type Graph struct {
	directed bool
	names    []string
	ids      map[string]uint32
	edges    []Edge
}

// Directed reports whether edges are directed.
func (g *Graph) Directed() bool { return g.directed }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.names) }

// EdgeCount returns the number of deduplicated edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns the edge list. Callers must not modify the result.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeName returns the name of node id.
func (g *Graph) NodeName(id uint32) string { return g.names[id] }

// NodeID returns the id of a node name.
func (g *Graph) NodeID(name string) (uint32, error) {
	id, ok := g.ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return id, nil
}

// FromColumns builds a graph from row-aligned columns. Every non-null
// source becomes a node, even without neighbors. Null sources, null neighbor
// rows and null neighbor entries add no edges. weights may be nil, a
// List[float32] or a List[float64] aligned element-by-element with
// neighbors; a null weight means DefaultWeight.
func FromColumns(src *column.Strings, neighbors *column.StringList, weights column.Array, directed bool) (*Graph, error) {
	if src.Len() != neighbors.Len() {
		return nil, fmt.Errorf("%w: %d sources, %d neighbor rows", ErrColumnMismatch, src.Len(), neighbors.Len())
	}
	weightAt, err := weightReader(weights, neighbors)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(directed)
	for i := range src.Len() {
		name, ok := src.Value(i)
		if !ok {
			continue
		}
		b.AddNode(name)
		if neighbors.IsNull(i) {
			continue
		}
		row := neighbors.Row(i)
		for j, dst := range row.Values {
			if row.IsNull(j) {
				continue
			}
			w, err := weightAt(i, j)
			if err != nil {
				return nil, err
			}
			b.AddEdge(name, dst, w)
		}
	}
	return b.Build(), nil
}

type weightFunc func(row, j int) (float64, error)

func weightReader(weights column.Array, neighbors *column.StringList) (weightFunc, error) {
	if weights == nil {
		return func(int, int) (float64, error) { return DefaultWeight, nil }, nil
	}
	if weights.Len() != neighbors.Len() {
		return nil, fmt.Errorf("%w: %d weight rows, %d neighbor rows", ErrColumnMismatch, weights.Len(), neighbors.Len())
	}
	switch w := weights.(type) {
	case *column.List[float32]:
		return listWeights(w, neighbors), nil
	case *column.List[float64]:
		return listWeights(w, neighbors), nil
	default:
		return nil, fmt.Errorf("%w: weights must be list[f32] or list[f64], got %s", ErrColumnMismatch, weights.DataType())
	}
}

func listWeights[T float32 | float64](w *column.List[T], neighbors *column.StringList) weightFunc {
	return func(i, j int) (float64, error) {
		if w.IsNull(i) {
			return DefaultWeight, nil
		}
		row := w.Row(i)
		if row.Len() != neighbors.Row(i).Len() {
			return 0, fmt.Errorf("%w: row %d has %d neighbors, %d weights", ErrColumnMismatch, i, neighbors.Row(i).Len(), row.Len())
		}
		if row.IsNull(j) {
			return DefaultWeight, nil
		}
		return float64(row.Values[j]), nil
	}
}
