package sparsevec

import (
	"math"
	"slices"
	"time"

	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/internal/sparse"
)

// Normalization axes.
const (
	// AxisVertical normalizes each dimension by its norm across all rows.
	AxisVertical = "vertical"

	// AxisHorizontal normalizes each row by its own norm. Not implemented.
	AxisHorizontal = "horizontal"
)

// NormalizeConfig is the keyword-argument record of Normalize.
type NormalizeConfig struct {
	// How selects the axis. Only AxisVertical is implemented.
	How string `json:"how"`

	// P is the Lp exponent, finite and at least 1.
	P float64 `json:"p"`
}

// DefaultNormalizeConfig returns vertical L2 normalization.
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{How: AxisVertical, P: 2}
}

// Validate checks the exponent first, then the axis.
func (c NormalizeConfig) Validate() error {
	if !(c.P >= 1) || math.IsInf(c.P, 1) { // also rejects NaN
		return &ErrInvalidP{P: c.P}
	}
	switch c.How {
	case AxisVertical:
		return nil
	case AxisHorizontal:
		return errHorizontal
	default:
		return &ErrInvalidAxis{How: c.How}
	}
}

// Engine runs the sparse encoder and the Lp column normalizer.
//
// An Engine holds only configuration; every call works on its own buffers,
// so a single Engine is safe for concurrent use.
type Engine struct {
	opts options
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{opts: opts}
}

// Encode converts a list column of int32, int64, float32 or float64 rows into
// a sparse record column of the same value kind. Zero and null entries are
// dropped; null rows become null records.
func (e *Engine) Encode(in column.Array) (column.Array, error) {
	if column.IsNil(in) {
		in = nil
	}
	start := time.Now()
	out, nnz, err := encode(in)

	rows := 0
	if in != nil {
		rows = in.Len()
		e.opts.logger.WithColumn(in.Field()).LogEncode(rows, nnz, err)
	}
	e.opts.metricsCollector.RecordEncode(rows, nnz, time.Since(start), err)
	return out, err
}

func encode(in column.Array) (column.Array, int, error) {
	switch l := in.(type) {
	case *column.List[int32]:
		return result(sparse.Encode(l))
	case *column.List[int64]:
		return result(sparse.Encode(l))
	case *column.List[float32]:
		return result(sparse.Encode(l))
	case *column.List[float64]:
		return result(sparse.Encode(l))
	default:
		return nil, 0, unsupported("encode", in)
	}
}

// Normalize rescales a sparse record column so that every value is divided
// by the Lp norm of its dimension across all rows. The result always holds
// float64 values; dim and indices pass through unchanged.
//
// The configuration is validated before any row is read. An empty column
// yields an empty float64 sparse column.
func (e *Engine) Normalize(in column.Array, cfg NormalizeConfig) (column.Array, error) {
	if column.IsNil(in) {
		in = nil
	}
	start := time.Now()
	out, dims, err := e.normalize(in, cfg)

	rows := 0
	if in != nil {
		rows = in.Len()
		e.opts.logger.WithColumn(in.Field()).LogNormalize(rows, dims, cfg.P, err)
	}
	e.opts.metricsCollector.RecordNormalize(rows, dims, time.Since(start), err)
	return out, err
}

func (e *Engine) normalize(in column.Array, cfg NormalizeConfig) (column.Array, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	switch s := in.(type) {
	case *column.Sparse[int32]:
		return normalizeVertical(s, cfg.P, e.opts.shards)
	case *column.Sparse[int64]:
		return normalizeVertical(s, cfg.P, e.opts.shards)
	case *column.Sparse[float32]:
		return normalizeVertical(s, cfg.P, e.opts.shards)
	case *column.Sparse[float64]:
		return normalizeVertical(s, cfg.P, e.opts.shards)
	default:
		return nil, 0, unsupported("normalize", in)
	}
}

func normalizeVertical[T sparse.Supported](col *column.Sparse[T], p float64, shards int) (column.Array, int, error) {
	table, err := sparse.Summarize(col, p, shards)
	if err != nil {
		return nil, 0, err
	}
	out, err := sparse.Rescale(col, table)
	if err != nil {
		return nil, table.Len(), err
	}
	return out, table.Len(), nil
}

// result adapts a typed sparse column to the Array interface without
// producing a typed-nil interface on error.
func result[T column.Numeric](s *column.Sparse[T], err error) (column.Array, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return s, s.NNZ(), nil
}

func unsupported(op string, in column.Array) error {
	var dt column.DataType
	if in != nil {
		dt = in.DataType()
	}
	return &ErrUnsupportedKind{Op: op, DataType: dt}
}

// EncodeField infers the output field of Encode from its input field.
// Hosts consult it before execution.
func EncodeField(in column.Field) (column.Field, error) {
	if in.Type.Kind != column.KindList || in.Type.Elem == nil || !slices.Contains(SupportedKinds, in.Type.Elem.Kind) {
		return column.Field{}, &ErrUnsupportedKind{Op: "encode", DataType: in.Type}
	}
	return column.Field{Name: in.Name, Type: column.SparseOf(in.Type.Elem.Kind)}, nil
}

// NormalizeField infers the output field of Normalize from its input field.
func NormalizeField(in column.Field) (column.Field, error) {
	k, ok := in.Type.SparseValueKind()
	if !ok || !slices.Contains(SupportedKinds, k) {
		return column.Field{}, &ErrUnsupportedKind{Op: "normalize", DataType: in.Type}
	}
	return column.Field{Name: in.Name, Type: column.SparseOf(column.KindFloat64)}, nil
}
