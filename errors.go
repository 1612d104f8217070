package sparsevec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/sparsevec/column"
)

var (
	// ErrInvalidConfig is returned when a call is configured incorrectly
	// (bad p, unknown axis). It is raised before any row is processed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedType is returned when a column's kind or shape is not
	// accepted by an operation.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotImplemented marks a known, deliberately unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// SupportedKinds lists the numeric kinds Encode and Normalize accept.
var SupportedKinds = []column.Kind{
	column.KindInt32,
	column.KindInt64,
	column.KindFloat32,
	column.KindFloat64,
}

// ErrInvalidP indicates an Lp exponent below 1 or not finite.
//
// errors.Is(err, ErrInvalidConfig) reports true.
type ErrInvalidP struct {
	P float64
}

func (e *ErrInvalidP) Error() string {
	return fmt.Sprintf("invalid configuration: p must be a finite number greater or equal to 1, got %g", e.P)
}

func (e *ErrInvalidP) Unwrap() error { return ErrInvalidConfig }

// ErrInvalidAxis indicates an unknown normalization axis.
//
// errors.Is(err, ErrInvalidConfig) reports true.
type ErrInvalidAxis struct {
	How string
}

func (e *ErrInvalidAxis) Error() string {
	return fmt.Sprintf("invalid configuration: '%s' is unsupported, expected %q", e.How, AxisVertical)
}

func (e *ErrInvalidAxis) Unwrap() error { return ErrInvalidConfig }

// ErrUnsupportedKind indicates a column whose kind is outside SupportedKinds
// or whose shape does not fit the operation.
//
// errors.Is(err, ErrUnsupportedType) reports true.
type ErrUnsupportedKind struct {
	Op       string
	DataType column.DataType
}

func (e *ErrUnsupportedKind) Error() string {
	names := make([]string, len(SupportedKinds))
	for i, k := range SupportedKinds {
		names[i] = k.String()
	}
	return fmt.Sprintf("dtype %s not supported for %s, expected values of %s",
		e.DataType, e.Op, strings.Join(names, ", "))
}

func (e *ErrUnsupportedKind) Unwrap() error { return ErrUnsupportedType }

var errHorizontal = fmt.Errorf("%w: horizontal normalization", ErrNotImplemented)
