package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/sparsevec/codec"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/internal/frame"
)

func openInput(c *cli.Context, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(c.App.Reader), nil
	}
	return os.Open(path) //nolint:gosec
}

// writeOutput runs fn against path, or stdout for "-", and closes the file.
func writeOutput(c *cli.Context, path string, fn func(io.Writer) error) (err error) {
	if path == "-" {
		return fn(c.App.Writer)
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	return w.Flush()
}

func readFrame(c *cli.Context, path string) (column.Array, error) {
	in, err := openInput(c, path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return frame.Read(bufio.NewReader(in))
}

// denseDoc is the JSON input of the encode command. A null row is a null
// list; a null element is a null entry.
type denseDoc struct {
	Name string            `json:"name"`
	Rows []*[]*json.Number `json:"rows"`
}

func readDense(r io.Reader, kind string, cd codec.Codec) (column.Array, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc denseDoc
	if err := cd.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}

	switch kind {
	case "i32":
		return buildDense(doc, parseInt[int32](32))
	case "i64":
		return buildDense(doc, parseInt[int64](64))
	case "f32":
		return buildDense(doc, parseFloat[float32](32))
	case "f64":
		return buildDense(doc, parseFloat[float64](64))
	default:
		return nil, fmt.Errorf("unsupported kind %q, expected i32, i64, f32 or f64", kind)
	}
}

func buildDense[T column.Numeric](doc denseDoc, parse func(string) (T, error)) (*column.List[T], error) {
	b := column.NewListBuilder[T](doc.Name, len(doc.Rows))
	for i, row := range doc.Rows {
		if row == nil {
			b.AppendNull()
			continue
		}
		vals := make([]*T, len(*row))
		for j, n := range *row {
			if n == nil {
				continue
			}
			v, err := parse(n.String())
			if err != nil {
				return nil, fmt.Errorf("row %d, element %d: %w", i, j, err)
			}
			vals[j] = &v
		}
		b.AppendOptional(vals)
	}
	return b.Finish(), nil
}

func parseInt[T int32 | int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 10, bits)
		return T(v), err
	}
}

func parseFloat[T float32 | float64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
}

type sparseRecord[T column.Numeric] struct {
	Dim     uint32   `json:"dim"`
	Indices []uint32 `json:"indices"`
	Values  []T      `json:"values"`
}

type dumpDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Rows []any  `json:"rows"`
}

func dumpRows(arr column.Array) ([]any, error) {
	switch a := arr.(type) {
	case *column.Sparse[int32]:
		return sparseRows(a), nil
	case *column.Sparse[int64]:
		return sparseRows(a), nil
	case *column.Sparse[float32]:
		return sparseRows(a), nil
	case *column.Sparse[float64]:
		return sparseRows(a), nil
	case *column.List[int32]:
		return listRows(a), nil
	case *column.List[int64]:
		return listRows(a), nil
	case *column.List[float32]:
		return listRows(a), nil
	case *column.List[float64]:
		return listRows(a), nil
	default:
		return nil, fmt.Errorf("cannot dump %s", arr.DataType())
	}
}

func sparseRows[T column.Numeric](s *column.Sparse[T]) []any {
	rows := make([]any, s.Len())
	for i := range rows {
		row, ok := s.Row(i)
		if !ok {
			continue
		}
		rows[i] = sparseRecord[T]{Dim: row.Dim, Indices: row.Indices, Values: row.Values}
	}
	return rows
}

func listRows[T column.Numeric](l *column.List[T]) []any {
	rows := make([]any, l.Len())
	for i := range rows {
		if l.IsNull(i) {
			continue
		}
		row := l.Row(i)
		vals := make([]*T, row.Len())
		for j := range vals {
			if !row.IsNull(j) {
				vals[j] = &row.Values[j]
			}
		}
		rows[i] = vals
	}
	return rows
}
