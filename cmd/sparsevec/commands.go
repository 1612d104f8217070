package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/sparsevec"
	"github.com/hupe1980/sparsevec/codec"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/internal/frame"
	"github.com/hupe1980/sparsevec/plugin"
)

func (e *env) encodeCommand(c *cli.Context) error {
	comp, err := frame.ParseCompression(c.String("compression"))
	if err != nil {
		return err
	}

	in, err := openInput(c, c.String("in"))
	if err != nil {
		return err
	}
	defer in.Close()

	dense, err := readDense(in, c.String("kind"), e.codec)
	if err != nil {
		return err
	}

	reg := e.registry()
	out, err := reg.Call(c.Context, plugin.FromList, []column.Array{dense}, nil)
	if err != nil {
		return err
	}
	return writeOutput(c, c.String("out"), func(w io.Writer) error {
		return frame.Write(w, out, comp)
	})
}

func (e *env) normalizeCommand(c *cli.Context) error {
	comp, err := frame.ParseCompression(c.String("compression"))
	if err != nil {
		return err
	}
	cfg := sparsevec.NormalizeConfig{How: c.String("how"), P: c.Float64("p")}
	if err := cfg.Validate(); err != nil {
		return err
	}

	in, err := readFrame(c, c.String("in"))
	if err != nil {
		return err
	}

	reg := e.registry(sparsevec.WithShards(c.Int("shards")))
	out, err := reg.Call(c.Context, plugin.Normalize, []column.Array{in}, codec.MustMarshal(e.codec, cfg))
	if err != nil {
		return err
	}
	return writeOutput(c, c.String("out"), func(w io.Writer) error {
		return frame.Write(w, out, comp)
	})
}

func (e *env) dumpCommand(c *cli.Context) error {
	in, err := readFrame(c, c.String("in"))
	if err != nil {
		return err
	}
	rows, err := dumpRows(in)
	if err != nil {
		return err
	}
	doc := dumpDoc{Name: in.Name(), Type: in.DataType().String(), Rows: rows}
	data, err := e.codec.Marshal(doc)
	if err != nil {
		return err
	}
	e.logger.Debug("dumped frame", "column", doc.Name, "type", doc.Type, "rows", len(rows))
	return writeOutput(c, c.String("out"), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n", data)
		return err
	})
}

func (e *env) stemCommand(c *cli.Context) error {
	b := column.NewStringsBuilder("word", c.NArg())
	if c.NArg() > 0 {
		for _, w := range c.Args().Slice() {
			b.Append(w)
		}
	} else {
		sc := bufio.NewScanner(c.App.Reader)
		for sc.Scan() {
			if w := strings.TrimSpace(sc.Text()); w != "" {
				b.Append(w)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}

	kwargs := codec.MustMarshal(e.codec, plugin.StemConfig{Language: c.String("language")})
	out, err := e.registry().Call(c.Context, plugin.SnowballStem, []column.Array{b.Finish()}, kwargs)
	if err != nil {
		return err
	}
	stems := out.(*column.Strings)
	for i := range stems.Len() {
		s, _ := stems.Value(i)
		if _, err := fmt.Fprintln(c.App.Writer, s); err != nil {
			return err
		}
	}
	return nil
}
