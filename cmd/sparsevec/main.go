// Command sparsevec encodes, normalizes and inspects sparse vector columns
// stored as binary frames.
package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/sparsevec"
	"github.com/hupe1980/sparsevec/codec"
	"github.com/hupe1980/sparsevec/plugin"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// env carries the per-run state set up by the Before hook.
type env struct {
	logger  *sparsevec.Logger
	metrics *sparsevec.BasicMetricsCollector
	codec   codec.Codec
	stderr  io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{
		logger:  sparsevec.NoopLogger(),
		metrics: &sparsevec.BasicMetricsCollector{},
		codec:   codec.Default,
		stderr:  stderr,
	}

	compressionFlag := &cli.StringFlag{
		Name:    "compression",
		Aliases: []string{"c"},
		Usage:   "Frame compression (none, lz4, zstd)",
		Value:   "none",
	}
	inFlag := &cli.StringFlag{
		Name:    "in",
		Aliases: []string{"i"},
		Usage:   "Input file, - for stdin",
		Value:   "-",
	}
	outFlag := &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output file, - for stdout",
		Value:   "-",
	}

	return &cli.App{
		Name:      "sparsevec",
		Usage:     "Sparse vector encoding and Lp column normalization",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "codec",
				Usage: "JSON codec for rows and keyword arguments (json, go-json)",
				Value: codec.Default.Name(),
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print engine statistics to stderr on exit",
			},
		},
		Before: e.setup,
		After:  e.printStats,
		Commands: []*cli.Command{
			{
				Name:   "encode",
				Usage:  "Encode JSON dense rows into a sparse frame",
				Action: e.encodeCommand,
				Flags: []cli.Flag{
					inFlag, outFlag, compressionFlag,
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Value kind of the rows (i32, i64, f32, f64)",
						Value:   "f64",
					},
				},
			},
			{
				Name:   "normalize",
				Usage:  "Normalize a sparse frame by column Lp norms",
				Action: e.normalizeCommand,
				Flags: []cli.Flag{
					inFlag, outFlag, compressionFlag,
					&cli.Float64Flag{
						Name:  "p",
						Usage: "Lp exponent, at least 1",
						Value: 2,
					},
					&cli.StringFlag{
						Name:  "how",
						Usage: "Normalization axis",
						Value: sparsevec.AxisVertical,
					},
					&cli.IntFlag{
						Name:  "shards",
						Usage: "Parallelism of the norm summary pass",
						Value: 1,
					},
				},
			},
			{
				Name:   "dump",
				Usage:  "Print a frame as JSON",
				Action: e.dumpCommand,
				Flags:  []cli.Flag{inFlag, outFlag},
			},
			{
				Name:      "stem",
				Usage:     "Print the Snowball stem of each word (arguments or stdin lines)",
				ArgsUsage: "[word...]",
				Action:    e.stemCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "language",
						Usage: "Stemmer language",
						Value: "english",
					},
				},
			},
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	name := c.String("codec")
	cd, ok := codec.ByName(name)
	if !ok {
		return fmt.Errorf("invalid codec %q: must be one of json, go-json", name)
	}
	e.codec = cd
	return e.setupLogger(c)
}

func (e *env) setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	e.logger = sparsevec.NewLogger(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (e *env) printStats(c *cli.Context) error {
	if !c.Bool("stats") {
		return nil
	}
	s := e.metrics.GetStats()
	_, err := fmt.Fprintf(e.stderr, "encode: %d calls, %d rows, %d nnz, %d errors, avg %dns\nnormalize: %d calls, %d rows, %d errors, avg %dns\n",
		s.EncodeCount, s.EncodeRows, s.EncodeNNZ, s.EncodeErrors, s.EncodeAvgNanos,
		s.NormalizeCount, s.NormalizeRows, s.NormalizeErrors, s.NormalizeAvgNanos)
	return err
}

func (e *env) registry(optFns ...sparsevec.Option) *plugin.Registry {
	return plugin.NewRegistry(e.engine(optFns...), plugin.WithCodec(e.codec))
}

func (e *env) engine(optFns ...sparsevec.Option) *sparsevec.Engine {
	return sparsevec.New(append([]sparsevec.Option{
		sparsevec.WithLogger(e.logger),
		sparsevec.WithMetricsCollector(e.metrics),
	}, optFns...)...)
}
