package sparsevec

import (
	"log/slog"
	"os"

	"github.com/hupe1980/sparsevec/column"
)

// Logger wraps slog.Logger with sparsevec-specific fields.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithColumn adds the column name and type to the logger.
func (l *Logger) WithColumn(f column.Field) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", f.Name, "dtype", f.Type.String()),
	}
}

// LogEncode logs a sparse encode call.
func (l *Logger) LogEncode(rows, nnz int, err error) {
	if err != nil {
		l.Error("encode failed",
			"rows", rows,
			"error", err,
		)
		return
	}
	l.Debug("encode completed",
		"rows", rows,
		"nnz", nnz,
	)
}

// LogNormalize logs a normalize call.
func (l *Logger) LogNormalize(rows, dims int, p float64, err error) {
	if err != nil {
		l.Error("normalize failed",
			"rows", rows,
			"p", p,
			"error", err,
		)
		return
	}
	l.Debug("normalize completed",
		"rows", rows,
		"dims", dims,
		"p", p,
	)
}
