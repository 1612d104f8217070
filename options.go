package sparsevec

import "log/slog"

type options struct {
	shards           int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithShards sets how many goroutines the summarize pass of Normalize may
// use. Rows are split into contiguous ranges; partial sums are merged
// before the closing root, so results match the sequential pass up to
// floating-point summation order.
//
// Small batches always run on one goroutine. If shards <= 1, sharding is
// disabled (default).
func WithShards(shards int) Option {
	return func(o *options) {
		o.shards = shards
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sparsevec.BasicMetricsCollector{}
//	eng := sparsevec.New(sparsevec.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sparsevec.NewJSONLogger(slog.LevelDebug)
//	eng := sparsevec.New(sparsevec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func defaultOptions() options {
	return options{
		shards:           1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}
