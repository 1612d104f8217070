package sparsevec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordEncode is called after each Encode call.
	// rows is the input length, nnz the number of retained entries.
	RecordEncode(rows, nnz int, duration time.Duration, err error)

	// RecordNormalize is called after each Normalize call.
	// dims is the size of the column-norm table.
	RecordNormalize(rows, dims int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEncode(int, int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordNormalize(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EncodeCount         atomic.Int64
	EncodeErrors        atomic.Int64
	EncodeRows          atomic.Int64
	EncodeNNZ           atomic.Int64
	EncodeTotalNanos    atomic.Int64
	NormalizeCount      atomic.Int64
	NormalizeErrors     atomic.Int64
	NormalizeRows       atomic.Int64
	NormalizeTotalNanos atomic.Int64
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(rows, nnz int, duration time.Duration, err error) {
	b.EncodeCount.Add(1)
	b.EncodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EncodeErrors.Add(1)
		return
	}
	b.EncodeRows.Add(int64(rows))
	b.EncodeNNZ.Add(int64(nnz))
}

// RecordNormalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNormalize(rows, _ int, duration time.Duration, err error) {
	b.NormalizeCount.Add(1)
	b.NormalizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.NormalizeErrors.Add(1)
		return
	}
	b.NormalizeRows.Add(int64(rows))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EncodeCount:       b.EncodeCount.Load(),
		EncodeErrors:      b.EncodeErrors.Load(),
		EncodeRows:        b.EncodeRows.Load(),
		EncodeNNZ:         b.EncodeNNZ.Load(),
		EncodeAvgNanos:    avg(b.EncodeTotalNanos.Load(), b.EncodeCount.Load()),
		NormalizeCount:    b.NormalizeCount.Load(),
		NormalizeErrors:   b.NormalizeErrors.Load(),
		NormalizeRows:     b.NormalizeRows.Load(),
		NormalizeAvgNanos: avg(b.NormalizeTotalNanos.Load(), b.NormalizeCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	EncodeCount       int64
	EncodeErrors      int64
	EncodeRows        int64
	EncodeNNZ         int64
	EncodeAvgNanos    int64
	NormalizeCount    int64
	NormalizeErrors   int64
	NormalizeRows     int64
	NormalizeAvgNanos int64
}
