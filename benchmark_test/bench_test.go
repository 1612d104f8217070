package benchmark_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/hupe1980/sparsevec"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/internal/frame"
	"github.com/hupe1980/sparsevec/testutil"
)

// Run benchmarks: go test -bench=. -run=^$ ./benchmark_test/...

var workloads = []struct {
	name string
	spec testutil.DenseSpec
}{
	{"dense_10k_64d", testutil.DenseSpec{Rows: 10_000, MaxDim: 64, Zeros: 0.1}},
	{"sparse_10k_1024d", testutil.DenseSpec{Rows: 10_000, MaxDim: 1024, Zeros: 0.95, NullRows: 0.05}},
	{"sparse_100k_256d", testutil.DenseSpec{Rows: 100_000, MaxDim: 256, Zeros: 0.9, NullElem: 0.01}},
}

func encoded(b *testing.B, spec testutil.DenseSpec) column.Array {
	b.Helper()
	in := testutil.RandomDenseList[float32](testutil.NewRNG(42), "x", spec)
	out, err := sparsevec.New().Encode(in)
	if err != nil {
		b.Fatalf("encode: %v", err)
	}
	return out
}

func BenchmarkEncode(b *testing.B) {
	engine := sparsevec.New()
	for _, w := range workloads {
		b.Run(w.name, func(b *testing.B) {
			in := testutil.RandomDenseList[float32](testutil.NewRNG(42), "x", w.spec)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Encode(in); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()
			b.ReportMetric(float64(b.N*in.Len())/b.Elapsed().Seconds(), "rows/s")
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	cfg := sparsevec.DefaultNormalizeConfig()
	for _, w := range workloads {
		in := encoded(b, w.spec)
		for _, shards := range []int{1, 4} {
			b.Run(fmt.Sprintf("%s/shards=%d", w.name, shards), func(b *testing.B) {
				engine := sparsevec.New(sparsevec.WithShards(shards))
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := engine.Normalize(in, cfg); err != nil {
						b.Fatal(err)
					}
				}
				b.StopTimer()
				b.ReportMetric(float64(b.N*in.Len())/b.Elapsed().Seconds(), "rows/s")
			})
		}
	}
}

func BenchmarkFrameRoundTrip(b *testing.B) {
	in := encoded(b, workloads[1].spec)
	for _, c := range []frame.Compression{frame.CompressionNone, frame.CompressionLZ4, frame.CompressionZSTD} {
		b.Run(c.String(), func(b *testing.B) {
			var buf bytes.Buffer
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := frame.Write(&buf, in, c); err != nil {
					b.Fatal(err)
				}
				if _, err := frame.Read(&buf); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()
			b.ReportMetric(float64(buf.Cap()), "bytes")
		})
	}
}
