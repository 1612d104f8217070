package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/sparsevec/column"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// DenseSpec shapes a random dense column.
type DenseSpec struct {
	Rows     int
	MaxDim   int     // row lengths are drawn from [0, MaxDim]
	NullRows float64 // probability a row is null
	NullElem float64 // probability an element is null
	Zeros    float64 // probability an element is zero
}

// RandomDenseList generates a dense list column following spec.
// Non-zero values are drawn from [-50, 50) and never round to zero.
func RandomDenseList[T column.Numeric](r *RNG, name string, spec DenseSpec) *column.List[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := column.NewListBuilder[T](name, spec.Rows)
	for range spec.Rows {
		if r.rand.Float64() < spec.NullRows {
			b.AppendNull()
			continue
		}
		row := make([]*T, r.rand.Intn(spec.MaxDim+1))
		for j := range row {
			if r.rand.Float64() < spec.NullElem {
				continue
			}
			var v T
			if r.rand.Float64() >= spec.Zeros {
				v = nonZero[T](r.rand)
			}
			row[j] = &v
		}
		b.AppendOptional(row)
	}
	return b.Finish()
}

func nonZero[T column.Numeric](rnd *rand.Rand) T {
	mag := 1 + rnd.Float64()*49
	if column.KindOf[T]() >= column.KindUint8 && column.KindOf[T]() <= column.KindUint64 {
		return T(mag)
	}
	if rnd.Intn(2) == 0 {
		return T(-mag)
	}
	return T(mag)
}
