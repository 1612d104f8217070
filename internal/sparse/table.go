package sparse

import (
	"maps"
	"math"
	"slices"
)

// NormTable maps a dimension index to its closed Lp norm across a batch.
//
// A NormTable is immutable once returned by Summarize.
type NormTable struct {
	p     float64
	norms map[uint32]float64
}

// P returns the exponent the table was built with.
func (t *NormTable) P() float64 { return t.p }

// Len returns the number of dimensions present in the batch.
func (t *NormTable) Len() int { return len(t.norms) }

// Norm returns the norm of dimension idx.
func (t *NormTable) Norm(idx uint32) (float64, bool) {
	n, ok := t.norms[idx]
	return n, ok
}

// Dims returns the dimensions present in the batch in ascending order.
func (t *NormTable) Dims() []uint32 {
	return slices.Sorted(maps.Keys(t.norms))
}

// accumulator holds un-closed sums of |v|^p per dimension.
type accumulator map[uint32]float64

func (a accumulator) add(idx uint32, v, p float64) {
	a[idx] += pow(math.Abs(v), p)
}

// merge folds other into a. Sums must be merged before close.
func (a accumulator) merge(other accumulator) {
	for idx, s := range other {
		a[idx] += s
	}
}

func (a accumulator) close(p float64) *NormTable {
	norms := make(map[uint32]float64, len(a))
	exp := 1 / p
	for idx, s := range a {
		norms[idx] = closeRoot(s, p, exp)
	}
	return &NormTable{p: p, norms: norms}
}

func pow(x, p float64) float64 {
	switch p {
	case 1:
		return x
	case 2:
		return x * x
	default:
		return math.Pow(x, p)
	}
}

func closeRoot(s, p, exp float64) float64 {
	switch p {
	case 1:
		return s
	case 2:
		return math.Sqrt(s)
	default:
		return math.Pow(s, exp)
	}
}
