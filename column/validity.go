package column

import "github.com/RoaringBitmap/roaring/v2"

// Validity tracks null positions.
//
// The zero value has no nulls. Only null positions are stored, so columns
// without nulls carry no bitmap at all.
type Validity struct {
	nulls *roaring.Bitmap
}

// ValidityFromBitmap wraps a bitmap of null positions. The bitmap is cloned.
func ValidityFromBitmap(bm *roaring.Bitmap) Validity {
	if bm == nil || bm.IsEmpty() {
		return Validity{}
	}
	return Validity{nulls: bm.Clone()}
}

// IsNull reports whether position i is null.
func (v Validity) IsNull(i int) bool {
	return v.nulls != nil && v.nulls.Contains(uint32(i)) //nolint:gosec
}

// Count returns the number of null positions.
func (v Validity) Count() int {
	if v.nulls == nil {
		return 0
	}
	return int(v.nulls.GetCardinality()) //nolint:gosec
}

// Bitmap returns a copy of the null positions. Never nil.
func (v Validity) Bitmap() *roaring.Bitmap {
	if v.nulls == nil {
		return roaring.New()
	}
	return v.nulls.Clone()
}

func (v *Validity) setNull(i int) {
	if v.nulls == nil {
		v.nulls = roaring.New()
	}
	v.nulls.Add(uint32(i)) //nolint:gosec
}

// Clone returns an independent copy.
func (v Validity) Clone() Validity {
	if v.nulls == nil {
		return Validity{}
	}
	return Validity{nulls: v.nulls.Clone()}
}

// outside reports whether any null position is >= n.
func (v Validity) outside(n int) bool {
	if v.nulls == nil || v.nulls.IsEmpty() {
		return false
	}
	return int(v.nulls.Maximum()) >= n
}
