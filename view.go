package soago

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

// View is a read accessor bound to a boolean row mask of one Bulk
// snapshot, tagged with the partition key value that produced it.
//
// The mask is held as a compressed bitmap; Mask materializes the []bool
// form on demand.
type View struct {
	key    value.Value
	bits   *roaring.Bitmap
	length int
	parent *Bulk
}

// NewView creates a view over parent selecting the rows where mask is
// true. The mask length must equal the parent's row count.
func NewView(key value.Value, mask []bool, parent *Bulk) (*View, error) {
	if len(mask) != parent.Count() {
		return nil, &ErrLengthMismatch{Expected: parent.Count(), Actual: len(mask)}
	}
	bits := roaring.New()
	for i, m := range mask {
		if m {
			bits.Add(uint32(i))
		}
	}
	return &View{key: key, bits: bits, length: len(mask), parent: parent}, nil
}

// Key returns the partition key value this view was bucketed by.
func (v *View) Key() value.Value { return v.key }

// Parent returns the underlying snapshot.
func (v *View) Parent() *Bulk { return v.parent }

// Count returns the number of selected rows.
func (v *View) Count() int { return int(v.bits.GetCardinality()) }

// IsEmpty reports whether no rows are selected.
func (v *View) IsEmpty() bool { return v.bits.IsEmpty() }

// Mask returns the boolean row mask, one entry per parent row.
func (v *View) Mask() []bool {
	mask := make([]bool, v.length)
	it := v.bits.Iterator()
	for it.HasNext() {
		mask[it.Next()] = true
	}
	return mask
}

// GetField resolves field on the parent Bulk and filters it by the mask,
// preserving row order.
func (v *View) GetField(reg *schema.Registry, field string) (value.Value, error) {
	col, err := v.parent.Get(reg, field)
	if err != nil {
		return value.Value{}, err
	}
	if col.IsVector() && col.Len() != v.length {
		return value.Value{}, &ErrLengthMismatch{Expected: v.length, Actual: col.Len()}
	}

	switch col.Kind {
	case value.KindIntVector:
		out := make([]int64, 0, v.Count())
		it := v.bits.Iterator()
		for it.HasNext() {
			out = append(out, col.Ints[it.Next()])
		}
		return value.IntVector(out), nil
	case value.KindFloatVector:
		out := make([]float64, 0, v.Count())
		it := v.bits.Iterator()
		for it.HasNext() {
			out = append(out, col.Floats[it.Next()])
		}
		return value.FloatVector(out), nil
	case value.KindBoolVector:
		out := make([]bool, 0, v.Count())
		it := v.bits.Iterator()
		for it.HasNext() {
			out = append(out, col.Bools[it.Next()])
		}
		return value.BoolVector(out), nil
	case value.KindStringVector:
		out := make([]string, 0, v.Count())
		it := v.bits.Iterator()
		for it.HasNext() {
			out = append(out, col.Strings[it.Next()])
		}
		return value.StringVector(out), nil
	default:
		return value.Value{}, fmt.Errorf("%w: field %q did not resolve to a vector", ErrInvalidArgument, field)
	}
}
