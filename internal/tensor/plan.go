package tensor

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"
)

// Selection is the result of planning a key against a shape. The set is closed:
// ElementSelection, RangeSelection, FullView and SlicePlan.
type Selection interface {
	isSelection()
}

// ElementSelection selects one position along axis 0, dropping that axis.
type ElementSelection struct {
	Index int
}

// RangeSelection selects the contiguous positions [Begin, End) along axis 0.
type RangeSelection struct {
	Begin, End int
}

// FullView selects the unmodified tensor. No engine call is needed.
type FullView struct{}

// SlicePlan is a multi-axis selection: slice the leading axes with Begins/Ends
// (exclusive), then reshape to OutShape.
type SlicePlan struct {
	Begins   []int
	Ends     []int
	OutShape Shape
}

func (ElementSelection) isSelection() {}
func (RangeSelection) isSelection()   {}
func (FullView) isSelection()         {}
func (SlicePlan) isSelection()        {}

// RegionShape returns the shape of the sliced region before the final reshape: one axis per
// planned axis (collapsed ones with size 1) followed by the untouched trailing axes.
func (p SlicePlan) RegionShape(shape Shape) Shape {
	region := make(Shape, 0, len(shape))
	for axis := range p.Begins {
		region = append(region, p.Ends[axis]-p.Begins[axis])
	}
	return append(region, shape[len(p.Begins):]...)
}

// Plan translates key into a Selection over a tensor of the given shape.
//
// Index and Range keys address axis 0; both endpoints of a range and both bounds of an
// index are validated. Keys address the leading axes positionally, see planKeys.
func Plan(shape Shape, key Key) (Selection, error) {
	switch k := key.(type) {
	case nil, Whole:
		return FullView{}, nil

	case Index:
		i := int(k)
		if len(shape) == 0 {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "cannot index a 0-dimensional tensor with %d", i)
		}
		if i > shape[0]-1 || i < 0 {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d is out of bounds for axis 0 with size %d", i, shape[0])
		}
		return ElementSelection{Index: i}, nil

	case Range:
		if k.IsOpen() {
			return FullView{}, nil
		}
		if len(shape) == 0 {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "cannot slice a 0-dimensional tensor with %s", k)
		}
		begin, end, err := rangeBounds(k, 0, shape[0])
		if err != nil {
			return nil, err
		}
		return RangeSelection{Begin: begin, End: end}, nil

	case Keys:
		return planKeys(shape, k)

	default:
		return nil, errors.Wrapf(ErrUnsupportedKeyType, "tensor does not support slicing with key %v of type %T", key, key)
	}
}

func rangeBounds(r Range, axis, dim int) (int, int, error) {
	begin, end := r.Bounds(dim)
	if begin < 0 || end > dim || begin > end {
		return 0, 0, errors.Wrapf(ErrIndexOutOfRange,
			"range %s is out of bounds for axis %d with size %d", r, axis, dim)
	}
	return begin, end, nil
}

// planKeys builds the SlicePlan of a composite key. Every invalid sub-key is reported.
func planKeys(shape Shape, keys Keys) (Selection, error) {
	if len(keys) > len(shape) {
		return nil, errors.Wrapf(ErrIndexOutOfRange,
			"slicing dimensions exceeds array dimensions, %d vs %d", len(keys), len(shape))
	}

	plan := SlicePlan{
		Begins:   make([]int, 0, len(keys)),
		Ends:     make([]int, 0, len(keys)),
		OutShape: make(Shape, 0, len(shape)),
	}
	var err error
	for axis, key := range keys {
		dim := shape[axis]
		switch k := key.(type) {
		case Index:
			i := int(k)
			if i < 0 || i >= dim {
				err = multierr.Append(err, errors.Wrapf(ErrIndexOutOfRange,
					"index %d is out of bounds for axis %d with size %d", i, axis, dim))
			}
			plan.Begins = append(plan.Begins, i)
			plan.Ends = append(plan.Ends, i+1)

		case Range:
			begin, end, rangeErr := rangeBounds(k, axis, dim)
			err = multierr.Append(err, rangeErr)
			plan.Begins = append(plan.Begins, begin)
			plan.Ends = append(plan.Ends, end)
			plan.OutShape = append(plan.OutShape, end-begin)

		default:
			err = multierr.Append(err, errors.Wrapf(ErrUnsupportedKeyType,
				"tensor does not support slicing axis %d with key %v of type %T", axis, key, key))
			plan.Begins = append(plan.Begins, 0)
			plan.Ends = append(plan.Ends, 0)
		}
	}
	if err != nil {
		return nil, err
	}

	plan.OutShape = append(plan.OutShape, shape[len(keys):]...)
	if len(plan.OutShape) == 0 {
		plan.OutShape = Shape{1}
	}
	if klog.V(2).Enabled() {
		klog.Infof("Plan(%v, %s): begins=%v ends=%v outShape=%v", shape, keys, plan.Begins, plan.Ends, plan.OutShape)
	}
	return plan, nil
}

// String implements fmt.Stringer.
func (s ElementSelection) String() string { return fmt.Sprintf("element(%d)", s.Index) }

// String implements fmt.Stringer.
func (s RangeSelection) String() string { return fmt.Sprintf("range(%d:%d)", s.Begin, s.End) }

// String implements fmt.Stringer.
func (FullView) String() string { return "full-view" }

// String implements fmt.Stringer.
func (p SlicePlan) String() string {
	return fmt.Sprintf("slice(begins=%v, ends=%v) -> reshape%v", p.Begins, p.Ends, p.OutShape)
}
