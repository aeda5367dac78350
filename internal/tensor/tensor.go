package tensor

import (
	"fmt"
	"reflect"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Tensor is a handle to engine-managed storage together with the Backend that owns it.
//
// Several tensors may alias the same storage: views returned by Get with an Index or
// a Range share memory with their parent, so assigning into them writes the parent.
//
// Example:
//
//	f := tensor.NewFactory(cpu.New())
//	x, _ := f.Array([][]float32{{1, 2}, {3, 4}})
//	row, _ := x.Get(tensor.Index(1))     // [3, 4], a view
//	_ = row.Set(nil, 0)                  // x is now [[1, 2], [0, 0]]
type Tensor struct {
	raw     *RawTensor
	backend Backend
}

// New creates a Tensor from a RawTensor and backend.
func New(raw *RawTensor, b Backend) *Tensor {
	return &Tensor{
		raw:     raw,
		backend: b,
	}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor) Device() Device {
	return t.raw.Device()
}

// NDim returns the number of axes.
func (t *Tensor) NDim() int {
	return len(t.raw.Shape())
}

// Rank is an alias for NDim.
func (t *Tensor) Rank() int {
	return t.NDim()
}

// Size returns the total number of elements.
func (t *Tensor) Size() int {
	return t.raw.NumElements()
}

// NumElements is an alias for Size.
func (t *Tensor) NumElements() int {
	return t.Size()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor) Backend() Backend {
	return t.backend
}

// Aliases reports whether t and other reference the same storage window.
func (t *Tensor) Aliases(other *Tensor) bool {
	return other != nil && t.raw.Aliases(other.raw)
}

// Release drops this handle's reference to its storage.
func (t *Tensor) Release() {
	t.raw.Release()
}

// String returns a human-readable description of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s (%s)", t.raw.DType(), t.raw.Shape(), t.raw.Device(),
		humanize.Bytes(uint64(t.raw.ByteSize())))
}

// Get returns the selection of t addressed by key.
//
//   - Index i: element view along axis 0 (shares storage, drops the axis).
//   - Range: contiguous view along axis 0 (shares storage); a fully open range returns t itself.
//   - Keys: multi-axis slice followed by a reshape (a new tensor).
//   - Whole or nil: t itself.
func (t *Tensor) Get(key Key) (*Tensor, error) {
	sel, err := Plan(t.Shape(), key)
	if err != nil {
		return nil, err
	}
	return t.selectPlanned(sel)
}

func (t *Tensor) selectPlanned(sel Selection) (*Tensor, error) {
	var raw *RawTensor
	var err error
	switch s := sel.(type) {
	case FullView:
		return t, nil
	case ElementSelection:
		err = catchBackend("at", func() { raw = t.backend.At(t.raw, s.Index) })
	case RangeSelection:
		err = catchBackend("slice axis 0", func() { raw = t.backend.SliceAxis0(t.raw, s.Begin, s.End) })
	case SlicePlan:
		err = catchBackend("slice", func() {
			raw = t.backend.Reshape(t.backend.Slice(t.raw, s.Begins, s.Ends), s.OutShape)
		})
	default:
		err = errors.Errorf("unknown selection %T", sel)
	}
	if err != nil {
		return nil, err
	}
	return New(raw, t.backend), nil
}

// Set assigns value to the selection of t addressed by key.
//
// Index and Range keys assign into the corresponding view. Whole (or nil) dispatches
// on the value: another *Tensor is copied elementwise (nothing happens if it aliases t),
// a Go number fills t, and a nested literal of matching size is copied in row-major
// order. Keys assign into the planned multi-axis region.
func (t *Tensor) Set(key Key, value any) error {
	switch k := key.(type) {
	case nil, Whole:
		return t.assign(value)
	case Index, Range:
		view, err := t.Get(k)
		if err != nil {
			return err
		}
		return view.assign(value)
	case Keys:
		sel, err := Plan(t.Shape(), k)
		if err != nil {
			return err
		}
		return t.assignRegion(sel.(SlicePlan), value)
	default:
		return errors.Wrapf(ErrUnsupportedKeyType, "tensor does not support assignment with key %v of type %T", key, key)
	}
}

// assign implements Set with the Whole key.
func (t *Tensor) assign(value any) error {
	switch v := value.(type) {
	case *Tensor:
		if v == nil {
			return errors.Wrapf(ErrUnsupportedValueType, "tensor does not support assignment with a nil *Tensor")
		}
		if v.raw.Aliases(t.raw) {
			klog.V(3).Infof("assign: source aliases destination %v, skipping copy", t.Shape())
			return nil
		}
		return catchBackend("copy into", func() { t.backend.CopyInto(v.raw, t.raw) })
	}

	if x, ok := scalarFromValue(reflect.ValueOf(value)); ok {
		return catchBackend("fill", func() { t.backend.Fill(t.raw, x) })
	}

	if isSequence(reflect.ValueOf(value)) {
		values, err := literalValues(value, t.Size())
		if err != nil {
			return err
		}
		return catchBackend("copy from", func() { t.backend.CopyFrom(t.raw, values) })
	}

	return errors.Wrapf(ErrUnsupportedValueType, "tensor does not support assignment with %v of type %T", value, value)
}

// literalValues validates a nested literal and flattens it; it must hold exactly size leaves.
func literalValues(literal any, size int) ([]float64, error) {
	shape, depth, err := DiscoverShape(literal)
	if err != nil {
		return nil, err
	}
	if shape.NumElements() != size {
		return nil, errors.Wrapf(ErrShapeInconsistency,
			"literal of shape %v has %d elements, target has %d", shape, shape.NumElements(), size)
	}
	return flattenLiteral(literal, depth)
}

// assignRegion writes value into the region of t selected by plan.
func (t *Tensor) assignRegion(plan SlicePlan, value any) error {
	region := plan.RegionShape(t.Shape())

	var src *RawTensor
	switch v := value.(type) {
	case *Tensor:
		if v == nil {
			return errors.Wrapf(ErrUnsupportedValueType, "tensor does not support assignment with a nil *Tensor")
		}
		if v.Size() != region.NumElements() {
			return errors.Wrapf(ErrShapeInconsistency,
				"cannot assign tensor of shape %v to a selection of shape %v", v.Shape(), plan.OutShape)
		}
		if err := catchBackend("reshape", func() { src = t.backend.Reshape(v.raw, region) }); err != nil {
			return err
		}

	default:
		if x, ok := scalarFromValue(reflect.ValueOf(value)); ok {
			if err := catchBackend("full", func() { src = t.backend.Full(region, t.DType(), t.Device(), x) }); err != nil {
				return err
			}
			break
		}
		if !isSequence(reflect.ValueOf(value)) {
			return errors.Wrapf(ErrUnsupportedValueType, "tensor does not support assignment with %v of type %T", value, value)
		}
		values, err := literalValues(value, region.NumElements())
		if err != nil {
			return err
		}
		err = catchBackend("copy from", func() {
			src = t.backend.Empty(region, t.DType(), t.Device())
			t.backend.CopyFrom(src, values)
		})
		if err != nil {
			return err
		}
	}

	klog.V(2).Infof("assign region begins=%v ends=%v of %v", plan.Begins, plan.Ends, t.Shape())
	return catchBackend("set slice", func() { t.backend.SetSlice(t.raw, plan.Begins, plan.Ends, src) })
}

// Transpose permutes the axes of t; with no axes it reverses them.
func (t *Tensor) Transpose(axes ...int) (*Tensor, error) {
	var raw *RawTensor
	if err := catchBackend("transpose", func() { raw = t.backend.Transpose(t.raw, axes...) }); err != nil {
		return nil, err
	}
	return New(raw, t.backend), nil
}

// Values reads the tensor's elements back to the host in row-major order.
func (t *Tensor) Values() ([]float64, error) {
	var values []float64
	if err := catchBackend("values", func() { values = t.backend.Values(t.raw) }); err != nil {
		return nil, err
	}
	return values, nil
}

// AsScalar returns the only element of a tensor of shape [1] or [].
func (t *Tensor) AsScalar() (float64, error) {
	if t.Size() != 1 || t.NDim() > 1 {
		return 0, errors.Wrapf(ErrTypeMismatch, "tensor of shape %v is not a scalar", t.Shape())
	}
	values, err := t.Values()
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// ValuesOf reads t back to the host converted to T.
//
// Example:
//
//	flat, err := tensor.ValuesOf[int64](x)
func ValuesOf[T constraints.Integer | constraints.Float](t *Tensor) ([]T, error) {
	values, err := t.Values()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out, nil
}
