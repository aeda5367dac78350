package tensor

import (
	"github.com/gomlx/exceptions"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively in float64 and records the name of every
// call, so tests can check which engine primitives an operation requested.
type MockBackend struct {
	calls []string
}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Calls returns the names of the engine calls made so far.
func (m *MockBackend) Calls() []string {
	return append([]string(nil), m.calls...)
}

// Called reports whether the named engine call was made.
func (m *MockBackend) Called(name string) bool {
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

// Reset forgets the recorded calls.
func (m *MockBackend) Reset() {
	m.calls = nil
}

func (m *MockBackend) record(name string) {
	m.calls = append(m.calls, name)
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

func (m *MockBackend) newRaw(shape Shape, dtype DataType, device Device) *RawTensor {
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		exceptions.Panicf("mock: %v", err)
	}
	return raw
}

// Empty allocates a zeroed tensor.
func (m *MockBackend) Empty(shape Shape, dtype DataType, device Device) *RawTensor {
	m.record("Empty")
	return m.newRaw(shape, dtype, device)
}

// Full allocates a tensor filled with value.
func (m *MockBackend) Full(shape Shape, dtype DataType, device Device, value float64) *RawTensor {
	m.record("Full")
	raw := m.newRaw(shape, dtype, device)
	fill(raw, value)
	return raw
}

// At returns the view of position index along axis 0.
func (m *MockBackend) At(x *RawTensor, index int) *RawTensor {
	m.record("At")
	shape := x.Shape()
	if len(shape) == 0 || index < 0 || index >= shape[0] {
		exceptions.Panicf("mock: at(%d) out of range for shape %v", index, shape)
	}
	inner := shape[1:]
	view, err := x.View(index*inner.NumElements(), inner)
	if err != nil {
		exceptions.Panicf("mock: %v", err)
	}
	return view
}

// SliceAxis0 returns the view of [begin, end) along axis 0.
func (m *MockBackend) SliceAxis0(x *RawTensor, begin, end int) *RawTensor {
	m.record("SliceAxis0")
	shape := x.Shape()
	if len(shape) == 0 || begin < 0 || end > shape[0] || begin > end {
		exceptions.Panicf("mock: slice [%d, %d) out of range for shape %v", begin, end, shape)
	}
	out := shape.Clone()
	out[0] = end - begin
	view, err := x.View(begin*shape[1:].NumElements(), out)
	if err != nil {
		exceptions.Panicf("mock: %v", err)
	}
	return view
}

// Slice copies the region [begins, ends) of the leading axes.
func (m *MockBackend) Slice(x *RawTensor, begins, ends []int) *RawTensor {
	m.record("Slice")
	region, err := RegionShape(x.Shape(), begins, ends)
	if err != nil {
		exceptions.Panicf("mock: %v", err)
	}
	out := m.newRaw(region, x.DType(), x.Device())
	src := x.Float64s()
	dst := make([]float64, region.NumElements())
	ForEachRegionIndex(x.Shape(), begins, region, func(i, flat int) {
		dst[i] = src[flat]
	})
	out.SetFloat64s(dst)
	return out
}

// Reshape returns a copy of x with a new shape.
func (m *MockBackend) Reshape(x *RawTensor, newShape Shape) *RawTensor {
	m.record("Reshape")
	if x.NumElements() != newShape.NumElements() {
		exceptions.Panicf("mock: reshape %v -> %v changes the number of elements", x.Shape(), newShape)
	}
	out := m.newRaw(newShape, x.DType(), x.Device())
	out.SetFloat64s(x.Float64s())
	return out
}

// Transpose permutes the axes of x.
func (m *MockBackend) Transpose(x *RawTensor, axes ...int) *RawTensor {
	m.record("Transpose")
	shape := x.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		exceptions.Panicf("mock: transpose axes %v for %dD tensor", axes, ndim)
	}
	newShape := make(Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}
	out := m.newRaw(newShape, x.DType(), x.Device())
	src := x.Float64s()
	dst := make([]float64, len(src))
	inStrides := shape.ComputeStrides()
	outStrides := newShape.ComputeStrides()
	for i := range dst {
		rem, flat := i, 0
		for d := range newShape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			flat += coord * inStrides[axes[d]]
		}
		dst[i] = src[flat]
	}
	out.SetFloat64s(dst)
	return out
}

// Fill sets every element of x to value.
func (m *MockBackend) Fill(x *RawTensor, value float64) {
	m.record("Fill")
	fill(x, value)
}

// CopyFrom stores host values into dst.
func (m *MockBackend) CopyFrom(dst *RawTensor, values []float64) {
	m.record("CopyFrom")
	if len(values) != dst.NumElements() {
		exceptions.Panicf("mock: copy of %d values into %v", len(values), dst.Shape())
	}
	dst.SetFloat64s(values)
}

// CopyInto copies src into dst.
func (m *MockBackend) CopyInto(src, dst *RawTensor) {
	m.record("CopyInto")
	if !src.Shape().Equal(dst.Shape()) {
		exceptions.Panicf("mock: copy %v into %v", src.Shape(), dst.Shape())
	}
	dst.SetFloat64s(src.Float64s())
}

// SetSlice writes src into the region [begins, ends) of dst.
func (m *MockBackend) SetSlice(dst *RawTensor, begins, ends []int, src *RawTensor) {
	m.record("SetSlice")
	region, err := RegionShape(dst.Shape(), begins, ends)
	if err != nil {
		exceptions.Panicf("mock: %v", err)
	}
	if src.NumElements() != region.NumElements() {
		exceptions.Panicf("mock: set slice of %v with %v", region, src.Shape())
	}
	values := dst.Float64s()
	srcValues := src.Float64s()
	ForEachRegionIndex(dst.Shape(), begins, region, func(i, flat int) {
		values[flat] = srcValues[i]
	})
	dst.SetFloat64s(values)
}

// Values returns x's elements as float64.
func (m *MockBackend) Values(x *RawTensor) []float64 {
	m.record("Values")
	return x.Float64s()
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	m.record("Add")
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	m.record("Sub")
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	m.record("Mul")
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	m.record("Div")
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		exceptions.Panicf("mock: %v", err)
	}
	result := m.newRaw(outShape, a.DType(), a.Device())

	aData := a.Float64s()
	bData := b.Float64s()
	outStrides := outShape.ComputeStrides()
	aStrides := BroadcastStrides(a.Shape(), outShape)
	bStrides := BroadcastStrides(b.Shape(), outShape)
	resultData := make([]float64, outShape.NumElements())
	for i := range resultData {
		resultData[i] = op(aData[BroadcastIndex(i, outStrides, aStrides)], bData[BroadcastIndex(i, outStrides, bStrides)])
	}
	result.SetFloat64s(resultData)
	return result
}

func fill(x *RawTensor, value float64) {
	values := make([]float64, x.NumElements())
	for i := range values {
		values[i] = value
	}
	x.SetFloat64s(values)
}
