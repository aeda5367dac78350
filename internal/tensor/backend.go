package tensor

// Backend is the tensor-operation engine this package drives. It owns allocation,
// device placement and the numeric kernels; this package only decides which
// operation to request and with what parameters.
//
// Backends follow the convention of panicking on invalid input (ideally with an
// error, see exceptions.Panicf). Tensor methods convert those panics into errors.
//
// Implementations:
//   - cpu: pure Go kernels (internal/backend/cpu)
//   - dense: gorgonia.org/tensor dense arrays (internal/backend/dense)
//   - MockBackend: naive engine recording every call, for tests
type Backend interface {
	// Allocation.
	Empty(shape Shape, dtype DataType, device Device) *RawTensor
	Full(shape Shape, dtype DataType, device Device, value float64) *RawTensor

	// Views share storage with x; Slice returns a new tensor.
	At(x *RawTensor, index int) *RawTensor              // element view along axis 0, drops the axis
	SliceAxis0(x *RawTensor, begin, end int) *RawTensor // contiguous range along axis 0
	Slice(x *RawTensor, begins, ends []int) *RawTensor  // multi-axis slice of the leading axes
	Reshape(x *RawTensor, newShape Shape) *RawTensor    // same elements, new shape
	Transpose(x *RawTensor, axes ...int) *RawTensor     // permute axes, reverse if empty

	// Mutation.
	Fill(x *RawTensor, value float64)                            // broadcast-fill with a scalar
	CopyFrom(dst *RawTensor, values []float64)                   // row-major host values into dst
	CopyInto(src, dst *RawTensor)                                // elementwise copy, shapes must match
	SetSlice(dst *RawTensor, begins, ends []int, src *RawTensor) // write src into a region of dst

	// Host read-back, row-major.
	Values(x *RawTensor) []float64

	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
