// Package dense implements a Backend on top of gorgonia.org/tensor dense arrays.
//
// Storage stays in tensor.RawTensor buffers; kernels wrap those buffers as *gt.Dense
// without copying and run gorgonia's slicing, transposition and arithmetic on them.
// Float16 is computed in float32.
package dense

import (
	"github.com/gomlx/exceptions"
	gt "gorgonia.org/tensor"
	"k8s.io/klog/v2"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Verify that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Backend executes tensor operations with gorgonia.org/tensor on the CPU.
type Backend struct {
	device tensor.Device
}

// New creates a new dense backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "gorgonia"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return b.device
}

func (b *Backend) newRaw(op string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	if device != b.device {
		exceptions.Panicf("%s: gorgonia backend cannot allocate on device %s", op, device)
	}
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		exceptions.Panicf("%s: %v", op, err)
	}
	return raw
}

// Empty allocates a zeroed tensor.
func (b *Backend) Empty(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	return b.newRaw("empty", shape, dtype, device)
}

// Full allocates a tensor filled with value.
func (b *Backend) Full(shape tensor.Shape, dtype tensor.DataType, device tensor.Device, value float64) *tensor.RawTensor {
	raw := b.newRaw("full", shape, dtype, device)
	b.Fill(raw, value)
	return raw
}

// Fill sets every element of x to value using Dense.Memset.
func (b *Backend) Fill(x *tensor.RawTensor, value float64) {
	if x.NumElements() == 0 {
		return
	}
	if x.DType() == tensor.Float16 {
		values := make([]float64, x.NumElements())
		for i := range values {
			values[i] = value
		}
		x.SetFloat64s(values)
		return
	}
	if err := wrap(x).Memset(scalarOf(x.DType(), value)); err != nil {
		exceptions.Panicf("fill: %v", err)
	}
}

// CopyFrom stores row-major host values into dst.
func (b *Backend) CopyFrom(dst *tensor.RawTensor, values []float64) {
	if len(values) != dst.NumElements() {
		exceptions.Panicf("copy from: %d values for tensor %v", len(values), dst.Shape())
	}
	dst.SetFloat64s(values)
}

// CopyInto copies src into dst element-wise; shapes must match.
func (b *Backend) CopyInto(src, dst *tensor.RawTensor) {
	if !src.Shape().Equal(dst.Shape()) {
		exceptions.Panicf("copy into: shape mismatch %v vs %v", src.Shape(), dst.Shape())
	}
	if src.DType() != dst.DType() {
		dst.SetFloat64s(src.Float64s())
		return
	}
	copy(dst.Data(), src.Data())
}

// Values returns x's elements converted to float64.
func (b *Backend) Values(x *tensor.RawTensor) []float64 {
	return x.Float64s()
}

// Add performs element-wise addition with broadcasting.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("add", gt.Add, x, y)
}

// Sub performs element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("sub", gt.Sub, x, y)
}

// Mul performs element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("mul", gt.Mul, x, y)
}

// Div performs element-wise division with broadcasting.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("div", gt.Div, x, y)
}

type denseOp func(a, b interface{}, opts ...gt.FuncOpt) (gt.Tensor, error)

// binary expands both operands to the broadcast shape and runs fn on them.
func (b *Backend) binary(name string, fn denseOp, x, y *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != y.DType() {
		exceptions.Panicf("%s: dtype mismatch %s vs %s", name, x.DType(), y.DType())
	}
	if x.DType() == tensor.Bool {
		exceptions.Panicf("%s: unsupported dtype %s", name, x.DType())
	}
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		exceptions.Panicf("%s: %v", name, err)
	}
	result := b.newRaw(name, outShape, x.DType(), x.Device())
	if outShape.NumElements() == 0 {
		return result
	}
	klog.V(3).Infof("gorgonia: %s %v, %v -> %v", name, x.Shape(), y.Shape(), outShape)

	computeType := x.DType()
	if computeType == tensor.Float16 {
		computeType = tensor.Float32
	}
	xe := expand(x, outShape, computeType)
	ye := expand(y, outShape, computeType)

	out, err := fn(wrap(xe), wrap(ye))
	if err != nil {
		exceptions.Panicf("%s: %v", name, err)
	}
	storeDense(result, out)
	return result
}

// expand materializes x broadcast to outShape, in dtype.
func expand(x *tensor.RawTensor, outShape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	if x.Shape().Equal(outShape) && x.DType() == dtype {
		return x
	}
	result, err := tensor.NewRaw(outShape, dtype, x.Device())
	if err != nil {
		exceptions.Panicf("expand: %v", err)
	}
	src := x.Float64s()
	dst := make([]float64, outShape.NumElements())
	outStrides := outShape.ComputeStrides()
	inStrides := tensor.BroadcastStrides(x.Shape(), outShape)
	for i := range dst {
		dst[i] = src[tensor.BroadcastIndex(i, outStrides, inStrides)]
	}
	result.SetFloat64s(dst)
	return result
}
