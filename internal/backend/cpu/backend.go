// Package cpu implements the CPU backend: typed kernels with NumPy-style broadcasting
// and zero-copy views over row-major storage.
package cpu

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// Verify that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device  tensor.Device
	workers parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithWorkers bounds the goroutines used by one element-wise kernel. 1 disables
// parallel execution. Loops shorter than minChunk elements per worker stay sequential.
func WithWorkers(workers, minChunk int) Option {
	return func(cpu *CPUBackend) {
		cpu.workers = parallel.Config{Workers: workers, MinChunk: minChunk}
	}
}

// New creates a new CPU backend. By default kernels over large tensors use every CPU.
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		device:  tensor.CPU,
		workers: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// newRaw allocates a zeroed tensor on device, which must be the CPU.
func (cpu *CPUBackend) newRaw(op string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	if device != cpu.device {
		exceptions.Panicf("%s: CPU backend cannot allocate on device %s", op, device)
	}
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		exceptions.Panicf("%s: failed to create result tensor: %v", op, err)
	}
	return result
}

// Empty allocates an uninitialized tensor. CPU memory is always zeroed.
func (cpu *CPUBackend) Empty(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	klog.V(3).Infof("cpu: empty %s%v", dtype, shape)
	return cpu.newRaw("empty", shape, dtype, device)
}

// Full allocates a tensor filled with value.
func (cpu *CPUBackend) Full(shape tensor.Shape, dtype tensor.DataType, device tensor.Device, value float64) *tensor.RawTensor {
	klog.V(3).Infof("cpu: full %s%v with %g", dtype, shape, value)
	result := cpu.newRaw("full", shape, dtype, device)
	if value != 0 {
		fillScalar(result, value)
	}
	return result
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(opAdd, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(opSub, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(opMul, a, b)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(opDiv, a, b)
}

func (cpu *CPUBackend) binary(op binaryOp, a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		exceptions.Panicf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType())
	}
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		exceptions.Panicf("%s: %v", op, err)
	}
	result := cpu.newRaw(op.String(), outShape, a.DType(), a.Device())
	klog.V(3).Infof("cpu: %s %v, %v -> %v (broadcast=%v)", op, a.Shape(), b.Shape(), outShape, needsBroadcast)

	if needsBroadcast {
		binaryWithBroadcast(op, result, a, b, cpu.workers)
	} else {
		binaryVectorized(op, result, a, b, cpu.workers)
	}
	return result
}

// Reshape returns a view of t with a new shape (zero-copy).
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		exceptions.Panicf("reshape: invalid shape: %v", err)
	}
	if t.NumElements() != newShape.NumElements() {
		exceptions.Panicf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape)
	}
	view, err := t.View(0, newShape)
	if err != nil {
		exceptions.Panicf("reshape: %v", err)
	}
	return view
}

// Transpose transposes the tensor by permuting its dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		exceptions.Panicf("transpose: axes length %d != ndim %d", len(axes), ndim)
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			exceptions.Panicf("transpose: invalid axis %d for %dD tensor", ax, ndim)
		}
		if seen[ax] {
			exceptions.Panicf("transpose: duplicate axis %d", ax)
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.newRaw("transpose", newShape, t.DType(), t.Device())
	transposeData(result, t, axes)
	return result
}
