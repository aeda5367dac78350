package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// number is the element type of the arithmetic kernels.
type number interface {
	constraints.Integer | constraints.Float
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

func (op binaryOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	default:
		return "div"
	}
}

func apply[T number](op binaryOp, x, y T) T {
	switch op {
	case opAdd:
		return x + y
	case opSub:
		return x - y
	case opMul:
		return x * y
	default:
		return x / y
	}
}

// vectorized computes dst = a op b for same-shape operands.
func vectorized[T number](op binaryOp, dst, a, b []T, cfg parallel.Config) {
	parallel.Chunks(len(dst), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = apply(op, a[i], b[i])
		}
	})
}

// broadcast computes dst = a op b with a and b broadcast to outShape.
func broadcast[T number](op binaryOp, dst, a, b []T, aShape, bShape, outShape tensor.Shape, cfg parallel.Config) {
	outStrides := outShape.ComputeStrides()
	aStrides := tensor.BroadcastStrides(aShape, outShape)
	bStrides := tensor.BroadcastStrides(bShape, outShape)
	parallel.For(len(dst), cfg, func(i int) {
		dst[i] = apply(op, a[tensor.BroadcastIndex(i, outStrides, aStrides)], b[tensor.BroadcastIndex(i, outStrides, bStrides)])
	})
}

// vectorizedFloat64 is vectorized on gonum's float64 kernels.
func vectorizedFloat64(op binaryOp, dst, a, b []float64, cfg parallel.Config) {
	parallel.Chunks(len(dst), cfg, func(start, end int) {
		d, s, t := dst[start:end], a[start:end], b[start:end]
		switch op {
		case opAdd:
			floats.AddTo(d, s, t)
		case opSub:
			floats.SubTo(d, s, t)
		case opMul:
			floats.MulTo(d, s, t)
		case opDiv:
			floats.DivTo(d, s, t)
		}
	})
}

// binaryVectorized performs result = a op b for same-shape tensors.
func binaryVectorized(op binaryOp, result, a, b *tensor.RawTensor, cfg parallel.Config) {
	switch a.DType() {
	case tensor.Float32:
		vectorized(op, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), cfg)
	case tensor.Float64:
		vectorizedFloat64(op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), cfg)
	case tensor.Int32:
		vectorized(op, result.AsInt32(), a.AsInt32(), b.AsInt32(), cfg)
	case tensor.Int64:
		vectorized(op, result.AsInt64(), a.AsInt64(), b.AsInt64(), cfg)
	case tensor.Uint8:
		vectorized(op, result.AsUint8(), a.AsUint8(), b.AsUint8(), cfg)
	case tensor.Float16:
		out := make([]float32, result.NumElements())
		vectorized(op, out, float16ToFloat32(a.AsFloat16()), float16ToFloat32(b.AsFloat16()), cfg)
		float32ToFloat16(result.AsFloat16(), out)
	default:
		exceptions.Panicf("%s: unsupported dtype %s", op, a.DType())
	}
}

// binaryWithBroadcast performs result = a op b with broadcasting.
func binaryWithBroadcast(op binaryOp, result, a, b *tensor.RawTensor, cfg parallel.Config) {
	aShape, bShape, outShape := a.Shape(), b.Shape(), result.Shape()
	switch a.DType() {
	case tensor.Float32:
		broadcast(op, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), aShape, bShape, outShape, cfg)
	case tensor.Float64:
		broadcast(op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), aShape, bShape, outShape, cfg)
	case tensor.Int32:
		broadcast(op, result.AsInt32(), a.AsInt32(), b.AsInt32(), aShape, bShape, outShape, cfg)
	case tensor.Int64:
		broadcast(op, result.AsInt64(), a.AsInt64(), b.AsInt64(), aShape, bShape, outShape, cfg)
	case tensor.Uint8:
		broadcast(op, result.AsUint8(), a.AsUint8(), b.AsUint8(), aShape, bShape, outShape, cfg)
	case tensor.Float16:
		out := make([]float32, result.NumElements())
		broadcast(op, out, float16ToFloat32(a.AsFloat16()), float16ToFloat32(b.AsFloat16()), aShape, bShape, outShape, cfg)
		float32ToFloat16(result.AsFloat16(), out)
	default:
		exceptions.Panicf("%s: unsupported dtype %s", op, a.DType())
	}
}

func float16ToFloat32(src []float16.Float16) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = v.Float32()
	}
	return dst
}

func float32ToFloat16(dst []float16.Float16, src []float32) {
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v)
	}
}

// transposeData writes src, permuted by axes, into result.
func transposeData(result, src *tensor.RawTensor, axes []int) {
	switch src.DType() {
	case tensor.Float32:
		transpose(result.AsFloat32(), src.AsFloat32(), src.Shape(), axes)
	case tensor.Float64:
		transpose(result.AsFloat64(), src.AsFloat64(), src.Shape(), axes)
	case tensor.Int32:
		transpose(result.AsInt32(), src.AsInt32(), src.Shape(), axes)
	case tensor.Int64:
		transpose(result.AsInt64(), src.AsInt64(), src.Shape(), axes)
	case tensor.Uint8:
		transpose(result.AsUint8(), src.AsUint8(), src.Shape(), axes)
	case tensor.Bool:
		transpose(result.AsBool(), src.AsBool(), src.Shape(), axes)
	case tensor.Float16:
		transpose(result.AsFloat16(), src.AsFloat16(), src.Shape(), axes)
	default:
		exceptions.Panicf("transpose: unsupported dtype %s", src.DType())
	}
}

func transpose[T any](dst, src []T, shape tensor.Shape, axes []int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	coords := make([]int, ndim)
	for i := range src {
		// Coordinates in source
		idx := i
		for dim := 0; dim < ndim; dim++ {
			coords[dim] = idx / srcStrides[dim]
			idx %= srcStrides[dim]
		}

		// Flat index in destination, with permuted coordinates
		dstIdx := 0
		for dstDim, srcDim := range axes {
			dstIdx += coords[srcDim] * dstStrides[dstDim]
		}
		dst[dstIdx] = src[i]
	}
}
