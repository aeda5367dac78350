package dense

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
	gt "gorgonia.org/tensor"

	"github.com/born-ml/ndarray/internal/tensor"
)

// span selects [start, end) along one axis when slicing a *gt.Dense.
type span struct {
	start, end int
}

func (s span) Start() int { return s.start }
func (s span) End() int   { return s.end }
func (s span) Step() int  { return 1 }

var _ gt.Slice = span{}

// denseType maps a DataType to its gorgonia dtype.
func denseType(dtype tensor.DataType) gt.Dtype {
	switch dtype {
	case tensor.Float32:
		return gt.Float32
	case tensor.Float64:
		return gt.Float64
	case tensor.Int32:
		return gt.Int32
	case tensor.Int64:
		return gt.Int64
	case tensor.Uint8:
		return gt.Uint8
	case tensor.Bool:
		return gt.Bool
	default:
		exceptions.Panicf("gorgonia backend: unsupported dtype %s", dtype)
		return gt.Float32
	}
}

// denseShape returns the gorgonia shape for s. Gorgonia has no rank-0 dense
// layout with a backing slice, so scalars are laid out as [1].
func denseShape(s tensor.Shape) gt.Shape {
	if len(s) == 0 {
		return gt.Shape{1}
	}
	return gt.Shape(s.Clone())
}

// backing returns x's storage as a typed slice, without copying.
func backing(x *tensor.RawTensor) interface{} {
	switch x.DType() {
	case tensor.Float32:
		return x.AsFloat32()
	case tensor.Float64:
		return x.AsFloat64()
	case tensor.Int32:
		return x.AsInt32()
	case tensor.Int64:
		return x.AsInt64()
	case tensor.Uint8:
		return x.AsUint8()
	case tensor.Bool:
		return x.AsBool()
	default:
		exceptions.Panicf("gorgonia backend: unsupported dtype %s", x.DType())
		return nil
	}
}

// wrap returns a *gt.Dense sharing x's storage. Writes through the result
// are visible in x.
func wrap(x *tensor.RawTensor) *gt.Dense {
	return gt.NewDense(denseType(x.DType()), denseShape(x.Shape()), gt.WithBacking(backing(x)))
}

func scalarOf(dtype tensor.DataType, value float64) interface{} {
	switch dtype {
	case tensor.Float32:
		return float32(value)
	case tensor.Float64:
		return value
	case tensor.Int32:
		return int32(value)
	case tensor.Int64:
		return int64(value)
	case tensor.Uint8:
		return uint8(value)
	case tensor.Bool:
		return value != 0
	default:
		exceptions.Panicf("gorgonia backend: unsupported dtype %s", dtype)
		return nil
	}
}

// storeDense copies the elements of t into dst. dst may be Float16 when t was
// computed in float32.
func storeDense(dst *tensor.RawTensor, t gt.Tensor) {
	switch data := t.Data().(type) {
	case []float32:
		if dst.DType() == tensor.Float16 {
			out := dst.AsFloat16()
			for i := 0; i < len(out) && i < len(data); i++ {
				out[i] = float16.Fromfloat32(data[i])
			}
			return
		}
		copy(dst.AsFloat32(), data)
	case []float64:
		copy(dst.AsFloat64(), data)
	case []int32:
		copy(dst.AsInt32(), data)
	case []int64:
		copy(dst.AsInt64(), data)
	case []uint8:
		copy(dst.AsUint8(), data)
	case []bool:
		copy(dst.AsBool(), data)
	case float32:
		if dst.DType() == tensor.Float16 {
			dst.AsFloat16()[0] = float16.Fromfloat32(data)
			return
		}
		dst.AsFloat32()[0] = data
	case float64:
		dst.AsFloat64()[0] = data
	case int32:
		dst.AsInt32()[0] = data
	case int64:
		dst.AsInt64()[0] = data
	case uint8:
		dst.AsUint8()[0] = data
	case bool:
		dst.AsBool()[0] = data
	default:
		exceptions.Panicf("gorgonia backend: unexpected result data %T", data)
	}
}

// toCompute returns x in a dtype gorgonia can operate on.
func toCompute(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float16 {
		return x
	}
	result, err := tensor.NewRaw(x.Shape(), tensor.Float32, x.Device())
	if err != nil {
		exceptions.Panicf("convert: %v", err)
	}
	result.SetFloat64s(x.Float64s())
	return result
}
