package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Fill sets every element of x to value.
func (cpu *CPUBackend) Fill(x *tensor.RawTensor, value float64) {
	fillScalar(x, value)
}

// CopyFrom stores row-major host values into dst, converting them to dst's dtype.
func (cpu *CPUBackend) CopyFrom(dst *tensor.RawTensor, values []float64) {
	if len(values) != dst.NumElements() {
		exceptions.Panicf("copy from: %d values for tensor %v with %d elements",
			len(values), dst.Shape(), dst.NumElements())
	}
	dst.SetFloat64s(values)
}

// CopyInto copies src into dst element-wise. Shapes must match; dtypes are converted.
func (cpu *CPUBackend) CopyInto(src, dst *tensor.RawTensor) {
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
func (cpu *CPUBackend) Values(x *tensor.RawTensor) []float64 {
	return x.Float64s()
}

func fillScalar(x *tensor.RawTensor, value float64) {
	switch x.DType() {
	case tensor.Float32:
		fillSlice(x.AsFloat32(), float32(value))
	case tensor.Float64:
		fillSlice(x.AsFloat64(), value)
	case tensor.Int32:
		fillSlice(x.AsInt32(), int32(value))
	case tensor.Int64:
		fillSlice(x.AsInt64(), int64(value))
	case tensor.Uint8:
		fillSlice(x.AsUint8(), uint8(value))
	case tensor.Bool:
		fillSlice(x.AsBool(), value != 0)
	case tensor.Float16:
		fillSlice(x.AsFloat16(), float16.Fromfloat32(float32(value)))
	default:
		exceptions.Panicf("fill: unsupported dtype %s", x.DType())
	}
}

func fillSlice[T any](data []T, value T) {
	for i := range data {
		data[i] = value
	}
}

// cast returns a copy of x converted to dtype.
func cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), dtype, x.Device())
	if err != nil {
		exceptions.Panicf("cast: %v", err)
	}
	result.SetFloat64s(x.Float64s())
	return result
}
