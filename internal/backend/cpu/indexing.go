package cpu

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/ndarray/internal/tensor"
)

// At returns the view of position index along axis 0. The view shares x's storage.
//
// Example:
//
//	x: [3, 4]
//	At(x, 1): [4], elements 4..7 of x
func (cpu *CPUBackend) At(x *tensor.RawTensor, index int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) == 0 {
		exceptions.Panicf("at: cannot index a 0-dimensional tensor")
	}
	if index < 0 || index >= shape[0] {
		exceptions.Panicf("at: index %d out of bounds for axis 0 with size %d", index, shape[0])
	}
	inner := shape[1:]
	view, err := x.View(index*inner.NumElements(), inner)
	if err != nil {
		exceptions.Panicf("at: %v", err)
	}
	return view
}

// SliceAxis0 returns the view of positions [begin, end) along axis 0.
func (cpu *CPUBackend) SliceAxis0(x *tensor.RawTensor, begin, end int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) == 0 {
		exceptions.Panicf("slice: cannot slice a 0-dimensional tensor")
	}
	if begin < 0 || end > shape[0] || begin > end {
		exceptions.Panicf("slice: [%d, %d) out of bounds for axis 0 with size %d", begin, end, shape[0])
	}
	outShape := shape.Clone()
	outShape[0] = end - begin
	view, err := x.View(begin*shape[1:].NumElements(), outShape)
	if err != nil {
		exceptions.Panicf("slice: %v", err)
	}
	return view
}

// Slice copies the region [begins, ends) of the leading axes of x into a new tensor.
// Axes not covered by begins/ends are kept whole.
//
// Example:
//
//	x: [5, 5, 5], begins [2, 1], ends [3, 3]
//	result: [1, 2, 5]
func (cpu *CPUBackend) Slice(x *tensor.RawTensor, begins, ends []int) *tensor.RawTensor {
	region, err := tensor.RegionShape(x.Shape(), begins, ends)
	if err != nil {
		exceptions.Panicf("slice: %v", err)
	}
	result := cpu.newRaw("slice", region, x.DType(), x.Device())

	size := x.DType().Size()
	src, dst := x.Data(), result.Data()
	tensor.ForEachRegionIndex(x.Shape(), begins, region, func(i, flat int) {
		copy(dst[i*size:(i+1)*size], src[flat*size:(flat+1)*size])
	})
	return result
}

// SetSlice writes src into the region [begins, ends) of dst. src must hold as many
// elements as the region; it is converted to dst's dtype if needed.
func (cpu *CPUBackend) SetSlice(dst *tensor.RawTensor, begins, ends []int, src *tensor.RawTensor) {
	region, err := tensor.RegionShape(dst.Shape(), begins, ends)
	if err != nil {
		exceptions.Panicf("set slice: %v", err)
	}
	if src.NumElements() != region.NumElements() {
		exceptions.Panicf("set slice: source %v has %d elements, region %v has %d",
			src.Shape(), src.NumElements(), region, region.NumElements())
	}
	if src.DType() != dst.DType() {
		src = cast(src, dst.DType())
	}

	size := dst.DType().Size()
	srcData, dstData := src.Data(), dst.Data()
	if src.SharesBuffer(dst) {
		srcData = append([]byte(nil), srcData...)
	}
	tensor.ForEachRegionIndex(dst.Shape(), begins, region, func(i, flat int) {
		copy(dstData[flat*size:(flat+1)*size], srcData[i*size:(i+1)*size])
	})
}
