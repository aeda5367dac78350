package dense

import (
	"github.com/gomlx/exceptions"
	gt "gorgonia.org/tensor"

	"github.com/born-ml/ndarray/internal/tensor"
)

// At returns the view of position index along axis 0.
func (b *Backend) At(x *tensor.RawTensor, index int) *tensor.RawTensor {
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
func (b *Backend) SliceAxis0(x *tensor.RawTensor, begin, end int) *tensor.RawTensor {
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

// Slice copies the region [begins, ends) of x's leading axes using Dense.Slice
// followed by Materialize. Gorgonia may drop unit axes from the view, so the
// result shape is computed here and only the elements are taken from gorgonia.
func (b *Backend) Slice(x *tensor.RawTensor, begins, ends []int) *tensor.RawTensor {
	region, err := tensor.RegionShape(x.Shape(), begins, ends)
	if err != nil {
		exceptions.Panicf("slice: %v", err)
	}
	result := b.newRaw("slice", region, x.DType(), x.Device())
	if region.NumElements() == 0 {
		return result
	}
	if len(begins) == 0 || region.Equal(x.Shape()) {
		copy(result.Data(), x.Data())
		return result
	}

	src := toCompute(x)
	slices := make([]gt.Slice, len(begins))
	for i := range begins {
		slices[i] = span{start: begins[i], end: ends[i]}
	}
	view, err := wrap(src).Slice(slices...)
	if err != nil {
		exceptions.Panicf("slice: %v", err)
	}
	storeDense(result, view.Materialize())
	return result
}

// SetSlice writes src into the region [begins, ends) of dst.
func (b *Backend) SetSlice(dst *tensor.RawTensor, begins, ends []int, src *tensor.RawTensor) {
	region, err := tensor.RegionShape(dst.Shape(), begins, ends)
	if err != nil {
		exceptions.Panicf("set slice: %v", err)
	}
	if src.NumElements() != region.NumElements() {
		exceptions.Panicf("set slice: source %v has %d elements, region %v has %d",
			src.Shape(), src.NumElements(), region, region.NumElements())
	}
	values := src.Float64s()
	out := dst.Float64s()
	tensor.ForEachRegionIndex(dst.Shape(), begins, region, func(i, flat int) {
		out[flat] = values[i]
	})
	dst.SetFloat64s(out)
}

// Reshape returns a view of x with a new shape.
func (b *Backend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		exceptions.Panicf("reshape: invalid shape: %v", err)
	}
	if x.NumElements() != newShape.NumElements() {
		exceptions.Panicf("reshape: incompatible shapes: %v -> %v", x.Shape(), newShape)
	}
	view, err := x.View(0, newShape)
	if err != nil {
		exceptions.Panicf("reshape: %v", err)
	}
	return view
}

// Transpose permutes the axes of x into a new tensor with Dense.T and Dense.Transpose.
// With no axes the order is reversed.
func (b *Backend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
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
	identity := true
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			exceptions.Panicf("transpose: invalid axes %v for %dD tensor", axes, ndim)
		}
		seen[ax] = true
		identity = identity && ax == i
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}
	result := b.newRaw("transpose", newShape, x.DType(), x.Device())
	if identity || x.NumElements() == 0 {
		copy(result.Data(), x.Data())
		return result
	}

	// Dense.Transpose moves data in place, so work on a copy.
	work, ok := wrap(toCompute(x)).Clone().(*gt.Dense)
	if !ok {
		exceptions.Panicf("transpose: unexpected clone type")
	}
	if err := work.T(axes...); err != nil {
		exceptions.Panicf("transpose: %v", err)
	}
	if err := work.Transpose(); err != nil {
		exceptions.Panicf("transpose: %v", err)
	}
	storeDense(result, work)
	return result
}
