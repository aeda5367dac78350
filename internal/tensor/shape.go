package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
// An empty shape is a 0-dimensional scalar; a dimension of 0 is an empty axis.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// Validate checks that no dimension is negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}

// BroadcastStrides returns, for each axis of outShape, the stride to use when reading
// a row-major tensor of shape inShape broadcast to outShape. Stretched axes get stride 0.
func BroadcastStrides(inShape, outShape Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Pad input shape with 1s on the left
	offset := outDim - len(inShape)
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		if inIdx < 0 || inShape[inIdx] == 1 {
			continue
		}
		strides[i] = origStrides[inIdx]
	}
	return strides
}

// BroadcastIndex maps the flat output index outIdx to the flat input index, given the
// output strides and the broadcast-adjusted input strides.
func BroadcastIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		if outStrides[i] == 0 {
			continue
		}
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}

// RegionShape validates the region [begins, ends) of the leading axes of shape and returns
// the region's shape, including the untouched trailing axes.
func RegionShape(shape Shape, begins, ends []int) (Shape, error) {
	if len(begins) != len(ends) || len(begins) > len(shape) {
		return nil, fmt.Errorf("slice: %d begins and %d ends for shape %v", len(begins), len(ends), shape)
	}
	region := shape.Clone()
	for axis := range begins {
		if begins[axis] < 0 || ends[axis] > shape[axis] || begins[axis] > ends[axis] {
			return nil, fmt.Errorf("slice: [%d, %d) out of range for axis %d of shape %v",
				begins[axis], ends[axis], axis, shape)
		}
		region[axis] = ends[axis] - begins[axis]
	}
	return region, nil
}

// ForEachRegionIndex calls fn with the position i of every element of a region, in the
// region's row-major order, and its flat index in a row-major tensor of the given shape.
func ForEachRegionIndex(shape Shape, begins []int, region Shape, fn func(i, flat int)) {
	strides := shape.ComputeStrides()
	regionStrides := region.ComputeStrides()
	for i := 0; i < region.NumElements(); i++ {
		rem, flat := i, 0
		for axis := range region {
			coord := rem / regionStrides[axis]
			rem %= regionStrides[axis]
			if axis < len(begins) {
				coord += begins[axis]
			}
			flat += coord * strides[axis]
		}
		fn(i, flat)
	}
}
