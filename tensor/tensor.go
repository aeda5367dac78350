// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
	"golang.org/x/exp/constraints"
)

// Type aliases for public API

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
	Float16 DataType = tensor.Float16
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants. The cpu and dense backends only accept CPU; the others are
// placement tags for Backend implementations outside this module.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a handle to backend storage with indexing, assignment and arithmetic.
//
// Example:
//
//	f := tensor.NewFactory(cpu.New())
//	x, _ := f.Array([][]float32{{1, 2}, {3, 4}})
//	_ = x.Set(tensor.Keys{tensor.Index(0), tensor.Index(1)}, 9)  // [[1, 9], [3, 4]]
type Tensor = tensor.Tensor

// BinaryOp names an element-wise operator for Tensor.Apply.
type BinaryOp = tensor.BinaryOp

// Element-wise operators.
const (
	OpAdd BinaryOp = tensor.OpAdd
	OpSub BinaryOp = tensor.OpSub
	OpMul BinaryOp = tensor.OpMul
	OpDiv BinaryOp = tensor.OpDiv
)

// Keys

// Key selects part of a tensor: Index, Range, Keys or Whole.
type Key = tensor.Key

// Index selects one position along axis 0.
type Index = tensor.Index

// Range selects positions [begin, end) along an axis; either bound may be open.
type Range = tensor.Range

// Keys holds one key per leading axis.
type Keys = tensor.Keys

// Whole selects the entire tensor.
type Whole = tensor.Whole

// Span returns the range [begin, end).
func Span(begin, end int) Range {
	return tensor.Span(begin, end)
}

// SpanFrom returns the range [begin, ∞).
func SpanFrom(begin int) Range {
	return tensor.SpanFrom(begin)
}

// SpanTo returns the range [0, end).
func SpanTo(end int) Range {
	return tensor.SpanTo(end)
}

// SpanAll returns the fully open range.
func SpanAll() Range {
	return tensor.SpanAll()
}

// ParseKey parses the textual form of a key, such as "2", "1:4" or "[2, 1:3]".
func ParseKey(text string) (Key, error) {
	return tensor.ParseKey(text)
}

// Selections

// Selection is the result of planning a key against a shape.
type Selection = tensor.Selection

// ElementSelection selects one position along axis 0.
type ElementSelection = tensor.ElementSelection

// RangeSelection selects [Begin, End) along axis 0.
type RangeSelection = tensor.RangeSelection

// FullView selects the unmodified tensor.
type FullView = tensor.FullView

// SlicePlan is a multi-axis selection.
type SlicePlan = tensor.SlicePlan

// Plan validates key against shape and returns the selection it denotes.
//
// Example:
//
//	sel, _ := tensor.Plan(tensor.Shape{5, 5, 5}, tensor.Keys{tensor.Index(2), tensor.Span(1, 3)})
//	// SlicePlan{Begins: [2 1], Ends: [3 3], OutShape: [2 5]}
func Plan(shape Shape, key Key) (Selection, error) {
	return tensor.Plan(shape, key)
}

// Construction

// Factory creates tensors on a Backend.
type Factory = tensor.Factory

// Option configures a Factory or a single constructor call.
type Option = tensor.Option

// NewFactory creates a Factory on b. Without options tensors are float32 on b's device.
func NewFactory(b Backend, opts ...Option) *Factory {
	return tensor.NewFactory(b, opts...)
}

// WithDevice places tensors on device.
func WithDevice(device Device) Option {
	return tensor.WithDevice(device)
}

// WithDType sets the data type: a name such as "float64", a DataType or a dtype id.
func WithDType(dtype any) Option {
	return tensor.WithDType(dtype)
}

// New wraps raw storage owned by b.
func New(raw *RawTensor, b Backend) *Tensor {
	return tensor.New(raw, b)
}

// Shape inference

// MaxDims is the default nesting depth explored by DiscoverShape.
const MaxDims = tensor.MaxDims

// DiscoverShape infers the shape and nesting depth of a nested literal.
func DiscoverShape(literal any) (Shape, int, error) {
	return tensor.DiscoverShape(literal)
}

// InferShape is DiscoverShape exploring at most maxDepth levels.
func InferShape(literal any, maxDepth int) (Shape, int, error) {
	return tensor.InferShape(literal, maxDepth)
}

// Utility functions

// ParseDataType returns the DataType named name, e.g. "float32".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// ValuesOf returns the elements of t converted to T.
func ValuesOf[T constraints.Integer | constraints.Float](t *Tensor) ([]T, error) {
	return tensor.ValuesOf[T](t)
}

// BroadcastShapes computes the broadcast shape for two shapes following NumPy broadcasting rules.
//
// Example:
//
//	resultShape, needsBroadcast, err := tensor.BroadcastShapes(
//	    tensor.Shape{3, 1},
//	    tensor.Shape{3, 4},
//	)
//	// resultShape = [3, 4], needsBroadcast = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Errors

// Error kinds; match them with errors.Is.
var (
	ErrTypeMismatch         = tensor.ErrTypeMismatch
	ErrIndexOutOfRange      = tensor.ErrIndexOutOfRange
	ErrUnsupportedKeyType   = tensor.ErrUnsupportedKeyType
	ErrUnsupportedValueType = tensor.ErrUnsupportedValueType
	ErrShapeInconsistency   = tensor.ErrShapeInconsistency
	ErrBackend              = tensor.ErrBackend
)
