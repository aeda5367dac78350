// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides n-dimensional arrays with NumPy-style indexing.
//
// # Overview
//
// The package is the user-facing layer over a compute Backend. It provides:
//   - Construction from nested Go slices with automatic shape inference
//   - Indexing with integers, ranges and per-axis key lists
//   - Assignment through views, including multi-axis regions
//   - Element-wise arithmetic with tensors (broadcast) or Go numbers
//
// Storage and kernels belong to the backend; see backend/cpu and backend/dense.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ndarray/backend/cpu"
//	    "github.com/born-ml/ndarray/tensor"
//	)
//
//	func main() {
//	    f := tensor.NewFactory(cpu.New(), tensor.WithDType("float64"))
//
//	    x, _ := f.Array([][]float64{{1, 2, 3}, {4, 5, 6}})  // shape [2, 3]
//	    row, _ := x.Get(tensor.Index(1))                    // [4, 5, 6]
//	    col, _ := x.Get(tensor.Keys{tensor.SpanAll(), tensor.Index(0)})
//	    y, _ := x.Add(1)                                    // host arithmetic
//	    z, _ := x.Mul(y)                                    // backend arithmetic
//	}
//
// # Keys
//
// A key selects part of a tensor:
//
//	tensor.Index(2)                       // position 2 of axis 0, axis dropped
//	tensor.Span(1, 4)                     // positions 1..3 of axis 0
//	tensor.SpanAll()                      // whole tensor
//	tensor.Keys{tensor.Index(2), tensor.Span(1, 3)}  // one key per leading axis
//
// Index and Range keys return views that share storage with the source, so
// assignment through them is visible in the source. Keys return a copy.
// Negative positions are rejected with ErrIndexOutOfRange.
//
// ParseKey accepts the textual form of keys: "2", "1:4", ":", "[2, 1:3]".
//
// # Shape Inference
//
// InferShape walks a nested literal and returns the shape of its rectangular
// prefix:
//
//	tensor.DiscoverShape([][]int{{1, 2}, {3, 4}, {5, 6}})  // [3, 2], depth 2
//	tensor.DiscoverShape([]any{})                          // [0], depth 1
//	tensor.DiscoverShape(7)                                // [], depth 0
//
// # Errors
//
// Failures are reported with wrapped sentinel errors; match them with errors.Is:
// ErrTypeMismatch, ErrIndexOutOfRange, ErrUnsupportedKeyType,
// ErrUnsupportedValueType, ErrShapeInconsistency and ErrBackend.
package tensor
