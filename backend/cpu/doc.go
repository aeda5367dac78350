// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float16, Float32, Float64, Int32, Int64 and Uint8 arithmetic
//   - NumPy-compatible broadcasting
//   - Zero-copy views for element and axis-0 range selection
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ndarray/backend/cpu"
//	    "github.com/born-ml/ndarray/tensor"
//	)
//
//	func main() {
//	    f := tensor.NewFactory(cpu.New())
//	    x, _ := f.Array([][]float32{{1, 2, 3}, {4, 5, 6}})
//	    y, _ := x.Add(x)
//	}
//
// # Thread Safety
//
// The CPU backend holds no mutable state. Tensors that share storage must
// not be written concurrently.
package cpu
