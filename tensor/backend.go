// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/ndarray/internal/tensor"

// Backend is the compute engine a Tensor delegates storage and kernels to.
//
// Implementations:
//   - backend/cpu: Pure Go typed kernels
//   - backend/dense: gorgonia.org/tensor dense arrays
//
// Backends report failures by panicking; Tensor methods convert those panics
// into errors wrapping ErrBackend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/ndarray/backend/dense"
//	    "github.com/born-ml/ndarray/tensor"
//	)
//
//	f := tensor.NewFactory(dense.New())
//	x, _ := f.Ones(tensor.Shape{2, 3})
type Backend = tensor.Backend

// MockBackend is a naive Backend that records the operations it receives.
// It is meant for tests of code built on this package.
type MockBackend = tensor.MockBackend

// NewMockBackend creates a MockBackend on the CPU device.
func NewMockBackend() *MockBackend {
	return tensor.NewMockBackend()
}
