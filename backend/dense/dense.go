// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dense provides a backend built on gorgonia.org/tensor dense arrays.
//
// The backend keeps storage in the same layout as backend/cpu, so tensors
// behave identically on both; only the kernels differ.
package dense

import (
	internaldense "github.com/born-ml/ndarray/internal/backend/dense"
	"github.com/born-ml/ndarray/tensor"
)

// Backend represents the gorgonia backend implementation.
type Backend = internaldense.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new gorgonia backend.
//
// Example:
//
//	f := tensor.NewFactory(dense.New(), tensor.WithDType("float64"))
//	x, _ := f.Full(tensor.Shape{2, 2}, 0.5)
func New() *Backend {
	return internaldense.New()
}
