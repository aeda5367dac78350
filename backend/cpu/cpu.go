// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/ndarray/internal/backend/cpu"
	"github.com/born-ml/ndarray/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go typed kernels for every tensor operation.
type Backend = internalcpu.CPUBackend

// Option configures a Backend.
type Option = internalcpu.Option

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// WithWorkers bounds the goroutines used by one element-wise kernel; 1 disables
// parallel execution. Each goroutine handles at least minChunk elements.
func WithWorkers(workers, minChunk int) Option {
	return internalcpu.WithWorkers(workers, minChunk)
}

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/ndarray/backend/cpu"
//	    "github.com/born-ml/ndarray/tensor"
//	)
//
//	func main() {
//	    f := tensor.NewFactory(cpu.New())
//	    x, _ := f.Zeros(tensor.Shape{2, 3})
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}
