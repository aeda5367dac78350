package tensor

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Factory materializes tensors on one Backend. Its device and dtype are explicit
// configuration: set them with options on NewFactory, override them per call.
//
// Example:
//
//	f := tensor.NewFactory(cpu.New(), tensor.WithDType("float64"))
//	x, err := f.Array([][]int{{1, 2}, {3, 4}})
//	ones, err := f.Ones(tensor.Shape{2, 3}, tensor.WithDType(tensor.Int32))
type Factory struct {
	backend Backend
	options factoryOptions
}

type factoryOptions struct {
	device    Device
	hasDevice bool
	dtype     any
}

// Option configures a Factory or a single Factory call.
type Option func(*factoryOptions)

// WithDevice places tensors on device.
func WithDevice(device Device) Option {
	return func(o *factoryOptions) {
		o.device = device
		o.hasDevice = true
	}
}

// WithDType sets the data type: a name ("float32", "int64", ...), a DataType or an
// integer dtype id. Other argument types make the constructor fail with ErrTypeMismatch.
func WithDType(dtype any) Option {
	return func(o *factoryOptions) {
		o.dtype = dtype
	}
}

// NewFactory creates a Factory. Without options tensors are Float32 on the backend's device.
func NewFactory(b Backend, opts ...Option) *Factory {
	f := &Factory{
		backend: b,
		options: factoryOptions{device: b.Device(), dtype: Float32},
	}
	for _, opt := range opts {
		opt(&f.options)
	}
	return f
}

// Backend returns the factory's backend.
func (f *Factory) Backend() Backend {
	return f.backend
}

// resolve applies per-call options over the factory configuration.
func (f *Factory) resolve(opts []Option) (Device, DataType, error) {
	o := f.options
	for _, opt := range opts {
		opt(&o)
	}
	dtype, err := ResolveDataType(o.dtype)
	if err != nil {
		return 0, 0, err
	}
	return o.device, dtype, nil
}

// Empty allocates an uninitialized tensor.
func (f *Factory) Empty(shape Shape, opts ...Option) (*Tensor, error) {
	device, dtype, err := f.resolve(opts)
	if err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrapf(ErrShapeInconsistency, "empty: %v", err)
	}
	var raw *RawTensor
	if err := catchBackend("empty", func() { raw = f.backend.Empty(shape, dtype, device) }); err != nil {
		return nil, err
	}
	return New(raw, f.backend), nil
}

// Full creates a tensor filled with value.
func (f *Factory) Full(shape Shape, value float64, opts ...Option) (*Tensor, error) {
	device, dtype, err := f.resolve(opts)
	if err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrapf(ErrShapeInconsistency, "full: %v", err)
	}
	var raw *RawTensor
	if err := catchBackend("full", func() { raw = f.backend.Full(shape, dtype, device, value) }); err != nil {
		return nil, err
	}
	return New(raw, f.backend), nil
}

// Ones creates a tensor filled with ones.
func (f *Factory) Ones(shape Shape, opts ...Option) (*Tensor, error) {
	return f.Full(shape, 1, opts...)
}

// Zeros creates a tensor filled with zeros.
func (f *Factory) Zeros(shape Shape, opts ...Option) (*Tensor, error) {
	return f.Full(shape, 0, opts...)
}

// Array materializes source as a new tensor.
//
// A *Tensor source keeps its shape and its elements are copied. Any other source is a
// nested literal: its shape is inferred with DiscoverShape, an uninitialized tensor is
// allocated and the literal is copied into it.
func (f *Factory) Array(source any, opts ...Option) (*Tensor, error) {
	var shape Shape
	if src, ok := source.(*Tensor); ok && src != nil {
		shape = src.Shape().Clone()
	} else {
		var err error
		shape, _, err = DiscoverShape(source)
		if err != nil {
			return nil, err
		}
	}
	klog.V(2).Infof("Array(%T): shape %v", source, shape)

	t, err := f.Empty(shape, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.Set(SpanAll(), source); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}
