package cpu

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndarray/internal/tensor"
)

// newRawWith creates a tensor holding values.
func newRawWith(t *testing.T, shape tensor.Shape, dtype tensor.DataType, values ...float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	require.NoError(t, err)
	raw.SetFloat64s(values)
	return raw
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	require.NotNil(t, backend)
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

func TestCPUBackend_EmptyFull(t *testing.T) {
	backend := New()

	e := backend.Empty(tensor.Shape{2, 2}, tensor.Int32, tensor.CPU)
	assert.Equal(t, []int32{0, 0, 0, 0}, e.AsInt32())

	f := backend.Full(tensor.Shape{3}, tensor.Float16, tensor.CPU, 1.5)
	assert.Equal(t, []float64{1.5, 1.5, 1.5}, f.Float64s())

	b := backend.Full(tensor.Shape{2}, tensor.Bool, tensor.CPU, 1)
	assert.Equal(t, []bool{true, true}, b.AsBool())

	err := exceptions.TryCatch[error](func() { backend.Empty(tensor.Shape{1}, tensor.Float32, tensor.CUDA) })
	assert.Error(t, err)
}

// TestCPUBackend_Arithmetic tests element-wise operators for every numeric dtype.
func TestCPUBackend_Arithmetic(t *testing.T) {
	backend := New()
	dtypes := []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Int32, tensor.Int64, tensor.Uint8, tensor.Float16}

	for _, dtype := range dtypes {
		t.Run(dtype.String(), func(t *testing.T) {
			a := newRawWith(t, tensor.Shape{2, 2}, dtype, 8, 6, 4, 2)
			b := newRawWith(t, tensor.Shape{2, 2}, dtype, 2, 2, 1, 2)

			assert.Equal(t, []float64{10, 8, 5, 4}, backend.Add(a, b).Float64s())
			assert.Equal(t, []float64{6, 4, 3, 0}, backend.Sub(a, b).Float64s())
			assert.Equal(t, []float64{16, 12, 4, 4}, backend.Mul(a, b).Float64s())
			assert.Equal(t, []float64{4, 3, 4, 1}, backend.Div(a, b).Float64s())

			// Inputs are left untouched.
			assert.Equal(t, []float64{8, 6, 4, 2}, a.Float64s())
		})
	}
}

// TestCPUBackend_Broadcast tests broadcasting in binary operators.
func TestCPUBackend_Broadcast(t *testing.T) {
	backend := New()

	a := newRawWith(t, tensor.Shape{3, 1}, tensor.Float32, 1, 2, 3)
	b := newRawWith(t, tensor.Shape{4}, tensor.Float32, 10, 20, 30, 40)
	c := backend.Add(a, b)
	assert.Equal(t, tensor.Shape{3, 4}, c.Shape())
	assert.Equal(t, []float32{11, 21, 31, 41, 12, 22, 32, 42, 13, 23, 33, 43}, c.AsFloat32())

	s := newRawWith(t, tensor.Shape{}, tensor.Int64, 2)
	m := newRawWith(t, tensor.Shape{2}, tensor.Int64, 3, 5)
	assert.Equal(t, []int64{6, 10}, backend.Mul(s, m).AsInt64())
}

func TestCPUBackend_ArithmeticErrors(t *testing.T) {
	backend := New()
	a := newRawWith(t, tensor.Shape{3}, tensor.Float32, 1, 2, 3)

	b := newRawWith(t, tensor.Shape{2}, tensor.Float32, 1, 2)
	err := exceptions.TryCatch[error](func() { backend.Add(a, b) })
	assert.Error(t, err)

	c := newRawWith(t, tensor.Shape{3}, tensor.Float64, 1, 2, 3)
	err = exceptions.TryCatch[error](func() { backend.Add(a, c) })
	assert.ErrorContains(t, err, "dtype mismatch")

	d := newRawWith(t, tensor.Shape{1}, tensor.Bool, 1)
	err = exceptions.TryCatch[error](func() { backend.Add(d, d) })
	assert.ErrorContains(t, err, "unsupported dtype")
}

func TestCPUBackend_Views(t *testing.T) {
	backend := New()
	x := newRawWith(t, tensor.Shape{3, 2}, tensor.Float32, 1, 2, 3, 4, 5, 6)

	row := backend.At(x, 1)
	assert.Equal(t, tensor.Shape{2}, row.Shape())
	assert.Equal(t, []float32{3, 4}, row.AsFloat32())

	rows := backend.SliceAxis0(x, 1, 3)
	assert.Equal(t, tensor.Shape{2, 2}, rows.Shape())
	assert.Equal(t, []float32{3, 4, 5, 6}, rows.AsFloat32())

	// Views share storage.
	backend.Fill(row, 0)
	assert.Equal(t, []float32{1, 2, 0, 0, 5, 6}, x.AsFloat32())

	flat := backend.Reshape(x, tensor.Shape{6})
	assert.True(t, flat.SharesBuffer(x))

	err := exceptions.TryCatch[error](func() { backend.At(x, 3) })
	assert.Error(t, err)
	err = exceptions.TryCatch[error](func() { backend.SliceAxis0(x, 2, 4) })
	assert.Error(t, err)
	err = exceptions.TryCatch[error](func() { backend.Reshape(x, tensor.Shape{4}) })
	assert.Error(t, err)
}

func TestCPUBackend_SliceAndSetSlice(t *testing.T) {
	backend := New()
	x := newRawWith(t, tensor.Shape{3, 3}, tensor.Int32, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	s := backend.Slice(x, []int{1, 0}, []int{3, 2})
	assert.Equal(t, tensor.Shape{2, 2}, s.Shape())
	assert.Equal(t, []int32{4, 5, 7, 8}, s.AsInt32())
	assert.False(t, s.SharesBuffer(x))

	src := newRawWith(t, tensor.Shape{2, 1}, tensor.Float64, 10, 20)
	backend.SetSlice(x, []int{0, 2}, []int{2, 3}, src)
	assert.Equal(t, []int32{1, 2, 10, 4, 5, 20, 7, 8, 9}, x.AsInt32())

	// Overlapping source window.
	col := backend.Reshape(backend.SliceAxis0(x, 0, 1), tensor.Shape{3})
	backend.SetSlice(x, []int{1}, []int{2}, col)
	assert.Equal(t, []int32{1, 2, 10, 1, 2, 10, 7, 8, 9}, x.AsInt32())

	err := exceptions.TryCatch[error](func() { backend.SetSlice(x, []int{0}, []int{1}, src) })
	assert.Error(t, err)
}

func TestCPUBackend_Copy(t *testing.T) {
	backend := New()
	dst := backend.Empty(tensor.Shape{2}, tensor.Uint8, tensor.CPU)

	backend.CopyFrom(dst, []float64{7, 9})
	assert.Equal(t, []uint8{7, 9}, dst.AsUint8())

	src := newRawWith(t, tensor.Shape{2}, tensor.Float32, 3.7, 4)
	backend.CopyInto(src, dst)
	assert.Equal(t, []uint8{3, 4}, dst.AsUint8())
	assert.Equal(t, []float64{3, 4}, backend.Values(dst))

	err := exceptions.TryCatch[error](func() { backend.CopyFrom(dst, []float64{1}) })
	assert.Error(t, err)
}

// TestCPUBackend_Transpose tests axis permutation.
func TestCPUBackend_Transpose(t *testing.T) {
	backend := New()
	x := newRawWith(t, tensor.Shape{2, 3}, tensor.Float64, 1, 2, 3, 4, 5, 6)

	y := backend.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, y.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, y.AsFloat64())

	z := newRawWith(t, tensor.Shape{2, 1, 3}, tensor.Int64, 1, 2, 3, 4, 5, 6)
	p := backend.Transpose(z, 2, 0, 1)
	assert.Equal(t, tensor.Shape{3, 2, 1}, p.Shape())
	assert.Equal(t, []int64{1, 4, 2, 5, 3, 6}, p.AsInt64())

	err := exceptions.TryCatch[error](func() { backend.Transpose(x, 0, 0) })
	assert.Error(t, err)
}

// TestCPUBackend_ParallelKernels checks that split kernels match sequential ones.
func TestCPUBackend_ParallelKernels(t *testing.T) {
	sequential := New(WithWorkers(1, 0))
	split := New(WithWorkers(4, 8))

	n := 1000
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i%17) + 1
	}
	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Int64} {
		a := newRawWith(t, tensor.Shape{10, 100}, dtype, values...)
		b := newRawWith(t, tensor.Shape{100}, dtype, values[:100]...)

		assert.Equal(t, sequential.Mul(a, a).Float64s(), split.Mul(a, a).Float64s(), dtype.String())
		assert.Equal(t, sequential.Div(a, b).Float64s(), split.Div(a, b).Float64s(), dtype.String())
	}
}
