package dense

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndarray/internal/tensor"
)

func newRawWith(t *testing.T, shape tensor.Shape, dtype tensor.DataType, values ...float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	require.NoError(t, err)
	raw.SetFloat64s(values)
	return raw
}

func TestBackend_New(t *testing.T) {
	b := New()
	assert.Equal(t, "gorgonia", b.Name())
	assert.Equal(t, tensor.CPU, b.Device())
}

func TestBackend_Fill(t *testing.T) {
	b := New()
	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Int32, tensor.Int64, tensor.Uint8, tensor.Float16} {
		x := b.Full(tensor.Shape{2, 2}, dtype, tensor.CPU, 3)
		assert.Equal(t, []float64{3, 3, 3, 3}, x.Float64s(), dtype.String())
	}
	flags := b.Full(tensor.Shape{2}, tensor.Bool, tensor.CPU, 1)
	assert.Equal(t, []bool{true, true}, flags.AsBool())

	// Filling a view writes through to its parent.
	x := newRawWith(t, tensor.Shape{2, 2}, tensor.Float32, 1, 2, 3, 4)
	b.Fill(b.At(x, 0), 9)
	assert.Equal(t, []float32{9, 9, 3, 4}, x.AsFloat32())
}

func TestBackend_Arithmetic(t *testing.T) {
	b := New()
	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Int32, tensor.Int64, tensor.Float16} {
		t.Run(dtype.String(), func(t *testing.T) {
			x := newRawWith(t, tensor.Shape{2, 2}, dtype, 8, 6, 4, 2)
			y := newRawWith(t, tensor.Shape{2, 2}, dtype, 2, 2, 1, 2)

			assert.Equal(t, []float64{10, 8, 5, 4}, b.Add(x, y).Float64s())
			assert.Equal(t, []float64{6, 4, 3, 0}, b.Sub(x, y).Float64s())
			assert.Equal(t, []float64{16, 12, 4, 4}, b.Mul(x, y).Float64s())
			assert.Equal(t, []float64{4, 3, 4, 1}, b.Div(x, y).Float64s())
			assert.Equal(t, []float64{8, 6, 4, 2}, x.Float64s())
		})
	}
}

func TestBackend_Broadcast(t *testing.T) {
	b := New()
	x := newRawWith(t, tensor.Shape{3, 1}, tensor.Float64, 1, 2, 3)
	y := newRawWith(t, tensor.Shape{2}, tensor.Float64, 10, 20)

	z := b.Add(x, y)
	assert.Equal(t, tensor.Shape{3, 2}, z.Shape())
	assert.Equal(t, []float64{11, 21, 12, 22, 13, 23}, z.AsFloat64())

	s := newRawWith(t, tensor.Shape{}, tensor.Float32, 2)
	p := b.Mul(s, s)
	assert.Equal(t, tensor.Shape{}, p.Shape())
	assert.Equal(t, []float32{4}, p.AsFloat32())

	wide := b.Add(x, newRawWith(t, tensor.Shape{4}, tensor.Float64, 10, 20, 30, 40))
	assert.Equal(t, tensor.Shape{3, 4}, wide.Shape())
	assert.Equal(t, []float64{11, 21, 31, 41, 12, 22, 32, 42, 13, 23, 33, 43}, wide.AsFloat64())

	pairs := newRawWith(t, tensor.Shape{3, 2}, tensor.Float64, 1, 2, 3, 4, 5, 6)
	err := exceptions.TryCatch[error](func() { b.Add(pairs, newRawWith(t, tensor.Shape{4}, tensor.Float64, 1, 2, 3, 4)) })
	assert.Error(t, err)
	err = exceptions.TryCatch[error](func() { b.Add(x, newRawWith(t, tensor.Shape{3, 1}, tensor.Float32, 1, 2, 3)) })
	assert.ErrorContains(t, err, "dtype mismatch")
}

func TestBackend_Slice(t *testing.T) {
	b := New()
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(i)
	}
	x := newRawWith(t, tensor.Shape{2, 3, 4}, tensor.Float32, values...)

	s := b.Slice(x, []int{1, 1}, []int{2, 3})
	assert.Equal(t, tensor.Shape{1, 2, 4}, s.Shape())
	assert.Equal(t, []float32{16, 17, 18, 19, 20, 21, 22, 23}, s.AsFloat32())

	col := b.Slice(x, []int{0, 0, 2}, []int{2, 3, 3})
	assert.Equal(t, tensor.Shape{2, 3, 1}, col.Shape())
	assert.Equal(t, []float32{2, 6, 10, 14, 18, 22}, col.AsFloat32())

	one := b.Slice(x, []int{1, 2, 3}, []int{2, 3, 4})
	assert.Equal(t, []float32{23}, one.AsFloat32())

	whole := b.Slice(x, nil, nil)
	assert.Equal(t, x.AsFloat32(), whole.AsFloat32())
	assert.False(t, whole.SharesBuffer(x))

	err := exceptions.TryCatch[error](func() { b.Slice(x, []int{0}, []int{3}) })
	assert.Error(t, err)
}

func TestBackend_SetSlice(t *testing.T) {
	b := New()
	x := newRawWith(t, tensor.Shape{3, 3}, tensor.Int64, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	src := newRawWith(t, tensor.Shape{2}, tensor.Int64, 0, 0)

	b.SetSlice(x, []int{1, 1}, []int{3, 2}, src)
	assert.Equal(t, []int64{1, 2, 3, 4, 0, 6, 7, 0, 9}, x.AsInt64())
}

func TestBackend_Transpose(t *testing.T) {
	b := New()
	x := newRawWith(t, tensor.Shape{2, 3}, tensor.Float64, 1, 2, 3, 4, 5, 6)

	y := b.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, y.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, y.AsFloat64())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, x.AsFloat64(), "source must not move")

	id := b.Transpose(x, 0, 1)
	assert.Equal(t, x.AsFloat64(), id.AsFloat64())

	h := newRawWith(t, tensor.Shape{2, 2}, tensor.Float16, 1, 2, 3, 4)
	assert.Equal(t, []float64{1, 3, 2, 4}, b.Transpose(h).Float64s())

	err := exceptions.TryCatch[error](func() { b.Transpose(x, 1) })
	assert.Error(t, err)
}

func TestBackend_ViewsAndCopy(t *testing.T) {
	b := New()
	x := newRawWith(t, tensor.Shape{3, 2}, tensor.Float32, 1, 2, 3, 4, 5, 6)

	rows := b.SliceAxis0(x, 1, 3)
	assert.Equal(t, []float32{3, 4, 5, 6}, rows.AsFloat32())
	flat := b.Reshape(rows, tensor.Shape{4})
	assert.True(t, flat.SharesBuffer(x))

	b.CopyFrom(flat, []float64{0, 0, 0, 0})
	assert.Equal(t, []float32{1, 2, 0, 0, 0, 0}, x.AsFloat32())

	src := newRawWith(t, tensor.Shape{2}, tensor.Int32, 7, 8)
	b.CopyInto(src, b.At(x, 0))
	assert.Equal(t, []float64{7, 8, 0, 0, 0, 0}, b.Values(x))
}
