package tensor

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFactory returns a float64 factory on a fresh MockBackend.
func newTestFactory() (*Factory, *MockBackend) {
	mock := NewMockBackend()
	return NewFactory(mock, WithDType(Float64)), mock
}

func requireValues(t *testing.T, want []float64, x *Tensor) {
	t.Helper()
	got, err := x.Values()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArrayRoundTrip(t *testing.T) {
	f, _ := newTestFactory()
	x, err := f.Array([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, x.Shape())
	assert.Equal(t, Float64, x.DType())
	assert.Equal(t, CPU, x.Device())
	assert.Equal(t, 2, x.NDim())
	assert.Equal(t, 4, x.Size())
	requireValues(t, []float64{1, 2, 3, 4}, x)
}

func TestGet_Element(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Array([][]float64{{1, 2, 3}, {4, 5, 6}}))
	mock.Reset()

	row, err := x.Get(Index(1))
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, row.Shape())
	requireValues(t, []float64{4, 5, 6}, row)
	assert.True(t, mock.Called("At"))

	elem, err := row.Get(Index(2))
	require.NoError(t, err)
	assert.Equal(t, Shape{}, elem.Shape())
	v, err := elem.AsScalar()
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestGet_Range(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Array([][]float64{{1, 2}, {3, 4}, {5, 6}}))
	mock.Reset()

	rows, err := x.Get(Span(1, 3))
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, rows.Shape())
	requireValues(t, []float64{3, 4, 5, 6}, rows)
	assert.Equal(t, []string{"SliceAxis0", "Values"}, mock.Calls())
}

func TestGet_FullViewMakesNoBackendCall(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Array([]float64{1, 2, 3}))

	for _, key := range []Key{nil, Whole{}, SpanAll()} {
		mock.Reset()
		y, err := x.Get(key)
		require.NoError(t, err)
		assert.Same(t, x, y, "key %v", key)
		assert.Empty(t, mock.Calls(), "key %v", key)
	}
}

func TestGet_Keys(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Zeros(Shape{5, 5, 5}))
	values := make([]float64, 125)
	for i := range values {
		values[i] = float64(i)
	}
	require.NoError(t, x.Set(nil, reshapeLiteral(values, 5, 5, 5)))
	mock.Reset()

	y, err := x.Get(Keys{Index(2), Span(1, 3)})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 5}, y.Shape())
	requireValues(t, []float64{55, 56, 57, 58, 59, 60, 61, 62, 63, 64}, y)
	assert.Equal(t, []string{"Slice", "Reshape", "Values"}, mock.Calls())

	elem, err := x.Get(Keys{Index(4), Index(4), Index(4)})
	require.NoError(t, err)
	assert.Equal(t, Shape{1}, elem.Shape())
	requireValues(t, []float64{124}, elem)
}

func TestGet_OutOfRangeMakesNoBackendCall(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Zeros(Shape{3}))
	mock.Reset()

	_, err := x.Get(Index(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Empty(t, mock.Calls())
}

func TestSet_ThroughViews(t *testing.T) {
	f, _ := newTestFactory()
	x := must.M1(f.Array([][]float64{{1, 2}, {3, 4}}))

	require.NoError(t, x.Set(Index(0), []float64{7, 8}))
	requireValues(t, []float64{7, 8, 3, 4}, x)

	require.NoError(t, x.Set(Span(1, 2), 0))
	requireValues(t, []float64{7, 8, 0, 0}, x)

	row := must.M1(x.Get(Index(1)))
	require.NoError(t, row.Set(nil, []int{5, 6}))
	requireValues(t, []float64{7, 8, 5, 6}, x)
}

func TestSet_Whole(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Zeros(Shape{2, 2}))

	require.NoError(t, x.Set(nil, 3))
	requireValues(t, []float64{3, 3, 3, 3}, x)

	require.NoError(t, x.Set(Whole{}, [][]float32{{1, 2}, {3, 4}}))
	requireValues(t, []float64{1, 2, 3, 4}, x)

	// A flat literal with the right number of elements is accepted.
	require.NoError(t, x.Set(nil, []int{4, 3, 2, 1}))
	requireValues(t, []float64{4, 3, 2, 1}, x)

	y := must.M1(f.Full(Shape{2, 2}, 9))
	require.NoError(t, x.Set(nil, y))
	requireValues(t, []float64{9, 9, 9, 9}, x)

	mock.Reset()
	require.NoError(t, x.Set(nil, x))
	assert.False(t, mock.Called("CopyInto"), "self assignment must not copy")
}

func TestSet_AliasedViewSkipsCopy(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Array([][]float64{{1, 2}, {3, 4}}))
	row := must.M1(x.Get(Index(1)))
	mock.Reset()

	require.NoError(t, x.Set(Index(1), row))
	assert.False(t, mock.Called("CopyInto"))
	requireValues(t, []float64{1, 2, 3, 4}, x)
}

func TestSet_Keys(t *testing.T) {
	f, mock := newTestFactory()
	x := must.M1(f.Zeros(Shape{3, 3}))

	mock.Reset()
	require.NoError(t, x.Set(Keys{Span(0, 2), Index(1)}, 7))
	requireValues(t, []float64{0, 7, 0, 0, 7, 0, 0, 0, 0}, x)
	assert.True(t, mock.Called("SetSlice"))

	require.NoError(t, x.Set(Keys{Index(2)}, []int{1, 2, 3}))
	requireValues(t, []float64{0, 7, 0, 0, 7, 0, 1, 2, 3}, x)

	src := must.M1(f.Array([]float64{8, 9}))
	require.NoError(t, x.Set(Keys{Index(0), Span(1, 3)}, src))
	requireValues(t, []float64{0, 8, 9, 0, 7, 0, 1, 2, 3}, x)

	// Overlapping source and destination.
	col := must.M1(x.Get(Keys{SpanAll(), Index(2)}))
	require.NoError(t, x.Set(Keys{SpanAll(), Index(0)}, col))
	requireValues(t, []float64{9, 8, 9, 0, 7, 0, 3, 2, 3}, x)
}

func TestSet_Errors(t *testing.T) {
	f, _ := newTestFactory()
	x := must.M1(f.Zeros(Shape{2, 2}))

	tests := []struct {
		name  string
		key   Key
		value any
		kind  error
	}{
		{"literal too small", nil, []int{1, 2, 3}, ErrShapeInconsistency},
		{"ragged literal", nil, [][]int{{1, 2}, {3}}, ErrShapeInconsistency},
		{"string value", nil, "abc", ErrUnsupportedValueType},
		{"map value", nil, map[string]int{}, ErrUnsupportedValueType},
		{"nil tensor", nil, (*Tensor)(nil), ErrUnsupportedValueType},
		{"string leaves", nil, [][]string{{"a", "b"}, {"c", "d"}}, ErrTypeMismatch},
		{"index out of range", Index(2), 1, ErrIndexOutOfRange},
		{"region literal mismatch", Keys{Index(0)}, []int{1, 2, 3}, ErrShapeInconsistency},
		{"region tensor mismatch", Keys{Index(0)}, must.M1(f.Zeros(Shape{3})), ErrShapeInconsistency},
		{"region bad value", Keys{Index(0)}, struct{}{}, ErrUnsupportedValueType},
		{"region nil tensor", Keys{Index(0)}, (*Tensor)(nil), ErrUnsupportedValueType},
		{"unknown key", badKey{}, 1, ErrUnsupportedKeyType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := x.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
		})
	}
	requireValues(t, []float64{0, 0, 0, 0}, x)
}

func TestSet_BackendFailure(t *testing.T) {
	f, _ := newTestFactory()
	x := must.M1(f.Zeros(Shape{2, 2}))
	y := must.M1(f.Zeros(Shape{3}))

	// Shapes differ, so the backend refuses the copy.
	row := must.M1(x.Get(Index(0)))
	err := row.Set(nil, y)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackend), "got %v", err)
}

func TestTranspose(t *testing.T) {
	f, _ := newTestFactory()
	x := must.M1(f.Array([][]float64{{1, 2, 3}, {4, 5, 6}}))
	y, err := x.Transpose()
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	requireValues(t, []float64{1, 4, 2, 5, 3, 6}, y)

	_, err = x.Transpose(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackend))
}

func TestAsScalarAndValuesOf(t *testing.T) {
	f, _ := newTestFactory()

	s := must.M1(f.Array(2.5))
	assert.Equal(t, Shape{}, s.Shape())
	v, err := s.AsScalar()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	one := must.M1(f.Array([]float64{4}))
	v, err = one.AsScalar()
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	m := must.M1(f.Array([][]float64{{1}}))
	_, err = m.AsScalar()
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	x := must.M1(f.Array([]float64{1.9, -2.5, 3}))
	ints, err := ValuesOf[int64](x)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 3}, ints)
}

func TestTensorString(t *testing.T) {
	f, _ := newTestFactory()
	x := must.M1(f.Zeros(Shape{2, 3}))
	assert.Equal(t, "Tensor[float64][2 3] on CPU (48 B)", x.String())
}

// reshapeLiteral nests values into a [d0][d1][d2] literal.
func reshapeLiteral(values []float64, d0, d1, d2 int) [][][]float64 {
	out := make([][][]float64, d0)
	for i := range out {
		out[i] = make([][]float64, d1)
		for j := range out[i] {
			start := (i*d1 + j) * d2
			out[i][j] = values[start : start+d2]
		}
	}
	return out
}
