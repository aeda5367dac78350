package tensor

import (
	"reflect"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BinaryOp enumerates the element-wise binary operators.
type BinaryOp int

// Element-wise binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the operator name.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	default:
		return "unknown"
	}
}

// engineOp returns the broadcasting engine primitive for op.
func (op BinaryOp) engineOp(b Backend) func(a, b *RawTensor) *RawTensor {
	switch op {
	case OpAdd:
		return b.Add
	case OpSub:
		return b.Sub
	case OpMul:
		return b.Mul
	case OpDiv:
		return b.Div
	default:
		return nil
	}
}

// hostOp applies op to two host values.
func (op BinaryOp) hostOp(x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	default:
		return x / y
	}
}

// Add performs element-wise addition, see Apply.
//
// Example:
//
//	a, _ := f.Ones(tensor.Shape{3, 1})
//	b, _ := f.Ones(tensor.Shape{3, 5})
//	c, _ := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor) Add(other any) (*Tensor, error) {
	return t.Apply(OpAdd, other)
}

// Sub performs element-wise subtraction, see Apply.
func (t *Tensor) Sub(other any) (*Tensor, error) {
	return t.Apply(OpSub, other)
}

// Mul performs element-wise multiplication, see Apply.
func (t *Tensor) Mul(other any) (*Tensor, error) {
	return t.Apply(OpMul, other)
}

// Div performs element-wise division, see Apply.
func (t *Tensor) Div(other any) (*Tensor, error) {
	return t.Apply(OpDiv, other)
}

// Apply routes the binary operator op applied to t and other.
//
// If other is a *Tensor the engine's broadcasting primitive is used. Otherwise the
// operation falls back to host arithmetic: other must be a Go number, which is combined
// with every element of t on the host and the result stored in a new tensor of t's
// shape, dtype and device.
func (t *Tensor) Apply(op BinaryOp, other any) (*Tensor, error) {
	if o, ok := other.(*Tensor); ok && o != nil {
		fn := op.engineOp(t.backend)
		if fn == nil {
			return nil, errors.Errorf("unknown binary operator %d", int(op))
		}
		var raw *RawTensor
		if err := catchBackend(op.String(), func() { raw = fn(t.raw, o.raw) }); err != nil {
			return nil, err
		}
		return New(raw, t.backend), nil
	}
	return t.applyHost(op, other)
}

// applyHost is the non-tensor branch of Apply.
func (t *Tensor) applyHost(op BinaryOp, other any) (*Tensor, error) {
	y, ok := scalarFromValue(reflect.ValueOf(other))
	if !ok || reflect.ValueOf(other).Kind() == reflect.Bool {
		return nil, errors.Wrapf(ErrTypeMismatch, "%s: operand %v of type %T is neither a tensor nor a number", op, other, other)
	}
	klog.V(3).Infof("%s: host fallback with scalar %g on %v", op, y, t.Shape())

	values, err := t.Values()
	if err != nil {
		return nil, err
	}
	for i, x := range values {
		values[i] = op.hostOp(x, y)
	}
	var raw *RawTensor
	err = catchBackend(op.String(), func() {
		raw = t.backend.Empty(t.Shape(), t.DType(), t.Device())
		t.backend.CopyFrom(raw, values)
	})
	if err != nil {
		return nil, err
	}
	return New(raw, t.backend), nil
}
