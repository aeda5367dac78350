package tensor

import (
	"reflect"

	"github.com/pkg/errors"
)

// MaxDims bounds the nesting depth explored by DiscoverShape.
const MaxDims = 32

// DiscoverShape is InferShape with the default MaxDims budget.
func DiscoverShape(literal any) (Shape, int, error) {
	return InferShape(literal, MaxDims)
}

// InferShape walks a nested literal and returns its rectangular shape and nesting depth.
//
// Slices and arrays (of any element type, []any included) are sequences, anything else is a
// leaf. At most maxDepth levels are explored; deeper content is opaque. Every element of a
// sequence must agree with the first one in nesting depth and per-axis extent, otherwise
// ErrShapeInconsistency is returned.
//
// Example:
//
//	shape, depth, _ := tensor.InferShape([][]float32{{1, 2, 3}, {4, 5, 6}}, tensor.MaxDims)
//	// shape = [2, 3], depth = 2
func InferShape(literal any, maxDepth int) (Shape, int, error) {
	return inferShape(reflect.ValueOf(literal), maxDepth)
}

func isSequence(v reflect.Value) bool {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

func inferShape(v reflect.Value, maxDepth int) (Shape, int, error) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if maxDepth <= 0 || !isSequence(v) {
		return Shape{}, 0, nil
	}

	n := v.Len()
	shape := Shape{n}
	if n == 0 || maxDepth == 1 {
		return shape, 1, nil
	}

	subShape, subDepth, err := inferShape(v.Index(0), maxDepth-1)
	if err != nil {
		return nil, 0, err
	}
	shape = append(shape, subShape...)

	accepted := subDepth
	for i := 1; i < n; i++ {
		elemShape, elemDepth, err := inferShape(v.Index(i), maxDepth-1)
		if err != nil {
			return nil, 0, err
		}
		elemAccepted := elemDepth
		for j := 0; j < elemDepth; j++ {
			if j >= len(subShape) || elemShape[j] != subShape[j] {
				elemAccepted = j
				break
			}
		}
		if elemAccepted < accepted {
			accepted = elemAccepted
		}
	}
	if accepted < subDepth {
		return nil, 0, errors.Wrapf(ErrShapeInconsistency,
			"array has inconsistent dimensions: elements agree on %d of %d nested axes below %v",
			accepted, subDepth, shape[:1+accepted])
	}
	return shape, subDepth + 1, nil
}

// flattenLiteral copies the leaves of literal, explored depth levels deep, in row-major
// order. Leaves must be numeric or boolean scalars.
func flattenLiteral(literal any, depth int) ([]float64, error) {
	var out []float64
	var walk func(v reflect.Value, level int) error
	walk = func(v reflect.Value, level int) error {
		if v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		if level == depth {
			x, ok := scalarFromValue(v)
			if !ok {
				return errors.Wrapf(ErrTypeMismatch, "literal leaf of type %s at depth %d is not a number", typeName(v), level)
			}
			out = append(out, x)
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), level+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(reflect.ValueOf(literal), 0); err != nil {
		return nil, err
	}
	return out, nil
}

// scalarFromValue converts a numeric or boolean leaf to float64.
func scalarFromValue(v reflect.Value) (float64, bool) {
	if !v.IsValid() {
		return 0, false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func typeName(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}
