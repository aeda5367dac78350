// Package tensor provides the indexing, shape inference and dispatch layer of the ndarray module.
package tensor

import (
	"strings"

	"github.com/pkg/errors"
)

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
	Float16
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	case Float16:
		return 2
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	case Float16:
		return "float16"
	default:
		return "unknown"
	}
}

// IsValid reports whether dt is one of the registered data types.
func (dt DataType) IsValid() bool {
	return dt >= Float32 && dt <= Float16
}

// IsFloat reports whether dt holds floating point values.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64 || dt == Float16
}

var dataTypeNames = map[string]DataType{
	"float32": Float32,
	"float":   Float32,
	"float64": Float64,
	"double":  Float64,
	"int32":   Int32,
	"int64":   Int64,
	"uint8":   Uint8,
	"bool":    Bool,
	"float16": Float16,
	"half":    Float16,
}

// ParseDataType resolves a data type from its name (case-insensitive).
func ParseDataType(name string) (DataType, error) {
	dt, ok := dataTypeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Wrapf(ErrTypeMismatch, "unknown dtype name %q", name)
	}
	return dt, nil
}

// ResolveDataType accepts a dtype name, a DataType or an integer dtype id.
// Any other argument type fails with ErrTypeMismatch.
func ResolveDataType(dtype any) (DataType, error) {
	var dt DataType
	switch v := dtype.(type) {
	case string:
		return ParseDataType(v)
	case DataType:
		dt = v
	case int:
		dt = DataType(v)
	case int32:
		dt = DataType(v)
	case int64:
		dt = DataType(v)
	default:
		return 0, errors.Wrapf(ErrTypeMismatch, "wrong type of dtype %T (expected string, DataType or integer id)", dtype)
	}
	if !dt.IsValid() {
		return 0, errors.Wrapf(ErrTypeMismatch, "unknown dtype id %d", int(dt))
	}
	return dt, nil
}
