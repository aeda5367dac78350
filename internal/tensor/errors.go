package tensor

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Error kinds returned by this package. Match them with errors.Is.
var (
	// ErrTypeMismatch reports an unrecognized dtype or value argument type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIndexOutOfRange reports an index beyond an axis bound, or a composite key longer than the rank.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnsupportedKeyType reports an index key kind that cannot be used where it was given.
	ErrUnsupportedKeyType = errors.New("unsupported key type")

	// ErrUnsupportedValueType reports an assignment value kind outside the recognized set.
	ErrUnsupportedValueType = errors.New("unsupported value type")

	// ErrShapeInconsistency reports a ragged literal, or a value whose size doesn't match its target.
	ErrShapeInconsistency = errors.New("inconsistent shape")

	// ErrBackend wraps failures raised by a Backend.
	ErrBackend = errors.New("backend failure")
)

// catchBackend runs fn and converts a Backend panic into an ErrBackend error.
// Backends raise with exceptions.Panicf, so most panics are already errors; anything
// else is formatted.
func catchBackend(op string, fn func()) error {
	exception := exceptions.Try(fn)
	if exception == nil {
		return nil
	}
	if err, ok := exception.(error); ok {
		if errors.Is(err, ErrBackend) {
			return err
		}
		return errors.Wrapf(ErrBackend, "%s: %v", op, err)
	}
	return errors.Wrapf(ErrBackend, "%s: %s", op, fmt.Sprint(exception))
}
