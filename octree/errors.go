package octree

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConstructionError is returned when an octree cannot be created or a point cannot be placed in it.
type ConstructionError struct {
	msg   string
	cause error
}

func (e *ConstructionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("octree construction failed: %s: %v", e.msg, e.cause)
	}
	return "octree construction failed: " + e.msg
}

// Unwrap returns the underlying error, if any.
func (e *ConstructionError) Unwrap() error {
	return e.cause
}

func newConstructionError(format string, args ...interface{}) error {
	return &ConstructionError{msg: fmt.Sprintf(format, args...)}
}

func wrapConstructionError(err error, msg string) error {
	return &ConstructionError{msg: msg, cause: err}
}

// IsConstructionError reports whether err is or wraps a ConstructionError.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}
