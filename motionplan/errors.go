package motionplan

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// LookupError is returned when a query point is not stored in the octree, so no state can be built
// for it.
type LookupError struct {
	Point r3.Vector
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("point %v is not stored in the octree", e.Point)
}

// IsLookupError reports whether err is or wraps a LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

// NewNilStateError is returned when a problem is created without a start or goal.
func NewNilStateError(which string) error {
	return errors.Errorf("%s state must not be nil", which)
}
