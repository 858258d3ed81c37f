package motion

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMaxVelocity = errors.New("max velocity must be positive")
	ErrInvalidThreshold   = errors.New("velocity change threshold must not be negative")
)

// LookupError is the panic value raised when a curve cannot be inverted for a
// ratio it is expected to cover. It signals an authoring error in the curve
// asset, not a runtime condition.
type LookupError struct {
	State AccelerationState
	Curve string
	Value float64
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s curve %q does not cover ratio %g: %v", e.State, e.Curve, e.Value, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
