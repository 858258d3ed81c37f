package motion

import (
	"fmt"

	"github.com/zeusync/curvemotion/internal/core/curve"
)

// AccelerationState is the regime currently governing velocity.
type AccelerationState uint8

const (
	StateStable AccelerationState = iota
	StateAccelerating
	StateDecelerating
)

func (s AccelerationState) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateAccelerating:
		return "accelerating"
	case StateDecelerating:
		return "decelerating"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

func (s AccelerationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AccelerationState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stable":
		*s = StateStable
	case "accelerating":
		*s = StateAccelerating
	case "decelerating":
		*s = StateDecelerating
	default:
		return fmt.Errorf("unknown acceleration state %q", text)
	}
	return nil
}

// Regime pairs the active curve with the parameter position on it. The
// parameter has no meaning without its curve, so the two only change together.
type Regime struct {
	Curve     curve.Curve
	Parameter float64
}

// Active reports whether a curve has been selected yet.
func (r Regime) Active() bool { return r.Curve != nil }

// Transition describes a regime change observed during a step.
type Transition struct {
	From      AccelerationState
	To        AccelerationState
	Velocity  float64
	Parameter float64
}

func curveName(c curve.Curve) string {
	if named, ok := c.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}
