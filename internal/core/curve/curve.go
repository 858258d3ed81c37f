// Package curve holds authored response curves and the inverse lookup used to
// resume following a curve from an arbitrary value.
//
// Curves are immutable once built. Many controllers may sample the same curve
// concurrently.
package curve

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Curve is the read-only contract the motion code consumes.
type Curve interface {
	FirstKeyTime() float64
	LastKeyTime() float64
	// Sample is defined for all t. Outside the key range the value is held flat.
	Sample(t float64) float64
	IsEmpty() bool
}

// Interp selects how values between two keys are computed.
type Interp uint8

const (
	InterpLinear Interp = iota
	InterpConstant
	InterpCubic
)

func (i Interp) String() string {
	switch i {
	case InterpLinear:
		return "linear"
	case InterpConstant:
		return "constant"
	case InterpCubic:
		return "cubic"
	default:
		return fmt.Sprintf("interp(%d)", uint8(i))
	}
}

func ParseInterp(s string) (Interp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return InterpLinear, nil
	case "constant", "step":
		return InterpConstant, nil
	case "cubic", "auto":
		return InterpCubic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterp, s)
	}
}

func (i Interp) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Interp) UnmarshalText(text []byte) error {
	parsed, err := ParseInterp(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Key is a single (time, value) keyframe.
type Key struct {
	Time  float64 `json:"time" yaml:"time"`
	Value float64 `json:"value" yaml:"value"`
}

// KeyCurve is a keyframed curve. Construct with NewKeyCurve; the zero value is
// an empty linear curve.
type KeyCurve struct {
	name   string
	interp Interp
	keys   []Key
}

var _ Curve = (*KeyCurve)(nil)

// NewKeyCurve copies keys and validates that times strictly increase.
func NewKeyCurve(name string, interp Interp, keys ...Key) (*KeyCurve, error) {
	if interp > InterpCubic {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInterp, interp)
	}
	for i := 1; i < len(keys); i++ {
		if !(keys[i].Time > keys[i-1].Time) {
			return nil, fmt.Errorf("%w: key %d at %g after %g", ErrInvalidKeys, i, keys[i].Time, keys[i-1].Time)
		}
	}
	for i, k := range keys {
		if math.IsNaN(k.Time) || math.IsNaN(k.Value) || math.IsInf(k.Time, 0) || math.IsInf(k.Value, 0) {
			return nil, fmt.Errorf("%w: key %d is not finite", ErrInvalidKeys, i)
		}
	}
	return &KeyCurve{
		name:   name,
		interp: interp,
		keys:   append([]Key(nil), keys...),
	}, nil
}

// MustKeyCurve is NewKeyCurve for statically known keys.
func MustKeyCurve(name string, interp Interp, keys ...Key) *KeyCurve {
	c, err := NewKeyCurve(name, interp, keys...)
	if err != nil {
		panic(err)
	}
	return c
}

// Linear01 returns a straight ramp from 0 at t=0 to 1 at t=duration.
func Linear01(name string, duration float64) *KeyCurve {
	return MustKeyCurve(name, InterpLinear, Key{0, 0}, Key{duration, 1})
}

func (c *KeyCurve) Name() string   { return c.name }
func (c *KeyCurve) Interp() Interp { return c.interp }
func (c *KeyCurve) Len() int       { return len(c.keys) }
func (c *KeyCurve) IsEmpty() bool  { return len(c.keys) == 0 }

// Keys returns a copy of the keyframes.
func (c *KeyCurve) Keys() []Key {
	return append([]Key(nil), c.keys...)
}

func (c *KeyCurve) FirstKeyTime() float64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[0].Time
}

func (c *KeyCurve) LastKeyTime() float64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].Time
}

// ValueRange returns the min and max key values.
func (c *KeyCurve) ValueRange() (lo, hi float64) {
	if len(c.keys) == 0 {
		return 0, 0
	}
	lo, hi = c.keys[0].Value, c.keys[0].Value
	for _, k := range c.keys[1:] {
		lo = math.Min(lo, k.Value)
		hi = math.Max(hi, k.Value)
	}
	return lo, hi
}

func (c *KeyCurve) Sample(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return 0
	case n == 1 || t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		return c.keys[n-1].Value
	}

	// i is the first key strictly after t, so the segment is [i-1, i].
	i := sort.Search(n, func(j int) bool { return c.keys[j].Time > t })
	k0, k1 := c.keys[i-1], c.keys[i]
	width := k1.Time - k0.Time
	u := (t - k0.Time) / width

	switch c.interp {
	case InterpConstant:
		return k0.Value
	case InterpCubic:
		m0 := c.tangent(i-1) * width
		m1 := c.tangent(i) * width
		return hermite(k0.Value, k1.Value, m0, m1, u)
	default:
		return k0.Value + (k1.Value-k0.Value)*u
	}
}

// tangent is the auto (Catmull-Rom) slope at key i. End keys are flat.
func (c *KeyCurve) tangent(i int) float64 {
	if i == 0 || i == len(c.keys)-1 {
		return 0
	}
	prev, next := c.keys[i-1], c.keys[i+1]
	return (next.Value - prev.Value) / (next.Time - prev.Time)
}

func hermite(p0, p1, m0, m1, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return (2*u3-3*u2+1)*p0 + (u3-2*u2+u)*m0 + (-2*u3+3*u2)*p1 + (u3-u2)*m1
}
