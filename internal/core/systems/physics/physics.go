package physics

import "math"

// Vec3 is a value 3D vector. The X axis is the agent's local forward axis.
type Vec3 struct {
	Xv float64 `json:"x" yaml:"x"`
	Yv float64 `json:"y" yaml:"y"`
	Zv float64 `json:"z" yaml:"z"`
}

var _ Vector3 = Vec3{}

var (
	Zero    = Vec3{}
	Forward = Vec3{Xv: 1}
	Down    = Vec3{Zv: -1}
)

func (v Vec3) X() float64 { return v.Xv }
func (v Vec3) Y() float64 { return v.Yv }
func (v Vec3) Z() float64 { return v.Zv }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.Xv + o.Xv, v.Yv + o.Yv, v.Zv + o.Zv} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.Xv - o.Xv, v.Yv - o.Yv, v.Zv - o.Zv} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.Xv * s, v.Yv * s, v.Zv * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.Xv*o.Xv + v.Yv*o.Yv + v.Zv*o.Zv }

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector, or Zero for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return v.Scale(1 / l)
}

// FromVector copies any Vector3 into a Vec3.
func FromVector(v Vector3) Vec3 { return Vec3{v.X(), v.Y(), v.Z()} }

// Sign returns -1, 0 or 1.
func Sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// Clamp limits f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}

// NearlyZero reports |f| <= tolerance.
func NearlyZero(f, tolerance float64) bool {
	return math.Abs(f) <= tolerance
}

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Length() }
