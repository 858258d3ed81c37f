package physics

// Minimal vector contracts shared by motion code and host adapters.

// Vector3 represents a 3D vector.
type Vector3 interface {
	X() float64
	Y() float64
	Z() float64
}
