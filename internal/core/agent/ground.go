package agent

import "github.com/zeusync/curvemotion/internal/core/systems/physics"

// SpawnTraceDistance is how far below its spawn point an agent looks for a surface.
const SpawnTraceDistance = 1000.0

// Ground answers a single line query against the environment.
type Ground interface {
	Trace(from, to physics.Vec3) (hit physics.Vec3, ok bool)
}

// FlatGround is an infinite horizontal plane at Height.
type FlatGround struct {
	Height float64
}

func (g FlatGround) Trace(from, to physics.Vec3) (physics.Vec3, bool) {
	dz := to.Zv - from.Zv
	if dz == 0 {
		return physics.Vec3{}, false
	}
	f := (g.Height - from.Zv) / dz
	if f < 0 || f > 1 {
		return physics.Vec3{}, false
	}
	return from.Add(to.Sub(from).Scale(f)), true
}
