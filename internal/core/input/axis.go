// Package input carries one-dimensional control axes from input bindings to
// the simulation step.
package input

import (
	"math"
	"sort"
	"sync/atomic"
)

// Axis holds the latest value of a control axis in [-1, 1]. Writers and the
// simulation step may run on different goroutines; only the last write is
// kept.
type Axis struct {
	bits    atomic.Uint64
	version atomic.Uint64
}

func NewAxis(initial float64) *Axis {
	a := &Axis{}
	a.Set(initial)
	return a
}

// Set stores v clamped to [-1, 1]. NaN is stored as 0.
func (a *Axis) Set(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(-1, math.Min(1, v))
	a.bits.Store(math.Float64bits(v))
	a.version.Add(1)
}

func (a *Axis) Value() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Version increments on every Set.
func (a *Axis) Version() uint64 {
	return a.version.Load()
}

// Sample is a timed axis value in a Schedule.
type Sample struct {
	At    float64 `json:"at" yaml:"at"`
	Value float64 `json:"value" yaml:"value"`
}

// Schedule replays recorded axis values. The value at time t is the last
// sample with At <= t, or 0 before the first one.
type Schedule []Sample

// Sorted returns a copy ordered by time. Samples with equal times keep their
// order, so the later one wins.
func (s Schedule) Sorted() Schedule {
	out := append(Schedule(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// ValueAt expects a sorted schedule.
func (s Schedule) ValueAt(t float64) float64 {
	i := sort.Search(len(s), func(j int) bool { return s[j].At > t })
	if i == 0 {
		return 0
	}
	return s[i-1].Value
}

// Apply writes the value for time t into a.
func (s Schedule) Apply(a *Axis, t float64) {
	v := s.ValueAt(t)
	if v != a.Value() {
		a.Set(v)
	}
}
