package curve

import "math"

// DefaultMaxSamples is the sub-interval count used when callers pass 0.
const DefaultMaxSamples = 128

const nearlyZero = 1e-8

// FindParameterForValue returns a parameter t on c where c.Sample(t) is
// approximately value.
//
// The key domain is split into maxSamples uniform sub-intervals which are
// scanned in time order. The first sub-interval whose sampled end points
// bracket value is inverted by linear interpolation, so curves with several
// crossings resolve to the earliest one. Accuracy depends on maxSamples
// relative to the curve's curvature.
//
// Two degenerate cases return a sampled value rather than a time: a zero-width
// key domain yields c.Sample(first key time), and a flat bracketing
// sub-interval yields its sample value. Callers rely on this exact behaviour,
// see DESIGN.md.
func FindParameterForValue(c Curve, value float64, maxSamples int) (float64, bool) {
	if c == nil || c.IsEmpty() {
		return 0, false
	}
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	first := c.FirstKeyTime()
	interval := (c.LastKeyTime() - first) / float64(maxSamples)
	if interval == 0 {
		return c.Sample(first), true
	}

	for i := 0; i < maxSamples; i++ {
		start := first + float64(i)*interval
		startSample := c.Sample(start)
		endSample := c.Sample(first + float64(i+1)*interval)

		lo := math.Min(startSample, endSample)
		hi := math.Max(startSample, endSample)
		if value < lo || value > hi {
			continue
		}

		span := hi - lo
		if math.Abs(span) <= nearlyZero {
			return lo, true
		}
		frac := (value - lo) / span
		if endSample < startSample {
			frac = 1 - frac
		}
		return start + frac*interval, true
	}

	return 0, false
}
