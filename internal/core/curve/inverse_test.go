package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindParameterLinear(t *testing.T) {
	c := MustKeyCurve("lin", InterpLinear, Key{0, 0}, Key{1, 1})

	p, ok := FindParameterForValue(c, 0.5, DefaultMaxSamples)
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1.0/DefaultMaxSamples)
}

func TestFindParameterOutOfRange(t *testing.T) {
	c := MustKeyCurve("lin", InterpLinear, Key{0, 0}, Key{1, 1})

	_, ok := FindParameterForValue(c, 1.5, DefaultMaxSamples)
	assert.False(t, ok)
	_, ok = FindParameterForValue(c, -0.01, DefaultMaxSamples)
	assert.False(t, ok)
}

func TestFindParameterEmptyCurve(t *testing.T) {
	_, ok := FindParameterForValue(&KeyCurve{}, 0, DefaultMaxSamples)
	assert.False(t, ok)
	_, ok = FindParameterForValue(nil, 0, DefaultMaxSamples)
	assert.False(t, ok)
}

func TestFindParameterDegenerateDomainReturnsSample(t *testing.T) {
	c := MustKeyCurve("single", InterpLinear, Key{3, 0.75})

	for _, v := range []float64{-10, 0, 0.75, 42} {
		p, ok := FindParameterForValue(c, v, DefaultMaxSamples)
		assert.True(t, ok)
		// the sampled value, not the key time
		assert.Equal(t, 0.75, p)
	}
}

func TestFindParameterFlatSubIntervalReturnsSample(t *testing.T) {
	c := MustKeyCurve("flat", InterpLinear, Key{0, 0.4}, Key{1, 0.4}, Key{2, 1})

	p, ok := FindParameterForValue(c, 0.4, 4)
	require.True(t, ok)
	assert.Equal(t, 0.4, p)
}

func TestFindParameterIsInverseOfMonotonicCurve(t *testing.T) {
	c := MustKeyCurve("ease", InterpCubic, Key{0, 0}, Key{0.7, 0.6}, Key{2, 1})

	errs := make([]float64, 0, 3)
	for _, samples := range []int{32, 128, 1024} {
		worst := 0.0
		for v := 0.01; v < 1; v += 0.07 {
			p, ok := FindParameterForValue(c, v, samples)
			require.True(t, ok, "value %v", v)
			worst = math.Max(worst, math.Abs(c.Sample(p)-v))
		}
		assert.Less(t, worst, 0.01)
		errs = append(errs, worst)
	}
	assert.Less(t, errs[2], errs[0])
}

func TestFindParameterDecreasingCurve(t *testing.T) {
	c := MustKeyCurve("decel", InterpLinear, Key{0, 1}, Key{2, 0})

	p, ok := FindParameterForValue(c, 0.25, DefaultMaxSamples)
	require.True(t, ok)
	assert.InDelta(t, 1.5, p, 2.0/DefaultMaxSamples)
	assert.InDelta(t, 0.25, c.Sample(p), 1e-9)
}

func TestFindParameterOffsetDomain(t *testing.T) {
	c := MustKeyCurve("late", InterpLinear, Key{5, 0}, Key{7, 1})

	p, ok := FindParameterForValue(c, 0.5, DefaultMaxSamples)
	require.True(t, ok)
	assert.InDelta(t, 6.0, p, 1e-9)
}

func TestFindParameterFirstCrossingWins(t *testing.T) {
	c := MustKeyCurve("hill", InterpLinear, Key{0, 0}, Key{1, 1}, Key{2, 0})

	p, ok := FindParameterForValue(c, 0.5, DefaultMaxSamples)
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1e-9)
}

func TestFindParameterDefaultSamples(t *testing.T) {
	c := Linear01("lin", 1)
	a, okA := FindParameterForValue(c, 0.3, 0)
	b, okB := FindParameterForValue(c, 0.3, DefaultMaxSamples)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, b, a)
}
