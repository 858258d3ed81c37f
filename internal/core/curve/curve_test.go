package curve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyCurveRejectsUnorderedKeys(t *testing.T) {
	_, err := NewKeyCurve("bad", InterpLinear, Key{0, 0}, Key{0, 1})
	assert.ErrorIs(t, err, ErrInvalidKeys)

	_, err = NewKeyCurve("bad", InterpLinear, Key{1, 0}, Key{0.5, 1})
	assert.ErrorIs(t, err, ErrInvalidKeys)

	_, err = NewKeyCurve("bad", Interp(9), Key{0, 0})
	assert.ErrorIs(t, err, ErrUnknownInterp)
}

func TestSampleLinear(t *testing.T) {
	c := Linear01("accel", 2)

	assert.Equal(t, 0.0, c.FirstKeyTime())
	assert.Equal(t, 2.0, c.LastKeyTime())
	assert.InDelta(t, 0.25, c.Sample(0.5), 1e-12)
	assert.InDelta(t, 0.5, c.Sample(1), 1e-12)
	// flat extrapolation
	assert.Equal(t, 0.0, c.Sample(-3))
	assert.Equal(t, 1.0, c.Sample(10))
}

func TestSampleConstantAndCubic(t *testing.T) {
	keys := []Key{{0, 0}, {1, 1}, {2, 0.5}}

	step := MustKeyCurve("step", InterpConstant, keys...)
	assert.Equal(t, 0.0, step.Sample(0.99))
	assert.Equal(t, 1.0, step.Sample(1.5))

	cubic := MustKeyCurve("cubic", InterpCubic, keys...)
	// passes through every key
	for _, k := range keys {
		assert.InDelta(t, k.Value, cubic.Sample(k.Time), 1e-12)
	}
	// flat end tangents keep the first segment below the chord near the start
	assert.Less(t, cubic.Sample(0.1), 0.1)
}

func TestEmptyCurve(t *testing.T) {
	var c KeyCurve
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.0, c.Sample(1))
	lo, hi := c.ValueRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestKeysIsCopy(t *testing.T) {
	c := Linear01("c", 1)
	keys := c.Keys()
	keys[0].Value = 42
	assert.Equal(t, 0.0, c.Sample(0))
}

func TestLoadYAMLPairAndMapKeys(t *testing.T) {
	doc := `
name: decel
interp: cubic
keys:
  - [0, 1]
  - {time: 1, value: 0.4}
  - [2, 0]
`
	c, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "decel", c.Name())
	assert.Equal(t, InterpCubic, c.Interp())
	assert.Equal(t, []Key{{0, 1}, {1, 0.4}, {2, 0}}, c.Keys())
}

func TestLoadJSON(t *testing.T) {
	c, err := LoadJSON(strings.NewReader(`{"interp":"linear","keys":[[0,0],{"time":2,"value":1}]}`))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Sample(1), 1e-12)

	_, err = LoadJSON(strings.NewReader(`{"interp":"bezier","keys":[]}`))
	assert.ErrorIs(t, err, ErrUnknownInterp)

	_, err = LoadJSON(strings.NewReader(`{"keys":[[0,0,1]]}`))
	assert.ErrorIs(t, err, ErrInvalidKeys)
}

func TestJSONRoundTripKeepsShape(t *testing.T) {
	c := MustKeyCurve("c", InterpConstant, Key{0, 1}, Key{3, 2})
	data, err := c.MarshalJSON()
	require.NoError(t, err)

	var back KeyCurve
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, c.Keys(), back.Keys())
	assert.Equal(t, InterpConstant, back.Interp())
}
