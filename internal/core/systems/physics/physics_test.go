package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecOps(t *testing.T) {
	a := Vec3{1, 2, 2}
	assert.Equal(t, 3.0, a.Length())
	assert.Equal(t, Vec3{2, 4, 4}, a.Scale(2))
	assert.Equal(t, 9.0, a.Dot(a))
	assert.Equal(t, Vec3{0, 0, 0}, a.Sub(a))
	assert.InDelta(t, 1.0, a.Normalize().Length(), 1e-12)
	assert.Equal(t, Zero, Zero.Normalize())
	assert.Equal(t, 3.0, Distance(Zero, a))
}

func TestScalarHelpers(t *testing.T) {
	assert.Equal(t, 1.0, Sign(0.2))
	assert.Equal(t, -1.0, Sign(-3))
	assert.Equal(t, 0.0, Sign(0))
	assert.Equal(t, 1.0, Clamp(1.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-0.5, 0, 1))
	assert.True(t, NearlyZero(0.05, 0.1))
	assert.True(t, NearlyZero(-0.1, 0.1))
	assert.False(t, NearlyZero(0.11, 0.1))
}
