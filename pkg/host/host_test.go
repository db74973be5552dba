package host

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollides(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}

	assert.True(t, Collides(a, Box{X: 5, Y: 5, W: 10, H: 10}), "overlapping boxes")
	assert.True(t, Collides(a, Box{X: 9, Y: 0, W: 1, H: 1}), "contained box")
	assert.False(t, Collides(a, Box{X: 20, Y: 20, W: 5, H: 5}), "disjoint boxes")
	assert.False(t, Collides(a, Box{X: 10, Y: 0, W: 5, H: 5}), "touching edges do not collide")
}

func TestRGBClampsComponents(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 128, A: 255}, RGB(300, -5, 128))
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 0, A: 255}, RGB(0, 0, 0))
}

func TestStr(t *testing.T) {
	assert.Equal(t, "5", Str(5.0))
	assert.Equal(t, "-12", Str(-12.0))
	assert.Equal(t, "2.5", Str(2.5))
	assert.Equal(t, "hello", Str("hello"))
	assert.Equal(t, "true", Str(true))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))
}

func TestRange(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2}, Range(0, 3))
	assert.Equal(t, []float64{2, 3}, Range(2, 4))
	assert.Nil(t, Range(3, 3), "empty range")
	assert.Nil(t, Range(5, 2), "inverted range")
}

func TestRandomStaysInBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := Random(10, 20)
		assert.GreaterOrEqual(t, v, 10.0)
		assert.Less(t, v, 20.0)
	}
	assert.Equal(t, 7.0, Random(7, 7), "degenerate interval returns lo")
}

func TestMod(t *testing.T) {
	assert.InDelta(t, 1.0, Mod(7, 3), 1e-9)
	assert.InDelta(t, 0.5, Mod(5.5, 2.5), 1e-9)
}
