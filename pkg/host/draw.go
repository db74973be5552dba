package host

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Box is an axis-aligned rectangle in screen coordinates. Sprites expose
// their bounds as a Box for collision tests and as the default draw shape.
type Box struct {
	X, Y float64
	W, H float64
}

// Collides reports whether two boxes overlap. Touching edges do not count
// as a collision.
func Collides(a, b Box) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// RGB builds a color from 0-255 components, clamping out-of-range values.
func RGB(r, g, b float64) color.Color {
	return color.RGBA{clampByte(r), clampByte(g), clampByte(b), 0xff}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Fill paints the whole screen with a color.
func Fill(screen *ebiten.Image, clr color.Color) {
	screen.Fill(clr)
}

// DrawRect renders a sprite's bounding box as a filled white rectangle, the
// placeholder appearance for sprites without custom draw code.
func DrawRect(screen *ebiten.Image, box Box) {
	vector.DrawFilledRect(screen,
		float32(box.X), float32(box.Y),
		float32(box.W), float32(box.H),
		color.White, false)
}

// textFace is the fixed bitmap font used by DrawText.
var textFace = basicfont.Face7x13

// DrawText renders msg with its top-left corner at (x, y). The optional
// trailing color defaults to white.
func DrawText(screen *ebiten.Image, msg string, x, y float64, clr ...color.Color) {
	c := color.Color(color.White)
	if len(clr) > 0 {
		c = clr[0]
	}
	// text.Draw positions by baseline; shift down by the font ascent so the
	// caller's y is the top of the glyphs.
	text.Draw(screen, msg, textFace, int(x), int(y)+textFace.Ascent, c)
}
