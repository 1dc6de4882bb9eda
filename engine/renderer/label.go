package renderer

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/stlpose/engine/math"
)

const labelMargin = 8

// DrawLabel writes text in white at the bottom-left corner of img.
func DrawLabel(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	x := math.Clamp(b.Min.X+labelMargin, b.Min.X, b.Max.X)
	y := math.Clamp(b.Max.Y-labelMargin-face.Descent, b.Min.Y+face.Ascent, b.Max.Y)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
