package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// LabelFace is the font labels are drawn with.
var LabelFace = basicfont.Face7x13

// ToRGBA copies img into a new RGBA image with bounds starting at the
// origin, ready to be drawn on.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// DrawLine draws a straight line from a to b with a square brush of the
// given thickness. Parts outside dst are clipped.
func DrawLine(dst draw.Image, a, b geometry.Point, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	half := thickness / 2
	src := image.NewUniform(c)

	steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := geometry.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t).Image()
		r := image.Rect(p.X-half, p.Y-half, p.X-half+thickness, p.Y-half+thickness)
		draw.Draw(dst, r.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// DrawPolygon draws the closed outline through pts.
func DrawPolygon(dst draw.Image, pts []geometry.Point, c color.Color, thickness int) {
	for i := range pts {
		DrawLine(dst, pts[i], pts[(i+1)%len(pts)], c, thickness)
	}
}

// DrawLabel writes text with its top-left corner at (x, y) on a filled
// background box.
func DrawLabel(dst draw.Image, x, y int, text string, fg, bg color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: LabelFace,
	}
	width := d.MeasureString(text).Ceil()
	metrics := LabelFace.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(x-1, y-1, x+width+1, y+height+1)
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + metrics.Ascent}
	d.DrawString(text)
}
