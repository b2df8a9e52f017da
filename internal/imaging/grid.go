package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// defaultGridColor is semi-transparent red.
var defaultGridColor = color.NRGBA{R: 255, G: 0, B: 0, A: 160}

// CellGrid draws the lines between cells of a cells×cells grid over img
// and returns the result as a new RGBA image. With labels set, each row and
// column is numbered from zero along the top and left edges.
//
// Rectified markers are 12 cells across, so CellGrid(canonical, 12, ...)
// shows exactly which pixels each bit was read from.
//
// An unparsable gridColorHex falls back to semi-transparent red.
func CellGrid(img image.Image, cells int, labels bool, gridColorHex string) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	if cells < 1 {
		return result
	}

	var gridColor color.Color = defaultGridColor
	if gridColorHex != "" {
		if c, err := ParseHexColor(gridColorHex); err == nil {
			gridColor = c
		}
	}
	src := image.NewUniform(gridColor)

	w, h := bounds.Dx(), bounds.Dy()
	for i := 1; i < cells; i++ {
		x := i * w / cells
		y := i * h / cells
		draw.Draw(result, image.Rect(x, 0, x+1, h), src, image.Point{}, draw.Over)
		draw.Draw(result, image.Rect(0, y, w, y+1), src, image.Point{}, draw.Over)
	}

	if labels {
		fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		bg := color.RGBA{R: 0, G: 0, B: 0, A: 180}
		for i := 0; i < cells; i++ {
			DrawLabel(result, i*w/cells+2, 2, strconv.Itoa(i), fg, bg)
			if i > 0 {
				DrawLabel(result, 2, i*h/cells+2, strconv.Itoa(i), fg, bg)
			}
		}
	}
	return result
}
