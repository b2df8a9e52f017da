package detection

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// Rectify warps the quad of bin onto a size×size canonical image.
//
// Every canonical pixel is mapped back through the inverse transform and
// sampled bilinearly, rounding to the nearest value. Samples that fall
// outside bin read as zero.
func Rectify(bin *image.Gray, quad [4]geometry.Point, size int) (*image.Gray, error) {
	s := float64(size)
	dst := [4]geometry.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}

	h, err := geometry.PerspectiveTransform(quad, dst)
	if err != nil {
		return nil, fmt.Errorf("rectify: %w", err)
	}
	inv, err := h.Inverse()
	if err != nil {
		return nil, fmt.Errorf("rectify: %w", err)
	}

	out := image.NewGray(image.Rect(0, 0, size, size))
	for v := 0; v < size; v++ {
		row := out.Pix[v*out.Stride:]
		for u := 0; u < size; u++ {
			p, ok := inv.Apply(geometry.Pt(float64(u), float64(v)))
			if !ok {
				continue
			}
			row[u] = uint8(math.Round(bilinearZero(bin, p.X, p.Y)))
		}
	}
	return out, nil
}

// bilinearZero samples img at a subpixel position, treating pixels outside
// the image as zero. Coordinates are relative to the image bounds.
func bilinearZero(img *image.Gray, x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	at := func(px, py int) float64 {
		b := img.Bounds()
		if px < 0 || py < 0 || px >= b.Dx() || py >= b.Dy() {
			return 0
		}
		return float64(img.Pix[img.PixOffset(b.Min.X+px, b.Min.Y+py)])
	}

	top := at(ix, iy)*(1-fx) + at(ix+1, iy)*fx
	bottom := at(ix, iy+1)*(1-fx) + at(ix+1, iy+1)*fx
	return top*(1-fy) + bottom*fy
}
