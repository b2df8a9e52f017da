package detection

import (
	"image"
	"math"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// SubpixelCriteria controls corner refinement.
type SubpixelCriteria struct {
	// Window is the half side of the search window; the window spans
	// 2*Window+1 pixels.
	Window int
	// MaxIterations bounds the refinement of each corner.
	MaxIterations int
	// Epsilon stops the refinement once a corner moves less than this.
	Epsilon float64
}

// DefaultSubpixel refines over an 11×11 window, for at most 30 iterations or
// until a corner moves less than 0.01 px.
var DefaultSubpixel = SubpixelCriteria{Window: 5, MaxIterations: 30, Epsilon: 0.01}

// RefineCorners moves each point to the subpixel position where the image
// gradients in its neighbourhood are orthogonal to the offsets from it.
//
// Gradients are weighted by a Gaussian over the window. A corner that would
// leave its window is restored to its starting position.
func RefineCorners(gray *image.Gray, pts []geometry.Point, crit SubpixelCriteria) []geometry.Point {
	win := crit.Window
	if win <= 0 {
		out := make([]geometry.Point, len(pts))
		copy(out, pts)
		return out
	}
	side := 2*win + 1

	mask := make([]float64, side*side)
	for i := 0; i < side; i++ {
		y := float64(i-win) / float64(win)
		vy := math.Exp(-y * y)
		for j := 0; j < side; j++ {
			x := float64(j-win) / float64(win)
			mask[i*side+j] = vy * math.Exp(-x*x)
		}
	}

	maxIter := crit.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultSubpixel.MaxIterations
	}
	eps2 := crit.Epsilon * crit.Epsilon

	b := gray.Bounds()
	out := make([]geometry.Point, len(pts))
	for n, start := range pts {
		cur := start
		for iter := 0; iter < maxIter; iter++ {
			var a, bxy, c, bb1, bb2 float64
			for i := -win; i <= win; i++ {
				py := cur.Y + float64(i)
				for j := -win; j <= win; j++ {
					px := cur.X + float64(j)
					m := mask[(i+win)*side+j+win]
					gx := bilinearReplicate(gray, px+1, py) - bilinearReplicate(gray, px-1, py)
					gy := bilinearReplicate(gray, px, py+1) - bilinearReplicate(gray, px, py-1)

					gxx := gx * gx * m
					gxy := gx * gy * m
					gyy := gy * gy * m
					a += gxx
					bxy += gxy
					c += gyy
					bb1 += gxx*float64(j) + gxy*float64(i)
					bb2 += gxy*float64(j) + gyy*float64(i)
				}
			}

			det := a*c - bxy*bxy
			if math.Abs(det) <= 1e-30 {
				break
			}
			scale := 1 / det
			next := geometry.Point{
				X: cur.X + c*scale*bb1 - bxy*scale*bb2,
				Y: cur.Y - bxy*scale*bb1 + a*scale*bb2,
			}
			moved := next.Dist2(cur)
			cur = next
			if cur.X < 0 || cur.Y < 0 || cur.X >= float64(b.Dx()) || cur.Y >= float64(b.Dy()) {
				break
			}
			if moved <= eps2 {
				break
			}
		}

		if math.Abs(cur.X-start.X) > float64(win) || math.Abs(cur.Y-start.Y) > float64(win) {
			cur = start
		}
		out[n] = cur
	}
	return out
}

// bilinearReplicate samples img at a subpixel position, clamping to the
// nearest edge pixel outside the image. Coordinates are relative to the
// image bounds.
func bilinearReplicate(img *image.Gray, x, y float64) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	at := func(px, py int) float64 {
		px = min(max(px, 0), w-1)
		py = min(max(py, 0), h-1)
		return float64(img.Pix[img.PixOffset(b.Min.X+px, b.Min.Y+py)])
	}

	top := at(ix, iy)*(1-fx) + at(ix+1, iy)*fx
	bottom := at(ix, iy+1)*(1-fx) + at(ix+1, iy+1)*fx
	return top*(1-fy) + bottom*fy
}
