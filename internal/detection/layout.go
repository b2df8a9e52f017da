package detection

import (
	"image"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

const (
	// GridCells is the number of cells along each side of a marker,
	// including the black border.
	GridCells = 12

	// DataCells is the number of cells along each side of the data area.
	DataCells = 8

	// IDRows and ChecksumRows split the data area between the identifier
	// and its CRC.
	IDRows       = 6
	ChecksumRows = 2

	// DefaultMarkerSize is the side of the canonical image, in pixels.
	DefaultMarkerSize = 240
)

// Layout holds the canonical geometry derived from the canonical image size.
type Layout struct {
	MarkerSize int `json:"marker_size"`
	Cell       int `json:"cell"`
	// MinArea is the nonzero pixel count above which a cell reads as white.
	MinArea int `json:"min_area"`
}

// NewLayout derives a layout for canonical images of the given side.
func NewLayout(size int) Layout {
	cell := size / GridCells
	return Layout{MarkerSize: size, Cell: cell, MinArea: cell * cell / 2}
}

// Corners returns the canonical square every candidate is warped onto.
func (l Layout) Corners() [4]geometry.Point {
	s := float64(l.MarkerSize)
	return [4]geometry.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
}

// white reports whether the cell whose top-left pixel is (x, y), relative
// to the image bounds, holds more than MinArea nonzero pixels.
func (l Layout) white(img *image.Gray, x, y int) bool {
	return countNonZero(img, image.Rect(x, y, x+l.Cell, y+l.Cell)) > l.MinArea
}

// cellWhite is white addressed by grid column and row.
func (l Layout) cellWhite(img *image.Gray, col, row int) bool {
	return l.white(img, col*l.Cell, row*l.Cell)
}

// countNonZero counts nonzero pixels of img inside r, given relative to the
// image bounds. Parts of r outside the image count as zero.
func countNonZero(img *image.Gray, r image.Rectangle) int {
	b := img.Bounds()
	r = r.Add(b.Min).Intersect(b)
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):]
		for x := 0; x < r.Dx(); x++ {
			if row[x] != 0 {
				n++
			}
		}
	}
	return n
}
