package detection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

func blackSquare() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 480, 480))
	fill(img, img.Bounds(), 255)
	fill(img, image.Rect(120, 120, 360, 360), 0)
	return img
}

func TestRefineCornersConvergesToEdgeCrossing(t *testing.T) {
	img := blackSquare()
	start := []geometry.Point{{X: 119, Y: 120}, {X: 359, Y: 119}, {X: 360, Y: 359}, {X: 120, Y: 360}}
	want := []geometry.Point{{X: 119.5, Y: 119.5}, {X: 359.5, Y: 119.5}, {X: 359.5, Y: 359.5}, {X: 119.5, Y: 359.5}}

	got := RefineCorners(img, start, DefaultSubpixel)
	require.Len(t, got, 4)
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 0.3, "corner %d x", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 0.3, "corner %d y", i)
	}
	assert.Equal(t, geometry.Pt(119, 120), start[0], "input is left untouched")
}

func TestRefineCornersFlatRegionStays(t *testing.T) {
	img := blackSquare()
	start := []geometry.Point{{X: 240, Y: 240}, {X: 30, Y: 30}}

	got := RefineCorners(img, start, DefaultSubpixel)
	assert.Equal(t, start, got)
}

func TestRefineCornersDisabled(t *testing.T) {
	img := blackSquare()
	start := []geometry.Point{{X: 119, Y: 120}}

	got := RefineCorners(img, start, SubpixelCriteria{})
	assert.Equal(t, start, got)
}

func TestRefineCornersStraightEdgeStaysInWindow(t *testing.T) {
	img := blackSquare()
	// On a straight edge the position along it is unconstrained; whatever
	// happens, the result stays within the search window.
	start := []geometry.Point{{X: 119, Y: 240}}

	got := RefineCorners(img, start, DefaultSubpixel)
	assert.LessOrEqual(t, got[0].X-start[0].X, 5.0)
	assert.GreaterOrEqual(t, got[0].X-start[0].X, -5.0)
	assert.LessOrEqual(t, got[0].Y-start[0].Y, 5.0)
	assert.GreaterOrEqual(t, got[0].Y-start[0].Y, -5.0)
}
