package detection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContoursOuterBorder(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	fill(img, image.Rect(5, 5, 15, 15), 255)

	contours := FindContours(img)
	require.Len(t, contours, 1)
	c := contours[0]
	assert.Len(t, c, 36)
	assert.Equal(t, image.Pt(5, 5), c[0])

	// The outer border runs down the left side first.
	assert.Equal(t, image.Pt(5, 6), c[1])
	for _, p := range c {
		onEdge := p.X == 5 || p.X == 14 || p.Y == 5 || p.Y == 14
		assert.True(t, onEdge, "point %v is not on the square outline", p)
	}
}

func TestFindContoursHole(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	fill(img, img.Bounds(), 255)
	fill(img, image.Rect(5, 5, 15, 15), 0)

	contours := FindContours(img)
	require.Len(t, contours, 2)
	assert.Len(t, contours[0], 76, "frame outline")
	assert.Len(t, contours[1], 40, "hole outline")

	hole := contours[1]
	assert.Equal(t, image.Pt(4, 5), hole[0])
	for _, p := range hole {
		assert.NotEqual(t, image.Pt(4, 4), p, "hole corners are cut diagonally")
		assert.NotEqual(t, image.Pt(15, 15), p)
	}
}

func TestFindContoursSinglePixel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	img.SetGray(2, 2, colorWhite)

	contours := FindContours(img)
	require.Len(t, contours, 1)
	assert.Equal(t, []image.Point{{X: 2, Y: 2}}, contours[0])
}

func TestFindContoursTwoPixels(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	img.SetGray(1, 1, colorWhite)
	img.SetGray(2, 1, colorWhite)

	contours := FindContours(img)
	require.Len(t, contours, 1)
	assert.Equal(t, []image.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}, contours[0])
}

func TestFindContoursSeparateRegions(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 10))
	fill(img, image.Rect(1, 1, 5, 5), 255)
	fill(img, image.Rect(20, 2, 25, 8), 255)
	// Diagonal neighbours join under 8-connectivity.
	fill(img, image.Rect(5, 5, 7, 7), 255)

	contours := FindContours(img)
	assert.Len(t, contours, 2)
}

func TestFindContoursKeepsImageCoordinates(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	fill(img, image.Rect(25, 25, 30, 30), 255)
	sub := img.SubImage(image.Rect(20, 20, 40, 40)).(*image.Gray)

	contours := FindContours(sub)
	require.Len(t, contours, 1)
	assert.Equal(t, image.Pt(25, 25), contours[0][0])
}

func TestFindContoursEmpty(t *testing.T) {
	assert.Empty(t, FindContours(image.NewGray(image.Rectangle{})))
	assert.Empty(t, FindContours(image.NewGray(image.Rect(0, 0, 8, 8))))
}
