package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/marker-tools-mcp/internal/detection"
	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

func squareMarker(id uint64) detection.Marker {
	return detection.Marker{
		Points: [4]geometry.Point{
			geometry.Pt(20, 20), geometry.Pt(80, 20), geometry.Pt(80, 80), geometry.Pt(20, 80),
		},
		ID:    id,
		Valid: true,
		Color: detection.ColorFromID(id),
		Cube: []geometry.Segment{
			{geometry.Pt(20, 20), geometry.Pt(10, 10)},
		},
	}
}

func TestMarkersOutlineInMarkerColour(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	m := squareMarker(0x102030)

	Markers(dst, []detection.Marker{m}, Options{Thickness: 1, Outline: true})

	want := color.RGBA{R: 0x30, G: 0x20, B: 0x10, A: 255}
	assert.Equal(t, want, dst.RGBAAt(50, 20))
	assert.Equal(t, want, dst.RGBAAt(80, 50))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(50, 50), "interior stays empty")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(15, 15), "cube not requested")
}

func TestMarkersCube(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	m := squareMarker(0x0000FF)

	Markers(dst, []detection.Marker{m}, Options{Thickness: 1, Cube: true})

	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(15, 15))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(50, 20), "outline not requested")
}

func TestMarkersLabel(t *testing.T) {
	plain := image.NewRGBA(image.Rect(0, 0, 100, 100))
	labelled := image.NewRGBA(image.Rect(0, 0, 100, 100))
	m := squareMarker(7)

	Markers(plain, []detection.Marker{m}, Options{Thickness: 1})
	Markers(labelled, []detection.Marker{m}, Options{Thickness: 1, Labels: true})

	assert.Equal(t, color.RGBA{}, plain.RGBAAt(25, 25))
	assert.NotEqual(t, color.RGBA{}, labelled.RGBAAt(25, 25), "label box sits inside the first corner")
}

func TestMarkersZeroIDStillVisible(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}
	m := squareMarker(0)
	m.Color = color.RGBA{}

	Markers(dst, []detection.Marker{m}, Options{Thickness: 1, Outline: true})

	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(50, 20))
}

func TestFrame(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 100, 100))
	frame := &detection.Frame{Markers: []detection.Marker{squareMarker(0x00FF00)}}

	out := Frame(gray, frame, DefaultOptions)
	require.Equal(t, gray.Bounds(), out.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(50, 20))
	assert.Equal(t, uint8(0), gray.GrayAt(50, 20).Y, "source is left untouched")

	empty := Frame(gray, nil, DefaultOptions)
	assert.Equal(t, color.RGBA{A: 255}, empty.RGBAAt(50, 20))
}

func TestCandidates(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	cands := []detection.Candidate{{Points: squareMarker(1).Points}}
	yellow := color.RGBA{R: 255, G: 255, A: 255}

	Candidates(dst, cands, yellow, 1)
	assert.Equal(t, yellow, dst.RGBAAt(20, 50))
}
