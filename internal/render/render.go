// Package render draws detection results over frames.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/ironsheep/marker-tools-mcp/internal/detection"
	"github.com/ironsheep/marker-tools-mcp/internal/imaging"
)

// Options controls what Markers draws.
type Options struct {
	// Thickness is the line width in pixels.
	Thickness int
	// Outline draws the four edges of each marker.
	Outline bool
	// Cube draws the projected cube edges of markers that have them.
	Cube bool
	// Labels writes each marker's id next to its first corner.
	Labels bool
}

// DefaultOptions draws everything with 2 pixel lines.
var DefaultOptions = Options{Thickness: 2, Outline: true, Cube: true, Labels: true}

var labelText = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Markers draws markers onto dst in their own colours.
func Markers(dst draw.Image, markers []detection.Marker, opts Options) {
	for _, m := range markers {
		c := opaque(m.Color)
		if opts.Outline {
			imaging.DrawPolygon(dst, m.Points[:], c, opts.Thickness)
		}
		if opts.Cube {
			for _, e := range m.Cube {
				imaging.DrawLine(dst, e[0], e[1], c, opts.Thickness)
			}
		}
		if opts.Labels {
			at := m.Points[0].Image()
			imaging.DrawLabel(dst, at.X+opts.Thickness+1, at.Y+opts.Thickness+1, strconv.FormatUint(m.ID, 10), labelText, c)
		}
	}
}

// Frame returns a colour copy of img with the frame's markers drawn on it.
func Frame(img image.Image, frame *detection.Frame, opts Options) *image.RGBA {
	out := imaging.ToRGBA(img)
	if frame != nil {
		Markers(out, frame.Markers, opts)
	}
	return out
}

// Candidates outlines every candidate quad in c, decoded or not.
func Candidates(dst draw.Image, candidates []detection.Candidate, c color.Color, thickness int) {
	for _, cand := range candidates {
		imaging.DrawPolygon(dst, cand.Points[:], c, thickness)
	}
}

// opaque forces full alpha so a marker with id 0 still shows up.
func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}
