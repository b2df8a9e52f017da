package detection

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
	"github.com/ironsheep/marker-tools-mcp/internal/pose"
)

// Marker is a decoded marker in a frame.
type Marker struct {
	// Points are the subpixel corners, in candidate winding.
	Points [4]geometry.Point `json:"points"`
	ID     uint64            `json:"id"`
	// Valid is set once border, orientation and checksum all passed.
	Valid       bool        `json:"valid"`
	Color       color.RGBA  `json:"-"`
	Checksum    uint16      `json:"checksum"`
	Orientation Orientation `json:"orientation"`
	// Cube holds the eight projected cube edges once the pose is known.
	Cube []geometry.Segment `json:"cube,omitempty"`
	Pose *pose.Pose         `json:"pose,omitempty"`
}

// ColorFromID derives a display colour from the low three bytes of id.
func ColorFromID(id uint64) color.RGBA {
	return color.RGBA{
		R: uint8(id),
		G: uint8(id >> 8),
		B: uint8(id >> 16),
		A: 255,
	}
}

// Hex returns the marker colour as #rrggbb.
func (m Marker) Hex() string {
	c, _ := colorful.MakeColor(m.Color)
	return c.Hex()
}

// Center returns the mean of the marker corners.
func (m Marker) Center() geometry.Point {
	var c geometry.Point
	for _, p := range m.Points {
		c = c.Add(p)
	}
	return geometry.Pt(c.X/4, c.Y/4)
}
