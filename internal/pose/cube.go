package pose

import (
	"github.com/golang/geo/r3"

	"github.com/ironsheep/marker-tools-mcp/internal/camera"
	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// MarkerSquare is the marker outline in object coordinates, paired in order
// with the four image corners of a detected marker.
var MarkerSquare = [4]r3.Vector{
	{X: -1, Y: -1, Z: 0},
	{X: -1, Y: 1, Z: 0},
	{X: 1, Y: 1, Z: 0},
	{X: 1, Y: -1, Z: 0},
}

// CubeHeight is the height of the cube standing on the marker, in the same
// units as MarkerSquare.
const CubeHeight = 2

// CubeEdges lists the eight cube edges drawn on a marker: the four vertical
// edges followed by four edges of the top face.
var CubeEdges = [8][2]r3.Vector{
	{{X: -1, Y: -1, Z: 0}, {X: -1, Y: -1, Z: CubeHeight}},
	{{X: -1, Y: 1, Z: 0}, {X: -1, Y: 1, Z: CubeHeight}},
	{{X: 1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: CubeHeight}},
	{{X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: CubeHeight}},
	{{X: -1, Y: 1, Z: CubeHeight}, {X: 1, Y: 1, Z: CubeHeight}},
	{{X: -1, Y: -1, Z: CubeHeight}, {X: 1, Y: -1, Z: CubeHeight}},
	{{X: -1, Y: 1, Z: CubeHeight}, {X: -1, Y: -1, Z: CubeHeight}},
	{{X: 1, Y: 1, Z: CubeHeight}, {X: 1, Y: -1, Z: CubeHeight}},
}

// Cube projects CubeEdges through the pose into image segments.
func Cube(model *camera.Model, p Pose) []geometry.Segment {
	pts := make([]r3.Vector, 0, 2*len(CubeEdges))
	for _, e := range CubeEdges {
		pts = append(pts, e[0], e[1])
	}
	proj := Project(model, p, pts)

	segs := make([]geometry.Segment, len(CubeEdges))
	for i := range segs {
		segs[i] = geometry.Segment{proj[2*i], proj[2*i+1]}
	}
	return segs
}
