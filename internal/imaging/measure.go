package imaging

import (
	"image"
	"math"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                float64 `json:"delta_x"`
	DeltaY                float64 `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"`
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
}

// MeasureDistance measures the segment from a to b inside a frame with the
// given bounds. Angles follow image axes: 0 points right, 90 points down.
func MeasureDistance(bounds image.Rectangle, a, b geometry.Point) DistanceResult {
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	d := b.Sub(a)
	distance := a.Dist(b)
	angle := math.Atan2(d.Y, d.X) * 180 / math.Pi

	r := DistanceResult{
		DistancePixels: round(distance, 2),
		DeltaX:         round(d.X, 2),
		DeltaY:         round(d.Y, 2),
		AngleDegrees:   round(angle, 1),
	}
	if width > 0 {
		r.DistancePercentWidth = round(distance/width*100, 1)
	}
	if height > 0 {
		r.DistancePercentHeight = round(distance/height*100, 1)
	}
	return r
}

// QuadMeasurement describes how a marker outline appears in the frame. A
// marker seen head-on has four equal edges and right corner angles; the
// further EdgeRatio drops below 1 the stronger the perspective.
type QuadMeasurement struct {
	// Edges[i] runs from corner i to corner i+1.
	Edges        [4]DistanceResult `json:"edges"`
	Diagonals    [2]float64        `json:"diagonals"`
	CornerAngles [4]float64        `json:"corner_angles"`
	Area         float64           `json:"area"`
	// EdgeRatio is the shortest edge over the longest.
	EdgeRatio float64 `json:"edge_ratio"`
}

// MeasureQuad measures the closed quadrilateral through pts.
func MeasureQuad(bounds image.Rectangle, pts [4]geometry.Point) QuadMeasurement {
	var m QuadMeasurement
	shortest, longest := math.Inf(1), 0.0
	var area float64
	for i := range pts {
		next := pts[(i+1)%4]
		prev := pts[(i+3)%4]

		m.Edges[i] = MeasureDistance(bounds, pts[i], next)
		l := pts[i].Dist(next)
		shortest, longest = math.Min(shortest, l), math.Max(longest, l)

		u, v := prev.Sub(pts[i]), next.Sub(pts[i])
		if n := math.Sqrt(u.Dot(u) * v.Dot(v)); n > 0 {
			cos := math.Max(-1, math.Min(1, u.Dot(v)/n))
			m.CornerAngles[i] = round(math.Acos(cos)*180/math.Pi, 1)
		}
		area += pts[i].Cross(next)
	}

	m.Diagonals = [2]float64{round(pts[0].Dist(pts[2]), 2), round(pts[1].Dist(pts[3]), 2)}
	m.Area = round(math.Abs(area)/2, 2)
	if longest > 0 {
		m.EdgeRatio = round(shortest/longest, 3)
	}
	return m
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
