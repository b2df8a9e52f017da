package detection

import (
	"image"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

const (
	// ApproxEpsilonRatio scales a contour's length into the Douglas-Peucker
	// tolerance used to reduce it to a polygon.
	ApproxEpsilonRatio = 0.05

	// MinSideSquared is the smallest accepted squared side of a candidate
	// quad, in pixels.
	MinSideSquared = 500

	// NearDuplicateDistance is the mean squared corner distance below which
	// two candidates describe the same marker.
	NearDuplicateDistance = 100
)

// Candidate is a convex quadrilateral that may be a marker.
//
// The corners are ordered so that cross(P1-P0, P2-P0) is not negative,
// which makes the warp onto the canonical square orientation preserving.
type Candidate struct {
	Points [4]geometry.Point `json:"points"`
}

// Perimeter returns the length of the quad's outline.
func (c Candidate) Perimeter() float64 {
	return geometry.Perimeter(c.Points[:])
}

// ExtractQuad accepts a polygon as a candidate when it has exactly four
// vertices, is strictly convex and has no side shorter than the minimum.
// The vertices are reordered to the candidate winding.
func ExtractQuad(poly []image.Point) (Candidate, bool) {
	if len(poly) != 4 || !geometry.IsConvex(poly) {
		return Candidate{}, false
	}

	for i := range poly {
		d := poly[(i+1)%4].Sub(poly[i])
		if d.X*d.X+d.Y*d.Y < MinSideSquared {
			return Candidate{}, false
		}
	}

	var c Candidate
	for i, p := range poly {
		c.Points[i] = geometry.FromImagePoint(p)
	}
	v1 := c.Points[1].Sub(c.Points[0])
	v2 := c.Points[2].Sub(c.Points[0])
	if v1.Cross(v2) < 0 {
		c.Points[1], c.Points[3] = c.Points[3], c.Points[1]
	}
	return c, true
}

// FindCandidates reduces every contour of at least minContourSize points to
// a polygon, keeps the ones ExtractQuad accepts and removes near duplicates.
// Candidates keep the order of the contours they came from.
func FindCandidates(contours [][]image.Point, minContourSize int) []Candidate {
	var quads []Candidate
	for _, contour := range contours {
		if len(contour) < minContourSize {
			continue
		}
		poly := geometry.ApproxPolygon(contour, float64(len(contour))*ApproxEpsilonRatio, true)
		if c, ok := ExtractQuad(poly); ok {
			quads = append(quads, c)
		}
	}
	return RemoveNearDuplicates(quads)
}

// RemoveNearDuplicates drops one candidate of every pair whose corners are,
// on average, closer than NearDuplicateDistance (squared). The one with the
// smaller perimeter goes; when the perimeters are equal the earlier one goes.
func RemoveNearDuplicates(quads []Candidate) []Candidate {
	removed := make([]bool, len(quads))
	for i := range quads {
		for j := i + 1; j < len(quads); j++ {
			var d float64
			for c := 0; c < 4; c++ {
				d += quads[i].Points[c].Dist2(quads[j].Points[c])
			}
			if d/4 >= NearDuplicateDistance {
				continue
			}
			if quads[i].Perimeter() > quads[j].Perimeter() {
				removed[j] = true
			} else {
				removed[i] = true
			}
		}
	}

	out := make([]Candidate, 0, len(quads))
	for i, q := range quads {
		if !removed[i] {
			out = append(out, q)
		}
	}
	return out
}
