package geometry

import (
	"image"
	"math"
)

// ApproxPolygon simplifies a pixel curve with the Douglas-Peucker algorithm.
//
// Every point of curve lies within epsilon of the returned polyline. For a
// closed curve the first point is always kept and the curve is split at the
// point farthest from it, so both halves are simplified independently. The
// returned vertices keep the order in which they appear in curve.
func ApproxPolygon(curve []image.Point, epsilon float64, closed bool) []image.Point {
	n := len(curve)
	if n < 3 {
		out := make([]image.Point, n)
		copy(out, curve)
		return out
	}

	if !closed {
		keep := make([]bool, n)
		keep[0], keep[n-1] = true, true
		simplify(curve, 0, n-1, epsilon, keep)
		return collect(curve, keep)
	}

	// The closing point is appended so the second half can run past the end.
	ext := make([]image.Point, n+1)
	copy(ext, curve)
	ext[n] = curve[0]

	far := 0
	var farDist int
	for i := 1; i < n; i++ {
		dx, dy := curve[i].X-curve[0].X, curve[i].Y-curve[0].Y
		if d := dx*dx + dy*dy; d > farDist {
			farDist, far = d, i
		}
	}
	if far == 0 {
		return []image.Point{curve[0]}
	}

	keep := make([]bool, n+1)
	keep[0], keep[far], keep[n] = true, true, true
	simplify(ext, 0, far, epsilon, keep)
	simplify(ext, far, n, epsilon, keep)
	return collect(curve, keep[:n])
}

func simplify(pts []image.Point, first, last int, epsilon float64, keep []bool) {
	if last-first < 2 {
		return
	}

	a := FromImagePoint(pts[first])
	b := FromImagePoint(pts[last])
	ab := b.Sub(a)
	length := math.Sqrt(ab.Dot(ab))

	maxDist := -1.0
	index := first
	for i := first + 1; i < last; i++ {
		p := FromImagePoint(pts[i])
		var d float64
		if length == 0 {
			d = p.Dist(a)
		} else {
			d = math.Abs(ab.Cross(p.Sub(a))) / length
		}
		if d > maxDist {
			maxDist, index = d, i
		}
	}

	if maxDist <= epsilon {
		return
	}
	keep[index] = true
	simplify(pts, first, index, epsilon, keep)
	simplify(pts, index, last, epsilon, keep)
}

func collect(pts []image.Point, keep []bool) []image.Point {
	out := make([]image.Point, 0, 8)
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// IsConvex reports whether the closed polygon is strictly convex.
//
// Every turn must go the same way; a zero turn (collinear or repeated
// vertex) or a change of direction makes the polygon non-convex. Polygons
// with fewer than three vertices are never convex.
func IsConvex(poly []image.Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := poly[i], poly[(i+1)%n], poly[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross == 0:
			return false
		case sign == 0:
			sign = cross
		case (cross > 0) != (sign > 0):
			return false
		}
	}
	return true
}
