package geometry

import (
	"image"
	"math"
)

// Point is a subpixel position in image coordinates.
//
// X grows rightward and Y grows downward, matching image.Point. Integer
// coordinates address pixel centres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// FromImagePoint converts an integer pixel position.
func FromImagePoint(p image.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product of p and q.
//
// In image coordinates a positive value means q lies clockwise of p when
// viewed on screen.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Dist2 returns the squared euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	d := p.Sub(q)
	return d.Dot(d)
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.Dist2(q))
}

// Image rounds p to the nearest pixel.
func (p Point) Image() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Segment is a straight line between two image points.
type Segment [2]Point

// Perimeter returns the length of the closed polygon through pts.
func Perimeter(pts []Point) float64 {
	var sum float64
	for i := range pts {
		sum += pts[i].Dist(pts[(i+1)%len(pts)])
	}
	return sum
}
