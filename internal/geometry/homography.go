package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when four point correspondences do not determine
// a unique projective transform, typically because three of them are
// collinear.
var ErrSingular = errors.New("geometry: singular point configuration")

// Homography is a 3×3 projective transform stored row major.
type Homography [9]float64

// Identity is the identity transform.
var Identity = Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}

// PerspectiveTransform returns the homography mapping src[i] onto dst[i].
//
// The eight unknowns (h22 fixed to 1) are found by solving the 8×8 linear
// system built from the four correspondences. Both point sets are first
// translated to their centroid and scaled to unit spread so the system stays
// well conditioned for pixel-sized inputs.
func PerspectiveTransform(src, dst [4]Point) (Homography, error) {
	ts, ns := normalization(src)
	td, nd := normalization(dst)

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := ns[i].X, ns[i].Y
		u, v := nd[i].X, nd[i].Y
		a.SetRow(i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		a.SetRow(i+4, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(i, u)
		b.SetVec(i+4, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	hn := mat.NewDense(3, 3, []float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	})

	var tdInv mat.Dense
	if err := tdInv.Inverse(td); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var full mat.Dense
	full.Product(&tdInv, hn, ts)
	return fromDense(&full)
}

// normalization returns the similarity that moves pts to their centroid and
// scales their mean distance from it to sqrt(2), plus the transformed points.
func normalization(pts [4]Point) (*mat.Dense, [4]Point) {
	var c Point
	for _, p := range pts {
		c = c.Add(p)
	}
	c = Pt(c.X/4, c.Y/4)

	var spread float64
	for _, p := range pts {
		spread += p.Dist(c)
	}
	spread /= 4

	s := 1.0
	if spread > 0 {
		s = math.Sqrt2 / spread
	}

	var out [4]Point
	for i, p := range pts {
		out[i] = Pt((p.X-c.X)*s, (p.Y-c.Y)*s)
	}
	t := mat.NewDense(3, 3, []float64{
		s, 0, -s * c.X,
		0, s, -s * c.Y,
		0, 0, 1,
	})
	return t, out
}

func fromDense(m *mat.Dense) (Homography, error) {
	scale := m.At(2, 2)
	if math.Abs(scale) < 1e-12 {
		// The origin maps to infinity; fall back to the largest entry.
		scale = 0
		for _, v := range m.RawMatrix().Data {
			if math.Abs(v) > math.Abs(scale) {
				scale = v
			}
		}
	}
	if scale == 0 || math.IsNaN(scale) {
		return Homography{}, ErrSingular
	}
	var h Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			h[r*3+c] = m.At(r, c) / scale
		}
	}
	return h, nil
}

func (h Homography) dense() *mat.Dense {
	return mat.NewDense(3, 3, h[:])
}

// Apply maps p through h. The second result is false when p maps to the
// line at infinity.
func (h Homography) Apply(p Point) (Point, bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return Point{}, false
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Inverse returns the transform undoing h.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.dense()); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return fromDense(&inv)
}

// Column returns column c of h as a 3-vector.
func (h Homography) Column(c int) [3]float64 {
	return [3]float64{h[c], h[3+c], h[6+c]}
}
