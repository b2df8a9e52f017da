package pose

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/marker-tools-mcp/internal/camera"
	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// ErrDegenerate is returned when the image points cannot determine a pose:
// two of them coincide, three of them are collinear, or the linear systems
// of the solver are singular.
var ErrDegenerate = errors.New("pose: degenerate point configuration")

const (
	maxIterations = 50
	// collinearTolerance is relative to the squared extent of the points.
	collinearTolerance = 1e-9
)

// Pose places an object in camera coordinates: a point X on the object maps
// to Rodrigues(Rotation)·X + Translation.
type Pose struct {
	Rotation    r3.Vector `json:"rvec"`
	Translation r3.Vector `json:"tvec"`
}

// Transform maps an object point into camera coordinates.
func (p Pose) Transform(x r3.Vector) r3.Vector {
	return Rodrigues(p.Rotation).Apply(x).Add(p.Translation)
}

// Project maps object points to pixels through p and the camera model.
func Project(model *camera.Model, p Pose, pts []r3.Vector) []geometry.Point {
	r := Rodrigues(p.Rotation)
	out := make([]geometry.Point, len(pts))
	for i, x := range pts {
		out[i] = model.Project(r.Apply(x).Add(p.Translation))
	}
	return out
}

// Solve estimates the pose of a planar object (all object points on z=0)
// from four image correspondences.
//
// A plane-to-image homography on undistorted points gives the initial
// guess, which Levenberg-Marquardt then refines against the full
// reprojection error through the distortion model.
func Solve(model *camera.Model, object [4]r3.Vector, image [4]geometry.Point) (Pose, error) {
	var norm [4]geometry.Point
	for i, p := range image {
		norm[i] = model.Undistort(p)
	}
	if degenerate(norm[:]) {
		return Pose{}, ErrDegenerate
	}

	var plane [4]geometry.Point
	for i, o := range object {
		if o.Z != 0 {
			return Pose{}, fmt.Errorf("pose: object point %d is not on the z=0 plane", i)
		}
		plane[i] = geometry.Pt(o.X, o.Y)
	}

	initial, err := fromHomography(plane, norm)
	if err != nil {
		return Pose{}, err
	}
	return refine(model, object, image, initial)
}

// degenerate reports whether any two points coincide or any three are
// collinear.
func degenerate(pts []geometry.Point) bool {
	var extent float64
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			extent = math.Max(extent, pts[i].Dist2(pts[j]))
		}
	}
	if extent == 0 {
		return true
	}
	tol := collinearTolerance * extent
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			for k := j + 1; k < len(pts); k++ {
				area := pts[j].Sub(pts[i]).Cross(pts[k].Sub(pts[i]))
				if math.Abs(area) <= tol {
					return true
				}
			}
		}
	}
	return false
}

func fromHomography(plane, norm [4]geometry.Point) (Pose, error) {
	h, err := geometry.PerspectiveTransform(plane, norm)
	if err != nil {
		return Pose{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	col := func(c int) r3.Vector {
		v := h.Column(c)
		return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	}
	h1, h2, h3 := col(0), col(1), col(2)

	n1, n2 := h1.Norm(), h2.Norm()
	if n1 == 0 || n2 == 0 {
		return Pose{}, ErrDegenerate
	}
	lambda := 1 / math.Sqrt(n1*n2)
	if h3.Z < 0 {
		lambda = -lambda
	}

	r1 := h1.Mul(lambda)
	r2 := h2.Mul(lambda)
	t := h3.Mul(lambda)
	r, ok := orthonormalize(r1, r2, r1.Cross(r2))
	if !ok {
		return Pose{}, ErrDegenerate
	}
	return Pose{Rotation: r.Vector(), Translation: t}, nil
}

// refine runs Levenberg-Marquardt on (rvec, tvec) with a central-difference
// Jacobian.
func refine(model *camera.Model, object [4]r3.Vector, image [4]geometry.Point, initial Pose) (Pose, error) {
	const n = 2 * len(object)

	residuals := func(x []float64) []float64 {
		p := Pose{
			Rotation:    r3.Vector{X: x[0], Y: x[1], Z: x[2]},
			Translation: r3.Vector{X: x[3], Y: x[4], Z: x[5]},
		}
		proj := Project(model, p, object[:])
		r := make([]float64, n)
		for i := range proj {
			r[2*i] = proj[i].X - image[i].X
			r[2*i+1] = proj[i].Y - image[i].Y
		}
		return r
	}
	sumSquares := func(r []float64) float64 {
		var s float64
		for _, v := range r {
			s += v * v
		}
		return s
	}

	x := []float64{
		initial.Rotation.X, initial.Rotation.Y, initial.Rotation.Z,
		initial.Translation.X, initial.Translation.Y, initial.Translation.Z,
	}
	r := residuals(x)
	cost := sumSquares(r)
	lambda := 1e-3

	for iter := 0; iter < maxIterations && cost > 1e-20; iter++ {
		jac := mat.NewDense(n, 6, nil)
		for c := 0; c < 6; c++ {
			step := 1e-6 * math.Max(1, math.Abs(x[c]))
			xp := append([]float64(nil), x...)
			xm := append([]float64(nil), x...)
			xp[c] += step
			xm[c] -= step
			rp, rm := residuals(xp), residuals(xm)
			for i := 0; i < n; i++ {
				jac.Set(i, c, (rp[i]-rm[i])/(2*step))
			}
		}

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var g mat.VecDense
		g.MulVec(jac.T(), mat.NewVecDense(n, r))
		g.ScaleVec(-1, &g)

		improved := false
		var delta mat.VecDense
		for lambda < 1e10 {
			var a mat.Dense
			a.CloneFrom(&jtj)
			for d := 0; d < 6; d++ {
				a.Set(d, d, a.At(d, d)*(1+lambda)+1e-12)
			}
			if err := delta.SolveVec(&a, &g); err != nil {
				lambda *= 10
				continue
			}

			cand := make([]float64, 6)
			for i := range cand {
				cand[i] = x[i] + delta.AtVec(i)
			}
			rc := residuals(cand)
			if c := sumSquares(rc); c < cost {
				x, r, cost = cand, rc, c
				lambda = math.Max(lambda/10, 1e-12)
				improved = true
				break
			}
			lambda *= 10
		}
		if !improved || mat.Norm(&delta, 2) < 1e-12 {
			break
		}
	}

	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Pose{}, ErrDegenerate
		}
	}
	return Pose{
		Rotation:    r3.Vector{X: x[0], Y: x[1], Z: x[2]},
		Translation: r3.Vector{X: x[3], Y: x[4], Z: x[5]},
	}, nil
}
