package camera

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// undistortIterations bounds the fixed-point inversion of the distortion
// model in Undistort.
const undistortIterations = 20

// Model is a pinhole camera with lens distortion.
//
// Matrix holds the intrinsics row major:
//
//	fx  s   cx
//	0   fy  cy
//	0   0   1
//
// Distortion holds k1, k2, p1, p2 and optionally k3 and the rational terms
// k4, k5, k6, in the order calibration tools emit them. A Model is read-only
// once built and may be shared between goroutines.
type Model struct {
	Matrix     [9]float64 `json:"camera_matrix"`
	Distortion []float64  `json:"distortion"`
}

// NewModel validates and returns a camera model.
func NewModel(matrix [9]float64, distortion []float64) (*Model, error) {
	m := &Model{Matrix: matrix, Distortion: append([]float64(nil), distortion...)}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate reports every problem with the model at once.
func (m *Model) Validate() error {
	var err error
	if m.Matrix[0] <= 0 {
		err = multierr.Append(err, fmt.Errorf("focal length fx must be positive, got %g", m.Matrix[0]))
	}
	if m.Matrix[4] <= 0 {
		err = multierr.Append(err, fmt.Errorf("focal length fy must be positive, got %g", m.Matrix[4]))
	}
	if m.Matrix[3] != 0 || m.Matrix[6] != 0 || m.Matrix[7] != 0 || m.Matrix[8] != 1 {
		err = multierr.Append(err, errors.New("camera matrix must be upper triangular with a unit last row"))
	}
	switch len(m.Distortion) {
	case 4, 5, 8:
	default:
		err = multierr.Append(err, fmt.Errorf("distortion must have 4, 5 or 8 coefficients, got %d", len(m.Distortion)))
	}
	return err
}

// Focal returns fx and fy.
func (m *Model) Focal() (fx, fy float64) {
	return m.Matrix[0], m.Matrix[4]
}

// Principal returns the principal point.
func (m *Model) Principal() geometry.Point {
	return geometry.Pt(m.Matrix[2], m.Matrix[5])
}

// coefficients returns the distortion padded to k1 k2 p1 p2 k3 k4 k5 k6.
func (m *Model) coefficients() [8]float64 {
	var k [8]float64
	copy(k[:], m.Distortion)
	return k
}

// Project maps a point in camera coordinates to pixel coordinates, applying
// radial, tangential and rational distortion.
func (m *Model) Project(p r3.Vector) geometry.Point {
	z := p.Z
	if z == 0 {
		z = 1
	}
	x, y := p.X/z, p.Y/z
	k := m.coefficients()

	r2 := x*x + y*y
	r4 := r2 * r2
	r6 := r4 * r2
	radial := (1 + k[0]*r2 + k[1]*r4 + k[4]*r6) / (1 + k[5]*r2 + k[6]*r4 + k[7]*r6)
	xd := x*radial + 2*k[2]*x*y + k[3]*(r2+2*x*x)
	yd := y*radial + k[2]*(r2+2*y*y) + 2*k[3]*x*y

	return geometry.Point{
		X: m.Matrix[0]*xd + m.Matrix[1]*yd + m.Matrix[2],
		Y: m.Matrix[4]*yd + m.Matrix[5],
	}
}

// Undistort maps a pixel to normalized, distortion-free image coordinates
// (the point on the z=1 plane that Project would send there).
//
// The distortion model has no closed-form inverse, so it is inverted by
// fixed-point iteration. This converges for the moderate distortion of
// ordinary lenses.
func (m *Model) Undistort(p geometry.Point) geometry.Point {
	fx, fy := m.Focal()
	y := (p.Y - m.Matrix[5]) / fy
	x := (p.X - m.Matrix[2] - m.Matrix[1]*y) / fx
	x0, y0 := x, y
	k := m.coefficients()

	for i := 0; i < undistortIterations; i++ {
		r2 := x*x + y*y
		icdist := (1 + ((k[7]*r2+k[6])*r2+k[5])*r2) / (1 + ((k[4]*r2+k[1])*r2+k[0])*r2)
		dx := 2*k[2]*x*y + k[3]*(r2+2*x*x)
		dy := k[2]*(r2+2*y*y) + 2*k[3]*x*y
		x = (x0 - dx) * icdist
		y = (y0 - dy) * icdist
	}
	return geometry.Point{X: x, Y: y}
}
