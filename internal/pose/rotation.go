package pose

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Rotation is a 3×3 rotation matrix stored row major.
type Rotation [9]float64

// Apply rotates v.
func (r Rotation) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: r[0]*v.X + r[1]*v.Y + r[2]*v.Z,
		Y: r[3]*v.X + r[4]*v.Y + r[5]*v.Z,
		Z: r[6]*v.X + r[7]*v.Y + r[8]*v.Z,
	}
}

// Rodrigues converts an axis-angle rotation vector, whose length is the
// angle in radians, into a rotation matrix.
func Rodrigues(v r3.Vector) Rotation {
	theta := v.Norm()
	if theta < 1e-12 {
		return Rotation{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
	k := v.Mul(1 / theta)
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c

	return Rotation{
		c + k.X*k.X*t, k.X*k.Y*t - k.Z*s, k.X*k.Z*t + k.Y*s,
		k.Y*k.X*t + k.Z*s, c + k.Y*k.Y*t, k.Y*k.Z*t - k.X*s,
		k.Z*k.X*t - k.Y*s, k.Z*k.Y*t + k.X*s, c + k.Z*k.Z*t,
	}
}

// Vector converts r back to its axis-angle form, the inverse of Rodrigues.
func (r Rotation) Vector() r3.Vector {
	cosTheta := (r[0] + r[4] + r[8] - 1) / 2
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	theta := math.Acos(cosTheta)

	axis := r3.Vector{X: r[7] - r[5], Y: r[2] - r[6], Z: r[3] - r[1]}

	switch {
	case theta < 1e-9:
		return axis.Mul(0.5)
	case math.Pi-theta < 1e-6:
		// sin(theta) vanishes; recover the axis from the symmetric part.
		var k r3.Vector
		switch {
		case r[0] >= r[4] && r[0] >= r[8]:
			k.X = math.Sqrt(math.Max(0, (r[0]+1)/2))
			k.Y = r[1] / (2 * k.X)
			k.Z = r[2] / (2 * k.X)
		case r[4] >= r[8]:
			k.Y = math.Sqrt(math.Max(0, (r[4]+1)/2))
			k.X = r[1] / (2 * k.Y)
			k.Z = r[5] / (2 * k.Y)
		default:
			k.Z = math.Sqrt(math.Max(0, (r[8]+1)/2))
			k.X = r[2] / (2 * k.Z)
			k.Y = r[5] / (2 * k.Z)
		}
		return k.Normalize().Mul(theta)
	default:
		return axis.Mul(theta / (2 * math.Sin(theta)))
	}
}

// orthonormalize returns the rotation closest to the columns c0 c1 c2 in
// the Frobenius sense (R = U·Vᵀ from the SVD).
func orthonormalize(c0, c1, c2 r3.Vector) (Rotation, bool) {
	m := mat.NewDense(3, 3, []float64{
		c0.X, c1.X, c2.X,
		c0.Y, c1.Y, c2.Y,
		c0.Z, c1.Z, c2.Z,
	})

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDFull) {
		return Rotation{}, false
	}
	var u, v, rm mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	rm.Mul(&u, v.T())

	if mat.Det(&rm) < 0 {
		// Reflection; flip the axis of the smallest singular value.
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
		rm.Mul(&u, v.T())
	}

	var r Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = rm.At(i, j)
		}
	}
	return r, true
}
