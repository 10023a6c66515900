// Package spatial provides the rigid-body math the teleop loop needs:
// 3x3 rotations, rigid transforms and ZYX Euler conversions.
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
)

// Rotation is a 3x3 rotation matrix in row-major order.
type Rotation [3][3]float64

// RotationIdentity returns the identity rotation.
func RotationIdentity() Rotation {
	return Rotation{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// RotX returns the rotation of angle radians about the X axis.
func RotX(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

// RotY returns the rotation of angle radians about the Y axis.
func RotY(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

// RotZ returns the rotation of angle radians about the Z axis.
func RotZ(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

// FromEulerZYX builds the rotation RotZ(yaw)·RotY(pitch)·RotX(roll).
func FromEulerZYX(roll, pitch, yaw float64) Rotation {
	return RotZ(yaw).Mul(RotY(pitch)).Mul(RotX(roll))
}

// Mul returns r·o.
func (r Rotation) Mul(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[i][0]*o[0][j] + r[i][1]*o[1][j] + r[i][2]*o[2][j]
		}
	}
	return out
}

// Transpose returns the transpose of r, which for a rotation is its inverse.
func (r Rotation) Transpose() Rotation {
	return Rotation{
		{r[0][0], r[1][0], r[2][0]},
		{r[0][1], r[1][1], r[2][1]},
		{r[0][2], r[1][2], r[2][2]},
	}
}

// Apply rotates v by r.
func (r Rotation) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

// EulerZYX decomposes r into roll, pitch, yaw such that
// r = RotZ(yaw)·RotY(pitch)·RotX(roll). Near pitch = ±π/2 the roll and
// yaw axes align; yaw is then reported as zero and roll carries the
// remaining rotation.
func (r Rotation) EulerZYX() (roll, pitch, yaw float64) {
	sy := math.Sqrt(r[0][0]*r[0][0] + r[1][0]*r[1][0])
	if sy < 1e-6 {
		roll = math.Atan2(-r[1][2], r[1][1])
		pitch = math.Atan2(-r[2][0], sy)
		yaw = 0
		return roll, pitch, yaw
	}
	roll = math.Atan2(r[2][1], r[2][2])
	pitch = math.Atan2(-r[2][0], sy)
	yaw = math.Atan2(r[1][0], r[0][0])
	return roll, pitch, yaw
}

// Yaw returns the yaw component of r's ZYX Euler decomposition.
func (r Rotation) Yaw() float64 {
	_, _, yaw := r.EulerZYX()
	return yaw
}

// ApproxEqual reports whether every entry of r and o is within tol.
func (r Rotation) ApproxEqual(o Rotation, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(r[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// Transform is a rigid transform: rotation R followed by translation P.
type Transform struct {
	R Rotation
	P r3.Vector
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{R: RotationIdentity()}
}

// Mul returns the composition t·o, applying o first.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		R: t.R.Mul(o.R),
		P: t.R.Apply(o.P).Add(t.P),
	}
}

// Inv returns the inverse transform.
func (t Transform) Inv() Transform {
	rt := t.R.Transpose()
	return Transform{
		R: rt,
		P: rt.Apply(t.P).Mul(-1),
	}
}

// Apply transforms the point v by t.
func (t Transform) Apply(v r3.Vector) r3.Vector {
	return t.R.Apply(v).Add(t.P)
}

// ApproxEqual reports whether t and o agree within tol in both rotation
// and translation.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	if !t.R.ApproxEqual(o.R, tol) {
		return false
	}
	d := t.P.Sub(o.P)
	return math.Abs(d.X) <= tol && math.Abs(d.Y) <= tol && math.Abs(d.Z) <= tol
}
