package tracking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	axisYaw   = mgl64.Vec3{0, 1, 0} // vertical axis
	axisPitch = mgl64.Vec3{0, 0, 1} // the eye looks down +X, so pitch turns about Z
)

// Orientation is the eye's rotation in radians.
type Orientation struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Rotation returns the quaternion for yaw about Y followed by pitch about Z.
func (o Orientation) Rotation() mgl64.Quat {
	return mgl64.QuatRotate(o.Yaw, axisYaw).Mul(mgl64.QuatRotate(o.Pitch, axisPitch))
}

// OrientationFrom decomposes a rotation built as Ry(yaw)·Rz(pitch) back into
// its angles. It is exact for |pitch| < π/2.
func OrientationFrom(q mgl64.Quat) Orientation {
	q = q.Normalize()
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	r10 := 2 * (x*y + w*z)
	r02 := 2 * (x*z + w*y)
	r22 := 1 - 2*(x*x+y*y)

	return Orientation{
		Yaw:   math.Atan2(r02, r22),
		Pitch: math.Asin(clamp(r10, -1, 1)),
	}
}

// Degrees returns yaw and pitch in degrees.
func (o Orientation) Degrees() (yaw, pitch float64) {
	return Degrees(o.Yaw), Degrees(o.Pitch)
}
