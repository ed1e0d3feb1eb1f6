// Package geom provides the vector, quaternion and shape helpers shared by the
// movement core. Everything is built on mgl64 and uses a +Y up, +Z forward,
// +X right local frame.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the squared-length threshold below which a vector is treated as zero.
const Epsilon = 1e-9

// Local frame axes.
var (
	Forward = mgl64.Vec3{0, 0, 1}
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
)

// Project returns the component of v along onto.
func Project(v, onto mgl64.Vec3) mgl64.Vec3 {
	l := onto.LenSqr()
	if l < Epsilon {
		return mgl64.Vec3{}
	}
	return onto.Mul(v.Dot(onto) / l)
}

// ProjectOnPlane removes the component of v along the plane normal.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(Project(v, normal))
}

// SafeNormalize returns v normalized, or the zero vector when v has no length.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.LenSqr()
	if l < Epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / math.Sqrt(l))
}

// Angle returns the unsigned angle between a and b in radians.
func Angle(a, b mgl64.Vec3) float64 {
	d := math.Sqrt(a.LenSqr() * b.LenSqr())
	if d < Epsilon {
		return 0
	}
	return math.Acos(mgl64.Clamp(a.Dot(b)/d, -1, 1))
}

// Lerp linearly interpolates from a to b. t is not clamped.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}

// RotateAround rotates point about pivot by angle radians around axis.
// A degenerate axis leaves the point unchanged.
func RotateAround(point, pivot, axis mgl64.Vec3, angle float64) mgl64.Vec3 {
	n := SafeNormalize(axis)
	if n.LenSqr() == 0 || angle == 0 {
		return point
	}
	q := mgl64.QuatRotate(angle, n)
	return pivot.Add(q.Rotate(point.Sub(pivot)))
}
