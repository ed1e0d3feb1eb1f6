package geom

import "github.com/go-gl/mathgl/mgl64"

// LookRotation builds the orientation whose local Forward maps to forward and
// whose local Up lies in the plane of forward and up. It reports false when
// forward is zero or parallel to up, in which case the identity is returned.
func LookRotation(forward, up mgl64.Vec3) (mgl64.Quat, bool) {
	f := SafeNormalize(forward)
	if f.LenSqr() == 0 {
		return mgl64.QuatIdent(), false
	}
	r := SafeNormalize(up.Cross(f))
	if r.LenSqr() == 0 {
		return mgl64.QuatIdent(), false
	}
	u := f.Cross(r)

	// Columns are the images of the local X, Y, Z axes.
	m := mgl64.Mat4{
		r[0], r[1], r[2], 0,
		u[0], u[1], u[2], 0,
		f[0], f[1], f[2], 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize(), true
}

// Slerp spherically interpolates along the shortest arc between a and b.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t <= 0 {
		return a.Normalize()
	}
	if t >= 1 {
		return b.Normalize()
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}

// YawPitch returns the rotation that turns by yaw degrees about the local Up
// axis and then pitches by pitch degrees about the local Right axis. Positive
// yaw turns toward +X, positive pitch tilts Forward downward.
func YawPitch(yawDeg, pitchDeg float64) mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(yawDeg), Up)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(pitchDeg), Right)
	return yaw.Mul(pitch)
}

// Axes returns the world-space forward, up and right vectors of q.
func Axes(q mgl64.Quat) (forward, up, right mgl64.Vec3) {
	return q.Rotate(Forward), q.Rotate(Up), q.Rotate(Right)
}
