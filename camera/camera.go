// Package camera provides a chase camera that trails the avatar, keeps its up
// vector aligned with the avatar's and adds mouse-driven yaw and pitch.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// Target is the transform the camera follows.
type Target interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
}

// Params tunes the rig.
type Params struct {
	Distance    float64 // trailing distance along the view axis
	Height      float64 // offset along the avatar's up
	SmoothSpeed float64 // interpolation rate, 1/s
	Sensitivity float64 // degrees per unit of mouse delta
	PitchMin    float64 // degrees
	PitchMax    float64 // degrees
	FovY        float64 // degrees, for the renderer

	MinDistance, MaxDistance float64
}

// DefaultParams returns the stock rig.
func DefaultParams() Params {
	return Params{
		Distance:    5,
		Height:      2,
		SmoothSpeed: 10,
		Sensitivity: 2,
		PitchMin:    -40,
		PitchMax:    85,
		FovY:        60,
		MinDistance: 2,
		MaxDistance: 12,
	}
}

// Chase is the camera rig state.
type Chase struct {
	target Target
	params Params

	yaw, pitch float64

	position mgl64.Vec3
	rotation mgl64.Quat
}

// NewChase creates a rig following target and snaps it onto its desired pose.
func NewChase(target Target, p Params) *Chase {
	c := &Chase{target: target, params: p, rotation: mgl64.QuatIdent()}
	c.Snap()
	return c
}

// SetParams replaces the tuning and re-clamps pitch.
func (c *Chase) SetParams(p Params) {
	c.params = p
	c.pitch = mgl64.Clamp(c.pitch, p.PitchMin, p.PitchMax)
}

// Params returns the current tuning.
func (c *Chase) Params() Params { return c.params }

// Yaw returns the accumulated yaw in degrees.
func (c *Chase) Yaw() float64 { return c.yaw }

// Pitch returns the clamped pitch in degrees.
func (c *Chase) Pitch() float64 { return c.pitch }

// Position returns the smoothed camera position.
func (c *Chase) Position() mgl64.Vec3 { return c.position }

// Rotation returns the smoothed camera rotation.
func (c *Chase) Rotation() mgl64.Quat { return c.rotation }

// Look accumulates a mouse delta into yaw and pitch.
func (c *Chase) Look(dx, dy float64) {
	c.yaw += dx * c.params.Sensitivity
	c.pitch = mgl64.Clamp(c.pitch-dy*c.params.Sensitivity, c.params.PitchMin, c.params.PitchMax)
}

// Zoom changes the trailing distance within its limits.
func (c *Chase) Zoom(delta float64) {
	d := c.params.Distance - delta
	if c.params.MaxDistance > c.params.MinDistance {
		d = mgl64.Clamp(d, c.params.MinDistance, c.params.MaxDistance)
	}
	c.params.Distance = d
}

// Desired returns the pose the camera is converging on.
func (c *Chase) Desired() (mgl64.Vec3, mgl64.Quat, bool) {
	if c.target == nil {
		return mgl64.Vec3{}, mgl64.QuatIdent(), false
	}
	fwd, up, _ := geom.Axes(c.target.Orientation())
	base, ok := geom.LookRotation(fwd, up)
	if !ok {
		base = c.target.Orientation()
	}
	rot := base.Mul(geom.YawPitch(c.yaw, c.pitch)).Normalize()
	pos := c.target.Position().
		Sub(rot.Rotate(geom.Forward).Mul(c.params.Distance)).
		Add(up.Mul(c.params.Height))
	return pos, rot, true
}

// Snap places the camera on its desired pose.
func (c *Chase) Snap() {
	if pos, rot, ok := c.Desired(); ok {
		c.position, c.rotation = pos, rot
	}
}

// TickLate follows the avatar after all motion for the frame.
func (c *Chase) TickLate(s scheduler.Step) {
	c.Update(s.DT, s.Input.MouseDX, s.Input.MouseDY)
}

// Update applies the mouse delta and moves the camera toward its desired
// pose by smoothSpeed*dt.
func (c *Chase) Update(dt, dx, dy float64) {
	if c.target == nil {
		return
	}
	c.Look(dx, dy)
	pos, rot, _ := c.Desired()
	k := geom.Clamp01(c.params.SmoothSpeed * dt)
	c.position = geom.Lerp(c.position, pos, k)
	c.rotation = geom.Slerp(c.rotation, rot, k)
}

// View returns the camera eye, a point it looks at and its up vector.
func (c *Chase) View() (eye, target, up mgl64.Vec3) {
	fwd, u, _ := geom.Axes(c.rotation)
	return c.position, c.position.Add(fwd), u
}
