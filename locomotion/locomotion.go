// Package locomotion moves the avatar along the floor plane of the current
// gravity, turns it about its up axis and applies jump impulses.
package locomotion

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/anim"
	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// Body is the part of the rigid body locomotion drives.
type Body interface {
	Orientation() mgl64.Quat
	SetOrientation(mgl64.Quat)
	Velocity() mgl64.Vec3
	SetVelocity(mgl64.Vec3)
	ApplyImpulse(mgl64.Vec3)
}

// Gravity is read for the floor plane and to yield orientation during a
// reorientation.
type Gravity interface {
	CurrentDirection() mgl64.Vec3
	Reorienting() bool
}

// Ground gates jumps.
type Ground interface {
	IsGrounded() bool
	MarkAirborne()
	StartIgnore(d float64)
}

// Params tunes movement.
type Params struct {
	MoveSpeed  float64 // planar speed at full input
	JumpForce  float64 // impulse along the jump axis
	SteerRate  float64 // planar smoothing rate, 1/s
	TurnRate   float64 // degrees per second
	JumpIgnore float64 // ground ignore window after a jump
	Deadzone   float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		MoveSpeed:  6,
		JumpForce:  8,
		SteerRate:  10,
		TurnRate:   120,
		JumpIgnore: 0.2,
		Deadzone:   0.1,
	}
}

// Locomotion writes planar velocity, facing and jump impulses.
type Locomotion struct {
	body    Body
	gravity Gravity
	ground  Ground
	anim    anim.Driver
	params  Params

	jumps int
}

// New creates a locomotion component. ground and driver may be nil; without
// a ground sensor jumps are refused.
func New(body Body, gravity Gravity, ground Ground, driver anim.Driver, p Params) *Locomotion {
	return &Locomotion{body: body, gravity: gravity, ground: ground, anim: driver, params: p}
}

// SetParams replaces the tuning.
func (l *Locomotion) SetParams(p Params) { l.params = p }

// Jumps returns how many jump impulses were applied.
func (l *Locomotion) Jumps() int { return l.jumps }

// down returns the unit gravity direction, defaulting to world down.
func (l *Locomotion) down() mgl64.Vec3 {
	if l.gravity == nil {
		return geom.Up.Mul(-1)
	}
	g := geom.SafeNormalize(l.gravity.CurrentDirection())
	if g.LenSqr() == 0 {
		return geom.Up.Mul(-1)
	}
	return g
}

// Speed returns the current planar speed.
func (l *Locomotion) Speed() float64 {
	if l.body == nil {
		return 0
	}
	return geom.ProjectOnPlane(l.body.Velocity(), l.down()).Len()
}

// TickVariable turns the avatar, handles the jump edge and writes animation
// signals.
func (l *Locomotion) TickVariable(s scheduler.Step) {
	if l.body == nil {
		return
	}
	if l.gravity == nil || !l.gravity.Reorienting() {
		l.turn(l.axis(s.Input.Turn), s.DT)
	}
	if s.Input.JumpPressed {
		l.Jump()
	}
	if l.anim != nil {
		l.anim.SetFloat(anim.ParamSpeed, l.Speed())
		l.anim.SetBool(anim.ParamGrounded, l.ground != nil && l.ground.IsGrounded())
	}
}

func (l *Locomotion) turn(amount, dt float64) {
	if amount == 0 || dt <= 0 {
		return
	}
	rot := l.body.Orientation()
	up := rot.Rotate(geom.Up)
	spin := mgl64.QuatRotate(mgl64.DegToRad(amount*l.params.TurnRate*dt), up)
	l.body.SetOrientation(spin.Mul(rot).Normalize())
}

// Jump applies a jump impulse when grounded and reports whether it did.
func (l *Locomotion) Jump() bool {
	if l.body == nil || l.ground == nil || !l.ground.IsGrounded() {
		return false
	}
	up := l.down().Mul(-1)

	v := l.body.Velocity()
	l.body.SetVelocity(v.Sub(geom.Project(v, up)))
	l.body.ApplyImpulse(up.Mul(l.params.JumpForce))

	l.ground.MarkAirborne()
	l.ground.StartIgnore(l.params.JumpIgnore)
	l.jumps++
	if l.anim != nil {
		l.anim.SetTrigger(anim.TriggerJump)
	}
	slog.Debug("jump", "up", up, "count", l.jumps)
	return true
}

// TickFixed steers planar velocity toward the input target.
func (l *Locomotion) TickFixed(s scheduler.Step) {
	if l.body == nil {
		return
	}
	l.Steer(l.axis(s.Input.MoveForward), l.axis(s.Input.Strafe), s.DT)
}

// Steer blends the planar velocity toward forward/strafe input for one step
// of dt. The component along gravity is left untouched.
func (l *Locomotion) Steer(forward, strafe, dt float64) {
	if l.body == nil || dt <= 0 {
		return
	}
	g := l.down()
	v := l.body.Velocity()
	along := geom.Project(v, g)
	planar := v.Sub(along)

	fwd, right := l.floorAxes(g)
	desired := fwd.Mul(forward).Add(right.Mul(strafe))
	if desired.LenSqr() > 1 {
		desired = desired.Normalize()
	}
	desired = desired.Mul(l.params.MoveSpeed)

	planar = geom.Lerp(planar, desired, geom.Clamp01(l.params.SteerRate*dt))
	planar = geom.ProjectOnPlane(planar, g)
	l.body.SetVelocity(along.Add(planar))
}

// floorAxes returns the avatar's forward and right flattened onto the plane
// orthogonal to g.
func (l *Locomotion) floorAxes(g mgl64.Vec3) (fwd, right mgl64.Vec3) {
	f, _, r := geom.Axes(l.body.Orientation())
	up := g.Mul(-1)
	fwd = geom.SafeNormalize(geom.ProjectOnPlane(f, g))
	right = geom.SafeNormalize(geom.ProjectOnPlane(r, g))
	switch {
	case fwd.LenSqr() == 0 && right.LenSqr() == 0:
	case fwd.LenSqr() == 0:
		fwd = right.Cross(up)
	case right.LenSqr() == 0:
		right = up.Cross(fwd)
	}
	return fwd, right
}

func (l *Locomotion) axis(v float64) float64 {
	if math.Abs(v) < l.params.Deadzone {
		return 0
	}
	return mgl64.Clamp(v, -1, 1)
}
