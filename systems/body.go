package systems

import (
	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody is a dynamic sphere body. Collision response is a push-out
// against static colliders; everything else is driven through forces,
// impulses and direct velocity writes.
type RigidBody struct {
	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3 // radians per second, world space
	force           mgl64.Vec3

	mass   float64
	radius float64

	useGravity     bool
	freezeRotation bool

	contacts []Contact
}

// Contact is a resolved collision from the last physics step.
type Contact struct {
	Normal mgl64.Vec3 // points from the collider toward the body
	Depth  float64
}

// NewRigidBody creates a body at position with identity orientation.
// Non-positive mass is treated as 1.
func NewRigidBody(position mgl64.Vec3, radius, mass float64) *RigidBody {
	if mass <= 0 {
		mass = 1
	}
	return &RigidBody{
		position:    position,
		orientation: mgl64.QuatIdent(),
		mass:        mass,
		radius:      radius,
		useGravity:  true,
	}
}

func (b *RigidBody) Position() mgl64.Vec3          { return b.position }
func (b *RigidBody) SetPosition(p mgl64.Vec3)      { b.position = p }
func (b *RigidBody) Orientation() mgl64.Quat       { return b.orientation }
func (b *RigidBody) Velocity() mgl64.Vec3          { return b.velocity }
func (b *RigidBody) SetVelocity(v mgl64.Vec3)      { b.velocity = v }
func (b *RigidBody) AngularVelocity() mgl64.Vec3   { return b.angularVelocity }
func (b *RigidBody) Mass() float64                 { return b.mass }
func (b *RigidBody) Radius() float64               { return b.radius }
func (b *RigidBody) UseGravity() bool              { return b.useGravity }
func (b *RigidBody) SetUseGravity(on bool)         { b.useGravity = on }
func (b *RigidBody) FreezeRotation() bool          { return b.freezeRotation }
func (b *RigidBody) Contacts() []Contact           { return b.contacts }
func (b *RigidBody) SetOrientation(q mgl64.Quat)   { b.orientation = q.Normalize() }
func (b *RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	if b.freezeRotation {
		return
	}
	b.angularVelocity = w
}

// SetFreezeRotation stops the solver from rotating the body. Orientation is
// then written only by its drivers.
func (b *RigidBody) SetFreezeRotation(on bool) {
	b.freezeRotation = on
	if on {
		b.angularVelocity = mgl64.Vec3{}
	}
}

// ApplyForce accumulates a force for the next step.
func (b *RigidBody) ApplyForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// ApplyImpulse changes velocity instantly by impulse/mass.
func (b *RigidBody) ApplyImpulse(j mgl64.Vec3) {
	b.velocity = b.velocity.Add(j.Mul(1 / b.mass))
}

// integrate advances velocity and position by dt.
func (b *RigidBody) integrate(dt float64, gravity mgl64.Vec3) {
	if b.useGravity {
		b.velocity = b.velocity.Add(gravity.Mul(dt))
	}
	b.velocity = b.velocity.Add(b.force.Mul(dt / b.mass))
	b.force = mgl64.Vec3{}
	b.position = b.position.Add(b.velocity.Mul(dt))

	if !b.freezeRotation {
		if w := b.angularVelocity; w.LenSqr() > 0 {
			spin := mgl64.QuatRotate(w.Len()*dt, w.Normalize())
			b.orientation = spin.Mul(b.orientation).Normalize()
		}
	}
}
