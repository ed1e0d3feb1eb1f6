// Package systems contains the physics backend: an ark world of static box
// colliders and a list of dynamic sphere bodies.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// resolvePasses bounds the push-out iterations per step. Corners between two
// boxes need a second pass to settle.
const resolvePasses = 3

// PhysicsWorld integrates bodies and answers spatial queries against the
// colliders stored in the ECS world.
type PhysicsWorld struct {
	world   *ecs.World
	gravity mgl64.Vec3

	solidMapper   *ecs.Map2[components.Collider, components.Appearance]
	triggerMapper *ecs.Map1[components.Collider]
	colliders     *ecs.Filter1[components.Collider]
	appearanceMap *ecs.Map1[components.Appearance]

	bodies []*RigidBody
}

// NewPhysicsWorld creates a physics world over w. gravity applies to bodies
// with UseGravity set.
func NewPhysicsWorld(w *ecs.World, gravity mgl64.Vec3) *PhysicsWorld {
	return &PhysicsWorld{
		world:         w,
		gravity:       gravity,
		solidMapper:   ecs.NewMap2[components.Collider, components.Appearance](w),
		triggerMapper: ecs.NewMap1[components.Collider](w),
		colliders:     ecs.NewFilter1[components.Collider](w),
		appearanceMap: ecs.NewMap1[components.Appearance](w),
	}
}

// World returns the underlying ECS world.
func (p *PhysicsWorld) World() *ecs.World { return p.world }

// Gravity returns the world gravity.
func (p *PhysicsWorld) Gravity() mgl64.Vec3 { return p.gravity }

// SetGravity replaces the world gravity.
func (p *PhysicsWorld) SetGravity(g mgl64.Vec3) { p.gravity = g }

// AddStatic creates a solid box collider.
func (p *PhysicsWorld) AddStatic(box geom.AABB, layer components.Layer, color [4]uint8) ecs.Entity {
	col := components.Collider{Box: box, Layer: layer}
	app := components.Appearance{Color: color}
	return p.solidMapper.NewEntity(&col, &app)
}

// AddTrigger creates a trigger volume. Triggers never block bodies.
func (p *PhysicsWorld) AddTrigger(box geom.AABB, layer components.Layer) ecs.Entity {
	col := components.Collider{Box: box, Layer: layer, Trigger: true}
	return p.triggerMapper.NewEntity(&col)
}

// AddBody registers a dynamic body.
func (p *PhysicsWorld) AddBody(b *RigidBody) {
	p.bodies = append(p.bodies, b)
}

// Bodies returns the registered bodies.
func (p *PhysicsWorld) Bodies() []*RigidBody { return p.bodies }

// Remove deletes a collider entity. Dead entities are ignored.
func (p *PhysicsWorld) Remove(e ecs.Entity) {
	if p.world.Alive(e) {
		p.world.RemoveEntity(e)
	}
}

// Colliders calls fn for every collider. app is nil for colliders without an
// Appearance. The world must not be modified from fn.
func (p *PhysicsWorld) Colliders(fn func(e ecs.Entity, c *components.Collider, app *components.Appearance)) {
	query := p.colliders.Query()
	for query.Next() {
		e := query.Entity()
		col := query.Get()
		var app *components.Appearance
		if p.appearanceMap.HasAll(e) {
			app = p.appearanceMap.Get(e)
		}
		fn(e, col, app)
	}
}

// TickFixed advances the simulation by one fixed step.
func (p *PhysicsWorld) TickFixed(s scheduler.Step) {
	p.Step(s.DT)
}

// Step integrates every body by dt and resolves penetration against solid
// colliders.
func (p *PhysicsWorld) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range p.bodies {
		b.integrate(dt, p.gravity)
		b.contacts = b.contacts[:0]
		for pass := 0; pass < resolvePasses; pass++ {
			if !p.resolve(b) {
				break
			}
		}
	}
}

// resolve pushes b out of every solid collider it overlaps and reports
// whether any push happened.
func (p *PhysicsWorld) resolve(b *RigidBody) bool {
	pushed := false
	query := p.colliders.Query()
	for query.Next() {
		col := query.Get()
		if col.Trigger {
			continue
		}
		n, depth, ok := spherePenetration(b.position, b.radius, col.Box)
		if !ok {
			continue
		}
		b.position = b.position.Add(n.Mul(depth))
		if vn := b.velocity.Dot(n); vn < 0 {
			b.velocity = b.velocity.Sub(n.Mul(vn))
		}
		b.contacts = append(b.contacts, Contact{Normal: n, Depth: depth})
		pushed = true
	}
	return pushed
}

// spherePenetration returns the push-out normal and depth for a sphere
// overlapping box.
func spherePenetration(center mgl64.Vec3, radius float64, box geom.AABB) (mgl64.Vec3, float64, bool) {
	closest := box.ClosestPoint(center)
	delta := center.Sub(closest)
	distSq := delta.LenSqr()
	if distSq >= radius*radius {
		return mgl64.Vec3{}, 0, false
	}
	if distSq > geom.Epsilon {
		dist := math.Sqrt(distSq)
		return delta.Mul(1 / dist), radius - dist, true
	}

	// Centre inside the box: leave through the nearest face.
	lo, hi := box.Min(), box.Max()
	best := math.Inf(1)
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		if d := center[i] - lo[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = -1
		}
		if d := hi[i] - center[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = 1
		}
	}
	return n, best + radius, true
}
