package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
)

// Raycast returns the nearest solid collider hit within maxDist whose layer is
// in mask. Trigger volumes are never reported.
func (p *PhysicsWorld) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.Layer) (geom.Hit, bool) {
	dir = geom.SafeNormalize(dir)
	if dir.LenSqr() == 0 || maxDist <= 0 {
		return geom.Hit{}, false
	}

	var best geom.Hit
	found := false
	query := p.colliders.Query()
	for query.Next() {
		col := query.Get()
		if col.Trigger || !mask.Has(col.Layer) {
			continue
		}
		hit, ok := geom.RaycastAABB(origin, dir, maxDist, col.Box)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// OverlapSphere reports whether a sphere touches any solid collider in mask.
func (p *PhysicsWorld) OverlapSphere(center mgl64.Vec3, radius float64, mask components.Layer) bool {
	hit := false
	query := p.colliders.Query()
	for query.Next() {
		col := query.Get()
		if hit || col.Trigger || !mask.Has(col.Layer) {
			continue
		}
		hit = col.Box.IntersectsSphere(center, radius)
	}
	return hit
}

// Triggers returns the trigger volumes currently overlapping b.
func (p *PhysicsWorld) Triggers(b *RigidBody) []ecs.Entity {
	var out []ecs.Entity
	query := p.colliders.Query()
	for query.Next() {
		col := query.Get()
		if !col.Trigger {
			continue
		}
		if col.Box.IntersectsSphere(b.position, b.radius) {
			out = append(out, query.Entity())
		}
	}
	return out
}
