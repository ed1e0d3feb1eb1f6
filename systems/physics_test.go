package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
)

var grey = [4]uint8{128, 128, 128, 255}

// floorWorld returns a world with a 20x1x20 floor whose top face is y=0.
func floorWorld() *PhysicsWorld {
	p := NewPhysicsWorld(ecs.NewWorld(), mgl64.Vec3{0, -15, 0})
	p.AddStatic(geom.AABB{Center: mgl64.Vec3{0, -0.5, 0}, HalfExtents: mgl64.Vec3{10, 0.5, 10}}, components.LayerGround, grey)
	return p
}

func TestBodyRestsOnFloor(t *testing.T) {
	p := floorWorld()
	b := NewRigidBody(mgl64.Vec3{0, 3, 0}, 1, 1)
	p.AddBody(b)

	for i := 0; i < 200; i++ {
		p.Step(1.0 / 50)
	}

	if y := b.Position().Y(); math.Abs(y-1) > 0.05 {
		t.Errorf("body should rest at y=1, got %f", y)
	}
	if vy := b.Velocity().Y(); vy < -0.5 {
		t.Errorf("resting body should not keep falling, vy=%f", vy)
	}
	if len(b.Contacts()) == 0 {
		t.Error("resting body should report a contact")
	}
}

func TestPushOutKeepsTangentialVelocity(t *testing.T) {
	p := floorWorld()
	p.SetGravity(mgl64.Vec3{})
	b := NewRigidBody(mgl64.Vec3{0, 0.9, 0}, 1, 1)
	b.SetVelocity(mgl64.Vec3{3, -2, 0})
	p.AddBody(b)

	p.Step(0.01)

	v := b.Velocity()
	if v.Y() < -1e-9 {
		t.Errorf("velocity into the floor should be removed, vy=%f", v.Y())
	}
	if math.Abs(v.X()-3) > 1e-9 {
		t.Errorf("tangential velocity should be kept, vx=%f", v.X())
	}
}

func TestApplyImpulse(t *testing.T) {
	b := NewRigidBody(mgl64.Vec3{}, 1, 2)
	b.ApplyImpulse(mgl64.Vec3{0, 8, 0})
	if got := b.Velocity().Y(); got != 4 {
		t.Errorf("impulse 8 on mass 2 should give vy=4, got %f", got)
	}
}

func TestFreezeRotation(t *testing.T) {
	b := NewRigidBody(mgl64.Vec3{}, 1, 1)
	b.SetFreezeRotation(true)
	b.SetAngularVelocity(mgl64.Vec3{0, 5, 0})
	b.integrate(1, mgl64.Vec3{})
	if !b.Orientation().OrientationEqualThreshold(mgl64.QuatIdent(), 1e-9) {
		t.Error("frozen body should not rotate")
	}
}

func TestRaycast(t *testing.T) {
	p := floorWorld()
	p.AddStatic(geom.AABB{Center: mgl64.Vec3{0, 5, 0}, HalfExtents: mgl64.Vec3{1, 0.5, 1}}, components.LayerWall, grey)
	p.AddTrigger(geom.AABB{Center: mgl64.Vec3{0, 0.5, 0}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, components.LayerCollectible)

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		maxDist  float64
		mask     components.Layer
		wantHit  bool
		wantDist float64
	}{
		{"down hits floor through trigger", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}, 1.1, components.LayerAll, true, 1},
		{"too short", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}, 0.9, components.LayerAll, false, 0},
		{"up hits wall", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 10, components.LayerAll, true, 3.5},
		{"mask excludes wall", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 10, components.LayerGround, false, 0},
		{"unnormalized dir", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -4, 0}, 1.1, components.LayerAll, true, 1},
		{"zero dir", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 1.1, components.LayerAll, false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := p.Raycast(tc.origin, tc.dir, tc.maxDist, tc.mask)
			if ok != tc.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tc.wantHit)
			}
			if ok && math.Abs(hit.Distance-tc.wantDist) > 1e-9 {
				t.Errorf("distance = %f, want %f", hit.Distance, tc.wantDist)
			}
		})
	}
}

func TestOverlapSphereIgnoresTriggers(t *testing.T) {
	p := NewPhysicsWorld(ecs.NewWorld(), mgl64.Vec3{})
	p.AddTrigger(geom.AABB{HalfExtents: mgl64.Vec3{1, 1, 1}}, components.LayerGround)

	if p.OverlapSphere(mgl64.Vec3{}, 0.5, components.LayerAll) {
		t.Error("trigger volumes should not answer overlap queries")
	}

	p.AddStatic(geom.AABB{Center: mgl64.Vec3{0, -1, 0}, HalfExtents: mgl64.Vec3{1, 1, 1}}, components.LayerGround, grey)
	if !p.OverlapSphere(mgl64.Vec3{0, 0.4, 0}, 0.5, components.LayerGround) {
		t.Error("sphere touching the box should overlap")
	}
	if p.OverlapSphere(mgl64.Vec3{0, 0.4, 0}, 0.5, components.LayerWall) {
		t.Error("mask should exclude the ground box")
	}
}

func TestTriggersAndRemove(t *testing.T) {
	p := NewPhysicsWorld(ecs.NewWorld(), mgl64.Vec3{})
	near := p.AddTrigger(geom.AABB{Center: mgl64.Vec3{1, 0, 0}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, components.LayerCollectible)
	p.AddTrigger(geom.AABB{Center: mgl64.Vec3{10, 0, 0}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, components.LayerCollectible)
	b := NewRigidBody(mgl64.Vec3{}, 1, 1)

	got := p.Triggers(b)
	if len(got) != 1 || got[0] != near {
		t.Fatalf("expected only the near trigger, got %v", got)
	}

	p.Remove(near)
	p.Remove(near)
	if got := p.Triggers(b); len(got) != 0 {
		t.Errorf("removed trigger still reported: %v", got)
	}

	count := 0
	p.Colliders(func(_ ecs.Entity, c *components.Collider, app *components.Appearance) {
		count++
		if app != nil {
			t.Error("trigger should have no appearance")
		}
	})
	if count != 1 {
		t.Errorf("expected 1 collider left, got %d", count)
	}
}
