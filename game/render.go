package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
)

var (
	hologramColor = rl.NewColor(120, 220, 255, 90)
	probeHit      = rl.NewColor(80, 255, 120, 255)
	probeMiss     = rl.NewColor(255, 90, 80, 255)
	pickupColor   = rl.NewColor(255, 210, 60, 255)
)

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func color(c [4]uint8) rl.Color { return rl.NewColor(c[0], c[1], c[2], c[3]) }

// camera3D converts the chase rig into a raylib camera.
func (g *Game) camera3D() rl.Camera3D {
	eye, target, up := g.sim.Camera().View()
	return rl.Camera3D{
		Position:   vec3(eye),
		Target:     vec3(target),
		Up:         vec3(up),
		Fovy:       float32(g.sim.Camera().Params().FovY),
		Projection: rl.CameraPerspective,
	}
}

// drawWorld renders the level, the avatar and the gravity preview.
func (g *Game) drawWorld() {
	rl.BeginMode3D(g.camera3D())
	defer rl.EndMode3D()

	g.sim.Physics().Colliders(func(e ecs.Entity, c *components.Collider, app *components.Appearance) {
		if c.Trigger {
			return
		}
		size := c.Box.Size()
		col := rl.Gray
		if app != nil {
			col = color(app.Color)
		}
		rl.DrawCube(vec3(c.Box.Center), float32(size.X()), float32(size.Y()), float32(size.Z()), col)
		rl.DrawCubeWires(vec3(c.Box.Center), float32(size.X()), float32(size.Y()), float32(size.Z()), rl.DarkGray)
	})

	g.sim.Collectibles(func(box geom.AABB) {
		rl.DrawSphere(vec3(box.Center), float32(box.HalfExtents.X()), pickupColor)
	})

	g.drawAvatar()

	if h := g.sim.Director().Hologram(); h.Visible {
		fwd, up, _ := geom.Axes(h.Orientation)
		r := float32(g.sim.Body().Radius())
		rl.DrawSphereWires(vec3(h.Position), r, 8, 12, hologramColor)
		rl.DrawLine3D(vec3(h.Position), vec3(h.Position.Add(fwd)), hologramColor)
		rl.DrawLine3D(vec3(h.Position), vec3(h.Position.Add(up)), hologramColor)
	}

	if g.debug {
		p := g.sim.Sensor().LastProbe()
		c := probeMiss
		if p.Hit {
			c = probeHit
		}
		dist := g.sim.Config().Ground.Distance
		rl.DrawLine3D(vec3(p.Origin), vec3(p.Origin.Add(p.Direction.Mul(dist))), c)
	}
}

func (g *Game) drawAvatar() {
	body := g.sim.Body()
	pos := body.Position()
	fwd, up, _ := geom.Axes(body.Orientation())
	r := body.Radius()

	rl.DrawSphere(vec3(pos), float32(r), color(g.sim.Config().Avatar.Color))
	// Nose and head markers show facing and up.
	rl.DrawSphere(vec3(pos.Add(fwd.Mul(r))), float32(r*0.2), rl.White)
	rl.DrawLine3D(vec3(pos), vec3(pos.Add(up.Mul(r*1.5))), rl.White)
}
