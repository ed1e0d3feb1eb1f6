package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/config"
	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// collectibleColor is the render color of every pickup.
var collectibleColor = [4]uint8{255, 210, 60, 255}

// buildLevel creates the static platforms and the collectible triggers and
// returns the number of collectibles.
func (s *Sim) buildLevel(cfg *config.Config) int {
	for i, p := range cfg.Level.Platforms {
		box := geom.AABB{Center: p.Center, HalfExtents: p.Size.Mul(0.5)}
		s.physics.AddStatic(box, cfg.Derived.PlatformLayers[i], p.Color)
	}

	for i, c := range cfg.Level.Collectibles {
		half := c.Size / 2
		if half <= 0 {
			half = 0.3
		}
		col := components.Collider{
			Box:     geom.AABB{Center: c.Position, HalfExtents: mgl64.Vec3{half, half, half}},
			Layer:   components.LayerCollectible,
			Trigger: true,
		}
		app := components.Appearance{Color: collectibleColor}
		pick := components.Collectible{ID: i}
		s.pickupMapper.NewEntity(&col, &app, &pick)
	}
	return len(cfg.Level.Collectibles)
}

// pickups collects every collectible trigger the avatar overlaps.
type pickups struct{ s *Sim }

// TickFixed runs after the physics step so overlaps use resolved positions.
func (p pickups) TickFixed(scheduler.Step) {
	s := p.s
	var got []ecs.Entity
	for _, e := range s.physics.Triggers(s.body) {
		if s.collectMap.HasAll(e) {
			got = append(got, e)
		}
	}
	for _, e := range got {
		s.session.Collect()
		s.collector.RecordPickup()
		s.physics.Remove(e)
	}
}
