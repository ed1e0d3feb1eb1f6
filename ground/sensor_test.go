package ground

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
)

// floorQuery answers hits against an infinite floor at y=0 and records calls.
type floorQuery struct {
	rays, spheres int
	lastMask      components.Layer
}

func (q *floorQuery) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.Layer) (geom.Hit, bool) {
	q.rays++
	q.lastMask = mask
	if dir.Y() >= 0 {
		return geom.Hit{}, false
	}
	d := origin.Y() / -dir.Y()
	if d > maxDist {
		return geom.Hit{}, false
	}
	return geom.Hit{Distance: d, Normal: geom.Up}, true
}

func (q *floorQuery) OverlapSphere(center mgl64.Vec3, radius float64, mask components.Layer) bool {
	q.spheres++
	q.lastMask = mask
	return center.Y() <= radius
}

type fixedGravity mgl64.Vec3

func (g fixedGravity) CurrentDirection() mgl64.Vec3 { return mgl64.Vec3(g) }

type point mgl64.Vec3

func (p point) Position() mgl64.Vec3 { return mgl64.Vec3(p) }

var down = fixedGravity{0, -1, 0}

func TestSensorModes(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		height float64
		want   bool
	}{
		{"ray resting", ModeRay, 1.0, true},
		{"ray edge", ModeRay, 1.1, true},
		{"ray airborne", ModeRay, 1.5, false},
		{"sphere resting", ModeSphere, 1.0, true},
		{"sphere airborne", ModeSphere, 1.5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &floorQuery{}
			p := DefaultParams()
			p.Mode = tc.mode
			s := NewSensor(q, down, point{0, tc.height, 0}, p)

			if got := s.Tick(1.0 / 60); got != tc.want {
				t.Errorf("Tick = %v, want %v", got, tc.want)
			}
			if s.IsGrounded() != tc.want {
				t.Errorf("IsGrounded = %v, want %v", s.IsGrounded(), tc.want)
			}
			if tc.mode == ModeSphere && q.spheres != 1 || tc.mode == ModeRay && q.rays != 1 {
				t.Errorf("wrong query used: rays=%d spheres=%d", q.rays, q.spheres)
			}
		})
	}
}

func TestIgnoreWindowSuppressesGrounded(t *testing.T) {
	q := &floorQuery{}
	s := NewSensor(q, down, point{0, 1, 0}, DefaultParams())
	s.Tick(0.01)
	if !s.IsGrounded() {
		t.Fatal("expected grounded before the window")
	}

	s.StartIgnore(0.2)
	for i := 0; i < 19; i++ {
		if s.Tick(0.01) || s.IsGrounded() {
			t.Fatalf("tick %d: grounded during ignore window", i)
		}
	}
	if q.rays != 1 {
		t.Errorf("no probes should run during the window, got %d", q.rays-1)
	}

	// The window has a little time left; one more tick drains it.
	s.Tick(0.02)
	if !s.Tick(0.01) {
		t.Error("expected grounded once the window closed")
	}
}

func TestStartIgnoreLongerWins(t *testing.T) {
	s := NewSensor(&floorQuery{}, down, point{0, 1, 0}, DefaultParams())
	s.StartIgnore(0.4)
	s.StartIgnore(0.2)
	if got := s.IgnoreRemaining(); got != 0.4 {
		t.Errorf("remaining = %f, want 0.4", got)
	}
	s.Tick(0.3)
	s.StartIgnore(0.2)
	if got := s.IgnoreRemaining(); got != 0.2 {
		t.Errorf("remaining = %f, want 0.2 after the longer request", got)
	}
}

func TestProbeFollowsGravity(t *testing.T) {
	q := &floorQuery{}
	s := NewSensor(q, fixedGravity{1, 0, 0}, point{0, 1, 0}, DefaultParams())
	s.Tick(0.01)
	if p := s.LastProbe(); p.Direction != (mgl64.Vec3{1, 0, 0}) || p.Hit {
		t.Errorf("probe = %+v, want along +X without a hit", p)
	}
}

func TestMaskPassedThrough(t *testing.T) {
	q := &floorQuery{}
	p := DefaultParams()
	p.Mask = components.LayerGround
	s := NewSensor(q, down, point{0, 1, 0}, p)
	s.Tick(0.01)
	if q.lastMask != components.LayerGround {
		t.Errorf("mask = %b, want ground", q.lastMask)
	}
}

func TestMarkAirborne(t *testing.T) {
	s := NewSensor(&floorQuery{}, down, point{0, 1, 0}, DefaultParams())
	s.Tick(0.01)
	s.MarkAirborne()
	if s.IsGrounded() {
		t.Error("MarkAirborne should clear grounded")
	}
}

func TestMissingDependencies(t *testing.T) {
	s := NewSensor(nil, down, point{0, 1, 0}, DefaultParams())
	if s.Tick(0.01) {
		t.Error("sensor without a query should report false")
	}
	s = NewSensor(&floorQuery{}, nil, nil, DefaultParams())
	if s.Tick(0.01) {
		t.Error("sensor without gravity should report false")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRay, "ray": ModeRay, "Sphere": ModeSphere} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("cone"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
