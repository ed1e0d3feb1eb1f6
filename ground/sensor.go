// Package ground classifies the avatar as grounded or airborne by probing
// along the current gravity direction.
package ground

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// Mode selects the probe shape.
type Mode int

const (
	ModeRay Mode = iota
	ModeSphere
)

func (m Mode) String() string {
	if m == ModeSphere {
		return "sphere"
	}
	return "ray"
}

// ParseMode parses "ray" or "sphere".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ray":
		return ModeRay, nil
	case "sphere":
		return ModeSphere, nil
	}
	return ModeRay, fmt.Errorf("unknown ground probe mode %q", s)
}

// Query is the spatial query service. Implementations must skip trigger
// volumes.
type Query interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.Layer) (geom.Hit, bool)
	OverlapSphere(center mgl64.Vec3, radius float64, mask components.Layer) bool
}

// Gravity supplies the current down direction.
type Gravity interface {
	CurrentDirection() mgl64.Vec3
}

// Anchor supplies the probe origin.
type Anchor interface {
	Position() mgl64.Vec3
}

// Params tunes the probe.
type Params struct {
	Mode        Mode
	Distance    float64 // probe length from the anchor
	ProbeRadius float64 // sphere mode only
	Mask        components.Layer
}

// DefaultParams returns a 1.1 ray against every layer.
func DefaultParams() Params {
	return Params{Mode: ModeRay, Distance: 1.1, ProbeRadius: 0.3, Mask: components.LayerAll}
}

// Probe is the last query issued.
type Probe struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Hit       bool
}

// Sensor holds the grounded state.
type Sensor struct {
	query   Query
	gravity Gravity
	anchor  Anchor
	params  Params

	grounded bool
	ignore   float64
	last     Probe
}

// NewSensor creates a sensor. Any nil dependency turns ticks into no-ops.
func NewSensor(q Query, g Gravity, a Anchor, p Params) *Sensor {
	return &Sensor{query: q, gravity: g, anchor: a, params: p}
}

// SetParams replaces the probe tuning.
func (s *Sensor) SetParams(p Params) { s.params = p }

// TickVariable runs one probe.
func (s *Sensor) TickVariable(st scheduler.Step) { s.Tick(st.DT) }

// Tick updates and returns the grounded state. During an ignore window it
// only counts the window down and reports false.
func (s *Sensor) Tick(dt float64) bool {
	if s.ignore > 0 {
		s.ignore -= dt
		if s.ignore < 0 {
			s.ignore = 0
		}
		s.grounded = false
		return false
	}
	if s.query == nil || s.gravity == nil || s.anchor == nil {
		return s.grounded
	}

	down := geom.SafeNormalize(s.gravity.CurrentDirection())
	if down.LenSqr() == 0 {
		return s.grounded
	}
	origin := s.anchor.Position()

	var hit bool
	switch s.params.Mode {
	case ModeSphere:
		r := s.params.ProbeRadius
		center := origin.Add(down.Mul(s.params.Distance - r))
		hit = s.query.OverlapSphere(center, r, s.params.Mask)
	default:
		_, hit = s.query.Raycast(origin, down, s.params.Distance, s.params.Mask)
	}

	s.grounded = hit
	s.last = Probe{Origin: origin, Direction: down, Hit: hit}
	return hit
}

// StartIgnore suppresses grounded reports for d seconds. An already running
// longer window is kept.
func (s *Sensor) StartIgnore(d float64) {
	if d > s.ignore {
		s.ignore = d
	}
	s.grounded = false
}

// MarkAirborne clears the grounded flag until the next probe.
func (s *Sensor) MarkAirborne() { s.grounded = false }

// IsGrounded reports the last classification. Always false while ignoring.
func (s *Sensor) IsGrounded() bool { return s.grounded && s.ignore <= 0 }

// Ignoring reports whether an ignore window is active.
func (s *Sensor) Ignoring() bool { return s.ignore > 0 }

// IgnoreRemaining returns the seconds left in the ignore window.
func (s *Sensor) IgnoreRemaining() float64 { return s.ignore }

// LastProbe returns the last issued probe.
func (s *Sensor) LastProbe() Probe { return s.last }

// Reset clears all state.
func (s *Sensor) Reset() {
	s.grounded = false
	s.ignore = 0
	s.last = Probe{}
}
