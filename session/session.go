// Package session tracks one play session: the countdown, collected pickups,
// the free-fall check and the final outcome.
package session

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// Outcome is the session result.
type Outcome int

const (
	Running Outcome = iota
	Won
	TimeUp
	Fell
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Won:
		return "won"
	case TimeUp:
		return "time_up"
	case Fell:
		return "fell"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Reason returns the player-facing message for o.
func (o Outcome) Reason() string {
	switch o {
	case Won:
		return "All Collectibles Collected!"
	case TimeUp:
		return "Time Up!"
	case Fell:
		return "You Fell!"
	}
	return ""
}

// Query casts the free-fall ray.
type Query interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.Layer) (geom.Hit, bool)
}

// Gravity supplies the current down direction.
type Gravity interface {
	CurrentDirection() mgl64.Vec3
}

// Anchor is the avatar position.
type Anchor interface {
	Position() mgl64.Vec3
}

// Params tunes the session rules.
type Params struct {
	TimeLimit         float64 // seconds
	FallCheckDelay    float64 // seconds without support before Fell
	FallCheckDistance float64
	Mask              components.Layer
}

// DefaultParams returns the stock rules.
func DefaultParams() Params {
	return Params{
		TimeLimit:         120,
		FallCheckDelay:    1.5,
		FallCheckDistance: 1.1,
		Mask:              components.LayerAll,
	}
}

// Session is the session state.
type Session struct {
	query   Query
	gravity Gravity
	anchor  Anchor
	params  Params

	remaining  float64
	collected  int
	total      int
	fallTimer  float64
	fallIgnore float64
	outcome    Outcome
}

// New starts a session with total collectibles to find.
func New(q Query, g Gravity, a Anchor, total int, p Params) *Session {
	return &Session{
		query:     q,
		gravity:   g,
		anchor:    a,
		params:    p,
		remaining: p.TimeLimit,
		total:     total,
	}
}

// SetParams replaces the rules. The countdown is not restarted.
func (s *Session) SetParams(p Params) {
	s.params = p
	if s.remaining > p.TimeLimit {
		s.remaining = p.TimeLimit
	}
}

// TickVariable advances the session by one frame.
func (s *Session) TickVariable(st scheduler.Step) { s.Update(st.DT) }

// Update counts down and runs the free-fall check. It does nothing once the
// session is over.
func (s *Session) Update(dt float64) {
	if s.outcome != Running || dt <= 0 {
		return
	}

	s.remaining = math.Max(0, s.remaining-dt)
	if s.remaining <= 0 {
		s.end(TimeUp)
		return
	}
	s.checkFall(dt)
}

func (s *Session) checkFall(dt float64) {
	if s.fallIgnore > 0 {
		s.fallIgnore -= dt
		return
	}
	if s.query == nil || s.gravity == nil || s.anchor == nil {
		return
	}

	down := geom.SafeNormalize(s.gravity.CurrentDirection())
	_, supported := s.query.Raycast(s.anchor.Position(), down, s.params.FallCheckDistance, s.params.Mask)
	if supported {
		s.fallTimer = 0
		return
	}
	s.fallTimer += dt
	if s.fallTimer >= s.params.FallCheckDelay {
		s.end(Fell)
	}
}

// Collect counts one pickup. Collecting the last one wins.
func (s *Session) Collect() {
	if s.outcome != Running {
		return
	}
	s.collected++
	slog.Debug("collectible picked up", "collected", s.collected, "total", s.total)
	if s.collected >= s.total {
		s.end(Won)
	}
}

// StartIgnore suspends the free-fall check for d seconds.
func (s *Session) StartIgnore(d float64) {
	s.fallIgnore = d
	s.fallTimer = 0
}

func (s *Session) end(o Outcome) {
	s.outcome = o
	slog.Info("session over",
		"outcome", o.String(),
		"reason", o.Reason(),
		"remaining", s.remaining,
		"collected", s.collected,
		"total", s.total,
	)
}

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome { return s.outcome }

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.outcome != Running }

// Remaining returns the seconds left on the clock.
func (s *Session) Remaining() float64 { return s.remaining }

// Collected returns the number of pickups collected.
func (s *Session) Collected() int { return s.collected }

// Total returns the number of pickups in the level.
func (s *Session) Total() int { return s.total }

// FallTimer returns the seconds spent without support.
func (s *Session) FallTimer() float64 { return s.fallTimer }

// Clock formats the remaining time as mm:ss.
func (s *Session) Clock() string {
	t := math.Max(0, s.remaining)
	return fmt.Sprintf("%02d:%02d", int(t/60), int(math.Mod(t, 60)))
}
