// Package scheduler drives components through the three per-frame phases:
// variable (once per rendered frame), fixed (zero or more constant steps)
// and late (after all motion for the frame).
package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/pthm-cable/gravwalk/input"
	"github.com/pthm-cable/gravwalk/telemetry"
)

// ErrNotTicker is returned when a registered value implements no tick phase.
var ErrNotTicker = errors.New("value implements no tick phase")

// accumulatorSlack absorbs float drift so that N frames of exactly fixedDT
// produce N fixed steps.
const accumulatorSlack = 1e-9

// Step is the context handed to every tick.
type Step struct {
	DT    float64 // scaled seconds for this tick
	Time  float64 // scaled seconds since start; fixed ticks see fixed time
	Frame uint64  // rendered frame counter
	Tick  uint64  // fixed step counter
	Input input.Snapshot
}

// VariableTicker runs once per rendered frame.
type VariableTicker interface {
	TickVariable(s Step)
}

// FixedTicker runs once per fixed step.
type FixedTicker interface {
	TickFixed(s Step)
}

// LateTicker runs once per frame after all motion.
type LateTicker interface {
	TickLate(s Step)
}

type entry struct {
	name     string
	priority int
	variable VariableTicker
	fixed    FixedTicker
	late     LateTicker
}

// Scheduler owns tick ordering and the fixed-step accumulator.
type Scheduler struct {
	fixedDT     float64
	maxSubsteps int
	timeScale   float64

	entries []entry

	accumulator float64
	time        float64
	fixedTime   float64
	frame       uint64
	tick        uint64
	dropped     int

	perf *telemetry.PerfCollector
}

// New creates a scheduler. fixedDT must be positive; maxSubsteps below 1 is
// treated as 1.
func New(fixedDT float64, maxSubsteps int) *Scheduler {
	if maxSubsteps < 1 {
		maxSubsteps = 1
	}
	return &Scheduler{fixedDT: fixedDT, maxSubsteps: maxSubsteps, timeScale: 1}
}

// Register adds t under name. Lower priorities run first and registration
// order breaks ties. t may implement any combination of the tick interfaces.
func (s *Scheduler) Register(name string, priority int, t any) error {
	e := entry{name: name, priority: priority}
	e.variable, _ = t.(VariableTicker)
	e.fixed, _ = t.(FixedTicker)
	e.late, _ = t.(LateTicker)
	if e.variable == nil && e.fixed == nil && e.late == nil {
		return fmt.Errorf("register %q: %w", name, ErrNotTicker)
	}
	s.entries = append(s.entries, e)
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].priority < s.entries[j].priority
	})
	return nil
}

// Names returns registered names in run order.
func (s *Scheduler) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// SetPerf attaches a collector that times each component per frame.
func (s *Scheduler) SetPerf(p *telemetry.PerfCollector) { s.perf = p }

// SetTimeScale scales every frame's dt. Zero freezes fixed steps while
// variable and late ticks keep running with dt 0.
func (s *Scheduler) SetTimeScale(scale float64) { s.timeScale = math.Max(scale, 0) }

// TimeScale returns the current time scale.
func (s *Scheduler) TimeScale() float64 { return s.timeScale }

// FixedDT returns the fixed step length.
func (s *Scheduler) FixedDT() float64 { return s.fixedDT }

// Time returns scaled seconds since start.
func (s *Scheduler) Time() float64 { return s.time }

// Frames returns the number of frames run.
func (s *Scheduler) Frames() uint64 { return s.frame }

// Ticks returns the number of fixed steps run.
func (s *Scheduler) Ticks() uint64 { return s.tick }

// Dropped returns how many fixed steps were discarded by the substep cap.
func (s *Scheduler) Dropped() int { return s.dropped }

// Reset clears clocks and the accumulator. Registrations are kept.
func (s *Scheduler) Reset() {
	s.accumulator = 0
	s.time = 0
	s.fixedTime = 0
	s.frame = 0
	s.tick = 0
	s.dropped = 0
	s.timeScale = 1
}

// Frame runs one rendered frame of real duration dt and returns the number
// of fixed steps taken.
func (s *Scheduler) Frame(dt float64, in input.Snapshot) int {
	if dt < 0 {
		dt = 0
	}
	scaled := dt * s.timeScale
	s.frame++
	s.time += scaled

	if s.perf != nil {
		s.perf.StartFrame()
		defer s.perf.EndFrame()
	}

	step := Step{DT: scaled, Time: s.time, Frame: s.frame, Tick: s.tick, Input: in}
	for _, e := range s.entries {
		if e.variable != nil {
			s.phase(e.name)
			e.variable.TickVariable(step)
		}
	}

	steps := 0
	if s.fixedDT > 0 {
		s.accumulator += scaled
		for s.accumulator+accumulatorSlack >= s.fixedDT && steps < s.maxSubsteps {
			s.accumulator -= s.fixedDT
			s.tick++
			s.fixedTime += s.fixedDT
			fixed := Step{DT: s.fixedDT, Time: s.fixedTime, Frame: s.frame, Tick: s.tick, Input: in}
			for _, e := range s.entries {
				if e.fixed != nil {
					s.phase(e.name)
					e.fixed.TickFixed(fixed)
				}
			}
			steps++
		}
		if s.accumulator+accumulatorSlack >= s.fixedDT {
			n := int((s.accumulator + accumulatorSlack) / s.fixedDT)
			s.accumulator -= float64(n) * s.fixedDT
			s.dropped += n
			slog.Debug("fixed steps dropped", "count", n, "frame", s.frame)
		}
		if s.accumulator < 0 {
			s.accumulator = 0
		}
	}

	step.Tick = s.tick
	for _, e := range s.entries {
		if e.late != nil {
			s.phase(e.name)
			e.late.TickLate(step)
		}
	}
	return steps
}

func (s *Scheduler) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}
