// Package sim assembles the movement core into a runnable, renderer-free
// game: physics world, gravity director, ground sensor, locomotion, chase
// camera, session rules and telemetry, all driven by one scheduler.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravwalk/anim"
	"github.com/pthm-cable/gravwalk/camera"
	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/config"
	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/gravity"
	"github.com/pthm-cable/gravwalk/ground"
	"github.com/pthm-cable/gravwalk/input"
	"github.com/pthm-cable/gravwalk/locomotion"
	"github.com/pthm-cable/gravwalk/scheduler"
	"github.com/pthm-cable/gravwalk/session"
	"github.com/pthm-cable/gravwalk/systems"
	"github.com/pthm-cable/gravwalk/telemetry"
)

// Scheduler priorities. One entry may tick in several phases.
const (
	prioGravity = iota * 10
	prioGround
	prioLocomotion
	prioSession
	prioPhysics
	prioPickups
	prioTelemetry
	prioCamera
)

// Options configures a Sim.
type Options struct {
	Output   *telemetry.OutputManager // nil disables CSV output
	LogStats bool                     // log window stats via slog
}

// Sim holds the complete game state.
type Sim struct {
	cfg  *config.Config
	src  input.Source
	opts Options

	world   *ecs.World
	physics *systems.PhysicsWorld
	body    *systems.RigidBody

	director *gravity.Director
	sensor   *ground.Sensor
	loco     *locomotion.Locomotion
	camera   *camera.Chase
	session  *session.Session
	anim     *anim.Recorder

	sched     *scheduler.Scheduler
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector

	pickupMapper *ecs.Map3[components.Collider, components.Appearance, components.Collectible]
	collectMap   *ecs.Map1[components.Collectible]

	last input.Snapshot
}

// ignoreFanout forwards the director's ignore window to several listeners.
type ignoreFanout []gravity.IgnoreWindow

func (f *ignoreFanout) StartIgnore(d float64) {
	for _, l := range *f {
		l.StartIgnore(d)
	}
}

// New creates a simulation from cfg reading input from src. A nil src
// produces no input.
func New(cfg *config.Config, src input.Source, opts Options) (*Sim, error) {
	if cfg == nil {
		return nil, errors.New("sim: nil config")
	}
	if src == nil {
		src = input.None
	}
	s := &Sim{
		cfg:       cfg,
		src:       src,
		opts:      opts,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector: telemetry.NewCollector(cfg.Derived.StatsWindowTicks, cfg.Physics.FixedDT),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// build creates the world and every component from s.cfg.
func (s *Sim) build() error {
	cfg := s.cfg

	s.world = ecs.NewWorld()
	s.physics = systems.NewPhysicsWorld(s.world, cfg.Physics.WorldGravity)
	s.pickupMapper = ecs.NewMap3[components.Collider, components.Appearance, components.Collectible](s.world)
	s.collectMap = ecs.NewMap1[components.Collectible](s.world)

	s.body = systems.NewRigidBody(cfg.Avatar.Spawn, cfg.Avatar.Radius, cfg.Avatar.Mass)
	s.body.SetUseGravity(false)
	s.body.SetFreezeRotation(true)
	s.physics.AddBody(s.body)

	total := s.buildLevel(cfg)

	listeners := &ignoreFanout{}
	pivot := gravity.OffsetPivot{Body: s.body, Offset: cfg.Avatar.HeadPivot}
	s.director = gravity.NewDirector(s.body, pivot, gravityParams(cfg), listeners)
	s.director.SetCurrent(cfg.Derived.InitialAxis)
	s.orientToGravity()

	s.sensor = ground.NewSensor(s.physics, s.director, s.body, groundParams(cfg))
	s.session = session.New(s.physics, s.director, s.body, total, sessionParams(cfg))
	*listeners = append(*listeners, s.sensor, s.session)

	s.anim = anim.NewRecorder()
	s.loco = locomotion.New(s.body, s.director, s.sensor, s.anim, locomotionParams(cfg))
	s.camera = camera.NewChase(s.body, cameraParams(cfg))

	s.sched = scheduler.New(cfg.Physics.FixedDT, cfg.Physics.MaxSubsteps)
	s.sched.SetPerf(s.perf)
	for _, r := range []struct {
		name string
		prio int
		t    any
	}{
		{telemetry.PhaseGravity, prioGravity, s.director},
		{telemetry.PhaseGround, prioGround, s.sensor},
		{telemetry.PhaseLocomotion, prioLocomotion, s.loco},
		{telemetry.PhaseSession, prioSession, s.session},
		{telemetry.PhasePhysics, prioPhysics, s.physics},
		{telemetry.PhasePickups, prioPickups, pickups{s}},
		{telemetry.PhaseTelemetry, prioTelemetry, &telemetryHook{s: s}},
		{telemetry.PhaseCamera, prioCamera, s.camera},
	} {
		if err := s.sched.Register(r.name, r.prio, r.t); err != nil {
			return fmt.Errorf("sim: %w", err)
		}
	}

	slog.Info("level built",
		"platforms", len(cfg.Level.Platforms),
		"collectibles", total,
		"gravity", s.director.CurrentAxis().String(),
	)
	return nil
}

// orientToGravity turns the body so its up axis opposes the current gravity.
func (s *Sim) orientToGravity() {
	up := s.director.CurrentDirection().Mul(-1)
	fwd := geom.ProjectOnPlane(geom.Forward, up)
	if fwd.LenSqr() < geom.Epsilon {
		fwd = geom.Right
	}
	if q, ok := geom.LookRotation(fwd, up); ok {
		s.body.SetOrientation(q)
	}
}

// Frame runs one rendered frame of real duration dt.
func (s *Sim) Frame(dt float64) {
	in := s.src.Poll(dt)
	if in.RestartPressed {
		s.Reset()
	}
	if s.session.Over() {
		// Only the camera keeps responding once the session has ended.
		in = input.Snapshot{MouseDX: in.MouseDX, MouseDY: in.MouseDY}
	}
	s.last = in

	s.sched.Frame(dt, in)

	if s.session.Over() && s.sched.TimeScale() != 0 {
		s.sched.SetTimeScale(0)
		slog.Info("simulation paused", "outcome", s.session.Outcome().String(), "tick", s.sched.Ticks())
	}
}

// Reset rebuilds the level and restarts the session. Telemetry output keeps
// appending.
func (s *Sim) Reset() {
	s.collector.Reset()
	if err := s.build(); err != nil {
		slog.Error("reset failed", "error", err)
		return
	}
	slog.Info("session restarted")
}

// ApplyParams swaps in tuning from a reloaded config. Level geometry and the
// fixed step only change on the next Reset.
func (s *Sim) ApplyParams(cfg *config.Config) {
	s.cfg = cfg
	s.physics.SetGravity(cfg.Physics.WorldGravity)
	s.director.SetParams(gravityParams(cfg))
	s.sensor.SetParams(groundParams(cfg))
	s.loco.SetParams(locomotionParams(cfg))
	s.camera.SetParams(cameraParams(cfg))
	s.session.SetParams(sessionParams(cfg))
	slog.Info("config applied")
}

// Config returns the active configuration.
func (s *Sim) Config() *config.Config { return s.cfg }

// Director returns the gravity director.
func (s *Sim) Director() *gravity.Director { return s.director }

// Sensor returns the ground sensor.
func (s *Sim) Sensor() *ground.Sensor { return s.sensor }

// Locomotion returns the locomotion component.
func (s *Sim) Locomotion() *locomotion.Locomotion { return s.loco }

// Camera returns the chase camera.
func (s *Sim) Camera() *camera.Chase { return s.camera }

// Session returns the session rules.
func (s *Sim) Session() *session.Session { return s.session }

// Body returns the avatar body.
func (s *Sim) Body() *systems.RigidBody { return s.body }

// Physics returns the physics world.
func (s *Sim) Physics() *systems.PhysicsWorld { return s.physics }

// Scheduler returns the tick scheduler.
func (s *Sim) Scheduler() *scheduler.Scheduler { return s.sched }

// Anim returns the animation signals written this frame.
func (s *Sim) Anim() *anim.Recorder { return s.anim }

// Perf returns the frame timing collector.
func (s *Sim) Perf() *telemetry.PerfCollector { return s.perf }

// Input returns the snapshot used for the last frame.
func (s *Sim) Input() input.Snapshot { return s.last }

// Tick returns the number of fixed steps run since the last reset.
func (s *Sim) Tick() uint64 { return s.sched.Ticks() }

// Collectibles calls fn with the position and size of each remaining pickup.
func (s *Sim) Collectibles(fn func(box geom.AABB)) {
	s.physics.Colliders(func(e ecs.Entity, c *components.Collider, _ *components.Appearance) {
		if s.collectMap.HasAll(e) {
			fn(c.Box)
		}
	})
}
