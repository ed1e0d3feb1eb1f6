// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gravwalk/components"
	"github.com/pthm-cable/gravwalk/gravity"
	"github.com/pthm-cable/gravwalk/ground"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid marks a configuration that loaded but failed validation.
var ErrInvalid = errors.New("invalid config")

// Config holds all game configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Avatar     AvatarConfig     `yaml:"avatar"`
	Gravity    GravityConfig    `yaml:"gravity"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Ground     GroundConfig     `yaml:"ground"`
	Camera     CameraConfig     `yaml:"camera"`
	Session    SessionConfig    `yaml:"session"`
	Level      LevelConfig      `yaml:"level"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// PhysicsConfig holds the fixed-step settings.
type PhysicsConfig struct {
	FixedDT      float64    `yaml:"fixed_dt"`
	MaxSubsteps  int        `yaml:"max_substeps"`
	WorldGravity mgl64.Vec3 `yaml:"world_gravity"` // applies only to bodies using built-in gravity
}

// AvatarConfig describes the player body.
type AvatarConfig struct {
	Spawn     mgl64.Vec3 `yaml:"spawn"`
	Radius    float64    `yaml:"radius"`
	Mass      float64    `yaml:"mass"`
	HeadPivot mgl64.Vec3 `yaml:"head_pivot"` // local offset of the swing pivot
	Color     [4]uint8   `yaml:"color"`
}

// GravityConfig tunes the gravity director.
type GravityConfig struct {
	Magnitude           float64 `yaml:"magnitude"`
	ReorientDuration    float64 `yaml:"reorient_duration"`
	IgnoreAfterReorient float64 `yaml:"ignore_after_reorient"`
	HologramDistance    float64 `yaml:"hologram_distance"`
	InitialAxis         string  `yaml:"initial_axis"`
}

// LocomotionConfig tunes walking, turning and jumping.
type LocomotionConfig struct {
	MoveSpeed  float64 `yaml:"move_speed"`
	JumpForce  float64 `yaml:"jump_force"`
	SteerRate  float64 `yaml:"steer_rate"`
	TurnRate   float64 `yaml:"turn_rate"` // degrees per second
	JumpIgnore float64 `yaml:"jump_ignore"`
	Deadzone   float64 `yaml:"deadzone"`
}

// GroundConfig tunes the ground probe.
type GroundConfig struct {
	Mode        string   `yaml:"mode"` // ray or sphere
	Distance    float64  `yaml:"distance"`
	ProbeRadius float64  `yaml:"probe_radius"`
	Layers      []string `yaml:"layers"` // empty = all
}

// CameraConfig tunes the chase camera.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	Height      float64 `yaml:"height"`
	SmoothSpeed float64 `yaml:"smooth_speed"`
	Sensitivity float64 `yaml:"sensitivity"`
	MouseScale  float64 `yaml:"mouse_scale"` // pixels to mouse axis units
	PitchMin    float64 `yaml:"pitch_min"`
	PitchMax    float64 `yaml:"pitch_max"`
	FovY        float64 `yaml:"fov_y"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

// SessionConfig holds the session rules.
type SessionConfig struct {
	TimeLimit         float64 `yaml:"time_limit"`
	FallCheckDelay    float64 `yaml:"fall_check_delay"`
	FallCheckDistance float64 `yaml:"fall_check_distance"`
}

// LevelConfig lists the static geometry and pickups.
type LevelConfig struct {
	Platforms    []PlatformConfig    `yaml:"platforms"`
	Collectibles []CollectibleConfig `yaml:"collectibles"`
}

// PlatformConfig is one static box.
type PlatformConfig struct {
	Center mgl64.Vec3 `yaml:"center"`
	Size   mgl64.Vec3 `yaml:"size"`
	Layer  string     `yaml:"layer"` // default ground
	Color  [4]uint8   `yaml:"color"`
}

// CollectibleConfig is one pickup.
type CollectibleConfig struct {
	Position mgl64.Vec3 `yaml:"position"`
	Size     float64    `yaml:"size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of fixed time per window
	TraceEvery  int     `yaml:"trace_every"`  // fixed ticks between trace rows
	PerfWindow  int     `yaml:"perf_window"`  // frames in the perf rolling window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	InitialAxis      gravity.Axis
	GroundMode       ground.Mode
	GroundMask       components.Layer
	PlatformLayers   []components.Layer
	StatsWindowTicks int // Telemetry.StatsWindow in fixed ticks
	FixedHz          float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration. Used after a hot reload.
func Set(c *Config) { global = c }

// Default returns the embedded defaults.
func Default() (*Config, error) { return Load("") }

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Merge(cfg, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays YAML data on cfg. Only fields present in data change; a
// list present in data replaces the whole list.
func Merge(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// computeDerived validates the config and fills Derived.
func (c *Config) computeDerived() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Physics.FixedDT <= 0 {
		invalid("physics.fixed_dt must be positive, got %g", c.Physics.FixedDT)
	} else {
		c.Derived.FixedHz = 1 / c.Physics.FixedDT
		c.Derived.StatsWindowTicks = max(1, int(c.Telemetry.StatsWindow/c.Physics.FixedDT+0.5))
	}
	if c.Physics.MaxSubsteps < 1 {
		invalid("physics.max_substeps must be at least 1, got %d", c.Physics.MaxSubsteps)
	}
	if c.Avatar.Radius <= 0 {
		invalid("avatar.radius must be positive, got %g", c.Avatar.Radius)
	}
	if c.Gravity.ReorientDuration < 0 {
		invalid("gravity.reorient_duration must not be negative, got %g", c.Gravity.ReorientDuration)
	}
	if c.Camera.PitchMin >= c.Camera.PitchMax {
		invalid("camera.pitch_min (%g) must be below camera.pitch_max (%g)", c.Camera.PitchMin, c.Camera.PitchMax)
	}

	axis, err := gravity.ParseAxis(c.Gravity.InitialAxis)
	if err != nil {
		invalid("gravity.initial_axis: %v", err)
	}
	c.Derived.InitialAxis = axis

	mode, err := ground.ParseMode(c.Ground.Mode)
	if err != nil {
		invalid("ground.mode: %v", err)
	}
	c.Derived.GroundMode = mode

	mask, err := components.ParseLayers(c.Ground.Layers)
	if err != nil {
		invalid("ground.layers: %v", err)
	}
	c.Derived.GroundMask = mask

	c.Derived.PlatformLayers = make([]components.Layer, len(c.Level.Platforms))
	for i, p := range c.Level.Platforms {
		layer := components.LayerGround
		if p.Layer != "" {
			l, err := components.ParseLayers([]string{p.Layer})
			if err != nil {
				invalid("level.platforms[%d].layer: %v", i, err)
			}
			layer = l
		}
		c.Derived.PlatformLayers[i] = layer
		for axis := 0; axis < 3; axis++ {
			if p.Size[axis] <= 0 {
				invalid("level.platforms[%d].size must be positive on every axis", i)
				break
			}
		}
	}

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
