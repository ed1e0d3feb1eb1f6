// Package game is the raylib window shell around the simulation.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gravwalk/config"
	"github.com/pthm-cable/gravwalk/sim"
	"github.com/pthm-cable/gravwalk/ui"
)

// maxFrameDT caps the frame time handed to the simulation after a stall.
const maxFrameDT = 0.25

// Options configures the window shell.
type Options struct {
	Sim        sim.Options
	ConfigPath string // reloaded on change when Watch is set
	Watch      bool
}

// Game holds the simulation and the window-only state.
type Game struct {
	sim     *sim.Sim
	keys    *KeyboardSource
	hud     *ui.HUD
	watcher *config.Watcher
	path    string
	debug   bool
}

// New creates the window shell. A raylib window must already be open.
func New(cfg *config.Config, opts Options) (*Game, error) {
	keys := NewKeyboardSource(cfg.Camera.MouseScale)
	s, err := sim.New(cfg, keys, opts.Sim)
	if err != nil {
		return nil, err
	}
	g := &Game{sim: s, keys: keys, hud: ui.NewHUD(), path: opts.ConfigPath}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath)
		if err != nil {
			slog.Warn("config watch disabled", "error", err)
		} else {
			g.watcher = w
		}
	}
	rl.DisableCursor()
	return g, nil
}

// Sim returns the simulation.
func (g *Game) Sim() *sim.Sim { return g.sim }

// Update advances one rendered frame.
func (g *Game) Update() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.debug = !g.debug
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsCursorHidden() {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.sim.Camera().Zoom(-float64(wheel))
	}

	g.reloadConfig()

	dt := min(float64(rl.GetFrameTime()), maxFrameDT)
	g.sim.Frame(dt)
}

func (g *Game) reloadConfig() {
	if g.watcher == nil {
		return
	}
	if changed := g.watcher.Poll(); len(changed) == 0 {
		return
	}
	cfg, err := config.Load(g.path)
	if err != nil {
		slog.Error("config reload failed", "path", g.path, "error", err)
		return
	}
	config.Set(cfg)
	g.keys.mouseScale = cfg.Camera.MouseScale
	g.sim.ApplyParams(cfg)
	slog.Info("config reloaded", "path", g.path)
}

// Draw renders the frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(25, 28, 38, 255))

	g.drawWorld()

	s := g.sim
	data := ui.HUDData{
		Clock:        s.Session().Clock(),
		Collected:    s.Session().Collected(),
		Total:        s.Session().Total(),
		Gravity:      s.Director().CurrentAxis().String(),
		Phase:        s.Director().Phase().String(),
		Grounded:     s.Sensor().IsGrounded(),
		Speed:        s.Locomotion().Speed(),
		Outcome:      s.Session().Outcome().Reason(),
		Over:         s.Session().Over(),
		FPS:          rl.GetFPS(),
		Perf:         s.Perf().Stats(),
		ShowPerf:     g.debug,
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	}
	if g.hud.Draw(data) {
		rl.DisableCursor()
		g.keys.RequestRestart()
	}
	if data.Over && rl.IsCursorHidden() {
		rl.EnableCursor()
	}

	rl.EndDrawing()
	s.Perf().RecordPresent()
}

// Unload releases resources.
func (g *Game) Unload() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			slog.Warn("closing config watcher", "error", err)
		}
	}
}
