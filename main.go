package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gravwalk/config"
	"github.com/pthm-cable/gravwalk/game"
	"github.com/pthm-cable/gravwalk/input"
	"github.com/pthm-cable/gravwalk/sim"
	"github.com/pthm-cable/gravwalk/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	scriptPath := flag.String("script", "", "YAML input script for headless runs")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N fixed ticks (0 = until the session ends)")
	watch := flag.Bool("watch", false, "Reload tuning when the config file changes")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	simOpts := sim.Options{Output: output, LogStats: *logStats}

	if *headless {
		if err := runHeadless(cfg, *scriptPath, *maxTicks, simOpts); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, game.Options{Sim: simOpts, ConfigPath: *configPath, Watch: *watch})
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Sim().Tick() >= uint64(*maxTicks) {
			break
		}
	}
}

// runHeadless steps the simulation one fixed step per frame until the
// session ends, the script is exhausted or maxTicks is reached.
func runHeadless(cfg *config.Config, scriptPath string, maxTicks int, opts sim.Options) error {
	src := input.None
	var script *input.Script
	if scriptPath != "" {
		s, err := input.LoadScript(scriptPath)
		if err != nil {
			return err
		}
		script = s
		src = s
	}

	s, err := sim.New(cfg, src, opts)
	if err != nil {
		return err
	}

	slog.Info("starting headless simulation",
		"script", scriptPath,
		"max_ticks", maxTicks,
		"fixed_dt", cfg.Physics.FixedDT,
	)

	dt := cfg.Physics.FixedDT
	for {
		s.Frame(dt)

		switch {
		case s.Session().Over():
			slog.Info("session finished", "outcome", s.Session().Outcome().String(), "tick", s.Tick())
			return nil
		case maxTicks > 0 && s.Tick() >= uint64(maxTicks):
			slog.Info("max ticks reached", "tick", s.Tick())
			return nil
		case script != nil && script.Done() && maxTicks == 0:
			slog.Info("script finished", "tick", s.Tick(), "time", script.Time())
			return nil
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
