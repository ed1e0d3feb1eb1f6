package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TraceRow is one sampled fixed tick of avatar state.
type TraceRow struct {
	Tick      uint64  `csv:"tick"`
	Time      float64 `csv:"time"`
	PosX      float64 `csv:"pos_x"`
	PosY      float64 `csv:"pos_y"`
	PosZ      float64 `csv:"pos_z"`
	VelX      float64 `csv:"vel_x"`
	VelY      float64 `csv:"vel_y"`
	VelZ      float64 `csv:"vel_z"`
	Speed     float64 `csv:"speed"`
	Gravity   string  `csv:"gravity"`
	Phase     string  `csv:"phase"`
	Grounded  bool    `csv:"grounded"`
	Collected int     `csv:"collected"`
	Outcome   string  `csv:"outcome"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r TraceRow) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", r.Tick),
		slog.Float64("speed", r.Speed),
		slog.String("gravity", r.Gravity),
		slog.String("phase", r.Phase),
		slog.Bool("grounded", r.Grounded),
	)
}

// WindowStats holds aggregated movement statistics for one window.
type WindowStats struct {
	WindowEnd uint64  `csv:"window_end"`
	SimTime   float64 `csv:"sim_time"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	GroundedFrac float64 `csv:"grounded_frac"`
	Airtime      float64 `csv:"airtime"` // longest airborne stretch in seconds

	Jumps     int `csv:"jumps"`
	Commits   int `csv:"commits"`
	Pickups   int `csv:"pickups"`
	Collected int `csv:"collected"`

	Gravity   string  `csv:"gravity"`
	Remaining float64 `csv:"remaining"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("grounded_frac", s.GroundedFrac),
		slog.Int("jumps", s.Jumps),
		slog.Int("commits", s.Commits),
		slog.Int("collected", s.Collected),
		slog.String("gravity", s.Gravity),
	)
}

// LogStats outputs the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("window", "stats", s)
}

// SpeedStats summarises speed samples. It sorts values in place.
func SpeedStats(values []float64) (mean, std, p50, p90, maxv float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sort.Float64s(values)
	mean, std = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	p50 = stat.Quantile(0.5, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	maxv = floats.Max(values)
	return mean, std, p50, p90, maxv
}
