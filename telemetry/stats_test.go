package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSpeedStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, std, p50, p90, maxv := SpeedStats(values)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if std <= 0 {
		t.Errorf("std = %v, want positive", std)
	}
	if p50 < 5 || p50 > 6 {
		t.Errorf("p50 = %v, want in [5, 6]", p50)
	}
	if p90 < 9 || p90 > 10 {
		t.Errorf("p90 = %v, want in [9, 10]", p90)
	}
	if maxv != 10 {
		t.Errorf("max = %v, want 10", maxv)
	}
}

func TestSpeedStatsEdges(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
	}{
		{"empty", nil, 0},
		{"single", []float64{3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, _, _, _ := SpeedStats(tt.values)
			if mean != tt.wantMean || std != 0 {
				t.Errorf("mean, std = %v, %v; want %v, 0", mean, std, tt.wantMean)
			}
		})
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(4, 0.02)

	c.RecordTick(2, true)
	c.RecordTick(4, false)
	c.RecordTick(4, false)
	c.RecordTick(6, true)
	c.RecordJump()
	c.RecordCommit()
	c.RecordPickup()

	if c.ShouldFlush(3) {
		t.Error("window should not be complete at tick 3")
	}
	if !c.ShouldFlush(4) {
		t.Fatal("window should be complete at tick 4")
	}

	s := c.Flush(4, 0.08, "down", 1, 100)
	if s.GroundedFrac != 0.5 {
		t.Errorf("grounded frac = %v, want 0.5", s.GroundedFrac)
	}
	if math.Abs(s.Airtime-0.04) > 1e-9 {
		t.Errorf("airtime = %v, want 0.04", s.Airtime)
	}
	if s.Jumps != 1 || s.Commits != 1 || s.Pickups != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/1/1", s.Jumps, s.Commits, s.Pickups)
	}
	if s.SpeedMean != 4 || s.SpeedMax != 6 {
		t.Errorf("speed mean/max = %v/%v", s.SpeedMean, s.SpeedMax)
	}

	// Counters reset for the next window.
	if c.ShouldFlush(7) {
		t.Error("next window should end at tick 8")
	}
	next := c.Flush(8, 0.16, "down", 1, 99)
	if next.Jumps != 0 || next.GroundedFrac != 0 || next.SpeedMean != 0 {
		t.Errorf("second window not reset: %+v", next)
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := om.WriteTrace(TraceRow{Tick: i, Gravity: "down", Phase: "idle"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteWindow(WindowStats{WindowEnd: 250}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "trace.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("trace.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,") || strings.Count(string(data), "tick,") != 1 {
		t.Errorf("header should be written once:\n%s", data)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteTrace(TraceRow{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
