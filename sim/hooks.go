package sim

import (
	"log/slog"

	"github.com/pthm-cable/gravwalk/scheduler"
	"github.com/pthm-cable/gravwalk/telemetry"
)

// telemetryHook samples avatar state every fixed tick and flushes trace rows
// and window stats to the output manager.
type telemetryHook struct {
	s           *Sim
	lastJumps   int
	lastCommits int
}

func (h *telemetryHook) TickFixed(st scheduler.Step) {
	s := h.s
	grounded := s.sensor.IsGrounded()
	speed := s.loco.Speed()
	s.collector.RecordTick(speed, grounded)

	for ; h.lastJumps < s.loco.Jumps(); h.lastJumps++ {
		s.collector.RecordJump()
	}
	for ; h.lastCommits < s.director.Commits(); h.lastCommits++ {
		s.collector.RecordCommit()
	}

	if every := s.cfg.Telemetry.TraceEvery; every > 0 && st.Tick%uint64(every) == 0 {
		h.trace(st, speed, grounded)
	}

	if !s.collector.ShouldFlush(st.Tick) {
		return
	}
	stats := s.collector.Flush(st.Tick, st.Time, s.director.CurrentAxis().String(), s.session.Collected(), s.session.Remaining())
	perfStats := s.perf.Stats()

	if s.opts.LogStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}
	if err := s.opts.Output.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}
	if err := s.opts.Output.WritePerf(perfStats, int64(st.Tick)); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

func (h *telemetryHook) trace(st scheduler.Step, speed float64, grounded bool) {
	s := h.s
	pos, vel := s.body.Position(), s.body.Velocity()
	row := telemetry.TraceRow{
		Tick:      st.Tick,
		Time:      st.Time,
		PosX:      pos.X(),
		PosY:      pos.Y(),
		PosZ:      pos.Z(),
		VelX:      vel.X(),
		VelY:      vel.Y(),
		VelZ:      vel.Z(),
		Speed:     speed,
		Gravity:   s.director.CurrentAxis().String(),
		Phase:     s.director.Phase().String(),
		Grounded:  grounded,
		Collected: s.session.Collected(),
		Outcome:   s.session.Outcome().String(),
	}
	if err := s.opts.Output.WriteTrace(row); err != nil {
		slog.Error("failed to write trace", "error", err)
	}
}
