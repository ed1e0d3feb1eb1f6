package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseGravity)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhasePhysics)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	for _, phase := range []string{PhaseGravity, PhasePhysics} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
}

func TestPerfCollector_RepeatedPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector(1)

	pc.StartFrame()
	pc.StartPhase(PhasePhysics)
	time.Sleep(100 * time.Microsecond)
	pc.StartPhase(PhasePickups)
	pc.StartPhase(PhasePhysics)
	time.Sleep(100 * time.Microsecond)
	pc.EndFrame()

	if got := pc.Stats().PhaseAvg[PhasePhysics]; got < 200*time.Microsecond {
		t.Errorf("physics should accumulate both substeps, got %v", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseGround)
		pc.EndFrame()
	}

	if pc.sampleCount != 5 {
		t.Errorf("sample count should saturate at the window size, got %d", pc.sampleCount)
	}
	if stats := pc.Stats(); stats.MaxFrameDuration < stats.MinFrameDuration {
		t.Error("max frame duration below min")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_PresentInterval(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordPresent()
	time.Sleep(16 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()
	if stats.PresentInterval < 15*time.Millisecond {
		t.Errorf("expected present interval >= 15ms, got %v", stats.PresentInterval)
	}
	if stats.FPS < 5 || stats.FPS > 70 {
		t.Errorf("expected FPS at or below about 60 with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgFrameDuration: 2 * time.Millisecond,
		PhasePct:         map[string]float64{PhasePhysics: 40, PhaseCamera: 5},
	}
	row := s.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgFrameUS != 2000 {
		t.Errorf("unexpected row header fields: %+v", row)
	}
	if row.PhysicsPct != 40 || row.CameraPct != 5 || row.GravityPct != 0 {
		t.Errorf("unexpected phase columns: %+v", row)
	}
}
