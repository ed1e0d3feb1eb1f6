package scheduler

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pthm-cable/gravwalk/input"
	"github.com/pthm-cable/gravwalk/telemetry"
)

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) TickVariable(Step) { *r.log = append(*r.log, "v:"+r.name) }
func (r recorder) TickFixed(Step)    { *r.log = append(*r.log, "f:"+r.name) }
func (r recorder) TickLate(Step)     { *r.log = append(*r.log, "l:"+r.name) }

type fixedOnly struct{ steps *[]Step }

func (f fixedOnly) TickFixed(s Step) { *f.steps = append(*f.steps, s) }

func TestRegisterOrder(t *testing.T) {
	var log []string
	s := New(0.02, 5)
	for _, r := range []struct {
		name     string
		priority int
	}{{"b", 10}, {"a", 0}, {"c", 10}} {
		if err := s.Register(r.name, r.priority, recorder{name: r.name, log: &log}); err != nil {
			t.Fatal(err)
		}
	}

	s.Frame(0.02, input.Snapshot{})

	want := []string{"v:a", "v:b", "v:c", "f:a", "f:b", "f:c", "l:a", "l:b", "l:c"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("run order = %v, want %v", log, want)
	}
}

func TestRegisterRejectsNonTicker(t *testing.T) {
	s := New(0.02, 5)
	if err := s.Register("nothing", 0, struct{}{}); !errors.Is(err, ErrNotTicker) {
		t.Errorf("expected ErrNotTicker, got %v", err)
	}
}

func TestFixedStepAccumulation(t *testing.T) {
	tests := []struct {
		name        string
		frames      []float64
		maxSubsteps int
		wantSteps   int
		wantDropped int
	}{
		{"exact frames", []float64{0.02, 0.02, 0.02}, 5, 3, 0},
		{"short frames accumulate", []float64{0.01, 0.01, 0.01, 0.01}, 5, 2, 0},
		{"long frame split", []float64{0.06}, 5, 3, 0},
		{"cap drops excess", []float64{0.2}, 4, 4, 6},
		{"negative dt ignored", []float64{-1, 0.02}, 5, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var steps []Step
			s := New(0.02, tc.maxSubsteps)
			if err := s.Register("f", 0, fixedOnly{&steps}); err != nil {
				t.Fatal(err)
			}
			for _, dt := range tc.frames {
				s.Frame(dt, input.Snapshot{})
			}
			if len(steps) != tc.wantSteps {
				t.Errorf("fixed steps = %d, want %d", len(steps), tc.wantSteps)
			}
			if s.Dropped() != tc.wantDropped {
				t.Errorf("dropped = %d, want %d", s.Dropped(), tc.wantDropped)
			}
			for i, st := range steps {
				if st.DT != 0.02 || st.Tick != uint64(i+1) {
					t.Errorf("step %d: dt=%f tick=%d", i, st.DT, st.Tick)
				}
			}
		})
	}
}

func TestTimeScaleZeroFreezesFixed(t *testing.T) {
	var log []string
	s := New(0.02, 5)
	if err := s.Register("r", 0, recorder{name: "r", log: &log}); err != nil {
		t.Fatal(err)
	}
	s.SetTimeScale(0)

	if n := s.Frame(0.1, input.Snapshot{}); n != 0 {
		t.Errorf("frozen frame ran %d fixed steps", n)
	}
	if want := []string{"v:r", "l:r"}; !reflect.DeepEqual(log, want) {
		t.Errorf("frozen frame ran %v, want %v", log, want)
	}
	if s.Time() != 0 {
		t.Errorf("frozen time advanced to %f", s.Time())
	}
}

func TestInputReachesAllPhases(t *testing.T) {
	var steps []Step
	s := New(0.02, 5)
	if err := s.Register("f", 0, fixedOnly{&steps}); err != nil {
		t.Fatal(err)
	}
	s.Frame(0.04, input.Snapshot{MoveForward: 1})
	for _, st := range steps {
		if st.Input.MoveForward != 1 {
			t.Error("fixed step should carry the frame's input")
		}
	}
}

func TestPerfPhasesNamedAfterEntries(t *testing.T) {
	var log []string
	s := New(0.02, 5)
	pc := telemetry.NewPerfCollector(4)
	s.SetPerf(pc)
	if err := s.Register(telemetry.PhasePhysics, 0, recorder{name: "p", log: &log}); err != nil {
		t.Fatal(err)
	}
	s.Frame(0.02, input.Snapshot{})

	if _, ok := pc.Stats().PhaseAvg[telemetry.PhasePhysics]; !ok {
		t.Error("perf collector should time the physics entry")
	}
}
