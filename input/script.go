package input

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned when a script names a preview key that does not exist.
var ErrUnknownKey = errors.New("input: unknown preview key")

// Event is one entry of a scripted input timeline.
// Axis and preview values are held for [At, At+For); Jump, Commit and Restart
// fire once on the first frame at or after At.
type Event struct {
	At      float64 `yaml:"at"`
	For     float64 `yaml:"for"`
	Forward float64 `yaml:"forward"`
	Strafe  float64 `yaml:"strafe"`
	Turn    float64 `yaml:"turn"`
	Preview string  `yaml:"preview"` // up, down, left, right, forward, back
	Jump    bool    `yaml:"jump"`
	Commit  bool    `yaml:"commit"`
	Restart bool    `yaml:"restart"`
	MouseX  float64 `yaml:"mouse_x"` // per-frame delta while held
	MouseY  float64 `yaml:"mouse_y"`
}

func (e Event) holds(t float64) bool {
	return t >= e.At && t < e.At+e.For
}

func (e Event) hasEdge() bool {
	return e.Jump || e.Commit || e.Restart
}

// Script replays a timeline of events. It is used for headless runs and tests.
type Script struct {
	events []Event
	fired  []bool
	now    float64
}

// NewScript builds a script from events. Events are ordered by start time.
func NewScript(events ...Event) (*Script, error) {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	for i, e := range sorted {
		if e.Preview == "" {
			continue
		}
		if _, ok := previewKeys[e.Preview]; !ok {
			return nil, fmt.Errorf("event %d: %w: %q", i, ErrUnknownKey, e.Preview)
		}
	}
	return &Script{events: sorted, fired: make([]bool, len(sorted))}, nil
}

// ParseScript decodes a YAML list of events.
func ParseScript(data []byte) (*Script, error) {
	var events []Event
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing input script: %w", err)
	}
	return NewScript(events...)
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input script: %w", err)
	}
	return ParseScript(data)
}

// Poll returns the snapshot for the frame starting at the current script time
// and then advances the clock by dt.
func (s *Script) Poll(dt float64) Snapshot {
	var snap Snapshot
	if s == nil {
		return snap
	}
	t := s.now
	s.now += dt

	for i, e := range s.events {
		if e.holds(t) {
			snap.MoveForward += e.Forward
			snap.Strafe += e.Strafe
			snap.Turn += e.Turn
			snap.MouseDX += e.MouseX
			snap.MouseDY += e.MouseY
			if e.Preview != "" {
				previewKeys[e.Preview](&snap)
			}
		}
		if e.hasEdge() && !s.fired[i] && t >= e.At {
			s.fired[i] = true
			snap.JumpPressed = snap.JumpPressed || e.Jump
			snap.CommitPressed = snap.CommitPressed || e.Commit
			snap.RestartPressed = snap.RestartPressed || e.Restart
		}
	}

	snap.MoveForward = clampAxis(snap.MoveForward)
	snap.Strafe = clampAxis(snap.Strafe)
	snap.Turn = clampAxis(snap.Turn)
	return snap
}

// Time returns the script clock.
func (s *Script) Time() float64 { return s.now }

// Done reports whether every event has started and ended.
func (s *Script) Done() bool {
	for _, e := range s.events {
		if s.now < e.At+e.For || s.now <= e.At {
			return false
		}
	}
	return true
}

// Rewind restarts the timeline.
func (s *Script) Rewind() {
	s.now = 0
	for i := range s.fired {
		s.fired[i] = false
	}
}

var previewKeys = map[string]func(*Snapshot){
	"up":      func(s *Snapshot) { s.PreviewUp = true },
	"down":    func(s *Snapshot) { s.PreviewDown = true },
	"left":    func(s *Snapshot) { s.PreviewLeft = true },
	"right":   func(s *Snapshot) { s.PreviewRight = true },
	"forward": func(s *Snapshot) { s.PreviewForward = true },
	"back":    func(s *Snapshot) { s.PreviewBack = true },
}

func clampAxis(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
