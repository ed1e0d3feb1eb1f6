// Package input defines the per-frame input snapshot consumed by the movement
// core and the sources that produce it.
package input

// Snapshot is the input state for one rendered frame.
// Axis values are in [-1, 1]; Pressed fields are rising edges for this frame only.
type Snapshot struct {
	MoveForward float64 // +1 forward, -1 backward
	Strafe      float64 // +1 right, -1 left
	Turn        float64 // +1 turn right, -1 turn left

	JumpPressed    bool
	CommitPressed  bool
	RestartPressed bool

	// Held gravity preview keys.
	PreviewUp      bool
	PreviewDown    bool
	PreviewLeft    bool
	PreviewRight   bool
	PreviewForward bool
	PreviewBack    bool

	MouseDX float64
	MouseDY float64
}

// Source produces one snapshot per frame.
type Source interface {
	Poll(dt float64) Snapshot
}

// SourceFunc adapts a function to Source.
type SourceFunc func(dt float64) Snapshot

// Poll calls f.
func (f SourceFunc) Poll(dt float64) Snapshot { return f(dt) }

// None is a source that never produces input.
var None Source = SourceFunc(func(float64) Snapshot { return Snapshot{} })
