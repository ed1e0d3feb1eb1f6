// Package anim defines the write-only signal interface the movement core uses
// to drive an animation controller.
package anim

// Signal names written by the movement core.
const (
	ParamSpeed    = "speed"
	ParamGrounded = "isGrounded"
	TriggerJump   = "jump"
)

// Driver accepts named animation signals. The core writes, never reads.
type Driver interface {
	SetFloat(name string, v float64)
	SetBool(name string, v bool)
	SetTrigger(name string)
}

// Recorder is a Driver that keeps the latest value of every signal.
// Renderers and telemetry read it back.
type Recorder struct {
	floats   map[string]float64
	bools    map[string]bool
	triggers map[string]int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		floats:   make(map[string]float64),
		bools:    make(map[string]bool),
		triggers: make(map[string]int),
	}
}

// SetFloat records a float signal.
func (r *Recorder) SetFloat(name string, v float64) { r.floats[name] = v }

// SetBool records a bool signal.
func (r *Recorder) SetBool(name string, v bool) { r.bools[name] = v }

// SetTrigger counts a trigger.
func (r *Recorder) SetTrigger(name string) { r.triggers[name]++ }

// Float returns the last float value for name.
func (r *Recorder) Float(name string) float64 { return r.floats[name] }

// Bool returns the last bool value for name.
func (r *Recorder) Bool(name string) bool { return r.bools[name] }

// Triggers returns how many times name fired since the last Consume.
func (r *Recorder) Triggers(name string) int { return r.triggers[name] }

// Consume reports whether name fired and clears its count.
func (r *Recorder) Consume(name string) bool {
	n := r.triggers[name]
	delete(r.triggers, name)
	return n > 0
}
