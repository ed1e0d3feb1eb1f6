package anim

import "testing"

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.SetFloat(ParamSpeed, 3.5)
	r.SetBool(ParamGrounded, true)
	r.SetTrigger(TriggerJump)
	r.SetTrigger(TriggerJump)

	if r.Float(ParamSpeed) != 3.5 || !r.Bool(ParamGrounded) {
		t.Errorf("signals = %v, %v", r.Float(ParamSpeed), r.Bool(ParamGrounded))
	}
	if r.Triggers(TriggerJump) != 2 {
		t.Errorf("jump triggers = %d, want 2", r.Triggers(TriggerJump))
	}
	if !r.Consume(TriggerJump) || r.Consume(TriggerJump) {
		t.Error("Consume should report once and clear")
	}
}
