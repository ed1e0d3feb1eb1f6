package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gravwalk/input"
)

// KeyboardSource polls raylib for the movement keys and the mouse.
type KeyboardSource struct {
	mouseScale float64
	restart    bool
}

// NewKeyboardSource creates a source scaling mouse pixels by mouseScale.
func NewKeyboardSource(mouseScale float64) *KeyboardSource {
	return &KeyboardSource{mouseScale: mouseScale}
}

// RequestRestart makes the next poll report a restart edge.
func (k *KeyboardSource) RequestRestart() { k.restart = true }

// Poll implements input.Source.
func (k *KeyboardSource) Poll(float64) input.Snapshot {
	snap := input.Snapshot{
		MoveForward: keyAxis(rl.KeyW, rl.KeyS),
		Strafe:      keyAxis(rl.KeyE, rl.KeyQ),
		Turn:        keyAxis(rl.KeyD, rl.KeyA),

		JumpPressed:    rl.IsKeyPressed(rl.KeySpace),
		CommitPressed:  rl.IsKeyPressed(rl.KeyEnter),
		RestartPressed: rl.IsKeyPressed(rl.KeyR) || k.restart,

		PreviewUp:      rl.IsKeyDown(rl.KeyUp),
		PreviewDown:    rl.IsKeyDown(rl.KeyDown),
		PreviewLeft:    rl.IsKeyDown(rl.KeyLeft),
		PreviewRight:   rl.IsKeyDown(rl.KeyRight),
		PreviewForward: rl.IsKeyDown(rl.KeyPageUp),
		PreviewBack:    rl.IsKeyDown(rl.KeyPageDown),
	}
	k.restart = false

	delta := rl.GetMouseDelta()
	snap.MouseDX = float64(delta.X) * k.mouseScale
	snap.MouseDY = float64(delta.Y) * k.mouseScale
	return snap
}

func keyAxis(pos, neg int32) float64 {
	var v float64
	if rl.IsKeyDown(pos) {
		v++
	}
	if rl.IsKeyDown(neg) {
		v--
	}
	return v
}
