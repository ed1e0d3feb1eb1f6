// Package ui draws the 2D overlay: session clock, pickups, gravity state and
// the end-of-session panel.
package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gravwalk/telemetry"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Clock     string
	Collected int
	Total     int
	Gravity   string
	Phase     string
	Grounded  bool
	Speed     float64

	Outcome string // end reason, empty while running
	Over    bool

	FPS      int32
	Perf     telemetry.PerfStats
	ShowPerf bool

	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD { return &HUD{} }

const controls = "WASD move/turn | Q/E strafe | Space jump | arrows, PgUp/PgDn preview gravity | Enter commit | R restart | F3 debug"

// Draw renders the HUD and reports whether the restart button was clicked.
func (h *HUD) Draw(d HUDData) bool {
	rl.DrawText(d.Clock, d.ScreenWidth/2-30, 10, 30, rl.White)
	rl.DrawText(fmt.Sprintf("Collected: %d / %d", d.Collected, d.Total), 10, 10, 20, rl.Gold)

	grounded := "airborne"
	if d.Grounded {
		grounded = "grounded"
	}
	rl.DrawText(fmt.Sprintf("Gravity: %s (%s) | %s | speed %.1f", d.Gravity, d.Phase, grounded, d.Speed), 10, 35, 16, rl.LightGray)
	rl.DrawText(fmt.Sprintf("FPS: %d", d.FPS), d.ScreenWidth-80, 10, 16, rl.LightGray)
	rl.DrawText(controls, 10, d.ScreenHeight-25, 14, rl.Gray)

	if d.ShowPerf {
		drawPerf(d.Perf, d.ScreenWidth-230, 35)
	}

	if !d.Over {
		return false
	}
	return drawEndPanel(d)
}

func drawEndPanel(d HUDData) bool {
	const w, hgt = 320, 150
	x := float32(d.ScreenWidth-w) / 2
	y := float32(d.ScreenHeight-hgt) / 2

	rl.DrawRectangle(int32(x), int32(y), w, hgt, rl.Fade(rl.Black, 0.75))
	textW := rl.MeasureText(d.Outcome, 24)
	rl.DrawText(d.Outcome, int32(x)+(w-textW)/2, int32(y)+20, 24, rl.White)
	rl.DrawText(fmt.Sprintf("Collected %d of %d", d.Collected, d.Total), int32(x)+20, int32(y)+58, 16, rl.LightGray)

	return gui.Button(rl.Rectangle{X: x + 90, Y: y + 95, Width: 140, Height: 34}, "Restart")
}

func drawPerf(s telemetry.PerfStats, x, y int32) {
	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s", s.AvgFrameDuration.Round(time.Microsecond), s.MaxFrameDuration.Round(time.Microsecond)), x, y, 12, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := s.PhasePct[phase]
		c := rl.LightGray
		if pct > 20 {
			c = rl.Red
		} else if pct > 10 {
			c = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-11s %6s %5.1f%%", phase, s.PhaseAvg[phase].Round(time.Microsecond), pct), x, y, 12, c)
		y += 14
	}
}
