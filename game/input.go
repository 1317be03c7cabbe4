package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/plate"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Field overlay
	if rl.IsKeyPressed(rl.KeyV) {
		g.showField = !g.showField
	}

	// Plate panel
	if rl.IsKeyPressed(rl.KeyI) {
		g.showPanel = !g.showPanel
	}
}

// handleResize feeds window size changes to the debouncer. The plate is
// only rebuilt once the burst settles.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	d := plate.Domain{W: rl.GetScreenWidth(), H: rl.GetScreenHeight()}
	g.debounce.Set(d, time.Now())
}
