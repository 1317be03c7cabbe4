package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/telemetry"
	"github.com/pthm-cable/chladni/ui"
)

const controlsLegend = "[Space] pause  [V] field  [I] plate  [F11] fullscreen"

// Draw renders the frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(g.sandRenderer.Background)

	g.sandRenderer.Draw(g.sand.Particles(), g.sand.Color(g.snap))

	if g.showField {
		g.fieldOverlay.Update(g.snap)
		g.fieldOverlay.Draw()
	}

	g.drawHUD()

	rl.EndDrawing()
}

// drawHUD renders the status lines and, when enabled, the plate panel.
func (g *Game) drawHUD() {
	d := g.sand.Domain()
	data := ui.HUDData{
		Title:     "Chladni",
		Phase:     g.phase().String(),
		Particles: len(g.sand.Particles()),
		Respawned: g.Respawned(),
		Width:     d.W,
		Height:    d.H,
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
	}
	if g.snap != nil {
		data.Seq = g.snap.Seq
		if g.snap.Resonant() {
			data.Mode = g.snap.Mode.String()
		}
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	if !g.showPanel {
		return
	}

	panel := ui.PlatePanelData{
		Strategy:  g.cfg.Cycle.Strategy,
		Overlay:   g.showField,
		Settled:   g.sandRenderer.Settled,
		Agitated:  g.sandRenderer.Agitated,
		AvgUpdate: g.perfCollector.Stats().AvgUpdate,
	}
	if g.snap != nil {
		panel.Intensity = g.snap.Intensity
		if g.snap.Resonant() {
			panel.M, panel.N, panel.Lambda = g.snap.Mode.M, g.snap.Mode.N, g.snap.Mode.Lambda
		}
	}
	if fs := g.lastBake.Load(); fs != nil {
		panel.BakeDuration = time.Duration(fs.BakeMS * float64(time.Millisecond))
		panel.NodeFraction = fs.NodeFraction
	}
	_, panel.OnNodes = telemetry.SandOnField(g.sand.Particles(), g.snap, g.cfg.Derived.NodeThreshold32)

	g.platePanel.Draw(panel, int32(rl.GetScreenWidth()))
}
