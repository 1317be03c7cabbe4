package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Mode      string // Empty while the plate is not resonating
	Phase     string
	Seq       uint64
	Particles int
	Respawned int
	Width     int
	Height    int
	FPS       int32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	mode := data.Mode
	if mode == "" {
		mode = "-"
	}
	rl.DrawText(
		fmt.Sprintf("Mode: %s | Phase: %s | Bake: #%d", mode, data.Phase, data.Seq),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Grains: %d | Fell off: %d | Plate: %dx%d | FPS: %d",
			data.Particles, data.Respawned, data.Width, data.Height, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PlatePanelData holds the details shown in the plate panel.
type PlatePanelData struct {
	Strategy     string
	M, N         int
	Lambda       float64
	Intensity    float32
	BakeDuration time.Duration
	NodeFraction float64 // Share of cells below the node threshold
	OnNodes      float64 // Share of grains sitting on node cells
	Overlay      bool

	Settled  rl.Color
	Agitated rl.Color

	AvgUpdate time.Duration
}

// PlatePanel renders the plate details in the top-right corner.
type PlatePanel struct {
	renderer *Renderer
	width    int32
}

// NewPlatePanel creates a new plate panel.
func NewPlatePanel(width int32) *PlatePanel {
	return &PlatePanel{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Draw renders the panel against the right edge of the screen.
func (p *PlatePanel) Draw(data PlatePanelData, screenWidth int32) {
	r := p.renderer
	pad := r.Theme.Padding
	x := screenWidth - p.width - pad
	y := pad

	r.DrawPanel(x, y, p.width, 13*r.Theme.LineHeight+2*pad)
	x += pad
	y += pad

	y = r.DrawSectionHeader(x, y, "Plate [I]")
	y = r.DrawLabelValue(x, y, "Strategy", data.Strategy)
	y = r.DrawLabelValue(x, y, "Mode", fmt.Sprintf("m=%d n=%d", data.M, data.N))
	y = r.DrawLabelValue(x, y, "Lambda", fmt.Sprintf("%.4f", data.Lambda))
	y = r.DrawLabelValue(x, y, "Intensity", fmt.Sprintf("%.2f", data.Intensity))
	y = r.DrawLabelValue(x, y, "Bake", data.BakeDuration.Round(time.Millisecond).String())
	y = r.DrawLabelValue(x, y, "Update", data.AvgUpdate.Round(time.Microsecond).String())
	y = r.DrawBar(x, y, "Nodes", float32(data.NodeFraction), p.width-2*pad)
	y = r.DrawBar(x, y, "On nodes", float32(data.OnNodes), p.width-2*pad)

	overlay := "off"
	if data.Overlay {
		overlay = "on"
	}
	y = r.DrawLabelValue(x, y, "Field [V]", overlay)
	y = r.DrawColorSwatch(x, y, "Settled", data.Settled)
	r.DrawColorSwatch(x, y, "Agitated", data.Agitated)
}
