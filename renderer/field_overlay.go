package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/plate"
)

// FieldOverlay shows the vibration magnitude of the current snapshot as a
// translucent heatmap. Node cells stay dark.
type FieldOverlay struct {
	Tint  color.RGBA
	Alpha uint8

	tex         rl.Texture2D
	pixels      []color.RGBA
	domain      plate.Domain
	seq         uint64
	loaded      bool
	initialized bool
}

// NewFieldOverlay creates an overlay drawn in tint.
func NewFieldOverlay(tint color.RGBA, alpha uint8) *FieldOverlay {
	return &FieldOverlay{Tint: tint, Alpha: alpha}
}

// Update uploads snap's field if it has not been seen yet. Non-resonant
// snapshots clear the overlay.
func (o *FieldOverlay) Update(snap *plate.Snapshot) {
	if snap == nil || (o.initialized && snap.Seq == o.seq) {
		return
	}
	o.seq = snap.Seq

	if !snap.Resonant() {
		o.loaded = false
		return
	}

	d := snap.Domain
	if !o.initialized || d != o.domain {
		if o.initialized {
			rl.UnloadTexture(o.tex)
		}
		img := rl.GenImageColor(d.W, d.H, rl.Blank)
		o.tex = rl.LoadTextureFromImage(img)
		rl.SetTextureFilter(o.tex, rl.FilterBilinear)
		rl.UnloadImage(img)

		o.domain = d
		o.pixels = make([]color.RGBA, d.Cells())
		o.initialized = true
	}

	shadeField(o.pixels, snap.Field, o.Tint, o.Alpha)
	rl.UpdateTexture(o.tex, o.pixels)
	o.loaded = true
}

// Draw renders the overlay over the whole plate.
func (o *FieldOverlay) Draw() {
	if !o.loaded {
		return
	}
	rl.DrawTexture(o.tex, 0, 0, rl.White)
}

// Unload frees GPU resources.
func (o *FieldOverlay) Unload() {
	if !o.initialized {
		return
	}
	rl.UnloadTexture(o.tex)
	o.initialized = false
	o.loaded = false
}

// shadeField scales tint by each field value, clamped to [0,1].
func shadeField(pixels []color.RGBA, field []float32, tint color.RGBA, alpha uint8) {
	for i, v := range field {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		pixels[i] = color.RGBA{
			R: uint8(float32(tint.R) * v),
			G: uint8(float32(tint.G) * v),
			B: uint8(float32(tint.B) * v),
			A: uint8(float32(alpha) * v),
		}
	}
}
