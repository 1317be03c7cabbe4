package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/plate"
)

// SandRenderer draws grains as single pixels into a screen-sized texture.
type SandRenderer struct {
	Background color.RGBA
	Settled    color.RGBA
	Agitated   color.RGBA

	tex         rl.Texture2D
	pixels      []color.RGBA
	w, h        int
	initialized bool
}

// NewSandRenderer creates a renderer with the given palette.
func NewSandRenderer(background, settled, agitated color.RGBA) *SandRenderer {
	return &SandRenderer{
		Background: background,
		Settled:    settled,
		Agitated:   agitated,
	}
}

// Resize reallocates the pixel buffer and texture (must be called after
// the raylib window is created).
func (r *SandRenderer) Resize(w, h int) {
	if r.initialized && w == r.w && h == r.h {
		return
	}
	if w < 1 || h < 1 {
		return
	}
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}

	r.w, r.h = w, h
	r.pixels = make([]color.RGBA, w*h)

	img := rl.GenImageColor(w, h, r.Background)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	r.initialized = true
}

// Color maps a shade to its palette entry.
func (r *SandRenderer) Color(shade plate.Shade) color.RGBA {
	if shade == plate.ShadeSettled {
		return r.Settled
	}
	return r.Agitated
}

// Draw blits the grains in the given shade.
func (r *SandRenderer) Draw(particles []plate.Particle, shade plate.Shade) {
	if !r.initialized {
		return
	}
	rasterize(r.pixels, r.w, r.h, particles, r.Background, r.Color(shade))
	rl.UpdateTexture(r.tex, r.pixels)
	rl.DrawTexture(r.tex, 0, 0, rl.White)
}

// Unload frees GPU resources.
func (r *SandRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// rasterize clears pixels to bg and plots every grain that lands on the
// w by h image in fg.
func rasterize(pixels []color.RGBA, w, h int, particles []plate.Particle, bg, fg color.RGBA) {
	for i := range pixels {
		pixels[i] = bg
	}
	for _, p := range particles {
		x := int(math.Floor(float64(p.X)))
		y := int(math.Floor(float64(p.Y)))
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		pixels[y*w+x] = fg
	}
}
