package renderer

import (
	"image/color"
	"testing"

	"github.com/pthm-cable/chladni/plate"
)

func TestHex(t *testing.T) {
	got := Hex(0xf2e3c6)
	want := color.RGBA{R: 0xf2, G: 0xe3, B: 0xc6, A: 255}
	if got != want {
		t.Errorf("Hex(0xf2e3c6) = %v, want %v", got, want)
	}
}

func TestRasterize(t *testing.T) {
	bg := color.RGBA{A: 255}
	fg := color.RGBA{R: 255, A: 255}
	pixels := make([]color.RGBA, 4*3)
	for i := range pixels {
		pixels[i] = fg // stale frame
	}

	rasterize(pixels, 4, 3, []plate.Particle{
		{X: 1.9, Y: 0.2},
		{X: 3, Y: 2},
		{X: -0.5, Y: 1}, // off the left edge
		{X: 4, Y: 0},    // off the right edge
	}, bg, fg)

	lit := 0
	for i, p := range pixels {
		if p == fg {
			lit++
			if i != 1 && i != 2*4+3 {
				t.Errorf("unexpected lit pixel %d", i)
			}
		}
	}
	if lit != 2 {
		t.Errorf("expected 2 lit pixels, got %d", lit)
	}
}

func TestSandRendererColor(t *testing.T) {
	settled := Hex(0xffffff)
	agitated := Hex(0x0000ff)
	r := NewSandRenderer(Hex(0), settled, agitated)

	if r.Color(plate.ShadeSettled) != settled {
		t.Error("settled shade should map to the settled color")
	}
	if r.Color(plate.ShadeAgitated) != agitated {
		t.Error("agitated shade should map to the agitated color")
	}
}

func TestShadeField(t *testing.T) {
	tint := color.RGBA{R: 200, G: 100, B: 0, A: 255}
	pixels := make([]color.RGBA, 3)
	shadeField(pixels, []float32{0, 0.5, 2}, tint, 200)

	if pixels[0] != (color.RGBA{}) {
		t.Errorf("node cell should be transparent, got %v", pixels[0])
	}
	if pixels[1] != (color.RGBA{R: 100, G: 50, B: 0, A: 100}) {
		t.Errorf("half cell = %v", pixels[1])
	}
	if pixels[2] != (color.RGBA{R: 200, G: 100, B: 0, A: 200}) {
		t.Errorf("clamped cell = %v", pixels[2])
	}
}
