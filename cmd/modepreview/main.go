// Mode preview tool - interactive view of one vibration mode with sliders.
//
// Usage: go run ./cmd/modepreview
package main

import (
	"fmt"
	"image/color"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/plate"
	"github.com/pthm-cable/chladni/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

// previewParams holds the slider values.
type previewParams struct {
	M         int
	N         int
	Lambda    float32
	Threshold float32
	Translate bool
}

func defaultParams() previewParams {
	return previewParams{
		M:         1,
		N:         2,
		Lambda:    1.0 / 3,
		Threshold: plate.DefaultNodeThreshold,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Chladni Mode Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	rng := rand.New(rand.NewSource(1))
	domain := plate.Domain{W: gridSize, H: gridSize}

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var snap *plate.Snapshot
	var stats telemetry.FieldStats
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			mode := plate.Mode{M: params.M, N: params.N, Lambda: float64(params.Lambda), Resonant: true}
			var opts plate.FieldOptions
			if params.Translate {
				opts = plate.RandomTranslation(rng, gridSize)
			}
			snap = plate.Bake(domain, mode, 0, opts, params.Threshold, rng)
			stats = telemetry.ComputeFieldStats(snap, params.Threshold)
			updateTexture(texture, snap.Field, params.Threshold)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Mean: %.3f  Std: %.3f  P50: %.3f", stats.Mean, stats.Std, stats.P50), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Nodes: %.1f%%  Still: %.1f%%", stats.NodeFraction*100, stats.StillFraction*100), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Bake: %s", snap.BakeDuration), 15, statsY+40, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Vibration Mode", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		var changed bool
		var v float32

		v, panelY = slider(panelX, panelY, "m (first wave number)", "1", "8", float32(params.M), 1, 8, "%.0f")
		if int(v) != params.M {
			params.M = int(v)
			changed = true
		}

		v, panelY = slider(panelX, panelY, "n (second wave number)", "1", "8", float32(params.N), 1, 8, "%.0f")
		if int(v) != params.N {
			params.N = int(v)
			changed = true
		}

		v, panelY = slider(panelX, panelY, "Lambda (pattern scale)", "0.05", "1.0", params.Lambda, 0.05, 1, "%.4f")
		if v != params.Lambda {
			params.Lambda = v
			changed = true
		}

		v, panelY = slider(panelX, panelY, "Node threshold", "0.001", "0.1", params.Threshold, 0.001, 0.1, "%.3f")
		if v != params.Threshold {
			params.Threshold = v
			changed = true
		}

		if params.M == params.N {
			rl.DrawText("m == n: the field is flat", int32(panelX), int32(panelY), 14, rl.Maroon)
		}
		panelY += 25

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Translate, "Centered", "Translate")) {
			params.Translate = !params.Translate
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			changed = true
		}
		panelY += 55

		// Catalog entry
		rl.DrawText("Catalog entry:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		entry := modeYAML(params)
		rl.DrawText(entry, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy the entry to the clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(entry)
		}

		if changed {
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and returns its value and the next Y.
func slider(x, y float32, label, minText, maxText string, value, minValue, maxValue float32, format string) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		value, minValue, maxValue,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	return v, y + 35
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func modeYAML(p previewParams) string {
	return fmt.Sprintf("- {m: %d, n: %d, lambda: %.4f, resonant: true}", p.M, p.N, p.Lambda)
}

// updateTexture draws the field in blue tones with node cells in sand color.
func updateTexture(texture rl.Texture2D, field []float32, threshold float32) {
	pixels := make([]color.RGBA, len(field))
	for i, v := range field {
		if v < threshold {
			pixels[i] = color.RGBA{R: 242, G: 227, B: 198, A: 255}
			continue
		}
		pixels[i] = color.RGBA{
			R: uint8(10 + v*40),
			G: uint8(20 + v*120),
			B: uint8(60 + v*180),
			A: 255,
		}
	}
	rl.UpdateTexture(texture, pixels)
}
