package renderer

import "image/color"

// Hex converts a 0xRRGGBB palette entry to an opaque color.
func Hex(c uint32) color.RGBA {
	return color.RGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: 255,
	}
}
