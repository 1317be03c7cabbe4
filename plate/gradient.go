package plate

import (
	"fmt"
	"math"
)

// DefaultNodeThreshold is the magnitude below which a cell already counts
// as a node.
const DefaultNodeThreshold = 1e-2

// neighbor is one of the 8 cells around a center cell, with the unit
// direction pointing at it.
type neighbor struct {
	dx, dy int
	ux, uy float32
}

// neighbors lists the 3×3 ring in raster order (north-west first).
var neighbors = buildNeighbors()

func buildNeighbors() [8]neighbor {
	var out [8]neighbor
	i := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ux, uy := unitOffset(dx, dy)
			out[i] = neighbor{dx: dx, dy: dy, ux: ux, uy: uy}
			i++
		}
	}
	return out
}

// unitOffset divides an offset by its length so diagonal steps are no
// longer than axial ones. A non-finite result is a programming error.
func unitOffset(dx, dy int) (float32, float32) {
	l := math.Hypot(float64(dx), float64(dy))
	ux, uy := float64(dx)/l, float64(dy)/l
	if math.IsNaN(ux) || math.IsNaN(uy) || math.IsInf(ux, 0) || math.IsInf(uy, 0) {
		panic(fmt.Sprintf("plate: non-finite direction for offset (%d,%d)", dx, dy))
	}
	return float32(ux), float32(uy)
}

// candidates accumulates the directions tied for the lowest magnitude seen
// so far. At most the stay-put option plus 8 neighbors fit.
type candidates struct {
	dirs [9][2]float32
	n    int
	min  float32
}

// reset seeds the set with the stay-put option.
func (c *candidates) reset() {
	c.dirs[0] = [2]float32{0, 0}
	c.n = 1
	c.min = float32(math.Inf(1))
}

// offer considers a neighbor with magnitude v. A strictly lower magnitude
// replaces the whole set; an equal one joins it.
func (c *candidates) offer(v, ux, uy float32) {
	if v > c.min {
		return
	}
	if v < c.min {
		c.min = v
		c.n = 0
	}
	c.dirs[c.n] = [2]float32{ux, uy}
	c.n++
}

// pick draws uniformly from the set. A single candidate is returned
// without touching rng.
func (c *candidates) pick(rng RandSource) (float32, float32) {
	if c.n == 1 {
		return c.dirs[0][0], c.dirs[0][1]
	}
	d := c.dirs[rng.Intn(c.n)]
	return d[0], d[1]
}

// ExtractGradient derives, for every interior cell, a unit direction toward
// the lowest of its 8 neighbors. Ties are broken uniformly at random so no
// raster direction is favored. Cells already below threshold, and every
// border cell, get (0,0).
func ExtractGradient(field []float32, d Domain, threshold float32, rng RandSource) []float32 {
	gradient := make([]float32, 2*d.Cells())
	ExtractGradientRows(gradient, field, d, threshold, rng, 0, d.H)
	return gradient
}

// ExtractGradientRows fills rows [y0, y1) of gradient, which must be zeroed.
// Border rows and columns inside the band are left untouched.
func ExtractGradientRows(gradient, field []float32, d Domain, threshold float32, rng RandSource, y0, y1 int) {
	if d.Degenerate() {
		return
	}
	if y0 < 1 {
		y0 = 1
	}
	if y1 > d.H-1 {
		y1 = d.H - 1
	}

	w := d.W
	var c candidates
	for y := y0; y < y1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if field[i] < threshold {
				// Already a node
				continue
			}

			c.reset()
			for _, nb := range neighbors {
				c.offer(field[i+nb.dy*w+nb.dx], nb.ux, nb.uy)
			}

			gx, gy := c.pick(rng)
			gradient[i*2] = gx
			gradient[i*2+1] = gy
		}
	}
}
