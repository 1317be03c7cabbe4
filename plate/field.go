package plate

import (
	"math"
)

// RandSource is the subset of *math/rand.Rand the plate draws from.
type RandSource interface {
	Intn(n int) int
	Float32() float32
	Float64() float64
}

// FieldOptions shifts where the pattern lands on the plate. Offsets are in
// cell units and are applied before normalization, so lambda keeps its
// meaning.
type FieldOptions struct {
	TranslateX, TranslateY float64
}

// RandomTranslation draws both offsets uniformly over [0, H).
func RandomTranslation(rng RandSource, h int) FieldOptions {
	return FieldOptions{
		TranslateX: rng.Float64() * float64(h),
		TranslateY: rng.Float64() * float64(h),
	}
}

// GenerateField evaluates the Chladni equation over every cell of d.
//
// Coordinates are normalized by their distance from the far corner,
// X = |H-x|/H and Y = |H-y|/H (both by H so the pattern stays square on wide
// plates), then scaled by π/λ:
//
//	cos(n·X·π/λ)·cos(m·Y·π/λ) − cos(m·X·π/λ)·cos(n·Y·π/λ)
//
// The result, in [-2,2], is halved and folded so troughs become crests,
// giving magnitudes in [0,1] with nodes at 0.
func GenerateField(d Domain, mode Mode, opts FieldOptions) []float32 {
	field := make([]float32, d.Cells())
	GenerateFieldRows(field, d, mode, opts, 0, d.H)
	return field
}

// GenerateFieldRows fills rows [y0, y1) of field. Bands do not overlap, so
// callers may fill disjoint bands concurrently.
func GenerateFieldRows(field []float32, d Domain, mode Mode, opts FieldOptions, y0, y1 int) {
	h := float64(d.H)
	k := math.Pi / mode.Lambda
	m := float64(mode.M) * k
	n := float64(mode.N) * k

	for y := y0; y < y1; y++ {
		ny := math.Abs(h-(float64(y)+opts.TranslateY)) / h
		cosMY := math.Cos(m * ny)
		cosNY := math.Cos(n * ny)
		row := field[y*d.W : (y+1)*d.W]
		for x := range row {
			nx := math.Abs(h-(float64(x)+opts.TranslateX)) / h
			v := (math.Cos(n*nx)*cosMY - math.Cos(m*nx)*cosNY) / 2
			row[x] = float32(math.Abs(v))
		}
	}
}
