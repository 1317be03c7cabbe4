// Package plate implements the Chladni plate engine: the vibration field,
// its descent-direction field, the sand integrator that consumes them, and
// the mode cycle that decides what gets baked next.
package plate

import (
	"fmt"
	"time"
)

// Domain is the W×H grid the plate is sampled on.
type Domain struct {
	W, H int
}

// Cells returns the number of grid cells.
func (d Domain) Cells() int { return d.W * d.H }

// Contains reports whether cell (x, y) is on the grid.
func (d Domain) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < d.W && y < d.H
}

// Degenerate reports whether the domain has no interior cells.
func (d Domain) Degenerate() bool { return d.W <= 2 || d.H <= 2 }

// Mode selects a standing wave: mode numbers M, N and the spatial
// frequency scale Lambda. Resonant is the catalog tag used by the
// tagged cycling strategy.
type Mode struct {
	M, N     int
	Lambda   float64
	Resonant bool
}

func (m Mode) String() string {
	return fmt.Sprintf("(m=%d n=%d λ=%.4g)", m.M, m.N, m.Lambda)
}

// Phase is the state of the plate between two timer ticks.
type Phase uint8

const (
	// PhaseNonResonant means no field is active: sand moves under jitter alone.
	PhaseNonResonant Phase = iota
	// PhaseResonant means a field and gradient are active.
	PhaseResonant
)

func (p Phase) String() string {
	switch p {
	case PhaseResonant:
		return "resonant"
	case PhaseNonResonant:
		return "non_resonant"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Snapshot is one immutable publication from the bake worker to the
// integrator. Resonant snapshots carry both Field and Gradient;
// non-resonant snapshots carry neither.
type Snapshot struct {
	Domain    Domain
	Phase     Phase
	Mode      Mode
	Intensity float32

	Field    []float32 // W*H magnitudes in [0,1], row-major
	Gradient []float32 // 2*W*H unit-or-zero (x,y) pairs

	Seq          uint64
	BakeDuration time.Duration
}

// ResonantSnapshot wraps a baked field and gradient. The slices are taken
// over, not copied. Panics if their sizes do not match the domain.
func ResonantSnapshot(d Domain, mode Mode, intensity float32, field, gradient []float32) *Snapshot {
	if len(field) != d.Cells() || len(gradient) != 2*d.Cells() {
		panic(fmt.Sprintf("plate: snapshot buffers %d/%d do not match domain %dx%d",
			len(field), len(gradient), d.W, d.H))
	}
	return &Snapshot{
		Domain:    d,
		Phase:     PhaseResonant,
		Mode:      mode,
		Intensity: intensity,
		Field:     field,
		Gradient:  gradient,
	}
}

// NonResonantSnapshot returns a snapshot with no field.
func NonResonantSnapshot(d Domain, intensity float32) *Snapshot {
	return &Snapshot{
		Domain:    d,
		Phase:     PhaseNonResonant,
		Intensity: intensity,
	}
}

// Resonant reports whether the snapshot drives sand along a gradient.
// A nil snapshot is not resonant.
func (s *Snapshot) Resonant() bool {
	return s != nil && s.Phase == PhaseResonant && s.Gradient != nil
}

// GradientAt returns the descent direction at cell (x, y), or (0,0) for
// cells off the grid or non-resonant snapshots.
func (s *Snapshot) GradientAt(x, y int) (float32, float32) {
	if !s.Resonant() || !s.Domain.Contains(x, y) {
		return 0, 0
	}
	i := (y*s.Domain.W + x) * 2
	return s.Gradient[i], s.Gradient[i+1]
}

// Bake computes a resonant snapshot on the calling goroutine.
func Bake(d Domain, mode Mode, intensity float32, opts FieldOptions, threshold float32, rng RandSource) *Snapshot {
	start := time.Now()
	field := GenerateField(d, mode, opts)
	gradient := ExtractGradient(field, d, threshold, rng)
	snap := ResonantSnapshot(d, mode, intensity, field, gradient)
	snap.BakeDuration = time.Since(start)
	return snap
}
