package plate

import (
	"math"
)

// DefaultSlack is how far past the plate edge a grain may wander before it
// falls off and is replaced.
const DefaultSlack = 100

// Particle is one grain of sand in continuous plate coordinates.
type Particle struct {
	X, Y float32
}

// Sand owns the grains on a plate. It is created for one domain and
// dropped when the domain changes.
type Sand struct {
	domain    Domain
	particles []Particle
	rng       RandSource

	// Slack is the respawn margin around the plate.
	Slack float32
	// Unsettled is the jitter intensity used when no snapshot is available.
	Unsettled float32

	respawned int
}

// NewSand scatters count grains uniformly over d.
func NewSand(d Domain, count int, rng RandSource) *Sand {
	s := &Sand{
		domain:    d,
		particles: make([]Particle, count),
		rng:       rng,
		Slack:     DefaultSlack,
	}
	for i := range s.particles {
		s.respawn(&s.particles[i])
	}
	s.respawned = 0
	return s
}

// Domain returns the plate the grains live on.
func (s *Sand) Domain() Domain { return s.domain }

// Particles exposes the grains for rendering. Callers must not keep the
// slice past the next Step.
func (s *Sand) Particles() []Particle { return s.particles }

// Respawned returns how many grains fell off the plate and were replaced.
func (s *Sand) Respawned() int { return s.respawned }

// Step advances every grain once: stepSize along the gradient of its
// nearest cell, then uniform jitter in [-I/2, I/2] on each axis, where I is
// the snapshot's intensity. Without a snapshot the grains only jitter, at
// the Unsettled intensity. Grains further than Slack outside the plate are
// respawned at a random position on it.
func (s *Sand) Step(snap *Snapshot, stepSize float32) {
	intensity := s.Unsettled
	if snap != nil {
		intensity = snap.Intensity
	}
	resonant := snap.Resonant()

	minX, minY := -s.Slack, -s.Slack
	maxX := float32(s.domain.W) + s.Slack
	maxY := float32(s.domain.H) + s.Slack

	for i := range s.particles {
		p := &s.particles[i]

		if resonant {
			gx, gy := snap.GradientAt(roundCell(p.X), roundCell(p.Y))
			p.X += stepSize * gx
			p.Y += stepSize * gy
		}

		p.X += (s.rng.Float32() - 0.5) * intensity
		p.Y += (s.rng.Float32() - 0.5) * intensity

		if p.X < minX || p.X > maxX || p.Y < minY || p.Y > maxY {
			s.respawn(p)
		}
	}
}

func (s *Sand) respawn(p *Particle) {
	p.X = s.rng.Float32() * float32(s.domain.W)
	p.Y = s.rng.Float32() * float32(s.domain.H)
	s.respawned++
}

// roundCell maps a coordinate to its nearest cell index.
func roundCell(v float32) int {
	return int(math.Floor(float64(v) + 0.5))
}

// Shade names the palette entry grains are drawn with.
type Shade uint8

const (
	ShadeAgitated Shade = iota
	ShadeSettled
)

// Color reports which palette entry to draw the grains with under snap.
// Grains only look settled while a resonant field for their own plate is
// current.
func (s *Sand) Color(snap *Snapshot) Shade {
	if snap.Resonant() && snap.Domain == s.domain {
		return ShadeSettled
	}
	return ShadeAgitated
}
