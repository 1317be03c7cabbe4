package plate

import (
	"fmt"
)

// Catalog is an ordered, endlessly repeating list of modes.
type Catalog struct {
	modes []Mode
	next  int
}

// NewCatalog copies modes into a catalog starting at index 0. Panics on an
// empty list.
func NewCatalog(modes []Mode) *Catalog {
	if len(modes) == 0 {
		panic("plate: empty mode catalog")
	}
	return &Catalog{modes: append([]Mode(nil), modes...)}
}

// Len returns the number of modes.
func (c *Catalog) Len() int { return len(c.modes) }

// Cursor returns the index the next activation will use.
func (c *Catalog) Cursor() int { return c.next }

// Advance returns the mode at the cursor and its index, then moves the
// cursor forward, wrapping at the end.
func (c *Catalog) Advance() (Mode, int) {
	i := c.next
	c.next = (c.next + 1) % len(c.modes)
	return c.modes[i], i
}

// Strategy selects how the cycle moves through the catalog.
type Strategy uint8

const (
	// Alternating toggles between a baked mode and a non-resonant phase on
	// every tick. Catalog tags are ignored.
	Alternating Strategy = iota
	// Tagged bakes a mode on every tick and uses its Resonant tag to pick
	// the jitter intensity. There is no non-resonant phase.
	Tagged
)

// ParseStrategy maps a config name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "alternating":
		return Alternating, nil
	case "tagged":
		return Tagged, nil
	}
	return 0, fmt.Errorf("unknown cycle strategy %q", name)
}

func (s Strategy) String() string {
	if s == Tagged {
		return "tagged"
	}
	return "alternating"
}

// Plan is what the bake worker should publish next.
type Plan struct {
	Phase     Phase
	Mode      Mode
	ModeIndex int
	Intensity float32
}

// Cycle is the resonant/non-resonant state machine driven by the bake timer.
type Cycle struct {
	catalog  *Catalog
	strategy Strategy
	state    Phase

	resonantJitter float32
	agitatedJitter float32
}

// NewCycle creates a cycle in the non-resonant state, so the first Next
// activates catalog entry 0.
func NewCycle(catalog *Catalog, strategy Strategy, resonantJitter, agitatedJitter float32) *Cycle {
	return &Cycle{
		catalog:        catalog,
		strategy:       strategy,
		state:          PhaseNonResonant,
		resonantJitter: resonantJitter,
		agitatedJitter: agitatedJitter,
	}
}

// State returns the current phase.
func (c *Cycle) State() Phase { return c.state }

// Catalog returns the underlying catalog.
func (c *Cycle) Catalog() *Catalog { return c.catalog }

// Next handles one timer tick.
func (c *Cycle) Next() Plan {
	if c.strategy == Alternating && c.state == PhaseResonant {
		c.state = PhaseNonResonant
		return Plan{Phase: PhaseNonResonant, ModeIndex: -1, Intensity: c.agitatedJitter}
	}
	return c.activate()
}

// Restart forces a resonant activation regardless of the current phase.
// Used when the domain changes and the plate must be re-baked.
func (c *Cycle) Restart() Plan {
	return c.activate()
}

func (c *Cycle) activate() Plan {
	mode, idx := c.catalog.Advance()
	c.state = PhaseResonant

	intensity := c.resonantJitter
	if c.strategy == Tagged && !mode.Resonant {
		intensity = c.agitatedJitter
	}
	return Plan{Phase: PhaseResonant, Mode: mode, ModeIndex: idx, Intensity: intensity}
}
