package bake

import (
	"time"

	"github.com/pthm-cable/chladni/plate"
)

// Debouncer coalesces a burst of resize events into one. It is polled from
// the frame loop rather than firing on a timer goroutine, so the caller
// stays single-threaded.
type Debouncer struct {
	Delay time.Duration

	pending  bool
	deadline time.Time
	domain   plate.Domain
}

// NewDebouncer creates a debouncer that fires delay after the last Set.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{Delay: delay}
}

// Set records a new size and pushes the deadline back.
func (d *Debouncer) Set(domain plate.Domain, now time.Time) {
	d.domain = domain
	d.deadline = now.Add(d.Delay)
	d.pending = true
}

// Pending reports whether a size is waiting to fire.
func (d *Debouncer) Pending() bool { return d.pending }

// Ready returns the latest size once the deadline has passed, at most once
// per burst.
func (d *Debouncer) Ready(now time.Time) (plate.Domain, bool) {
	if !d.pending || now.Before(d.deadline) {
		return plate.Domain{}, false
	}
	d.pending = false
	return d.domain, true
}
