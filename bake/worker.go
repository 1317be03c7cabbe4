// Package bake runs the field and gradient computation off the render
// loop and hands finished snapshots to it.
package bake

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/chladni/plate"
)

// Options configures a Worker.
type Options struct {
	Interval  time.Duration // Time between cycle ticks; 0 bakes only on resize
	Threshold float32       // Node threshold for gradient extraction
	Translate bool          // Randomly offset each pattern
	Seed      int64
	Workers   int // Row bands per bake (0 = GOMAXPROCS)

	// OnBake, if set, is called on the worker goroutine after each snapshot
	// is built and before it is published. It must not modify the snapshot.
	OnBake func(*plate.Snapshot)
}

// Worker owns the mode cycle and bakes snapshots on its own goroutine.
// Snapshots are handed over on a one-slot channel where the latest one
// always wins.
type Worker struct {
	opts  Options
	cycle *plate.Cycle
	rng   *rand.Rand
	pool  *bandPool
	seq   uint64

	resizeChan chan plate.Domain
	snapChan   chan *plate.Snapshot
	stopChan   chan struct{}
	wg         sync.WaitGroup
	running    bool
}

// NewWorker creates a stopped worker. The cycle is owned by the worker
// from here on.
func NewWorker(cycle *plate.Cycle, opts Options) *Worker {
	if opts.Threshold == 0 {
		opts.Threshold = plate.DefaultNodeThreshold
	}
	return &Worker{
		opts:       opts,
		cycle:      cycle,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		pool:       newBandPool(opts.Workers),
		resizeChan: make(chan plate.Domain, 1),
		snapChan:   make(chan *plate.Snapshot, 1),
		stopChan:   make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start() {
	if w.running {
		return
	}
	w.running = true
	w.pool.start()
	w.wg.Add(1)
	go w.run()
}

// Stop waits for the current bake, if any, to finish and shuts the worker
// down. Unconsumed snapshots are dropped.
func (w *Worker) Stop() {
	if !w.running {
		return
	}
	close(w.stopChan)
	w.wg.Wait()
	w.pool.stop()
	w.running = false
}

// Resize tells the worker the plate is now d. It never blocks; if an
// earlier size is still queued it is replaced.
func (w *Worker) Resize(d plate.Domain) {
	for {
		select {
		case w.resizeChan <- d:
			return
		default:
		}
		select {
		case <-w.resizeChan:
		default:
		}
	}
}

// Snapshots delivers baked snapshots. Receivers should poll without
// blocking and keep the last one received.
func (w *Worker) Snapshots() <-chan *plate.Snapshot {
	return w.snapChan
}

func (w *Worker) run() {
	defer w.wg.Done()

	var domain plate.Domain
	var ticker *time.Ticker
	var tick <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-w.stopChan:
			return

		case d := <-w.resizeChan:
			domain = d
			w.publish(w.bake(domain, w.cycle.Restart()))

			// The timer starts with the first plate and is not reset by later resizes
			if ticker == nil && w.opts.Interval > 0 {
				ticker = time.NewTicker(w.opts.Interval)
				tick = ticker.C
			}

		case <-tick:
			w.publish(w.bake(domain, w.cycle.Next()))
		}
	}
}

// publish replaces any snapshot the consumer has not picked up yet.
func (w *Worker) publish(snap *plate.Snapshot) {
	for {
		select {
		case w.snapChan <- snap:
			return
		default:
		}
		select {
		case <-w.snapChan:
		default:
		}
	}
}

// bake turns a plan into a snapshot. Buffers are freshly allocated so the
// consumer owns them outright once published.
func (w *Worker) bake(d plate.Domain, plan plate.Plan) *plate.Snapshot {
	w.seq++
	start := time.Now()

	var snap *plate.Snapshot
	if plan.Phase == plate.PhaseNonResonant {
		snap = plate.NonResonantSnapshot(d, plan.Intensity)
	} else {
		slog.Debug("baking", "seq", w.seq, "mode", plan.Mode.String(), "width", d.W, "height", d.H)

		var opts plate.FieldOptions
		if w.opts.Translate {
			opts = plate.RandomTranslation(w.rng, d.H)
		}

		field := make([]float32, d.Cells())
		gradient := make([]float32, 2*d.Cells())
		bands := w.pool.bands(d.H)

		w.pool.run(bands, func(b band) {
			plate.GenerateFieldRows(field, d, plan.Mode, opts, b.y0, b.y1)
		})

		// One rng per band: *rand.Rand is not safe for concurrent use
		rngs := make([]*rand.Rand, len(bands))
		for i := range rngs {
			rngs[i] = rand.New(rand.NewSource(w.rng.Int63()))
		}
		w.pool.run(bands, func(b band) {
			plate.ExtractGradientRows(gradient, field, d, w.opts.Threshold, rngs[b.index], b.y0, b.y1)
		})

		snap = plate.ResonantSnapshot(d, plan.Mode, plan.Intensity, field, gradient)
	}

	snap.Seq = w.seq
	snap.BakeDuration = time.Since(start)

	slog.Info("bake complete",
		"seq", snap.Seq,
		"phase", snap.Phase.String(),
		"mode_index", plan.ModeIndex,
		"m", plan.Mode.M,
		"n", plan.Mode.N,
		"lambda", plan.Mode.Lambda,
		"width", d.W,
		"height", d.H,
		"elapsed_ms", snap.BakeDuration.Milliseconds(),
	)

	if w.opts.OnBake != nil {
		w.opts.OnBake(snap)
	}
	return snap
}
