// Package game wires the plate, the bake worker and the renderers into a
// frame loop.
package game

import (
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/chladni/bake"
	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/plate"
	"github.com/pthm-cable/chladni/renderer"
	"github.com/pthm-cable/chladni/telemetry"
	"github.com/pthm-cable/chladni/ui"
)

// Options configures a Game.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
}

// Game holds the complete state of one running plate.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	sand     *plate.Sand
	worker   *bake.Worker
	debounce *bake.Debouncer
	snap     *plate.Snapshot // Latest received; nil until the first bake lands

	frame     int64
	paused    bool
	headless  bool
	showField bool
	showPanel bool

	// Telemetry
	logStats      bool
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	lastBake      atomic.Pointer[telemetry.FieldStats]
	window        statsWindow

	// Respawns from sand that has since been replaced by a resize
	respawnBase int

	// Rendering (nil in headless mode)
	sandRenderer *renderer.SandRenderer
	fieldOverlay *renderer.FieldOverlay
	hud          *ui.HUD
	platePanel   *ui.PlatePanel
}

// statsWindow tracks the frames since the last telemetry flush.
type statsWindow struct {
	frames       int64
	start        int64
	clock        time.Time
	respawnStart int
}

// NewGameWithOptions creates a game sized to the configured screen and
// starts its bake worker. Graphics resources are created only when not
// headless, and require an open raylib window.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	cycle, err := cycleFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		seed:          opts.Seed,
		debounce:      bake.NewDebouncer(cfg.Derived.ResizeDebounce),
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
		window: statsWindow{
			frames: statsWindowFrames(cfg),
			clock:  time.Now(),
		},
	}

	g.worker = bake.NewWorker(cycle, bake.Options{
		Interval:  cfg.Derived.BakeInterval,
		Threshold: cfg.Derived.NodeThreshold32,
		Translate: cfg.Plate.Translate,
		Seed:      opts.Seed + 1,
		OnBake:    g.onBake,
	})

	if !g.headless {
		g.sandRenderer = renderer.NewSandRenderer(
			renderer.Hex(cfg.Palette.Background),
			renderer.Hex(cfg.Palette.Settled),
			renderer.Hex(cfg.Palette.Agitated),
		)
		g.fieldOverlay = renderer.NewFieldOverlay(renderer.Hex(cfg.Palette.Agitated), 160)
		g.hud = ui.NewHUD()
		g.platePanel = ui.NewPlatePanel(240)
	}

	g.worker.Start()
	g.resize(plate.Domain{W: cfg.Screen.Width, H: cfg.Screen.Height})

	slog.Info("plate ready",
		"seed", opts.Seed,
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"particles", cfg.Plate.Particles,
		"strategy", cfg.Cycle.Strategy,
		"modes", cycle.Catalog().Len(),
	)

	return g, nil
}

// resize replaces the sand for a new plate and asks the worker for a
// fresh pattern.
func (g *Game) resize(d plate.Domain) {
	if g.sand != nil {
		g.respawnBase += g.sand.Respawned()
	}

	g.sand = plate.NewSand(d, g.cfg.Plate.Particles, g.rng)
	g.sand.Slack = g.cfg.Derived.Slack32
	g.sand.Unsettled = g.cfg.Derived.AgitatedJitter

	if g.sandRenderer != nil {
		g.sandRenderer.Resize(d.W, d.H)
	}
	g.worker.Resize(d)

	slog.Info("plate resized", "width", d.W, "height", d.H)
}

// pollSnapshot takes the latest baked snapshot, if any, without blocking.
func (g *Game) pollSnapshot() {
	select {
	case snap := <-g.worker.Snapshots():
		g.snap = snap
	default:
	}
}

// step runs one frame of the plate.
func (g *Game) step() {
	g.perfCollector.StartUpdate()

	g.perfCollector.StartPhase(telemetry.PhaseResize)
	if d, ok := g.debounce.Ready(time.Now()); ok && d != g.sand.Domain() {
		g.resize(d)
	}

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.pollSnapshot()

	if !g.paused {
		g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
		g.sand.Step(g.snap, g.cfg.Derived.StepSize32)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.frame++
	g.flushTelemetry()

	g.perfCollector.EndUpdate()
}

// Update runs one frame in graphics mode.
func (g *Game) Update() {
	g.handleInput()
	g.step()
}

// UpdateHeadless runs one frame without graphics or input.
func (g *Game) UpdateHeadless() {
	g.step()
}

// Frame returns the number of frames run so far.
func (g *Game) Frame() int64 {
	return g.frame
}

// Snapshot returns the snapshot the sand is currently following.
func (g *Game) Snapshot() *plate.Snapshot {
	return g.snap
}

// Sand returns the current grains.
func (g *Game) Sand() *plate.Sand {
	return g.sand
}

// Respawned returns how many grains have fallen off over the whole run.
func (g *Game) Respawned() int {
	return g.respawnBase + g.sand.Respawned()
}

// Unload stops the worker and releases output files and GPU resources.
func (g *Game) Unload() {
	g.worker.Stop()

	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if g.sandRenderer != nil {
		g.sandRenderer.Unload()
	}
	if g.fieldOverlay != nil {
		g.fieldOverlay.Unload()
	}
}
