package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/chladni/plate"
	"github.com/pthm-cable/chladni/telemetry"
)

// onBake runs on the worker goroutine for every snapshot. It only touches
// bakes.csv and lastBake, which nothing on the frame loop writes.
func (g *Game) onBake(snap *plate.Snapshot) {
	fs := telemetry.ComputeFieldStats(snap, g.cfg.Derived.NodeThreshold32)
	g.lastBake.Store(&fs)

	if g.logStats {
		slog.Info("field", "stats", fs)
	}
	if err := g.outputManager.WriteBake(fs); err != nil {
		slog.Error("failed to write bake", "error", err)
	}
}

// flushTelemetry emits sand and perf stats once per stats window.
func (g *Game) flushTelemetry() {
	w := &g.window
	if g.frame-w.start < w.frames {
		return
	}

	now := time.Now()
	respawned := g.Respawned()
	mean, onNodes := telemetry.SandOnField(g.sand.Particles(), g.snap, g.cfg.Derived.NodeThreshold32)

	stats := telemetry.SandStats{
		WindowEnd:     g.frame,
		ElapsedSec:    now.Sub(w.clock).Seconds(),
		Frames:        int(g.frame - w.start),
		Particles:     len(g.sand.Particles()),
		Respawned:     respawned - w.respawnStart,
		Phase:         g.phase().String(),
		MeanMagnitude: mean,
		OnNodes:       onNodes,
	}
	if g.snap != nil {
		stats.Seq = g.snap.Seq
	}
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteSand(stats); err != nil {
		slog.Error("failed to write sand stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, g.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	w.start = g.frame
	w.clock = now
	w.respawnStart = respawned
}

// phase reports what the sand is currently doing. Before the first
// snapshot arrives the plate counts as non-resonant.
func (g *Game) phase() plate.Phase {
	if g.snap.Resonant() {
		return plate.PhaseResonant
	}
	return plate.PhaseNonResonant
}
