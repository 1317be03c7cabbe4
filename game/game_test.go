package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/plate"
)

func init() {
	config.MustInit("testdata/small.yaml")
}

func newHeadless(t *testing.T, outputDir string) *Game {
	t.Helper()
	g, err := NewGameWithOptions(Options{Seed: 7, Headless: true, OutputDir: outputDir})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

// runUntil steps the game until cond holds or five seconds pass.
func runUntil(t *testing.T, g *Game, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		g.UpdateHeadless()
		time.Sleep(time.Millisecond)
	}
}

func TestHeadlessReceivesSnapshot(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	if g.Snapshot() != nil {
		t.Fatal("expected no snapshot before the first frame")
	}
	if n := len(g.Sand().Particles()); n != 500 {
		t.Fatalf("expected 500 grains, got %d", n)
	}

	runUntil(t, g, func() bool { return g.Snapshot() != nil })

	snap := g.Snapshot()
	if !snap.Resonant() {
		t.Errorf("first snapshot should be resonant, got %v", snap.Phase)
	}
	if snap.Domain != (plate.Domain{W: 160, H: 120}) {
		t.Errorf("unexpected domain %v", snap.Domain)
	}
	if g.Sand().Color(snap) != plate.ShadeSettled {
		t.Error("sand should look settled under a resonant snapshot")
	}
}

func TestHeadlessAlternates(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	var sawResonant bool
	runUntil(t, g, func() bool {
		snap := g.Snapshot()
		if snap.Resonant() {
			sawResonant = true
		}
		return sawResonant && snap != nil && !snap.Resonant()
	})
}

func TestResizeAfterDebounce(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	before := g.Sand()
	d := plate.Domain{W: 80, H: 60}
	g.debounce.Set(d, time.Now().Add(-time.Second))
	g.UpdateHeadless()

	if g.Sand() == before {
		t.Fatal("expected the sand to be replaced")
	}
	if g.Sand().Domain() != d {
		t.Errorf("expected domain %v, got %v", d, g.Sand().Domain())
	}

	runUntil(t, g, func() bool {
		snap := g.Snapshot()
		return snap != nil && snap.Domain == d
	})
}

func TestStatsWindowFrames(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Screen.TargetFPS = 60
	cfg.Telemetry.StatsWindow = 0.5
	if got := statsWindowFrames(&cfg); got != 30 {
		t.Errorf("expected 30 frames, got %d", got)
	}
	cfg.Telemetry.StatsWindow = 0
	if got := statsWindowFrames(&cfg); got != 1 {
		t.Errorf("expected at least one frame, got %d", got)
	}
}

func TestCycleFromConfigRejectsBadStrategy(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Cycle.Strategy = "shuffle"
	if _, err := cycleFromConfig(&cfg); err == nil {
		t.Error("expected an error for an unknown strategy")
	}

	cfg = *config.Cfg()
	cfg.Modes = nil
	if _, err := cycleFromConfig(&cfg); err == nil {
		t.Error("expected an error for an empty catalog")
	}
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, dir)

	runUntil(t, g, func() bool { return g.Snapshot() != nil && g.Frame() > 40 })
	g.Unload()

	for _, name := range []string{"config.yaml", "bakes.csv", "sand.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "bakes.csv"))
	if err != nil {
		t.Fatalf("reading bakes.csv: %v", err)
	}
	if !strings.Contains(string(data), "resonant") {
		t.Errorf("expected a resonant bake row, got:\n%s", data)
	}
}
