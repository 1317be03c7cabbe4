package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/chladni/plate"
)

// FieldStats summarizes one published snapshot.
type FieldStats struct {
	Seq    uint64  `csv:"seq"`
	Phase  string  `csv:"phase"`
	M      int     `csv:"m"`
	N      int     `csv:"n"`
	Lambda float64 `csv:"lambda"`
	Width  int     `csv:"width"`
	Height int     `csv:"height"`
	BakeMS float64 `csv:"bake_ms"`

	// Magnitude distribution over all cells
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`

	NodeFraction  float64 `csv:"node_fraction"`  // Cells below the node threshold
	StillFraction float64 `csv:"still_fraction"` // Cells with a zero gradient
}

// Summarize returns mean, population std dev, and the 10/50/90th
// percentiles of values. Returns zeros for an empty slice.
func Summarize(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	switch n {
	case 0:
		return 0, 0, 0, 0, 0
	case 1:
		v := values[0]
		return v, 0, v, v, v
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std = math.Sqrt(variance)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// ComputeFieldStats summarizes a snapshot. Non-resonant snapshots only
// fill the header.
func ComputeFieldStats(snap *plate.Snapshot, threshold float32) FieldStats {
	fs := FieldStats{
		Seq:    snap.Seq,
		Phase:  snap.Phase.String(),
		M:      snap.Mode.M,
		N:      snap.Mode.N,
		Lambda: snap.Mode.Lambda,
		Width:  snap.Domain.W,
		Height: snap.Domain.H,
		BakeMS: float64(snap.BakeDuration.Microseconds()) / 1000,
	}
	if !snap.Resonant() || len(snap.Field) == 0 {
		return fs
	}

	values := make([]float64, len(snap.Field))
	nodes := 0
	for i, v := range snap.Field {
		values[i] = float64(v)
		if v < threshold {
			nodes++
		}
	}
	fs.Mean, fs.Std, fs.P10, fs.P50, fs.P90 = Summarize(values)
	fs.NodeFraction = float64(nodes) / float64(len(values))

	still := 0
	for i := 0; i < len(snap.Gradient); i += 2 {
		if snap.Gradient[i] == 0 && snap.Gradient[i+1] == 0 {
			still++
		}
	}
	fs.StillFraction = float64(still) / float64(len(snap.Field))

	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (fs FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("seq", fs.Seq),
		slog.String("phase", fs.Phase),
		slog.Int("m", fs.M),
		slog.Int("n", fs.N),
		slog.Float64("lambda", fs.Lambda),
		slog.Float64("bake_ms", fs.BakeMS),
		slog.Float64("mean", fs.Mean),
		slog.Float64("std", fs.Std),
		slog.Float64("node_fraction", fs.NodeFraction),
		slog.Float64("still_fraction", fs.StillFraction),
	)
}

// SandStats aggregates the render loop over one stats window.
type SandStats struct {
	WindowEnd  int64   `csv:"window_end"` // Frame index
	ElapsedSec float64 `csv:"elapsed_sec"`
	Frames     int     `csv:"frames"`
	Particles  int     `csv:"particles"`
	Respawned  int     `csv:"respawned"` // Grains that fell off during the window
	Phase      string  `csv:"phase"`
	Seq        uint64  `csv:"seq"`

	// How well the sand has found the nodes of the current field
	MeanMagnitude float64 `csv:"mean_magnitude"`
	OnNodes       float64 `csv:"on_nodes"`
}

// SandOnField samples the field under every grain. It returns the mean
// magnitude and the fraction of grains sitting on node cells. Both are
// zero without a resonant snapshot.
func SandOnField(particles []plate.Particle, snap *plate.Snapshot, threshold float32) (mean, onNodes float64) {
	if !snap.Resonant() || len(particles) == 0 {
		return 0, 0
	}

	d := snap.Domain
	var sum float64
	var nodes, sampled int
	for _, p := range particles {
		x := int(math.Floor(float64(p.X) + 0.5))
		y := int(math.Floor(float64(p.Y) + 0.5))
		if !d.Contains(x, y) {
			continue
		}
		v := snap.Field[y*d.W+x]
		sum += float64(v)
		if v < threshold {
			nodes++
		}
		sampled++
	}
	if sampled == 0 {
		return 0, 0
	}
	return sum / float64(sampled), float64(nodes) / float64(sampled)
}

// LogStats logs the window stats using slog.
func (s SandStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"elapsed_sec", s.ElapsedSec,
		"frames", s.Frames,
		"particles", s.Particles,
		"respawned", s.Respawned,
		"phase", s.Phase,
		"seq", s.Seq,
		"mean_magnitude", s.MeanMagnitude,
		"on_nodes", s.OnNodes,
	)
}
