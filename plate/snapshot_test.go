package plate

import (
	"math/rand"
	"testing"
)

func TestNonResonantSnapshot(t *testing.T) {
	snap := NonResonantSnapshot(Domain{W: 10, H: 10}, 8)

	if snap.Resonant() {
		t.Error("expected non-resonant snapshot")
	}
	if snap.Field != nil || snap.Gradient != nil {
		t.Error("expected field and gradient to be absent together")
	}
	if gx, gy := snap.GradientAt(5, 5); gx != 0 || gy != 0 {
		t.Errorf("expected zero gradient, got (%f,%f)", gx, gy)
	}
}

func TestNilSnapshotIsNotResonant(t *testing.T) {
	var snap *Snapshot
	if snap.Resonant() {
		t.Error("expected nil snapshot to be non-resonant")
	}
	if gx, gy := snap.GradientAt(0, 0); gx != 0 || gy != 0 {
		t.Errorf("expected zero gradient from nil snapshot, got (%f,%f)", gx, gy)
	}
}

func TestResonantSnapshotSizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched buffers")
		}
	}()
	ResonantSnapshot(Domain{W: 4, H: 4}, Mode{}, 1, make([]float32, 16), make([]float32, 16))
}

func TestGradientAtOutOfBounds(t *testing.T) {
	d := Domain{W: 3, H: 3}
	snap := uniformGradient(d, 1, 0, 1)

	for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if gx, gy := snap.GradientAt(c[0], c[1]); gx != 0 || gy != 0 {
			t.Errorf("cell %v: expected (0,0) off the grid, got (%f,%f)", c, gx, gy)
		}
	}
	if gx, _ := snap.GradientAt(1, 1); gx != 1 {
		t.Errorf("expected on-grid sample 1, got %f", gx)
	}
}

func TestBake(t *testing.T) {
	d := Domain{W: 60, H: 40}
	mode := Mode{M: 2, N: 3, Lambda: 0.3333}
	snap := Bake(d, mode, 2, FieldOptions{}, DefaultNodeThreshold, rand.New(rand.NewSource(1)))

	if !snap.Resonant() {
		t.Fatal("expected resonant snapshot")
	}
	if snap.Mode != mode || snap.Intensity != 2 || snap.Domain != d {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}
	if len(snap.Field) != d.Cells() || len(snap.Gradient) != 2*d.Cells() {
		t.Errorf("unexpected buffer sizes %d/%d", len(snap.Field), len(snap.Gradient))
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseResonant.String() != "resonant" || PhaseNonResonant.String() != "non_resonant" {
		t.Errorf("unexpected phase names %q %q", PhaseResonant, PhaseNonResonant)
	}
}
