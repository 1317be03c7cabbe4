package bake

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/chladni/plate"
)

func testCycle() *plate.Cycle {
	catalog := plate.NewCatalog([]plate.Mode{
		{M: 1, N: 2, Lambda: 1.0 / 3, Resonant: true},
		{M: 1, N: 3, Lambda: 0.25, Resonant: true},
		{M: 2, N: 5, Lambda: 0.25, Resonant: true},
	})
	return plate.NewCycle(catalog, plate.Alternating, 2, 8)
}

// receive waits for the next snapshot or fails the test.
func receive(t *testing.T, w *Worker) *plate.Snapshot {
	t.Helper()
	select {
	case snap := <-w.Snapshots():
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestWorkerBakesOnResize(t *testing.T) {
	w := NewWorker(testCycle(), Options{Seed: 1, Workers: 4})
	w.Start()
	defer w.Stop()

	d := plate.Domain{W: 120, H: 90}
	w.Resize(d)

	snap := receive(t, w)
	if !snap.Resonant() {
		t.Fatalf("expected resonant snapshot after resize, got %v", snap.Phase)
	}
	if snap.Domain != d {
		t.Errorf("expected domain %v, got %v", d, snap.Domain)
	}
	if snap.Mode.M != 1 || snap.Mode.N != 2 {
		t.Errorf("expected first catalog mode, got %v", snap.Mode)
	}
	if snap.Intensity != 2 {
		t.Errorf("expected resonant intensity 2, got %v", snap.Intensity)
	}
	if snap.Seq != 1 {
		t.Errorf("expected seq 1, got %d", snap.Seq)
	}

	// Banded generation matches the serial field exactly
	want := plate.GenerateField(d, snap.Mode, plate.FieldOptions{})
	for i := range want {
		if snap.Field[i] != want[i] {
			t.Fatalf("cell %d: worker field %f != serial %f", i, snap.Field[i], want[i])
		}
	}

	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			i := (y*d.W + x) * 2
			gx, gy := float64(snap.Gradient[i]), float64(snap.Gradient[i+1])
			border := x == 0 || y == 0 || x == d.W-1 || y == d.H-1
			if border && (gx != 0 || gy != 0) {
				t.Fatalf("border cell (%d,%d) has gradient (%f,%f)", x, y, gx, gy)
			}
			if l := math.Hypot(gx, gy); l > 1+1e-6 {
				t.Fatalf("cell (%d,%d): gradient length %f > 1", x, y, l)
			}
		}
	}
}

func TestWorkerAlternatesOnTimer(t *testing.T) {
	w := NewWorker(testCycle(), Options{Seed: 1, Interval: 20 * time.Millisecond})
	w.Start()
	defer w.Stop()

	w.Resize(plate.Domain{W: 40, H: 30})

	// Consume until a non-resonant snapshot arrives, then a resonant one
	var sawNonResonant bool
	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap := <-w.Snapshots():
			if !snap.Resonant() {
				if snap.Field != nil || snap.Gradient != nil {
					t.Fatal("non-resonant snapshot must carry no buffers")
				}
				if snap.Intensity != 8 {
					t.Errorf("expected agitated intensity 8, got %v", snap.Intensity)
				}
				sawNonResonant = true
				continue
			}
			if sawNonResonant {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the cycle to alternate")
		}
	}
}

func TestWorkerOnBakeHook(t *testing.T) {
	var calls atomic.Int32
	w := NewWorker(testCycle(), Options{
		Seed: 1,
		OnBake: func(snap *plate.Snapshot) {
			calls.Add(1)
		},
	})
	w.Start()
	defer w.Stop()

	w.Resize(plate.Domain{W: 20, H: 20})
	receive(t, w)

	if calls.Load() != 1 {
		t.Errorf("expected OnBake once, got %d", calls.Load())
	}
}

func TestPublishLatestWins(t *testing.T) {
	w := NewWorker(testCycle(), Options{})

	first := plate.NonResonantSnapshot(plate.Domain{W: 1, H: 1}, 1)
	second := plate.NonResonantSnapshot(plate.Domain{W: 2, H: 2}, 2)
	w.publish(first)
	w.publish(second)

	got := <-w.Snapshots()
	if got != second {
		t.Errorf("expected the latest snapshot, got %+v", got)
	}
	select {
	case extra := <-w.Snapshots():
		t.Errorf("expected a single queued snapshot, got another: %+v", extra)
	default:
	}
}

func TestResizeLatestWins(t *testing.T) {
	w := NewWorker(testCycle(), Options{})

	w.Resize(plate.Domain{W: 10, H: 10})
	w.Resize(plate.Domain{W: 20, H: 20})
	w.Resize(plate.Domain{W: 30, H: 30})

	if got := <-w.resizeChan; got != (plate.Domain{W: 30, H: 30}) {
		t.Errorf("expected the last resize to be queued, got %v", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w := NewWorker(testCycle(), Options{})
	w.Stop() // not started

	w.Start()
	w.Stop()
	w.Stop()
}

func TestBandsCoverRows(t *testing.T) {
	p := newBandPool(4)
	p.start()
	defer p.stop()

	for _, h := range []int{1, 3, 63, 64, 65, 100, 721} {
		bands := p.bands(h)
		covered := make([]int, h)
		for _, b := range bands {
			for y := b.y0; y < b.y1; y++ {
				covered[y]++
			}
		}
		for y, c := range covered {
			if c != 1 {
				t.Fatalf("h=%d: row %d covered %d times", h, y, c)
			}
		}
	}
}

func TestBandPoolRunsEveryBand(t *testing.T) {
	p := newBandPool(3)
	p.start()
	defer p.stop()

	bands := p.bands(200)
	hits := make([]atomic.Int32, len(bands))
	p.run(bands, func(b band) {
		hits[b.index].Add(1)
	})

	for i := range hits {
		if hits[i].Load() != 1 {
			t.Errorf("band %d ran %d times", i, hits[i].Load())
		}
	}
}
