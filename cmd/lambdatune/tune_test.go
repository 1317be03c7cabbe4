package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/chladni/plate"
)

func TestClampLambda(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.01, minLambda},
		{0.3, 0.3},
		{9, maxLambda},
	}
	for _, tt := range tests {
		if got := clampLambda(tt.in); got != tt.want {
			t.Errorf("clampLambda(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNodeFractionFlatField(t *testing.T) {
	tu := newTuner(plate.Domain{W: 32, H: 32}, 0.01, 0.03)

	// m == n cancels everywhere
	frac := tu.nodeFraction(plate.Mode{M: 2, N: 2, Lambda: 0.3})
	if frac != 1 {
		t.Errorf("expected every cell to be a node, got %v", frac)
	}
}

func TestNodeFractionShrinksWithThreshold(t *testing.T) {
	mode := plate.Mode{M: 1, N: 3, Lambda: 0.25}
	d := plate.Domain{W: 64, H: 64}

	wide := newTuner(d, 0.05, 0).nodeFraction(mode)
	narrow := newTuner(d, 0.005, 0).nodeFraction(mode)
	if narrow > wide {
		t.Errorf("narrow threshold %v > wide threshold %v", narrow, wide)
	}
	if wide <= 0 || wide >= 1 {
		t.Errorf("expected a partial node fraction, got %v", wide)
	}
}

func TestLossPenalizesOutOfBounds(t *testing.T) {
	tu := newTuner(plate.Domain{W: 32, H: 32}, 0.01, 0.03)
	mode := plate.Mode{M: 1, N: 2, Lambda: 0.3}

	inside := tu.loss(mode, maxLambda)
	outside := tu.loss(mode, maxLambda+1)
	if math.Abs(outside-inside-1) > 1e-9 {
		t.Errorf("expected a penalty of 1 past the bound, got %v", outside-inside)
	}
}

func TestTuneDoesNotWorsen(t *testing.T) {
	tu := newTuner(plate.Domain{W: 48, H: 48}, 0.01, 0.05)
	mode := plate.Mode{M: 1, N: 2, Lambda: 0.9}

	before := tu.loss(mode, mode.Lambda)
	best, evals, _ := tu.tune(mode, 30, 4)
	if evals == 0 {
		t.Fatal("expected at least one evaluation")
	}
	if after := tu.loss(mode, best); after > before {
		t.Errorf("tuned loss %v worse than starting loss %v", after, before)
	}
	if best < minLambda || best > maxLambda {
		t.Errorf("best lambda %v outside bounds", best)
	}
}
