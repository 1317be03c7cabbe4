package plate

import (
	"testing"
)

func testModes() []Mode {
	return []Mode{
		{M: 1, N: 2, Lambda: 1.0 / 3, Resonant: true},
		{M: 1, N: 1, Lambda: 0.25, Resonant: false},
		{M: 1, N: 3, Lambda: 0.25, Resonant: true},
		{M: 2, N: 5, Lambda: 0.25, Resonant: true},
	}
}

func TestCatalogWraps(t *testing.T) {
	modes := testModes()
	c := NewCatalog(modes)
	k := c.Len()

	for i := 0; i < k; i++ {
		_, idx := c.Advance()
		if idx != i {
			t.Errorf("activation %d: expected index %d, got %d", i, i, idx)
		}
	}
	if c.Cursor() != 0 {
		t.Errorf("expected cursor back at 0 after %d activations, got %d", k, c.Cursor())
	}

	mode, idx := c.Advance()
	if idx != 0 || mode != modes[0] {
		t.Errorf("expected wrap to entry 0 %v, got %d %v", modes[0], idx, mode)
	}
}

func TestCatalogCopiesModes(t *testing.T) {
	modes := testModes()
	c := NewCatalog(modes)
	modes[0].M = 99

	mode, _ := c.Advance()
	if mode.M != 1 {
		t.Errorf("expected catalog to be unaffected by caller mutation, got m=%d", mode.M)
	}
}

func TestNewCatalogPanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty catalog")
		}
	}()
	NewCatalog(nil)
}

func TestAlternatingCycle(t *testing.T) {
	c := NewCycle(NewCatalog(testModes()), Alternating, 2, 8)

	if c.State() != PhaseNonResonant {
		t.Fatalf("expected fresh cycle to be non-resonant, got %v", c.State())
	}

	wantIdx := []int{0, 1, 2, 3, 0}
	for i, idx := range wantIdx {
		plan := c.Next()
		if plan.Phase != PhaseResonant || plan.ModeIndex != idx {
			t.Fatalf("tick %d: expected resonant index %d, got %v index %d", 2*i, idx, plan.Phase, plan.ModeIndex)
		}
		// Tags are ignored: the non-resonant-tagged entry still gets resonant jitter
		if plan.Intensity != 2 {
			t.Errorf("tick %d: expected resonant intensity 2, got %v", 2*i, plan.Intensity)
		}

		plan = c.Next()
		if plan.Phase != PhaseNonResonant {
			t.Fatalf("tick %d: expected non-resonant, got %v", 2*i+1, plan.Phase)
		}
		if plan.Intensity != 8 {
			t.Errorf("tick %d: expected agitated intensity 8, got %v", 2*i+1, plan.Intensity)
		}
		if c.State() != PhaseNonResonant {
			t.Errorf("tick %d: expected state non-resonant, got %v", 2*i+1, c.State())
		}
	}
}

func TestAlternatingWrapAfterKActivations(t *testing.T) {
	c := NewCycle(NewCatalog(testModes()), Alternating, 2, 8)
	k := c.Catalog().Len()

	activations := 0
	for activations < k {
		if c.Next().Phase == PhaseResonant {
			activations++
		}
	}
	if c.Catalog().Cursor() != 0 {
		t.Errorf("expected cursor 0 after %d resonant activations, got %d", k, c.Catalog().Cursor())
	}
}

func TestCycleRestartKeepsCursor(t *testing.T) {
	c := NewCycle(NewCatalog(testModes()), Alternating, 2, 8)

	c.Next() // resonant 0
	c.Next() // non-resonant

	plan := c.Restart()
	if plan.Phase != PhaseResonant || plan.ModeIndex != 1 {
		t.Errorf("expected restart to activate index 1, got %v index %d", plan.Phase, plan.ModeIndex)
	}
	if c.State() != PhaseResonant {
		t.Errorf("expected resonant state after restart, got %v", c.State())
	}

	// Restart while resonant activates the next entry again
	plan = c.Restart()
	if plan.ModeIndex != 2 {
		t.Errorf("expected second restart to activate index 2, got %d", plan.ModeIndex)
	}

	// The following tick leaves the resonant phase
	if plan = c.Next(); plan.Phase != PhaseNonResonant {
		t.Errorf("expected non-resonant after restart, got %v", plan.Phase)
	}
}

func TestTaggedCycle(t *testing.T) {
	modes := testModes()
	c := NewCycle(NewCatalog(modes), Tagged, 2, 8)

	for tick := 0; tick < 2*len(modes); tick++ {
		plan := c.Next()
		idx := tick % len(modes)
		if plan.Phase != PhaseResonant {
			t.Fatalf("tick %d: tagged strategy must always be resonant, got %v", tick, plan.Phase)
		}
		if plan.ModeIndex != idx {
			t.Errorf("tick %d: expected index %d, got %d", tick, idx, plan.ModeIndex)
		}
		want := float32(2)
		if !modes[idx].Resonant {
			want = 8
		}
		if plan.Intensity != want {
			t.Errorf("tick %d: expected intensity %v for %v, got %v", tick, want, modes[idx], plan.Intensity)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	testCases := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"", Alternating, false},
		{"alternating", Alternating, false},
		{"tagged", Tagged, false},
		{"random", 0, true},
	}

	for _, tc := range testCases {
		got, err := ParseStrategy(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("%q: unexpected error state: %v", tc.name, err)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
