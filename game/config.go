package game

import (
	"fmt"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/plate"
)

// catalogFromConfig converts the configured modes into a plate catalog.
func catalogFromConfig(cfg *config.Config) (*plate.Catalog, error) {
	if len(cfg.Modes) == 0 {
		return nil, config.ErrEmptyCatalog
	}
	modes := make([]plate.Mode, len(cfg.Modes))
	for i, mc := range cfg.Modes {
		modes[i] = plate.Mode{
			M:        mc.M,
			N:        mc.N,
			Lambda:   mc.Lambda,
			Resonant: mc.Resonant,
		}
	}
	return plate.NewCatalog(modes), nil
}

// cycleFromConfig builds the mode cycle the bake worker will own.
func cycleFromConfig(cfg *config.Config) (*plate.Cycle, error) {
	catalog, err := catalogFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := plate.ParseStrategy(cfg.Cycle.Strategy)
	if err != nil {
		return nil, fmt.Errorf("cycle: %w", err)
	}
	return plate.NewCycle(catalog, strategy, cfg.Derived.ResonantJitter, cfg.Derived.AgitatedJitter), nil
}

// statsWindowFrames converts the stats window to frames at the target rate.
func statsWindowFrames(cfg *config.Config) int64 {
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	frames := int64(cfg.Telemetry.StatsWindow * float64(fps))
	if frames < 1 {
		frames = 1
	}
	return frames
}
