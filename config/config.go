// Package config provides configuration loading and access for the plate.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrEmptyCatalog is returned when a configuration has no vibration modes.
var ErrEmptyCatalog = errors.New("mode catalog is empty")

// Cycling strategies.
const (
	StrategyAlternating = "alternating"
	StrategyTagged      = "tagged"
)

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Plate     PlateConfig     `yaml:"plate"`
	Vibration VibrationConfig `yaml:"vibration"`
	Cycle     CycleConfig     `yaml:"cycle"`
	Modes     []ModeConfig    `yaml:"modes"`
	Palette   PaletteConfig   `yaml:"palette"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// PlateConfig holds sand and gradient parameters.
type PlateConfig struct {
	Particles     int     `yaml:"particles"`      // Fixed number of sand grains
	StepSize      float64 `yaml:"step_size"`      // Distance moved along the gradient per frame
	Slack         float64 `yaml:"slack"`          // How far off the plate a grain may go before respawning
	NodeThreshold float64 `yaml:"node_threshold"` // Magnitudes below this are treated as nodes
	Translate     bool    `yaml:"translate"`      // Randomly offset each pattern on the plate
}

// VibrationConfig holds jitter intensities.
type VibrationConfig struct {
	Moderate        float64 `yaml:"moderate"`         // Jitter while a pattern is resonating
	Aggressive      float64 `yaml:"aggressive"`       // Base jitter for unsettled phases
	AgitationFactor float64 `yaml:"agitation_factor"` // Aggressive is multiplied by this when unsettled
}

// CycleConfig holds mode cycling parameters.
type CycleConfig struct {
	Strategy       string  `yaml:"strategy"`        // "alternating" or "tagged"
	BakeInterval   float64 `yaml:"bake_interval"`   // Seconds between timer ticks
	ResizeDebounce float64 `yaml:"resize_debounce"` // Seconds to coalesce resize bursts
}

// ModeConfig is one catalog entry.
type ModeConfig struct {
	M        int     `yaml:"m"`
	N        int     `yaml:"n"`
	Lambda   float64 `yaml:"lambda"`
	Resonant bool    `yaml:"resonant"`
}

// PaletteConfig holds colors as 0xRRGGBB values.
type PaletteConfig struct {
	Background uint32 `yaml:"background"`
	Settled    uint32 `yaml:"settled"`
	Agitated   uint32 `yaml:"agitated"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds between perf log lines
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StepSize32      float32
	Slack32         float32
	NodeThreshold32 float32
	ResonantJitter  float32       // Vibration.Moderate as float32
	AgitatedJitter  float32       // Vibration.Aggressive * AgitationFactor
	BakeInterval    time.Duration // Cycle.BakeInterval as a duration
	ResizeDebounce  time.Duration // Cycle.ResizeDebounce as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(cfg, data); err != nil {
			return nil, err
		}
	}

	if len(cfg.Modes) == 0 {
		return nil, ErrEmptyCatalog
	}

	cfg.computeDerived()
	return cfg, nil
}

// Parse unmarshals YAML data over cfg. Only fields present in data are overwritten,
// except lists (modes), which yaml replaces wholesale.
func Parse(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Cycle.Strategy == "" {
		c.Cycle.Strategy = StrategyAlternating
	}
	if c.Vibration.AgitationFactor == 0 {
		c.Vibration.AgitationFactor = 1
	}

	c.Derived.StepSize32 = float32(c.Plate.StepSize)
	c.Derived.Slack32 = float32(c.Plate.Slack)
	c.Derived.NodeThreshold32 = float32(c.Plate.NodeThreshold)
	c.Derived.ResonantJitter = float32(c.Vibration.Moderate)
	c.Derived.AgitatedJitter = float32(c.Vibration.Aggressive * c.Vibration.AgitationFactor)
	c.Derived.BakeInterval = seconds(c.Cycle.BakeInterval)
	c.Derived.ResizeDebounce = seconds(c.Cycle.ResizeDebounce)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
