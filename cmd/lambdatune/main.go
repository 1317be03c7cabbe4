// Package main searches lambda for every mode in the catalog so that each
// pattern leaves a similar share of the plate as nodes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/plate"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	size := flag.Int("size", 256, "Plate size in cells for each evaluation")
	target := flag.Float64("target", 0.03, "Target node fraction")
	maxEvals := flag.Int("max-evals", 60, "Maximum evaluations per mode")
	population := flag.Int("population", 6, "CMA-ES population size")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	d := plate.Domain{W: *size, H: *size}
	t := newTuner(d, cfg.Derived.NodeThreshold32, *target)
	start := time.Now()

	fmt.Printf("Tuning %d modes on a %dx%d plate toward %.1f%% nodes\n",
		len(cfg.Modes), d.W, d.H, *target*100)

	results := make([]tuneResult, 0, len(cfg.Modes))
	for i, mc := range cfg.Modes {
		mode := plate.Mode{M: mc.M, N: mc.N, Lambda: mc.Lambda, Resonant: mc.Resonant}
		if mode.M == mode.N {
			// Flat field; nothing to tune
			continue
		}

		before := t.nodeFraction(mode)
		best, evals, err := t.tune(mode, *maxEvals, *population)
		if err != nil {
			log.Printf("mode %d: optimization ended: %v", i, err)
		}

		tuned := mode
		tuned.Lambda = best
		after := t.nodeFraction(tuned)
		cfg.Modes[i].Lambda = best

		results = append(results, tuneResult{
			Index:       i,
			M:           mode.M,
			N:           mode.N,
			Before:      mode.Lambda,
			After:       best,
			FracBefore:  before,
			FracAfter:   after,
			Evaluations: evals,
		})

		fmt.Printf("Mode %d (m=%d n=%d): lambda %.4f -> %.4f, nodes %.2f%% -> %.2f%% (%d evals)\n",
			i, mode.M, mode.N, mode.Lambda, best, before*100, after*100, evals)
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	if err := gocsv.Marshal(results, logFile); err != nil {
		log.Printf("failed to write tune log: %v", err)
	}

	configOutPath := filepath.Join(*outputDir, "tuned_config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write tuned config: %v", err)
	} else {
		fmt.Printf("\nTuned config saved to: %s\n", configOutPath)
	}

	fmt.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
}
