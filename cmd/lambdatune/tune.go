package main

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/chladni/plate"
)

// Search bounds for lambda. Below the lower bound the pattern aliases on
// small plates.
const (
	minLambda = 0.05
	maxLambda = 1.5
)

// tuner measures how much of a plate a mode leaves as nodes.
type tuner struct {
	domain    plate.Domain
	threshold float32
	target    float64
	field     []float32
}

func newTuner(d plate.Domain, threshold float32, target float64) *tuner {
	return &tuner{
		domain:    d,
		threshold: threshold,
		target:    target,
		field:     make([]float32, d.Cells()),
	}
}

// nodeFraction returns the share of cells below the threshold for mode.
func (t *tuner) nodeFraction(mode plate.Mode) float64 {
	plate.GenerateFieldRows(t.field, t.domain, mode, plate.FieldOptions{}, 0, t.domain.H)
	nodes := 0
	for _, v := range t.field {
		if v < t.threshold {
			nodes++
		}
	}
	return float64(nodes) / float64(len(t.field))
}

// loss is the squared distance from the target fraction. Lambdas outside
// the search bounds are clamped and penalized so the search walks back.
func (t *tuner) loss(mode plate.Mode, lambda float64) float64 {
	clamped := clampLambda(lambda)
	mode.Lambda = clamped
	d := t.nodeFraction(mode) - t.target
	return d*d + math.Abs(lambda-clamped)
}

// tuneResult is one line of tune_log.csv.
type tuneResult struct {
	Index       int     `csv:"index"`
	M           int     `csv:"m"`
	N           int     `csv:"n"`
	Before      float64 `csv:"lambda_before"`
	After       float64 `csv:"lambda_after"`
	FracBefore  float64 `csv:"node_fraction_before"`
	FracAfter   float64 `csv:"node_fraction_after"`
	Evaluations int     `csv:"evaluations"`
}

// tune searches lambda for one mode with CMA-ES and returns the best value
// seen, which may come from any evaluation.
func (t *tuner) tune(mode plate.Mode, maxEvals, population int) (float64, int, error) {
	best := mode.Lambda
	bestLoss := t.loss(mode, mode.Lambda)
	evals := 0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evals++
			l := t.loss(mode, x[0])
			if l < bestLoss {
				bestLoss = l
				best = clampLambda(x[0])
			}
			return l
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.1,
		Population:   population,
	}

	_, err := optimize.Minimize(problem, []float64{mode.Lambda}, settings, method)
	return best, evals, err
}

func clampLambda(l float64) float64 {
	return math.Max(minLambda, math.Min(maxLambda, l))
}
