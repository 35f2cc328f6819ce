package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/hrsim/internal/config"
	"github.com/san-kum/hrsim/internal/experiment"
	"github.com/san-kum/hrsim/internal/sim"
)

// Objective scores a finished run. Lower is better.
type Objective func(result *sim.Result) float64

// MetricTarget scores a run by the distance of one metric from target.
func MetricTarget(metric string, target float64) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[metric]
		if !ok {
			return math.Inf(1)
		}
		return math.Abs(v - target)
	}
}

// GridSearch evaluates every combination of neuron key values on top of a
// base configuration.
type GridSearch struct {
	base       *config.Config
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(base *config.Config, params []string, ranges [][]float64) *GridSearch {
	if base == nil {
		base = config.DefaultConfig()
	}
	return &GridSearch{base: base, paramNames: params, ranges: ranges}
}

// Search returns the best combination and its score. Ties keep the first
// combination visited.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid needs one range per parameter")
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, fmt.Errorf("empty range for %s", g.paramNames[i])
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no combination produced a finite score")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := g.base.Clone()
		for k, v := range current {
			cfg.Neuron[k] = v
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return err
		}
		defer exp.Close()

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
