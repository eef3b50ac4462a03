// Package optim sweeps cycle detection thresholds over a grid to show how
// sensitive a detected cycle is to the heuristic constants.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/synodic/internal/analysis"
)

var setters = map[string]func(*analysis.Thresholds, float64){
	"peak_height_ratio":          func(t *analysis.Thresholds, v float64) { t.PeakHeightRatio = v },
	"valley_depth_ratio":         func(t *analysis.Thresholds, v float64) { t.ValleyDepthRatio = v },
	"match_tolerance":            func(t *analysis.Thresholds, v float64) { t.MatchTolerance = v },
	"early_skip_period_ratio":    func(t *analysis.Thresholds, v float64) { t.EarlySkipPeriodRatio = v },
	"early_skip_amplitude_ratio": func(t *analysis.Thresholds, v float64) { t.EarlySkipAmplitudeRatio = v },
	"peak_anchor_ratio":          func(t *analysis.Thresholds, v float64) { t.PeakAnchorRatio = v },
}

// Params lists the threshold names a grid can vary.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := setters[p]; !ok {
			return nil, fmt.Errorf("unknown threshold %q (available: %v)", p, Params())
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Result is the detection outcome for one grid point. Err is set when no
// cycle was found.
type Result struct {
	Params     map[string]float64
	Thresholds analysis.Thresholds
	CycleTime  float64
	Strategy   string
	Err        error
}

// Search runs cycle detection on series for every grid point, varying the
// named fields of base. Results come back in grid order.
func (g *GridSearch) Search(ctx context.Context, base analysis.Thresholds, series, times []float64) ([]Result, error) {
	var results []Result
	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, series, times, &results)
	return results, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base analysis.Thresholds,
	series, times []float64,
	results *[]Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		th := base
		for name, v := range current {
			setters[name](&th, v)
		}

		res := Result{Params: current, Thresholds: th}
		d, err := analysis.NewDetector(th).Detect(series, times)
		if d == nil {
			return err
		}
		if err != nil {
			res.Err = err
		} else {
			res.CycleTime = d.Cycle.CycleTime
			res.Strategy = d.Cycle.Strategy
		}
		*results = append(*results, res)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, series, times, results); err != nil {
			return err
		}
	}
	return nil
}

// Closest returns the successful result whose cycle time is nearest target.
func Closest(results []Result, target float64) (Result, bool) {
	best := math.Inf(1)
	var found Result
	ok := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if d := math.Abs(r.CycleTime - target); d < best {
			best, found, ok = d, r, true
		}
	}
	return found, ok
}
