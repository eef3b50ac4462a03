package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/synodic/internal/dynamo"
)

// Comparison is the drift of one integrator on the reference body's
// unperturbed orbit.
type Comparison struct {
	Integrator    string  `json:"integrator"`
	EnergyDrift   float64 `json:"energy_drift"`
	MomentumDrift float64 `json:"angular_momentum_drift"`
	RadiusDrift   float64 `json:"radius_drift"`
}

// Compare runs the reference body alone under each named integrator, all
// concurrently, and reports their maximum relative drifts.
func Compare(ctx context.Context, sc *Scenario, reg *Registry, names []string) ([]Comparison, error) {
	_, singles := sc.InitialStates()
	sys := sc.Single(sc.Reference)

	jobs := make([]dynamo.Job, len(names))
	for i, name := range names {
		integ, err := reg.GetIntegrator(name)
		if err != nil {
			return nil, err
		}
		sim := dynamo.New(sys, integ)
		for _, m := range reg.DefaultMetrics(sys, 1) {
			sim.AddMetric(m)
		}
		jobs[i] = dynamo.Job{Name: name, Sim: sim, X0: singles[sc.Reference], Cfg: sc.SimConfig()}
	}

	trajs, err := dynamo.RunAll(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	out := make([]Comparison, len(names))
	for i, t := range trajs {
		out[i] = Comparison{
			Integrator:    names[i],
			EnergyDrift:   t.Metrics["energy_drift"],
			MomentumDrift: t.Metrics["angular_momentum_drift"],
			RadiusDrift:   t.Metrics["radius_drift_0"],
		}
	}
	return out, nil
}
