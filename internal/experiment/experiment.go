package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/dynamo"
)

// BodySeries is the divergence of one body between the coupled run and its
// single-body run.
type BodySeries struct {
	Name      string           `json:"name"`
	Deviation []float64        `json:"-"`
	Adjusted  []float64        `json:"-"`
	Fit       analysis.LineFit `json:"fit"`
}

// Report is everything derived from one scenario run.
type Report struct {
	Scenario *Scenario `json:"scenario"`
	Periods  Periods   `json:"periods"`

	Coupled *dynamo.Trajectory    `json:"-"`
	Singles [2]*dynamo.Trajectory `json:"-"`

	// Times is the sample axis in years.
	Times  []float64     `json:"-"`
	Series [2]BodySeries `json:"series"`

	// Angles is the reference body's velocity-to-partner angle per step.
	Angles       []float64 `json:"-"`
	Separation   []float64 `json:"-"`
	Conjunctions []float64 `json:"conjunctions"`

	Detection *analysis.Detection           `json:"detection"`
	Metrics   map[string]map[string]float64 `json:"metrics"`
}

// Reference is the series the cycle was detected on.
func (r *Report) Reference() BodySeries { return r.Series[r.Scenario.Reference] }

type Experiment struct {
	sc  *Scenario
	reg *Registry
}

func New(sc *Scenario, reg *Registry) *Experiment {
	return &Experiment{sc: sc, reg: reg}
}

type hamiltonianSystem interface {
	dynamo.System
	dynamo.Hamiltonian
}

func (e *Experiment) newJob(name string, sys hamiltonianSystem, x0 dynamo.State) (dynamo.Job, error) {
	integ, err := e.reg.GetIntegrator(e.sc.Integrator)
	if err != nil {
		return dynamo.Job{}, err
	}
	sim := dynamo.New(sys, integ)
	for _, m := range e.reg.DefaultMetrics(sys, sys.Bodies()) {
		sim.AddMetric(m)
	}
	return dynamo.Job{Name: name, Sim: sim, X0: x0, Cfg: e.sc.SimConfig()}, nil
}

// Run integrates the coupled and both single-body systems concurrently and
// runs the analysis pipeline on the result.
//
// When no cycle can be resolved the returned error wraps
// analysis.ErrNoCycle and the Report is still returned with every series
// filled in.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	sc := e.sc
	coupled0, singles0 := sc.InitialStates()

	jobs := make([]dynamo.Job, 0, 3)
	names := []string{"coupled", sc.Bodies[0].Name, sc.Bodies[1].Name}

	job, err := e.newJob(names[0], sc.Coupled(), coupled0)
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, job)
	for i := range sc.Bodies {
		job, err := e.newJob(names[i+1], sc.Single(i), singles0[i])
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	trajs, err := dynamo.RunAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Scenario: sc,
		Periods:  sc.Periods(),
		Coupled:  trajs[0],
		Singles:  [2]*dynamo.Trajectory{trajs[1], trajs[2]},
		Times:    analysis.TimeAxis(sc.Steps, sc.Dt),
		Metrics:  make(map[string]map[string]float64, len(trajs)),
	}
	for i, t := range trajs {
		r.Metrics[names[i]] = t.Metrics
	}

	for i := range sc.Bodies {
		dev, err := analysis.Deviation(r.Coupled, i, r.Singles[i])
		if err != nil {
			return nil, err
		}
		adjusted, fit, err := analysis.Detrend(dev, r.Times)
		if err != nil {
			return nil, err
		}
		r.Series[i] = BodySeries{Name: sc.Bodies[i].Name, Deviation: dev, Adjusted: adjusted, Fit: fit}
	}

	if r.Angles, err = analysis.Angles(r.Coupled, sc.Reference, sc.Other()); err != nil {
		return nil, err
	}
	if r.Separation, err = analysis.Separation(r.Coupled, sc.Reference, sc.Other()); err != nil {
		return nil, err
	}
	r.Conjunctions = analysis.Conjunctions(r.Separation, r.Times)

	det, err := analysis.NewDetector(sc.Thresholds).Detect(r.Reference().Adjusted, r.Times)
	if det != nil {
		det.Peaks = analysis.AnnotateAngles(det.Peaks, r.Angles)
		det.Valleys = analysis.AnnotateAngles(det.Valleys, r.Angles)
		det.SignificantPeaks = analysis.AnnotateAngles(det.SignificantPeaks, r.Angles)
		det.SignificantValleys = analysis.AnnotateAngles(det.SignificantValleys, r.Angles)
		annotate(det.Cycle.From, r.Angles)
		annotate(det.Cycle.To, r.Angles)
	}
	r.Detection = det

	if err != nil {
		if errors.Is(err, analysis.ErrNoCycle) {
			return r, err
		}
		return nil, fmt.Errorf("cycle detection: %w", err)
	}
	return r, nil
}

func annotate(e *analysis.Extremum, angles []float64) {
	if e != nil {
		e.Angle = angles[e.Index]
	}
}
