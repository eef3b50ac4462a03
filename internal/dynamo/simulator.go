package dynamo

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// cancelCheckInterval bounds how often Run polls the context.
const cancelCheckInterval = 1024

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates x0 for cfg.Steps samples. States[0] is a copy of x0 and
// every following entry is one integrator step after its predecessor.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Trajectory, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	traj := &Trajectory{
		States:  make([]State, cfg.Steps),
		Times:   make([]float64, cfg.Steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	traj.States[0] = x
	s.observe(x, 0)

	for i := 1; i < cfg.Steps; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		x = s.integrator.Step(s.sys, x, cfg.Dt)
		t := float64(i) * cfg.Dt

		if !x.IsValid() {
			return nil, &SimulationError{Step: i, Time: t, State: x, Wrapped: ErrDegenerateSeparation}
		}

		traj.States[i] = x
		traj.Times[i] = t
		s.observe(x, t)
	}

	for _, m := range s.metrics {
		traj.Metrics[m.Name()] = m.Value()
	}

	return traj, nil
}

func (s *Simulator) observe(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if len(x0) != s.sys.Bodies()*BodyDim {
		return fmt.Errorf("%w: state has %d entries, system wants %d", ErrDimensionMismatch, len(x0), s.sys.Bodies()*BodyDim)
	}
	if !x0.IsValid() {
		return &SimulationError{Step: 0, State: x0.Clone(), Wrapped: ErrDegenerateSeparation}
	}

	pos := make([]r2.Vec, s.sys.Bodies())
	for i := range pos {
		pos[i] = x0.Position(i)
	}
	for _, a := range s.sys.Accelerate(pos) {
		if !(State{a.X, a.Y}).IsValid() {
			return &SimulationError{Step: 0, State: x0.Clone(), Wrapped: ErrDegenerateSeparation}
		}
	}
	return nil
}
