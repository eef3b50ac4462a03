package dynamo_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/synodic/internal/dynamo"
	"github.com/san-kum/synodic/internal/integrators"
	"github.com/san-kum/synodic/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	sunMass   = 1.989e30
	earthMass = 5.972e24
	marsMass  = 6.39e23
)

func earthState() dynamo.State {
	k := physics.DefaultConstants()
	pos, vel := physics.CircularState(k, sunMass, 1.5e11, 0)
	return dynamo.NewState([]r2.Vec{pos}, []r2.Vec{vel})
}

func pairState() dynamo.State {
	k := physics.DefaultConstants()
	p1, v1 := physics.CircularState(k, sunMass, 1.5e11, 0)
	p2, v2 := physics.CircularState(k, sunMass, 2.28e11, 51.7*math.Pi/180)
	return dynamo.NewState([]r2.Vec{p1, p2}, []r2.Vec{v1, v2})
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                     { return "count" }
func (c *countingMetric) Observe(_ dynamo.State, _ float64) { c.count++ }
func (c *countingMetric) Value() float64                    { return float64(c.count) }
func (c *countingMetric) Reset()                            { c.count = 0 }

func TestSimulatorRun(t *testing.T) {
	sys := physics.NewCentralBody(physics.DefaultConstants(), sunMass, earthMass)
	sim := dynamo.New(sys, integrators.NewYoshida4())

	metric := &countingMetric{}
	sim.AddMetric(metric)

	x0 := earthState()
	traj, err := sim.Run(context.Background(), x0, dynamo.Config{Dt: physics.SecondsPerDay, Steps: 365})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if traj.Len() != 365 {
		t.Errorf("expected 365 states, got %d", traj.Len())
	}
	if len(traj.Times) != 365 {
		t.Errorf("expected 365 times, got %d", len(traj.Times))
	}
	if traj.Times[364] != 364*physics.SecondsPerDay {
		t.Errorf("expected last time %f, got %f", 364*physics.SecondsPerDay, traj.Times[364])
	}

	if diff := cmp.Diff(x0, traj.States[0]); diff != "" {
		t.Errorf("initial state mismatch (-want +got):\n%s", diff)
	}
	if &traj.States[0][0] == &x0[0] {
		t.Error("trajectory aliases the caller's initial state")
	}

	if traj.Metrics["count"] != 365 {
		t.Errorf("expected 365 observations, got %v", traj.Metrics["count"])
	}

	r0 := r2.Norm(x0.Position(0))
	r := r2.Norm(traj.Final().Position(0))
	if math.Abs(r-r0)/r0 > 0.01 {
		t.Errorf("final radius %e not within 1%% of %e", r, r0)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sys := physics.NewCentralBody(physics.DefaultConstants(), sunMass, earthMass)
	sim := dynamo.New(sys, integrators.NewYoshida4())

	tests := []struct {
		name string
		x0   dynamo.State
		cfg  dynamo.Config
		want error
	}{
		{"zero dt", earthState(), dynamo.Config{Dt: 0, Steps: 10}, dynamo.ErrInvalidConfig},
		{"negative dt", earthState(), dynamo.Config{Dt: -1, Steps: 10}, dynamo.ErrInvalidConfig},
		{"zero steps", earthState(), dynamo.Config{Dt: 1, Steps: 0}, dynamo.ErrInvalidConfig},
		{"two-body state", pairState(), dynamo.Config{Dt: 1, Steps: 10}, dynamo.ErrDimensionMismatch},
		{"at the origin", dynamo.State{0, 0, 1, 0}, dynamo.Config{Dt: 1, Steps: 10}, dynamo.ErrDegenerateSeparation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.x0, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorDegenerateSeparation(t *testing.T) {
	k := physics.DefaultConstants()
	pair := physics.NewCoupledPair(k, sunMass, earthMass, marsMass)

	// Both bodies start at the same point.
	p, v := physics.CircularState(k, sunMass, 1.5e11, 0)
	x0 := dynamo.NewState([]r2.Vec{p, p}, []r2.Vec{v, v})

	_, err := dynamo.New(pair, integrators.NewYoshida4()).Run(context.Background(), x0, dynamo.Config{Dt: 86400, Steps: 10})
	if !errors.Is(err, dynamo.ErrDegenerateSeparation) {
		t.Fatalf("expected degenerate separation, got %v", err)
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
}

func TestSimulatorMasslessPartnerMatchesOneBody(t *testing.T) {
	k := physics.DefaultConstants()
	cfg := dynamo.Config{Dt: physics.SecondsPerDay, Steps: 3000}

	one, err := dynamo.New(physics.NewCentralBody(k, sunMass, earthMass), integrators.NewYoshida4()).
		Run(context.Background(), earthState(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	two, err := dynamo.New(physics.NewCoupledPair(k, sunMass, earthMass, 0), integrators.NewYoshida4()).
		Run(context.Background(), pairState(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	approx := cmpopts.EquateApprox(1e-12, 1e-3)
	for i := range one.States {
		if diff := cmp.Diff(one.States[i], two.States[i].Body(0), approx); diff != "" {
			t.Fatalf("step %d differs (-one +two):\n%s", i, diff)
		}
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sys := physics.NewCentralBody(physics.DefaultConstants(), sunMass, earthMass)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dynamo.New(sys, integrators.NewYoshida4()).Run(ctx, earthState(), dynamo.Config{Dt: 3600, Steps: 5000})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunAll(t *testing.T) {
	k := physics.DefaultConstants()
	cfg := dynamo.Config{Dt: physics.SecondsPerDay, Steps: 100}

	jobs := []dynamo.Job{
		{Name: "pair", Sim: dynamo.New(physics.NewCoupledPair(k, sunMass, earthMass, marsMass), integrators.NewYoshida4()), X0: pairState(), Cfg: cfg},
		{Name: "earth", Sim: dynamo.New(physics.NewCentralBody(k, sunMass, earthMass), integrators.NewYoshida4()), X0: earthState(), Cfg: cfg},
	}

	trajs, err := dynamo.RunAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(trajs) != 2 {
		t.Fatalf("expected 2 trajectories, got %d", len(trajs))
	}
	if trajs[0].States[0].Bodies() != 2 || trajs[1].States[0].Bodies() != 1 {
		t.Error("trajectories returned out of job order")
	}

	jobs[1].Cfg = dynamo.Config{Dt: 0, Steps: 100}
	_, err = dynamo.RunAll(context.Background(), jobs)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", err)
	}
}
