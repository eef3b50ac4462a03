package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/config"
	"github.com/san-kum/synodic/internal/dynamo"
	"github.com/san-kum/synodic/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is one orbiting body at its starting position.
type Body struct {
	Name   string  `json:"name"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"` // degrees
}

// Scenario is the fixed physical setup of a run: a central mass, two bodies
// on circular orbits and the sampling.
type Scenario struct {
	K           physics.Constants   `json:"constants"`
	CentralMass float64             `json:"central_mass"`
	Bodies      [2]Body             `json:"bodies"`
	Dt          float64             `json:"dt"`
	Steps       int                 `json:"steps"`
	Reference   int                 `json:"reference"`
	Integrator  string              `json:"integrator"`
	Thresholds  analysis.Thresholds `json:"thresholds"`
}

func NewScenario(cfg *config.Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sc := &Scenario{
		K:           cfg.Constants(),
		CentralMass: cfg.CentralMass,
		Dt:          cfg.Dt,
		Steps:       cfg.Steps(),
		Reference:   cfg.Reference,
		Integrator:  cfg.Integrator,
		Thresholds:  cfg.Detector,
	}
	for i, b := range cfg.Bodies {
		sc.Bodies[i] = Body{Name: b.Name, Mass: b.Mass, Radius: b.Radius, Angle: b.Angle}
		if sc.Bodies[i].Name == "" {
			sc.Bodies[i].Name = fmt.Sprintf("body%d", i+1)
		}
	}
	if sc.Steps < 2 {
		return nil, fmt.Errorf("%w: %g years at dt=%gs gives %d steps", config.ErrInvalid, cfg.Years, cfg.Dt, sc.Steps)
	}
	return sc, nil
}

// Other is the index of the body that is not the reference.
func (s *Scenario) Other() int { return 1 - s.Reference }

func (s *Scenario) SimConfig() dynamo.Config {
	return dynamo.Config{Dt: s.Dt, Steps: s.Steps}
}

// Coupled is the two-body system with mutual attraction.
func (s *Scenario) Coupled() *physics.CoupledPair {
	return physics.NewCoupledPair(s.K, s.CentralMass, s.Bodies[0].Mass, s.Bodies[1].Mass)
}

// Single is body i alone around the central mass.
func (s *Scenario) Single(i int) *physics.CentralBody {
	return physics.NewCentralBody(s.K, s.CentralMass, s.Bodies[i].Mass)
}

// InitialStates returns the coupled start state and the matching one-body
// start states. Each body sits at its angle on a circular orbit moving
// counter-clockwise.
func (s *Scenario) InitialStates() (coupled dynamo.State, singles [2]dynamo.State) {
	var pos, vel [2]r2.Vec
	for i, b := range s.Bodies {
		pos[i], vel[i] = physics.CircularState(s.K, s.CentralMass, b.Radius, b.Angle*math.Pi/180)
		singles[i] = dynamo.NewState([]r2.Vec{pos[i]}, []r2.Vec{vel[i]})
	}
	return dynamo.NewState(pos[:], vel[:]), singles
}

// Periods are unperturbed circular periods in years.
type Periods struct {
	Bodies  [2]float64 `json:"bodies"`
	Synodic float64    `json:"synodic"`
}

func (s *Scenario) Periods() Periods {
	var p Periods
	for i, b := range s.Bodies {
		p.Bodies[i] = physics.CircularPeriod(s.K, s.CentralMass, b.Radius) / physics.JulianYear
	}
	// Equal periods never realign; report zero rather than +Inf.
	if syn := physics.SynodicPeriod(p.Bodies[0], p.Bodies[1]); !math.IsInf(syn, 0) {
		p.Synodic = syn
	}
	return p
}
