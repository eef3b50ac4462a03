package metrics

import (
	"math"

	"github.com/san-kum/synodic/internal/dynamo"
)

// EnergyDrift tracks the largest relative departure of total energy from its
// value at the first observed state.
type EnergyDrift struct {
	name     string
	sys      dynamo.Hamiltonian
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sys:  sys,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	e.current = e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = e.current
	}
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, relative(e.current, e.initial))
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.current = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift is EnergyDrift for the total angular momentum about
// the central mass.
type AngularMomentumDrift struct {
	name     string
	sys      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift(sys dynamo.Hamiltonian) *AngularMomentumDrift {
	return &AngularMomentumDrift{
		name: "angular_momentum_drift",
		sys:  sys,
	}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(x dynamo.State, t float64) {
	l := a.sys.AngularMomentum(x)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	a.maxDrift = math.Max(a.maxDrift, relative(l, a.initial))
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}

func relative(v, ref float64) float64 {
	if ref == 0 {
		return 0
	}
	return math.Abs(v-ref) / math.Abs(ref)
}
