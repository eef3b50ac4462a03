package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// BodyDim is the number of state entries per body: x, y, vx, vy.
const BodyDim = 4

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Bodies reports how many bodies the state describes.
func (s State) Bodies() int { return len(s) / BodyDim }

func (s State) Position(i int) r2.Vec {
	return r2.Vec{X: s[i*BodyDim], Y: s[i*BodyDim+1]}
}

func (s State) Velocity(i int) r2.Vec {
	return r2.Vec{X: s[i*BodyDim+2], Y: s[i*BodyDim+3]}
}

// SetBody writes position and velocity of body i in place. Only the owner
// of a freshly built State should call it.
func (s State) SetBody(i int, pos, vel r2.Vec) {
	s[i*BodyDim] = pos.X
	s[i*BodyDim+1] = pos.Y
	s[i*BodyDim+2] = vel.X
	s[i*BodyDim+3] = vel.Y
}

// Body extracts body i as a standalone one-body State.
func (s State) Body(i int) State {
	return s[i*BodyDim : (i+1)*BodyDim].Clone()
}

// NewState assembles a State from per-body positions and velocities.
func NewState(pos, vel []r2.Vec) State {
	s := make(State, len(pos)*BodyDim)
	for i := range pos {
		s.SetBody(i, pos[i], vel[i])
	}
	return s
}

// System is an acceleration model for a fixed number of bodies. Accelerate
// must not retain or modify pos.
type System interface {
	Bodies() int
	Accelerate(pos []r2.Vec) []r2.Vec
}

type Hamiltonian interface {
	Energy(x State) float64
	AngularMomentum(x State) float64
}

// Integrator advances x by one step of length dt. Implementations return a
// new State and leave x untouched.
type Integrator interface {
	Step(sys System, x State, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt    float64
	Steps int
}

type Trajectory struct {
	States  []State
	Times   []float64
	Metrics map[string]float64
}

func (t *Trajectory) Len() int { return len(t.States) }

// Final returns the last stored state.
func (t *Trajectory) Final() State {
	return t.States[len(t.States)-1]
}
