package integrators

import "github.com/san-kum/synodic/internal/dynamo"

// Euler is the naive explicit scheme. Orbits spiral outward under it; it is
// kept as a baseline for drift comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	pos, vel := unpack(sys.Bodies(), x)
	acc := sys.Accelerate(pos)

	drift(pos, vel, dt)
	kick(vel, acc, dt)

	return dynamo.NewState(pos, vel)
}
