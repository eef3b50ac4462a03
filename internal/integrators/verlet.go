package integrators

import "github.com/san-kum/synodic/internal/dynamo"

// Leapfrog is the 2nd-order kick-drift-kick scheme.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	pos, vel := unpack(sys.Bodies(), x)
	halfDt := dt * 0.5

	kick(vel, sys.Accelerate(pos), halfDt)
	drift(pos, vel, dt)
	kick(vel, sys.Accelerate(pos), halfDt)

	return dynamo.NewState(pos, vel)
}
