package integrators

import "github.com/san-kum/synodic/internal/dynamo"

// RK4 is the classical 4th-order Runge-Kutta scheme. It is accurate per step
// but not symplectic, so orbital energy drifts secularly over long runs.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	scratch := make(dynamo.State, n)

	k1 := derive(sys, x)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := derive(sys, scratch)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := derive(sys, scratch)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*k3[i]
	}
	k4 := derive(sys, scratch)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}

// derive returns dx/dt laid out like x: (vx, vy, ax, ay) per body.
func derive(sys dynamo.System, x dynamo.State) dynamo.State {
	pos, vel := unpack(sys.Bodies(), x)
	return dynamo.NewState(vel, sys.Accelerate(pos))
}
