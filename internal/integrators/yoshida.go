package integrators

import (
	"math"

	"github.com/san-kum/synodic/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Yoshida4 is the 4th-order symmetric composition of drift-kick stages.
// It is time-reversible and symplectic, so energy and angular momentum
// oscillate around their initial values instead of drifting.
type Yoshida4 struct {
	c [4]float64 // drift weights
	d [3]float64 // kick weights
}

func NewYoshida4() *Yoshida4 {
	cbrt2 := math.Cbrt(2)
	w1 := 1 / (2 - cbrt2)
	w0 := -cbrt2 * w1

	return &Yoshida4{
		c: [4]float64{w1 / 2, (w0 + w1) / 2, (w0 + w1) / 2, w1 / 2},
		d: [3]float64{w1, w0, w1},
	}
}

// Coefficients returns the drift and kick weights.
func (y *Yoshida4) Coefficients() (c [4]float64, d [3]float64) {
	return y.c, y.d
}

func (y *Yoshida4) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	pos, vel := unpack(sys.Bodies(), x)

	drift(pos, vel, y.c[0]*dt)
	for s := 0; s < 3; s++ {
		kick(vel, sys.Accelerate(pos), y.d[s]*dt)
		drift(pos, vel, y.c[s+1]*dt)
	}

	return dynamo.NewState(pos, vel)
}

func unpack(n int, x dynamo.State) (pos, vel []r2.Vec) {
	pos = make([]r2.Vec, n)
	vel = make([]r2.Vec, n)
	for i := 0; i < n; i++ {
		pos[i] = x.Position(i)
		vel[i] = x.Velocity(i)
	}
	return pos, vel
}

func drift(pos, vel []r2.Vec, h float64) {
	for i := range pos {
		pos[i] = r2.Add(pos[i], r2.Scale(h, vel[i]))
	}
}

func kick(vel, acc []r2.Vec, h float64) {
	for i := range vel {
		vel[i] = r2.Add(vel[i], r2.Scale(h, acc[i]))
	}
}
