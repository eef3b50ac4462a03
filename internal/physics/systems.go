package physics

import (
	"math"

	"github.com/san-kum/synodic/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// CentralBody is a single body of mass Mass orbiting a fixed central mass.
// State: [x, y, vx, vy]
type CentralBody struct {
	K           Constants
	CentralMass float64
	Mass        float64
}

func NewCentralBody(k Constants, centralMass, mass float64) *CentralBody {
	return &CentralBody{K: k, CentralMass: centralMass, Mass: mass}
}

func (c *CentralBody) Bodies() int { return 1 }

func (c *CentralBody) Accelerate(pos []r2.Vec) []r2.Vec {
	return []r2.Vec{OneBodyAcceleration(c.K, pos[0], c.CentralMass)}
}

func (c *CentralBody) Energy(x dynamo.State) float64 {
	v := x.Velocity(0)
	r := r2.Norm(x.Position(0))
	return 0.5*c.Mass*r2.Norm2(v) - c.K.G*c.CentralMass*c.Mass/r
}

func (c *CentralBody) AngularMomentum(x dynamo.State) float64 {
	return c.Mass * r2.Cross(x.Position(0), x.Velocity(0))
}

// CoupledPair is two bodies orbiting a fixed central mass while attracting
// each other.
// State: [x1, y1, vx1, vy1, x2, y2, vx2, vy2]
type CoupledPair struct {
	K           Constants
	CentralMass float64
	M1, M2      float64
}

func NewCoupledPair(k Constants, centralMass, m1, m2 float64) *CoupledPair {
	return &CoupledPair{K: k, CentralMass: centralMass, M1: m1, M2: m2}
}

func (p *CoupledPair) Bodies() int { return 2 }

func (p *CoupledPair) Accelerate(pos []r2.Vec) []r2.Vec {
	a1, a2 := TwoBodyAcceleration(p.K, pos[0], pos[1], p.CentralMass, p.M1, p.M2)
	return []r2.Vec{a1, a2}
}

// Energy is the total mechanical energy of both bodies; the central mass is
// held fixed and contributes no kinetic term.
func (p *CoupledPair) Energy(x dynamo.State) float64 {
	p1, p2 := x.Position(0), x.Position(1)
	ke := 0.5*p.M1*r2.Norm2(x.Velocity(0)) + 0.5*p.M2*r2.Norm2(x.Velocity(1))
	pe := -p.K.G * p.CentralMass * p.M1 / r2.Norm(p1)
	pe -= p.K.G * p.CentralMass * p.M2 / r2.Norm(p2)
	pe -= p.K.G * p.M1 * p.M2 / r2.Norm(r2.Sub(p2, p1))
	return ke + pe
}

func (p *CoupledPair) AngularMomentum(x dynamo.State) float64 {
	return p.M1*r2.Cross(x.Position(0), x.Velocity(0)) +
		p.M2*r2.Cross(x.Position(1), x.Velocity(1))
}

// CircularState places a body on a circular orbit of radius r at polar
// angle theta (radians), moving counter-clockwise.
func CircularState(k Constants, centralMass, r, theta float64) (pos, vel r2.Vec) {
	sin, cos := math.Sincos(theta)
	v := CircularSpeed(k, centralMass, r)
	pos = r2.Vec{X: r * cos, Y: r * sin}
	vel = r2.Vec{X: -v * sin, Y: v * cos}
	return pos, vel
}
