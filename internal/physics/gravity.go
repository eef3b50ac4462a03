package physics

import "gonum.org/v1/gonum/spatial/r2"

// OneBodyAcceleration is the acceleration of a body at pos due to a central
// mass fixed at the origin: a = -G*M*pos/|pos|^3.
//
// The result is non-finite when pos is the origin; callers are expected to
// choose initial conditions that avoid it.
func OneBodyAcceleration(k Constants, pos r2.Vec, centralMass float64) r2.Vec {
	r := r2.Norm(pos)
	return r2.Scale(-k.G*centralMass/(r*r*r), pos)
}

// TwoBodyAcceleration returns the accelerations of two bodies orbiting a
// central mass at the origin, each pulled by the center and by the other body.
func TwoBodyAcceleration(k Constants, p1, p2 r2.Vec, centralMass, m1, m2 float64) (a1, a2 r2.Vec) {
	sep := r2.Sub(p2, p1)
	d := r2.Norm(sep)
	d3 := d * d * d

	a1 = r2.Add(OneBodyAcceleration(k, p1, centralMass), r2.Scale(k.G*m2/d3, sep))
	a2 = r2.Add(OneBodyAcceleration(k, p2, centralMass), r2.Scale(-k.G*m1/d3, sep))
	return a1, a2
}
