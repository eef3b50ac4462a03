package physics

import "math"

const (
	// GravitationalConstant in m^3 kg^-1 s^-2.
	GravitationalConstant = 6.67430e-11

	SecondsPerDay = 86400.0

	// SecondsPerYear converts a simulated duration in years to a step count
	// (mean Gregorian year).
	SecondsPerYear = 31556952.0

	// JulianYear is the year length used for the time axis of every series.
	JulianYear = 365.25 * SecondsPerDay
)

// Constants holds the fixed physical constants of a run. It is built once and
// passed by value into every model.
type Constants struct {
	G float64
}

func DefaultConstants() Constants {
	return Constants{G: GravitationalConstant}
}

// CircularSpeed is the tangential speed of a circular orbit of radius r.
func CircularSpeed(k Constants, centralMass, r float64) float64 {
	return math.Sqrt(math.Abs(k.G * centralMass / r))
}

// CircularPeriod is the Keplerian period, in seconds, of a circular orbit of radius r.
func CircularPeriod(k Constants, centralMass, r float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/(k.G*centralMass))
}

// SynodicPeriod returns the time between repeated alignments of two bodies
// with periods t1 and t2, in the same unit. Equal periods yield +Inf.
func SynodicPeriod(t1, t2 float64) float64 {
	return 1 / math.Abs(1/t1-1/t2)
}

// YearsToSteps converts a duration in years to a step count for a step of dt seconds.
func YearsToSteps(years, dt float64) int {
	return int(years * SecondsPerYear / dt)
}
