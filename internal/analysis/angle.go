package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/synodic/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Angles returns, per step, the signed angle in degrees from body a's
// velocity to the displacement from a to b, in (-180, 180]. Positive means
// b lies counter-clockwise of a's direction of travel.
func Angles(traj *dynamo.Trajectory, a, b int) ([]float64, error) {
	if err := checkBodies(traj, a, b); err != nil {
		return nil, err
	}

	angles := make([]float64, traj.Len())
	for i, x := range traj.States {
		angles[i] = SignedAngle(x.Velocity(a), r2.Sub(x.Position(b), x.Position(a)))
	}
	return angles, nil
}

// Separation returns, per step, the heliocentric angle in degrees from body
// a's position vector to body b's. It crosses zero at each conjunction.
func Separation(traj *dynamo.Trajectory, a, b int) ([]float64, error) {
	if err := checkBodies(traj, a, b); err != nil {
		return nil, err
	}

	sep := make([]float64, traj.Len())
	for i, x := range traj.States {
		sep[i] = SignedAngle(x.Position(a), x.Position(b))
	}
	return sep, nil
}

func checkBodies(traj *dynamo.Trajectory, a, b int) error {
	if traj.Len() == 0 {
		return fmt.Errorf("%w: empty trajectory", ErrSeriesTooShort)
	}
	if n := traj.States[0].Bodies(); a < 0 || a >= n || b < 0 || b >= n {
		return fmt.Errorf("%w: bodies %d, %d not in a %d-body run", dynamo.ErrDimensionMismatch, a, b, n)
	}
	return nil
}

// SignedAngle is the angle in degrees rotating u onto v.
func SignedAngle(u, v r2.Vec) float64 {
	return math.Atan2(r2.Cross(u, v), r2.Dot(u, v)) * 180 / math.Pi
}

// Conjunctions returns the times at which a Separation series changes sign,
// interpolated between samples. A wrap across ±180 is not a conjunction.
func Conjunctions(sep, times []float64) []float64 {
	var out []float64
	for i := 1; i < len(sep) && i < len(times); i++ {
		prev, cur := sep[i-1], sep[i]
		if (prev < 0) == (cur < 0) || math.Abs(cur-prev) >= 180 {
			continue
		}
		frac := -prev / (cur - prev)
		out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
	}
	return out
}

// MeanInterval is the average spacing of a sorted list of event times, or
// zero with fewer than two events.
func MeanInterval(events []float64) float64 {
	if len(events) < 2 {
		return 0
	}
	return (events[len(events)-1] - events[0]) / float64(len(events)-1)
}
