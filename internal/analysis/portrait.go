package analysis

import (
	"math"

	"github.com/san-kum/synodic/internal/dynamo"
)

// Point is one sample in the orbital plane.
type Point struct{ X, Y float64 }

// OrbitPortrait holds the paths of the bodies of a run, each thinned to at
// most maxPoints samples.
type OrbitPortrait struct {
	Paths [][]Point
}

func NewOrbitPortrait(traj *dynamo.Trajectory, maxPoints int) *OrbitPortrait {
	if traj.Len() == 0 {
		return &OrbitPortrait{}
	}
	stride := 1
	if maxPoints > 0 && traj.Len() > maxPoints {
		stride = (traj.Len() + maxPoints - 1) / maxPoints
	}

	n := traj.States[0].Bodies()
	p := &OrbitPortrait{Paths: make([][]Point, n)}
	for i := 0; i < traj.Len(); i += stride {
		for b := 0; b < n; b++ {
			pos := traj.States[i].Position(b)
			p.Paths[b] = append(p.Paths[b], Point{pos.X, pos.Y})
		}
	}
	return p
}

// PortraitFromStates builds a portrait from flat stored states laid out like
// dynamo.State.
func PortraitFromStates(states [][]float64) *OrbitPortrait {
	traj := &dynamo.Trajectory{States: make([]dynamo.State, len(states))}
	for i, s := range states {
		traj.States[i] = dynamo.State(s)
	}
	return NewOrbitPortrait(traj, 0)
}

// Extent is the largest |x| or |y| over all paths.
func (p *OrbitPortrait) Extent() float64 {
	extent := 0.0
	for _, path := range p.Paths {
		for _, pt := range path {
			extent = max(extent, math.Abs(pt.X), math.Abs(pt.Y))
		}
	}
	return extent
}
