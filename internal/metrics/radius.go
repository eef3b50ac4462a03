package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/synodic/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// RadiusDrift tracks the largest relative change of one body's distance from
// the central mass. On a circular orbit it measures integration error; with a
// partner body it also includes the real perturbation.
type RadiusDrift struct {
	name     string
	body     int
	initial  float64
	maxDrift float64
	samples  int
}

func NewRadiusDrift(body int) *RadiusDrift {
	return &RadiusDrift{
		name: fmt.Sprintf("radius_drift_%d", body),
		body: body,
	}
}

func (r *RadiusDrift) Name() string { return r.name }

func (r *RadiusDrift) Observe(x dynamo.State, t float64) {
	if r.body >= x.Bodies() {
		return
	}
	d := r2.Norm(x.Position(r.body))
	if r.samples == 0 {
		r.initial = d
	}
	r.samples++
	r.maxDrift = math.Max(r.maxDrift, relative(d, r.initial))
}

func (r *RadiusDrift) Value() float64 { return r.maxDrift }

func (r *RadiusDrift) Reset() {
	r.initial = 0
	r.maxDrift = 0
	r.samples = 0
}
