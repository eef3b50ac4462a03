package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/synodic/internal/dynamo"
	"github.com/san-kum/synodic/internal/integrators"
	"github.com/san-kum/synodic/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["yoshida4"] = func() dynamo.Integrator { return integrators.NewYoshida4() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh drift observers for a system of the given body
// count. Metrics are stateful, so every simulator needs its own set.
func (r *Registry) DefaultMetrics(sys dynamo.Hamiltonian, bodies int) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewEnergyDrift(sys),
		metrics.NewAngularMomentumDrift(sys),
	}
	for b := 0; b < bodies; b++ {
		ms = append(ms, metrics.NewRadiusDrift(b))
	}
	return ms
}
