package experiment

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
)

// BoundednessFactor scales the initial extent of a system into the escape
// radius used by the boundedness metric.
const BoundednessFactor = 10.0

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, &dynamo.ConfigError{Field: "integrator", Reason: fmt.Sprintf("unknown integrator %q", name)}
	}
	return fn(), nil
}

// IntegratorFactory returns the constructor behind name, for callers that
// need several independent instances.
func (r *Registry) IntegratorFactory(name string) (func() dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, &dynamo.ConfigError{Field: "integrator", Reason: fmt.Sprintf("unknown integrator %q", name)}
	}
	return fn, nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics picks conservation checks suited to the frame. Inertial runs
// track energy, momentum and angular momentum; rotating runs track the
// Jacobi integral.
func (r *Registry) DefaultMetrics(g *physics.Gravity, frame dynamo.Frame, initial dynamo.BodySet) []dynamo.Metric {
	var ms []dynamo.Metric
	if frame == dynamo.Rotating {
		ms = append(ms, metrics.NewJacobiDrift(g))
	} else {
		ms = append(ms, metrics.NewEnergyDrift(g), metrics.NewMomentumDrift(), metrics.NewAngularMomentumDrift())
	}

	return append(ms,
		metrics.NewMaxRadius(),
		metrics.NewBoundedness(BoundednessFactor*extent(initial)),
	)
}

// extent is the largest distance of any body from the center of mass, or 1
// when every body sits at the same point.
func extent(bodies dynamo.BodySet) float64 {
	if len(bodies) == 0 {
		return 1
	}
	cm := bodies.CenterOfMass()
	e := 0.0
	for _, b := range bodies {
		e = math.Max(e, r3.Norm(r3.Sub(b.Position, cm)))
	}
	if e == 0 {
		return 1
	}
	return e
}
