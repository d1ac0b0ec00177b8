package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent of an n-body
// configuration by following a reference and a perturbed copy and
// renormalising their phase-space separation after every step. A clearly
// positive value marks chaotic motion.
//
// newIntegrator must return a fresh integrator per call since integrators
// carry per-run scratch state. The bodies are not modified.
func LyapunovExponent(
	field dynamo.ForceField,
	newIntegrator func() dynamo.Integrator,
	bodies dynamo.BodySet,
	dt float64,
	steps int,
	perturbation float64,
) float64 {
	if len(bodies) == 0 || steps <= 0 || perturbation <= 0 {
		return 0
	}

	ref := bodies.Clone()
	pert := bodies.Clone()
	pert[0].Position.X += perturbation

	refInteg := newIntegrator()
	pertInteg := newIntegrator()
	refInteg.Init(field, ref, dt)
	pertInteg.Init(field, pert, dt)

	d0 := separation(ref, pert)
	sumLog := 0.0

	for k := 0; k < steps; k++ {
		refInteg.Step(field, ref, dt)
		pertInteg.Step(field, pert, dt)

		d := separation(ref, pert)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		sumLog += math.Log(d / d0)

		// Pull the perturbed copy back to distance d0 along the same direction.
		scale := d0 / d
		for i := range pert {
			pert[i].Position = r3.Add(ref[i].Position, r3.Scale(scale, r3.Sub(pert[i].Position, ref[i].Position)))
			pert[i].Velocity = r3.Add(ref[i].Velocity, r3.Scale(scale, r3.Sub(pert[i].Velocity, ref[i].Velocity)))
		}
	}

	return sumLog / (float64(steps) * dt)
}

func separation(a, b dynamo.BodySet) float64 {
	sum := 0.0
	for i := range a {
		sum += r3.Norm2(r3.Sub(b[i].Position, a[i].Position))
		sum += r3.Norm2(r3.Sub(b[i].Velocity, a[i].Velocity))
	}
	return math.Sqrt(sum)
}
