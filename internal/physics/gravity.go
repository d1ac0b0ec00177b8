package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// GDimensionless is used by the Lagrange-point and figure-eight scenarios.
	GDimensionless = 1.0
	// GSI is the gravitational constant in m³ kg⁻¹ s⁻².
	GSI = 6.67430e-11
)

// Gravity is the Newtonian pairwise force field. There is no softening: two
// bodies at the same position produce Inf/NaN forces.
type Gravity struct {
	G float64
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

func (gr *Gravity) Constant() float64 { return gr.G }

// PairForce returns the force body b exerts on body a.
func (gr *Gravity) PairForce(a, b *dynamo.Body) r3.Vec {
	r := r3.Sub(b.Position, a.Position)
	d := r3.Norm(r)
	return r3.Scale(gr.G*a.Mass*b.Mass/(d*d*d), r)
}

// Forces computes F_i = G m_i Σ_{j≠i} m_j (r_j − r_i)/|r_j − r_i|³ for every
// body. The full O(n²) sum is evaluated on each call.
func (gr *Gravity) Forces(bodies dynamo.BodySet, out []r3.Vec) []r3.Vec {
	n := len(bodies)
	if len(out) != n {
		out = make([]r3.Vec, n)
	}

	for i := 0; i < n; i++ {
		var f r3.Vec
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			f = r3.Add(f, gr.PairForce(bodies[i], bodies[j]))
		}
		out[i] = f
	}

	return out
}

func (gr *Gravity) PotentialEnergy(bodies dynamo.BodySet) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := r3.Norm(r3.Sub(bodies[j].Position, bodies[i].Position))
			pe -= gr.G * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

func (gr *Gravity) Energy(bodies dynamo.BodySet) float64 {
	return KineticEnergy(bodies) + gr.PotentialEnergy(bodies)
}

func KineticEnergy(bodies dynamo.BodySet) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * r3.Norm2(b.Velocity)
	}
	return ke
}

func Momentum(bodies dynamo.BodySet) r3.Vec {
	var p r3.Vec
	for _, b := range bodies {
		p = r3.Add(p, r3.Scale(b.Mass, b.Velocity))
	}
	return p
}

func AngularMomentum(bodies dynamo.BodySet) r3.Vec {
	var l r3.Vec
	for _, b := range bodies {
		l = r3.Add(l, r3.Scale(b.Mass, r3.Cross(b.Position, b.Velocity)))
	}
	return l
}
