package integrators

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Euler is the semi-implicit (symplectic) Euler scheme used for inertial
// runs: the velocity is kicked first and the position drifts with the new
// velocity within the same step.
type Euler struct {
	forces []r3.Vec
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Init(field dynamo.ForceField, bodies dynamo.BodySet, dt float64) {}

func (e *Euler) Step(field dynamo.ForceField, bodies dynamo.BodySet, dt float64) {
	e.forces = field.Forces(bodies, e.forces)
	for i, b := range bodies {
		b.Velocity = r3.Add(b.Velocity, r3.Scale(dt/b.Mass, e.forces[i]))
		b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	}
}
