package integrators

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Leapfrog is a drift-kick leapfrog that keeps velocities half a step ahead
// of positions. When a frame is set, the Coriolis and centrifugal terms are
// applied to the post-kick velocity of every step.
type Leapfrog struct {
	omega    r3.Vec
	rotating bool
	forces   []r3.Vec
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

// SetFrame switches the integrator into the frame rotating with omega. A zero
// omega switches back to the inertial frame.
func (l *Leapfrog) SetFrame(omega r3.Vec) {
	l.omega = omega
	l.rotating = omega != r3.Vec{}
}

func (l *Leapfrog) Omega() r3.Vec { return l.omega }

// Init applies the opening half kick v += (F/m)(dt/2).
func (l *Leapfrog) Init(field dynamo.ForceField, bodies dynamo.BodySet, dt float64) {
	l.forces = field.Forces(bodies, l.forces)
	halfDt := dt * 0.5
	for i, b := range bodies {
		b.Velocity = r3.Add(b.Velocity, r3.Scale(halfDt/b.Mass, l.forces[i]))
	}
}

func (l *Leapfrog) Step(field dynamo.ForceField, bodies dynamo.BodySet, dt float64) {
	for _, b := range bodies {
		b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	}

	l.forces = field.Forces(bodies, l.forces)

	for i, b := range bodies {
		b.Velocity = r3.Add(b.Velocity, r3.Scale(dt/b.Mass, l.forces[i]))
		if l.rotating {
			physics.ApplyRotatingCorrection(b, l.omega, dt)
		}
	}
}
