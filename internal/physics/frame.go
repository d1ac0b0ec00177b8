package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// AngularVelocity returns the rotation rate of a circular orbit of a and b at
// their current separation, about the z axis. Eccentric reference orbits are
// not accounted for.
func AngularVelocity(g float64, a, b *dynamo.Body) r3.Vec {
	r := r3.Norm(r3.Sub(a.Position, b.Position))
	return r3.Vec{Z: math.Sqrt(g * (a.Mass + b.Mass) / (r * r * r))}
}

// ApplyRotatingCorrection subtracts the Coriolis term 2(ω×v)dt and then the
// centrifugal term (ω×(ω×r))dt from the body's velocity.
func ApplyRotatingCorrection(b *dynamo.Body, omega r3.Vec, dt float64) {
	b.Velocity = r3.Sub(b.Velocity, r3.Scale(2*dt, r3.Cross(omega, b.Velocity)))
	b.Velocity = r3.Sub(b.Velocity, r3.Scale(dt, r3.Cross(omega, r3.Cross(omega, b.Position))))
}

// ToRotatingFrame returns v − ω×r. It seeds initial conditions and is never
// applied per step.
func ToRotatingFrame(b *dynamo.Body, omega r3.Vec) r3.Vec {
	return r3.Sub(b.Velocity, r3.Cross(omega, b.Position))
}

// SeedRotatingFrame converts every body's velocity into the frame rotating
// with omega.
func SeedRotatingFrame(bodies dynamo.BodySet, omega r3.Vec) {
	for _, b := range bodies {
		b.Velocity = ToRotatingFrame(b, omega)
	}
}

// CentrifugalPotential is −½ Σ m |ω×r|², the potential of the centrifugal
// pseudo-force.
func CentrifugalPotential(bodies dynamo.BodySet, omega r3.Vec) float64 {
	u := 0.0
	for _, b := range bodies {
		u -= 0.5 * b.Mass * r3.Norm2(r3.Cross(omega, b.Position))
	}
	return u
}
