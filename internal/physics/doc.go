// Package physics provides the gravitational force field and the
// rotating-frame math used by the integrators.
//
//   - [Gravity]: pairwise Newtonian forces, implements [dynamo.ForceField]
//   - [AngularVelocity], [ApplyRotatingCorrection], [ToRotatingFrame]:
//     co-rotating frame helpers
//   - [EffectivePotential]: the restricted three-body potential used to
//     locate Lagrange points
//
// # Energy Conservation
//
// Gravity also exposes energy and momentum diagnostics:
//
//	g := physics.NewGravity(physics.GDimensionless)
//	e := g.Energy(bodies)
//	p := physics.Momentum(bodies)
package physics
