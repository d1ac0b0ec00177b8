// Package dynamo provides the core types shared by the gravity simulator.
//
// The package defines the data model and the seams between components:
//
//   - [Body] and [BodySet]: point masses, mutated in place during a run
//   - [Snapshot] and [Trajectory]: recorded positions, one entry per body
//   - [ForceField]: pairwise force computation
//   - [Integrator] and [FrameIntegrator]: time stepping, optionally in a
//     rotating frame
//   - [Metric] and [Observer]: per-step diagnostics
//
// # Example
//
//	bodies := cfg.BodySet()
//	field := physics.NewGravity(1)
//	s := sim.New(field, integrators.NewLeapfrog())
//	result, _ := s.Run(ctx, bodies, dynamo.Config{Dt: 1e-4, Steps: 50000, Frame: dynamo.Rotating})
//
// # Thread Safety
//
// A BodySet belongs to exactly one run. Use [BodySet.Clone] before handing
// the same initial conditions to another run.
package dynamo
