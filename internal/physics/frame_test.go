package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

var _ = Describe("Rotating frame", func() {
	It("derives ω from the circular orbit of the reference pair", func() {
		a := dynamo.NewBody(2, r3.Vec{}, r3.Vec{})
		b := dynamo.NewBody(2, r3.Vec{Y: 1}, r3.Vec{})
		expectVec(physics.AngularVelocity(1, a, b), r3.Vec{Z: 2}, 1e-15)
	})

	It("depends on the separation cubed", func() {
		a := dynamo.NewBody(1, r3.Vec{X: -1}, r3.Vec{})
		b := dynamo.NewBody(1, r3.Vec{X: 1}, r3.Vec{})
		// sqrt(2/8)
		expectVec(physics.AngularVelocity(1, a, b), r3.Vec{Z: 0.5}, 1e-15)
	})

	It("subtracts the Coriolis and then the centrifugal term", func() {
		b := dynamo.NewBody(1, r3.Vec{X: 1}, r3.Vec{X: 1})
		physics.ApplyRotatingCorrection(b, r3.Vec{Z: 1}, 0.1)
		expectVec(b.Velocity, r3.Vec{X: 1.1, Y: -0.2}, 1e-15)
		expectVec(b.Position, r3.Vec{X: 1}, 0)
	})

	It("leaves bodies untouched when ω is zero", func() {
		b := dynamo.NewBody(1, r3.Vec{X: 3, Y: 2}, r3.Vec{X: 0.5, Z: -1})
		physics.ApplyRotatingCorrection(b, r3.Vec{}, 0.1)
		Expect(b.Velocity).To(Equal(r3.Vec{X: 0.5, Z: -1}))
	})

	It("maps rigid co-rotation to rest", func() {
		b := dynamo.NewBody(1, r3.Vec{X: 2}, r3.Vec{Y: 2})
		expectVec(physics.ToRotatingFrame(b, r3.Vec{Z: 1}), r3.Vec{}, 1e-15)
	})

	It("seeds every body of a set", func() {
		bodies := dynamo.BodySet{
			dynamo.NewBody(1, r3.Vec{X: 1}, r3.Vec{}),
			dynamo.NewBody(1, r3.Vec{Y: 1}, r3.Vec{}),
		}
		physics.SeedRotatingFrame(bodies, r3.Vec{Z: 1})
		expectVec(bodies[0].Velocity, r3.Vec{Y: -1}, 1e-15)
		expectVec(bodies[1].Velocity, r3.Vec{X: 1}, 1e-15)
	})

	It("computes the centrifugal potential", func() {
		bodies := dynamo.BodySet{dynamo.NewBody(1, r3.Vec{X: 2}, r3.Vec{})}
		Expect(physics.CentrifugalPotential(bodies, r3.Vec{Z: 1})).To(BeNumerically("~", -2, 1e-15))
	})
})
