package integrators_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
)

func unitPair() dynamo.BodySet {
	return dynamo.BodySet{
		dynamo.NewBody(1, r3.Vec{}, r3.Vec{}),
		dynamo.NewBody(1, r3.Vec{X: 2}, r3.Vec{}),
	}
}

func circularBinary() dynamo.BodySet {
	return dynamo.BodySet{
		dynamo.NewBody(2, r3.Vec{}, r3.Vec{X: -1}),
		dynamo.NewBody(2, r3.Vec{Y: 1}, r3.Vec{X: 1}),
	}
}

func separation(bodies dynamo.BodySet) float64 {
	return r3.Norm(r3.Sub(bodies[1].Position, bodies[0].Position))
}

var _ = Describe("Euler", func() {
	var g *physics.Gravity

	BeforeEach(func() {
		g = physics.NewGravity(1)
	})

	It("kicks the velocity before drifting the position", func() {
		bodies := unitPair()
		e := integrators.NewEuler()
		e.Init(g, bodies, 0.1)
		Expect(bodies[0].Velocity).To(Equal(r3.Vec{}))

		e.Step(g, bodies, 0.1)
		Expect(bodies[0].Velocity.X).To(BeNumerically("~", 0.025, 1e-15))
		Expect(bodies[0].Position.X).To(BeNumerically("~", 0.0025, 1e-15))
		Expect(bodies[1].Velocity.X).To(BeNumerically("~", -0.025, 1e-15))
		Expect(bodies[1].Position.X).To(BeNumerically("~", 1.9975, 1e-15))
	})

	It("conserves mass and linear momentum", func() {
		bodies := dynamo.BodySet{
			dynamo.NewBody(1, r3.Vec{X: 1, Y: 5}, r3.Vec{X: -0.9}),
			dynamo.NewBody(1, r3.Vec{X: 2, Y: 2}, r3.Vec{Y: 1.5}),
			dynamo.NewBody(1, r3.Vec{Z: -4}, r3.Vec{Z: 3}),
		}
		m0 := bodies.TotalMass()
		p0 := physics.Momentum(bodies)

		e := integrators.NewEuler()
		for i := 0; i < 2000; i++ {
			e.Step(g, bodies, 0.001)
			Expect(bodies.TotalMass()).To(Equal(m0))
		}

		p := physics.Momentum(bodies)
		Expect(p.X).To(BeNumerically("~", p0.X, 1e-9))
		Expect(p.Y).To(BeNumerically("~", p0.Y, 1e-9))
		Expect(p.Z).To(BeNumerically("~", p0.Z, 1e-9))
	})

	It("keeps a circular binary nearly circular", func() {
		bodies := circularBinary()
		e := integrators.NewEuler()
		for i := 0; i < 10000; i++ {
			e.Step(g, bodies, 0.001)
			Expect(separation(bodies)).To(BeNumerically("~", 1, 1e-2))
		}
	})
})

var _ = Describe("Leapfrog", func() {
	var g *physics.Gravity

	BeforeEach(func() {
		g = physics.NewGravity(1)
	})

	It("opens with a half kick and leaves positions alone", func() {
		bodies := unitPair()
		l := integrators.NewLeapfrog()
		l.Init(g, bodies, 0.1)
		Expect(bodies[0].Velocity.X).To(BeNumerically("~", 0.0125, 1e-15))
		Expect(bodies[1].Velocity.X).To(BeNumerically("~", -0.0125, 1e-15))
		Expect(bodies[0].Position).To(Equal(r3.Vec{}))
	})

	It("drifts with the half-step velocity then kicks with the new forces", func() {
		bodies := unitPair()
		l := integrators.NewLeapfrog()
		l.Init(g, bodies, 0.1)
		l.Step(g, bodies, 0.1)

		Expect(bodies[0].Position.X).To(BeNumerically("~", 0.00125, 1e-15))
		Expect(bodies[1].Position.X).To(BeNumerically("~", 1.99875, 1e-15))

		d := 1.99875 - 0.00125
		want := 0.0125 + 0.1/(d*d)
		Expect(bodies[0].Velocity.X).To(BeNumerically("~", want, 1e-12))
		Expect(bodies[1].Velocity.X).To(BeNumerically("~", -want, 1e-12))
	})

	It("reports no frame until one is set", func() {
		l := integrators.NewLeapfrog()
		Expect(l.Omega()).To(Equal(r3.Vec{}))
		l.SetFrame(r3.Vec{Z: 2})
		Expect(l.Omega()).To(Equal(r3.Vec{Z: 2}))
	})

	It("applies the rotating correction after the kick", func() {
		omega := r3.Vec{Z: 0.5}
		dt := 0.1

		bodies := unitPair()
		manual := bodies.Clone()

		l := integrators.NewLeapfrog()
		l.SetFrame(omega)
		l.Init(g, bodies, dt)
		l.Step(g, bodies, dt)

		plain := integrators.NewLeapfrog()
		plain.Init(g, manual, dt)
		plain.Step(g, manual, dt)
		for _, b := range manual {
			physics.ApplyRotatingCorrection(b, omega, dt)
		}

		for i := range bodies {
			Expect(bodies[i].Position).To(Equal(manual[i].Position))
			Expect(bodies[i].Velocity.X).To(BeNumerically("~", manual[i].Velocity.X, 1e-15))
			Expect(bodies[i].Velocity.Y).To(BeNumerically("~", manual[i].Velocity.Y, 1e-15))
		}
		Expect(bodies[0].Velocity.Y).NotTo(BeZero())
	})

	It("keeps a circular binary circular in the inertial frame", func() {
		bodies := circularBinary()
		l := integrators.NewLeapfrog()
		l.Init(g, bodies, 0.001)
		for i := 0; i < 10000; i++ {
			l.Step(g, bodies, 0.001)
			Expect(separation(bodies)).To(BeNumerically("~", 1, 1e-3))
		}
	})
})
