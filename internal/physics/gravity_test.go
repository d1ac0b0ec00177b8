package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func expectVec(got, want r3.Vec, tol float64) {
	ExpectWithOffset(1, got.X).To(BeNumerically("~", want.X, tol))
	ExpectWithOffset(1, got.Y).To(BeNumerically("~", want.Y, tol))
	ExpectWithOffset(1, got.Z).To(BeNumerically("~", want.Z, tol))
}

var _ = Describe("Gravity", func() {
	var (
		g      *physics.Gravity
		bodies dynamo.BodySet
	)

	BeforeEach(func() {
		g = physics.NewGravity(physics.GDimensionless)
		bodies = dynamo.BodySet{
			dynamo.NewBody(1.0, r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 1}),
			dynamo.NewBody(2.0, r3.Vec{X: 1, Y: 1, Z: 0}, r3.Vec{X: -1}),
			dynamo.NewBody(0.5, r3.Vec{X: -2, Y: 0.5, Z: 3}, r3.Vec{Y: 1}),
		}
	})

	It("attracts two unit masses with inverse-square strength", func() {
		pair := dynamo.BodySet{
			dynamo.NewBody(1, r3.Vec{}, r3.Vec{}),
			dynamo.NewBody(1, r3.Vec{X: 2}, r3.Vec{}),
		}
		f := g.Forces(pair, nil)
		Expect(f).To(HaveLen(2))
		expectVec(f[0], r3.Vec{X: 0.25}, 1e-15)
		expectVec(f[1], r3.Vec{X: -0.25}, 1e-15)
	})

	It("scales with the gravitational constant", func() {
		strong := physics.NewGravity(3)
		weak := g.Forces(bodies, nil)
		scaled := strong.Forces(bodies, nil)
		for i := range bodies {
			expectVec(scaled[i], r3.Scale(3, weak[i]), 1e-12)
		}
		Expect(strong.Constant()).To(Equal(3.0))
	})

	It("obeys Newton's third law for every pair", func() {
		for i := range bodies {
			for j := range bodies {
				if i == j {
					continue
				}
				fij := g.PairForce(bodies[i], bodies[j])
				fji := g.PairForce(bodies[j], bodies[i])
				expectVec(r3.Add(fij, fji), r3.Vec{}, 1e-12)
				Expect(r3.Norm(fij)).To(BeNumerically("~", r3.Norm(fji), 1e-12))
			}
		}
	})

	It("produces forces that sum to zero", func() {
		var total r3.Vec
		for _, f := range g.Forces(bodies, nil) {
			total = r3.Add(total, f)
		}
		expectVec(total, r3.Vec{}, 1e-12)
	})

	It("overwrites a reused output buffer", func() {
		out := []r3.Vec{{X: 100}, {Y: 100}, {Z: 100}}
		fresh := g.Forces(bodies, nil)
		reused := g.Forces(bodies, out)
		Expect(&reused[0]).To(BeIdenticalTo(&out[0]))
		for i := range fresh {
			Expect(reused[i]).To(Equal(fresh[i]))
		}
	})

	It("does not guard coincident positions", func() {
		pair := dynamo.BodySet{
			dynamo.NewBody(1, r3.Vec{X: 1}, r3.Vec{}),
			dynamo.NewBody(1, r3.Vec{X: 1}, r3.Vec{}),
		}
		f := g.Forces(pair, nil)
		Expect(math.IsNaN(f[0].X)).To(BeTrue())
	})

	Describe("diagnostics", func() {
		var binary dynamo.BodySet

		BeforeEach(func() {
			binary = dynamo.BodySet{
				dynamo.NewBody(2, r3.Vec{}, r3.Vec{X: -1}),
				dynamo.NewBody(2, r3.Vec{Y: 1}, r3.Vec{X: 1}),
			}
		})

		It("computes kinetic, potential and total energy", func() {
			Expect(physics.KineticEnergy(binary)).To(BeNumerically("~", 2, 1e-12))
			Expect(g.PotentialEnergy(binary)).To(BeNumerically("~", -4, 1e-12))
			Expect(g.Energy(binary)).To(BeNumerically("~", -2, 1e-12))
		})

		It("computes linear and angular momentum", func() {
			expectVec(physics.Momentum(binary), r3.Vec{}, 1e-12)
			expectVec(physics.AngularMomentum(binary), r3.Vec{Z: -2}, 1e-12)
		})
	})
})
