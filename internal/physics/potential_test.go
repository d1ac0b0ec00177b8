package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/physics"
)

var _ = Describe("EffectivePotential", func() {
	p := physics.DefaultEffectivePotential()

	It("sums both wells at the midpoint", func() {
		Expect(p.At(0, 0)).To(BeNumerically("~", -3, 1e-12))
	})

	It("adds the centrifugal bowl off axis", func() {
		want := -3/math.Sqrt2 + 0.5
		Expect(p.At(0, 1)).To(BeNumerically("~", want, 1e-12))
	})

	It("samples a grid corner to corner", func() {
		grid := p.Grid(-3, 3, 5, 4)
		Expect(grid).To(HaveLen(4))
		Expect(grid[0]).To(HaveLen(5))
		Expect(grid[0][0]).To(BeNumerically("~", p.At(-3, -3), 1e-12))
		Expect(grid[3][4]).To(BeNumerically("~", p.At(3, 3), 1e-12))
	})
})
