package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Boundedness is the fraction of steps in which every body stays within
// radius of the center of mass.
type Boundedness struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBoundedness(radius float64) *Boundedness {
	return &Boundedness{
		name:   "boundedness",
		radius: radius,
	}
}

func (s *Boundedness) Name() string {
	return s.name
}

func (s *Boundedness) Observe(bodies dynamo.BodySet, t float64) {
	s.samples++
	cm := bodies.CenterOfMass()
	for _, b := range bodies {
		if r3.Norm(r3.Sub(b.Position, cm)) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Boundedness) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Boundedness) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxRadius is the largest distance of any body from the center of mass.
type MaxRadius struct {
	name string
	max  float64
}

func NewMaxRadius() *MaxRadius {
	return &MaxRadius{name: "max_radius"}
}

func (m *MaxRadius) Name() string { return m.name }

func (m *MaxRadius) Observe(bodies dynamo.BodySet, t float64) {
	cm := bodies.CenterOfMass()
	for _, b := range bodies {
		m.max = math.Max(m.max, r3.Norm(r3.Sub(b.Position, cm)))
	}
}

func (m *MaxRadius) Value() float64 { return m.max }

func (m *MaxRadius) Reset() { m.max = 0 }
