package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// driftTracker keeps the largest relative departure from the first sample.
type driftTracker struct {
	initial  float64
	maxDrift float64
	samples  int
}

func (d *driftTracker) observe(v float64) {
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(v-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *driftTracker) reset() { *d = driftTracker{} }

// EnergyDrift is the largest relative change in total energy. Only meaningful
// for inertial runs.
type EnergyDrift struct {
	name    string
	gravity *physics.Gravity
	drift   driftTracker
}

func NewEnergyDrift(g *physics.Gravity) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies dynamo.BodySet, t float64) {
	e.drift.observe(e.gravity.Energy(bodies))
}

func (e *EnergyDrift) Value() float64 { return e.drift.maxDrift }

func (e *EnergyDrift) Reset() { e.drift.reset() }

// JacobiDrift tracks the Jacobi integral T' + V − ½Σm|ω×r|², the quantity
// conserved in a uniformly rotating frame. With a zero frame it reduces to
// the total energy.
type JacobiDrift struct {
	name    string
	gravity *physics.Gravity
	omega   r3.Vec
	drift   driftTracker
}

func NewJacobiDrift(g *physics.Gravity) *JacobiDrift {
	return &JacobiDrift{
		name:    "jacobi_drift",
		gravity: g,
	}
}

func (j *JacobiDrift) Name() string { return j.name }

func (j *JacobiDrift) SetFrame(omega r3.Vec) { j.omega = omega }

func (j *JacobiDrift) Observe(bodies dynamo.BodySet, t float64) {
	j.drift.observe(Jacobi(j.gravity, bodies, j.omega))
}

func (j *JacobiDrift) Value() float64 { return j.drift.maxDrift }

func (j *JacobiDrift) Reset() { j.drift.reset() }

// Jacobi evaluates the rotating-frame integral for the current state.
func Jacobi(g *physics.Gravity, bodies dynamo.BodySet, omega r3.Vec) float64 {
	return physics.KineticEnergy(bodies) + g.PotentialEnergy(bodies) + physics.CentrifugalPotential(bodies, omega)
}

// MomentumDrift is the largest change in total linear momentum, divided by
// total mass so it reads as a velocity.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies dynamo.BodySet, t float64) {
	p := physics.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	if total := bodies.TotalMass(); total > 0 {
		m.maxDrift = math.Max(m.maxDrift, r3.Norm(r3.Sub(p, m.initial))/total)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift is the largest change in total angular momentum about
// the origin, relative to its initial magnitude. A run that starts with zero
// angular momentum reports the absolute change.
type AngularMomentumDrift struct {
	name     string
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(bodies dynamo.BodySet, t float64) {
	l := physics.AngularMomentum(bodies)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	drift := r3.Norm(r3.Sub(l, a.initial))
	if n := r3.Norm(a.initial); n > 0 {
		drift /= n
	}
	a.maxDrift = math.Max(a.maxDrift, drift)
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = r3.Vec{}
	a.maxDrift = 0
	a.samples = 0
}
