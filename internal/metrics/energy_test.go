package metrics

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

func restingPair(separation float64) dynamo.BodySet {
	return dynamo.BodySet{
		dynamo.NewBody(1, r3.Vec{}, r3.Vec{}),
		dynamo.NewBody(1, r3.Vec{X: separation}, r3.Vec{}),
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(physics.NewGravity(1))

	m.Observe(restingPair(2), 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift after one sample, got %f", m.Value())
	}

	// E goes from -1/2 to -1.
	m.Observe(restingPair(1), 0.1)
	if math.Abs(m.Value()-1) > 1e-12 {
		t.Errorf("expected drift 1, got %f", m.Value())
	}

	// Smaller drifts do not lower the maximum.
	m.Observe(restingPair(2), 0.2)
	if math.Abs(m.Value()-1) > 1e-12 {
		t.Errorf("expected drift to stay at 1, got %f", m.Value())
	}
}

func TestEnergyDriftReset(t *testing.T) {
	m := NewEnergyDrift(physics.NewGravity(1))

	m.Observe(restingPair(2), 0)
	m.Observe(restingPair(1), 0.1)
	if m.Value() == 0 {
		t.Error("expected non-zero drift")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}

	m.Observe(restingPair(1), 0)
	if m.Value() != 0 {
		t.Error("reset should take a new reference energy")
	}
}

func TestEnergyDriftLeapfrog(t *testing.T) {
	g := physics.NewGravity(1)
	s := sim.New(g, integrators.NewLeapfrog())
	drift := NewEnergyDrift(g)
	s.AddMetric(drift)
	s.AddMetric(NewMomentumDrift())
	s.AddMetric(NewAngularMomentumDrift())

	res, err := s.Run(context.Background(), config.CircularBinary().BodySet(), dynamo.Config{Dt: 0.001, Steps: 10000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Metrics["energy_drift"] > 1e-3 {
		t.Errorf("leapfrog energy drift %g too large", res.Metrics["energy_drift"])
	}
	if res.Metrics["momentum_drift"] > 1e-10 {
		t.Errorf("momentum drift %g, want ~0", res.Metrics["momentum_drift"])
	}
	// Central pair forces leave angular momentum untouched by every kick.
	if res.Metrics["angular_momentum_drift"] > 1e-9 {
		t.Errorf("angular momentum drift %g, want ~0", res.Metrics["angular_momentum_drift"])
	}
}

func TestJacobiReducesToEnergy(t *testing.T) {
	g := physics.NewGravity(1)
	bodies := config.FigureEight().BodySet()

	if got, want := Jacobi(g, bodies, r3.Vec{}), g.Energy(bodies); math.Abs(got-want) > 1e-12 {
		t.Errorf("Jacobi with zero frame = %f, want energy %f", got, want)
	}
}

func TestJacobiDriftRotating(t *testing.T) {
	cfg := config.RestrictedL4()
	g := physics.NewGravity(cfg.G)
	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	sc.Steps = 10000

	s := sim.New(g, integrators.NewLeapfrog())
	jacobi := NewJacobiDrift(g)
	s.AddMetric(jacobi)

	res, err := s.Run(context.Background(), cfg.BodySet(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if math.Abs(jacobi.omega.Z-1) > 1e-12 {
		t.Errorf("expected frame omega (0, 0, 1), got %v", jacobi.omega)
	}
	if res.Metrics["jacobi_drift"] > 0.05 {
		t.Errorf("jacobi drift %g too large", res.Metrics["jacobi_drift"])
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()

	bodies := restingPair(1)
	m.Observe(bodies, 0)

	bodies[0].Velocity = r3.Vec{X: 2}
	m.Observe(bodies, 0.1)

	// |ΔP| = 2, total mass 2.
	if math.Abs(m.Value()-1) > 1e-12 {
		t.Errorf("expected drift 1, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	a := NewAngularMomentumDrift()

	// L = m (r × v) = (0, 0, 2).
	bodies := restingPair(1)
	bodies[1].Velocity = r3.Vec{Y: 2}
	a.Observe(bodies, 0)

	bodies[1].Velocity = r3.Vec{Y: 3}
	a.Observe(bodies, 0.1)
	if math.Abs(a.Value()-0.5) > 1e-12 {
		t.Errorf("expected relative drift 0.5, got %f", a.Value())
	}

	a.Reset()
	a.Observe(restingPair(1), 0)
	a.Observe(bodies, 0.1)
	if math.Abs(a.Value()-3) > 1e-12 {
		t.Errorf("zero initial momentum should give the absolute change 3, got %f", a.Value())
	}
}
