package experiment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if got := r.ListIntegrators(); !reflect.DeepEqual(got, []string{"euler", "leapfrog"}) {
		t.Errorf("ListIntegrators() = %v", got)
	}

	integ, err := r.GetIntegrator("leapfrog")
	if err != nil {
		t.Fatalf("GetIntegrator failed: %v", err)
	}
	if _, ok := integ.(dynamo.FrameIntegrator); !ok {
		t.Error("leapfrog should accept a rotating frame")
	}

	a, _ := r.GetIntegrator("euler")
	b, _ := r.GetIntegrator("euler")
	if a == b {
		t.Error("each call should build a new integrator")
	}
}

func TestRegistry_UnknownIntegrator(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetIntegrator("rk4"); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if _, err := r.IntegratorFactory("rk4"); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestDefaultMetrics(t *testing.T) {
	r := NewRegistry()
	g := physics.NewGravity(1)
	bodies := config.CircularBinary().BodySet()

	names := func(ms []dynamo.Metric) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Name()
		}
		return out
	}

	inertial := names(r.DefaultMetrics(g, dynamo.Inertial, bodies))
	if !reflect.DeepEqual(inertial, []string{"energy_drift", "momentum_drift", "angular_momentum_drift", "max_radius", "boundedness"}) {
		t.Errorf("inertial metrics = %v", inertial)
	}

	rotating := names(r.DefaultMetrics(g, dynamo.Rotating, bodies))
	if !reflect.DeepEqual(rotating, []string{"jacobi_drift", "max_radius", "boundedness"}) {
		t.Errorf("rotating metrics = %v", rotating)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.FigureEight()
	cfg.Steps = 1000

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Fatal("expected error before setup")
	}

	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	first, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if first.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", first.StepsTaken)
	}
	if first.Metrics["boundedness"] != 1 {
		t.Errorf("figure-eight should stay bounded, got %v", first.Metrics["boundedness"])
	}

	second, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !reflect.DeepEqual(first.Flat, second.Flat) {
		t.Error("repeated runs should start from the same configuration")
	}
}

func TestExperimentSetup_Invalid(t *testing.T) {
	cfg := config.CircularBinary()
	cfg.Integrator = "rk45"

	if err := New(cfg).Setup(NewRegistry()); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestExperimentStart(t *testing.T) {
	cfg := config.RestrictedL4()
	cfg.Steps = 10

	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	st, err := exp.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for !st.Done() {
		if err := st.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if st.Omega().Z <= 0 {
		t.Errorf("expected a positive frame rate, got %v", st.Omega())
	}
}
