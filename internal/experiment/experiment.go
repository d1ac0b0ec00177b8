package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Experiment binds a scenario configuration to a ready simulator.
type Experiment struct {
	cfg       *config.Config
	gravity   *physics.Gravity
	simulator *sim.Simulator
	bodies    dynamo.BodySet
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the configuration, resolves the integrator and attaches the
// default metrics for the chosen frame.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	simCfg, err := e.cfg.SimConfig()
	if err != nil {
		return err
	}

	e.gravity = physics.NewGravity(e.cfg.G)
	e.simulator = sim.New(e.gravity, integ)
	for _, m := range reg.DefaultMetrics(e.gravity, simCfg.Frame, e.cfg.BodySet()) {
		e.simulator.AddMetric(m)
	}
	return nil
}

// Run builds fresh bodies from the configuration and integrates them.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg, err := e.cfg.SimConfig()
	if err != nil {
		return nil, err
	}

	e.bodies = e.cfg.BodySet()
	return e.simulator.Run(ctx, e.bodies, simCfg)
}

// Start prepares an incremental run for interactive callers.
func (e *Experiment) Start() (*sim.Stepper, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg, err := e.cfg.SimConfig()
	if err != nil {
		return nil, err
	}

	e.bodies = e.cfg.BodySet()
	return e.simulator.Start(e.bodies, simCfg)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Gravity() *physics.Gravity { return e.gravity }

// Bodies returns the bodies of the latest run, holding their final state once
// Run has returned.
func (e *Experiment) Bodies() dynamo.BodySet { return e.bodies }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
