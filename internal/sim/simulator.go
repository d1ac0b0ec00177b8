package sim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/physics"
)

type Simulator struct {
	field      dynamo.ForceField
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(field dynamo.ForceField, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		field:      field,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates bodies for cfg.Steps steps and returns the recorded
// trajectory. The bodies are mutated in place and hold the final state when
// Run returns; clone them first to keep the initial configuration.
func (s *Simulator) Run(ctx context.Context, bodies dynamo.BodySet, cfg dynamo.Config) (*dynamo.Result, error) {
	st, err := s.Start(bodies, cfg)
	if err != nil {
		return nil, err
	}

	for !st.Done() {
		select {
		case <-ctx.Done():
			return st.Finish(), ctx.Err()
		default:
		}

		if err := st.Step(); err != nil {
			return st.Finish(), err
		}
	}

	return st.Finish(), nil
}

// Start validates the run, fixes the frame angular velocity and applies the
// integrator's opening step. The returned Stepper advances one step at a time.
func (s *Simulator) Start(bodies dynamo.BodySet, cfg dynamo.Config) (*Stepper, error) {
	if err := s.validateConfig(bodies, cfg); err != nil {
		return nil, err
	}

	capacity := cfg.Steps
	st := &Stepper{
		sim:       s,
		bodies:    bodies,
		cfg:       cfg,
		masses:    bodies.Masses(),
		totalMass: bodies.TotalMass(),
		record:    true,
		result: &dynamo.Result{
			Absolute:     make(dynamo.Trajectory, 0, capacity),
			CenterOfMass: make(dynamo.Trajectory, 0, capacity),
			Times:        make([]float64, 0, capacity),
			Metrics:      make(map[string]float64),
			Errors:       make([]error, 0),
		},
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var omega r3.Vec
	if cfg.Frame == dynamo.Rotating {
		omega = physics.AngularVelocity(s.field.Constant(), bodies[0], bodies[1])
	}
	if fi, ok := s.integrator.(dynamo.FrameIntegrator); ok {
		fi.SetFrame(omega)
	}
	for _, m := range s.metrics {
		if fm, ok := m.(dynamo.FrameMetric); ok {
			fm.SetFrame(omega)
		}
	}
	st.result.Omega = omega

	s.integrator.Init(s.field, bodies, cfg.Dt)

	return st, nil
}

func (s *Simulator) validateConfig(bodies dynamo.BodySet, cfg dynamo.Config) error {
	if len(bodies) == 0 {
		return &dynamo.ConfigError{Field: "bodies", Reason: "at least one body is required"}
	}
	for i, b := range bodies {
		if b == nil {
			return &dynamo.ConfigError{Field: fmt.Sprintf("bodies[%d]", i), Reason: "nil body"}
		}
		if !(b.Mass > 0) {
			return &dynamo.ConfigError{Field: fmt.Sprintf("bodies[%d].mass", i), Reason: fmt.Sprintf("must be positive, got %g", b.Mass)}
		}
	}
	if !(cfg.Dt > 0) {
		return &dynamo.ConfigError{Field: "dt", Reason: fmt.Sprintf("must be positive, got %g", cfg.Dt)}
	}
	if cfg.Steps < 0 {
		return &dynamo.ConfigError{Field: "steps", Reason: fmt.Sprintf("must not be negative, got %d", cfg.Steps)}
	}
	if cfg.Frame == dynamo.Rotating {
		if len(bodies) < 2 {
			return &dynamo.ConfigError{Field: "frame", Reason: "a rotating frame needs two reference bodies"}
		}
		if _, ok := s.integrator.(dynamo.FrameIntegrator); !ok {
			return &dynamo.ConfigError{Field: "integrator", Reason: fmt.Sprintf("%T cannot run in a rotating frame", s.integrator)}
		}
	}
	return nil
}

// Stepper is a run in progress. It is not safe for concurrent use.
type Stepper struct {
	sim       *Simulator
	bodies    dynamo.BodySet
	cfg       dynamo.Config
	masses    []float64
	totalMass float64
	record    bool
	step      int
	t         float64
	result    *dynamo.Result
	finished  bool
}

// SetRecording turns trajectory recording on or off. Long interactive runs
// switch it off to keep memory flat.
func (st *Stepper) SetRecording(on bool) { st.record = on }

func (st *Stepper) Done() bool { return st.step >= st.cfg.Steps }

func (st *Stepper) StepIndex() int         { return st.step }
func (st *Stepper) Time() float64          { return st.t }
func (st *Stepper) Omega() r3.Vec          { return st.result.Omega }
func (st *Stepper) Bodies() dynamo.BodySet { return st.bodies }

// CenterOfMassPositions returns the current positions relative to the center
// of mass.
func (st *Stepper) CenterOfMassPositions() dynamo.Snapshot {
	snap := st.bodies.Positions()
	return snap.Reduce(snap.CenterOfMass(st.masses, st.totalMass))
}

// Step records the positions at the start of the step, notifies metrics and
// observers, then advances the bodies by one time step.
func (st *Stepper) Step() error {
	s := st.sim
	res := st.result

	if st.record {
		snap := st.bodies.Positions()
		cm := snap.CenterOfMass(st.masses, st.totalMass)
		res.Absolute = append(res.Absolute, snap)
		res.CenterOfMass = append(res.CenterOfMass, snap.Reduce(cm))
		res.Times = append(res.Times, st.t)
	}

	for _, m := range s.metrics {
		m.Observe(st.bodies, st.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(st.step, st.bodies, st.t)
	}

	s.integrator.Step(s.field, st.bodies, st.cfg.Dt)
	st.step++
	st.t = float64(st.step) * st.cfg.Dt
	res.StepsTaken++

	if st.cfg.ValidateState && !st.bodies.IsValid() {
		err := &dynamo.SimulationError{Step: st.step - 1, Time: st.t, Wrapped: dynamo.ErrSingularity}
		res.Errors = append(res.Errors, err)
		return err
	}

	return nil
}

// Finish collects metric values, flattens the center-of-mass trajectory and,
// for two-body runs, estimates the orbital period. It may be called more than
// once; later calls return the same result.
func (st *Stepper) Finish() *dynamo.Result {
	res := st.result
	if st.finished {
		return res
	}
	st.finished = true

	for _, m := range st.sim.metrics {
		res.Metrics[m.Name()] = m.Value()
	}

	res.Flat = export.Flatten(res.CenterOfMass)

	if len(st.bodies) == 2 {
		if period, err := analysis.Period(res.CenterOfMass, st.cfg.Dt); err == nil {
			res.Period = period
			res.PeriodKnown = true
		}
	}

	return res
}
