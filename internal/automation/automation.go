package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Scenario is a batch of independent runs described in YAML.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Runs        []RunSpec `yaml:"runs"`
}

// RunSpec starts from a preset or an inline config and applies overrides.
// Zero-valued overrides are ignored. Duration wins over Steps.
type RunSpec struct {
	Name       string         `yaml:"name"`
	Preset     string         `yaml:"preset"`
	Config     *config.Config `yaml:"config"`
	Integrator string         `yaml:"integrator"`
	Frame      string         `yaml:"frame"`
	Dt         float64        `yaml:"dt"`
	Steps      int            `yaml:"steps"`
	Duration   float64        `yaml:"duration"`
}

// Resolve builds the effective configuration of the run.
func (r RunSpec) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case r.Config != nil:
		cfg = r.Config.Clone()
	case r.Preset != "":
		var err error
		if cfg, err = config.GetPreset(r.Preset); err != nil {
			return nil, err
		}
	default:
		return nil, &dynamo.ConfigError{Field: "run", Reason: "needs a preset or an inline config"}
	}

	if r.Name != "" {
		cfg.Name = r.Name
	}
	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}
	if r.Frame != "" {
		cfg.Frame = r.Frame
	}
	if r.Dt > 0 {
		cfg.Dt = r.Dt
	}
	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	if r.Duration > 0 {
		cfg.SetDuration(r.Duration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}

// RunOutcome pairs a finished run with the configuration that produced it.
type RunOutcome struct {
	Config *config.Config
	Result *dynamo.Result
}

// RunScenario executes every run of the scenario concurrently, at most limit
// at a time. Outcomes keep the order of the scenario file.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, limit int) ([]RunOutcome, error) {
	cfgs := make([]*config.Config, len(scenario.Runs))
	for i, run := range scenario.Runs {
		cfg, err := run.Resolve()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		cfgs[i] = cfg
	}

	results, err := runAll(ctx, cfgs, registry, limit)
	if err != nil {
		return nil, err
	}

	outcomes := make([]RunOutcome, len(cfgs))
	for i := range cfgs {
		outcomes[i] = RunOutcome{Config: cfgs[i], Result: results[i]}
	}
	return outcomes, nil
}

func runAll(ctx context.Context, cfgs []*config.Config, registry *experiment.Registry, limit int) ([]*dynamo.Result, error) {
	ens := sim.NewEnsemble(limit)
	for i, cfg := range cfgs {
		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("run %d (%s): %w", i+1, cfg.Name, err)
		}
		simCfg, err := cfg.SimConfig()
		if err != nil {
			return nil, err
		}
		ens.Add(cfg.Name, exp.GetSimulator(), cfg.BodySet(), simCfg)
	}
	return ens.Run(ctx)
}

// ConvergenceSweep reruns one preset over the same simulated time at several
// time steps.
type ConvergenceSweep struct {
	Preset   string
	Dts      []float64
	Duration float64
}

// SweepResult holds results from a convergence sweep
type SweepResult struct {
	Dt          float64
	Steps       int
	Period      float64
	PeriodKnown bool

	// FinalRadius is the largest center-of-mass distance in the last
	// recorded snapshot.
	FinalRadius float64
	Metrics     map[string]float64
}

// RunConvergence executes the sweep, one run per dt.
func RunConvergence(ctx context.Context, sweep *ConvergenceSweep, registry *experiment.Registry, limit int) ([]SweepResult, error) {
	if len(sweep.Dts) == 0 {
		return nil, &dynamo.ConfigError{Field: "dts", Reason: "at least one time step is required"}
	}

	cfgs := make([]*config.Config, len(sweep.Dts))
	for i, dt := range sweep.Dts {
		cfg, err := RunSpec{Preset: sweep.Preset, Dt: dt}.Resolve()
		if err != nil {
			return nil, err
		}
		if sweep.Duration > 0 {
			cfg.SetDuration(sweep.Duration)
		}
		cfg.Name = fmt.Sprintf("%s_dt%g", sweep.Preset, dt)
		cfgs[i] = cfg
	}

	results, err := runAll(ctx, cfgs, registry, limit)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, res := range results {
		out[i] = SweepResult{
			Dt:          cfgs[i].Dt,
			Steps:       res.StepsTaken,
			Period:      res.Period,
			PeriodKnown: res.PeriodKnown,
			FinalRadius: finalRadius(res.CenterOfMass),
			Metrics:     res.Metrics,
		}
	}
	return out, nil
}

func finalRadius(traj dynamo.Trajectory) float64 {
	if len(traj) == 0 {
		return 0
	}
	r := 0.0
	for _, p := range traj[len(traj)-1] {
		r = math.Max(r, r3.Norm(p))
	}
	return r
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Preset    string
	NumTrials int
	Steps     int
	Seed      int64

	// Perturbation is the half-width of the uniform jitter added to every
	// position component.
	Perturbation float64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID   int
	Initial   dynamo.Snapshot
	MaxRadius float64
	Stable    bool // every body stayed within the escape radius
}

// RunMonteCarlo jitters the initial positions of a preset and reports which
// trials stay bounded.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry, limit int) ([]MonteCarloResult, error) {
	base, err := RunSpec{Preset: mc.Preset, Steps: mc.Steps}.Resolve()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cfgs := make([]*config.Config, mc.NumTrials)
	initial := make([]dynamo.Snapshot, mc.NumTrials)
	for trial := range cfgs {
		cfg := base.Clone()
		cfg.Name = fmt.Sprintf("%s_trial%d", mc.Preset, trial)
		snap := make(dynamo.Snapshot, len(cfg.Bodies))
		for i := range cfg.Bodies {
			for a := range cfg.Bodies[i].Position {
				cfg.Bodies[i].Position[a] += (rng.Float64() - 0.5) * 2 * mc.Perturbation
			}
			p := cfg.Bodies[i].Position
			snap[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		cfgs[trial] = cfg
		initial[trial] = snap
	}

	results, err := runAll(ctx, cfgs, registry, limit)
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		maxR := res.Metrics["max_radius"]
		out[i] = MonteCarloResult{
			TrialID:   i,
			Initial:   initial[i],
			MaxRadius: maxR,
			Stable:    res.Metrics["boundedness"] == 1 && !math.IsNaN(maxR) && !math.IsInf(maxR, 0),
		}
	}
	return out, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
