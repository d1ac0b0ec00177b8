package config

import (
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultIntegrator = "euler"
	DefaultDt         = 0.0001
	DefaultSteps      = 50000
	DefaultG          = physics.GDimensionless
)

type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
}

type Config struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Integrator  string  `yaml:"integrator"`
	Frame       string  `yaml:"frame"`
	G           float64 `yaml:"g"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`

	// RotateInitialVelocities replaces every velocity with v − ω×r before
	// the run, ω taken from bodies 0 and 1.
	RotateInitialVelocities bool `yaml:"rotate_initial_velocities"`
	ValidateState           bool `yaml:"validate_state"`

	Bodies []BodyConfig `yaml:"bodies"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "custom",
		Integrator: DefaultIntegrator,
		Frame:      dynamo.Inertial.String(),
		G:          DefaultG,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked without touching the
// caller's value.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}

// Validate checks the fields a run depends on. Integrator names are resolved
// later by the experiment registry.
func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return &dynamo.ConfigError{Field: "bodies", Reason: "at least one body is required"}
	}
	for i, b := range c.Bodies {
		if !(b.Mass > 0) {
			return &dynamo.ConfigError{Field: fmt.Sprintf("bodies[%d].mass", i), Reason: fmt.Sprintf("must be positive, got %g", b.Mass)}
		}
	}
	if !(c.G > 0) {
		return &dynamo.ConfigError{Field: "g", Reason: fmt.Sprintf("must be positive, got %g", c.G)}
	}
	if !(c.Dt > 0) {
		return &dynamo.ConfigError{Field: "dt", Reason: fmt.Sprintf("must be positive, got %g", c.Dt)}
	}
	if c.Steps < 0 {
		return &dynamo.ConfigError{Field: "steps", Reason: fmt.Sprintf("must not be negative, got %d", c.Steps)}
	}
	if strings.TrimSpace(c.Integrator) == "" {
		return &dynamo.ConfigError{Field: "integrator", Reason: "missing"}
	}

	frame, err := dynamo.ParseFrame(c.Frame)
	if err != nil {
		return err
	}
	if (frame == dynamo.Rotating || c.RotateInitialVelocities) && len(c.Bodies) < 2 {
		return &dynamo.ConfigError{Field: "frame", Reason: "a rotating frame needs two reference bodies"}
	}
	return nil
}

// BodySet builds a fresh set of bodies. Every call returns new instances.
func (c *Config) BodySet() dynamo.BodySet {
	bodies := make(dynamo.BodySet, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = dynamo.NewBody(b.Mass, vec(b.Position), vec(b.Velocity))
	}

	if c.RotateInitialVelocities && len(bodies) >= 2 {
		omega := physics.AngularVelocity(c.G, bodies[0], bodies[1])
		physics.SeedRotatingFrame(bodies, omega)
	}

	return bodies
}

func (c *Config) SimConfig() (dynamo.Config, error) {
	frame, err := dynamo.ParseFrame(c.Frame)
	if err != nil {
		return dynamo.Config{}, err
	}
	return dynamo.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		Frame:         frame,
		ValidateState: c.ValidateState,
	}, nil
}

// Duration is the simulated time covered by the configured steps.
func (c *Config) Duration() float64 {
	return c.Dt * float64(c.Steps)
}

// SetDuration picks the step count covering d at the current dt.
func (c *Config) SetDuration(d float64) {
	c.Steps = int(d/c.Dt + 0.5)
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// Body is shorthand for building a BodyConfig from position and velocity
// components.
func Body(mass float64, position, velocity [3]float64) BodyConfig {
	return BodyConfig{Mass: mass, Position: position, Velocity: velocity}
}
