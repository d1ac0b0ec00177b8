package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates a run that cannot start: no bodies, a
	// non-positive mass or dt, or a rotating frame without a reference pair.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrSingularity indicates a state that became NaN or Inf, usually two
	// bodies at coincident positions.
	ErrSingularity = errors.New("dynamo: numeric singularity (NaN or Inf detected)")

	// ErrInsufficientData indicates too few separation minima to estimate a
	// period. It never invalidates the rest of a run.
	ErrInsufficientData = errors.New("dynamo: insufficient data")

	// ErrDimensionMismatch indicates a trajectory or flat series with an
	// unexpected shape.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrUnknownPreset indicates a scenario name with no constructor.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
