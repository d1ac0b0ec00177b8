package dynamo

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a point mass. Bodies are owned by a single run and mutated in place
// by the integrator.
type Body struct {
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
}

func NewBody(mass float64, position, velocity r3.Vec) *Body {
	return &Body{Mass: mass, Position: position, Velocity: velocity}
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) IsValid() bool {
	return finite(b.Position) && finite(b.Velocity)
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// BodySet is an ordered set of bodies. Index identity is significant: force
// bookkeeping, the rotating-frame reference pair (0, 1) and trajectory
// flattening all rely on it.
type BodySet []*Body

// Clone deep copies every body so the copy can be handed to another run.
func (bs BodySet) Clone() BodySet {
	c := make(BodySet, len(bs))
	for i, b := range bs {
		c[i] = b.Clone()
	}
	return c
}

func (bs BodySet) TotalMass() float64 {
	m := 0.0
	for _, b := range bs {
		m += b.Mass
	}
	return m
}

// Positions returns a fresh snapshot of every body's position.
func (bs BodySet) Positions() Snapshot {
	s := make(Snapshot, len(bs))
	for i, b := range bs {
		s[i] = b.Position
	}
	return s
}

func (bs BodySet) CenterOfMass() r3.Vec {
	return bs.Positions().CenterOfMass(bs.Masses(), bs.TotalMass())
}

// Masses returns the body masses in index order.
func (bs BodySet) Masses() []float64 {
	m := make([]float64, len(bs))
	for i, b := range bs {
		m[i] = b.Mass
	}
	return m
}

func (bs BodySet) IsValid() bool {
	for _, b := range bs {
		if !b.IsValid() {
			return false
		}
	}
	return true
}

// Snapshot holds one position per body at a single step.
type Snapshot []r3.Vec

// CenterOfMass returns the mass-weighted mean position. totalMass is passed in
// so callers can compute it once per run.
func (s Snapshot) CenterOfMass(masses []float64, totalMass float64) r3.Vec {
	var cm r3.Vec
	for i, p := range s {
		cm = r3.Add(cm, r3.Scale(masses[i], p))
	}
	return r3.Scale(1/totalMass, cm)
}

// Reduce returns the snapshot expressed relative to the given origin.
func (s Snapshot) Reduce(origin r3.Vec) Snapshot {
	out := make(Snapshot, len(s))
	for i, p := range s {
		out[i] = r3.Sub(p, origin)
	}
	return out
}

// Trajectory is the ordered sequence of snapshots recorded by a run.
type Trajectory []Snapshot

// NumBodies reports the snapshot width, or zero for an empty trajectory.
func (t Trajectory) NumBodies() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Frame selects the reference frame a run integrates in.
type Frame int

const (
	Inertial Frame = iota
	Rotating
)

func (f Frame) String() string {
	switch f {
	case Inertial:
		return "inertial"
	case Rotating:
		return "rotating"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}

func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inertial":
		return Inertial, nil
	case "rotating", "corotating":
		return Rotating, nil
	default:
		return Inertial, &ConfigError{Field: "frame", Reason: fmt.Sprintf("unknown frame %q", s)}
	}
}

// ForceField produces one force vector per body for the current positions.
// Implementations must recompute fully on every call. out is reused when it
// already has len(bodies) entries.
type ForceField interface {
	Forces(bodies BodySet, out []r3.Vec) []r3.Vec
	Constant() float64
}

// Integrator advances every body by one step, in place.
type Integrator interface {
	Init(field ForceField, bodies BodySet, dt float64)
	Step(field ForceField, bodies BodySet, dt float64)
}

// FrameIntegrator is implemented by integrators that can run in a rotating
// frame. SetFrame is called once, before Init.
type FrameIntegrator interface {
	Integrator
	SetFrame(omega r3.Vec)
}

type Metric interface {
	Name() string
	Observe(bodies BodySet, t float64)
	Value() float64
	Reset()
}

// FrameMetric is a metric whose value depends on the frame angular velocity.
type FrameMetric interface {
	Metric
	SetFrame(omega r3.Vec)
}

type Observer interface {
	OnStep(step int, bodies BodySet, t float64)
}

type Config struct {
	Dt            float64
	Steps         int
	Frame         Frame
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:    0.0001,
		Steps: 50000,
		Frame: Inertial,
	}
}

// Duration is the simulated time covered by the run.
func (c Config) Duration() float64 {
	return c.Dt * float64(c.Steps)
}

type Result struct {
	// Absolute holds positions in the integration frame.
	Absolute Trajectory
	// CenterOfMass holds the same snapshots with the center of mass
	// subtracted. It is the canonical output.
	CenterOfMass Trajectory
	Times        []float64
	// Flat is CenterOfMass flattened in (step, body, axis) order.
	Flat  []float64
	Omega r3.Vec
	// Period is only meaningful when PeriodKnown is set.
	Period      float64
	PeriodKnown bool
	Metrics     map[string]float64
	StepsTaken  int
	Errors      []error
}
