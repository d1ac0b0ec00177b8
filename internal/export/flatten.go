package export

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Axis offsets within one body's triple.
const (
	AxisX = iota
	AxisY
	AxisZ
)

// Flatten lays the trajectory out row-major in (step, body, axis) order.
func Flatten(traj dynamo.Trajectory) []float64 {
	n := traj.NumBodies()
	flat := make([]float64, 0, len(traj)*n*3)
	for _, snap := range traj {
		for _, p := range snap {
			flat = append(flat, p.X, p.Y, p.Z)
		}
	}
	return flat
}

// ExtractAxis pulls one coordinate series for one body out of a flattened
// trajectory, striding by 3*total from offset 3*body+axis.
func ExtractAxis(flat []float64, body, total, axis int) ([]float64, error) {
	if err := checkLayout(flat, total); err != nil {
		return nil, err
	}
	if body < 0 || body >= total {
		return nil, fmt.Errorf("body %d out of range [0, %d): %w", body, total, dynamo.ErrDimensionMismatch)
	}
	if axis < AxisX || axis > AxisZ {
		return nil, fmt.Errorf("axis %d out of range [0, 3): %w", axis, dynamo.ErrDimensionMismatch)
	}

	stride := 3 * total
	out := make([]float64, 0, len(flat)/stride)
	for i := 3*body + axis; i < len(flat); i += stride {
		out = append(out, flat[i])
	}
	return out, nil
}

// XY returns the x and y series of one body.
func XY(flat []float64, body, total int) (xs, ys []float64, err error) {
	if xs, err = ExtractAxis(flat, body, total, AxisX); err != nil {
		return nil, nil, err
	}
	if ys, err = ExtractAxis(flat, body, total, AxisY); err != nil {
		return nil, nil, err
	}
	return xs, ys, nil
}

// Unflatten rebuilds the trajectory from its flattened form.
func Unflatten(flat []float64, total int) (dynamo.Trajectory, error) {
	if err := checkLayout(flat, total); err != nil {
		return nil, err
	}

	steps := len(flat) / (3 * total)
	traj := make(dynamo.Trajectory, steps)
	for k := range traj {
		snap := make(dynamo.Snapshot, total)
		for b := range snap {
			i := 3 * (k*total + b)
			snap[b] = r3.Vec{X: flat[i], Y: flat[i+1], Z: flat[i+2]}
		}
		traj[k] = snap
	}
	return traj, nil
}

func checkLayout(flat []float64, total int) error {
	if total <= 0 {
		return fmt.Errorf("body count must be positive, got %d: %w", total, dynamo.ErrDimensionMismatch)
	}
	if len(flat)%(3*total) != 0 {
		return fmt.Errorf("length %d is not a multiple of 3*%d: %w", len(flat), total, dynamo.ErrDimensionMismatch)
	}
	return nil
}
