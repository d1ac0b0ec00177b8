package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Separations returns |r_j - r_i| for every snapshot of the trajectory.
func Separations(traj dynamo.Trajectory, i, j int) []float64 {
	out := make([]float64, len(traj))
	for k, snap := range traj {
		out[k] = r3.Norm(r3.Sub(snap[j], snap[i]))
	}
	return out
}

// LocalMinima returns the indices of samples strictly smaller than both
// neighbours. The first and last samples never qualify.
func LocalMinima(series []float64) []int {
	var minima []int
	for k := 1; k < len(series)-1; k++ {
		if series[k] < series[k-1] && series[k] < series[k+1] {
			minima = append(minima, k)
		}
	}
	return minima
}

// Period estimates the orbital period of a two-body trajectory as the time
// between the first two separation minima.
func Period(traj dynamo.Trajectory, dt float64) (float64, error) {
	if n := traj.NumBodies(); n != 2 {
		return 0, fmt.Errorf("period needs 2 bodies, got %d: %w", n, dynamo.ErrDimensionMismatch)
	}

	minima := LocalMinima(Separations(traj, 0, 1))
	if len(minima) < 2 {
		return 0, fmt.Errorf("found %d separation minima over %d steps: %w", len(minima), len(traj), dynamo.ErrInsufficientData)
	}

	return dt * float64(minima[1]-minima[0]), nil
}

// Periods returns the spacing between every pair of consecutive separation
// minima. A steady orbit gives a flat series.
func Periods(traj dynamo.Trajectory, dt float64) []float64 {
	if traj.NumBodies() < 2 {
		return nil
	}
	minima := LocalMinima(Separations(traj, 0, 1))
	if len(minima) < 2 {
		return nil
	}
	out := make([]float64, len(minima)-1)
	for k := 1; k < len(minima); k++ {
		out[k-1] = dt * float64(minima[k]-minima[k-1])
	}
	return out
}
