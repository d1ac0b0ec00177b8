package physics

import "math"

// EffectivePotential is the restricted three-body potential seen by a test
// particle in the frame co-rotating with two fixed masses placed at
// (−Separation/2, 0) and (+Separation/2, 0).
type EffectivePotential struct {
	G          float64
	M1, M2     float64
	Separation float64
	Omega      float64
}

// DefaultEffectivePotential matches the contour study: m1=2, m2=1 two units
// apart with a unit rotation rate.
func DefaultEffectivePotential() EffectivePotential {
	return EffectivePotential{G: GDimensionless, M1: 2, M2: 1, Separation: 2, Omega: 1}
}

// At evaluates U_eff = −G(m1/r1 + m2/r2) + ½Ω²(x² + y²).
func (p EffectivePotential) At(x, y float64) float64 {
	h := p.Separation / 2
	r1 := math.Hypot(x+h, y)
	r2 := math.Hypot(x-h, y)
	return -p.G*(p.M1/r1+p.M2/r2) + 0.5*p.Omega*p.Omega*(x*x+y*y)
}

// Grid samples the potential on an nx by ny lattice spanning [min, max] on
// both axes. Rows run along y, columns along x.
func (p EffectivePotential) Grid(min, max float64, nx, ny int) [][]float64 {
	grid := make([][]float64, ny)
	for j := range grid {
		grid[j] = make([]float64, nx)
		y := lerp(min, max, j, ny)
		for i := range grid[j] {
			grid[j][i] = p.At(lerp(min, max, i, nx), y)
		}
	}
	return grid
}

func lerp(min, max float64, i, n int) float64 {
	if n <= 1 {
		return min
	}
	return min + (max-min)*float64(i)/float64(n-1)
}
