package viz

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/orbitsim/internal/physics"
)

// shades run from the deepest well to the highest ridge.
var shades = []rune(" .:-=+*#%@")

// clipQuantile trims the singular wells around each mass so the colour scale
// is spent on the saddle structure.
const clipQuantile = 0.05

// RenderPotential draws the effective potential over [-extent, extent] on both
// axes as a w by h heatmap. The two masses are marked with a dot.
func RenderPotential(p physics.EffectivePotential, extent float64, w, h int, theme Theme) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	levels := potentialLevels(p.Grid(-extent, extent, w, h))

	m1 := cellOf(-p.Separation/2, 0, extent, w, h)
	m2 := cellOf(p.Separation/2, 0, extent, w, h)
	marker := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)

	var b strings.Builder
	for j := h - 1; j >= 0; j-- {
		for i := 0; i < w; i++ {
			if (i == m1[0] && j == m1[1]) || (i == m2[0] && j == m2[1]) {
				b.WriteString(marker.Render("●"))
				continue
			}
			t := levels[j][i]
			r := shades[int(t*float64(len(shades)-1)+0.5)]
			b.WriteString(lipgloss.NewStyle().Foreground(Ramp(theme.Heat, t)).Render(string(r)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// potentialLevels maps a potential grid onto [0, 1], clipping both tails at
// clipQuantile. Non-finite samples map to 0.
func potentialLevels(grid [][]float64) [][]float64 {
	var finiteVals []float64
	for _, row := range grid {
		for _, v := range row {
			if finite(v) {
				finiteVals = append(finiteVals, v)
			}
		}
	}

	levels := make([][]float64, len(grid))
	for j := range grid {
		levels[j] = make([]float64, len(grid[j]))
	}
	if len(finiteVals) == 0 {
		return levels
	}

	sort.Float64s(finiteVals)
	lo := stat.Quantile(clipQuantile, stat.Empirical, finiteVals, nil)
	hi := stat.Quantile(1-clipQuantile, stat.Empirical, finiteVals, nil)
	span := hi - lo

	for j, row := range grid {
		for i, v := range row {
			if finite(v) && span > 0 {
				levels[j][i] = math.Min(1, math.Max(0, (v-lo)/span))
			}
		}
	}
	return levels
}

// cellOf returns the lattice cell nearest to world point (x, y), matching the
// sampling in EffectivePotential.Grid.
func cellOf(x, y, extent float64, w, h int) [2]int {
	idx := func(v float64, n int) int {
		if n <= 1 {
			return 0
		}
		return int(math.Round((v + extent) / (2 * extent) * float64(n-1)))
	}
	return [2]int{idx(x, w), idx(y, h)}
}
