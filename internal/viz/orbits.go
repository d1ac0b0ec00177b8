package viz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/orbitsim/internal/export"
)

// maxSegments bounds how many line segments each orbit contributes.
const maxSegments = 2000

// PlotOrbits draws the x-y projection of every body in a flattened
// center-of-mass trajectory onto a w by h cell canvas. Final positions are
// marked with a dot.
func PlotOrbits(flat []float64, n, w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d must be positive", w, h)
	}

	xs := make([][]float64, n)
	ys := make([][]float64, n)
	for i := 0; i < n; i++ {
		x, y, err := export.XY(flat, i, n)
		if err != nil {
			return nil, err
		}
		xs[i], ys[i] = x, y
	}

	c := NewCanvas(w, h)
	if n == 0 || len(xs[0]) == 0 {
		return c, nil
	}

	minX, maxX := floats.Min(xs[0]), floats.Max(xs[0])
	minY, maxY := floats.Min(ys[0]), floats.Max(ys[0])
	for i := 1; i < n; i++ {
		minX, maxX = min(minX, floats.Min(xs[i])), max(maxX, floats.Max(xs[i]))
		minY, maxY = min(minY, floats.Min(ys[i])), max(maxY, floats.Max(ys[i]))
	}
	view := FitViewport(c, minX, maxX, minY, maxY, 0.05)

	for i := 0; i < n; i++ {
		drawPath(c, view, xs[i], ys[i], i)
		last := len(xs[i]) - 1
		px, py := view.Project(xs[i][last], ys[i][last])
		c.Dot(px, py, 1, i)
	}
	return c, nil
}

// RenderOrbits is PlotOrbits rendered in the current theme.
func RenderOrbits(flat []float64, n, w, h int) (string, error) {
	c, err := PlotOrbits(flat, n, w, h)
	if err != nil {
		return "", err
	}
	return c.Render(CurrentTheme), nil
}

// drawPath joins decimated samples with lines. Non-finite samples break the
// path.
func drawPath(c *Canvas, view Viewport, xs, ys []float64, ink int) {
	stride := 1
	if len(xs) > maxSegments {
		stride = (len(xs) + maxSegments - 1) / maxSegments
	}

	var px, py int
	joined := false
	visit := func(k int) {
		if !finite(xs[k]) || !finite(ys[k]) {
			joined = false
			return
		}
		qx, qy := view.Project(xs[k], ys[k])
		if joined {
			c.DrawLine(px, py, qx, qy, ink)
		} else {
			c.SetInk(qx, qy, ink)
		}
		px, py, joined = qx, qy, true
	}

	for k := 0; k < len(xs); k += stride {
		visit(k)
	}
	if last := len(xs) - 1; last%stride != 0 {
		visit(last)
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
