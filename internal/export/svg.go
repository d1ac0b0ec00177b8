package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Series is one body's path in the plane.
type Series struct {
	Name string
	X, Y []float64
}

var palette = []string{"#00ff9f", "#ff6b6b", "#4dabf7", "#ffd43b", "#cc5de8", "#ff922b"}

// maxPathPoints caps the vertices per path; longer series are decimated.
const maxPathPoints = 4000

// OrbitSVG draws every series as a polyline on a shared, padded coordinate
// box with equal scale on both axes.
func OrbitSVG(series []Series, width, height int) string {
	var xs, ys []float64
	for _, s := range series {
		xs = append(xs, s.X...)
		ys = append(ys, s.Y...)
	}
	if len(xs) == 0 {
		return ""
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	span := maxX - minX
	if maxY-minY > span {
		span = maxY - minY
	}
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	minX, minY = cx-span/2, cy-span/2

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, s := range series {
		n := len(s.X)
		if len(s.Y) < n {
			n = len(s.Y)
		}
		if n == 0 {
			continue
		}
		stride := 1
		if n > maxPathPoints {
			stride = (n + maxPathPoints - 1) / maxPathPoints
		}

		color := palette[i%len(palette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" data-name="%s" d="M`, color, s.Name)
		for k := 0; k < n; k += stride {
			x := (s.X[k] - minX) / span * float64(width)
			y := float64(height) - (s.Y[k]-minY)/span*float64(height)
			if k == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
