package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Subtle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	StatusFailed  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	MetricValue   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	MetricLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(10)
	KeyHint       = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#666688"))
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("#444466"))
	SparkHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar renders fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if fraction > 0.8 {
		return SparkHigh.Render(bar)
	} else if fraction > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// Separator draws a decorated horizontal rule.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

// Ramp returns the color at t in [0, 1] along stops, interpolating linearly
// between neighbouring stops.
func Ramp(stops []lipgloss.Color, t float64) lipgloss.Color {
	switch {
	case len(stops) == 0:
		return lipgloss.Color("#ffffff")
	case len(stops) == 1 || t <= 0:
		return stops[0]
	case t >= 1:
		return stops[len(stops)-1]
	}

	pos := t * float64(len(stops)-1)
	i := int(pos)
	frac := pos - float64(i)

	sr, sg, sb := parseHex(string(stops[i]))
	er, eg, eb := parseHex(string(stops[i+1]))
	r := int(float64(sr) + frac*float64(er-sr))
	g := int(float64(sg) + frac*float64(eg-sg))
	b := int(float64(sb) + frac*float64(eb-sb))
	return lipgloss.Color(hexColor(r, g, b))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	return parseHexByte(hex[1:3]), parseHexByte(hex[3:5]), parseHexByte(hex[5:7])
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
