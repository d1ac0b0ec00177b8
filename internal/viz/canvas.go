package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel buffer. Each cell remembers the last ink that
// touched it so Render can color bodies apart.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// PixelWidth and PixelHeight give the canvas size in sub-pixels.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates with no ink.
func (c *Canvas) Set(x, y int) { c.SetInk(x, y, -1) }

// SetInk sets a pixel and tags its cell with ink, an index into the theme's
// body palette. Negative ink renders in the theme's muted color.
func (c *Canvas) SetInk(x, y, ink int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = ink
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = -1
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1, ink int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetInk(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dot draws a filled square of the given radius centred on (x, y).
func (c *Canvas) Dot(x, y, radius, ink int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c.SetInk(x+dx, y+dy, ink)
		}
	}
}

// Lit counts the lit sub-pixels.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := int(r - blank); bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the canvas with each cell colored by its ink.
func (c *Canvas) Render(theme Theme) string {
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	inks := make([]lipgloss.Style, len(theme.Bodies))
	for i, col := range theme.Bodies {
		inks[i] = lipgloss.NewStyle().Foreground(col)
	}

	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if r == blank {
				b.WriteRune(r)
				continue
			}
			style := muted
			if ink := c.Ink[i][j]; ink >= 0 && len(inks) > 0 {
				style = inks[ink%len(inks)]
			}
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas sub-pixels with equal scale on
// both axes. y grows upwards in world space and downwards on the canvas.
type Viewport struct {
	CenterX, CenterY float64
	Scale            float64
	Width, Height    int
}

// FitViewport centres the box [minX, maxX] x [minY, maxY] on c, leaving margin
// as a fraction of the canvas on each side.
func FitViewport(c *Canvas, minX, maxX, minY, maxY, margin float64) Viewport {
	w, h := c.PixelWidth(), c.PixelHeight()
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	usable := 1 - 2*margin
	if usable <= 0 {
		usable = 1
	}
	scale := min(float64(w-1)*usable/spanX, float64(h-1)*usable/spanY)
	return Viewport{
		CenterX: (minX + maxX) / 2,
		CenterY: (minY + maxY) / 2,
		Scale:   scale,
		Width:   w,
		Height:  h,
	}
}

// Project returns the sub-pixel for a world point. Points outside the canvas
// yield coordinates outside [0, Width) x [0, Height), which Canvas ignores.
func (v Viewport) Project(x, y float64) (int, int) {
	px := float64(v.Width-1)/2 + (x-v.CenterX)*v.Scale
	py := float64(v.Height-1)/2 - (y-v.CenterY)*v.Scale
	return roundInt(px), roundInt(py)
}

// Zoom scales the view about its centre.
func (v Viewport) Zoom(factor float64) Viewport {
	v.Scale *= factor
	return v
}

func roundInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
