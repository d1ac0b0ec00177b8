package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width           = 60
	height          = 24
	trailCapacity   = 400
	historyCapacity = 600
	maxSpeed        = 1 << 14

	// framesPerRun is how many frames a full run should take at the default
	// speed, about twenty seconds at 60 fps.
	framesPerRun = 1200
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(52)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type point struct{ x, y float64 }

// LiveModel advances an experiment a batch of steps per frame and draws the
// bodies relative to the center of mass, with trails and a plot of
// the conserved quantity (energy, or the Jacobi integral when rotating).
type LiveModel struct {
	exp      *experiment.Experiment
	title    string
	stepper  *sim.Stepper
	canvas   *Canvas
	view     Viewport
	trails   [][]point
	history  []float64
	initial  float64
	speed    int
	running  bool
	showHelp bool
	err      error
}

// NewLiveModel starts a fresh run of exp, which must already be set up.
func NewLiveModel(exp *experiment.Experiment, title string) (LiveModel, error) {
	m := LiveModel{
		exp:     exp,
		title:   title,
		canvas:  NewCanvas(width, height),
		speed:   max(1, exp.Config().Steps/framesPerRun),
		running: true,
	}
	if err := m.reset(); err != nil {
		return LiveModel{}, err
	}
	return m, nil
}

// RunLive takes over the terminal until the user quits.
func RunLive(m LiveModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "z":
			m.view = m.view.Zoom(1.25)
		case "x":
			m.view = m.view.Zoom(0.8)
		case "c":
			for i := range m.trails {
				m.trails[i] = m.trails[i][:0]
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil && !m.stepper.Done() {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// Running reports whether the run advances on each frame.
func (m LiveModel) Running() bool { return m.running }

func (m LiveModel) Speed() int { return m.speed }

func (m LiveModel) Stepper() *sim.Stepper { return m.stepper }

func (m LiveModel) Err() error { return m.err }

// reset restarts the run from the configured initial state and refits the
// view to it.
func (m *LiveModel) reset() error {
	st, err := m.exp.Start()
	if err != nil {
		return err
	}
	st.SetRecording(false)
	m.stepper = st
	m.err = nil

	pos := st.CenterOfMassPositions()
	reach := 0.0
	for _, p := range pos {
		reach = math.Max(reach, math.Hypot(p.X, p.Y))
	}
	if reach == 0 {
		reach = 1
	}
	reach *= 1.3
	m.view = FitViewport(m.canvas, -reach, reach, -reach, reach, 0)

	m.trails = make([][]point, len(pos))
	for i := range m.trails {
		m.trails[i] = make([]point, 0, trailCapacity)
	}
	m.history = make([]float64, 0, historyCapacity)
	m.initial = m.conserved()
	m.record()
	return nil
}

// advance steps the run speed times, stopping early on completion or error.
func (m *LiveModel) advance() {
	for i := 0; i < m.speed && !m.stepper.Done(); i++ {
		if err := m.stepper.Step(); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	m.record()
}

func (m *LiveModel) record() {
	for i, p := range m.stepper.CenterOfMassPositions() {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		if len(m.trails[i]) == trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
		m.trails[i] = append(m.trails[i], point{p.X, p.Y})
	}

	d := m.drift()
	if !finite(d) {
		return
	}
	if len(m.history) == historyCapacity {
		m.history = m.history[1:]
	}
	m.history = append(m.history, d)
}

// conserved evaluates the Jacobi integral in the run's frame. With zero ω it
// is the total energy.
func (m *LiveModel) conserved() float64 {
	return metrics.Jacobi(m.exp.Gravity(), m.stepper.Bodies(), m.stepper.Omega())
}

func (m *LiveModel) drift() float64 {
	d := m.conserved() - m.initial
	if m.initial != 0 {
		d /= math.Abs(m.initial)
	}
	return d
}

func (m *LiveModel) quantityName() string {
	if m.stepper.Omega() != (r3.Vec{}) {
		return "Jacobi"
	}
	return "Energy"
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	for i, trail := range m.trails {
		for _, p := range trail {
			px, py := m.view.Project(p.x, p.y)
			m.canvas.SetInk(px, py, i)
		}
	}
	for i, p := range m.stepper.CenterOfMassPositions() {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		px, py := m.view.Project(p.X, p.Y)
		m.canvas.Dot(px, py, 1, i)
	}
}

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED: " + m.err.Error())
	case m.stepper.Done():
		return StatusRunning.Render("FINISHED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m LiveModel) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme))

	st := m.stepper
	cfg := m.exp.Config()
	name := m.quantityName()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n\n")
	s.WriteString(m.status() + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption(name+" drift"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3f", st.Time()))
	row("Step", fmt.Sprintf("%d / %d", st.StepIndex(), cfg.Steps))
	row("Frame", cfg.Frame)
	row("Omega", fmt.Sprintf("%.4f", r3.Norm(st.Omega())))
	row("Speed", fmt.Sprintf("%d steps/frame", m.speed))
	if len(m.history) > 0 {
		row("Drift", fmt.Sprintf("%.2e", m.history[len(m.history)-1]))
	}

	progress := 1.0
	if cfg.Steps > 0 {
		progress = float64(st.StepIndex()) / float64(cfg.Steps)
	}
	s.WriteString("\n" + ProgressBar(progress, 30) + "\n\n")
	s.WriteString(Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed Z/X:Zoom C:Clear\nT:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Restart from t=0         ║
║  Q        - Quit                     ║
║  + / -    - Double/halve step rate   ║
║  Z / X    - Zoom in/out              ║
║  C        - Clear trails             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
