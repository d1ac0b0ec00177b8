package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pink    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	pointer = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var configFields = []string{"integrator", "frame", "dt", "duration"}

// App is the interactive preset browser. Picking a preset opens a small
// settings page, then hands the terminal to a LiveModel.
type App struct {
	state    int
	cursor   int
	field    int
	presets  []string
	registry *experiment.Registry
	cfg      *config.Config
	live     LiveModel
	err      error
}

func NewApp(reg *experiment.Registry) App {
	return App{
		state:    stateMenu,
		presets:  config.ListPresets(),
		registry: reg,
	}
}

// RunInteractive runs the preset browser until the user quits.
func RunInteractive(reg *experiment.Registry) error {
	_, err := tea.NewProgram(NewApp(reg), tea.WithAltScreen()).Run()
	return err
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.state = stateConfig
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(LiveModel)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch a.state {
	case stateMenu:
		return a.menuKey(key)
	case stateConfig:
		return a.configKey(key)
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		cfg, err := config.GetPreset(a.presets[a.cursor])
		if err != nil {
			a.err = err
			return a, nil
		}
		a.cfg, a.field, a.err = cfg, 0, nil
		a.state = stateConfig
	}
	return a, nil
}

func (a App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.state, a.err = stateMenu, nil
	case "up", "k":
		if a.field > 0 {
			a.field--
		}
	case "down", "j":
		if a.field < len(configFields)-1 {
			a.field++
		}
	case "left", "h":
		a.adjust(-1)
	case "right", "l":
		a.adjust(1)
	case "enter", "s":
		return a.start()
	}
	return a, nil
}

// adjust nudges the selected setting. Halving dt keeps the duration fixed.
func (a *App) adjust(dir int) {
	switch configFields[a.field] {
	case "integrator":
		a.cfg.Integrator = cycle(a.registry.ListIntegrators(), a.cfg.Integrator, dir)
	case "frame":
		a.cfg.Frame = cycle([]string{"inertial", "rotating"}, a.cfg.Frame, dir)
	case "dt":
		d := a.cfg.Duration()
		if dir > 0 {
			a.cfg.Dt *= 2
		} else {
			a.cfg.Dt /= 2
		}
		a.cfg.SetDuration(d)
	case "duration":
		factor := 1.25
		if dir < 0 {
			factor = 0.8
		}
		a.cfg.SetDuration(a.cfg.Duration() * factor)
	}
}

func cycle(options []string, current string, dir int) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[(i+dir+len(options))%len(options)]
		}
	}
	return options[0]
}

func (a App) start() (App, tea.Cmd) {
	exp := experiment.New(a.cfg.Clone())
	if err := exp.Setup(a.registry); err != nil {
		a.err = err
		return a, nil
	}
	live, err := NewLiveModel(exp, a.cfg.Name)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.live, a.err = live, nil
	a.state = stateSim
	return a, a.live.Init()
}

func (a App) View() string {
	switch a.state {
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.live.View()
	default:
		return a.viewMenu()
	}
}

func (a App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render("ORBITSIM") + "\n    " + dim.Render("n-body gravity simulator") + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, name := range a.presets {
		desc := ""
		if cfg, err := config.GetPreset(name); err == nil {
			desc = cfg.Description
		}
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pointer.Render("▸"), white.Render(fmt.Sprintf("%-16s", name)), pink.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-16s", name)), dimmer.Render(desc)))
		}
	}
	b.WriteString(a.viewError())
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a App) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render(strings.ToUpper(a.cfg.Name)) + "\n    " + dim.Render(a.cfg.Description) + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	values := map[string]string{
		"integrator": a.cfg.Integrator,
		"frame":      a.cfg.Frame,
		"dt":         fmt.Sprintf("%g", a.cfg.Dt),
		"duration":   fmt.Sprintf("%.3g (%d steps)", a.cfg.Duration(), a.cfg.Steps),
	}
	for i, name := range configFields {
		if i == a.field {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", pointer.Render("▸"), white.Render(fmt.Sprintf("%-10s", name)), pink.Render(values[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", dim.Render(fmt.Sprintf("  %-10s", name)), dimmer.Render(values[name])))
		}
	}
	b.WriteString(a.viewError())
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func (a App) viewError() string {
	if a.err == nil {
		return ""
	}
	return "\n    " + StatusFailed.Render(a.err.Error()) + "\n"
}

// hints renders alternating key and description pairs.
func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pointer.Render(pairs[i]) + dim.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}
