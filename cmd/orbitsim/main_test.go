package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

var runIDPattern = regexp.MustCompile(`run id: (\S+)`)

func TestPresetsCommand(t *testing.T) {
	out := mustExecute(t, "presets")
	for _, want := range []string{"NAME", "circular_binary", "restricted_l4", "sun_earth"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %q", want)
		}
	}
}

func TestRunCommand_StoresRun(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "run", "circular_binary", "--steps", "2000", "--data", dir)
	m := runIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no run id in output:\n%s", out)
	}
	runID := m[1]
	if !strings.Contains(out, "energy_drift") {
		t.Errorf("summary should list metrics:\n%s", out)
	}

	if out := mustExecute(t, "list", "--data", dir); !strings.Contains(out, runID) {
		t.Errorf("list does not show %s:\n%s", runID, out)
	}

	csvOut := mustExecute(t, "export-csv", runID, "--data", dir)
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	if lines[0] != "time,b0_x,b0_y,b0_z,b1_x,b1_y,b1_z" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 2001 {
		t.Errorf("got %d csv lines, want 2001", len(lines))
	}

	jsonPath := filepath.Join(dir, "run.json")
	mustExecute(t, "export-json", runID, "--data", dir, "-o", jsonPath)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Run struct {
			ID string `json:"id"`
		} `json:"run"`
		Positions [][][3]float64 `json:"positions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON export: %v", err)
	}
	if doc.Run.ID != runID || len(doc.Positions) != 2000 {
		t.Errorf("export has id %q and %d snapshots", doc.Run.ID, len(doc.Positions))
	}

	svgPath := filepath.Join(dir, "orbit.svg")
	mustExecute(t, "plot", runID, "--data", dir, "--svg", svgPath, "--width", "30", "--height", "12")
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("plot --svg did not write an SVG document")
	}

	// A fifth of an orbit holds no separation minima.
	if _, err := execute("period", runID, "--data", dir); !errors.Is(err, dynamo.ErrInsufficientData) {
		t.Errorf("period on a short run: got %v, want insufficient data", err)
	}
}

func TestRunCommand_NoSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	out := mustExecute(t, "run", "figure_eight", "--steps", "500", "--no-save", "--data", dir)
	if strings.Contains(out, "run id:") {
		t.Error("--no-save should not report a run id")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("--no-save should not create the data directory")
	}
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown preset", []string{"run", "nope", "--no-save"}, dynamo.ErrUnknownPreset},
		{"bad dt", []string{"run", "circular_binary", "--dt=-1", "--no-save"}, dynamo.ErrConfiguration},
		{"bad frame", []string{"run", "circular_binary", "--frame", "sideways", "--no-save"}, dynamo.ErrConfiguration},
		{"euler rotating", []string{"run", "lagrange_l4_l5", "--integrator", "euler", "--steps", "10", "--no-save"}, dynamo.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunCommand_MissingSource(t *testing.T) {
	if _, err := execute("run", "--no-save"); err == nil {
		t.Error("run without preset or config should fail")
	}
}

func TestBuildConfig_DtKeepsDuration(t *testing.T) {
	cmd := newRootCmd()
	runCmd, _, err := cmd.Find([]string{"run"})
	if err != nil {
		t.Fatal(err)
	}
	if err := runCmd.ParseFlags([]string{"--dt", "0.001"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(runCmd, []string{"circular_binary"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.001 || cfg.Steps != 23000 {
		t.Errorf("dt=%v steps=%d, want dt=0.001 steps=23000", cfg.Dt, cfg.Steps)
	}
}

func TestPotentialCommand(t *testing.T) {
	out := mustExecute(t, "potential", "--width", "20")
	if !strings.Contains(out, "effective potential") {
		t.Errorf("missing title:\n%s", out)
	}
	if strings.Count(out, "●") != 2 {
		t.Errorf("expected two mass markers:\n%s", out)
	}

	if _, err := execute("potential", "--sep", "0"); err == nil {
		t.Error("zero separation should be rejected")
	}
}

func TestThemeFlag(t *testing.T) {
	if _, err := execute("presets", "--theme", "ocean"); err != nil {
		t.Errorf("known theme rejected: %v", err)
	}
	if _, err := execute("presets", "--theme", "plaid"); err == nil {
		t.Error("unknown theme should be rejected")
	}
}

func TestScenarioCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	scenario := `name: smoke
description: two quick runs
runs:
  - preset: circular_binary
    steps: 300
  - preset: figure_eight
    name: eight
    steps: 300
`
	if err := os.WriteFile(path, []byte(scenario), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, "scenario", path, "--data", dir)
	for _, want := range []string{"smoke", "circular_binary", "eight"} {
		if !strings.Contains(out, want) {
			t.Errorf("scenario output missing %q:\n%s", want, out)
		}
	}
	if out := mustExecute(t, "list", "--data", dir); strings.Count(out, "\n") != 3 {
		t.Errorf("expected header and two runs:\n%s", out)
	}
}

func TestMonteCarloCommand_DefaultPerturbation(t *testing.T) {
	out := mustExecute(t, "montecarlo", "circular_binary", "--trials", "2", "--steps", "10", "--seed", "1")
	if !strings.Contains(out, "jitter 0.01)") {
		t.Errorf("montecarlo should jitter by its own default:\n%s", out)
	}
	if !strings.Contains(out, "stable:") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestLyapunovCommand_DefaultPerturbation(t *testing.T) {
	out := mustExecute(t, "lyapunov", "circular_binary", "--steps", "100")
	if !strings.Contains(out, "offset 1e-08)") {
		t.Errorf("lyapunov should start from its own default offset:\n%s", out)
	}
}
