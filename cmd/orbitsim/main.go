package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	themeName  string
	jobs       int
	configFile string
	dt         float64
	steps      int
	duration   float64
	integrator string
	frame      string
	validate   bool
	noSave     bool
	// Plot output
	plotWidth  int
	plotHeight int
	svgFile    string
	outFile    string
	// Effective potential
	potWidth  int
	potM1     float64
	potM2     float64
	potSep    float64
	potOmega  float64
	potExtent float64
	// Sweeps
	sweepDts    []float64
	sweepTime   float64
	trials      int
	mcSteps     int
	mcPerturb   float64
	seed        int64
	lyapSteps   int
	lyapPerturb float64
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "n-body gravity simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !viz.SetTheme(themeName) {
				return fmt.Errorf("unknown theme %q (available: %s)", themeName, strings.Join(viz.ThemeNames(), ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive preset browser when no command given
			return viz.RunInteractive(experiment.NewRegistry())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "cyberpunk", "color theme")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 4, "concurrent runs for batch commands")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without storing the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "animate a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the orbits of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width in cells")
	plotCmd.Flags().IntVar(&plotHeight, "height", 24, "plot height in cells")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the orbits as SVG to this file")

	periodCmd := &cobra.Command{
		Use:   "period [run_id]",
		Short: "estimate the orbital period of a stored two-body run",
		Args:  cobra.ExactArgs(1),
		RunE:  periodRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run and its trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	potentialCmd := &cobra.Command{
		Use:   "potential",
		Short: "draw the rotating-frame effective potential",
		Args:  cobra.NoArgs,
		RunE:  plotPotential,
	}
	def := physics.DefaultEffectivePotential()
	potentialCmd.Flags().Float64Var(&potM1, "m1", def.M1, "mass at (-sep/2, 0)")
	potentialCmd.Flags().Float64Var(&potM2, "m2", def.M2, "mass at (+sep/2, 0)")
	potentialCmd.Flags().Float64Var(&potSep, "sep", def.Separation, "separation of the masses")
	potentialCmd.Flags().Float64Var(&potOmega, "omega", def.Omega, "frame angular velocity")
	potentialCmd.Flags().Float64Var(&potExtent, "extent", 2, "half-width of the plotted square")
	potentialCmd.Flags().IntVar(&potWidth, "width", 64, "plot width in cells")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "rerun a preset at several time steps over the same duration",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{0.002, 0.001, 0.0005, 0.0001}, "time steps to compare")
	sweepCmd.Flags().Float64Var(&sweepTime, "time", 0, "simulated duration (default: the preset's)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every simulation listed in a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without storing the runs")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "jitter a preset's initial positions and count bounded trials",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().IntVar(&mcSteps, "steps", 0, "steps per trial (default: the preset's)")
	monteCarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.01, "half-width of the position jitter")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate the largest Lyapunov exponent of a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	lyapunovCmd.Flags().IntVar(&lyapSteps, "steps", 0, "steps to follow (default: the preset's)")
	lyapunovCmd.Flags().Float64Var(&lyapPerturb, "perturb", 1e-8, "initial separation of the shadow run")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, periodCmd, exportCSVCmd, exportJSONCmd,
		presetsCmd, potentialCmd, sweepCmd, scenarioCmd, monteCarloCmd, lyapunovCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (keeps the duration unless --steps or --time is set)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&duration, "time", 0, "simulated duration, overrides --steps")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, leapfrog)")
	cmd.Flags().StringVar(&frame, "frame", "inertial", "reference frame (inertial, rotating)")
	cmd.Flags().BoolVar(&validate, "validate", false, "stop on NaN or Inf positions")
}

// buildConfig loads the preset or config file and applies the flags the user
// set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case configFile != "":
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) == 1:
		if cfg, err = config.GetPreset(args[0]); err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
	default:
		return nil, fmt.Errorf("name a preset or pass --config")
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("frame") {
		cfg.Frame = frame
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}
	if flags.Changed("dt") {
		d := cfg.Duration()
		cfg.Dt = dt
		cfg.SetDuration(d)
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("time") {
		cfg.SetDuration(duration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runInfo(cfg *config.Config) storage.RunInfo {
	masses := make([]float64, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		masses[i] = b.Mass
	}
	return storage.RunInfo{
		Preset:     cfg.Name,
		Integrator: cfg.Integrator,
		Frame:      cfg.Frame,
		G:          cfg.G,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Masses:     masses,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(out, "running %s (%s, %s frame, dt=%g, %d steps)...\n", cfg.Name, cfg.Integrator, cfg.Frame, cfg.Dt, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Fprintf(out, "completed in %v\n", elapsed)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runInfo(cfg), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	printSummary(out, result)
	return nil
}

func printSummary(out io.Writer, result *dynamo.Result) {
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	if result.Omega != (r3.Vec{}) {
		fmt.Fprintf(out, "omega: %.6f\n", result.Omega.Z)
	}
	if result.PeriodKnown {
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("period: %.6f", result.Period)))
	}
	fmt.Fprintln(out, "\nmetrics:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, result.Metrics[name])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	m, err := viz.NewLiveModel(exp, cfg.Name)
	if err != nil {
		return err
	}
	return viz.RunLive(m)
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tINTEG\tFRAME\tDT\tSTEPS\tPERIOD")

	for _, run := range runs {
		period := "-"
		if run.Period != nil {
			period = fmt.Sprintf("%.4f", *run.Period)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Frame,
			run.Dt,
			run.Steps,
			period,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	n := traj.NumBodies()
	flat := export.Flatten(traj)

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("run: %s", meta.ID)))
	fmt.Fprintf(out, "preset: %s\n", meta.Preset)
	fmt.Fprintf(out, "samples: %d, bodies: %d\n\n", len(traj), n)

	orbits, err := viz.RenderOrbits(flat, n, plotWidth, plotHeight)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, orbits)

	if n >= 2 {
		graph := asciigraph.Plot(analysis.Separations(traj, 0, 1),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("separation of bodies 0 and 1"),
		)
		fmt.Fprintln(out, graph)
	}

	if svgFile != "" {
		series := make([]export.Series, n)
		for i := range series {
			xs, ys, err := export.XY(flat, i, n)
			if err != nil {
				return err
			}
			series[i] = export.Series{Name: fmt.Sprintf("body %d", i), X: xs, Y: ys}
		}
		if err := os.WriteFile(svgFile, []byte(export.OrbitSVG(series, 800, 800)), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nwrote %s\n", svgFile)
	}

	return nil
}

func periodRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	period, err := analysis.Period(traj, meta.Dt)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("period analysis: %s", meta.ID)))
	fmt.Fprintf(out, "period (first two minima): %.6f\n", period)

	if periods := analysis.Periods(traj, meta.Dt); len(periods) > 1 {
		fmt.Fprintf(out, "orbits: %d, mean period: %.6f\n", len(periods), stat.Mean(periods, nil))
	}

	// The spectrum of the separation gives an independent estimate.
	if spectral, err := analysis.DominantPeriod(analysis.Separations(traj, 0, 1), meta.Dt); err == nil {
		fmt.Fprintf(out, "dominant period (spectrum): %.6f\n", spectral)
	} else {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("spectrum: %v", err)))
	}
	return nil
}

// createOutput opens outFile, or returns stdout when it is empty.
func createOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, times, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := createOutput(cmd)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, traj, times); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	w, closeFn, err := createOutput(cmd)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, traj, times); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tINTEG\tFRAME\tDT\tSTEPS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%g\t%d\t%s\n",
			name, len(cfg.Bodies), cfg.Integrator, cfg.Frame, cfg.Dt, cfg.Steps, cfg.Description)
	}
	return w.Flush()
}

func plotPotential(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	p := physics.EffectivePotential{
		G:          physics.GDimensionless,
		M1:         potM1,
		M2:         potM2,
		Separation: potSep,
		Omega:      potOmega,
	}
	if !(p.M1 > 0) || !(p.M2 > 0) || !(p.Separation > 0) || !(potExtent > 0) {
		return fmt.Errorf("m1, m2, sep and extent must be positive")
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("effective potential: m1=%g m2=%g sep=%g omega=%g", p.M1, p.M2, p.Separation, p.Omega)))
	// Terminal cells are about twice as tall as wide.
	fmt.Fprint(out, viz.RenderPotential(p, potExtent, potWidth, potWidth/2, viz.CurrentTheme))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ConvergenceSweep{Preset: args[0], Dts: sweepDts, Duration: sweepTime}
	fmt.Fprintf(out, "sweeping %s over %d time steps...\n\n", sweep.Preset, len(sweep.Dts))

	results, err := automation.RunConvergence(ctx, sweep, experiment.NewRegistry(), jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tPERIOD\tFINAL_R\tMAX_R")
	for _, r := range results {
		period := "-"
		if r.PeriodKnown {
			period = fmt.Sprintf("%.6f", r.Period)
		}
		fmt.Fprintf(w, "%g\t%d\t%s\t%.6f\t%.6f\n", r.Dt, r.Steps, period, r.FinalRadius, r.Metrics["max_radius"])
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintln(out, titleStyle.Render(scenario.Name))
	if scenario.Description != "" {
		fmt.Fprintln(out, scenario.Description)
	}
	fmt.Fprintf(out, "running %d simulations...\n\n", len(scenario.Runs))

	outcomes, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), jobs)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tPERIOD\tMAX_R\tRUN_ID")
	for _, o := range outcomes {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(runInfo(o.Config), o.Result); err != nil {
				return err
			}
		}
		period := "-"
		if o.Result.PeriodKnown {
			period = fmt.Sprintf("%.6f", o.Result.Period)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.6f\t%s\n", o.Config.Name, o.Result.StepsTaken, period, o.Result.Metrics["max_radius"], runID)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ctx, cancel := signalContext()
	defer cancel()

	mc := &automation.MonteCarloConfig{
		Preset:       args[0],
		NumTrials:    trials,
		Steps:        mcSteps,
		Seed:         seed,
		Perturbation: mcPerturb,
	}
	fmt.Fprintf(out, "running %d trials of %s (jitter %g)...\n\n", mc.NumTrials, mc.Preset, mc.Perturbation)

	results, err := automation.RunMonteCarlo(ctx, mc, experiment.NewRegistry(), jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tMAX_R\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.6f\t%v\n", r.TrialID, r.MaxRadius, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Fprintf(out, "\nstable: %s  unstable: %s\n",
		okStyle.Render(fmt.Sprint(stable)), warnStyle.Render(fmt.Sprint(unstable)))
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.GetPreset(args[0])
	if err != nil {
		return err
	}
	if lyapSteps > 0 {
		cfg.Steps = lyapSteps
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	newIntegrator, err := experiment.NewRegistry().IntegratorFactory(cfg.Integrator)
	if err != nil {
		return err
	}

	bodies := cfg.BodySet()
	if simCfg.Frame == dynamo.Rotating {
		// Both copies share the frame fixed by the unperturbed pair.
		omega := physics.AngularVelocity(cfg.G, bodies[0], bodies[1])
		base := newIntegrator
		newIntegrator = func() dynamo.Integrator {
			integ := base()
			if fi, ok := integ.(dynamo.FrameIntegrator); ok {
				fi.SetFrame(omega)
			}
			return integ
		}
	}

	lambda := analysis.LyapunovExponent(physics.NewGravity(cfg.G), newIntegrator, bodies, cfg.Dt, cfg.Steps, lyapPerturb)
	fmt.Fprintf(out, "largest lyapunov exponent of %s over t=%g (offset %g): %.6f\n", cfg.Name, cfg.Duration(), lyapPerturb, lambda)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
