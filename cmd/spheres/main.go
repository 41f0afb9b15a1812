package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spheres/internal/automation"
	"github.com/san-kum/spheres/internal/config"
	"github.com/san-kum/spheres/internal/export"
	"github.com/san-kum/spheres/internal/metrics"
	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/sim"
	"github.com/san-kum/spheres/internal/storage"
	"github.com/san-kum/spheres/internal/vec"
	"github.com/san-kum/spheres/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	configFile   string
	preset       string
	scenarioFile string
	policy       string
	duration     float64
	seed         int64
	radiusRatio  float64
	gravity      float64
	rotation     int
	jsonOut      string

	cols  int
	rows  int
	theme string

	ball     int
	scale    float64
	trackOut string
	fill     string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	numRuns int
)

var logger *log.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "spheres",
		Short: "touch-reactive bouncing spheres",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(liveOptions(), logger)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spheres", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to file instead of stderr")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted event file (yaml)")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also export the run as JSON")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play the arena in the terminal",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&cols, "cols", 48, "canvas width in cells")
	liveCmd.Flags().IntVar(&rows, "rows", 18, "canvas height in cells")
	liveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the kinetic energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	trackCmd := &cobra.Command{
		Use:   "track [run_id]",
		Short: "draw the path of one ball as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  trackRun,
	}
	trackCmd.Flags().IntVar(&ball, "ball", 0, "ball index")
	trackCmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "pixels per world unit the run used")
	trackCmd.Flags().StringVar(&trackOut, "out", "", "output file (default <run_id>_ball<N>.svg)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "replay a scenario across a parameter range",
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted event file (yaml)")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "radius_ratio", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many seeds in parallel and summarize",
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-10s policy=%s radius_ratio=%.2f gravity=%.1f\n", p, cfg.Policy, cfg.Balls.RadiusRatio, cfg.Gravity.Factor)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addConfigFlags(configCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted scenario and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioFile = args[0]
			return runSimulation(cmd, nil)
		},
	}
	addConfigFlags(scenarioCmd)

	svgCmd := &cobra.Command{
		Use:   "svg [path]",
		Short: "simulate headlessly and draw the last frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	addConfigFlags(svgCmd)
	svgCmd.Flags().StringVar(&fill, "fill", "#00ff88", "ball color")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, trackCmd, sweepCmd, ensembleCmd, presetsCmd, configCmd, scenarioCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&policy, "policy", "radial", "touch policy (radial, drag)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&radiusRatio, "radius-ratio", config.DefaultRadiusRatio, "nominal radius as a fraction of the short side")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultFactor, "accelerometer gravity factor")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "device rotation in degrees")
}

func setupLogger() error {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		w = f
	}
	logger = log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "spheres",
	})
	return nil
}

// loadConfig layers the preset, then the config file, then any flags the
// user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Policy = policy
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("radius-ratio") {
		cfg.Balls.RadiusRatio = radiusRatio
	}
	if flags.Changed("gravity") {
		cfg.Gravity.Factor = gravity
	}
	if flags.Changed("rotation") {
		cfg.Surface.Rotation = rotation
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func loadScenario(cfg *config.Config) (*automation.Scenario, error) {
	if scenarioFile == "" {
		return nil, nil
	}
	sc, err := automation.LoadScenario(scenarioFile)
	if err != nil {
		return nil, err
	}
	if sc.Preset != "" && preset == "" && configFile == "" {
		p := config.GetPreset(sc.Preset)
		if p == nil {
			return nil, fmt.Errorf("scenario %s: unknown preset %s", sc.Name, sc.Preset)
		}
		p.Seed = cfg.Seed
		*cfg = *p
	}
	return sc, nil
}

func liveOptions() viz.LiveOptions {
	opts := viz.DefaultLiveOptions()
	if cols > 0 {
		opts.Cols = cols
	}
	if rows > 0 {
		opts.Rows = rows
	}
	opts.Theme = theme
	opts.ExportDir = dataDir
	return opts
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := loadScenario(cfg)
	if err != nil {
		return err
	}

	name := "free"
	switch {
	case len(args) > 0:
		name = args[0]
	case scenario != nil && scenario.Name != "":
		name = scenario.Name
	case preset != "":
		name = preset
	}

	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running simulation", "name", name, "policy", cfg.Policy, "seed", cfg.Seed)
	start := time.Now()
	result, err := automation.Play(ctx, cfg, scenario, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	width, height := cfg.Surface.Width, cfg.Surface.Height
	if scenario != nil && scenario.Width > 0 && scenario.Height > 0 {
		width, height = scenario.Width, scenario.Height
	}
	runID, err := st.Save(storage.RunMetadata{
		Name:     name,
		Policy:   cfg.Policy,
		Seed:     cfg.Seed,
		DrawRate: cfg.DrawRate,
		SimRate:  cfg.SimRate,
		Width:    width,
		Height:   height,
	}, result)
	if err != nil {
		return err
	}

	if jsonOut != "" {
		if err := export.ExportJSON(jsonOut, export.NewExportData(name, cfg.Policy, cfg.DrawRate, result)); err != nil {
			return err
		}
		logger.Info("exported", "path", jsonOut)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, metric := range metrics.Standard() {
		if val, ok := m[metric.Name()]; ok {
			fmt.Printf("  %s: %.6f\n", metric.Name(), val)
		}
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := liveOptions()
	opts.DrawRate = cfg.DrawRate
	sc, err := viz.NewLiveScene(cfg, opts, logger)
	if err != nil {
		return err
	}
	return viz.RunLive(sc, opts)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPOLICY\tTICKS\tSURFACE\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dx%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Policy,
			run.Ticks,
			run.Width, run.Height,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, energy, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(energy) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("policy: %s\n", meta.Policy)
	fmt.Printf("samples: %d\n\n", len(energy))

	graph := asciigraph.Plot(energy,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	)
	fmt.Println(graph)
	printMetrics(meta.Metrics)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func trackRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	track, err := st.LoadTrack(runID, ball)
	if err != nil {
		return err
	}

	points := make([]vec.Vec2, len(track.X))
	for i := range track.X {
		points[i] = vec.Vec2{X: track.X[i], Y: track.Y[i]}
	}
	long, short := orient.Normalize(meta.Width, meta.Height)
	out := export.TrackToSVG(points, float64(long)/scale, float64(short)/scale, scale, "#00ff88")

	path := trackOut
	if path == "" {
		path = fmt.Sprintf("%s_ball%d.svg", runID, ball)
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d points)\n", path, len(points))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := loadScenario(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		Scenario:  scenario,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tGAIN\tPEAK\tCONTAINED\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.3f\t%.0f\n",
			r.ParamValue,
			r.Metrics["energy"],
			r.Metrics["energy_gain"],
			r.Metrics["peak_speed"],
			r.Metrics["containment"],
		)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build := func(seed int64) (*scene.Scene, error) {
		c := cfg.Clone()
		c.Seed = seed
		opts, err := c.SceneOptions()
		if err != nil {
			return nil, err
		}
		sc, err := scene.New(opts, nil)
		if err != nil {
			return nil, err
		}
		if _, err := sc.Resize(c.Surface.Width, c.Surface.Height); err != nil {
			return nil, err
		}
		return sc, nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running ensemble", "runs", numRuns, "seed", cfg.Seed)
	results, err := sim.NewEnsemble(build, numRuns, cfg.Seed).Run(ctx, sim.Config{
		Ticks:    cfg.Ticks(),
		DrawRate: cfg.DrawRate,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tENERGY\tPEAK\tCONTAINED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.3f\t%.0f\n",
			cfg.Seed+int64(i),
			r.Metrics["energy"],
			r.Metrics["peak_speed"],
			r.Metrics["containment"],
		)
	}
	return w.Flush()
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.SceneOptions()
	if err != nil {
		return err
	}
	sc, err := scene.New(opts, logger)
	if err != nil {
		return err
	}
	if _, err := sc.Resize(cfg.Surface.Width, cfg.Surface.Height); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := sim.New(sc, logger).Run(ctx, sim.Config{Ticks: cfg.Ticks(), DrawRate: cfg.DrawRate}); err != nil {
		return err
	}

	w, h := sc.Mapper().ScreenSize()
	if err := os.WriteFile(args[0], []byte(export.SpritesToSVG(sc.Sprites(), w, h, fill)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d balls, %.0fx%.0f)\n", args[0], sc.BallCount(), w, h)
	return nil
}
