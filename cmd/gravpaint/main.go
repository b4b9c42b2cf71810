package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravpaint/internal/config"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/viz"
)

var (
	dataDir  string
	logLevel string

	levelID    int
	mode       string
	random     int
	seed       uint64
	dt         float64
	duration   float64
	gravity    float64
	configFile string
	preset     string

	watch     bool
	frameRate int
	save      bool

	columns  string
	outFile  string
	svgScale float64

	addr string

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
)

var logger *log.Logger

// main registers the commands and opens the level picker when none is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravpaint",
		Short: "paint gravity fields to guide falling shapes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           lvl,
				Prefix:          "gravpaint",
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravpaint", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "play a level headless with scripted strokes",
		Args:  cobra.NoArgs,
		RunE:  runLevel,
	}
	levelFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "print frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")
	runCmd.Flags().BoolVar(&save, "save", true, "store the run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps per second across levels",
		Args:  cobra.NoArgs,
		RunE:  benchLevels,
	}
	benchCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "difficulty mode")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run frames",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&columns, "columns", "energy,in_goal,max_speed", "comma separated frame columns")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final scene of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 0.5, "pixels per level pixel")

	levelsCmd := &cobra.Command{
		Use:   "levels",
		Short: "list built-in levels",
		Args:  cobra.NoArgs,
		RunE:  listLevels,
	}
	levelsCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "difficulty mode")

	levelDumpCmd := &cobra.Command{
		Use:   "level-dump",
		Short: "write a level as yaml",
		Args:  cobra.NoArgs,
		RunE:  dumpLevel,
	}
	levelFlags(levelDumpCmd)
	levelDumpCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list preset groups or the presets in one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play a level in the terminal",
		Args:  cobra.NoArgs,
		RunE:  playLevel,
	}
	levelFlags(playCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run a level in real time and stream it over websockets",
		Args:  cobra.NoArgs,
		RunE:  serveLevel,
	}
	levelFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", true, "store runs marked save")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "play one level across gravity scales",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	levelFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "lowest gravity scale")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "highest gravity scale")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of scales")

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "play random levels with consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runTrials,
	}
	levelFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&trials, "n", 20, "number of trials")

	rootCmd.AddCommand(runCmd, benchCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd,
		levelsCmd, levelDumpCmd, presetsCmd, playCmd, serveCmd, scenarioCmd, sweepCmd, trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func levelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&levelID, "level", config.DefaultLevel, fmt.Sprintf("built-in level (0-%d)", level.TotalLevels))
	cmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "difficulty mode (easy, medium, hard)")
	cmd.Flags().IntVar(&random, "random", 0, "play a random level of this difficulty")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random level seed")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity scale override")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as group/name")
}

// loadConfig layers a preset, then a config file, then explicitly set flags
// over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		group, name, _ := strings.Cut(preset, "/")
		p := config.GetPreset(group, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", preset, group, config.ListPresets(group))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Level = levelID
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("random") {
		cfg.Random = random
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.GravityScale = gravity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
