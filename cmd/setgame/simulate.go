package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/setgame/cmd/setgame/shared"
	"github.com/lox/setgame/internal/config"
	"github.com/lox/setgame/internal/fileutil"
	"github.com/lox/setgame/internal/game"
	"github.com/lox/setgame/internal/randutil"
	"github.com/lox/setgame/internal/simulator"
	"github.com/lox/setgame/internal/statistics"
)

// RunFlags are shared by simulate and compare
type RunFlags struct {
	Sessions  int     `short:"n" help:"Number of sessions to play"`
	Workers   int     `short:"w" help:"Concurrent sessions (0 for GOMAXPROCS)"`
	Variant   string  `short:"V" help:"Game variant: timed or classic"`
	Seed      *int64  `short:"s" help:"Base seed; session seeds derive from it"`
	Think     int     `help:"Bot think time in milliseconds, before scaling"`
	TimeScale float64 `help:"Multiplier applied to every game delay, e.g. 0.01 runs 100x faster"`
	Timeout   int     `help:"Per-session timeout in seconds"`
	Output    string  `short:"o" help:"Write a JSON report to this file"`
	History   string  `type:"path" help:"Write one TOML history per session into this directory"`
}

type SimulateCmd struct {
	RunFlags `embed:""`

	Strategy string `help:"Bot strategy: solver, random or hinter"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if c.Strategy != "" {
		cfg.Simulate.Strategy = c.Strategy
	}
	env, err := c.setup(cfg)
	if err != nil {
		return err
	}
	defer env.stop()

	sim := simulator.New(env.config)
	start := time.Now()
	stats, results, err := sim.Run(env.ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	printSummary(os.Stdout, sim.Config(), stats, time.Since(start))

	if output := cfg.Simulate.Output; output != "" {
		report := simulator.NewReport(sim.Config(), stats, results)
		if err := writeReport(output, simulator.SchemaReport, report); err != nil {
			return err
		}
		env.logger.Info("report written", "file", output)
	}
	return nil
}

// writeReport validates a report against its schema and writes it
func writeReport(filename, schema string, report any) error {
	validator, err := simulator.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateStruct(schema, report); err != nil {
		return fmt.Errorf("report does not match the %s schema: %w", schema, err)
	}
	if err := fileutil.WriteJSONAtomic(filename, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// runEnv is what a headless command needs to start a simulator
type runEnv struct {
	ctx    context.Context
	stop   context.CancelFunc
	logger *log.Logger
	config simulator.Config
}

// setup applies the flags to cfg, validates it and builds the simulator
// config, logger and signal-aware context
func (c *RunFlags) setup(cfg *config.Config) (*runEnv, error) {
	c.apply(&cfg.Simulate)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	s := cfg.Simulate
	variant, err := game.ParseVariant(s.Variant)
	if err != nil {
		return nil, err
	}

	ctx, stop := shared.SetupSignalHandler(logger)
	return &runEnv{
		ctx:    ctx,
		stop:   stop,
		logger: logger,
		config: simulator.Config{
			Sessions:  s.Sessions,
			Workers:   s.Workers,
			Variant:   variant,
			Strategy:  s.Strategy,
			Seed:      randutil.Seed(c.Seed),
			Think:     s.Think(),
			TimeScale: s.TimeScale,
			Timeout:   s.Timeout(),
			Logger:    logger,

			HistoryDir: c.History,
		},
	}, nil
}

// apply overrides config values with the flags that were set
func (c *RunFlags) apply(s *config.SimulateSettings) {
	if c.Sessions != 0 {
		s.Sessions = c.Sessions
	}
	if c.Workers != 0 {
		s.Workers = c.Workers
	}
	if c.Variant != "" {
		s.Variant = c.Variant
	}
	if c.Think != 0 {
		s.ThinkMS = c.Think
	}
	if c.TimeScale != 0 {
		s.TimeScale = c.TimeScale
	}
	if c.Timeout != 0 {
		s.TimeoutSeconds = c.Timeout
	}
	if c.Output != "" {
		s.Output = c.Output
	}
}

func printSummary(w io.Writer, cfg simulator.Config, stats *statistics.Statistics, duration time.Duration) {
	fmt.Fprintf(w, "\nSimulated %d %s sessions with the %s bot in %.1fs (seed: %d)\n",
		stats.Sessions, cfg.Variant, cfg.Strategy, duration.Seconds(), cfg.Seed)
	fmt.Fprintln(w, "─────────────────────────────────────────────")

	lo, hi := stats.Sets.ConfidenceInterval95()
	fmt.Fprintf(w, "Sets per session:   %.2f ± %.2f (95%% CI: [%.2f, %.2f])\n",
		stats.Sets.Mean(), stats.Sets.StdError()*1.96, lo, hi)
	fmt.Fprintf(w, "  median %.1f, p10 %.1f, p90 %.1f\n",
		stats.Sets.Median(), stats.Sets.Percentile(0.1), stats.Sets.Percentile(0.9))
	fmt.Fprintf(w, "Misses per session: %.2f\n", stats.Failed.Mean())

	if cfg.Variant == game.VariantTimed {
		tick := game.DefaultTimings().Tick.Seconds()
		fmt.Fprintf(w, "Survived:           %.1f ticks on average\n", stats.Elapsed.Mean())
		fmt.Fprintf(w, "Sets per minute:    %.2f (at full speed)\n", stats.SetsPerMinute(tick))
		fmt.Fprintf(w, "Game overs:         %d/%d\n", stats.GameOvers, stats.Sessions)
	} else {
		fmt.Fprintf(w, "Tables exhausted:   %d/%d\n", stats.Exhausted, stats.Sessions)
	}
	fmt.Fprintf(w, "Best session:       %d sets (seed: %d)\n", stats.BestSets, stats.BestSeed)
}
