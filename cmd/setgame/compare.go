package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/setgame/internal/simulator"
	"github.com/lox/setgame/internal/statistics"
)

type CompareCmd struct {
	RunFlags `embed:""`

	Baseline   string  `arg:"" help:"Baseline strategy"`
	Challenger string  `arg:"" help:"Strategy to compare against the baseline"`
	Alpha      float64 `default:"0.05" help:"Significance level"`
}

func (c *CompareCmd) Run(globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	env, err := c.setup(cfg)
	if err != nil {
		return err
	}
	defer env.stop()

	result, err := simulator.Compare(env.ctx, env.config, c.Baseline, c.Challenger)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	printComparison(os.Stdout, result, c.Alpha)

	if output := cfg.Simulate.Output; output != "" {
		if err := writeReport(output, simulator.SchemaComparison, result); err != nil {
			return err
		}
		env.logger.Info("report written", "file", output)
	}
	return nil
}

func printComparison(w io.Writer, c *simulator.Comparison, alpha float64) {
	fmt.Fprintf(w, "\n%s vs %s over %d sessions (same deals)\n", c.Challenger, c.Baseline, c.Sessions)
	fmt.Fprintln(w, "─────────────────────────────────────────────")

	rows := []struct {
		name string
		cmp  statistics.Comparison
	}{
		{"Sets", c.Sets},
		{"Misses", c.Failed},
		{"Elapsed", c.Elapsed},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-8s %+7.2f  (95%% CI: [%.2f, %.2f], p=%.4f, %s, effect %s)\n",
			row.name, row.cmp.Difference, row.cmp.CI95Low, row.cmp.CI95High, row.cmp.PValue,
			statistics.InterpretPValue(row.cmp.PValue, alpha),
			statistics.InterpretEffectSize(row.cmp.EffectSize))
	}
}
