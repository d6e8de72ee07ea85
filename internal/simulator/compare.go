package simulator

import (
	"context"
	"fmt"

	"github.com/lox/setgame/internal/bot"
	"github.com/lox/setgame/internal/randutil"
	"github.com/lox/setgame/internal/statistics"
)

// Comparison pits a challenger strategy against a baseline. Differences are
// challenger minus baseline.
type Comparison struct {
	Baseline   string                    `json:"baseline"`
	Challenger string                    `json:"challenger"`
	Sessions   int                       `json:"sessions"`
	Sets       statistics.Comparison     `json:"sets"`
	Failed     statistics.Comparison     `json:"failed_attempts"`
	Elapsed    statistics.Comparison     `json:"elapsed"`
	Stats      [2]*statistics.Statistics `json:"-"` // baseline, challenger
}

// Compare plays config.Sessions sessions with each strategy. Both runs
// share config.Seed, so session i deals the same deck to both.
func Compare(ctx context.Context, config Config, baseline, challenger string) (*Comparison, error) {
	for _, name := range []string{baseline, challenger} {
		if _, err := bot.NewStrategy(name, randutil.New(0)); err != nil {
			return nil, err
		}
	}

	run := func(strategy string) (*statistics.Statistics, error) {
		c := config
		c.Strategy = strategy
		stats, _, err := New(c).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strategy, err)
		}
		return stats, nil
	}

	base, err := run(baseline)
	if err != nil {
		return nil, err
	}
	chal, err := run(challenger)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Baseline:   baseline,
		Challenger: challenger,
		Sessions:   base.Sessions,
		Sets:       statistics.Compare(&chal.Sets, &base.Sets),
		Failed:     statistics.Compare(&chal.Failed, &base.Failed),
		Elapsed:    statistics.Compare(&chal.Elapsed, &base.Elapsed),
		Stats:      [2]*statistics.Statistics{base, chal},
	}, nil
}
