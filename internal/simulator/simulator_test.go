package simulator

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/setgame/internal/game"
	"github.com/lox/setgame/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()
	sim := New(Config{Sessions: 3})
	cfg := sim.Config()

	assert.Positive(t, cfg.Workers)
	assert.Equal(t, game.VariantTimed, cfg.Variant)
	assert.Equal(t, "solver", cfg.Strategy)
	assert.InDelta(t, 1.0, cfg.TimeScale, 1e-9)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.Clock)
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Parallel()
	_, _, err := New(Config{Sessions: 0}).Run(testContext(t))
	assert.Error(t, err)

	_, _, err = New(Config{Sessions: 1, Strategy: "oracle"}).Run(testContext(t))
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestRunClassicSolverIsDeterministic(t *testing.T) {
	t.Parallel()
	config := Config{
		Sessions: 4,
		Workers:  2,
		Variant:  game.VariantClassic,
		Strategy: "solver",
		Seed:     2024,
		Think:    time.Millisecond,
		Timeout:  10 * time.Second,
		Logger:   testLogger(),
	}

	stats, results, err := New(config).Run(testContext(t))
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, 4, stats.Sessions)
	assert.Equal(t, 4, stats.Exhausted)
	assert.Zero(t, stats.GameOvers)

	for _, r := range results {
		assert.True(t, r.Exhausted)
		assert.Zero(t, r.FailedAttempts, "the solver never misses")
		assert.GreaterOrEqual(t, r.SetCount, 20, "a full classic deck yields at least 20 sets")
		assert.Equal(t, 3*r.SetCount, r.Discarded)
	}

	_, again, err := New(config).Run(testContext(t))
	require.NoError(t, err)
	for i := range results {
		assert.Equal(t, results[i].Seed, again[i].Seed)
		assert.Equal(t, results[i].SetCount, again[i].SetCount)
		assert.Equal(t, results[i].DeckSize, again[i].DeckSize)
	}
}

func TestRunTimedSessionsEndInGameOver(t *testing.T) {
	t.Parallel()
	config := Config{
		Sessions:  3,
		Workers:   3,
		Variant:   game.VariantTimed,
		Strategy:  "random",
		Seed:      7,
		TimeScale: 0.002,
		Timeout:   20 * time.Second,
		Logger:    testLogger(),
	}

	stats, results, err := New(config).Run(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.GameOvers)
	for _, r := range results {
		assert.True(t, r.GameOver)
		assert.NotEmpty(t, r.SessionID)
		assert.Equal(t, "random", r.Strategy)
	}

	report := NewReport(config, stats, results)
	assert.Equal(t, "timed", report.Variant)
	assert.Equal(t, 3, report.Sessions)
	assert.Equal(t, 3, report.GameOvers)
	assert.Len(t, report.Results, 3)
	assert.LessOrEqual(t, report.Sets.P10, report.Sets.P90)
}

func TestRunTimedLedgerBalancesMidReplacement(t *testing.T) {
	t.Parallel()
	for _, strategy := range []string{"hinter", "random", "solver"} {
		t.Run(strategy, func(t *testing.T) {
			t.Parallel()
			stats, results, err := New(Config{
				Sessions:  8,
				Workers:   4,
				Variant:   game.VariantTimed,
				Strategy:  strategy,
				Seed:      11,
				TimeScale: 0.01,
				Timeout:   20 * time.Second,
				Logger:    testLogger(),
			}).Run(testContext(t))
			require.NoError(t, err)
			assert.True(t, stats.IsLedgerBalanced())
			for _, r := range results {
				assert.LessOrEqual(t, r.Retiring, 3)
				assert.Equal(t, 3*r.SetCount, r.Discarded+r.Retiring, "seed %d", r.Seed)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(Config{
		Sessions: 2,
		Variant:  game.VariantClassic,
		Strategy: "random",
		Logger:   testLogger(),
	}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareStrategies(t *testing.T) {
	t.Parallel()
	config := Config{
		Sessions: 3,
		Workers:  3,
		Variant:  game.VariantClassic,
		Seed:     7,
		Think:    time.Millisecond,
		Timeout:  10 * time.Second,
		Logger:   testLogger(),
	}

	c, err := Compare(testContext(t), config, "solver", "hinter")
	require.NoError(t, err)

	assert.Equal(t, "solver", c.Baseline)
	assert.Equal(t, "hinter", c.Challenger)
	assert.Equal(t, 3, c.Sessions)
	assert.Zero(t, c.Stats[0].Failed.Sum, "the solver never pays")
	assert.Positive(t, c.Stats[1].Failed.Sum)
	assert.Positive(t, c.Failed.Difference)
	assert.InDelta(t, c.Stats[1].Failed.Mean()-c.Stats[0].Failed.Mean(), c.Failed.Difference, 1e-9)
}

func TestCompareRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()
	_, err := Compare(testContext(t), Config{Sessions: 1, Logger: testLogger()}, "solver", "oracle")
	assert.ErrorContains(t, err, "oracle")
}

func TestRunWritesHistories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	config := Config{
		Sessions:   2,
		Variant:    game.VariantClassic,
		Seed:       99,
		Think:      time.Millisecond,
		Timeout:    10 * time.Second,
		Logger:     testLogger(),
		HistoryDir: dir,
	}

	_, results, err := New(config).Run(testContext(t))
	require.NoError(t, err)

	for _, r := range results {
		f, err := os.Open(history.Filename(dir, r.SessionID))
		require.NoError(t, err)
		h, err := history.Decode(f)
		f.Close()
		require.NoError(t, err)

		assert.Equal(t, r.Seed, h.Seed)
		assert.Equal(t, r.SetCount, h.Sets)
		assert.Equal(t, "solver", h.Metadata["strategy"])
		sets := 0
		for _, action := range h.Actions {
			assert.NotContains(t, action, "miss", "the solver never misses")
			if strings.Contains(action, " set ") {
				sets++
			}
		}
		assert.Equal(t, r.SetCount, sets)
	}
}
