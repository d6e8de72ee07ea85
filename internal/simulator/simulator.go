// Package simulator plays many bot-driven sessions concurrently and
// collects their results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/setgame/internal/bot"
	"github.com/lox/setgame/internal/game"
	"github.com/lox/setgame/internal/history"
	"github.com/lox/setgame/internal/randutil"
	"github.com/lox/setgame/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions  int
	Workers   int // Default: GOMAXPROCS
	Variant   game.Variant
	Strategy  string
	Seed      int64
	Think     time.Duration // bot delay between moves, before scaling
	TimeScale float64       // multiplies every session delay and the think time
	Timeout   time.Duration // per session
	Logger    *log.Logger
	Clock     quartz.Clock // Default: real clock

	// HistoryDir, when set, receives one TOML history per session
	HistoryDir string
}

// Simulator runs Set sessions with bots
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Think <= 0 {
		config.Think = bot.DefaultThink
	}
	if config.TimeScale <= 0 {
		config.TimeScale = 1
	}
	if config.Variant == "" {
		config.Variant = game.VariantTimed
	}
	if config.Strategy == "" {
		config.Strategy = "solver"
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run plays every session and returns the aggregated statistics together
// with the per-session results in session order
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, []statistics.SessionResult, error) {
	if s.config.Sessions <= 0 {
		return nil, nil, fmt.Errorf("invalid sessions count: %d", s.config.Sessions)
	}
	if _, err := bot.NewStrategy(s.config.Strategy, randutil.New(0)); err != nil {
		return nil, nil, err
	}

	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("starting simulation",
		"sessions", s.config.Sessions,
		"workers", s.config.Workers,
		"variant", s.config.Variant,
		"strategy", s.config.Strategy,
		"seed", s.config.Seed)

	results := make([]statistics.SessionResult, s.config.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Sessions {
		g.Go(func() error {
			result, err := s.playSessionWithTimeout(ctx, i)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &statistics.Statistics{}
	for _, result := range results {
		stats.Add(result)
	}
	if err := stats.Validate(); err != nil {
		return nil, nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("simulation complete", "sessions", stats.Sessions, "mean_sets", stats.Sets.Mean())
	return stats, results, nil
}

// playSessionWithTimeout runs one session with hang protection. A classic
// session that runs out of time simply ends; a timed one always finishes
// on its own, so hitting the deadline there is an error.
func (s *Simulator) playSessionWithTimeout(ctx context.Context, index int) (statistics.SessionResult, error) {
	seed := randutil.Derive(s.config.Seed, index)

	sessionCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		sessionCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	result, err := s.playSession(sessionCtx, seed)
	switch {
	case err == nil:
		return result, nil
	case ctx.Err() != nil:
		return result, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded) && s.config.Variant == game.VariantClassic:
		s.config.Logger.Warn("session ran out of time", "session", index, "seed", seed)
		return result, nil
	case errors.Is(err, context.DeadlineExceeded):
		return result, fmt.Errorf("session %d timed out after %v (seed: %d)", index, s.config.Timeout, seed)
	default:
		return result, fmt.Errorf("session %d (seed: %d): %w", index, seed, err)
	}
}

// playSession plays a single session to the end
func (s *Simulator) playSession(ctx context.Context, seed int64) (statistics.SessionResult, error) {
	strategy, err := bot.NewStrategy(s.config.Strategy, randutil.New(randutil.Derive(seed, 1)))
	if err != nil {
		return statistics.SessionResult{}, err
	}

	g, err := game.New(s.config.Variant, randutil.New(seed),
		game.WithClock(s.config.Clock),
		game.WithLogger(s.config.Logger),
		game.WithTimings(game.DefaultTimings().Scale(s.config.TimeScale)),
	)
	if err != nil {
		return statistics.SessionResult{}, err
	}
	defer g.Close()

	var recorder *history.Recorder
	if s.config.HistoryDir != "" {
		recorder = history.NewRecorder(seed)
		g.Subscribe(recorder)
	}

	if err := g.Start(ctx); err != nil {
		return statistics.SessionResult{}, err
	}

	think := time.Duration(float64(s.config.Think) * s.config.TimeScale)
	player := bot.NewPlayer(g, strategy,
		bot.WithClock(s.config.Clock),
		bot.WithThink(think),
		bot.WithLogger(s.config.Logger),
	)
	runErr := player.Run(ctx)

	snap := g.Snapshot()
	result := statistics.SessionResult{
		Seed:           seed,
		SessionID:      snap.SessionID,
		Strategy:       strategy.Name(),
		SetCount:       snap.SetCount,
		FailedAttempts: snap.FailedAttempts,
		Elapsed:        snap.Elapsed,
		Discarded:      snap.Discarded,
		Retiring:       snap.Retiring,
		DeckSize:       snap.DeckSize,
		GameOver:       snap.GameOver,
		Exhausted:      snap.Exhausted,
	}
	if recorder != nil {
		h := recorder.History(snap)
		h.Metadata = map[string]any{"strategy": strategy.Name(), "moves": player.Moves()}
		if err := history.Write(history.Filename(s.config.HistoryDir, snap.SessionID), h); err != nil {
			return result, fmt.Errorf("failed to write history: %w", err)
		}
	}
	s.config.Logger.Debug("session finished", "session", snap.SessionID, "seed", seed, "sets", snap.SetCount, "moves", player.Moves())
	return result, runErr
}
