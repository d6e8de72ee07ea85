package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/setgame/cmd/setgame/shared"
	"github.com/lox/setgame/internal/game"
	"github.com/lox/setgame/internal/history"
	"github.com/lox/setgame/internal/randutil"
	"github.com/lox/setgame/internal/tui"
	"github.com/muesli/termenv"
)

type PlayCmd struct {
	Variant string `short:"V" help:"Game variant: timed or classic (default from config)"`
	Seed    *int64 `short:"s" help:"Deck seed, for replaying a deal"`
	NoSound bool   `help:"Do not ring the terminal bell"`
	NoColor bool   `help:"Render without colours"`
	History string `type:"path" help:"Write the session history to this TOML file"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if c.Variant != "" {
		cfg.Game.Variant = c.Variant
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	variant, err := game.ParseVariant(cfg.Game.Variant)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := shared.SetupLogger(logFile, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	if c.NoColor || cfg.Game.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	seed := randutil.Seed(cfg.Game.Seed)
	g, err := game.New(variant, randutil.New(seed), game.WithLogger(logger))
	if err != nil {
		return err
	}
	defer g.Close()
	logger.Info("starting game", "variant", variant, "seed", seed)

	recorder := history.NewRecorder(seed)
	g.Subscribe(recorder)

	if cfg.Game.SoundEnabled() && !c.NoSound {
		g.Subscribe(tui.NewBell(os.Stderr, logger))
	}

	ctx, stop := shared.SetupSignalHandler(logger)
	defer stop()

	if err := g.Start(ctx); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	model, err := tui.Run(ctx, g, logger)
	if err != nil && ctx.Err() == nil {
		return err
	}

	result, ok := model.Result()
	if !ok {
		result = g.Snapshot().Result()
	}
	logger.Info("game finished", "sets", result.SetCount, "misses", result.FailedAttempts, "elapsed", result.Elapsed)
	fmt.Printf("Sets found: %d  Misses: %d  Seed: %d\n", result.SetCount, result.FailedAttempts, seed)

	if c.History != "" {
		if err := history.Write(c.History, recorder.History(g.Snapshot())); err != nil {
			return err
		}
		logger.Info("history written", "file", c.History)
	}
	return nil
}
