// Package bot plays Set sessions headlessly. A Player polls a game on a
// think interval and applies one move per tick from its Strategy.
package bot

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/setgame/internal/game"
)

// DefaultThink is how long a player waits between moves
const DefaultThink = 300 * time.Millisecond

var errStopped = errors.New("player stopped")

// Player drives a game with a strategy
type Player struct {
	game     game.Game
	strategy Strategy
	clock    quartz.Clock
	think    time.Duration
	logger   *log.Logger

	moves int
}

// Option configures a Player
type Option func(*Player)

// WithClock sets the clock the think ticker runs on
func WithClock(clock quartz.Clock) Option {
	return func(p *Player) { p.clock = clock }
}

// WithThink sets the interval between moves
func WithThink(d time.Duration) Option {
	return func(p *Player) { p.think = d }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

// NewPlayer creates a player for g
func NewPlayer(g game.Game, strategy Strategy, opts ...Option) *Player {
	p := &Player{
		game:     g,
		strategy: strategy,
		clock:    quartz.NewReal(),
		think:    DefaultThink,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.think <= 0 {
		p.think = DefaultThink
	}
	p.logger = p.logger.WithPrefix("bot").With("strategy", strategy.Name())
	return p
}

// Run plays until the session is over, the classic table is exhausted or
// ctx is cancelled. It returns ctx.Err() on cancellation and nil otherwise.
func (p *Player) Run(ctx context.Context) error {
	err := p.clock.TickerFunc(ctx, p.think, p.step, "bot").Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, errStopped) {
		return nil
	}
	return err
}

// Moves returns how many moves the player has made. Call it after Run
// returns.
func (p *Player) Moves() int {
	return p.moves
}

func (p *Player) step() error {
	select {
	case <-p.game.Done():
		return errStopped
	default:
	}

	s := p.game.Snapshot()
	if s.GameOver || s.Exhausted {
		return errStopped
	}

	move := p.strategy.Next(s)
	if move.Kind == MoveWait {
		return nil
	}
	p.apply(move)
	p.moves++
	return nil
}

func (p *Player) apply(move Move) {
	switch move.Kind {
	case MoveSelect:
		ok := p.game.SelectCard(move.Card)
		p.logger.Debug("select", "card", move.Card, "ok", ok)
	case MoveUnselect:
		p.game.UnselectAll()
		p.logger.Debug("unselect all")
	case MoveHint:
		found := p.game.Hint()
		p.logger.Debug("hint", "found", found)
	case MoveDeal:
		p.game.Deal()
		p.logger.Debug("deal")
	}
}
