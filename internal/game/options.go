package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/setgame/internal/deck"
)

// Option configures a controller during creation
type Option func(*config)

// config holds everything a controller can be built with
type config struct {
	clock     quartz.Clock // Default: real clock
	logger    *log.Logger  // Default: discards output
	deck      *deck.Deck   // If provided, overrides the RNG-shuffled deck
	timings   Timings      // Default: DefaultTimings()
	sessionID string       // Default: generated
}

func newConfig(opts []Option) *config {
	cfg := &config{
		timings: DefaultTimings(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return cfg
}

// WithClock sets the clock that drives ticks and deferred steps
func WithClock(clock quartz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDeck uses a prepared deck instead of shuffling a new one
func WithDeck(d *deck.Deck) Option {
	return func(c *config) {
		c.deck = d
	}
}

// WithTimings overrides the session delays. Zero delays run inline.
func WithTimings(t Timings) Option {
	return func(c *config) {
		c.timings = t
	}
}

// WithSessionID sets the session identifier
func WithSessionID(id string) Option {
	return func(c *config) {
		c.sessionID = id
	}
}
