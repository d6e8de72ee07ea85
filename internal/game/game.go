package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/gameid"
)

var (
	// ErrAlreadyStarted is returned by Start on a running session
	ErrAlreadyStarted = errors.New("game already started")
	// ErrClosed is returned by Start after Close
	ErrClosed = errors.New("game closed")
)

// Game is what the renderer, bots and the CLI drive. Timed and Classic
// both implement it.
type Game interface {
	// Start deals the table. A timed session also starts its meter.
	Start(ctx context.Context) error
	// Close stops every pending step. It is safe to call more than once.
	Close()
	// Done is closed when the session is over or closed
	Done() <-chan struct{}
	Snapshot() Snapshot
	// SelectSlot toggles the selection of a ready slot
	SelectSlot(i int) bool
	// SelectCard toggles the selection of the slot showing card
	SelectCard(card deck.Card) bool
	UnselectAll()
	// Hint selects one card of a set, for a price
	Hint() bool
	// Deal re-deals the table (timed) or adds three cards (classic)
	Deal()
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
}

// New creates a controller for the variant
func New(variant Variant, rng *rand.Rand, opts ...Option) (Game, error) {
	switch variant {
	case VariantTimed:
		if err := newConfig(opts).timings.Validate(); err != nil {
			return nil, fmt.Errorf("invalid timings: %w", err)
		}
		return NewTimed(rng, opts...), nil
	case VariantClassic:
		return NewClassic(rng, opts...), nil
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}

// core is the state shared by both controllers. Every field below mu is
// guarded by it.
type core struct {
	clock  quartz.Clock
	logger *log.Logger
	bus    *EventBus

	id      string
	variant Variant

	mu         sync.Mutex
	table      *table
	outbox     []Event
	started    bool
	closed     bool
	done       chan struct{}
	doneClosed bool
}

func newCore(variant Variant, rng *rand.Rand, cfg *config) core {
	d := cfg.deck
	if d == nil {
		if rng == nil {
			panic("rng is required when no deck is provided")
		}
		d = deck.NewDeck(rng)
	}
	id := cfg.sessionID
	if id == "" {
		id = gameid.Generate()
	}
	return core{
		clock:   cfg.clock,
		logger:  cfg.logger.WithPrefix("game").With("session", id, "variant", variant),
		bus:     NewEventBus(),
		id:      id,
		variant: variant,
		table:   newTable(d, TableCapacity),
		done:    make(chan struct{}),
	}
}

// ID returns the session identifier
func (c *core) ID() string {
	return c.id
}

// Done is closed when the session ends
func (c *core) Done() <-chan struct{} {
	return c.done
}

// Subscribe registers a subscriber for every event of the session
func (c *core) Subscribe(subscriber EventSubscriber) func() {
	return c.bus.Subscribe(subscriber)
}

func (c *core) now() time.Time {
	return c.clock.Now()
}

// lock/unlock bracket every state change. Events queued in between are
// published once the mutex is released.
func (c *core) lock() {
	c.mu.Lock()
}

func (c *core) unlock() {
	events := c.outbox
	c.outbox = nil
	c.mu.Unlock()
	c.bus.Publish(events...)
}

func (c *core) emitLocked(event Event) {
	c.outbox = append(c.outbox, event)
}

func (c *core) cueLocked(cue Cue) {
	c.emitLocked(CueEvent{Cue: cue, timestamp: c.now()})
}

func (c *core) slotEventLocked(i int) {
	c.emitLocked(SlotEvent{Slot: c.table.view(i), timestamp: c.now()})
}

// startLocked guards the lifecycle of Start
func (c *core) startLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	return nil
}

func (c *core) finishLocked() {
	if !c.doneClosed {
		c.doneClosed = true
		close(c.done)
	}
}

// setSlotLocked puts card in slot i with the given phase and publishes
// the change.
func (c *core) setSlotLocked(i int, card deck.Card, phase Phase, placed bool) {
	s := &c.table.slots[i]
	s.card = card
	s.phase = phase
	s.selected = false
	s.placed = placed
	c.slotEventLocked(i)
}

func (c *core) clearSelectionLocked() {
	for _, i := range c.table.clearSelection() {
		c.slotEventLocked(i)
	}
}

func (c *core) snapshotLocked() Snapshot {
	t := c.table
	return Snapshot{
		SessionID: c.id,
		Variant:   c.variant,
		Slots:     t.views(),
		DeckSize:  t.deck.Size(),
		TableSize: t.cardCount(),
		Discarded: len(t.discarded),
		Retiring:  t.retiringCount(),
	}
}
