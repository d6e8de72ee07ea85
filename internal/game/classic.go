package game

import (
	"context"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/evaluator"
)

// Classic is the untimed session. Judging is immediate, there is no meter
// and the table grows by three cards when the player finds no set.
type Classic struct {
	core

	setCount       int
	failedAttempts int
	stopWatch      func() bool
}

var _ Game = (*Classic)(nil)

// NewClassic creates an untimed session. The deck is shuffled with rng
// unless WithDeck is given.
func NewClassic(rng *rand.Rand, opts ...Option) *Classic {
	cfg := newConfig(opts)
	return &Classic{
		core: newCore(VariantClassic, rng, cfg),
	}
}

// Start deals the table. Cancelling ctx closes the session.
func (g *Classic) Start(ctx context.Context) error {
	g.lock()
	defer g.unlock()

	if err := g.startLocked(); err != nil {
		return err
	}
	g.stopWatch = context.AfterFunc(ctx, g.Close)

	cards := g.table.deck.Draw(min(TableCapacity, g.table.deck.Size()))
	for i, card := range cards {
		g.setSlotLocked(i, card, PhaseReady, true)
	}
	g.logger.Info("session started", "cards", len(cards))
	return nil
}

// Close ends the session. It is safe to call more than once.
func (g *Classic) Close() {
	g.lock()
	defer g.unlock()

	if g.closed {
		return
	}
	g.closed = true
	if g.stopWatch != nil {
		g.stopWatch()
	}
	g.finishLocked()
	g.logger.Debug("session closed")
}

// Snapshot returns a consistent copy of the session
func (g *Classic) Snapshot() Snapshot {
	g.lock()
	defer g.unlock()

	s := g.snapshotLocked()
	s.State = StateIdle
	s.SetCount = g.setCount
	s.FailedAttempts = g.failedAttempts
	s.Exhausted = g.exhaustedLocked()
	return s
}

// exhaustedLocked reports whether the session cannot continue: no set on
// the table and too few cards left to deal more.
func (g *Classic) exhaustedLocked() bool {
	return g.started &&
		g.table.deck.Size() < DealMoreCount &&
		!evaluator.HasSet(g.table.readyCards())
}

func (g *Classic) activeLocked() bool {
	return g.started && !g.closed
}

// SelectSlot toggles the selection of a slot
func (g *Classic) SelectSlot(i int) bool {
	g.lock()
	defer g.unlock()
	return g.toggleLocked(i)
}

// SelectCard toggles the slot showing card
func (g *Classic) SelectCard(card deck.Card) bool {
	g.lock()
	defer g.unlock()

	i := g.table.find(card)
	if i < 0 {
		g.logger.Debug("card not on table", "card", card)
		return false
	}
	return g.toggleLocked(i)
}

func (g *Classic) toggleLocked(i int) bool {
	if !g.activeLocked() {
		return false
	}
	if i < 0 || i >= len(g.table.slots) || g.table.slots[i].phase != PhaseReady {
		g.logger.Debug("slot not selectable", "slot", i)
		return false
	}

	s := &g.table.slots[i]
	s.selected = !s.selected
	g.slotEventLocked(i)

	if selected := g.table.selected(); len(selected) == evaluator.SetSize {
		g.judgeLocked(selected)
	}
	return true
}

func (g *Classic) judgeLocked(selected []int) {
	var set evaluator.Triple
	for k, i := range selected {
		set[k] = g.table.slots[i].card
	}

	if !evaluator.IsSet(set.Cards()) {
		g.failedAttempts++
		g.emitLocked(SetFailedEvent{Cards: set, FailedAttempts: g.failedAttempts, timestamp: g.now()})
		g.logger.Debug("not a set", "cards", set)
		g.clearSelectionLocked()
		return
	}

	g.setCount++
	g.emitLocked(SetFoundEvent{Set: set, SetCount: g.setCount, timestamp: g.now()})
	g.logger.Info("set found", "set", set, "sets", g.setCount)
	for _, card := range set {
		g.table.discard(card)
	}

	if len(g.table.slots) > TableCapacity {
		g.shrinkLocked(selected)
		return
	}
	for _, i := range selected {
		drawn := g.table.deck.Draw(1)
		if len(drawn) == 0 {
			g.setSlotLocked(i, 0, PhaseEmpty, false)
			continue
		}
		g.setSlotLocked(i, drawn[0], PhaseReady, true)
	}
}

// shrinkLocked drops the found slots from an enlarged table. Later slots
// move up, so every shifted slot is republished.
func (g *Classic) shrinkLocked(removed []int) {
	first := slices.Min(removed)
	g.table.slots = slices.DeleteFunc(g.table.slots, func(s slot) bool {
		return s.selected
	})
	for i := first; i < len(g.table.slots); i++ {
		g.slotEventLocked(i)
	}
	// The vacated trailing positions are reported as empty so renderers
	// holding a fixed grid can drop them.
	for i := len(g.table.slots); i < len(g.table.slots)+len(removed); i++ {
		g.emitLocked(SlotEvent{Slot: SlotView{Index: i, Phase: PhaseEmpty}, timestamp: g.now()})
	}
}

// Deal adds three cards to the table
func (g *Classic) Deal() {
	g.DealMoreCards()
}

// DealMoreCards appends three cards when the table has no set. Asking while
// a set is available counts as a failed attempt. It returns the cards
// added.
func (g *Classic) DealMoreCards() []deck.Card {
	g.lock()
	defer g.unlock()

	if !g.activeLocked() {
		return nil
	}

	if evaluator.HasSet(g.table.readyCards()) {
		g.failedAttempts++
		g.emitLocked(CardsAddedEvent{Refused: true, timestamp: g.now()})
		g.logger.Debug("deal refused, set available")
		return nil
	}

	drawn := g.table.deck.Draw(DealMoreCount)
	if len(drawn) == 0 {
		g.logger.Debug("deck cannot supply more cards", "deck", g.table.deck.Size())
		return nil
	}

	// Fill empty slots first, then grow the table
	for _, card := range drawn {
		i := slices.IndexFunc(g.table.slots, func(s slot) bool { return s.phase == PhaseEmpty })
		if i < 0 {
			g.table.slots = append(g.table.slots, slot{})
			i = len(g.table.slots) - 1
		}
		g.setSlotLocked(i, card, PhaseReady, true)
	}
	g.emitLocked(CardsAddedEvent{Cards: drawn, timestamp: g.now()})
	g.logger.Debug("dealt more cards", "cards", drawn, "table", len(g.table.slots))
	return drawn
}

// Hint counts as a failed attempt and selects one card of the first set
// on the table
func (g *Classic) Hint() bool {
	g.lock()
	defer g.unlock()

	if !g.activeLocked() {
		return false
	}

	g.failedAttempts++
	hint := HintEvent{Slot: -1, timestamp: g.now()}
	if set, ok := evaluator.FirstSet(g.table.readyCards()); ok {
		for _, card := range set {
			if i := g.table.find(card); !g.table.slots[i].selected {
				hint.Found = true
				hint.Card = card
				hint.Slot = i
				break
			}
		}
	}
	g.emitLocked(hint)
	if hint.Found {
		g.toggleLocked(hint.Slot)
	}
	return hint.Found
}

// UnselectAll clears every selection
func (g *Classic) UnselectAll() {
	g.lock()
	defer g.unlock()

	if !g.activeLocked() {
		return
	}
	g.clearSelectionLocked()
}
