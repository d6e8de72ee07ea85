package game

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/evaluator"
)

// errSessionOver stops the tick source
var errSessionOver = errors.New("session over")

// Timed is the meter-based session
type Timed struct {
	core
	timings Timings

	meter          int
	setCount       int
	failedAttempts int
	elapsed        int
	gameOver       bool

	judging *judgement
	dealing int // initial placements still outstanding

	cancel    context.CancelFunc
	stopWatch func() bool
	timers    map[*quartz.Timer]struct{}
}

// judgement is a selection of three slots waiting for the grace delay
type judgement struct {
	slots [evaluator.SetSize]int
	gens  [evaluator.SetSize]uint64
	cards evaluator.Triple
}

var _ Game = (*Timed)(nil)

// NewTimed creates a timed session. The deck is shuffled with rng unless
// WithDeck is given. It panics if the timings are invalid.
func NewTimed(rng *rand.Rand, opts ...Option) *Timed {
	cfg := newConfig(opts)
	if err := cfg.timings.Validate(); err != nil {
		panic(err)
	}
	return &Timed{
		core:    newCore(VariantTimed, rng, cfg),
		timings: cfg.timings,
		meter:   StartingMeter,
		timers:  make(map[*quartz.Timer]struct{}),
	}
}

// Start deals the table and starts the meter. Cancelling ctx closes the
// session.
func (g *Timed) Start(ctx context.Context) error {
	g.lock()
	defer g.unlock()

	if err := g.startLocked(); err != nil {
		return err
	}

	tickCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.stopWatch = context.AfterFunc(ctx, g.Close)

	g.logger.Info("session started", "deck", g.table.deck.Size(), "tick", g.timings.Tick)
	g.dealLocked()
	g.clock.TickerFunc(tickCtx, g.timings.Tick, g.tick, "tick")
	return nil
}

// Close stops the meter and every pending step
func (g *Timed) Close() {
	g.lock()
	defer g.unlock()

	if g.closed {
		return
	}
	g.closed = true
	if g.cancel != nil {
		g.cancel()
	}
	if g.stopWatch != nil {
		g.stopWatch()
	}
	for t := range g.timers {
		t.Stop()
	}
	clear(g.timers)
	g.judging = nil
	g.finishLocked()
	g.logger.Debug("session closed")
}

// Snapshot returns a consistent copy of the session
func (g *Timed) Snapshot() Snapshot {
	g.lock()
	defer g.unlock()

	s := g.snapshotLocked()
	s.State = g.stateLocked()
	s.Meter = g.meter
	s.SetCount = g.setCount
	s.FailedAttempts = g.failedAttempts
	s.Elapsed = g.elapsed
	s.GameOver = g.gameOver
	return s
}

func (g *Timed) stateLocked() State {
	switch {
	case g.gameOver:
		return StateGameOver
	case g.judging != nil:
		return StateJudging
	case g.dealing > 0:
		return StateDealing
	default:
		return StateIdle
	}
}

// activeLocked reports whether player actions can have an effect
func (g *Timed) activeLocked() bool {
	return g.started && !g.closed && !g.gameOver
}

// afterLocked runs step after d with the mutex held. Steps with no delay
// run inline.
func (g *Timed) afterLocked(d time.Duration, step func()) {
	if d <= 0 {
		step()
		return
	}
	var t *quartz.Timer
	t = g.clock.AfterFunc(d, func() {
		g.lock()
		defer g.unlock()
		delete(g.timers, t)
		if g.closed {
			return
		}
		step()
	}, "step")
	g.timers[t] = struct{}{}
}

func (g *Timed) tick() error {
	g.lock()
	defer g.unlock()

	if g.closed || g.gameOver {
		return errSessionOver
	}

	g.elapsed++
	g.meter--
	g.cueLocked(CueTick)
	g.emitLocked(TickEvent{Elapsed: g.elapsed, Meter: g.meter, timestamp: g.now()})
	g.checkGameOverLocked()
	if g.gameOver {
		return errSessionOver
	}
	return nil
}

// checkGameOverLocked ends the session once the meter runs out. Replacement
// chains already in flight are left to settle.
func (g *Timed) checkGameOverLocked() {
	if g.gameOver || g.meter > 0 {
		return
	}
	g.gameOver = true
	g.judging = nil
	g.clearSelectionLocked()

	result := g.resultLocked()
	g.logger.Info("game over", "sets", result.SetCount, "failed", result.FailedAttempts, "elapsed", result.Elapsed)
	g.emitLocked(GameOverEvent{Result: result, timestamp: g.now()})

	if g.cancel != nil {
		g.cancel()
	}
	g.finishLocked()
}

func (g *Timed) resultLocked() Result {
	return Result{
		SessionID:      g.id,
		Variant:        g.variant,
		SetCount:       g.setCount,
		FailedAttempts: g.failedAttempts,
		Elapsed:        g.elapsed,
		Meter:          g.meter,
		DeckSize:       g.table.deck.Size(),
		TableSize:      g.table.cardCount(),
		Discarded:      len(g.table.discarded),
		GameOver:       g.gameOver,
	}
}

// penaltyLocked charges the meter. Every penalty counts as a failed attempt.
func (g *Timed) penaltyLocked(amount int) {
	g.failedAttempts++
	g.meter -= amount
	g.cueLocked(CueError)
}

func (g *Timed) dealLocked() {
	g.cueLocked(CueShuffle)

	n := min(TableCapacity, g.table.deck.Size())
	cards := g.table.deck.Draw(n)
	for i, card := range cards {
		s := &g.table.slots[i]
		s.card = card
		s.phase = PhaseCleared
		s.gen++
		gen := s.gen
		g.dealing++
		g.slotEventLocked(i)
		g.afterLocked(time.Duration(i)*g.timings.DealStagger, func() {
			g.placeLocked(i, gen)
		})
	}
	g.logger.Debug("dealt table", "cards", len(cards))
}

func (g *Timed) placeLocked(i int, gen uint64) {
	g.dealing--
	s := &g.table.slots[i]
	if s.gen != gen {
		return
	}
	g.cueLocked(CueDeal)
	g.setSlotLocked(i, s.card, PhaseReady, true)
}

// SelectSlot toggles the selection of a ready slot
func (g *Timed) SelectSlot(i int) bool {
	g.lock()
	defer g.unlock()
	return g.toggleLocked(i)
}

// SelectCard toggles the slot showing card. It is a no-op if the card is
// no longer on the table.
func (g *Timed) SelectCard(card deck.Card) bool {
	g.lock()
	defer g.unlock()

	i := g.table.find(card)
	if i < 0 {
		g.logger.Debug("card not on table", "card", card)
		return false
	}
	return g.toggleLocked(i)
}

func (g *Timed) toggleLocked(i int) bool {
	if !g.activeLocked() || g.judging != nil {
		return false
	}
	if i < 0 || i >= len(g.table.slots) || g.table.slots[i].phase != PhaseReady {
		g.logger.Debug("slot not selectable", "slot", i)
		return false
	}

	s := &g.table.slots[i]
	s.selected = !s.selected
	g.cueLocked(CueSelect)
	g.slotEventLocked(i)

	if selected := g.table.selected(); len(selected) == evaluator.SetSize {
		g.scheduleJudgeLocked(selected)
	}
	return true
}

func (g *Timed) scheduleJudgeLocked(selected []int) {
	j := &judgement{}
	for k, i := range selected {
		s := g.table.slots[i]
		j.slots[k] = i
		j.gens[k] = s.gen
		j.cards[k] = s.card
	}
	g.judging = j
	g.afterLocked(g.timings.JudgeDelay, func() {
		g.judgeLocked(j)
	})
}

func (g *Timed) judgeLocked(j *judgement) {
	if g.judging != j {
		g.logger.Debug("judgement superseded", "cards", j.cards)
		return
	}
	g.judging = nil
	if g.gameOver {
		return
	}

	for k, i := range j.slots {
		s := g.table.slots[i]
		if s.phase != PhaseReady || !s.selected || s.gen != j.gens[k] || s.card != j.cards[k] {
			g.logger.Debug("stale selection", "cards", j.cards)
			g.clearSelectionLocked()
			return
		}
	}

	if evaluator.IsSet(j.cards.Cards()) {
		g.setFoundLocked(j)
	} else {
		g.setFailedLocked(j)
	}
}

func (g *Timed) setFoundLocked(j *judgement) {
	g.setCount++
	g.meter += SetReward
	g.cueLocked(CueSuccess)
	g.emitLocked(SetFoundEvent{Set: j.cards, SetCount: g.setCount, Meter: g.meter, timestamp: g.now()})
	g.logger.Info("set found", "set", j.cards, "sets", g.setCount, "meter", g.meter)

	for k, i := range j.slots {
		s := &g.table.slots[i]
		s.selected = false
		s.phase = PhasePending
		s.retiring = true
		s.gen++
		gen := s.gen
		g.slotEventLocked(i)
		g.afterLocked(time.Duration(k)*g.timings.SetStagger, func() {
			g.removeLocked(i, gen, false)
		})
	}
}

func (g *Timed) setFailedLocked(j *judgement) {
	g.penaltyLocked(FailurePenalty)
	g.emitLocked(SetFailedEvent{Cards: j.cards, FailedAttempts: g.failedAttempts, Meter: g.meter, timestamp: g.now()})
	g.logger.Debug("not a set", "cards", j.cards, "meter", g.meter)
	g.clearSelectionLocked()
	g.checkGameOverLocked()
}

// removeLocked starts the replacement chain of a slot: the card is marked
// removed, then the slot clears, then a new card is drawn and placed.
// Found cards are retired; re-dealt cards go back into the deck.
func (g *Timed) removeLocked(i int, gen uint64, reinsert bool) {
	s := &g.table.slots[i]
	if s.gen != gen {
		return
	}
	s.phase = PhaseRemoving
	s.selected = false
	g.slotEventLocked(i)
	g.afterLocked(g.timings.RemoveDelay, func() {
		g.clearLocked(i, gen, reinsert)
	})
}

func (g *Timed) clearLocked(i int, gen uint64, reinsert bool) {
	s := &g.table.slots[i]
	if s.gen != gen {
		return
	}
	if reinsert {
		g.table.deck.Insert(s.card)
	} else {
		g.table.discard(s.card)
	}
	s.retiring = false
	s.phase = PhaseCleared
	s.placed = false
	g.slotEventLocked(i)
	g.afterLocked(g.timings.RefillDelay, func() {
		g.refillLocked(i, gen)
	})
}

func (g *Timed) refillLocked(i int, gen uint64) {
	s := &g.table.slots[i]
	if s.gen != gen {
		return
	}
	drawn := g.table.deck.Draw(1)
	if len(drawn) == 0 {
		g.logger.Debug("deck exhausted", "slot", i)
		g.setSlotLocked(i, 0, PhaseEmpty, false)
		return
	}

	g.cueLocked(CueDeal)
	g.setSlotLocked(i, drawn[0], PhaseReady, false)
	g.afterLocked(g.timings.PlaceDelay, func() {
		if s.gen != gen || s.phase != PhaseReady {
			return
		}
		s.placed = true
		g.slotEventLocked(i)
	})
}

// Hint charges the hint penalty and selects one card of the first set on
// the table. It reports whether a set was found.
func (g *Timed) Hint() bool {
	g.lock()
	defer g.unlock()

	if !g.activeLocked() || g.judging != nil {
		return false
	}

	g.penaltyLocked(HintPenalty)
	hint := HintEvent{Slot: -1}
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
	hint.Meter = g.meter
	hint.timestamp = g.now()
	g.emitLocked(hint)
	g.logger.Debug("hint", "found", hint.Found, "card", hint.Card, "meter", g.meter)

	g.checkGameOverLocked()
	if hint.Found && !g.gameOver {
		g.toggleLocked(hint.Slot)
	}
	return hint.Found
}

// Deal re-deals the table
func (g *Timed) Deal() {
	g.ReDeal()
}

// ReDeal returns every ready card to the deck and draws new ones. It costs
// the re-deal penalty when a set was available. It reports whether the
// re-deal went ahead.
func (g *Timed) ReDeal() bool {
	g.lock()
	defer g.unlock()

	if !g.activeLocked() {
		return false
	}

	penalized := evaluator.HasSet(g.table.readyCards())
	if penalized {
		g.penaltyLocked(ReDealPenalty)
	}
	g.emitLocked(ReDealEvent{Penalized: penalized, Meter: g.meter, timestamp: g.now()})
	g.logger.Debug("re-deal", "penalized", penalized, "meter", g.meter)
	g.checkGameOverLocked()
	if g.gameOver {
		return false
	}

	g.judging = nil
	g.clearSelectionLocked()
	g.cueLocked(CueShuffle)

	for i := range g.table.slots {
		s := &g.table.slots[i]
		delay := time.Duration(i) * g.timings.ReDealStagger
		switch s.phase {
		case PhaseReady:
			s.phase = PhasePending
			s.gen++
			gen := s.gen
			g.slotEventLocked(i)
			g.afterLocked(delay, func() {
				g.removeLocked(i, gen, true)
			})
		case PhaseEmpty:
			s.phase = PhaseCleared
			s.gen++
			gen := s.gen
			g.slotEventLocked(i)
			g.afterLocked(delay+g.timings.RefillDelay, func() {
				g.refillLocked(i, gen)
			})
		}
	}
	return true
}

// UnselectAll clears every selection
func (g *Timed) UnselectAll() {
	g.lock()
	defer g.unlock()

	if !g.activeLocked() || g.judging != nil {
		return
	}
	g.clearSelectionLocked()
}
