package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/game"
)

// Recorder subscribes to a game and collects its actions. Events may be
// published from timer goroutines, so it locks.
type Recorder struct {
	mu      sync.Mutex
	seed    int64
	started time.Time
	tick    int
	actions []string
}

// NewRecorder creates a recorder for a session dealt from seed
func NewRecorder(seed int64) *Recorder {
	return &Recorder{seed: seed}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started.IsZero() {
		r.started = event.Timestamp()
	}
	if tick, ok := event.(game.TickEvent); ok {
		r.tick = tick.Elapsed
		return
	}
	if action, ok := FormatEvent(event); ok {
		r.actions = append(r.actions, fmt.Sprintf("t%d %s", r.tick, action))
	}
}

// Actions returns the actions recorded so far
func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

// History combines the recorded actions with the final snapshot
func (r *Recorder) History(s game.Snapshot) *History {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &History{
		Session:    s.SessionID,
		Variant:    string(s.Variant),
		Seed:       r.seed,
		Sets:       s.SetCount,
		Misses:     s.FailedAttempts,
		Elapsed:    s.Elapsed,
		GameOver:   s.GameOver,
		DeckLeft:   s.DeckSize,
		FinalTable: cardCodes(s.ReadyCards()),
		Actions:    append([]string{}, r.actions...),
	}
	if s.Variant == game.VariantTimed {
		h.Meter = s.Meter
	}
	if !r.started.IsZero() {
		h.Started = r.started.UTC().Format(time.RFC3339)
	}
	return h
}

// FormatEvent converts a game event to a history action. Events that do
// not change the score (slots, cues, ticks) are skipped.
func FormatEvent(event game.Event) (string, bool) {
	switch e := event.(type) {
	case game.SetFoundEvent:
		return "set " + e.Set.String(), true
	case game.SetFailedEvent:
		return "miss " + e.Cards.String(), true
	case game.HintEvent:
		if !e.Found {
			return "hint none", true
		}
		return "hint " + e.Card.String(), true
	case game.ReDealEvent:
		if e.Penalized {
			return "redeal penalty", true
		}
		return "redeal", true
	case game.CardsAddedEvent:
		if e.Refused {
			return "deal refused", true
		}
		return "deal " + deck.FormatCards(e.Cards), true
	case game.GameOverEvent:
		return "game over", true
	default:
		return "", false
	}
}

func cardCodes(cards []deck.Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return codes
}
