package game

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/setgame/internal/deck"
	"github.com/stretchr/testify/require"
)

const (
	// no set anywhere among these twelve
	setFreeTable = "1reo 2reo 1rdo 2rdo 1ret 2ret 1rdt 2rdt 1geo 2geo 1gdo 2gdo"
	// exactly one set, in slots 0-2
	oneSetTable = "1reo 2geo 3beo 2reo 1rdo 2rdo 1ret 2ret 1rdt 2rdt 3geo 1gdo"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// instant has no delays besides a long tick, so every step runs inline
func instant() Timings {
	return Timings{Tick: time.Hour}
}

// slowTick keeps the default staging delays but moves the tick out of the way
func slowTick() Timings {
	t := DefaultTimings()
	t.Tick = time.Hour
	return t
}

// fixtureDeck puts the table cards first and the rest of the deck after
// them in canonical order
func fixtureDeck(table string) *deck.Deck {
	cards := deck.MustParseCards(table)
	for _, c := range deck.AllCards() {
		if !slices.Contains(cards, c) {
			cards = append(cards, c)
		}
	}
	return deck.NewDeckFromCards(cards)
}

// restAfter returns the deck order following the table cards
func restAfter(table string) []deck.Card {
	return fixtureDeck(table).Cards()[TableCapacity:]
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// advance moves the mock clock forward by d, stopping at every event on
// the way so each one fires and completes in order
func advance(ctx context.Context, t *testing.T, clk *quartz.Mock, d time.Duration) {
	t.Helper()
	for d > 0 {
		next, ok := clk.Peek()
		if !ok || next > d {
			clk.Advance(d).MustWait(ctx)
			return
		}
		clk.Advance(next).MustWait(ctx)
		d -= next
	}
}

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func (r *recorder) ofType(et EventType) []Event {
	var events []Event
	for _, e := range r.all() {
		if e.EventType() == et {
			events = append(events, e)
		}
	}
	return events
}

func (r *recorder) cues() []Cue {
	var cues []Cue
	for _, e := range r.ofType(EventTypeCue) {
		cues = append(cues, e.(CueEvent).Cue)
	}
	return cues
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func countCues(cues []Cue, cue Cue) int {
	n := 0
	for _, c := range cues {
		if c == cue {
			n++
		}
	}
	return n
}

// newTimedForTest builds and starts a timed session on a mock clock
func newTimedForTest(t *testing.T, table string, timings Timings) (*Timed, *quartz.Mock, *recorder) {
	t.Helper()
	clk := quartz.NewMock(t)
	g := NewTimed(nil,
		WithClock(clk),
		WithLogger(testLogger()),
		WithDeck(fixtureDeck(table)),
		WithTimings(timings),
		WithSessionID("test"),
	)
	rec := &recorder{}
	g.Subscribe(rec)
	require.NoError(t, g.Start(testContext(t)))
	t.Cleanup(g.Close)
	return g, clk, rec
}

func newClassicForTest(t *testing.T, d *deck.Deck) (*Classic, *recorder) {
	t.Helper()
	g := NewClassic(nil, WithLogger(testLogger()), WithDeck(d), WithSessionID("test"))
	rec := &recorder{}
	g.Subscribe(rec)
	require.NoError(t, g.Start(testContext(t)))
	t.Cleanup(g.Close)
	return g, rec
}

func slotCards(s Snapshot) []deck.Card {
	cards := make([]deck.Card, 0, len(s.Slots))
	for _, v := range s.Slots {
		if v.HasCard() {
			cards = append(cards, v.Card)
		}
	}
	return cards
}

func requireAccounted(t *testing.T, s Snapshot) {
	t.Helper()
	require.Equal(t, deck.NumCards, s.DeckSize+s.TableSize+s.Discarded,
		"deck %d + table %d + discarded %d", s.DeckSize, s.TableSize, s.Discarded)
}
