package game

import (
	"github.com/lox/setgame/internal/deck"
)

// Phase is where a table slot is in its deal/replace cycle
type Phase uint8

const (
	PhaseEmpty    Phase = iota // no card and none coming
	PhaseReady                 // card can be selected
	PhasePending               // card waits for its replacement to start
	PhaseRemoving              // card is shown with the removed flag
	PhaseCleared               // gap before a new card is drawn
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseReady:
		return "ready"
	case PhasePending:
		return "pending"
	case PhaseRemoving:
		return "removing"
	case PhaseCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// HoldsCard reports whether a slot in this phase shows a card
func (p Phase) HoldsCard() bool {
	return p == PhaseReady || p == PhasePending || p == PhaseRemoving
}

// slot is the controller-owned status of one table position. The flags
// that a renderer animates live here rather than on the card.
type slot struct {
	card     deck.Card
	phase    Phase
	selected bool
	placed   bool
	retiring bool   // holds a card of a found set that is not discarded yet
	gen      uint64 // bumped whenever a new deal/replace chain claims the slot
}

// SlotView is a read-only copy of a slot for collaborators
type SlotView struct {
	Index    int
	Card     deck.Card
	Phase    Phase
	Selected bool
	Removed  bool // entry/exit animation flags for the renderer
	Placed   bool
}

// HasCard reports whether the slot shows a card
func (v SlotView) HasCard() bool {
	return v.Phase.HoldsCard()
}

// table owns the deck, the slots and the discard pile of one session
type table struct {
	deck      *deck.Deck
	slots     []slot
	discarded []deck.Card
}

func newTable(d *deck.Deck, capacity int) *table {
	return &table{
		deck:  d,
		slots: make([]slot, capacity),
	}
}

func (t *table) view(i int) SlotView {
	s := t.slots[i]
	v := SlotView{
		Index:    i,
		Phase:    s.phase,
		Selected: s.selected,
		Removed:  s.phase == PhaseRemoving,
		Placed:   s.placed,
	}
	if s.phase.HoldsCard() {
		v.Card = s.card
	}
	return v
}

func (t *table) views() []SlotView {
	views := make([]SlotView, len(t.slots))
	for i := range t.slots {
		views[i] = t.view(i)
	}
	return views
}

// readyCards returns the selectable cards in slot order
func (t *table) readyCards() []deck.Card {
	cards := make([]deck.Card, 0, len(t.slots))
	for _, s := range t.slots {
		if s.phase == PhaseReady {
			cards = append(cards, s.card)
		}
	}
	return cards
}

// selected returns the indices of selected slots
func (t *table) selected() []int {
	var idx []int
	for i, s := range t.slots {
		if s.selected {
			idx = append(idx, i)
		}
	}
	return idx
}

// clearSelection unselects every slot and returns the indices it changed
func (t *table) clearSelection() []int {
	var changed []int
	for i := range t.slots {
		if t.slots[i].selected {
			t.slots[i].selected = false
			changed = append(changed, i)
		}
	}
	return changed
}

// find returns the slot showing card, or -1
func (t *table) find(card deck.Card) int {
	for i, s := range t.slots {
		if s.phase.HoldsCard() && s.card == card {
			return i
		}
	}
	return -1
}

// cardCount returns how many slots show a card
func (t *table) cardCount() int {
	n := 0
	for _, s := range t.slots {
		if s.phase.HoldsCard() {
			n++
		}
	}
	return n
}

// retiringCount counts the found cards still on their way to the discard pile
func (t *table) retiringCount() int {
	n := 0
	for _, s := range t.slots {
		if s.retiring {
			n++
		}
	}
	return n
}

func (t *table) discard(card deck.Card) {
	t.discarded = append(t.discarded, card)
}

// Result summarises a session
type Result struct {
	SessionID      string
	Variant        Variant
	SetCount       int
	FailedAttempts int
	Elapsed        int
	Meter          int
	DeckSize       int
	TableSize      int
	Discarded      int
	GameOver       bool
}

// Snapshot is a consistent copy of a session for collaborators
type Snapshot struct {
	SessionID      string
	Variant        Variant
	State          State
	Slots          []SlotView
	DeckSize       int
	TableSize      int // slots showing a card
	Discarded      int
	Retiring       int // found cards not yet discarded
	Meter          int
	SetCount       int
	FailedAttempts int
	Elapsed        int // ticks since start
	GameOver       bool
	Exhausted      bool // classic only: no set and no cards left to add
}

// Result extracts the session summary
func (s Snapshot) Result() Result {
	return Result{
		SessionID:      s.SessionID,
		Variant:        s.Variant,
		SetCount:       s.SetCount,
		FailedAttempts: s.FailedAttempts,
		Elapsed:        s.Elapsed,
		Meter:          s.Meter,
		DeckSize:       s.DeckSize,
		TableSize:      s.TableSize,
		Discarded:      s.Discarded,
		GameOver:       s.GameOver,
	}
}

// Selected returns the selected slots
func (s Snapshot) Selected() []SlotView {
	var selected []SlotView
	for _, v := range s.Slots {
		if v.Selected {
			selected = append(selected, v)
		}
	}
	return selected
}

// ReadyCards returns the selectable cards in slot order
func (s Snapshot) ReadyCards() []deck.Card {
	var cards []deck.Card
	for _, v := range s.Slots {
		if v.Phase == PhaseReady {
			cards = append(cards, v.Card)
		}
	}
	return cards
}

// Settled reports whether no slot is part of a deal or replacement
func (s Snapshot) Settled() bool {
	for _, v := range s.Slots {
		if v.Phase != PhaseReady && v.Phase != PhaseEmpty {
			return false
		}
	}
	return true
}

// SlotOf returns the index of the slot showing card, or -1
func (s Snapshot) SlotOf(card deck.Card) int {
	for _, v := range s.Slots {
		if v.HasCard() && v.Card == card {
			return v.Index
		}
	}
	return -1
}
