package game

import (
	"sync"
	"time"

	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/evaluator"
)

// EventType identifies a game event
type EventType string

const (
	EventTypeCue        EventType = "cue"
	EventTypeSlot       EventType = "slot"
	EventTypeSetFound   EventType = "set_found"
	EventTypeSetFailed  EventType = "set_failed"
	EventTypeHint       EventType = "hint"
	EventTypeReDeal     EventType = "re_deal"
	EventTypeCardsAdded EventType = "cards_added"
	EventTypeTick       EventType = "tick"
	EventTypeGameOver   EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything a controller publishes to its collaborators
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// Cue is a discrete sound cue. Collaborators may play or ignore it.
type Cue string

const (
	CueTick    Cue = "tick"
	CueSelect  Cue = "select"
	CueSuccess Cue = "success"
	CueError   Cue = "error"
	CueShuffle Cue = "shuffle"
	CueDeal    Cue = "deal"
)

// CueEvent asks the audio collaborator to play a cue
type CueEvent struct {
	Cue       Cue
	timestamp time.Time
}

func (e CueEvent) EventType() EventType { return EventTypeCue }
func (e CueEvent) Timestamp() time.Time { return e.timestamp }

// SlotEvent is published whenever a slot changes phase, card or flags
type SlotEvent struct {
	Slot      SlotView
	timestamp time.Time
}

func (e SlotEvent) EventType() EventType { return EventTypeSlot }
func (e SlotEvent) Timestamp() time.Time { return e.timestamp }

// SetFoundEvent is published when three selected cards form a set
type SetFoundEvent struct {
	Set       evaluator.Triple
	SetCount  int
	Meter     int
	timestamp time.Time
}

func (e SetFoundEvent) EventType() EventType { return EventTypeSetFound }
func (e SetFoundEvent) Timestamp() time.Time { return e.timestamp }

// SetFailedEvent is published when three selected cards are not a set
type SetFailedEvent struct {
	Cards          evaluator.Triple
	FailedAttempts int
	Meter          int
	timestamp      time.Time
}

func (e SetFailedEvent) EventType() EventType { return EventTypeSetFailed }
func (e SetFailedEvent) Timestamp() time.Time { return e.timestamp }

// HintEvent reports the outcome of a hint. Slot is -1 when no set exists.
type HintEvent struct {
	Found     bool
	Card      deck.Card
	Slot      int
	Meter     int
	timestamp time.Time
}

func (e HintEvent) EventType() EventType { return EventTypeHint }
func (e HintEvent) Timestamp() time.Time { return e.timestamp }

// ReDealEvent is published when a re-deal begins
type ReDealEvent struct {
	Penalized bool // a set was available
	Meter     int
	timestamp time.Time
}

func (e ReDealEvent) EventType() EventType { return EventTypeReDeal }
func (e ReDealEvent) Timestamp() time.Time { return e.timestamp }

// CardsAddedEvent reports a request for more cards in the classic variant
type CardsAddedEvent struct {
	Cards     []deck.Card
	Refused   bool // a set was still on the table
	timestamp time.Time
}

func (e CardsAddedEvent) EventType() EventType { return EventTypeCardsAdded }
func (e CardsAddedEvent) Timestamp() time.Time { return e.timestamp }

// TickEvent is published on every meter tick
type TickEvent struct {
	Elapsed   int
	Meter     int
	timestamp time.Time
}

func (e TickEvent) EventType() EventType { return EventTypeTick }
func (e TickEvent) Timestamp() time.Time { return e.timestamp }

// GameOverEvent is published exactly once, when the meter runs out
type GameOverEvent struct {
	Result    Result
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives published events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event Event)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus fans events out to subscribers in subscription order
type EventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[int]EventSubscriber)}
}

// Subscribe registers a subscriber and returns a function that removes it
func (bus *EventBus) Subscribe(subscriber EventSubscriber) (unsubscribe func()) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			bus.mu.Lock()
			defer bus.mu.Unlock()
			delete(bus.subscribers, id)
			for i, sid := range bus.order {
				if sid == id {
					bus.order = append(bus.order[:i], bus.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers events to every subscriber on the calling goroutine
func (bus *EventBus) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	bus.mu.RLock()
	subscribers := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subscribers = append(subscribers, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, event := range events {
		for _, subscriber := range subscribers {
			subscriber.OnEvent(event)
		}
	}
}
