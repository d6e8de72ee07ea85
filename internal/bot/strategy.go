package bot

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/evaluator"
	"github.com/lox/setgame/internal/game"
)

// MoveKind is the action a strategy wants to take
type MoveKind uint8

const (
	MoveWait MoveKind = iota
	MoveSelect
	MoveUnselect
	MoveHint
	MoveDeal
)

func (k MoveKind) String() string {
	switch k {
	case MoveWait:
		return "wait"
	case MoveSelect:
		return "select"
	case MoveUnselect:
		return "unselect"
	case MoveHint:
		return "hint"
	case MoveDeal:
		return "deal"
	default:
		return "unknown"
	}
}

// Move is one step of play. Card is set for MoveSelect.
type Move struct {
	Kind MoveKind
	Card deck.Card
}

// Strategy picks the next move from a snapshot of the table
type Strategy interface {
	Name() string
	Next(s game.Snapshot) Move
}

// Strategies lists the names accepted by NewStrategy
var Strategies = []string{"solver", "random", "hinter"}

// NewStrategy creates a strategy by name
func NewStrategy(name string, rng *rand.Rand) (Strategy, error) {
	switch strings.ToLower(name) {
	case "solver":
		return Solver{}, nil
	case "random":
		if rng == nil {
			return nil, fmt.Errorf("random strategy needs an rng")
		}
		return NewRandom(rng), nil
	case "hinter":
		return Hinter{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(Strategies, ", "))
	}
}

// dealWhenStuck asks for a deal once the table has settled without a set
func dealWhenStuck(s game.Snapshot) Move {
	if s.State == game.StateJudging || !s.Settled() || s.Exhausted {
		return Move{Kind: MoveWait}
	}
	return Move{Kind: MoveDeal}
}

// Solver always plays the first set on the table
type Solver struct{}

func (Solver) Name() string { return "solver" }

func (Solver) Next(s game.Snapshot) Move {
	set, ok := evaluator.FirstSet(s.ReadyCards())
	if !ok {
		return dealWhenStuck(s)
	}
	return completeSet(s, set)
}

// completeSet drops a selection that is not part of set, then picks the
// missing cards one at a time
func completeSet(s game.Snapshot, set evaluator.Triple) Move {
	selected := s.Selected()
	for _, v := range selected {
		if !set.Contains(v.Card) {
			return Move{Kind: MoveUnselect}
		}
	}
	for _, card := range set {
		if i := s.SlotOf(card); i >= 0 && !s.Slots[i].Selected {
			return Move{Kind: MoveSelect, Card: card}
		}
	}
	return Move{Kind: MoveWait}
}

// Hinter pays for a hint before every card it picks
type Hinter struct{}

func (Hinter) Name() string { return "hinter" }

func (Hinter) Next(s game.Snapshot) Move {
	if s.State == game.StateJudging {
		return Move{Kind: MoveWait}
	}
	set, ok := evaluator.FirstSet(s.ReadyCards())
	if !ok {
		return dealWhenStuck(s)
	}
	// hints extend the current selection, so it has to be on the way
	if m := completeSet(s, set); m.Kind != MoveSelect {
		return m
	}
	return Move{Kind: MoveHint}
}
