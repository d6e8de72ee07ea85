package bot

import (
	rand "math/rand/v2"

	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/evaluator"
	"github.com/lox/setgame/internal/game"
)

// Random picks unselected ready cards uniformly at random. When stuck it
// deals one time in dealOdds.
type Random struct {
	rng      *rand.Rand
	dealOdds int
}

// NewRandom creates a random strategy
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng, dealOdds: 10}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Next(s game.Snapshot) Move {
	if s.State == game.StateJudging {
		return Move{Kind: MoveWait}
	}

	var candidates []deck.Card
	for _, v := range s.Slots {
		if v.Phase == game.PhaseReady && !v.Selected {
			candidates = append(candidates, v.Card)
		}
	}

	if s.Settled() && !evaluator.HasSet(s.ReadyCards()) && r.rng.IntN(r.dealOdds) == 0 {
		if m := dealWhenStuck(s); m.Kind == MoveDeal {
			return m
		}
	}
	if len(candidates) == 0 {
		return Move{Kind: MoveWait}
	}
	return Move{Kind: MoveSelect, Card: candidates[r.rng.IntN(len(candidates))]}
}
