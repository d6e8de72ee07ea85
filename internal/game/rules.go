package game

import (
	"fmt"
	"strings"
	"time"
)

// Fixed scoring rules of the timed session
const (
	StartingMeter  = 100
	TableCapacity  = 12
	SetReward      = 20
	FailurePenalty = 20
	HintPenalty    = 10
	ReDealPenalty  = 20
	DealMoreCount  = 3
)

// Timings holds every delay a timed session uses. Only the tick changes
// the rules of play; the rest stage the table for the renderer.
type Timings struct {
	Tick          time.Duration // meter drains one point per tick
	JudgeDelay    time.Duration // grace between the third selection and judging
	DealStagger   time.Duration // between slots on the initial deal
	SetStagger    time.Duration // between the three cards of a found set
	ReDealStagger time.Duration // between slots on a re-deal
	RemoveDelay   time.Duration // card marked removed until the slot clears
	RefillDelay   time.Duration // slot cleared until a new card is drawn
	PlaceDelay    time.Duration // new card drawn until its placed flag is set
}

// DefaultTimings returns the timings of the interactive game
func DefaultTimings() Timings {
	return Timings{
		Tick:          time.Second,
		JudgeDelay:    500 * time.Millisecond,
		DealStagger:   100 * time.Millisecond,
		SetStagger:    500 * time.Millisecond,
		ReDealStagger: 150 * time.Millisecond,
		RemoveDelay:   500 * time.Millisecond,
		RefillDelay:   500 * time.Millisecond,
		PlaceDelay:    500 * time.Millisecond,
	}
}

// Scale multiplies every delay by f. Simulations use it to play whole
// sessions in a fraction of the time.
func (t Timings) Scale(f float64) Timings {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * f)
	}
	return Timings{
		Tick:          scale(t.Tick),
		JudgeDelay:    scale(t.JudgeDelay),
		DealStagger:   scale(t.DealStagger),
		SetStagger:    scale(t.SetStagger),
		ReDealStagger: scale(t.ReDealStagger),
		RemoveDelay:   scale(t.RemoveDelay),
		RefillDelay:   scale(t.RefillDelay),
		PlaceDelay:    scale(t.PlaceDelay),
	}
}

// Validate checks that the tick is positive and no delay is negative
func (t Timings) Validate() error {
	if t.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", t.Tick)
	}
	for name, d := range map[string]time.Duration{
		"judge delay":     t.JudgeDelay,
		"deal stagger":    t.DealStagger,
		"set stagger":     t.SetStagger,
		"re-deal stagger": t.ReDealStagger,
		"remove delay":    t.RemoveDelay,
		"refill delay":    t.RefillDelay,
		"place delay":     t.PlaceDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, d)
		}
	}
	return nil
}

// Variant selects which controller runs a session
type Variant string

const (
	VariantTimed   Variant = "timed"
	VariantClassic Variant = "classic"
)

// ParseVariant parses a variant name
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantTimed, VariantClassic:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variant %q (want %q or %q)", s, VariantTimed, VariantClassic)
	}
}

// State is the controller's position in the session state machine
type State uint8

const (
	StateIdle State = iota
	StateDealing
	StateJudging
	StateGameOver
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDealing:
		return "dealing"
	case StateJudging:
		return "judging"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}
