package statistics

import (
	"fmt"
	"math"
	"sort"
)

// SessionResult represents the outcome of a single simulated session
type SessionResult struct {
	Seed           int64  `json:"seed"` // RNG seed for this session (for replay)
	SessionID      string `json:"session_id"`
	Strategy       string `json:"strategy"`
	SetCount       int    `json:"sets"`
	FailedAttempts int    `json:"failed_attempts"`
	Elapsed        int    `json:"elapsed"` // ticks survived
	Discarded      int    `json:"discarded"`
	Retiring       int    `json:"retiring"`  // found cards still on the table when the session ended
	DeckSize       int    `json:"deck_size"` // cards left when the session ended
	GameOver       bool   `json:"game_over"`
	Exhausted      bool   `json:"exhausted"` // ran out of sets and cards
}

// Metric accumulates one numeric series
type Metric struct {
	N      int       `json:"n"`
	Sum    float64   `json:"sum"`
	Sum2   float64   `json:"-"` // Sum of squares for variance calculation
	Values []float64 `json:"-"` // All values for median/percentile calculation
}

// Add records a value
func (m *Metric) Add(v float64) {
	m.N++
	m.Sum += v
	m.Sum2 += v * v
	m.Values = append(m.Values, v)
}

// Mean returns the arithmetic mean
func (m *Metric) Mean() float64 {
	if m.N == 0 {
		return 0
	}
	return m.Sum / float64(m.N)
}

// Variance returns the sample variance
func (m *Metric) Variance() float64 {
	if m.N < 2 {
		return 0
	}
	mean := m.Mean()
	return (m.Sum2 - float64(m.N)*mean*mean) / float64(m.N-1)
}

// StdDev returns the sample standard deviation
func (m *Metric) StdDev() float64 {
	return math.Sqrt(math.Max(m.Variance(), 0))
}

// StdError returns the standard error of the mean
func (m *Metric) StdError() float64 {
	if m.N == 0 {
		return 0
	}
	return m.StdDev() / math.Sqrt(float64(m.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (m *Metric) ConfidenceInterval95() (float64, float64) {
	mean := m.Mean()
	margin := 1.96 * m.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value
func (m *Metric) Median() float64 {
	return m.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0),
// interpolating between neighbours
func (m *Metric) Percentile(p float64) float64 {
	if len(m.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(m.Values))
	copy(sorted, m.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Statistics tracks results over many sessions
type Statistics struct {
	Sessions  int
	GameOvers int
	Exhausted int

	Sets    Metric // sets found per session
	Failed  Metric // failed attempts per session
	Elapsed Metric // ticks survived per session

	TotalSets      int
	TotalDiscarded int
	TotalRetiring  int
	BestSets       int
	BestSeed       int64
}

// Add incorporates a session result into the statistics
func (s *Statistics) Add(result SessionResult) {
	s.Sessions++
	if result.GameOver {
		s.GameOvers++
	}
	if result.Exhausted {
		s.Exhausted++
	}

	s.Sets.Add(float64(result.SetCount))
	s.Failed.Add(float64(result.FailedAttempts))
	s.Elapsed.Add(float64(result.Elapsed))

	s.TotalSets += result.SetCount
	s.TotalDiscarded += result.Discarded
	s.TotalRetiring += result.Retiring

	if s.Sessions == 1 || result.SetCount > s.BestSets {
		s.BestSets = result.SetCount
		s.BestSeed = result.Seed
	}
}

// SetsPerMinute returns the average rate of found sets, given the tick
// length in seconds
func (s *Statistics) SetsPerMinute(tickSeconds float64) float64 {
	if s.Elapsed.Sum == 0 || tickSeconds <= 0 {
		return 0
	}
	return float64(s.TotalSets) / (s.Elapsed.Sum * tickSeconds / 60)
}

// IsLedgerBalanced checks that every found set retired exactly three cards.
// Cards still leaving the table when a session ended count as retired.
func (s *Statistics) IsLedgerBalanced() bool {
	return s.TotalDiscarded+s.TotalRetiring == 3*s.TotalSets
}

// Validate performs consistency checks over the collected data
func (s *Statistics) Validate() error {
	if s.Sessions <= 0 {
		return fmt.Errorf("invalid sessions count: %d", s.Sessions)
	}

	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: %d sets but %d cards discarded and %d retiring", s.TotalSets, s.TotalDiscarded, s.TotalRetiring)
	}

	for name, m := range map[string]*Metric{"sets": &s.Sets, "failed": &s.Failed, "elapsed": &s.Elapsed} {
		if m.N != s.Sessions || len(m.Values) != s.Sessions {
			return fmt.Errorf("%s series length (%d) does not match sessions count (%d)", name, m.N, s.Sessions)
		}
	}

	if s.GameOvers > s.Sessions {
		return fmt.Errorf("game overs (%d) exceed sessions (%d)", s.GameOvers, s.Sessions)
	}

	return nil
}
