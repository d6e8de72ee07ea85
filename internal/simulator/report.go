package simulator

import (
	"github.com/lox/setgame/internal/statistics"
)

// Summary describes one metric across sessions
type Summary struct {
	Mean   float64    `json:"mean"`
	StdDev float64    `json:"stddev"`
	Median float64    `json:"median"`
	P10    float64    `json:"p10"`
	P90    float64    `json:"p90"`
	CI95   [2]float64 `json:"ci95"`
}

func summarize(m *statistics.Metric) Summary {
	lo, hi := m.ConfidenceInterval95()
	return Summary{
		Mean:   m.Mean(),
		StdDev: m.StdDev(),
		Median: m.Median(),
		P10:    m.Percentile(0.1),
		P90:    m.Percentile(0.9),
		CI95:   [2]float64{lo, hi},
	}
}

// Report is the JSON document written by `setgame simulate --output`
type Report struct {
	Variant   string  `json:"variant"`
	Strategy  string  `json:"strategy"`
	Seed      int64   `json:"seed"`
	Sessions  int     `json:"sessions"`
	TimeScale float64 `json:"time_scale"`

	Sets    Summary `json:"sets"`
	Failed  Summary `json:"failed_attempts"`
	Elapsed Summary `json:"elapsed"`

	GameOvers int   `json:"game_overs"`
	Exhausted int   `json:"exhausted"`
	BestSets  int   `json:"best_sets"`
	BestSeed  int64 `json:"best_seed"`

	Results []statistics.SessionResult `json:"results,omitempty"`
}

// NewReport builds a report from a finished run
func NewReport(config Config, stats *statistics.Statistics, results []statistics.SessionResult) Report {
	return Report{
		Variant:   string(config.Variant),
		Strategy:  config.Strategy,
		Seed:      config.Seed,
		Sessions:  stats.Sessions,
		TimeScale: config.TimeScale,
		Sets:      summarize(&stats.Sets),
		Failed:    summarize(&stats.Failed),
		Elapsed:   summarize(&stats.Elapsed),
		GameOvers: stats.GameOvers,
		Exhausted: stats.Exhausted,
		BestSets:  stats.BestSets,
		BestSeed:  stats.BestSeed,
		Results:   results,
	}
}

// Config returns the effective configuration after defaults
func (s *Simulator) Config() Config {
	return s.config
}
