package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Comparison is the outcome of a Welch t-test between two series
type Comparison struct {
	Difference float64 `json:"difference"` // mean(a) - mean(b)
	StdError   float64 `json:"std_error"`
	TStatistic float64 `json:"t"`
	DF         int     `json:"df"`
	PValue     float64 `json:"p_value"`
	EffectSize float64 `json:"effect_size"` // Cohen's d
	CI95Low    float64 `json:"ci95_low"`
	CI95High   float64 `json:"ci95_high"`
}

// Compare tests whether the means of a and b differ
func Compare(a, b *Metric) Comparison {
	difference := a.Mean() - b.Mean()

	effectSize := 0.0
	if pooled := pooledStdDev(a.StdDev(), a.N, b.StdDev(), b.N); pooled > 0 {
		effectSize = difference / pooled
	}

	se1, se2 := a.StdError(), b.StdError()
	se := math.Sqrt(se1*se1 + se2*se2)

	tStat := 0.0
	if se > 0 {
		tStat = difference / se
	}

	df := welchDF(a.StdDev(), a.N, b.StdDev(), b.N)
	margin := studentsT(df).Quantile(0.975) * se

	return Comparison{
		Difference: difference,
		StdError:   se,
		TStatistic: tStat,
		DF:         df,
		PValue:     pValue(tStat, df),
		EffectSize: effectSize,
		CI95Low:    difference - margin,
		CI95High:   difference + margin,
	}
}

// Significant reports whether the difference is significant at alpha
func (c Comparison) Significant(alpha float64) bool {
	return c.PValue < alpha
}

func studentsT(df int) distuv.StudentsT {
	return distuv.StudentsT{Nu: float64(df), Mu: 0, Sigma: 1}
}

func pooledStdDev(sd1 float64, n1 int, sd2 float64, n2 int) float64 {
	if n1+n2 <= 2 {
		return 0
	}
	pooledVar := (float64(n1-1)*sd1*sd1 + float64(n2-1)*sd2*sd2) / float64(n1+n2-2)
	return math.Sqrt(pooledVar)
}

// welchDF approximates the degrees of freedom for unequal variances
func welchDF(sd1 float64, n1 int, sd2 float64, n2 int) int {
	if n1 <= 1 || n2 <= 1 {
		return 1
	}

	v1 := sd1 * sd1 / float64(n1)
	v2 := sd2 * sd2 / float64(n2)

	denominator := (v1*v1)/float64(n1-1) + (v2*v2)/float64(n2-1)
	if denominator == 0 {
		return n1 + n2 - 2
	}
	return max(int(math.Floor((v1+v2)*(v1+v2)/denominator)), 1)
}

// pValue is the two-tailed P(|T| > |t|)
func pValue(tStat float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	if math.IsInf(tStat, 0) {
		return 0
	}
	p := 2 * (1 - studentsT(df).CDF(math.Abs(tStat)))
	return math.Min(math.Max(p, 0), 1)
}

// InterpretEffectSize returns a human-readable interpretation of Cohen's d
func InterpretEffectSize(d float64) string {
	switch absd := math.Abs(d); {
	case absd < 0.2:
		return "negligible"
	case absd < 0.5:
		return "small"
	case absd < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// InterpretPValue returns a human-readable interpretation of a p-value
func InterpretPValue(p float64, alpha float64) string {
	switch {
	case p < 0.001:
		return "highly significant"
	case p < 0.01:
		return "very significant"
	case p < alpha:
		return "significant"
	case p < 0.10:
		return "marginally significant"
	default:
		return "not significant"
	}
}
