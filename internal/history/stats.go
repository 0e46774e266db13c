package history

import (
	"math"

	lo "github.com/samber/lo"
)

// Variability is a three-level qualitative label summarizing year-to-year
// spread of a metric for a given month.
type Variability string

const (
	Consistent Variability = "consistent"
	Mixed      Variability = "mixed"
	Volatile   Variability = "volatile"
)

// Stats summarizes the historical values observed for one
// (region, chapter, metric, month) combination across years.
type Stats struct {
	Avg         float64     `json:"avg"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Stdev       float64     `json:"stdev"`
	CountYears  int         `json:"countYears"`
	Variability Variability `json:"variability"`
	Values      []float64   `json:"values"`
}

// Compute derives Stats for the rows matching all four keys exactly
// (case-sensitive strings, exact month integer). It returns nil when no row
// matches: absence of history is a first-class result, distinct from a zero
// average. NaN values produced by the forgiving parser are excluded from the
// aggregates.
func Compute(rows []Row, region, chapter, metricKey string, month int) *Stats {
	matched := lo.Filter(rows, func(r Row, _ int) bool {
		return r.Region == region &&
			r.Chapter == chapter &&
			r.MetricKey == metricKey &&
			r.Month == month
	})

	values := lo.FilterMap(matched, func(r Row, _ int) (float64, bool) {
		return r.Value, !math.IsNaN(r.Value)
	})
	if len(values) == 0 {
		return nil
	}

	n := float64(len(values))
	sum := lo.Sum(values)
	avg := sum / n

	min := values[0]
	max := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Population standard deviation (divide by N, not N-1): the values are
	// the full set of observed years, not a sample to infer from.
	variance := 0.0
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	variance /= n
	stdev := math.Sqrt(variance)

	return &Stats{
		Avg:         avg,
		Min:         min,
		Max:         max,
		Stdev:       stdev,
		CountYears:  len(values),
		Variability: classify(avg, min, max, stdev),
		Values:      values,
	}
}

// classify applies the dual variability rule. With a positive average the
// coefficient of variation (stdev/avg) is used; with a zero (or negative)
// average the absolute range stands in, avoiding the division by zero.
// Boundaries are strict less-than on the consistent/mixed side.
func classify(avg, min, max, stdev float64) Variability {
	if avg > 0 {
		cv := stdev / avg
		switch {
		case cv < 0.15:
			return Consistent
		case cv < 0.35:
			return Mixed
		default:
			return Volatile
		}
	}

	rng := max - min
	switch {
	case rng <= 1:
		return Consistent
	case rng <= 3:
		return Mixed
	default:
		return Volatile
	}
}

// RoundGoal converts a historical average into a suggested integer goal.
func RoundGoal(avg float64) int {
	return int(math.Round(avg))
}
