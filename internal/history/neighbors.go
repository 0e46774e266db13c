package history

import (
	"math"
	"sort"

	lo "github.com/samber/lo"
)

var shortMonthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// NeighborEvent is a notable occurrence attached to a neighbor month.
type NeighborEvent struct {
	Name  string  `json:"name"`
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// NeighborMonth is the charting summary for one of the three months around a
// goal month. Avg is rounded for display and flattens "no history" to zero,
// unlike Compute which keeps absence distinct.
type NeighborMonth struct {
	Month      int             `json:"month"`
	MonthLabel string          `json:"monthLabel"`
	Avg        float64         `json:"avg"`
	Events     []NeighborEvent `json:"events"`
}

// WrapMonth normalizes a 1-indexed month with calendar wraparound:
// 0 becomes 12 and 13 becomes 1.
func WrapMonth(m int) int {
	return ((m-1)%12+12)%12 + 1
}

// Neighbors summarizes months {month-1, month, month+1} for the given keys.
// Each entry carries the rounded historical average (0 when no history) and
// that month's notable events, most recent years first. Events are not
// deduplicated here; see LatestPerName for the presentation-layer rule.
func Neighbors(rows []Row, events []Event, region, chapter, metricKey string, month int) [3]NeighborMonth {
	months := [3]int{WrapMonth(month - 1), month, WrapMonth(month + 1)}

	var out [3]NeighborMonth
	for i, m := range months {
		avg := 0.0
		if s := Compute(rows, region, chapter, metricKey, m); s != nil {
			avg = s.Avg
		}

		monthEvents := lo.FilterMap(events, func(e Event, _ int) (NeighborEvent, bool) {
			ok := e.Region == region &&
				e.Chapter == chapter &&
				e.MetricKey == metricKey &&
				e.Month == m
			return NeighborEvent{Name: e.EventName, Year: e.Year, Value: e.Value}, ok
		})
		sort.SliceStable(monthEvents, func(a, b int) bool {
			return monthEvents[a].Year > monthEvents[b].Year
		})

		out[i] = NeighborMonth{
			Month:      m,
			MonthLabel: shortMonthNames[m-1],
			Avg:        math.Round(avg),
			Events:     monthEvents,
		}
	}
	return out
}

// LatestPerName keeps only the most recent occurrence of each distinct event
// name. Input is expected sorted by year descending, as Neighbors produces.
func LatestPerName(events []NeighborEvent) []NeighborEvent {
	seen := make(map[string]bool, len(events))
	var out []NeighborEvent
	for _, e := range events {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out
}
