package history

import (
	"math"
	"strconv"
	"strings"
)

// The runtime parser is deliberately forgiving: the first line is assumed to be
// a header and discarded without validation, short rows are skipped silently,
// and unparsable numbers become NaN sentinels that flow into the statistics
// layer instead of aborting the load. Strict, fail-the-batch validation lives
// in internal/validate.
//
// Fields are split on literal commas with no quoting support. A comma inside a
// free-text field (e.g. an event name) is not handled.

const (
	historyFieldCount = 6
	eventFieldCount   = 7
)

// ParseHistory parses raw CSV text into history rows.
// Layout: region,chapter,metric_key,year,month,value.
func ParseHistory(text string) []Row {
	var rows []Row
	for _, parts := range dataLines(text, historyFieldCount) {
		rows = append(rows, Row{
			Region:    parts[0],
			Chapter:   parts[1],
			MetricKey: parts[2],
			Year:      parseIntField(parts[3]),
			Month:     parseIntField(parts[4]),
			Value:     parseFloatField(parts[5]),
		})
	}
	return rows
}

// ParseEvents parses raw CSV text into event rows.
// Layout: region,chapter,year,month,event_name,metric_key,value.
func ParseEvents(text string) []Event {
	var events []Event
	for _, parts := range dataLines(text, eventFieldCount) {
		events = append(events, Event{
			Region:    parts[0],
			Chapter:   parts[1],
			Year:      parseIntField(parts[2]),
			Month:     parseIntField(parts[3]),
			EventName: parts[4],
			MetricKey: parts[5],
			Value:     parseFloatField(parts[6]),
		})
	}
	return events
}

// dataLines strips the header line, skips blanks and short rows, and returns
// the trimmed fields of every usable data line.
func dataLines(text string, minFields int) [][]string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	var out [][]string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < minFields {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		out = append(out, parts)
	}
	return out
}

func parseIntField(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		// 0 is outside the 1-12 month range and outside any plausible year,
		// so a malformed row can never satisfy an exact-match filter.
		return 0
	}
	return v
}

func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
