// Package validate is the strict counterpart of the forgiving runtime parser:
// it enforces the history CSV contract ahead of deployment and fails the whole
// batch when any row is invalid.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"chapterops/internal/history"

	lo "github.com/samber/lo"
)

var requiredColumns = []string{"region", "chapter", "metric_key", "year", "month", "value"}

const (
	minYear = 2000
	maxYear = 2100
)

// Report is the outcome of validating a history CSV. Rows holds every data
// row (including ones that produced errors); callers must treat Rows as
// meaningful only when Errors is empty.
type Report struct {
	Rows   []history.Row
	Errors []string
}

// History validates raw CSV text against the required header and per-row
// type/range constraints. Structural problems (no data, missing columns) are
// returned as an error; per-row problems are collected in the report, one
// entry per violation, so an operator sees everything wrong at once.
// Line numbers in messages are 1-based and count the header line.
func History(raw string, allowedMetrics []string) (*Report, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	header := lo.Map(strings.Split(lines[0], ","), func(h string, _ int) string {
		return strings.TrimSpace(h)
	})
	for _, col := range requiredColumns {
		if !lo.Contains(header, col) {
			return nil, fmt.Errorf("missing column %q, found: %s", col, strings.Join(header, ", "))
		}
	}

	rep := &Report{}
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lineNo := i + 1

		parts := strings.Split(line, ",")
		if len(parts) != len(requiredColumns) {
			rep.fail(lineNo, "expected %d columns, got %d", len(requiredColumns), len(parts))
			continue
		}
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}

		region := parts[0]
		chapter := parts[1]
		metricKey := parts[2]

		if region == "" {
			rep.fail(lineNo, "empty region")
		}
		if metricKey == "" {
			rep.fail(lineNo, "empty metric_key")
		}
		if !lo.Contains(allowedMetrics, metricKey) {
			rep.fail(lineNo, "invalid metric_key %q, valid: %s", metricKey, strings.Join(allowedMetrics, ", "))
		}

		year, err := strconv.Atoi(parts[3])
		if err != nil || year < minYear || year > maxYear {
			rep.fail(lineNo, "invalid year %q", parts[3])
		}
		month, err := strconv.Atoi(parts[4])
		if err != nil || month < 1 || month > 12 {
			rep.fail(lineNo, "invalid month %q", parts[4])
		}
		value, err := strconv.ParseFloat(parts[5], 64)
		if err != nil {
			rep.fail(lineNo, "invalid value %q", parts[5])
		}

		rep.Rows = append(rep.Rows, history.Row{
			Region:    region,
			Chapter:   chapter,
			MetricKey: metricKey,
			Year:      year,
			Month:     month,
			Value:     value,
		})
	}

	return rep, nil
}

func (r *Report) fail(line int, format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("Row %d: %s", line, fmt.Sprintf(format, args...)))
}

// Regions returns the distinct regions in the validated rows, sorted.
func (r *Report) Regions() []string {
	return sortedUnique(lo.Map(r.Rows, func(row history.Row, _ int) string {
		return row.Region
	}))
}

// Chapters returns the distinct region/chapter pairs, sorted.
func (r *Report) Chapters() []string {
	return sortedUnique(lo.Map(r.Rows, func(row history.Row, _ int) string {
		return row.Region + "/" + row.Chapter
	}))
}

// Metrics returns the distinct metric keys, sorted.
func (r *Report) Metrics() []string {
	return sortedUnique(lo.Map(r.Rows, func(row history.Row, _ int) string {
		return row.MetricKey
	}))
}

func sortedUnique(values []string) []string {
	out := lo.Uniq(values)
	sort.Strings(out)
	return out
}
