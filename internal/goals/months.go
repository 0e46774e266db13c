package goals

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var longMonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Window holds the two selectable goal-setting windows relative to now:
// just the next month, or the next two months.
type Window struct {
	OneMonth  []string
	TwoMonths []string
}

// UpcomingMonths computes the goal windows starting at the month after now,
// rolling the year over at December.
func UpcomingMonths(now time.Time) Window {
	y1, m1 := now.Year(), int(now.Month())+1
	if m1 > 12 {
		m1 -= 12
		y1++
	}

	y2, m2 := y1, m1+1
	if m2 > 12 {
		m2 -= 12
		y2++
	}

	first := FormatYearMonth(y1, m1)
	second := FormatYearMonth(y2, m2)
	return Window{
		OneMonth:  []string{first},
		TwoMonths: []string{first, second},
	}
}

// FormatYearMonth renders a year/month pair as "YYYY-MM".
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ParseYearMonth splits a "YYYY-MM" string into its parts.
func ParseYearMonth(ym string) (year, month int, err error) {
	parts := strings.SplitN(ym, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed year-month %q", ym)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed year in %q", ym)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month in %q", ym)
	}
	return year, month, nil
}

// MonthLabel renders "YYYY-MM" as a human heading like "March 2025".
// Malformed input is passed through unchanged.
func MonthLabel(ym string) string {
	year, month, err := ParseYearMonth(ym)
	if err != nil {
		return ym
	}
	return fmt.Sprintf("%s %d", longMonthNames[month-1], year)
}
