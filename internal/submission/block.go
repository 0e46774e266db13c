package submission

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"chapterops/internal/goals"
)

const techMarker = "---TECH (do not edit)---"

// Block renders the full submission: human-readable summary lines followed by
// the machine-readable JSON payload behind the tech marker.
func Block(p Payload) string {
	lines := headerLines(p)
	lines = append(lines, goalLines(p)...)
	lines = append(lines, techMarker)

	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		// Payload is plain data; this cannot realistically fail.
		payload = []byte("{}")
	}
	lines = append(lines, string(payload))

	return strings.Join(lines, "\n")
}

// HumanOnly renders the shortened, human-only form used when the full block
// is too large to inline in an email body.
func HumanOnly(p Payload) string {
	lines := headerLines(p)
	lines = append(lines, goalLines(p)...)
	lines = append(lines, "(Full submission attached as .txt file)")
	return strings.Join(lines, "\n")
}

// ReceiptLine is the one-line confirmation shown after a submission.
func ReceiptLine(p Payload) string {
	metricCount := 0
	if len(p.Months) > 0 {
		metricCount = len(p.MetricsByMonth[p.Months[0]])
	}
	return fmt.Sprintf("Goals submitted: %s | %s | %s | %s | %d metrics",
		strings.Join(p.Months, ", "), p.Region, chapterOrNone(p.Chapter), p.Staff, metricCount)
}

func headerLines(p Payload) []string {
	submitted := p.CreatedAtIso
	if t, err := time.Parse(time.RFC3339, p.CreatedAtIso); err == nil {
		submitted = t.Format("Jan 2, 2006 15:04 MST")
	}
	return []string{
		"NCSY Monthly Goals Submission",
		"Region: " + p.Region,
		"Chapter: " + chapterOrNone(p.Chapter),
		"Staff: " + p.Staff,
		"Window: " + strings.Join(p.Months, ", "),
		"Submitted: " + submitted,
		"",
	}
}

func goalLines(p Payload) []string {
	var lines []string
	for _, ym := range p.Months {
		lines = append(lines, goals.MonthLabel(ym))
		for _, m := range p.MetricsByMonth[ym] {
			line := fmt.Sprintf("  - %s: %d", m.Label, m.GoalValue)
			if len(m.Reasons) > 0 {
				line += fmt.Sprintf(" (Reasons: %s)", strings.Join(m.Reasons, ", "))
			}
			if m.Note != "" {
				line += fmt.Sprintf(" (Note: %s)", m.Note)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}
	return lines
}

func chapterOrNone(chapter string) string {
	if chapter == "" {
		return "(none)"
	}
	return chapter
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeFilename replaces everything outside [a-zA-Z0-9_-] with underscores.
func SanitizeFilename(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

// Filename derives the download filename for a submission.
func Filename(p Payload) string {
	return fmt.Sprintf("goals_%s_%s.txt",
		SanitizeFilename(p.Staff), SanitizeFilename(strings.Join(p.Months, "_")))
}
