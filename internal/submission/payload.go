// Package submission builds the deliverable for a finished goal sheet: a
// human-readable block with a machine-readable JSON payload, deliverable via
// clipboard, file download or a mailto link.
package submission

import (
	"time"

	"chapterops/internal/batch"
	"chapterops/internal/goals"
)

// MetricGoal is one submitted metric goal. Unlike the draft, GoalValue is
// concrete: an unset draft value is submitted as 0.
type MetricGoal struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	GoalValue int      `json:"goalValue"`
	Reasons   []string `json:"reasons"`
	Note      string   `json:"note"`
}

// Payload is the machine-readable submission record embedded in the block.
type Payload struct {
	SubmissionID   string                  `json:"submissionId"`
	CreatedAtIso   string                  `json:"createdAtIso"`
	Region         string                  `json:"region"`
	Chapter        string                  `json:"chapter"`
	Staff          string                  `json:"staff"`
	Months         []string                `json:"months"`
	MetricsByMonth map[string][]MetricGoal `json:"metricsByMonth"`
	AppVersion     string                  `json:"appVersion"`
}

// BuildPayload freezes the goal sheet into a submission payload with a fresh
// submission id and timestamp.
func BuildPayload(region, chapter, staff string, months []string, sheet goals.GoalsByMonth,
	ids batch.IDGenerator, now time.Time, appVersion string) Payload {

	metricsByMonth := make(map[string][]MetricGoal, len(months))
	for _, ym := range months {
		entries := sheet[ym]
		out := make([]MetricGoal, len(entries))
		for i, g := range entries {
			value := 0
			if g.GoalValue != nil {
				value = *g.GoalValue
			}
			reasons := g.Reasons
			if reasons == nil {
				reasons = []string{}
			}
			out[i] = MetricGoal{
				Key:       g.Key,
				Label:     g.Label,
				GoalValue: value,
				Reasons:   reasons,
				Note:      g.Note,
			}
		}
		metricsByMonth[ym] = out
	}

	return Payload{
		SubmissionID:   ids.NewID(),
		CreatedAtIso:   now.UTC().Format(time.RFC3339),
		Region:         region,
		Chapter:        chapter,
		Staff:          staff,
		Months:         months,
		MetricsByMonth: metricsByMonth,
		AppVersion:     appVersion,
	}
}
