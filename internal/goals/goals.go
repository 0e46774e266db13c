// Package goals models in-progress monthly goal selections and their
// locally persisted drafts.
package goals

import (
	"strings"

	"chapterops/internal/catalog"
)

// Goal is one metric's goal entry for a month. GoalValue is nil until the
// operator enters a number; nil and zero are different states.
type Goal struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	GoalValue *int     `json:"goalValue"`
	Reasons   []string `json:"reasons"`
	Note      string   `json:"note"`
}

// GoalsByMonth maps a "YYYY-MM" month to its ordered per-metric goal entries.
type GoalsByMonth map[string][]Goal

// Store is the persistence contract for drafts. Load returns nil (not an
// error) when no draft exists under the key.
type Store interface {
	LoadDraft(key string) (GoalsByMonth, error)
	SaveDraft(key string, g GoalsByMonth) error
	ClearDraft(key string) error
}

const draftPrefix = "draft_"

// DraftKey derives the deterministic draft slot for an identity and month
// window. Any change to region, chapter, staff or the ordered month list
// addresses a different slot; drafts are never merged.
func DraftKey(region, chapter, staff string, months []string) string {
	parts := append([]string{region, chapter, staff}, months...)
	return draftPrefix + strings.Join(parts, "_")
}

// Init builds a fresh goal sheet for the months, one empty entry per catalog
// metric in catalog order.
func Init(c *catalog.Catalog, months []string) GoalsByMonth {
	g := make(GoalsByMonth, len(months))
	for _, ym := range months {
		entries := make([]Goal, len(c.Metrics))
		for i, m := range c.Metrics {
			entries[i] = Goal{Key: m.Key, Label: m.Label, Reasons: []string{}}
		}
		g[ym] = entries
	}
	return g
}

// LoadOrInit returns the stored draft for the identity/window when one exists
// and is non-empty, otherwise a freshly initialized sheet.
func LoadOrInit(s Store, c *catalog.Catalog, region, chapter, staff string, months []string) (GoalsByMonth, error) {
	draft, err := s.LoadDraft(DraftKey(region, chapter, staff, months))
	if err != nil {
		return nil, err
	}
	if len(draft) > 0 {
		return draft, nil
	}
	return Init(c, months), nil
}
