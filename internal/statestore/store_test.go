package statestore

import (
	"path/filepath"
	"testing"

	"chapterops/internal/goals"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func sampleSheet() goals.GoalsByMonth {
	return goals.GoalsByMonth{
		"2025-03": {
			{Key: "events", Label: "Events Held", GoalValue: intPtr(12), Reasons: []string{"Seasonality"}, Note: "spring push"},
			{Key: "new_teens", Label: "New Teens", Reasons: []string{}},
		},
		"2025-04": {
			{Key: "events", Label: "Events Held", GoalValue: intPtr(8), Reasons: []string{}},
		},
	}
}

func TestDraftRoundTrip(t *testing.T) {
	s := openTestStore(t)
	key := goals.DraftKey("Midwest", "Chicago", "Jane", []string{"2025-03", "2025-04"})

	if err := s.SaveDraft(key, sampleSheet()); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	got, err := s.LoadDraft(key)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected draft, got nil")
	}

	march := got["2025-03"]
	if len(march) != 2 {
		t.Fatalf("Expected 2 march entries, got %d", len(march))
	}
	if march[0].GoalValue == nil || *march[0].GoalValue != 12 {
		t.Errorf("Expected goal 12, got %v", march[0].GoalValue)
	}
	if march[0].Note != "spring push" || len(march[0].Reasons) != 1 {
		t.Errorf("Unexpected entry: %+v", march[0])
	}
	if march[1].GoalValue != nil {
		t.Errorf("Unset goal must stay nil, got %v", *march[1].GoalValue)
	}
}

func TestDraftKeysDoNotCrossContaminate(t *testing.T) {
	s := openTestStore(t)
	months := []string{"2025-03", "2025-04"}

	janeKey := goals.DraftKey("Midwest", "Chicago", "Jane", months)
	if err := s.SaveDraft(janeKey, sampleSheet()); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	otherKeys := []string{
		goals.DraftKey("Midwest", "Chicago", "Joe", months),
		goals.DraftKey("Midwest", "Detroit", "Jane", months),
		goals.DraftKey("Midwest", "Chicago", "Jane", []string{"2025-04"}),
	}
	for _, key := range otherKeys {
		got, err := s.LoadDraft(key)
		if err != nil {
			t.Fatalf("LoadDraft(%q) failed: %v", key, err)
		}
		if got != nil {
			t.Errorf("Key %q must not see Jane's draft", key)
		}
	}

	// Switching back recovers the original draft.
	got, err := s.LoadDraft(janeKey)
	if err != nil || got == nil {
		t.Fatalf("Expected Jane's draft back, got %v, %v", got, err)
	}
}

func TestDraftOverwriteAndClear(t *testing.T) {
	s := openTestStore(t)
	key := goals.DraftKey("Midwest", "Chicago", "Jane", []string{"2025-03"})

	if err := s.SaveDraft(key, sampleSheet()); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	replacement := goals.GoalsByMonth{"2025-03": {{Key: "events", Label: "Events Held", GoalValue: intPtr(99)}}}
	if err := s.SaveDraft(key, replacement); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	got, err := s.LoadDraft(key)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}
	if *got["2025-03"][0].GoalValue != 99 {
		t.Errorf("Expected overwritten draft, got %+v", got)
	}

	if err := s.ClearDraft(key); err != nil {
		t.Fatalf("ClearDraft failed: %v", err)
	}
	if got, _ := s.LoadDraft(key); got != nil {
		t.Error("Expected nil after clear")
	}
	// Clearing again is fine.
	if err := s.ClearDraft(key); err != nil {
		t.Errorf("Clearing a missing draft errored: %v", err)
	}
}

func TestLastBatchID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.LastBatchID()
	if err != nil {
		t.Fatalf("LastBatchID failed: %v", err)
	}
	if id != "" {
		t.Errorf("Expected empty id initially, got %q", id)
	}

	if err := s.SetLastBatchID("abc-123"); err != nil {
		t.Fatalf("SetLastBatchID failed: %v", err)
	}
	if id, _ := s.LastBatchID(); id != "abc-123" {
		t.Errorf("Expected abc-123, got %q", id)
	}

	if err := s.SetLastBatchID(""); err != nil {
		t.Fatalf("Clearing failed: %v", err)
	}
	if id, _ := s.LastBatchID(); id != "" {
		t.Errorf("Expected cleared id, got %q", id)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)

	p, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p != nil {
		t.Errorf("Expected nil profile initially, got %+v", p)
	}

	if err := s.SaveProfile(Profile{StaffName: "Jane", LastRegion: "Midwest", LastChapter: "Chicago"}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := s.SaveProfile(Profile{StaffName: "Jane", LastRegion: "Midwest", LastChapter: "Detroit"}); err != nil {
		t.Fatalf("Second SaveProfile failed: %v", err)
	}

	p, err = s.LoadProfile()
	if err != nil || p == nil {
		t.Fatalf("Expected profile, got %v, %v", p, err)
	}
	if p.LastChapter != "Detroit" {
		t.Errorf("Expected latest profile to win, got %+v", p)
	}
}
