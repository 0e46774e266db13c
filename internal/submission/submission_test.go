package submission

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"chapterops/internal/goals"
)

type fixedGen struct {
	id string
}

func (g fixedGen) NewID() string { return g.id }

func intPtr(v int) *int { return &v }

func samplePayload(t *testing.T) Payload {
	t.Helper()
	sheet := goals.GoalsByMonth{
		"2025-03": {
			{Key: "events", Label: "Events Held", GoalValue: intPtr(12), Reasons: []string{"Seasonality"}, Note: "spring push"},
			{Key: "new_teens", Label: "New Teens", Reasons: []string{}},
		},
	}
	now := time.Date(2025, time.February, 10, 15, 4, 0, 0, time.UTC)
	return BuildPayload("Midwest", "Chicago", "Jane", []string{"2025-03"}, sheet,
		fixedGen{id: "sub-0001"}, now, "1.0.0")
}

func TestBuildPayload(t *testing.T) {
	p := samplePayload(t)

	if p.SubmissionID != "sub-0001" {
		t.Errorf("Unexpected submission id %q", p.SubmissionID)
	}
	if p.CreatedAtIso != "2025-02-10T15:04:00Z" {
		t.Errorf("Unexpected createdAtIso %q", p.CreatedAtIso)
	}
	entries := p.MetricsByMonth["2025-03"]
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].GoalValue != 12 {
		t.Errorf("Expected goal 12, got %d", entries[0].GoalValue)
	}
	// Unset draft values are submitted as 0, with reasons normalized.
	if entries[1].GoalValue != 0 || entries[1].Reasons == nil {
		t.Errorf("Unexpected second entry: %+v", entries[1])
	}
}

func TestBlockLayout(t *testing.T) {
	p := samplePayload(t)
	block := Block(p)

	wantFragments := []string{
		"NCSY Monthly Goals Submission",
		"Region: Midwest",
		"Chapter: Chicago",
		"Staff: Jane",
		"Window: 2025-03",
		"March 2025",
		"  - Events Held: 12 (Reasons: Seasonality) (Note: spring push)",
		"  - New Teens: 0",
		techMarker,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(block, frag) {
			t.Errorf("Block missing %q", frag)
		}
	}

	// The tech section round-trips to the payload.
	parts := strings.SplitN(block, techMarker+"\n", 2)
	if len(parts) != 2 {
		t.Fatal("Tech marker not found")
	}
	var decoded Payload
	if err := json.Unmarshal([]byte(parts[1]), &decoded); err != nil {
		t.Fatalf("Tech JSON does not parse: %v", err)
	}
	if decoded.SubmissionID != p.SubmissionID || decoded.Staff != p.Staff {
		t.Errorf("Tech JSON mismatch: %+v", decoded)
	}
}

func TestHumanOnlyBlock(t *testing.T) {
	p := samplePayload(t)
	human := HumanOnly(p)
	if strings.Contains(human, techMarker) {
		t.Error("Human-only block must not contain the tech section")
	}
	if !strings.Contains(human, "(Full submission attached as .txt file)") {
		t.Error("Human-only block missing attachment note")
	}
}

func TestEmptyChapterRendersNone(t *testing.T) {
	p := samplePayload(t)
	p.Chapter = ""
	if !strings.Contains(Block(p), "Chapter: (none)") {
		t.Error("Empty chapter should render as (none)")
	}
	if !strings.Contains(ReceiptLine(p), "(none)") {
		t.Error("Receipt should render empty chapter as (none)")
	}
}

func TestReceiptLine(t *testing.T) {
	line := ReceiptLine(samplePayload(t))
	for _, frag := range []string{"2025-03", "Midwest", "Chicago", "Jane", "2 metrics"} {
		if !strings.Contains(line, frag) {
			t.Errorf("Receipt missing %q: %q", frag, line)
		}
	}
}

func TestBuildMailtoInlineBoundary(t *testing.T) {
	p := samplePayload(t)

	atLimit := strings.Repeat("a", InlineBodyLimit)
	m := BuildMailto(p, atLimit)
	if m.NeedsAttachment {
		t.Error("Exactly 1500 chars must inline the body")
	}
	if !strings.Contains(m.Href, "body="+strings.Repeat("a", 10)) {
		t.Errorf("Expected full block in body: %q", m.Href[:80])
	}

	overLimit := strings.Repeat("a", InlineBodyLimit+1)
	m = BuildMailto(p, overLimit)
	if !m.NeedsAttachment {
		t.Error("1501 chars must switch to the attachment form")
	}
	if strings.Contains(m.Href, strings.Repeat("a", 20)) {
		t.Error("Oversized block must not be inlined")
	}
}

func TestMailtoEscaping(t *testing.T) {
	p := samplePayload(t)
	m := BuildMailto(p, "short block")

	if !strings.HasPrefix(m.Href, "mailto:?subject=") {
		t.Errorf("Unexpected href prefix: %q", m.Href)
	}
	if strings.Contains(m.Href, "+") {
		t.Errorf("Spaces must be %%20, not +: %q", m.Href)
	}
	if !strings.Contains(m.Href, "Monthly%20Goals%202025-03") {
		t.Errorf("Subject not escaped as expected: %q", m.Href)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename("Jane D./Chicago (IL)"); got != "Jane_D__Chicago__IL_" {
		t.Errorf("Unexpected sanitization: %q", got)
	}
}

func TestFilename(t *testing.T) {
	p := samplePayload(t)
	if got := Filename(p); got != "goals_Jane_2025-03.txt" {
		t.Errorf("Unexpected filename: %q", got)
	}
}

func TestVerifyPayloadRoundTrip(t *testing.T) {
	p := samplePayload(t)
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	got, err := VerifyPayload(raw)
	if err != nil {
		t.Fatalf("VerifyPayload rejected a valid payload: %v", err)
	}
	if got.SubmissionID != p.SubmissionID {
		t.Errorf("Decoded payload mismatch: %+v", got)
	}
}

func TestVerifyPayloadRejectsGarbage(t *testing.T) {
	if _, err := VerifyPayload([]byte("not json")); err == nil {
		t.Error("Expected error for non-JSON input")
	}
	if _, err := VerifyPayload([]byte(`{"months": "not-a-list"}`)); err == nil {
		t.Error("Expected error for schema-violating input")
	}
}
