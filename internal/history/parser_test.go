package history

import (
	"math"
	"testing"
)

func TestParseHistorySkipsHeaderBlanksAndShortRows(t *testing.T) {
	text := `region,chapter,metric_key,year,month,value
Midwest,Chicago,events,2023,3,12

Midwest,Chicago,events,2024
Midwest,Chicago,events,2024,3,14
`
	rows := ParseHistory(text)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Year != 2023 || rows[0].Value != 12 {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[1].Year != 2024 || rows[1].Value != 14 {
		t.Errorf("Unexpected second row: %+v", rows[1])
	}
}

func TestParseHistoryHeaderIsDiscardedUnvalidated(t *testing.T) {
	// The first line is dropped even when it looks like data.
	text := "Midwest,Chicago,events,2023,3,12\nMidwest,Chicago,events,2024,3,14\n"
	rows := ParseHistory(text)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Year != 2024 {
		t.Errorf("Expected the second line to survive, got %+v", rows[0])
	}
}

func TestParseHistoryUnparsableValueBecomesNaN(t *testing.T) {
	text := "h\nMidwest,Chicago,events,2023,3,oops\n"
	rows := ParseHistory(text)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if !math.IsNaN(rows[0].Value) {
		t.Errorf("Expected NaN sentinel, got %v", rows[0].Value)
	}
}

func TestParseHistoryTrimsFields(t *testing.T) {
	text := "h\n Midwest , Chicago , events , 2023 , 3 , 12 \n"
	rows := ParseHistory(text)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Region != "Midwest" || r.Chapter != "Chicago" || r.MetricKey != "events" {
		t.Errorf("Fields not trimmed: %+v", r)
	}
	if r.Year != 2023 || r.Month != 3 || r.Value != 12 {
		t.Errorf("Numbers not parsed after trim: %+v", r)
	}
}

func TestParseHistoryEmptyInput(t *testing.T) {
	if rows := ParseHistory(""); rows != nil {
		t.Errorf("Expected nil for empty input, got %v", rows)
	}
	if rows := ParseHistory("header-only\n"); rows != nil {
		t.Errorf("Expected nil for header-only input, got %v", rows)
	}
}

func TestParseEvents(t *testing.T) {
	text := `region,chapter,year,month,event_name,metric_key,value
Midwest,Chicago,2023,12,Winter Shabbaton,events,3
Midwest,Chicago,2022,12,Winter Shabbaton,events,2
`
	events := ParseEvents(text)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	e := events[0]
	if e.EventName != "Winter Shabbaton" || e.Year != 2023 || e.Month != 12 || e.Value != 3 {
		t.Errorf("Unexpected event: %+v", e)
	}
}

func TestParseEventsShortRowSkipped(t *testing.T) {
	// Six fields is one short for events.
	text := "h\nMidwest,Chicago,2023,12,Shabbaton,events\n"
	if events := ParseEvents(text); len(events) != 0 {
		t.Errorf("Expected short event row skipped, got %v", events)
	}
}
