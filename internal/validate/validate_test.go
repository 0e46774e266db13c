package validate

import (
	"strings"
	"testing"
)

var allowed = []string{"events", "new_teens", "unique_attendance", "one_on_ones"}

func TestHistoryValidCSV(t *testing.T) {
	raw := `region,chapter,metric_key,year,month,value
Midwest,Chicago,events,2023,3,12
Midwest,Detroit,new_teens,2024,11,7.5
Northeast,Boston,events,2022,1,4
`
	rep, err := History(raw, allowed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rep.Errors) != 0 {
		t.Fatalf("Expected no row errors, got %v", rep.Errors)
	}
	if len(rep.Rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(rep.Rows))
	}

	if got := rep.Regions(); !equal(got, []string{"Midwest", "Northeast"}) {
		t.Errorf("Unexpected regions: %v", got)
	}
	if got := rep.Chapters(); !equal(got, []string{"Midwest/Chicago", "Midwest/Detroit", "Northeast/Boston"}) {
		t.Errorf("Unexpected chapters: %v", got)
	}
	if got := rep.Metrics(); !equal(got, []string{"events", "new_teens"}) {
		t.Errorf("Unexpected metrics: %v", got)
	}
}

func TestHistoryMissingColumnIsFatal(t *testing.T) {
	raw := "region,chapter,metric_key,year,month\nMidwest,Chicago,events,2023,3\n"
	_, err := History(raw, allowed)
	if err == nil {
		t.Fatal("Expected error for missing column")
	}
	if !strings.Contains(err.Error(), `"value"`) {
		t.Errorf("Expected error to name the missing column, got %v", err)
	}
}

func TestHistoryNoDataRowsIsFatal(t *testing.T) {
	if _, err := History("region,chapter,metric_key,year,month,value\n", allowed); err == nil {
		t.Error("Expected error for header-only CSV")
	}
	if _, err := History("", allowed); err == nil {
		t.Error("Expected error for empty CSV")
	}
}

func TestHistoryCollectsEveryRowError(t *testing.T) {
	raw := `region,chapter,metric_key,year,month,value
,Chicago,events,2023,3,12
Midwest,Chicago,bogus,1999,13,huh
Midwest,Chicago,events,2023,3
Midwest,Chicago,events,2023,3,12
`
	rep, err := History(raw, allowed)
	if err != nil {
		t.Fatalf("Unexpected structural error: %v", err)
	}

	// Row 2: empty region. Row 3: bad metric + bad year + bad month + bad
	// value. Row 4: wrong column count. Row 5 is clean.
	if len(rep.Errors) != 6 {
		t.Fatalf("Expected 6 errors, got %d: %v", len(rep.Errors), rep.Errors)
	}

	wantFragments := []string{
		"Row 2: empty region",
		`Row 3: invalid metric_key "bogus"`,
		`Row 3: invalid year "1999"`,
		`Row 3: invalid month "13"`,
		`Row 3: invalid value "huh"`,
		"Row 4: expected 6 columns, got 5",
	}
	for _, frag := range wantFragments {
		found := false
		for _, e := range rep.Errors {
			if strings.Contains(e, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing expected error %q in %v", frag, rep.Errors)
		}
	}
}

func TestHistoryYearRange(t *testing.T) {
	raw := `region,chapter,metric_key,year,month,value
Midwest,Chicago,events,2000,1,1
Midwest,Chicago,events,2100,12,1
Midwest,Chicago,events,2101,6,1
`
	rep, err := History(raw, allowed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rep.Errors) != 1 {
		t.Fatalf("Expected exactly 1 error (year 2101), got %v", rep.Errors)
	}
	if !strings.Contains(rep.Errors[0], "2101") {
		t.Errorf("Expected 2101 error, got %v", rep.Errors[0])
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
