package dateutil

import (
	"testing"
	"time"
)

func TestDay_NormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)

	// 23:30 at UTC-5 on Jan 1 is already Jan 2 in UTC.
	local := time.Date(2024, 1, 1, 23, 30, 0, 0, loc)
	got := Day(local)

	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantDays int
		wantErr  bool
	}{
		{name: "single day", start: "2024-01-01", end: "2024-01-01", wantDays: 1},
		{name: "three days", start: "2024-01-01", end: "2024-01-03", wantDays: 3},
		{name: "month boundary", start: "2024-01-30", end: "2024-02-02", wantDays: 4},
		{name: "leap day", start: "2024-02-28", end: "2024-03-01", wantDays: 3},
		{name: "inverted range", start: "2024-01-03", end: "2024-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := ParseDate(tt.start)
			if err != nil {
				t.Fatalf("bad start fixture: %v", err)
			}
			end, err := ParseDate(tt.end)
			if err != nil {
				t.Fatalf("bad end fixture: %v", err)
			}

			days, err := ExpandRange(start, end)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(days) != tt.wantDays {
				t.Fatalf("expected %d days, got %d", tt.wantDays, len(days))
			}

			for i := 1; i < len(days); i++ {
				if !days[i].After(days[i-1]) {
					t.Errorf("days not strictly ascending at index %d", i)
				}
			}
			if !days[0].Equal(Day(start)) {
				t.Errorf("first day %s does not match start %s", days[0], start)
			}
			if !days[len(days)-1].Equal(Day(end)) {
				t.Errorf("last day %s does not match end %s", days[len(days)-1], end)
			}
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "01/02/2024", "2024-13-01", "not-a-date"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}
