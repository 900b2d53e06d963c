package cmd

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2024, time.January, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty is today", "", "2024-01-10", false},
		{"today keyword", "today", "2024-01-10", false},
		{"yesterday keyword", "yesterday", "2024-01-09", false},
		{"explicit date", "2024-01-02", "2024-01-02", false},
		{"future rejected", "2024-01-11", "", true},
		{"garbage rejected", "last tuesday", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDay(tc.input, now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseDay(%q) succeeded, want error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q): %v", tc.input, err)
			}
			if got.Format("2006-01-02") != tc.want {
				t.Errorf("parseDay(%q) = %s, want %s", tc.input, got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestSparkline(t *testing.T) {
	got := sparkline([]int{0, 50, 100})
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(runes))
	}
	if runes[0] != '▁' {
		t.Errorf("0%% should be the lowest bar, got %c", runes[0])
	}
	if runes[2] != '█' {
		t.Errorf("100%% should be the full bar, got %c", runes[2])
	}

	// Out-of-range values clamp instead of panicking.
	if out := sparkline([]int{-5, 200}); len([]rune(out)) != 2 {
		t.Errorf("clamped sparkline = %q", out)
	}
}
