package progress

import (
	"testing"

	"github.com/rnwolfe/hobbit/internal/habit"
)

func TestYearFutureDaysAreNoData(t *testing.T) {
	habits := []habit.Habit{{ID: "h1", Name: "Read"}}
	today := mustDate("2024-03-15")

	stats := Year(habits, nil, 2024, today)

	if len(stats.Days) != 366 {
		t.Fatalf("2024 has %d days, want 366", len(stats.Days))
	}
	// Day index 74 is 2024-03-15 (31 + 29 + 15 - 1).
	if stats.Days[74] != 0 {
		t.Errorf("today = %v, want 0 (no check-ins yet, but not in the future)", stats.Days[74])
	}
	if stats.Days[75] != NoData {
		t.Errorf("tomorrow = %v, want NoData", stats.Days[75])
	}
	if stats.Days[365] != NoData {
		t.Errorf("Dec 31 = %v, want NoData", stats.Days[365])
	}
}

func TestYearFutureDaysDontCountAsActive(t *testing.T) {
	habits := []habit.Habit{{ID: "h1", Name: "Read"}}
	recs := map[string]habit.Record{
		"h1": {Main: map[string]bool{"2024-01-01": true, "2024-01-02": true}},
	}

	stats := Year(habits, recs, 2024, mustDate("2024-01-03"))

	if stats.TotalActive != 2 {
		t.Errorf("total active = %d, want 2", stats.TotalActive)
	}
}

func TestYearPastYearHasNoFuture(t *testing.T) {
	habits := []habit.Habit{{ID: "h1", Name: "Read"}}

	stats := Year(habits, nil, 2023, mustDate("2024-06-01"))

	for i, v := range stats.Days {
		if v == NoData {
			t.Fatalf("day %d of a fully past year marked NoData", i)
		}
	}
}

func TestYearIntensityRounding(t *testing.T) {
	// One of three subs done: 1/3 rounds to 0.333 at three decimals.
	habits := []habit.Habit{{ID: "p", Name: "Workout", Subs: []habit.SubHabit{
		{ID: "s1", Name: "A"},
		{ID: "s2", Name: "B"},
		{ID: "s3", Name: "C"},
	}}}
	recs := map[string]habit.Record{
		"p": {Subs: map[string]map[string]bool{"s1": {"2024-01-01": true}}},
	}

	stats := Year(habits, recs, 2024, mustDate("2024-01-02"))

	if stats.Days[0] != 0.333 {
		t.Errorf("intensity = %v, want 0.333", stats.Days[0])
	}
}

func TestYearPartialDayIsActive(t *testing.T) {
	// Any earned progress marks the day active; full completion not required.
	habits := []habit.Habit{{ID: "q", Name: "Run", Goal: 10}}
	recs := map[string]habit.Record{
		"q": {Values: map[string]float64{"2024-01-01": 2}},
	}

	stats := Year(habits, recs, 2024, mustDate("2024-01-01"))

	if stats.TotalActive != 1 {
		t.Errorf("total active = %d, want 1 for a partial day", stats.TotalActive)
	}
	if stats.Days[0] != 0.2 {
		t.Errorf("intensity = %v, want 0.2", stats.Days[0])
	}
}

func TestYearZeroPossibleDay(t *testing.T) {
	// Nothing scheduled on a Tuesday: intensity 0, not NaN, not active.
	habits := []habit.Habit{{ID: "h1", Name: "MonOnly", Frequency: []string{"Mon"}}}
	recs := map[string]habit.Record{
		"h1": {Main: map[string]bool{"2024-01-01": true}}, // Monday
	}

	stats := Year(habits, recs, 2024, mustDate("2024-01-02"))

	if stats.Days[0] != 1 {
		t.Errorf("Monday intensity = %v, want 1", stats.Days[0])
	}
	if stats.Days[1] != 0 {
		t.Errorf("Tuesday intensity = %v, want 0 when nothing was scheduled", stats.Days[1])
	}
	if stats.TotalActive != 1 {
		t.Errorf("total active = %d, want 1", stats.TotalActive)
	}
}

func TestYearMaxStreak(t *testing.T) {
	// Active runs: Jan 1-3 (3 days), gap, Jan 6-7 (2 days). Best is 3, and
	// it stays 3 even though the current run at evaluation time is 2.
	habits := []habit.Habit{{ID: "h1", Name: "Read"}}
	m := map[string]bool{
		"2024-01-01": true,
		"2024-01-02": true,
		"2024-01-03": true,
		"2024-01-06": true,
		"2024-01-07": true,
	}
	recs := map[string]habit.Record{"h1": {Main: m}}

	stats := Year(habits, recs, 2024, mustDate("2024-01-07"))

	if stats.MaxStreak != 3 {
		t.Errorf("max streak = %d, want 3", stats.MaxStreak)
	}
	if stats.TotalActive != 5 {
		t.Errorf("total active = %d, want 5", stats.TotalActive)
	}
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		intensity float64
		want      int
	}{
		{NoData, LevelNoData},
		{0, LevelZero},
		{0.001, LevelLow},
		{0.25, LevelLow},
		{0.26, LevelMid},
		{0.50, LevelMid},
		{0.51, LevelHigh},
		{0.75, LevelHigh},
		{0.76, LevelFull},
		{1, LevelFull},
	}

	for _, tc := range tests {
		if got := Bucket(tc.intensity); got != tc.want {
			t.Errorf("Bucket(%v) = %d, want %d", tc.intensity, got, tc.want)
		}
	}
}
