package progress

import (
	"testing"
	"time"

	"github.com/rnwolfe/hobbit/internal/habit"
)

func TestAggregateSingleBinaryHabit(t *testing.T) {
	habits := []habit.Habit{{ID: "h1", Name: "Read"}}
	recs := map[string]habit.Record{
		"h1": {Main: map[string]bool{"2024-01-08": true, "2024-01-09": true}},
	}

	sum := Aggregate(habits, recs, daySpan("2024-01-08", 4), Options{})

	wantPerDay := []int{100, 100, 0, 0}
	for i, want := range wantPerDay {
		if sum.Days[i].Percent != want {
			t.Errorf("day %d percent = %d, want %d", i, sum.Days[i].Percent, want)
		}
	}
	if sum.Overall != 50 {
		t.Errorf("overall = %d, want 50", sum.Overall)
	}
}

func TestAggregateSkipsUnscheduledHabit(t *testing.T) {
	// Monday-only habit on a Tuesday contributes to neither earned nor
	// possible — check-in data for that day is irrelevant.
	habits := []habit.Habit{
		{ID: "h1", Name: "MonOnly", Frequency: []string{"Mon"}},
		{ID: "h2", Name: "Daily"},
	}
	recs := map[string]habit.Record{
		"h1": {Main: map[string]bool{"2024-01-09": true}}, // Tuesday data, ignored
	}

	sum := Aggregate(habits, recs, []time.Time{mustDate("2024-01-09")}, Options{})

	if sum.Days[0].Percent != 0 {
		t.Errorf("Tuesday percent = %d, want 0 (only the daily habit counts, unchecked)", sum.Days[0].Percent)
	}
}

func TestAggregateZeroPossibleIsZero(t *testing.T) {
	// Every habit unscheduled on every day: percentages are 0, not NaN.
	habits := []habit.Habit{{ID: "h1", Name: "MonOnly", Frequency: []string{"Mon"}}}

	// Tue-Thu only.
	sum := Aggregate(habits, nil, daySpan("2024-01-09", 3), Options{})

	if sum.Overall != 0 {
		t.Errorf("overall = %d, want 0 when nothing was possible", sum.Overall)
	}
	for i, d := range sum.Days {
		if d.Percent != 0 {
			t.Errorf("day %d percent = %d, want 0", i, d.Percent)
		}
	}
}

func TestAggregateParentUnitsAreSubs(t *testing.T) {
	// One parent with two subs plus one leaf = 3 units per day.
	habits := []habit.Habit{
		{ID: "p", Name: "Workout", Subs: []habit.SubHabit{
			{ID: "s1", Name: "Pushups"},
			{ID: "s2", Name: "Situps"},
		}},
		{ID: "l", Name: "Read"},
	}
	recs := map[string]habit.Record{
		"p": {Subs: map[string]map[string]bool{"s1": {"2024-01-08": true}}},
		"l": {Main: map[string]bool{"2024-01-08": true}},
	}

	sum := Aggregate(habits, recs, []time.Time{mustDate("2024-01-08")}, Options{})

	// 2 of 3 units → 67%.
	if sum.Days[0].Percent != 67 {
		t.Errorf("percent = %d, want 67", sum.Days[0].Percent)
	}
}

func TestAggregateFiltersSubsBySchedule(t *testing.T) {
	// The Monday-only sub is excluded from numerator and denominator on a
	// Friday — unlike the row view, statistics only count scheduled work.
	habits := []habit.Habit{
		{ID: "p", Name: "Workout", Subs: []habit.SubHabit{
			{ID: "s1", Name: "Everyday"},
			{ID: "s2", Name: "MondayOnly", Frequency: []string{"Mon"}},
		}},
	}
	recs := map[string]habit.Record{
		"p": {Subs: map[string]map[string]bool{"s1": {"2024-01-05": true}}},
	}

	sum := Aggregate(habits, recs, []time.Time{mustDate("2024-01-05")}, Options{})

	if sum.Days[0].Percent != 100 {
		t.Errorf("percent = %d, want 100 (inactive sub excluded both ways)", sum.Days[0].Percent)
	}
}

func TestAggregateQuantitativeFractions(t *testing.T) {
	habits := []habit.Habit{{ID: "q", Name: "Run", Goal: 10}}
	recs := map[string]habit.Record{
		"q": {Values: map[string]float64{"2024-01-08": 5, "2024-01-09": 20}},
	}

	sum := Aggregate(habits, recs, daySpan("2024-01-08", 2), Options{})

	if sum.Days[0].Percent != 50 {
		t.Errorf("half-goal day = %d, want 50", sum.Days[0].Percent)
	}
	if sum.Days[1].Percent != 100 {
		t.Errorf("over-goal day = %d, want 100 (clamped)", sum.Days[1].Percent)
	}
	if sum.Overall != 75 {
		t.Errorf("overall = %d, want 75", sum.Overall)
	}
}

func TestAggregateHabitFilter(t *testing.T) {
	habits := []habit.Habit{
		{ID: "h1", Name: "Read"},
		{ID: "h2", Name: "Run"},
	}
	recs := map[string]habit.Record{
		"h1": {Main: map[string]bool{"2024-01-08": true}},
	}

	sum := Aggregate(habits, recs, []time.Time{mustDate("2024-01-08")}, Options{HabitID: "h1"})
	if sum.Overall != 100 {
		t.Errorf("filtered overall = %d, want 100", sum.Overall)
	}

	sum = Aggregate(habits, recs, []time.Time{mustDate("2024-01-08")}, Options{HabitID: "h2"})
	if sum.Overall != 0 {
		t.Errorf("filtered overall = %d, want 0", sum.Overall)
	}
}

func TestAggregateOverallWeighsByUnits(t *testing.T) {
	// Overall accumulates units across days rather than averaging the
	// per-day percentages. Day 1 has 3 units (1 earned), day 2 has 1 unit
	// (1 earned): overall = 2/4 = 50, not (33+100)/2.
	habits := []habit.Habit{
		{ID: "p", Name: "Workout", Frequency: []string{"Mon"}, Subs: []habit.SubHabit{
			{ID: "s1", Name: "A"},
			{ID: "s2", Name: "B"},
		}},
		{ID: "l", Name: "Read"},
	}
	recs := map[string]habit.Record{
		"p": {Subs: map[string]map[string]bool{"s1": {"2024-01-08": true}}},
		"l": {Main: map[string]bool{"2024-01-09": true}},
	}

	sum := Aggregate(habits, recs, daySpan("2024-01-08", 2), Options{})

	if sum.Overall != 50 {
		t.Errorf("overall = %d, want 50 (unit-weighted)", sum.Overall)
	}
}

func TestActiveDaysQuantitativeNeedsGoal(t *testing.T) {
	h := &habit.Habit{ID: "q", Name: "Run", Goal: 10}
	rec := habit.Record{Values: map[string]float64{
		"2024-01-08": 10, // counts
		"2024-01-09": 9,  // partial — doesn't count
		"2024-01-10": 15, // counts
	}}

	if got := ActiveDays(h, rec, daySpan("2024-01-08", 4)); got != 2 {
		t.Errorf("active days = %d, want 2", got)
	}
}

func TestActiveDaysParentAnySub(t *testing.T) {
	// The ranking predicate is "any sub done", not the averaged fraction.
	h := &habit.Habit{ID: "p", Name: "Workout", Subs: []habit.SubHabit{
		{ID: "s1", Name: "Stretch"},
		{ID: "s2", Name: "Crunches", Goal: 100},
	}}
	rec := habit.Record{
		Subs:      map[string]map[string]bool{"s1": {"2024-01-08": true}},
		SubValues: map[string]map[string]float64{"s2": {"2024-01-09": 1}},
	}

	// Day 1: binary sub checked. Day 2: quantitative sub has any value > 0.
	// Day 3: nothing.
	if got := ActiveDays(h, rec, daySpan("2024-01-08", 3)); got != 2 {
		t.Errorf("active days = %d, want 2", got)
	}
}

func TestMonthRange(t *testing.T) {
	days := MonthRange(2024, time.February, time.UTC)
	if len(days) != 29 {
		t.Fatalf("Feb 2024 has %d days, want 29", len(days))
	}
	if habit.DayKey(days[0]) != "2024-02-01" {
		t.Errorf("first day = %s", habit.DayKey(days[0]))
	}
	if habit.DayKey(days[28]) != "2024-02-29" {
		t.Errorf("last day = %s", habit.DayKey(days[28]))
	}
}
