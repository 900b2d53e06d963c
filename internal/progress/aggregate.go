package progress

import (
	"math"
	"time"

	"github.com/rnwolfe/hobbit/internal/habit"
)

// Options configures Aggregate.
type Options struct {
	// HabitID restricts aggregation to a single habit (dashboard
	// drill-down). Empty means all habits.
	HabitID string
}

// DayScore is one day of the aggregated series.
type DayScore struct {
	Day     time.Time
	Percent int
}

// Summary is the result of aggregating completion over a date range.
type Summary struct {
	Days []DayScore
	// Overall is the range-wide percentage, accumulated across all days
	// rather than averaged per-day: days with more scheduled units weigh
	// proportionally more.
	Overall int
}

// Aggregate computes per-day and overall completion percentages over days.
// Each habit decomposes into units: the habit itself when it's a leaf, or
// each sub-habit when it's a parent. Units only count on days they're
// scheduled (for sub-habits, the conjunction of parent and sub schedules).
// A day with no scheduled units scores 0, never a division error.
func Aggregate(habits []habit.Habit, recs map[string]habit.Record, days []time.Time, opts Options) Summary {
	sum := Summary{Days: make([]DayScore, 0, len(days))}

	var totalEarned, totalPossible float64
	for _, day := range days {
		var earned, possible float64

		for i := range habits {
			h := &habits[i]
			if opts.HabitID != "" && h.ID != opts.HabitID {
				continue
			}
			if !Scheduled(h.Frequency, day) {
				continue
			}
			e, p := dayUnits(h, recs[h.ID], day)
			earned += e
			possible += p
		}

		totalEarned += earned
		totalPossible += possible
		sum.Days = append(sum.Days, DayScore{Day: day, Percent: percent(earned, possible)})
	}

	sum.Overall = percent(totalEarned, totalPossible)
	return sum
}

// dayUnits returns (earned, possible) for one scheduled habit on one day.
func dayUnits(h *habit.Habit, rec habit.Record, day time.Time) (earned, possible float64) {
	key := habit.DayKey(day)

	if h.Goal > 0 {
		return clampRatio(rec.Value(key), h.Goal), 1
	}

	if len(h.Subs) > 0 {
		for i := range h.Subs {
			sub := &h.Subs[i]
			if !Scheduled(sub.Frequency, day) {
				continue
			}
			possible++
			earned += subFraction(sub, rec, key)
		}
		return earned, possible
	}

	if rec.MainDone(key) {
		earned = 1
	}
	return earned, 1
}

// ActiveDays counts the days on which a habit scores a "day active" for the
// performance ranking. This is a deliberately different predicate from the
// averaging in Aggregate: a quantitative leaf counts only when it reaches
// its goal, while a parent counts as soon as ANY sub-habit fully completes
// (any positive value for a quantitative sub, a check for a binary one).
func ActiveDays(h *habit.Habit, rec habit.Record, days []time.Time) int {
	count := 0
	for _, day := range days {
		if dayActive(h, rec, habit.DayKey(day)) {
			count++
		}
	}
	return count
}

func dayActive(h *habit.Habit, rec habit.Record, key string) bool {
	if h.Goal > 0 {
		return rec.Value(key) >= h.Goal
	}

	if len(h.Subs) > 0 {
		for i := range h.Subs {
			sub := &h.Subs[i]
			if sub.Goal > 0 {
				if rec.SubValue(sub.ID, key) > 0 {
					return true
				}
			} else if rec.SubDone(sub.ID, key) {
				return true
			}
		}
		return false
	}

	return rec.MainDone(key)
}

// MonthRange returns every calendar day of a month, in order.
func MonthRange(year int, month time.Month, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var days []time.Time
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// percent converts an earned/possible ratio to a rounded 0-100 value,
// defined as 0 when nothing was possible.
func percent(earned, possible float64) int {
	if possible <= 0 {
		return 0
	}
	return int(math.Round(100 * earned / possible))
}
