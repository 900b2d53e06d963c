// Package progress computes habit completion state: per-day fractions,
// range percentages, streaks, and yearly heatmap intensities. Everything
// here is a pure read over caller-supplied habits and check-in records —
// no I/O, no mutation, so the month grid, the stats dashboard, and the
// heatmap always agree on what "done" means for the same data.
package progress

import (
	"time"

	"github.com/rnwolfe/hobbit/internal/habit"
)

// Scheduled reports whether an entity with the given frequency set is
// active on day. An empty or absent set means every day. Unknown symbols in
// the set never match; they don't make a day scheduled and they don't error.
func Scheduled(freq []string, day time.Time) bool {
	if len(freq) == 0 {
		return true
	}
	code := day.Format("Mon")
	for _, d := range freq {
		if d == code {
			return true
		}
	}
	return false
}

// SubScheduled reports whether a sub-habit is active on day. A sub-habit
// only counts on days where both its own schedule and the parent's agree.
func SubScheduled(parent *habit.Habit, sub *habit.SubHabit, day time.Time) bool {
	return Scheduled(parent.Frequency, day) && Scheduled(sub.Frequency, day)
}
