package progress

import (
	"time"

	"github.com/rnwolfe/hobbit/internal/habit"
)

// DayFraction computes the completion fraction (0..1) for one habit on one
// day, as shown in the month grid. A quantitative habit is its clamped
// value/goal ratio; a parent averages its sub-habits' contributions; a
// binary leaf is all-or-nothing.
//
// Sub-habits are NOT filtered by their own schedule here — the grid shows
// every sub-task cell every day. Aggregate and Year do filter, because
// statistics should only count work that was actually scheduled.
func DayFraction(h *habit.Habit, rec habit.Record, day time.Time) float64 {
	key := habit.DayKey(day)

	if h.Goal > 0 {
		return clampRatio(rec.Value(key), h.Goal)
	}

	if len(h.Subs) > 0 {
		var total float64
		for i := range h.Subs {
			total += subFraction(&h.Subs[i], rec, key)
		}
		return total / float64(len(h.Subs))
	}

	if rec.MainDone(key) {
		return 1
	}
	return 0
}

// Complete reports full completion. Exactly 1 — partial credit doesn't
// color a cell as done.
func Complete(fraction float64) bool {
	return fraction >= 1
}

// Partial reports strictly-between completion.
func Partial(fraction float64) bool {
	return fraction > 0 && fraction < 1
}

// subFraction is one sub-habit's contribution to its parent's day:
// clamped value/goal for quantitative, 1 or 0 for binary.
func subFraction(sub *habit.SubHabit, rec habit.Record, key string) float64 {
	if sub.Goal > 0 {
		return clampRatio(rec.SubValue(sub.ID, key), sub.Goal)
	}
	if rec.SubDone(sub.ID, key) {
		return 1
	}
	return 0
}

// clampRatio returns min(1, value/goal), treating a non-positive goal as
// "no progress possible" rather than dividing by it.
func clampRatio(value, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	r := value / goal
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}
