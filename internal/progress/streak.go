package progress

import (
	"time"

	"github.com/rnwolfe/hobbit/internal/habit"
)

// defaultLookback bounds the streak walk when the caller passes no cap.
// Ten years of daily habit is a better streak than anyone needs confirmed.
const defaultLookback = 3650

// CurrentStreak counts consecutive kept days walking backward from today.
//
// An incomplete today doesn't break the streak — the user may simply not
// have logged yet, so the walk starts at yesterday instead (one grace step,
// applied at most once). Unscheduled days are skipped without counting
// either way. Any nonzero fraction keeps the streak alive; this is looser
// than the "complete" predicate used for cell coloring, on purpose.
//
// maxLookback caps the total days examined (<= 0 means the default). The
// cap guarantees termination even when a habit's schedule never produces a
// scheduled zero-fraction day — e.g. a frequency set holding only symbols
// that match no real weekday.
func CurrentStreak(h *habit.Habit, rec habit.Record, today time.Time, maxLookback int) int {
	if maxLookback <= 0 {
		maxLookback = defaultLookback
	}

	day := today
	if DayFraction(h, rec, day) == 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i < maxLookback; i++ {
		if !Scheduled(h.Frequency, day) {
			day = day.AddDate(0, 0, -1)
			continue
		}
		if DayFraction(h, rec, day) > 0 {
			streak++
			day = day.AddDate(0, 0, -1)
			continue
		}
		break
	}
	return streak
}
