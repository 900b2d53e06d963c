package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/rnwolfe/hobbit/internal/habit"
)

// parseDay resolves a --day flag value: empty or "today", "yesterday", or an
// explicit YYYY-MM-DD date. Future dates are rejected — you can't check in
// for tomorrow.
func parseDay(s string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	d, err := time.ParseInLocation(habit.DayFormat, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q — expected YYYY-MM-DD, today, or yesterday", s)
	}
	if habit.DayKey(d) > habit.DayKey(today) {
		return time.Time{}, fmt.Errorf("%s is in the future", s)
	}
	return d, nil
}

// addDayFlag registers the shared --day flag on a command's flag set.
func addDayFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "day", "d", "", "Day to act on (YYYY-MM-DD, today, yesterday)")
}

// sparkline renders a compact bar series for per-day percentages.
func sparkline(percents []int) string {
	ramp := []rune("▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, p := range percents {
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		idx := p * (len(ramp) - 1) / 100
		b.WriteRune(ramp[idx])
	}
	return b.String()
}

// habitLabel renders a habit's name with its mode annotation.
func habitLabel(h *habit.Habit) string {
	switch {
	case h.Parent():
		return fmt.Sprintf("%s (%d sub-habits)", h.Name, len(h.Subs))
	case h.Quantitative():
		return fmt.Sprintf("%s (%g %s)", h.Name, h.Goal, h.Unit)
	default:
		return h.Name
	}
}
