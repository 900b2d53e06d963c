package habit

import (
	"fmt"
	"strings"
	"time"
)

// DayFormat is the calendar-date key used everywhere: no time of day, no
// timezone. Two check-ins are the same day iff their keys are string-equal.
const DayFormat = "2006-01-02"

// DayKey formats a time as a calendar-date key.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// Weekdays is the closed 7-symbol frequency vocabulary, in display order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Habit is a tracked habit. Goal == 0 means binary (done/not-done);
// Goal > 0 means quantitative with that numeric target. An empty Frequency
// means the habit is scheduled every day. A habit with Subs is a parent:
// its own check-ins are ignored and completion is derived from the subs.
type Habit struct {
	ID        string
	Name      string
	Goal      float64
	Unit      string
	Frequency []string
	Subs      []SubHabit
	Expanded  bool
	Position  int
	CreatedAt time.Time
}

// SubHabit is one level below a Habit; no further nesting.
type SubHabit struct {
	ID        string
	Name      string
	Goal      float64
	Unit      string
	Frequency []string
	Position  int
	CreatedAt time.Time
}

// Quantitative reports whether the habit tracks a numeric goal.
func (h *Habit) Quantitative() bool { return h.Goal > 0 }

// Parent reports whether the habit derives completion from sub-habits.
func (h *Habit) Parent() bool { return len(h.Subs) > 0 }

// Quantitative reports whether the sub-habit tracks a numeric goal.
func (s *SubHabit) Quantitative() bool { return s.Goal > 0 }

// Record is the sparse check-in history for one habit. Any of the maps may
// be nil — readers treat nil as "no data", never as an error.
type Record struct {
	// Main holds the days a binary leaf habit was marked done.
	Main map[string]bool
	// Values holds day → logged value for a quantitative leaf habit.
	Values map[string]float64
	// Subs holds sub-habit id → days marked done (binary sub-habits).
	Subs map[string]map[string]bool
	// SubValues holds sub-habit id → day → logged value (quantitative subs).
	SubValues map[string]map[string]float64
}

// MainDone reports whether the habit's own binary check-in exists for day.
func (r Record) MainDone(day string) bool { return r.Main[day] }

// Value returns the habit's own logged value for day, 0 when absent.
func (r Record) Value(day string) float64 { return r.Values[day] }

// SubDone reports whether a sub-habit's binary check-in exists for day.
func (r Record) SubDone(subID, day string) bool { return r.Subs[subID][day] }

// SubValue returns a sub-habit's logged value for day, 0 when absent.
func (r Record) SubValue(subID, day string) float64 { return r.SubValues[subID][day] }

// ParseFrequency parses a comma-separated weekday list into canonical day
// codes, ordered Mon..Sun regardless of input order. Empty input means
// "every day" and returns nil. Accepts full names and three-letter codes,
// case-insensitive.
func ParseFrequency(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[string]bool, 7)
	for _, part := range strings.Split(s, ",") {
		day, err := parseWeekday(part)
		if err != nil {
			return nil, err
		}
		seen[day] = true
	}
	if len(seen) == 7 {
		// All seven days is the same as no restriction.
		return nil, nil
	}

	var days []string
	for _, day := range Weekdays {
		if seen[day] {
			days = append(days, day)
		}
	}
	return days, nil
}

func parseWeekday(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mon", "monday":
		return "Mon", nil
	case "tue", "tues", "tuesday":
		return "Tue", nil
	case "wed", "wednesday":
		return "Wed", nil
	case "thu", "thur", "thurs", "thursday":
		return "Thu", nil
	case "fri", "friday":
		return "Fri", nil
	case "sat", "saturday":
		return "Sat", nil
	case "sun", "sunday":
		return "Sun", nil
	default:
		return "", fmt.Errorf("invalid weekday %q — valid values: Mon..Sun", strings.TrimSpace(s))
	}
}

// FrequencyLabel renders a frequency set for display. Empty means daily.
func FrequencyLabel(freq []string) string {
	if len(freq) == 0 {
		return "daily"
	}
	return strings.Join(freq, ",")
}

// joinFrequency serializes a frequency set for storage.
func joinFrequency(freq []string) string {
	return strings.Join(freq, ",")
}

// splitFrequency deserializes a stored frequency set. Unknown symbols are
// kept as-is: the schedule resolver simply never matches them.
func splitFrequency(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
