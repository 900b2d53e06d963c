package progress

import (
	"math"
	"time"

	"github.com/rnwolfe/hobbit/internal/habit"
)

// NoData marks a heatmap day with nothing to show: a date after today.
// Distinct from 0, which means "scheduled but nothing done" and gets the
// empty-cell color rather than no cell at all.
const NoData = -1.0

// Heatmap bucket levels, from nothing-to-show to the deepest color.
const (
	LevelNoData = iota
	LevelZero
	LevelLow
	LevelMid
	LevelHigh
	LevelFull

	// LevelCount is the number of discrete levels.
	LevelCount = 6
)

// YearStats is a year of combined completion intensity across all habits.
type YearStats struct {
	// Days holds one intensity per calendar day of the year, in order from
	// Jan 1: a fraction in [0,1] rounded to three decimals, or NoData.
	Days []float64
	// TotalActive counts days with any progress at all — partial credit
	// somewhere is enough, full completion is not required.
	TotalActive int
	// MaxStreak is the longest run of consecutive active days within this
	// year. It deliberately doesn't reuse CurrentStreak: it measures the
	// best historical run inside the year, not a streak reaching across
	// year boundaries into the present.
	MaxStreak int
}

// Year computes the heatmap intensities for a calendar year across all
// habits combined, using the same unit decomposition as Aggregate.
func Year(habits []habit.Habit, recs map[string]habit.Record, year int, today time.Time) YearStats {
	loc := today.Location()
	todayKey := habit.DayKey(today)

	var stats YearStats
	run := 0
	for day := time.Date(year, time.January, 1, 0, 0, 0, 0, loc); day.Year() == year; day = day.AddDate(0, 0, 1) {
		if year > today.Year() || habit.DayKey(day) > todayKey {
			stats.Days = append(stats.Days, NoData)
			run = 0
			continue
		}

		var earned, possible float64
		for i := range habits {
			h := &habits[i]
			if !Scheduled(h.Frequency, day) {
				continue
			}
			e, p := dayUnits(h, recs[h.ID], day)
			earned += e
			possible += p
		}

		intensity := 0.0
		if possible > 0 {
			intensity = math.Round(earned/possible*1000) / 1000
		}
		stats.Days = append(stats.Days, intensity)

		if earned > 0 {
			stats.TotalActive++
			run++
			if run > stats.MaxStreak {
				stats.MaxStreak = run
			}
		} else {
			run = 0
		}
	}
	return stats
}

// Bucket maps an intensity to one of the six discrete heatmap levels.
// Quartile boundaries are inclusive on the upper end.
func Bucket(intensity float64) int {
	switch {
	case intensity < 0:
		return LevelNoData
	case intensity == 0:
		return LevelZero
	case intensity <= 0.25:
		return LevelLow
	case intensity <= 0.50:
		return LevelMid
	case intensity <= 0.75:
		return LevelHigh
	default:
		return LevelFull
	}
}
