package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/hobbit/internal/config"
	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/progress"
	"github.com/rnwolfe/hobbit/internal/store"
	"github.com/rnwolfe/hobbit/internal/ui"
)

var (
	statsHabit string
	statsDays  int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Completion rates, streaks, and most-active habits",
	Long: `The numbers behind the grid: overall completion over a window, a per-day
trend, and each habit's streak and active-day count. Days where nothing
was scheduled don't count against you.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsHabit, "habit", "", "Limit stats to one habit")
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "Window size in days, ending today")
}

func runStats(_ *cobra.Command, _ []string) error {
	if statsDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	hs := habit.NewStore(db.Conn())
	habits, err := hs.List()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ui.Puts(ui.Muted.Render("  No habits yet. Run 'hobbit add' to plant one."))
		return nil
	}
	recs, err := hs.Records()
	if err != nil {
		return err
	}

	var opts progress.Options
	if statsHabit != "" {
		h, err := hs.Resolve(statsHabit)
		if err != nil {
			return err
		}
		opts.HabitID = h.ID
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := make([]time.Time, statsDays)
	for i := range days {
		days[i] = today.AddDate(0, 0, i-statsDays+1)
	}

	sum := progress.Aggregate(habits, recs, days, opts)

	ui.Header(ui.IconChart + " Last " + fmt.Sprint(statsDays) + " days")
	ui.Kv("Overall", fmt.Sprintf("%d%%", sum.Overall))

	percents := make([]int, len(sum.Days))
	for i, d := range sum.Days {
		percents[i] = d.Percent
	}
	ui.Kv("Trend", ui.Subtitle.Render(sparkline(percents)))

	ui.Header(ui.IconStar + " Habits")
	for _, row := range rankHabits(habits, recs, days, today, cfg.Habits.Lookback(), opts.HabitID) {
		detail := fmt.Sprintf("%d active days", row.active)
		if row.streak > 0 {
			detail += fmt.Sprintf(" · %s %d streak", ui.IconFire, row.streak)
		}
		ui.Kv(row.name, detail)
	}
	fmt.Println()
	return nil
}

type habitRank struct {
	name   string
	active int
	streak int
}

// rankHabits orders habits by how many days in the window they were fully
// done, busiest first.
func rankHabits(habits []habit.Habit, recs map[string]habit.Record, days []time.Time, today time.Time, lookback int, onlyID string) []habitRank {
	var rows []habitRank
	for i := range habits {
		h := &habits[i]
		if onlyID != "" && h.ID != onlyID {
			continue
		}
		rec := recs[h.ID]
		rows = append(rows, habitRank{
			name:   h.Name,
			active: progress.ActiveDays(h, rec, days),
			streak: progress.CurrentStreak(h, rec, today, lookback),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].active > rows[j].active })
	return rows
}
