package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/progress"
	"github.com/rnwolfe/hobbit/internal/store"
	"github.com/rnwolfe/hobbit/internal/ui"
)

var (
	checkDay string
	logDay   string
	logSub   string
)

var checkCmd = &cobra.Command{
	Use:   "check <habit> [sub]",
	Short: "Toggle a habit's check-in for a day",
	Long: `Mark a habit done (or undo it). For a habit with sub-habits, checking the
habit itself drives the whole day: every sub-habit is filled in — or
cleared, when the day was already complete. Name a sub-habit to toggle
just that one.

Examples:
  hobbit check read
  hobbit check workout pushups
  hobbit check read --day yesterday`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

var logCmd = &cobra.Command{
	Use:   "log <habit> <value>",
	Short: "Log a value against a quantitative habit",
	Long: `Record progress toward a numeric goal. The value replaces any earlier
entry for the day; log 0 to clear it.

Examples:
  hobbit log run 5.2
  hobbit log workout 40 --sub crunches
  hobbit log run 3 --day yesterday`,
	Args: cobra.ExactArgs(2),
	RunE: runLog,
}

func init() {
	addDayFlag(checkCmd.Flags(), &checkDay)
	addDayFlag(logCmd.Flags(), &logDay)
	logCmd.Flags().StringVar(&logSub, "sub", "", "Log against this sub-habit")
}

func runCheck(_ *cobra.Command, args []string) error {
	day, err := parseDay(checkDay, time.Now())
	if err != nil {
		return err
	}
	key := habit.DayKey(day)

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	hs := habit.NewStore(db.Conn())
	h, err := hs.Resolve(args[0])
	if err != nil {
		return err
	}

	// A named sub-habit toggles just that one cell.
	if len(args) == 2 {
		sub, err := habit.ResolveSub(h, args[1])
		if err != nil {
			return err
		}
		if sub.Quantitative() {
			return fmt.Errorf("%s tracks a value — use %s", sub.Name,
				ui.Accent.Render(fmt.Sprintf("hobbit log %s <value> --sub %s", h.Name, sub.Name)))
		}
		on, err := hs.Toggle(h.ID, sub.ID, key)
		if err != nil {
			return err
		}
		reportToggle(hs, h, sub.Name, key, on, day)
		return nil
	}

	if h.Quantitative() {
		return fmt.Errorf("%s tracks a value — use %s", h.Name,
			ui.Accent.Render(fmt.Sprintf("hobbit log %s <value>", h.Name)))
	}

	if h.Parent() {
		rec, err := hs.RecordFor(h.ID)
		if err != nil {
			return err
		}
		// Fill the whole day unless it's already complete, then clear it.
		on := progress.DayFraction(h, rec, day) < 1
		if err := hs.SetAll(h, key, on); err != nil {
			return err
		}
		reportToggle(hs, h, h.Name, key, on, day)
		return nil
	}

	on, err := hs.Toggle(h.ID, "", key)
	if err != nil {
		return err
	}
	reportToggle(hs, h, h.Name, key, on, day)
	return nil
}

func runLog(_ *cobra.Command, args []string) error {
	day, err := parseDay(logDay, time.Now())
	if err != nil {
		return err
	}
	key := habit.DayKey(day)

	var value float64
	if _, err := fmt.Sscanf(args[1], "%f", &value); err != nil {
		return fmt.Errorf("invalid value %q", args[1])
	}
	if value < 0 {
		return fmt.Errorf("value can't be negative")
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	hs := habit.NewStore(db.Conn())
	h, err := hs.Resolve(args[0])
	if err != nil {
		return err
	}

	subID := ""
	name := h.Name
	goal := h.Goal
	unit := h.Unit
	if logSub != "" {
		sub, err := habit.ResolveSub(h, logSub)
		if err != nil {
			return err
		}
		subID, name, goal, unit = sub.ID, sub.Name, sub.Goal, sub.Unit
	}
	if goal <= 0 {
		return fmt.Errorf("%s is a checkbox habit — use %s", name,
			ui.Accent.Render("hobbit check "+args[0]))
	}

	if err := hs.SetValue(h.ID, subID, key, value); err != nil {
		return err
	}

	if value == 0 {
		ui.Ok(fmt.Sprintf("Cleared %s for %s", name, key))
		return nil
	}
	msg := fmt.Sprintf("%s: %g/%g %s on %s", name, value, goal, unit, key)
	if value >= goal {
		msg += " " + ui.IconDone
	}
	ui.Ok(msg)
	return nil
}

// reportToggle prints the result of a check, with the streak when it's alive.
func reportToggle(hs *habit.Store, h *habit.Habit, name, key string, on bool, day time.Time) {
	if !on {
		ui.Ok(fmt.Sprintf("Unchecked %s for %s", name, key))
		return
	}

	msg := fmt.Sprintf("Checked %s for %s", name, key)
	if rec, err := hs.RecordFor(h.ID); err == nil {
		if streak := progress.CurrentStreak(h, rec, day, 0); streak > 1 {
			msg += fmt.Sprintf(" — %s %d day streak", ui.IconFire, streak)
		}
	}
	ui.Ok(msg)
}
