package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/progress"
	"github.com/rnwolfe/hobbit/internal/store"
	"github.com/rnwolfe/hobbit/internal/tui"
	"github.com/rnwolfe/hobbit/internal/ui"
)

var (
	gridMonth       string
	gridInteractive bool
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Show the month grid of check-ins",
	Long: `The month view: habits down the side, days across the top. This is also
what a bare ` + "`hobbit`" + ` shows.

Use -i for the interactive grid, where you can move around and check
days off without leaving the view.`,
	RunE: runGrid,
}

func init() {
	addGridFlags(gridCmd.Flags())
}

func addGridFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&gridMonth, "month", "m", "", "Month to show (YYYY-MM, default current)")
	fs.BoolVarP(&gridInteractive, "interactive", "i", false, "Open the interactive grid")
}

func runGrid(_ *cobra.Command, _ []string) error {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if gridMonth != "" {
		t, err := time.ParseInLocation("2006-01", gridMonth, now.Location())
		if err != nil {
			return fmt.Errorf("invalid month %q — expected YYYY-MM", gridMonth)
		}
		year, month = t.Year(), t.Month()
	}
	days := progress.MonthRange(year, month, now.Location())

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
	recs, err := hs.Records()
	if err != nil {
		return err
	}

	if gridInteractive {
		actions, err := tui.RunGrid(habits, recs, days, now)
		if err != nil {
			return err
		}
		return applyGridActions(hs, habits, actions)
	}

	ui.Puts(renderMonthGrid(habits, recs, days, now))
	return nil
}

// applyGridActions persists what the user did in the interactive grid. The
// model already enforced ordering and no-future rules.
func applyGridActions(hs *habit.Store, habits []habit.Habit, actions []tui.GridAction) error {
	byID := make(map[string]*habit.Habit, len(habits))
	for i := range habits {
		byID[habits[i].ID] = &habits[i]
	}

	for _, a := range actions {
		var err error
		switch a.Type {
		case "toggle":
			_, err = hs.Toggle(a.HabitID, a.SubID, a.Day)
		case "setall":
			if h := byID[a.HabitID]; h != nil {
				err = hs.SetAll(h, a.Day, a.On)
			}
		case "log":
			err = hs.SetValue(a.HabitID, a.SubID, a.Day, a.Value)
		case "expand":
			err = hs.SetExpanded(a.HabitID, a.On)
		}
		if err != nil {
			return fmt.Errorf("applying %s: %w", a.Type, err)
		}
	}
	return nil
}

const gridNameWidth = 18

// renderMonthGrid draws the static month view.
func renderMonthGrid(habits []habit.Habit, recs map[string]habit.Record, days []time.Time, now time.Time) string {
	var b strings.Builder

	b.WriteString(ui.Title.Render("  "+ui.IconHobbit+" "+days[0].Format("January 2006")) + "\n\n")

	if len(habits) == 0 {
		b.WriteString("  " + ui.Muted.Render("No habits yet. Run 'hobbit add' to plant one.") + "\n")
		return b.String()
	}

	todayKey := habit.DayKey(now)

	// Day-number header.
	b.WriteString(strings.Repeat(" ", gridNameWidth+4))
	for _, d := range days {
		label := fmt.Sprintf("%2d", d.Day())
		if habit.DayKey(d) == todayKey {
			b.WriteString(ui.Accent.Render(label))
		} else {
			b.WriteString(ui.Muted.Render(label))
		}
	}
	b.WriteString("\n")

	for i := range habits {
		h := &habits[i]
		rec := recs[h.ID]
		b.WriteString(gridRowLine(h.Name, gridLeafCells(h, rec, days, todayKey)+rowSummary(h, rec, days, now)))

		if h.Parent() && h.Expanded {
			for j := range h.Subs {
				sub := &h.Subs[j]
				b.WriteString(gridRowLine("  "+sub.Name, gridSubCells(h, sub, rec, days, todayKey)))
			}
		}
	}
	return b.String()
}

// rowSummary is the trailing column of a habit row: the share of the
// month's scheduled days that were fully completed, and the streak badge
// when one is alive. Partial days don't count toward the percentage — only
// a complete cell does.
func rowSummary(h *habit.Habit, rec habit.Record, days []time.Time, now time.Time) string {
	scheduled, done := 0, 0
	for _, d := range days {
		if !progress.Scheduled(h.Frequency, d) {
			continue
		}
		scheduled++
		if progress.Complete(progress.DayFraction(h, rec, d)) {
			done++
		}
	}
	pct := 0
	if scheduled > 0 {
		pct = int(math.Round(100 * float64(done) / float64(scheduled)))
	}

	out := ui.Muted.Render(fmt.Sprintf("  %3d%%", pct))
	if streak := progress.CurrentStreak(h, rec, now, 0); streak > 0 {
		out += ui.Warning.Render(fmt.Sprintf(" %s%d", ui.IconFire, streak))
	}
	return out
}

func gridRowLine(name, cells string) string {
	label := name
	if len([]rune(label)) > gridNameWidth {
		label = string([]rune(label)[:gridNameWidth-1]) + "…"
	}
	return fmt.Sprintf("  %-*s  %s\n", gridNameWidth, label, cells)
}

func gridLeafCells(h *habit.Habit, rec habit.Record, days []time.Time, todayKey string) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(" " + gridCell(h, rec, d, todayKey))
	}
	return b.String()
}

func gridCell(h *habit.Habit, rec habit.Record, d time.Time, todayKey string) string {
	if habit.DayKey(d) > todayKey {
		return ui.Muted.Render(ui.IconDot)
	}
	if !progress.Scheduled(h.Frequency, d) {
		return ui.Muted.Render(ui.IconDot)
	}
	f := progress.DayFraction(h, rec, d)
	switch {
	case progress.Complete(f):
		return ui.Success.Render(ui.IconFull)
	case progress.Partial(f):
		return ui.Warning.Render(ui.IconPartial)
	default:
		return ui.Muted.Render(ui.IconEmpty)
	}
}

func gridSubCells(h *habit.Habit, sub *habit.SubHabit, rec habit.Record, days []time.Time, todayKey string) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(" " + gridSubCell(h, sub, rec, d, todayKey))
	}
	return b.String()
}

func gridSubCell(h *habit.Habit, sub *habit.SubHabit, rec habit.Record, d time.Time, todayKey string) string {
	day := habit.DayKey(d)
	if day > todayKey || !progress.SubScheduled(h, sub, d) {
		return ui.Muted.Render(ui.IconDot)
	}
	if sub.Quantitative() {
		switch v := rec.SubValue(sub.ID, day); {
		case v >= sub.Goal:
			return ui.Success.Render(ui.IconFull)
		case v > 0:
			return ui.Warning.Render(ui.IconPartial)
		default:
			return ui.Muted.Render(ui.IconEmpty)
		}
	}
	if rec.SubDone(sub.ID, day) {
		return ui.Success.Render(ui.IconFull)
	}
	return ui.Muted.Render(ui.IconEmpty)
}
