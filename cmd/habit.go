package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/store"
	"github.com/rnwolfe/hobbit/internal/ui"
)

// Flags for habit management commands.
var (
	addGoal float64
	addUnit string
	addFreq string

	editName string
	editGoal float64
	editUnit string
	editFreq string

	subGoal float64
	subUnit string
	subFreq string

	rmForce bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit",
	Long: `Add a habit to track. Without flags it's a simple daily checkbox.

Examples:
  hobbit add "Read"
  hobbit add "Run" --goal 5 --unit km
  hobbit add "Standup" --freq mon,tue,wed,thu,fri`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with their schedules and goals",
	RunE:  runList,
}

var editCmd = &cobra.Command{
	Use:   "edit <habit>",
	Short: "Change a habit's name, goal, unit, or schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:   "rm <habit>",
	Short: "Delete a habit and all its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage sub-habits",
}

var subAddCmd = &cobra.Command{
	Use:   "add <habit> <name>",
	Short: "Add a sub-habit under a habit",
	Long: `Add a sub-habit. The parent's own checkbox disappears: from now on its
completion is the average of its sub-habits. Existing history moves onto
the first sub-habit so past days keep their color.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSubAdd,
}

var subRmCmd = &cobra.Command{
	Use:   "rm <habit> <sub>",
	Short: "Delete a sub-habit and its history",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubRm,
}

func init() {
	addCmd.Flags().Float64Var(&addGoal, "goal", 0, "Numeric daily target (0 = simple checkbox)")
	addCmd.Flags().StringVar(&addUnit, "unit", "", "Unit for the goal (km, pages, reps)")
	addCmd.Flags().StringVar(&addFreq, "freq", "", "Scheduled days, comma-separated (mon,wed,fri); empty = every day")

	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().Float64Var(&editGoal, "goal", -1, "New numeric target (0 = simple checkbox)")
	editCmd.Flags().StringVar(&editUnit, "unit", "", "New unit")
	editCmd.Flags().StringVar(&editFreq, "freq", "", "New schedule (use 'daily' to clear)")

	subAddCmd.Flags().Float64Var(&subGoal, "goal", 0, "Numeric daily target (0 = simple checkbox)")
	subAddCmd.Flags().StringVar(&subUnit, "unit", "", "Unit for the goal")
	subAddCmd.Flags().StringVar(&subFreq, "freq", "", "Scheduled days; empty = inherit the parent's")

	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Skip the confirmation prompt")

	subCmd.AddCommand(subAddCmd)
	subCmd.AddCommand(subRmCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	freq, err := habit.ParseFrequency(addFreq)
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	hs := habit.NewStore(db.Conn())
	h, err := hs.Add(name, addGoal, addUnit, freq)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Added %s — scheduled %s", habitLabel(h), habit.FrequencyLabel(h.Frequency)))
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
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

	ui.Header(ui.IconHobbit + " Habits")
	for i := range habits {
		h := &habits[i]
		ui.Kv(habitLabel(h), ui.Muted.Render(habit.FrequencyLabel(h.Frequency)))
		for j := range h.Subs {
			sub := &h.Subs[j]
			label := "  " + ui.IconDot + " " + sub.Name
			if sub.Quantitative() {
				label += fmt.Sprintf(" (%g %s)", sub.Goal, sub.Unit)
			}
			ui.Kv(label, ui.Muted.Render(habit.FrequencyLabel(sub.Frequency)))
		}
	}
	fmt.Println()
	return nil
}

func runEdit(_ *cobra.Command, args []string) error {
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

	name := h.Name
	if editName != "" {
		name = editName
	}
	goal := h.Goal
	if editGoal >= 0 {
		goal = editGoal
	}
	unit := h.Unit
	if editUnit != "" {
		unit = editUnit
	}
	freq := h.Frequency
	if editFreq != "" {
		if strings.EqualFold(editFreq, "daily") {
			freq = nil
		} else {
			freq, err = habit.ParseFrequency(editFreq)
			if err != nil {
				return err
			}
		}
	}

	if err := hs.Update(h.ID, name, goal, unit, freq); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Updated %s", name))
	return nil
}

func runRm(_ *cobra.Command, args []string) error {
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

	if !rmForce {
		fmt.Printf("Delete %s and all its history? [y/N] ", ui.Accent.Render(h.Name))
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			ui.Puts(ui.Muted.Render("  Kept."))
			return nil
		}
	}

	if err := hs.Delete(h.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %s", h.Name))
	return nil
}

func runSubAdd(_ *cobra.Command, args []string) error {
	name := strings.Join(args[1:], " ")
	var freq []string
	if subFreq != "" {
		var err error
		freq, err = habit.ParseFrequency(subFreq)
		if err != nil {
			return err
		}
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

	migrated := len(h.Subs) == 0
	sub, err := hs.AddSub(h.ID, name, subGoal, subUnit, freq)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Added %s under %s", sub.Name, h.Name))
	if migrated {
		ui.Inf(fmt.Sprintf("%s's past check-ins moved onto %s.", h.Name, sub.Name))
	}
	return nil
}

func runSubRm(_ *cobra.Command, args []string) error {
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
	sub, err := habit.ResolveSub(h, args[1])
	if err != nil {
		return err
	}

	if err := hs.Delete(sub.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %s from %s", sub.Name, h.Name))
	return nil
}
