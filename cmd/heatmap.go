package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/hobbit/internal/config"
	"github.com/rnwolfe/hobbit/internal/habit"
	"github.com/rnwolfe/hobbit/internal/progress"
	"github.com/rnwolfe/hobbit/internal/store"
	"github.com/rnwolfe/hobbit/internal/ui"
)

var heatmapYear int

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the yearly contribution-style heatmap",
	Long: `A year at a glance, all habits combined. Deeper green means a more
complete day; days that haven't happened yet are blank.`,
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().IntVarP(&heatmapYear, "year", "y", 0, "Year to show (default current)")
}

func runHeatmap(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	now := time.Now()
	year := heatmapYear
	if year == 0 {
		year = now.Year()
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
	recs, err := hs.Records()
	if err != nil {
		return err
	}

	stats := progress.Year(habits, recs, year, now)
	ui.Puts(renderHeatmap(stats, year, cfg.UI.WeekStart, now.Location()))
	return nil
}

// renderHeatmap lays the year out in weekly columns, one row per weekday.
func renderHeatmap(stats progress.YearStats, year int, weekStart string, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(ui.Title.Render(fmt.Sprintf("  %s %d", ui.IconCal, year)) + "\n\n")

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	startPad := weekdayRow(jan1.Weekday(), weekStart)
	weeks := (startPad + len(stats.Days) + 6) / 7

	labels := rowLabels(weekStart)
	for row := 0; row < 7; row++ {
		b.WriteString("  " + ui.Muted.Render(labels[row]) + " ")
		for week := 0; week < weeks; week++ {
			idx := week*7 + row - startPad
			if idx < 0 || idx >= len(stats.Days) {
				b.WriteString("  ")
				continue
			}
			b.WriteString(" " + heatCell(stats.Days[idx]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + ui.Muted.Render("less") + " ")
	for level := 1; level < progress.LevelCount; level++ {
		b.WriteString(ui.HeatLevels[level].Render("■") + " ")
	}
	b.WriteString(ui.Muted.Render("more") + "\n\n")

	b.WriteString(fmt.Sprintf("  %s %s active days",
		ui.IconSeed, ui.Accent.Render(fmt.Sprint(stats.TotalActive))))
	b.WriteString(fmt.Sprintf("   %s %s best streak\n",
		ui.IconFire, ui.Accent.Render(fmt.Sprint(stats.MaxStreak))))
	return b.String()
}

func heatCell(intensity float64) string {
	level := progress.Bucket(intensity)
	if level == progress.LevelNoData {
		return ui.HeatLevels[level].Render(ui.IconDot)
	}
	return ui.HeatLevels[level].Render("■")
}

// weekdayRow maps a weekday to its row given the configured week start.
func weekdayRow(wd time.Weekday, weekStart string) int {
	if weekStart == config.WeekStartMonday {
		return (int(wd) + 6) % 7
	}
	return int(wd)
}

func rowLabels(weekStart string) [7]string {
	if weekStart == config.WeekStartMonday {
		return [7]string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}
	}
	return [7]string{"Sun", "   ", "Tue", "   ", "Thu", "   ", "Sat"}
}
