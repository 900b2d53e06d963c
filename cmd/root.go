package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/hobbit/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "hobbit",
	Short: "Grow habits, one day at a time",
	Long:  `hobbit — a habit tracker that lives in your terminal. Check in, build streaks, watch the garden fill in.`,
	RunE:  runGrid,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	// The bare `hobbit` invocation is the grid, so the grid flags live on
	// both commands.
	addGridFlags(rootCmd.Flags())
}
