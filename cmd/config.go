package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/hobbit/internal/config"
	"github.com/rnwolfe/hobbit/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Run: func(_ *cobra.Command, _ []string) {
		paths := config.GetPaths()
		fmt.Println(paths.ConfigFile)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:
  user.name        Your display name
  ui.week_start    First column of the heatmap (sunday/monday)
  streak.lookback  Max days the streak calculation walks back`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

// configKeys maps user-facing key names to getter/setter pairs.
var configKeys = map[string]struct {
	get func(*config.Config) string
	set func(*config.Config, string) error
}{
	"user.name": {
		get: func(cfg *config.Config) string { return cfg.User.Name },
		set: func(cfg *config.Config, val string) error {
			cfg.User.Name = val
			return nil
		},
	},
	"ui.week_start": {
		get: func(cfg *config.Config) string { return cfg.UI.WeekStart },
		set: func(cfg *config.Config, val string) error {
			ws, err := config.NormalizeWeekStart(val)
			if err != nil {
				return err
			}
			cfg.UI.WeekStart = ws
			return nil
		},
	},
	"streak.lookback": {
		get: func(cfg *config.Config) string {
			return strconv.Itoa(cfg.Habits.Lookback())
		},
		set: func(cfg *config.Config, val string) error {
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid value %q for streak.lookback (positive day count)", val)
			}
			cfg.Habits.StreakLookbackDays = n
			return nil
		},
	},
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	entry, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (run %s to see available keys)",
			key, ui.Accent.Render("hobbit config set --help"))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := entry.set(cfg, value); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s = %s", key, value))
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	key := args[0]

	entry, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println(entry.get(cfg))
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	paths := config.GetPaths()

	ui.Header("Configuration")
	ui.Kv("Name", cfg.User.Name)
	ui.Kv("Week start", cfg.UI.WeekStart)
	ui.Kv("Streak lookback", strconv.Itoa(cfg.Habits.Lookback())+" days")
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Data", paths.DBFile)
	fmt.Println()
	return nil
}
