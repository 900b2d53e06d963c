package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Week start values accepted in config.
const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
)

// DefaultStreakLookback is the maximum number of days the streak walker
// looks back. Bounds the walk for habits whose schedule never produces a
// zero-completion stop (e.g. a frequency set full of unknown symbols).
const DefaultStreakLookback = 3650

// Config holds the top-level hobbit configuration.
type Config struct {
	User   UserConfig   `toml:"user"`
	UI     UIConfig     `toml:"ui"`
	Habits HabitsConfig `toml:"habits"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

// UIConfig controls how grids and heatmaps are laid out.
type UIConfig struct {
	// WeekStart is "sunday" or "monday". Heatmap columns follow it.
	// Defaults to sunday, matching the classic contribution-graph layout.
	WeekStart string `toml:"week_start"`
}

// HabitsConfig tunes progress engine behavior.
type HabitsConfig struct {
	// StreakLookbackDays caps how far back the streak walk goes.
	// 0 or missing means DefaultStreakLookback.
	StreakLookbackDays int `toml:"streak_lookback_days"`
}

// Lookback returns the effective streak lookback cap.
func (h HabitsConfig) Lookback() int {
	if h.StreakLookbackDays <= 0 {
		return DefaultStreakLookback
	}
	return h.StreakLookbackDays
}

// NormalizeWeekStart validates a week-start value. Empty means sunday.
func NormalizeWeekStart(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", WeekStartSunday, "sun":
		return WeekStartSunday, nil
	case WeekStartMonday, "mon":
		return WeekStartMonday, nil
	default:
		return "", fmt.Errorf("invalid week start %q — valid values: sunday, monday", s)
	}
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	hobbitConfig := filepath.Join(configDir, "hobbit")
	hobbitData := filepath.Join(dataDir, "hobbit")

	return Paths{
		ConfigDir:  hobbitConfig,
		DataDir:    hobbitData,
		CacheDir:   filepath.Join(cacheDir, "hobbit"),
		StateDir:   filepath.Join(stateDir, "hobbit"),
		ConfigFile: filepath.Join(hobbitConfig, "config.toml"),
		DBFile:     filepath.Join(hobbitData, "hobbit.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := &Config{}

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.UI.WeekStart == "" {
		cfg.UI.WeekStart = WeekStartSunday
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if hobbit has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

func defaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			WeekStart: WeekStartSunday,
		},
		Habits: HabitsConfig{
			StreakLookbackDays: DefaultStreakLookback,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
