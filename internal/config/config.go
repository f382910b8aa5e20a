// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Keys are flat snake_case so that MSI_* env vars map onto them directly.
// - Provide New() to build a Config with defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"maps"
	"runtime"

	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/domain/registry"
)

// Source formats understood by the pipeline.
const (
	FormatJSON         = "json"
	FormatFootballData = "football-data-csv"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// LogFormat selects the encoder: json or console.
	LogFormat string `koanf:"log_format" validate:"oneof=json console text"`

	// Addr configures the read API listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// BroadSource and PreciseSource point at the two match sources. At least
	// one must be set when computing.
	BroadSource   string `koanf:"broad_source"`
	BroadFormat   string `koanf:"broad_format" validate:"oneof=json football-data-csv"`
	PreciseSource string `koanf:"precise_source"`
	PreciseFormat string `koanf:"precise_format" validate:"oneof=json football-data-csv"`

	// EngineConfig optionally names an engine configuration JSON file. When
	// set it replaces the engine keys below.
	EngineConfig string `koanf:"engine_config"`

	// OutputDir holds the three artifacts.
	OutputDir    string `koanf:"output_dir" validate:"required"`
	RatingsFile  string `koanf:"ratings_file" validate:"required"`
	DailyFile    string `koanf:"daily_file" validate:"required"`
	RegistryFile string `koanf:"registry_file" validate:"required"`
	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	// SnapshotWorkers sizes the daily snapshot pool.
	SnapshotWorkers int `koanf:"snapshot_workers" validate:"gt=0"`

	InitialRating    float64            `koanf:"initial_rating"`
	KFactor          float64            `koanf:"k_factor"`
	HomeAdvantage    float64            `koanf:"home_advantage"`
	GoalMargin       bool               `koanf:"goal_margin"`
	LeagueStrength   map[string]float64 `koanf:"league_strength"`
	LeagueBaseline   map[string]float64 `koanf:"league_baseline"`
	SeasonRegression float64            `koanf:"season_regression"`
	SeasonGapDays    int                `koanf:"season_gap_days"`

	// LeagueCountry maps league codes to country codes for the registry.
	LeagueCountry map[string]string `koanf:"league_country"`
	// NameMapping optionally names a JSON object renaming source team names.
	NameMapping string `koanf:"name_mapping"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "json",
		Addr:                ":9080",
		BroadFormat:         FormatJSON,
		PreciseFormat:       FormatJSON,
		OutputDir:           "output",
		RatingsFile:         "msi_ratings.json",
		DailyFile:           "msi_daily.json",
		RegistryFile:        "teams_registry.json",
		SnapshotWorkers:     runtime.NumCPU(),
		InitialRating:       rating.DefaultInitialRating,
		KFactor:             rating.DefaultKFactor,
		HomeAdvantage:       rating.DefaultHomeAdvantage,
		GoalMargin:          true,
		SeasonGapDays:       rating.DefaultSeasonGapDays,
		LeagueCountry:       registry.DefaultLeagueCountry(),
		MaxLeaderboardLimit: 100,
	}
}

// Engine builds the rating engine configuration from the engine keys.
func (c *Config) Engine() rating.Config {
	return rating.Config{
		InitialRating:    c.InitialRating,
		KFactor:          c.KFactor,
		HomeAdvantage:    c.HomeAdvantage,
		GoalMarginFactor: c.GoalMargin,
		LeagueStrength:   maps.Clone(c.LeagueStrength),
		LeagueBaseline:   maps.Clone(c.LeagueBaseline),
		SeasonRegression: c.SeasonRegression,
		SeasonGapDays:    c.SeasonGapDays,
	}
}
