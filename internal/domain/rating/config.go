// Package rating implements the Elo-family rating engine: expected score,
// goal-margin scaling, per-league K multipliers and season-break regression.
package rating

import (
	"maps"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/okian/msi/internal/domain/model"
)

// Default engine parameters.
const (
	DefaultInitialRating = 1500
	DefaultKFactor       = 32
	DefaultHomeAdvantage = 75
	DefaultSeasonGapDays = 60
)

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Config parameterises the engine. The JSON form is the engine configuration
// artifact and is echoed into the ratings file.
type Config struct {
	InitialRating    float64            `json:"initialRating"`
	KFactor          float64            `json:"kFactor" validate:"gt=0"`
	HomeAdvantage    float64            `json:"homeAdvantage"`
	GoalMarginFactor bool               `json:"goalMarginFactor"`
	LeagueStrength   map[string]float64 `json:"leagueStrength,omitempty" validate:"omitempty,dive,gt=0"`
	LeagueBaseline   map[string]float64 `json:"leagueBaseline,omitempty"`
	SeasonRegression float64            `json:"seasonRegression,omitempty" validate:"gte=0,lt=1"`
	SeasonGapDays    int                `json:"seasonGapDays,omitempty" validate:"gte=0"`
}

// DefaultConfig returns the baseline variant: 1500 start, K 32, 75 points of
// home advantage, goal-margin scaling on, no league tables, no regression.
func DefaultConfig() Config {
	return Config{
		InitialRating:    DefaultInitialRating,
		KFactor:          DefaultKFactor,
		HomeAdvantage:    DefaultHomeAdvantage,
		GoalMarginFactor: true,
		SeasonGapDays:    DefaultSeasonGapDays,
	}
}

// Validate reports an unusable configuration marked with ErrConfigInvalid.
func (c Config) Validate() error {
	for _, v := range []float64{c.InitialRating, c.KFactor, c.HomeAdvantage, c.SeasonRegression} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Mark(errors.New("rating parameters must be finite"), model.ErrConfigInvalid)
		}
	}
	for league, v := range c.LeagueBaseline {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Mark(errors.Newf("baseline for league %q must be finite", league), model.ErrConfigInvalid)
		}
	}
	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "engine config"), model.ErrConfigInvalid)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate engine tables.
func (c Config) Clone() Config {
	c.LeagueStrength = maps.Clone(c.LeagueStrength)
	c.LeagueBaseline = maps.Clone(c.LeagueBaseline)
	return c
}

// SeasonGap returns the configured gap, falling back to the default.
func (c Config) SeasonGap() int {
	if c.SeasonGapDays <= 0 {
		return DefaultSeasonGapDays
	}
	return c.SeasonGapDays
}

// EffectiveK scales the base K by the league multiplier, if any.
func (c Config) EffectiveK(league string) float64 {
	if m, ok := c.LeagueStrength[league]; ok {
		return c.KFactor * m
	}
	return c.KFactor
}

// Baseline is both the initial rating of a new team in league and the
// regression target for it.
func (c Config) Baseline(league string) float64 {
	if b, ok := c.LeagueBaseline[league]; ok {
		return b
	}
	return c.InitialRating
}
