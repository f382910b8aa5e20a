// Package seed generates deterministic synthetic match lists for running the
// pipeline without an external data feed.
package seed

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/pkg/logger"
)

// Generator defaults.
const (
	DefaultSeed      = 42
	DefaultStartYear = 2023
	DefaultSeasons   = 2
	FirstID          = 100000
	DefaultStrength  = 0.5
)

// Match simulation constants.
const (
	homeAdvantage   = 0.10
	baseHomeWin     = 0.35
	homeWinSlope    = 1.2
	baseDraw        = 0.28
	drawSlope       = 0.5
	minHomeWin      = 0.08
	maxHomeWin      = 0.88
	minDraw         = 0.08
	maxDraw         = 0.35
	minAwayWin      = 0.04
	winnerGoalsBase = 0.3
	winnerGoalsMul  = 0.9
	marginMul       = 1.5
	drawGoalsBase   = 0.5
	drawGoalsMul    = 0.5
	maxPoissonGoals = 8
	seasonSpanDays  = 280
	kickoffJitter   = 3
)

// ErrInvalidConfig is returned for unusable generator settings.
var ErrInvalidConfig = errors.New("invalid seed configuration")

// Config holds generator settings.
type Config struct {
	Seed      uint32             // PRNG seed
	StartYear int                // First season start year
	Seasons   int                // Number of consecutive seasons
	Leagues   []League           // Leagues in generation order
	Strengths map[string]float64 // Hidden team strengths; missing teams get DefaultStrength
}

// DefaultConfig returns the five leagues over the 2023 and 2024 seasons.
func DefaultConfig() Config {
	return Config{
		Seed:      DefaultSeed,
		StartYear: DefaultStartYear,
		Seasons:   DefaultSeasons,
		Leagues:   DefaultLeagues(),
		Strengths: DefaultStrengths(),
	}
}

func (c Config) validate() error {
	if c.Seasons <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "seasons must be positive, got %d", c.Seasons)
	}
	if len(c.Leagues) == 0 {
		return errors.Wrap(ErrInvalidConfig, "no leagues")
	}
	for _, l := range c.Leagues {
		if len(l.Rosters) == 0 {
			return errors.Wrapf(ErrInvalidConfig, "league %s has no roster", l.Code)
		}
	}
	return nil
}

// BatchID is a stable identifier for the match list produced by cfg's seed
// and season range.
func BatchID(cfg Config) string {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], cfg.Seed)
	binary.BigEndian.PutUint32(buf[4:8], uint32(cfg.StartYear)) //nolint:gosec // years fit
	binary.BigEndian.PutUint32(buf[8:12], uint32(cfg.Seasons))  //nolint:gosec // small positive
	return uuid.NewSHA1(uuid.NameSpaceOID, buf[:]).String()
}

// Generate plays a double round-robin for every league and season and
// returns the matches sorted by date then ID. Identical configs give
// identical output.
func Generate(ctx context.Context, cfg Config) ([]model.Match, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := logger.Named("seed")

	rng := NewMulberry32(cfg.Seed)
	nextID := int64(FirstID)
	var all []model.Match
	for _, league := range cfg.Leagues {
		for year := cfg.StartYear; year < cfg.StartYear+cfg.Seasons; year++ {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "seed generation cancelled")
			}
			ms := season(league.Code, league.Roster(year), year, cfg.Strengths, rng, nextID)
			nextID += int64(len(ms))
			all = append(all, ms...)
			log.Debug(ctx, "season generated",
				logger.String("league", league.Code),
				logger.Int("year", year),
				logger.Int("matches", len(ms)))
		}
	}

	slices.SortStableFunc(all, func(a, b model.Match) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	log.Info(ctx, "seed matches generated",
		logger.String("batch", BatchID(cfg)),
		logger.Int("matches", len(all)))
	return all, nil
}

func season(league string, teams []string, year int, strengths map[string]float64, rng *Mulberry32, idStart int64) []model.Match {
	n := len(teams)
	if n < 2 {
		return nil
	}
	type fixture struct{ home, away int }
	fixtures := make([]fixture, 0, n*(n-1))
	for i := range n {
		for j := range n {
			if i != j {
				fixtures = append(fixtures, fixture{i, j})
			}
		}
	}

	label := fmt.Sprintf("%d-%d", year, year+1)
	start := SeasonStart(year)
	totalRounds := (n - 1) * 2
	perRound := n / 2

	out := make([]model.Match, 0, len(fixtures))
	for f, fx := range fixtures {
		home, away := teams[fx.home], teams[fx.away]
		hg, ag := simulate(strength(strengths, home), strength(strengths, away), rng)

		offset := f * seasonSpanDays / len(fixtures)
		offset += int(rng.Float64() * kickoffJitter)

		out = append(out, model.Match{
			ID:        idStart + int64(f),
			Date:      start.AddDate(0, 0, offset),
			League:    league,
			Season:    label,
			HomeTeam:  home,
			AwayTeam:  away,
			HomeGoals: hg,
			AwayGoals: ag,
			Matchday:  min(f/perRound+1, totalRounds),
		})
	}
	return out
}

func strength(table map[string]float64, team string) float64 {
	if s, ok := table[team]; ok && s != 0 {
		return s
	}
	return DefaultStrength
}

// simulate picks the outcome first, then a plausible scoreline for it.
func simulate(home, away float64, rng *Mulberry32) (int, int) {
	diff := home + homeAdvantage - away
	pHome := clamp(baseHomeWin+diff*homeWinSlope, minHomeWin, maxHomeWin)
	pDraw := clamp(baseDraw-math.Abs(diff)*drawSlope, minDraw, maxDraw)
	pAway := math.Max(minAwayWin, 1-pHome-pDraw)
	total := pHome + pDraw + pAway

	r := rng.Float64()
	switch {
	case r < pHome/total:
		w, l := winner(home, away, diff, rng)
		return w, l
	case r < (pHome+pDraw)/total:
		g := poisson(drawGoalsBase+(home+away)*drawGoalsMul, rng)
		return g, g
	default:
		w, l := winner(home, away, diff, rng)
		return l, w
	}
}

func winner(home, away, diff float64, rng *Mulberry32) (int, int) {
	goals := 1 + poisson(winnerGoalsBase+(home+away)/2*winnerGoalsMul, rng)
	margin := 1 + poisson(math.Abs(diff)*marginMul, rng)
	return goals, max(0, goals-margin)
}

// poisson samples by inverting the CDF, capped at maxPoissonGoals.
func poisson(lambda float64, rng *Mulberry32) int {
	goals := 0
	p := math.Exp(-lambda)
	sum := p
	r := rng.Float64()
	for sum < r && goals < maxPoissonGoals {
		goals++
		p *= lambda / float64(goals)
		sum += p
	}
	return goals
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
