package rating

import (
	"cmp"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
)

// Update describes the effect of one processed match.
type Update struct {
	MatchID    int64
	Home       string
	Away       string
	HomeBefore float64
	AwayBefore float64
	Expected   float64 // home side
	Multiplier float64
	K          float64
	// Delta is added to the home rating and subtracted from the away rating.
	Delta     float64
	Regressed bool
}

// RegressionEvent is emitted once per detected season break.
type RegressionEvent struct {
	Date  time.Time
	Teams int
}

// Summary aggregates a whole fold.
type Summary struct {
	Processed   int
	Skipped     int
	Regressions int
	Issues      []model.Issue
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRegressionHook registers fn to be called after every regression pass.
func WithRegressionHook(fn func(RegressionEvent)) Option {
	return func(e *Engine) {
		e.onRegression = fn
	}
}

// WithUpdateHook registers fn to be called after every processed match.
func WithUpdateHook(fn func(Update)) Option {
	return func(e *Engine) {
		e.onUpdate = fn
	}
}

// Engine is the sequential rating fold. It is not safe for concurrent use:
// the result depends on the exact order of floating-point operations.
type Engine struct {
	cfg      Config
	detector *SeasonDetector
	teams    map[string]*TeamState
	last     time.Time

	processed   int
	regressions int

	onRegression func(RegressionEvent)
	onUpdate     func(Update)
}

// NewEngine validates cfg and returns an empty engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	e := &Engine{
		cfg:      cfg,
		detector: NewSeasonDetector(cfg.SeasonGap()),
		teams:    make(map[string]*TeamState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg.Clone()
}

// Process folds one match. Matches must arrive in non-decreasing timestamp
// order; malformed or out-of-order matches are rejected without touching
// any state.
func (e *Engine) Process(m model.Match) (Update, error) {
	if err := m.Validate(); err != nil {
		return Update{}, err
	}
	if m.Date.Before(e.last) {
		return Update{}, errors.Mark(
			errors.Newf("match %d at %s precedes previous match at %s", m.ID, m.Date.Format(time.RFC3339), e.last.Format(time.RFC3339)),
			model.ErrMalformedRecord)
	}
	e.last = m.Date

	up := Update{MatchID: m.ID, Home: m.HomeTeam, Away: m.AwayTeam}

	// Regression applies to teams known before this match, so it runs
	// before the participants are created.
	if e.detector.Observe(m.Date) && e.cfg.SeasonRegression > 0 {
		e.regress(m.Date)
		up.Regressed = true
	}

	home := e.getOrCreate(m.HomeTeam, m.League)
	away := e.getOrCreate(m.AwayTeam, m.League)
	up.HomeBefore, up.AwayBefore = home.Rating, away.Rating

	up.Expected = Expected(home.Rating, away.Rating, e.cfg.HomeAdvantage)
	sHome, _ := Actual(m.HomeGoals, m.AwayGoals)
	up.Multiplier = 1
	if e.cfg.GoalMarginFactor {
		up.Multiplier = MarginMultiplier(m.HomeGoals - m.AwayGoals)
	}
	up.K = e.cfg.EffectiveK(m.League)
	up.Delta = up.K * up.Multiplier * (sHome - up.Expected)

	home.Rating += up.Delta
	away.Rating -= up.Delta
	home.record(m.HomeGoals, m.AwayGoals, m.Date)
	away.record(m.AwayGoals, m.HomeGoals, m.Date)

	e.processed++
	if e.onUpdate != nil {
		e.onUpdate(up)
	}
	return up, nil
}

// Run folds a whole sequence, skipping malformed records.
func (e *Engine) Run(matches []model.Match) Summary {
	var s Summary
	before := e.regressions
	for _, m := range matches {
		if _, err := e.Process(m); err != nil {
			s.Skipped++
			s.Issues = append(s.Issues, model.Issue{Kind: model.IssueMalformed, MatchID: m.ID, Detail: err.Error()})
			continue
		}
		s.Processed++
	}
	s.Regressions = e.regressions - before
	return s
}

// Processed returns the number of matches folded so far.
func (e *Engine) Processed() int { return e.processed }

// Regressions returns the number of regression passes applied so far.
func (e *Engine) Regressions() int { return e.regressions }

// Team returns a copy of one team's state.
func (e *Engine) Team(name string) (TeamState, bool) {
	t, ok := e.teams[name]
	if !ok {
		return TeamState{}, false
	}
	return t.clone(), true
}

// Teams returns copies of every team state sorted by rating descending,
// ties by name.
func (e *Engine) Teams() []TeamState {
	out := make([]TeamState, 0, len(e.teams))
	for _, t := range e.teams {
		out = append(out, t.clone())
	}
	slices.SortFunc(out, func(a, b TeamState) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	return out
}

func (e *Engine) getOrCreate(team, league string) *TeamState {
	t, ok := e.teams[team]
	if !ok {
		t = newTeamState(team, league, e.cfg)
		e.teams[team] = t
	}
	return t
}

func (e *Engine) regress(at time.Time) {
	names := make([]string, 0, len(e.teams))
	for name := range e.teams {
		names = append(names, name)
	}
	slices.Sort(names)

	day := model.FormatDay(at)
	for _, name := range names {
		t := e.teams[name]
		t.Rating = Regress(t.Rating, e.cfg.Baseline(t.League), e.cfg.SeasonRegression)
		t.observe(day)
	}
	e.regressions++
	if e.onRegression != nil {
		e.onRegression(RegressionEvent{Date: at, Teams: len(names)})
	}
}
