// Package service runs the batch rating pipeline: load both sources, merge,
// build the registry, fold the ratings, expand daily snapshots and write the
// artifacts.
package service

import (
	"context"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/domain/merge"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/domain/registry"
	"github.com/okian/msi/internal/domain/snapshot"
	"github.com/okian/msi/internal/domain/types"
	"github.com/okian/msi/pkg/logger"
	"github.com/okian/msi/pkg/metrics"
)

// TopSize is how many teams the run summary lists.
const TopSize = 20

// Pipeline stage labels used for duration metrics.
const (
	stageLoad     = "load"
	stageRegistry = "registry"
	stageFold     = "fold"
	stageSnapshot = "snapshot"
	stageWrite    = "write"
)

// Summary describes one completed run.
type Summary struct {
	RunID        string
	ComputedAt   string
	Loaded       map[string]int
	DroppedBroad int
	Ambiguities  int
	Malformed    int
	Processed    int
	Skipped      int
	Regressions  int
	Teams        int
	SnapshotDays int
	Warnings     []model.Issue
	Top          []types.Entry
	Outputs      []string
	Duration     time.Duration
}

// Pipeline is one configured batch run. It holds no state between runs.
type Pipeline struct {
	broad         merge.Source
	precise       merge.Source
	engineCfg     rating.Config
	writer        *artifact.Writer
	workers       int
	leagueCountry map[string]string
	clock         func() time.Time
	metricsFile   string

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithSources sets the broad and precise sources. Either may be nil.
func WithSources(broad, precise merge.Source) Option {
	return func(p *Pipeline) {
		p.broad = broad
		p.precise = precise
	}
}

// WithEngineConfig sets the rating engine parameters.
func WithEngineConfig(cfg rating.Config) Option {
	return func(p *Pipeline) {
		p.engineCfg = cfg
	}
}

// WithWriter sets the artifact writer.
func WithWriter(w *artifact.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithWorkers sets the snapshot pool size.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLeagueCountry replaces the league to country table.
func WithLeagueCountry(table map[string]string) Option {
	return func(p *Pipeline) {
		if len(table) > 0 {
			p.leagueCountry = table
		}
	}
}

// WithClock injects the time source used for computedAt.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithMetricsFile writes a Prometheus textfile after each successful run.
func WithMetricsFile(path string) Option {
	return func(p *Pipeline) {
		p.metricsFile = path
	}
}

// New constructs a Pipeline with default configuration.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		engineCfg:     rating.DefaultConfig(),
		writer:        artifact.NewWriter("output"),
		workers:       runtime.NumCPU(),
		leagueCountry: registry.DefaultLeagueCountry(),
		clock:         time.Now,
		metrics:       metrics.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline once. Fatal errors (missing input, invalid
// config) are returned before any artifact is written; recoverable problems
// end up in Summary.Warnings.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	s := &Summary{RunID: uuid.NewString(), Loaded: map[string]int{}}
	ctx = logger.WithFields(ctx, logger.String("run_id", s.RunID))
	log := p.log()

	engine, err := rating.NewEngine(p.engineCfg,
		rating.WithRegressionHook(func(ev rating.RegressionEvent) {
			p.metrics.RecordRegression()
			log.Info(ctx, "season break, ratings regressed",
				logger.String("date", model.FormatDay(ev.Date)),
				logger.Int("teams", ev.Teams),
			)
		}),
		rating.WithUpdateHook(func(rating.Update) {
			p.metrics.RecordMatchProcessed()
		}),
	)
	if err != nil {
		return nil, p.fail(ctx, "engine config rejected", err)
	}

	// Load and merge
	stop := p.stage(stageLoad)
	res, loaded, err := merge.LoadAndMerge(ctx, p.broad, p.precise)
	stop()
	if err != nil {
		return nil, p.fail(ctx, "loading sources failed", err)
	}
	for i, label := range []string{merge.SourceBroad, merge.SourcePrecise} {
		s.Loaded[label] = len(loaded[i].Matches)
		s.Malformed += len(loaded[i].Issues)
		s.Warnings = append(s.Warnings, loaded[i].Issues...)
		p.metrics.RecordMatchesLoaded(label, len(loaded[i].Matches))
		p.metrics.RecordMalformed(label, len(loaded[i].Issues))
	}
	s.DroppedBroad = res.DroppedBroad
	s.Ambiguities = res.Ambiguities()
	s.Warnings = append(s.Warnings, res.Issues...)
	p.metrics.RecordDuplicatesDropped(res.DroppedBroad)
	p.metrics.RecordMergeAmbiguities(s.Ambiguities)
	log.Info(ctx, "sources merged",
		logger.Int("broad", s.Loaded[merge.SourceBroad]),
		logger.Int("precise", s.Loaded[merge.SourcePrecise]),
		logger.Int("dropped_broad", res.DroppedBroad),
		logger.Int("ambiguities", s.Ambiguities),
		logger.Int("merged", len(res.Matches)),
	)

	stop = p.stage(stageRegistry)
	reg := registry.Build(res.Matches, registry.WithLeagueCountry(p.leagueCountry))
	stop()

	stop = p.stage(stageFold)
	fold := engine.Run(res.Matches)
	stop()
	s.Processed = fold.Processed
	s.Skipped = fold.Skipped
	s.Regressions = fold.Regressions
	s.Malformed += fold.Skipped
	s.Warnings = append(s.Warnings, fold.Issues...)
	p.metrics.RecordMalformed("fold", fold.Skipped)
	for _, is := range fold.Issues {
		log.Warn(ctx, "match skipped", logger.Int64("match_id", is.MatchID), logger.String("detail", is.Detail))
	}

	teams := engine.Teams()
	s.Teams = len(teams)

	stop = p.stage(stageSnapshot)
	series := make([]snapshot.Series, 0, len(teams))
	for _, t := range teams {
		series = append(series, snapshot.Series{Team: t.Team, Initial: t.Initial, History: t.RatingHistory})
	}
	daily, err := snapshot.Build(ctx, series, snapshot.WithWorkers(p.workers))
	stop()
	if err != nil {
		return nil, p.fail(ctx, "daily snapshots failed", err)
	}
	s.SnapshotDays = daily.Days()

	s.ComputedAt = p.clock().UTC().Format(time.RFC3339)
	stop = p.stage(stageWrite)
	err = p.writer.Write(artifact.Bundle{
		Ratings: artifact.RatingsFile{
			Config:           engine.Config(),
			ComputedAt:       s.ComputedAt,
			MatchesProcessed: s.Processed,
			Teams:            teams,
		},
		Daily:    daily,
		Registry: reg,
	})
	stop()
	if err != nil {
		return nil, p.fail(ctx, "writing artifacts failed", err)
	}
	s.Outputs = []string{p.writer.RatingsPath(), p.writer.DailyPath(), p.writer.RegistryPath()}
	s.Top = Leaderboard(teams, reg, TopSize)

	p.metrics.UpdateTeams(s.Teams)
	p.metrics.UpdateSnapshotDays(s.SnapshotDays)
	p.metrics.MarkRunCompleted(float64(p.clock().Unix()))
	if p.metricsFile != "" {
		if err := p.metrics.WriteTextfile(p.metricsFile); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.Error(err))
		}
	}

	s.Duration = time.Since(started)
	log.Info(ctx, "run complete",
		logger.Int("processed", s.Processed),
		logger.Int("teams", s.Teams),
		logger.Int("regressions", s.Regressions),
		logger.Int("warnings", len(s.Warnings)),
		logger.Duration("duration", s.Duration),
	)
	return s, nil
}

// Leaderboard converts sorted team states into at most n entries.
func Leaderboard(teams []rating.TeamState, reg map[string]model.RegistryEntry, n int) []types.Entry {
	if n > len(teams) || n < 0 {
		n = len(teams)
	}
	out := make([]types.Entry, 0, n)
	for i, t := range teams[:n] {
		r := reg[t.Team]
		out = append(out, types.Entry{
			Rank:    i + 1,
			Team:    t.Team,
			Rating:  t.Rating,
			League:  r.League,
			Country: r.Country,
			Matches: t.Matches,
			Wins:    t.Wins,
			Draws:   t.Draws,
			Losses:  t.Losses,
		})
	}
	return out
}

func (p *Pipeline) log() logger.Logger {
	if p.logger == nil {
		p.logger = logger.Named("pipeline")
	}
	return p.logger
}

func (p *Pipeline) stage(name string) func() {
	start := time.Now()
	return func() {
		p.metrics.RecordStageDuration(name, float64(time.Since(start).Microseconds())/1000)
	}
}

func (p *Pipeline) fail(ctx context.Context, msg string, err error) error {
	p.metrics.RecordRunFailure(errorKind(err))
	p.log().Error(ctx, msg, logger.Error(err))
	return errors.Wrap(err, msg)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrInputMissing):
		return "input_missing"
	case errors.Is(err, model.ErrConfigInvalid):
		return "config_invalid"
	case errors.Is(err, artifact.ErrWrite):
		return "write"
	default:
		return "other"
	}
}
