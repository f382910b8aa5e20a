package service_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/adapters/source"
	service "github.com/okian/msi/internal/app"
	"github.com/okian/msi/internal/domain/merge"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/pkg/logger"
	"github.com/okian/msi/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

const broadJSON = `[
  {"id": 1, "date": "2024-08-17T14:00:00Z", "league": "PL", "season": "2024-2025", "homeTeam": "Arsenal", "awayTeam": "Wolves", "homeGoals": 2, "awayGoals": 0},
  {"id": 2, "date": "2024-08-18T15:00:00Z", "league": "PL", "season": "2024-2025", "homeTeam": "Chelsea", "awayTeam": "Man City", "homeGoals": 0, "awayGoals": 2},
  {"id": 3, "date": "2024-08-24T11:30:00Z", "league": "PL", "season": "2024-2025", "homeTeam": "Wolves", "awayTeam": "Chelsea", "homeGoals": 2, "awayGoals": 6},
  {"id": 4, "date": "2024-08-24T14:00:00Z", "league": "PL", "season": "2024-2025", "homeTeam": "Arsenal", "awayTeam": "Arsenal", "homeGoals": 1, "awayGoals": 0}
]`

const preciseJSON = `[
  {"id": 10, "date": "2024-08-18T16:30:00Z", "league": "PL", "season": "2024-2025", "homeTeam": "Chelsea", "awayTeam": "Man City", "homeGoals": 0, "awayGoals": 2},
  {"id": 11, "date": "2024-08-25T13:00:00Z", "league": "PL", "season": "2024-2025", "homeTeam": "Arsenal", "awayTeam": "Man City", "homeGoals": 1, "awayGoals": 1}
]`

var fixedClock = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

func testLogger() logger.Logger {
	l, err := logger.New(logger.WithOutput(io.Discard))
	if err != nil {
		panic(err)
	}
	return l
}

func jsonSource(name, dir, file, content string) merge.Source {
	path := filepath.Join(dir, file)
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			panic(err)
		}
	}
	src, err := source.New(name, path, source.FormatJSON)
	if err != nil {
		panic(err)
	}
	return src
}

func newPipeline(inDir, outDir string, opts ...service.Option) *service.Pipeline {
	base := []service.Option{
		service.WithSources(
			jsonSource(merge.SourceBroad, inDir, "broad.json", broadJSON),
			jsonSource(merge.SourcePrecise, inDir, "precise.json", preciseJSON),
		),
		service.WithWriter(artifact.NewWriter(outDir)),
		service.WithClock(fixedClock),
		service.WithLogger(testLogger()),
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
		service.WithWorkers(2),
	}
	return service.New(append(base, opts...)...)
}

func TestPipeline_Run(t *testing.T) {
	Convey("Given two overlapping sources", t, func() {
		inDir := t.TempDir()
		outDir := filepath.Join(t.TempDir(), "out")
		p := newPipeline(inDir, outDir)

		Convey("When the pipeline runs", func() {
			s, err := p.Run(context.Background())

			Convey("Then the summary counts every stage", func() {
				So(err, ShouldBeNil)
				So(s.RunID, ShouldNotBeEmpty)
				So(s.ComputedAt, ShouldEqual, "2025-01-01T00:00:00Z")
				So(s.Loaded[merge.SourceBroad], ShouldEqual, 3)
				So(s.Loaded[merge.SourcePrecise], ShouldEqual, 2)
				So(s.Malformed, ShouldEqual, 1)
				So(s.DroppedBroad, ShouldEqual, 1)
				So(s.Ambiguities, ShouldEqual, 0)
				So(s.Processed, ShouldEqual, 4)
				So(s.Regressions, ShouldEqual, 0)
				So(s.Teams, ShouldEqual, 4)
				So(s.Top, ShouldHaveLength, 4)
				So(s.Outputs, ShouldHaveLength, 3)
			})

			Convey("Then the leaderboard is sorted by rating", func() {
				for i := 1; i < len(s.Top); i++ {
					So(s.Top[i-1].Rating, ShouldBeGreaterThanOrEqualTo, s.Top[i].Rating)
					So(s.Top[i].Rank, ShouldEqual, i+1)
				}
				So(s.Top[0].Country, ShouldEqual, "ENG")
			})

			Convey("Then the ratings artifact is written and zero-sum", func() {
				ratings, err := artifact.ReadRatings(filepath.Join(outDir, artifact.DefaultRatingsFile))
				So(err, ShouldBeNil)
				So(ratings.MatchesProcessed, ShouldEqual, 4)
				So(ratings.ComputedAt, ShouldEqual, "2025-01-01T00:00:00Z")
				So(ratings.Config.KFactor, ShouldEqual, rating.DefaultKFactor)

				total := 0.0
				for _, team := range ratings.Teams {
					total += team.Rating
				}
				So(total, ShouldAlmostEqual, 4*rating.DefaultInitialRating, 1e-9)
			})

			Convey("Then every team has a gap-free daily series", func() {
				daily, err := artifact.ReadDaily(filepath.Join(outDir, artifact.DefaultDailyFile))
				So(err, ShouldBeNil)
				So(daily, ShouldHaveLength, 4)
				// Arsenal plays on the 17th and the 25th.
				So(daily["Arsenal"], ShouldHaveLength, 9)
				So(daily["Arsenal"][0].Date, ShouldEqual, "2024-08-17")
				So(daily["Arsenal"][8].Date, ShouldEqual, "2024-08-25")
			})

			Convey("Then the registry records appearances", func() {
				reg, err := artifact.ReadRegistry(filepath.Join(outDir, artifact.DefaultRegistryFile))
				So(err, ShouldBeNil)
				So(reg["Man City"].MatchesPlayed, ShouldEqual, 2)
				So(reg["Man City"].Country, ShouldEqual, "ENG")
			})
		})
	})

	Convey("Given the same inputs run twice with a fixed clock", t, func() {
		inDir := t.TempDir()
		outA := filepath.Join(t.TempDir(), "a")
		outB := filepath.Join(t.TempDir(), "b")

		a, errA := newPipeline(inDir, outA).Run(context.Background())
		b, errB := newPipeline(inDir, outB, service.WithWorkers(7)).Run(context.Background())

		Convey("Then the artifacts are byte-identical", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a.RunID, ShouldNotEqual, b.RunID)
			for _, name := range []string{artifact.DefaultRatingsFile, artifact.DefaultDailyFile, artifact.DefaultRegistryFile} {
				left, err := os.ReadFile(filepath.Join(outA, name))
				So(err, ShouldBeNil)
				right, err := os.ReadFile(filepath.Join(outB, name))
				So(err, ShouldBeNil)
				So(string(left), ShouldEqual, string(right))
			}
		})
	})
}

func TestPipeline_FatalErrors(t *testing.T) {
	Convey("Given a missing precise source", t, func() {
		inDir := t.TempDir()
		outDir := filepath.Join(t.TempDir(), "out")
		p := newPipeline(inDir, outDir, service.WithSources(
			jsonSource(merge.SourceBroad, inDir, "broad.json", broadJSON),
			jsonSource(merge.SourcePrecise, inDir, "absent.json", ""),
		))

		Convey("When the pipeline runs", func() {
			s, err := p.Run(context.Background())

			Convey("Then it aborts with input missing and writes nothing", func() {
				So(s, ShouldBeNil)
				So(errors.Is(err, model.ErrInputMissing), ShouldBeTrue)
				So(model.IsFatal(err), ShouldBeTrue)
				_, statErr := os.Stat(outDir)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})

	Convey("Given no sources at all", t, func() {
		outDir := filepath.Join(t.TempDir(), "out")
		p := newPipeline(t.TempDir(), outDir, service.WithSources(nil, nil))

		Convey("Then the run fails with input missing", func() {
			_, err := p.Run(context.Background())
			So(errors.Is(err, model.ErrInputMissing), ShouldBeTrue)
		})
	})

	Convey("Given an invalid engine config", t, func() {
		outDir := filepath.Join(t.TempDir(), "out")
		cfg := rating.DefaultConfig()
		cfg.SeasonRegression = 1.5
		p := newPipeline(t.TempDir(), outDir, service.WithEngineConfig(cfg))

		Convey("Then the run fails before writing", func() {
			_, err := p.Run(context.Background())
			So(errors.Is(err, model.ErrConfigInvalid), ShouldBeTrue)
			_, statErr := os.Stat(outDir)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given sorted team states", t, func() {
		teams := []rating.TeamState{
			{Team: "A", Rating: 1600, Wins: 3},
			{Team: "B", Rating: 1500, Draws: 1},
			{Team: "C", Rating: 1400, Losses: 2},
		}
		reg := map[string]model.RegistryEntry{"A": {League: "PL", Country: "ENG"}}

		Convey("Then entries are ranked by position and truncated", func() {
			top := service.Leaderboard(teams, reg, 2)
			So(top, ShouldHaveLength, 2)
			So(top[0].Rank, ShouldEqual, 1)
			So(top[0].League, ShouldEqual, "PL")
			So(top[1].Record(), ShouldEqual, "0-1-0")

			So(service.Leaderboard(teams, reg, 50), ShouldHaveLength, 3)
		})
	})
}
