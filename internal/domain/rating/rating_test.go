package rating_test

import (
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

var day0 = time.Date(2024, 8, 10, 15, 0, 0, 0, time.UTC)

func game(id int64, at time.Time, home, away string, hg, ag int) model.Match {
	return model.Match{ID: id, Date: at, League: "PL", HomeTeam: home, AwayTeam: away, HomeGoals: hg, AwayGoals: ag}
}

func TestEloFormulas(t *testing.T) {
	Convey("Given equal ratings and 75 points of home advantage", t, func() {
		e := rating.Expected(1500, 1500, 75)

		Convey("Then the home side is favoured", func() {
			So(e, ShouldAlmostEqual, 1/(1+math.Pow(10, -75.0/400)), 1e-12)
			So(e, ShouldAlmostEqual, 0.6063, 0.0001)
		})
	})

	Convey("Given goal differences", t, func() {
		So(rating.MarginMultiplier(0), ShouldEqual, 1)
		So(rating.MarginMultiplier(2), ShouldAlmostEqual, 1+math.Log(3), 1e-12)
		So(rating.MarginMultiplier(-2), ShouldEqual, rating.MarginMultiplier(2))
	})

	Convey("Given results", t, func() {
		h, a := rating.Actual(2, 0)
		So([]float64{h, a}, ShouldResemble, []float64{1, 0})
		h, a = rating.Actual(0, 1)
		So([]float64{h, a}, ShouldResemble, []float64{0, 1})
		h, a = rating.Actual(1, 1)
		So([]float64{h, a}, ShouldResemble, []float64{0.5, 0.5})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := rating.DefaultConfig()
		So(cfg.Validate(), ShouldBeNil)

		Convey("When K is not positive", func() {
			cfg.KFactor = 0
			So(errors.Is(cfg.Validate(), model.ErrConfigInvalid), ShouldBeTrue)
			cfg.KFactor = -32
			So(errors.Is(cfg.Validate(), model.ErrConfigInvalid), ShouldBeTrue)
		})

		Convey("When the regression fraction is outside [0,1)", func() {
			cfg.SeasonRegression = 1
			So(errors.Is(cfg.Validate(), model.ErrConfigInvalid), ShouldBeTrue)
			cfg.SeasonRegression = -0.1
			So(errors.Is(cfg.Validate(), model.ErrConfigInvalid), ShouldBeTrue)
		})

		Convey("When a league multiplier is not positive", func() {
			cfg.LeagueStrength = map[string]float64{"PL": 0}
			So(errors.Is(cfg.Validate(), model.ErrConfigInvalid), ShouldBeTrue)
		})

		Convey("When a parameter is NaN", func() {
			cfg.HomeAdvantage = math.NaN()
			So(errors.Is(cfg.Validate(), model.ErrConfigInvalid), ShouldBeTrue)
		})

		Convey("When the engine is built from an invalid config", func() {
			cfg.KFactor = -1
			e, err := rating.NewEngine(cfg)
			So(e, ShouldBeNil)
			So(errors.Is(err, model.ErrConfigInvalid), ShouldBeTrue)
		})
	})
}

func TestEngineScenarios(t *testing.T) {
	Convey("Given two new teams, K=32, H=75 and margin scaling", t, func() {
		e, err := rating.NewEngine(rating.DefaultConfig())
		So(err, ShouldBeNil)

		Convey("When the home side wins 2-0", func() {
			up, err := e.Process(game(1, day0, "Home", "Away", 2, 0))
			So(err, ShouldBeNil)

			home, _ := e.Team("Home")
			away, _ := e.Team("Away")
			want := 32 * (1 + math.Log(3)) * (1 - rating.Expected(1500, 1500, 75))

			Convey("Then the swing follows K*G*(S-E)", func() {
				So(up.Delta, ShouldAlmostEqual, want, 1e-9)
				So(up.Delta, ShouldAlmostEqual, 26.44, 0.01)
				So(home.Rating, ShouldAlmostEqual, 1500+want, 1e-9)
				So(away.Rating, ShouldAlmostEqual, 1500-want, 1e-9)
				So(home.Wins, ShouldEqual, 1)
				So(away.Losses, ShouldEqual, 1)
				So(home.RatingHistory, ShouldResemble, []model.Observation{{Date: "2024-08-10", Rating: home.Rating}})
				So(home.LastUpdated, ShouldEqual, day0)
			})
		})

		Convey("When the match is drawn 1-1", func() {
			up, err := e.Process(game(1, day0, "Home", "Away", 1, 1))
			So(err, ShouldBeNil)

			home, _ := e.Team("Home")
			away, _ := e.Team("Away")

			Convey("Then the favoured home side loses points symmetrically", func() {
				So(up.Multiplier, ShouldEqual, 1)
				So(up.Delta, ShouldAlmostEqual, 32*(0.5-rating.Expected(1500, 1500, 75)), 1e-9)
				So(home.Rating, ShouldBeLessThan, 1500)
				So(away.Rating, ShouldBeGreaterThan, 1500)
				So(home.Rating-1500, ShouldAlmostEqual, 1500-away.Rating, 1e-9)
				So(home.Draws, ShouldEqual, 1)
				So(away.Draws, ShouldEqual, 1)
			})
		})
	})
}

func TestZeroSum(t *testing.T) {
	Convey("Given varied configurations and results", t, func() {
		configs := []rating.Config{
			rating.DefaultConfig(),
			{InitialRating: 1000, KFactor: 20, HomeAdvantage: 0, GoalMarginFactor: false},
			{InitialRating: 1500, KFactor: 40, HomeAdvantage: 100, GoalMarginFactor: true,
				LeagueStrength: map[string]float64{"PL": 1.1}, LeagueBaseline: map[string]float64{"PL": 1550}},
		}
		results := [][2]int{{0, 0}, {3, 1}, {0, 4}, {7, 0}, {2, 2}}

		for _, cfg := range configs {
			e, err := rating.NewEngine(cfg)
			So(err, ShouldBeNil)
			at := day0
			for i, r := range results {
				up, err := e.Process(game(int64(i), at, "X", "Y", r[0], r[1]))
				So(err, ShouldBeNil)

				x, _ := e.Team("X")
				y, _ := e.Team("Y")
				So(x.Rating, ShouldEqual, up.HomeBefore+up.Delta)
				So(y.Rating, ShouldEqual, up.AwayBefore-up.Delta)
				at = at.Add(72 * time.Hour)
			}
		}
	})
}

func TestLeagueTables(t *testing.T) {
	Convey("Given league baselines and strength multipliers", t, func() {
		cfg := rating.DefaultConfig()
		cfg.LeagueBaseline = map[string]float64{"PL": 1600}
		cfg.LeagueStrength = map[string]float64{"PL": 1.5}
		e, err := rating.NewEngine(cfg)
		So(err, ShouldBeNil)

		Convey("When teams first appear", func() {
			up, err := e.Process(game(1, day0, "A", "B", 1, 0))
			So(err, ShouldBeNil)
			other := game(2, day0.Add(time.Hour), "C", "D", 0, 0)
			other.League = "L1"
			_, err = e.Process(other)
			So(err, ShouldBeNil)

			Convey("Then they start at their league baseline or the global rating", func() {
				So(up.HomeBefore, ShouldEqual, 1600)
				c, _ := e.Team("C")
				So(c.Initial, ShouldEqual, 1500)
				So(up.K, ShouldEqual, 48)
			})
		})

		Convey("When the caller mutates the config after construction", func() {
			cfg.LeagueBaseline["PL"] = 0
			up, _ := e.Process(game(1, day0, "A", "B", 1, 0))

			Convey("Then the engine is unaffected", func() {
				So(up.HomeBefore, ShouldEqual, 1600)
			})
		})
	})
}

func TestSeasonRegression(t *testing.T) {
	Convey("Given ratings 1600/1500/1400, baseline 1500 and f=0.15", t, func() {
		Convey("Then regression yields 1585/1500/1415", func() {
			So(rating.Regress(1600, 1500, 0.15), ShouldAlmostEqual, 1585, 1e-9)
			So(rating.Regress(1500, 1500, 0.15), ShouldEqual, 1500)
			So(rating.Regress(1400, 1500, 0.15), ShouldAlmostEqual, 1415, 1e-9)
		})
	})

	Convey("Given an engine with regression enabled", t, func() {
		cfg := rating.DefaultConfig()
		cfg.LeagueBaseline = map[string]float64{"PL": 1500}
		cfg.SeasonRegression = 0.15
		var events []rating.RegressionEvent
		e, err := rating.NewEngine(cfg, rating.WithRegressionHook(func(ev rating.RegressionEvent) {
			events = append(events, ev)
		}))
		So(err, ShouldBeNil)

		_, err = e.Process(game(1, day0, "A", "B", 4, 0))
		So(err, ShouldBeNil)
		_, err = e.Process(game(2, day0.AddDate(0, 0, 3), "B", "C", 0, 3))
		So(err, ShouldBeNil)
		before := map[string]float64{}
		for _, tm := range e.Teams() {
			before[tm.Team] = tm.Rating
		}

		Convey("When the next match comes after a 59 day gap", func() {
			up, err := e.Process(game(3, day0.AddDate(0, 0, 62), "A", "C", 1, 1))
			So(err, ShouldBeNil)

			Convey("Then no regression happens", func() {
				So(up.Regressed, ShouldBeFalse)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the next match comes after a 60 day gap", func() {
			boundary := day0.AddDate(0, 0, 63)
			newcomer := game(3, boundary, "D", "A", 0, 0)
			up, err := e.Process(newcomer)
			So(err, ShouldBeNil)

			Convey("Then every known team contracts toward the baseline before the match", func() {
				So(up.Regressed, ShouldBeTrue)
				So(events, ShouldHaveLength, 1)
				So(events[0].Teams, ShouldEqual, 3)
				So(e.Regressions(), ShouldEqual, 1)

				for _, name := range []string{"A", "B", "C"} {
					tm, _ := e.Team(name)
					var regressed float64
					for _, o := range tm.RatingHistory {
						if o.Date == model.FormatDay(boundary) {
							regressed = o.Rating
							break
						}
					}
					So(math.Abs(regressed-1500), ShouldAlmostEqual, 0.85*math.Abs(before[name]-1500), 1e-9)
				}
				So(up.AwayBefore, ShouldAlmostEqual, rating.Regress(before["A"], 1500, 0.15), 1e-9)
			})

			Convey("And only teams known before the break get an extra history entry", func() {
				a, _ := e.Team("A")
				b, _ := e.Team("B")
				d, _ := e.Team("D")
				So(a.RatingHistory, ShouldHaveLength, 3)
				So(b.RatingHistory, ShouldHaveLength, 3)
				So(d.RatingHistory, ShouldHaveLength, 1)
				So(b.Matches, ShouldEqual, 2)
			})
		})
	})
}

func TestRejectedMatches(t *testing.T) {
	Convey("Given an engine with one processed match", t, func() {
		e, _ := rating.NewEngine(rating.DefaultConfig())
		_, err := e.Process(game(1, day0, "A", "B", 1, 0))
		So(err, ShouldBeNil)

		Convey("When a team plays itself", func() {
			_, err := e.Process(game(2, day0.Add(time.Hour), "A", "A", 1, 0))

			Convey("Then the match is rejected without creating state", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				So(e.Processed(), ShouldEqual, 1)
			})
		})

		Convey("When a match precedes the last processed one", func() {
			_, err := e.Process(game(3, day0.Add(-time.Hour), "C", "D", 1, 0))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				_, ok := e.Team("C")
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a sequence with bad records", t, func() {
		e, _ := rating.NewEngine(rating.DefaultConfig())
		s := e.Run([]model.Match{
			game(1, day0, "A", "B", 1, 0),
			game(2, day0.Add(time.Hour), "A", "A", 1, 0),
			game(3, day0.Add(2*time.Hour), "C", "D", -1, 0),
			game(4, day0.Add(3*time.Hour), "B", "C", 2, 2),
		})

		Convey("Then they are skipped and counted", func() {
			So(s.Processed, ShouldEqual, 2)
			So(s.Skipped, ShouldEqual, 2)
			So(s.Issues, ShouldHaveLength, 2)
			So(s.Issues[0].MatchID, ShouldEqual, 2)
		})
	})

	Convey("Given an empty sequence", t, func() {
		e, _ := rating.NewEngine(rating.DefaultConfig())
		s := e.Run(nil)
		So(s.Processed, ShouldEqual, 0)
		So(e.Teams(), ShouldBeEmpty)
	})
}

func TestDeterminism(t *testing.T) {
	Convey("Given the same matches folded twice", t, func() {
		var ms []model.Match
		teams := []string{"A", "B", "C", "D", "E"}
		at := day0
		for i := 0; i < 200; i++ {
			h, a := teams[i%5], teams[(i*3+1)%5]
			if h == a {
				a = teams[(i+1)%5]
			}
			ms = append(ms, game(int64(i), at, h, a, i%4, (i/3)%3))
			at = at.Add(time.Duration(1+i%90) * 24 * time.Hour / 3)
		}
		cfg := rating.DefaultConfig()
		cfg.SeasonRegression = 0.2

		e1, _ := rating.NewEngine(cfg)
		e2, _ := rating.NewEngine(cfg)
		e1.Run(ms)
		e2.Run(ms)

		Convey("Then final states are identical", func() {
			So(e1.Teams(), ShouldResemble, e2.Teams())
		})
	})
}
