package repository_test

import (
	"context"
	"testing"

	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/adapters/repository"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/domain/snapshot"
	. "github.com/smartystreets/goconvey/convey"
)

func loadedStore(opts ...repository.Option) *repository.MemoryStore {
	s := repository.NewMemoryStore(opts...)
	s.Load(
		artifact.RatingsFile{
			ComputedAt:       "2025-01-01T00:00:00Z",
			MatchesProcessed: 3,
			Teams: []rating.TeamState{
				{Team: "Inter", Rating: 1540, Matches: 2, Wins: 2, RatingHistory: []model.Observation{{Date: "2024-08-18", Rating: 1520}, {Date: "2024-08-25", Rating: 1540}}},
				{Team: "Arsenal", Rating: 1526, Matches: 1, Wins: 1, RatingHistory: []model.Observation{{Date: "2024-08-17", Rating: 1526}}},
				{Team: "Genoa", Rating: 1460, Matches: 2, Losses: 2, RatingHistory: []model.Observation{{Date: "2024-08-18", Rating: 1480}, {Date: "2024-08-25", Rating: 1460}}},
			},
		},
		snapshot.Daily{
			"Arsenal": {{Date: "2024-08-17", Rating: 1526}},
		},
		map[string]model.RegistryEntry{
			"Inter":   {League: "SA", Country: "ITA", MatchesPlayed: 2},
			"Genoa":   {League: "SA", Country: "ITA", MatchesPlayed: 2},
			"Arsenal": {League: "PL", Country: "ENG", MatchesPlayed: 1},
		},
	)
	return s
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewMemoryStore()

		Convey("Then queries return nothing", func() {
			So(s.Count(ctx), ShouldEqual, 0)
			top, err := s.TopN(ctx, 10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
			_, err = s.Rank(ctx, "Inter")
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})

	Convey("Given a store loaded from run artifacts", t, func() {
		s := loadedStore(repository.WithMaxLimit(2))

		Convey("When ranking a team", func() {
			e, err := s.Rank(ctx, "Arsenal")

			Convey("Then the position and registry data are returned", func() {
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 2)
				So(e.League, ShouldEqual, "PL")
				So(e.Country, ShouldEqual, "ENG")
				So(e.Record(), ShouldEqual, "1-0-0")
			})
		})

		Convey("When asking for more than the limit", func() {
			top, err := s.TopN(ctx, 50)

			Convey("Then the result is clamped", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(top[0].Team, ShouldEqual, "Inter")
			})
		})

		Convey("When the limit is not positive", func() {
			_, err := s.TopN(ctx, 0)
			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})

		Convey("When reading a daily series", func() {
			series, err := s.Daily(ctx, "Arsenal")
			So(err, ShouldBeNil)
			So(series, ShouldHaveLength, 1)

			_, err = s.Daily(ctx, "Genoa")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("Then stats describe the run", func() {
			st := s.Stats(ctx)
			So(st.Teams, ShouldEqual, 3)
			So(st.MatchesProcessed, ShouldEqual, 3)
			So(st.TeamsByLeague["SA"], ShouldEqual, 2)
			So(st.TopTeam, ShouldEqual, "Inter")
			So(st.FirstDay, ShouldEqual, "2024-08-17")
			So(st.LastDay, ShouldEqual, "2024-08-25")
		})
	})
}
