package rating

import (
	"time"

	"github.com/okian/msi/internal/domain/model"
)

// TeamState is a team's running rating plus its history of observations.
type TeamState struct {
	Team          string              `json:"team"`
	Rating        float64             `json:"rating"`
	Matches       int                 `json:"matches"`
	Wins          int                 `json:"wins"`
	Draws         int                 `json:"draws"`
	Losses        int                 `json:"losses"`
	LastUpdated   time.Time           `json:"lastUpdated"`
	RatingHistory []model.Observation `json:"ratingHistory"`

	// League is the first league the team was seen in; it selects the
	// regression target.
	League string `json:"-"`
	// Initial is the rating the team was created with.
	Initial float64 `json:"-"`
}

func newTeamState(team, league string, cfg Config) *TeamState {
	r := cfg.Baseline(league)
	return &TeamState{
		Team:          team,
		Rating:        r,
		League:        league,
		Initial:       r,
		RatingHistory: []model.Observation{},
	}
}

func (t *TeamState) observe(day string) {
	t.RatingHistory = append(t.RatingHistory, model.Observation{Date: day, Rating: t.Rating})
}

func (t *TeamState) record(scored, conceded int, at time.Time) {
	t.Matches++
	switch {
	case scored > conceded:
		t.Wins++
	case scored < conceded:
		t.Losses++
	default:
		t.Draws++
	}
	t.LastUpdated = at
	t.observe(model.FormatDay(at))
}

// clone copies the state including its history.
func (t *TeamState) clone() TeamState {
	c := *t
	c.RatingHistory = append([]model.Observation(nil), t.RatingHistory...)
	return c
}
