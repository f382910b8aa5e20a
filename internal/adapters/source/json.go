package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
)

// Accepted timestamp layouts, tried in order. The wall clock is kept as
// written and stored as UTC, so an offset never moves a match to another
// calendar day.
var dateLayouts = []string{ //nolint:gochecknoglobals // read-only table
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	model.DayLayout,
}

// JSONFile reads a JSON array of match records.
type JSONFile struct {
	name string
	path string
	opts *options
}

type wireMatch struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	League    string `json:"league"`
	Season    string `json:"season"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeGoals *int   `json:"homeGoals"`
	AwayGoals *int   `json:"awayGoals"`
	Matchday  int    `json:"matchday"`
}

// Name implements merge.Source.
func (s *JSONFile) Name() string { return s.name }

// Load implements merge.Source. A missing or undecodable file is fatal; a
// bad element is reported and skipped.
func (s *JSONFile) Load(ctx context.Context) ([]model.Match, []model.Issue, error) {
	raw, err := readAll(s.path)
	if err != nil {
		return nil, nil, err
	}
	var elems []json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(raw, &elems); err != nil {
		return nil, nil, errors.Mark(errors.Wrapf(err, "decode %s", s.path), model.ErrInputMissing)
	}

	matches := make([]model.Match, 0, len(elems))
	var issues []model.Issue
	for i, elem := range elems {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, errors.Wrap(err, "load cancelled")
			}
		}
		m, err := s.decode(elem)
		if err != nil {
			issues = append(issues, malformed(s.name, m.ID, errors.Wrapf(err, "element %d", i)))
			continue
		}
		matches = append(matches, m)
	}
	return matches, issues, nil
}

func (s *JSONFile) decode(elem json.RawMessage) (model.Match, error) {
	var w wireMatch
	if err := sonic.ConfigStd.Unmarshal(elem, &w); err != nil {
		return model.Match{}, errors.Mark(err, model.ErrMalformedRecord)
	}
	m := model.Match{
		ID:       w.ID,
		League:   w.League,
		Season:   w.Season,
		HomeTeam: s.opts.name(w.HomeTeam),
		AwayTeam: s.opts.name(w.AwayTeam),
		Matchday: w.Matchday,
	}
	if w.HomeGoals == nil || w.AwayGoals == nil {
		return m, errors.Mark(errors.Newf("match %d: missing score", w.ID), model.ErrMalformedRecord)
	}
	m.HomeGoals, m.AwayGoals = *w.HomeGoals, *w.AwayGoals
	at, err := parseDate(w.Date)
	if err != nil {
		return m, errors.Mark(errors.Wrapf(err, "match %d", w.ID), model.ErrMalformedRecord)
	}
	m.Date = at
	return m, m.Validate()
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return wallClock(t), nil
		}
	}
	return time.Time{}, errors.Newf("unparseable date %q", v)
}

// wallClock drops the zone of t while keeping its local date and time.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
