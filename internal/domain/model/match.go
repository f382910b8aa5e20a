// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// DayLayout is the calendar-day format used for history and snapshot dates.
const DayLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// Match is one played fixture.
type Match struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	League    string    `json:"league"`
	Season    string    `json:"season"`
	HomeTeam  string    `json:"homeTeam" validate:"required"`
	AwayTeam  string    `json:"awayTeam" validate:"required,nefield=HomeTeam"`
	HomeGoals int       `json:"homeGoals" validate:"gte=0"`
	AwayGoals int       `json:"awayGoals" validate:"gte=0"`
	Matchday  int       `json:"matchday"`
}

// Validate reports a malformed match. The returned error is marked with
// ErrMalformedRecord.
func (m Match) Validate() error {
	if m.Date.IsZero() {
		return errors.Mark(errors.Newf("match %d: missing date", m.ID), ErrMalformedRecord)
	}
	if err := validate.Struct(m); err != nil {
		return errors.Mark(errors.Wrapf(err, "match %d", m.ID), ErrMalformedRecord)
	}
	return nil
}

// Day returns the match date truncated to its UTC calendar day.
func (m Match) Day() time.Time {
	return DayOf(m.Date)
}

// DayOf truncates t to midnight UTC.
func DayOf(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders t as YYYY-MM-DD in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Observation is a rating value at the end of a calendar day.
type Observation struct {
	Date   string  `json:"date"`
	Rating float64 `json:"rating"`
}

// RegistryEntry describes where a team plays and how often it appeared.
type RegistryEntry struct {
	League        string `json:"league"`
	Country       string `json:"country"`
	MatchesPlayed int    `json:"matchesPlayed"`
}

// Issue is a recoverable problem recorded during a run.
type Issue struct {
	Kind    string `json:"kind"`
	Source  string `json:"source,omitempty"`
	MatchID int64  `json:"matchId,omitempty"`
	Detail  string `json:"detail"`
}

// Issue kinds.
const (
	IssueMalformed = "malformed_record"
	IssueAmbiguous = "merge_ambiguity"
)
