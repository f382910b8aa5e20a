// Package registry derives the team registry from a merged match sequence.
package registry

import (
	"maps"

	"github.com/okian/msi/internal/domain/model"
)

// UnknownCountry is reported for leagues missing from the country table.
const UnknownCountry = "UNK"

// DefaultLeagueCountry maps the supported league codes to country codes.
func DefaultLeagueCountry() map[string]string {
	return map[string]string{
		"PL":  "ENG",
		"PD":  "ESP",
		"BL1": "GER",
		"SA":  "ITA",
		"FL1": "FRA",
	}
}

// Option applies a configuration option to Build.
type Option func(*builder)

// WithLeagueCountry replaces the league to country table.
func WithLeagueCountry(table map[string]string) Option {
	return func(b *builder) {
		if len(table) > 0 {
			b.countries = maps.Clone(table)
		}
	}
}

type builder struct {
	countries map[string]string
}

// Build upserts both participants of every match. The first league seen for
// a team wins; the appearance counter counts every participation.
func Build(matches []model.Match, opts ...Option) map[string]model.RegistryEntry {
	b := &builder{countries: DefaultLeagueCountry()}
	for _, opt := range opts {
		opt(b)
	}

	reg := make(map[string]model.RegistryEntry)
	for _, m := range matches {
		for _, team := range [2]string{m.HomeTeam, m.AwayTeam} {
			e, ok := reg[team]
			if !ok {
				e = model.RegistryEntry{League: m.League, Country: b.country(m.League)}
			}
			e.MatchesPlayed++
			reg[team] = e
		}
	}
	return reg
}

func (b *builder) country(league string) string {
	if c, ok := b.countries[league]; ok {
		return c
	}
	return UnknownCountry
}
