// Package repository holds the read-side leaderboard index built from the
// rating artifacts.
package repository

import (
	"context"

	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/types"
)

// Stats summarises the loaded artifacts.
type Stats struct {
	ComputedAt       string         `json:"computedAt"`
	MatchesProcessed int            `json:"matchesProcessed"`
	Teams            int            `json:"teams"`
	TeamsByLeague    map[string]int `json:"teamsByLeague"`
	TopTeam          string         `json:"topTeam,omitempty"`
	TopRating        float64        `json:"topRating,omitempty"`
	FirstDay         string         `json:"firstDay,omitempty"`
	LastDay          string         `json:"lastDay,omitempty"`
}

// Store provides read access to the ranking state.
type Store interface {
	// Rank returns the leaderboard entry for a team.
	// Returns ErrNotFound if the team is unknown.
	Rank(ctx context.Context, team string) (types.Entry, error)

	// TopN returns the top-N entries ordered by rating desc.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Daily returns the forward-filled daily series of a team.
	Daily(ctx context.Context, team string) ([]model.Observation, error)

	// Count returns the number of teams in the leaderboard.
	Count(ctx context.Context) int

	// Stats describes the loaded run.
	Stats(ctx context.Context) Stats
}
