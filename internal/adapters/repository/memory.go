package repository

import (
	"context"
	"sync/atomic"

	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/snapshot"
	"github.com/okian/msi/internal/domain/types"
)

// Snapshot is an immutable view of one run's artifacts.
type Snapshot struct {
	entries []types.Entry // rating desc, as written
	byTeam  map[string]int
	daily   snapshot.Daily
	stats   Stats
}

// MemoryStore serves queries from the latest published Snapshot. Loading a
// new run swaps the pointer; readers never block.
type MemoryStore struct {
	maxLimit int
	current  atomic.Pointer[Snapshot]
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{maxLimit: 100}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{byTeam: map[string]int{}, daily: snapshot.Daily{}, stats: Stats{TeamsByLeague: map[string]int{}}})
	return s
}

// Load publishes a new snapshot built from the run artifacts. Rank is the
// 1-based position in the ratings file, which is already sorted by rating.
func (s *MemoryStore) Load(ratings artifact.RatingsFile, daily snapshot.Daily, registry map[string]model.RegistryEntry) {
	snap := &Snapshot{
		entries: make([]types.Entry, 0, len(ratings.Teams)),
		byTeam:  make(map[string]int, len(ratings.Teams)),
		daily:   daily,
		stats: Stats{
			ComputedAt:       ratings.ComputedAt,
			MatchesProcessed: ratings.MatchesProcessed,
			Teams:            len(ratings.Teams),
			TeamsByLeague:    map[string]int{},
		},
	}
	if snap.daily == nil {
		snap.daily = snapshot.Daily{}
	}
	for i, t := range ratings.Teams {
		reg := registry[t.Team]
		snap.entries = append(snap.entries, types.Entry{
			Rank:    i + 1,
			Team:    t.Team,
			Rating:  t.Rating,
			League:  reg.League,
			Country: reg.Country,
			Matches: t.Matches,
			Wins:    t.Wins,
			Draws:   t.Draws,
			Losses:  t.Losses,
		})
		snap.byTeam[t.Team] = i
		if reg.League != "" {
			snap.stats.TeamsByLeague[reg.League]++
		}
		for _, o := range t.RatingHistory {
			if snap.stats.FirstDay == "" || o.Date < snap.stats.FirstDay {
				snap.stats.FirstDay = o.Date
			}
			if o.Date > snap.stats.LastDay {
				snap.stats.LastDay = o.Date
			}
		}
	}
	if len(snap.entries) > 0 {
		snap.stats.TopTeam = snap.entries[0].Team
		snap.stats.TopRating = snap.entries[0].Rating
	}
	s.current.Store(snap)
}

// Rank implements Store.
func (s *MemoryStore) Rank(_ context.Context, team string) (types.Entry, error) {
	snap := s.current.Load()
	i, ok := snap.byTeam[team]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	return snap.entries[i], nil
}

// TopN implements Store. n above the configured maximum is clamped.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	if n > s.maxLimit {
		n = s.maxLimit
	}
	snap := s.current.Load()
	if n > len(snap.entries) {
		n = len(snap.entries)
	}
	out := make([]types.Entry, n)
	copy(out, snap.entries[:n])
	return out, nil
}

// Daily implements Store.
func (s *MemoryStore) Daily(_ context.Context, team string) ([]model.Observation, error) {
	snap := s.current.Load()
	series, ok := snap.daily[team]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]model.Observation(nil), series...), nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.current.Load().entries)
}

// Stats implements Store.
func (s *MemoryStore) Stats(_ context.Context) Stats {
	st := s.current.Load().stats
	byLeague := make(map[string]int, len(st.TeamsByLeague))
	for k, v := range st.TeamsByLeague {
		byLeague[k] = v
	}
	st.TeamsByLeague = byLeague
	return st
}
