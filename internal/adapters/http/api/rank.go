package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/msi/internal/domain/model"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, team string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{team} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	team := strings.TrimSpace(r.PathValue("team"))
	if team == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entry, err := h.deps.Rank(r.Context(), team)
	if err != nil {
		writeLookupError(w, "api.get_rank", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DailyDependencies defines the interface for daily series lookups.
type DailyDependencies interface {
	Daily(ctx context.Context, team string) ([]model.Observation, error)
}

// DailyHandler serves a team's forward-filled daily series.
type DailyHandler struct {
	deps DailyDependencies
}

// NewDailyHandler creates a new daily series handler.
func NewDailyHandler(deps DailyDependencies) *DailyHandler {
	return &DailyHandler{deps: deps}
}

type dailyResponse struct {
	Team   string              `json:"team"`
	Series []model.Observation `json:"series"`
}

// HandleGetDaily handles GET /teams/{team}/daily requests.
func (h *DailyHandler) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	team := strings.TrimSpace(r.PathValue("team"))
	if team == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	series, err := h.deps.Daily(r.Context(), team)
	if err != nil {
		writeLookupError(w, "api.get_daily", err)
		return
	}
	writeJSON(w, http.StatusOK, dailyResponse{Team: team, Series: series})
}
