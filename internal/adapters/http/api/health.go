package api

import (
	"context"
	"net/http"

	"github.com/okian/msi/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter reports how many teams are loaded.
type Counter interface {
	Count(ctx context.Context) int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Counter
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Counter) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status string `json:"status"`
	Teams  int    `json:"teams"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Teams: h.deps.Count(r.Context())})
}

// MetricsHandler exposes our custom registry in the Prometheus format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
