package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/fitai/backend/internal/domain/providers"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the state of the service's dependencies
type HealthHandler struct {
	database Pinger
	cache    Pinger
	provider providers.TextGenerationProvider
}

// NewHealthHandler creates a new health handler. cache and provider may be nil.
func NewHealthHandler(database, cache Pinger, provider providers.TextGenerationProvider) *HealthHandler {
	return &HealthHandler{
		database: database,
		cache:    cache,
		provider: provider,
	}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health. The database is required; a missing cache or
// generation credential only degrades the service since plans fall back.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "healthy", Components: map[string]string{}}

	if err := h.database.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Components["database"] = "down"
	} else {
		resp.Components["database"] = "up"
	}

	switch {
	case h.cache == nil:
		resp.Components["cache"] = "disabled"
	case h.cache.Ping(ctx) != nil:
		resp.Components["cache"] = "down"
		resp.degrade()
	default:
		resp.Components["cache"] = "up"
	}

	if h.provider == nil || !h.provider.Available() {
		resp.Components["generation"] = "unavailable"
		resp.degrade()
	} else {
		resp.Components["generation"] = h.provider.Name()
	}

	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	respondWithJSON(w, status, resp)
}

func (r *healthResponse) degrade() {
	if r.Status == "healthy" {
		r.Status = "degraded"
	}
}
