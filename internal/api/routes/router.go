package routes

import (
	"net/http"

	"github.com/zatekoja/fitai/backend/internal/api/handlers"
	"github.com/zatekoja/fitai/backend/internal/api/middleware"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	planHandler      *handlers.PlanHandler
	nutritionHandler *handlers.NutritionHandler
	healthHandler    *handlers.HealthHandler

	metrics        *observability.Metrics
	allowedOrigins []string
}

// NewRouter creates a new router
func NewRouter(
	planHandler *handlers.PlanHandler,
	nutritionHandler *handlers.NutritionHandler,
	healthHandler *handlers.HealthHandler,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		planHandler:      planHandler,
		nutritionHandler: nutritionHandler,
		healthHandler:    healthHandler,
		metrics:          metrics,
		allowedOrigins:   allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Plan endpoints
	r.mux.HandleFunc("POST /api/plans/{kind}/generate", r.planHandler.GeneratePlan)
	r.mux.HandleFunc("GET /api/plans/{id}", r.planHandler.GetPlan)
	r.mux.HandleFunc("DELETE /api/plans/{id}", r.planHandler.DeletePlan)
	r.mux.HandleFunc("PATCH /api/plans/{id}/active", r.planHandler.SetPlanActive)

	// Nutrition endpoints
	r.mux.HandleFunc("POST /api/nutrition/log", r.nutritionHandler.LogMeal)
	r.mux.HandleFunc("GET /api/nutrition/daily", r.nutritionHandler.GetDailySummary)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)

	// CORS wraps everything so preflight never reaches the handlers
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
