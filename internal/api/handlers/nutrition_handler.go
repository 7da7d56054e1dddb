package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/zatekoja/fitai/backend/internal/application/services"
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

const (
	defaultDailyTargetCalories = 2000
	maxLogBody                 = 16 << 10
)

// NutritionTracker records meals and builds daily nutrition summaries
type NutritionTracker interface {
	LogMeal(ctx context.Context, ownerID string, input services.LogMealInput) (*entities.NutritionLog, error)
	DailySummary(ctx context.Context, ownerID string, date time.Time, targetCalories float64) (*entities.DailyNutritionSummary, error)
}

// NutritionHandler handles nutrition tracking requests
type NutritionHandler struct {
	service NutritionTracker
	now     func() time.Time
}

type logMealRequest struct {
	MealName   string     `json:"meal_name"`
	MealType   string     `json:"meal_type"`
	Calories   *float64   `json:"calories"`
	Protein    *float64   `json:"protein"`
	Carbs      *float64   `json:"carbs"`
	Fat        *float64   `json:"fat"`
	ConsumedAt *time.Time `json:"consumed_at"`
	Notes      string     `json:"notes"`
}

// NewNutritionHandler creates a new nutrition handler
func NewNutritionHandler(service NutritionTracker) *NutritionHandler {
	return &NutritionHandler{
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// LogMeal handles POST /api/nutrition/log
func (h *NutritionHandler) LogMeal(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		respondWithError(w, http.StatusUnauthorized, OwnerHeader+" header is required")
		return
	}

	var req logMealRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxLogBody)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	log, err := h.service.LogMeal(r.Context(), owner, services.LogMealInput{
		MealName:   req.MealName,
		MealType:   req.MealType,
		Calories:   req.Calories,
		Protein:    req.Protein,
		Carbs:      req.Carbs,
		Fat:        req.Fat,
		ConsumedAt: req.ConsumedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, log)
}

// GetDailySummary handles GET /api/nutrition/daily?date=YYYY-MM-DD&target_calories=N
func (h *NutritionHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		respondWithError(w, http.StatusUnauthorized, OwnerHeader+" header is required")
		return
	}

	query := r.URL.Query()

	date := h.now()
	if raw := query.Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	target := float64(defaultDailyTargetCalories)
	if raw := query.Get("target_calories"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			respondWithError(w, http.StatusBadRequest, "target_calories must be a non-negative number")
			return
		}
		target = parsed
	}

	summary, err := h.service.DailySummary(r.Context(), owner, date, target)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
