package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zatekoja/fitai/backend/internal/application/services"
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// maxGenerateBody bounds the parameter document of a generate request
const maxGenerateBody = 64 << 10

// PlanGenerator runs the generation pipeline
type PlanGenerator interface {
	Generate(ctx context.Context, input services.GeneratePlanInput) (*services.GeneratePlanResult, error)
}

// PlanManager reads and changes stored plans
type PlanManager interface {
	GetPlan(ctx context.Context, ownerID, id string) (*entities.PersistedPlan, error)
	DeletePlan(ctx context.Context, ownerID, id string) error
	SetActive(ctx context.Context, ownerID, id string, active bool) (*entities.PersistedPlan, error)
}

// PlanHandler handles plan-related HTTP requests
type PlanHandler struct {
	generator PlanGenerator
	plans     PlanManager
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(generator PlanGenerator, plans PlanManager) *PlanHandler {
	return &PlanHandler{
		generator: generator,
		plans:     plans,
	}
}

// GeneratePlan handles POST /api/plans/{kind}/generate. The body is a JSON
// object of generation parameters; an empty body uses every default.
func (h *PlanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		respondWithError(w, http.StatusUnauthorized, OwnerHeader+" header is required")
		return
	}

	kind, ok := entities.ParsePlanKind(r.PathValue("kind"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown plan kind")
		return
	}

	params := entities.GenerationParameters{}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxGenerateBody))
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.generator.Generate(r.Context(), services.GeneratePlanInput{
		Kind:       kind,
		OwnerID:    owner,
		Parameters: params,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

// GetPlan handles GET /api/plans/{id}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		respondWithError(w, http.StatusUnauthorized, OwnerHeader+" header is required")
		return
	}

	plan, err := h.plans.GetPlan(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, plan)
}

// DeletePlan handles DELETE /api/plans/{id}
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		respondWithError(w, http.StatusUnauthorized, OwnerHeader+" header is required")
		return
	}

	if err := h.plans.DeletePlan(r.Context(), owner, r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetPlanActive handles PATCH /api/plans/{id}/active
func (h *PlanHandler) SetPlanActive(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		respondWithError(w, http.StatusUnauthorized, OwnerHeader+" header is required")
		return
	}

	var payload setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IsActive == nil {
		respondWithError(w, http.StatusBadRequest, "is_active is required")
		return
	}

	plan, err := h.plans.SetActive(r.Context(), owner, r.PathValue("id"), *payload.IsActive)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, plan)
}
