package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/fitai/backend/internal/api/handlers"
	"github.com/zatekoja/fitai/backend/internal/application/services"
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

type stubPlanGenerator struct {
	inputs []services.GeneratePlanInput
	err    error
}

func (s *stubPlanGenerator) Generate(ctx context.Context, input services.GeneratePlanInput) (*services.GeneratePlanResult, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &services.GeneratePlanResult{
		PlanID:    "plan-1",
		Header:    entities.PlanHeader{Name: "Balanced Meal Plan", TargetCalories: 1800},
		Source:    entities.PlanSourceFallback,
		CreatedAt: time.Now(),
	}, nil
}

type stubPlanManager struct {
	plans   map[string]*entities.PersistedPlan
	deleted []string
	err     error
}

func (s *stubPlanManager) GetPlan(ctx context.Context, ownerID, id string) (*entities.PersistedPlan, error) {
	if s.err != nil {
		return nil, s.err
	}
	plan, ok := s.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	return plan, nil
}

func (s *stubPlanManager) DeletePlan(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetPlan(ctx, ownerID, id); err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPlanManager) SetActive(ctx context.Context, ownerID, id string, active bool) (*entities.PersistedPlan, error) {
	plan, err := s.GetPlan(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	plan.IsActive = active
	return plan, nil
}

func newPlanRequest(method, target, body, owner string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if owner != "" {
		req.Header.Set(handlers.OwnerHeader, owner)
	}
	return req
}

func TestPlanHandler_GeneratePlan(t *testing.T) {
	t.Run("creates a plan from body parameters", func(t *testing.T) {
		generator := &stubPlanGenerator{}
		handler := handlers.NewPlanHandler(generator, &stubPlanManager{})

		req := newPlanRequest(http.MethodPost, "/api/plans/meal/generate",
			`{"target_calories": 1800, "dietary_preference": "vegan"}`, "user-1")
		req.SetPathValue("kind", "meal")
		w := httptest.NewRecorder()

		handler.GeneratePlan(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, generator.inputs, 1)
		input := generator.inputs[0]
		assert.Equal(t, entities.PlanKindMeal, input.Kind)
		assert.Equal(t, "user-1", input.OwnerID)
		assert.Equal(t, 1800.0, input.Parameters["target_calories"])

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "plan-1", response["plan_id"])
		assert.Equal(t, "fallback", response["source"])
	})

	t.Run("empty body uses defaults", func(t *testing.T) {
		generator := &stubPlanGenerator{}
		handler := handlers.NewPlanHandler(generator, &stubPlanManager{})

		req := newPlanRequest(http.MethodPost, "/api/plans/nutrition-analysis/generate", "", "user-1")
		req.SetPathValue("kind", "nutrition-analysis")
		w := httptest.NewRecorder()

		handler.GeneratePlan(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, generator.inputs, 1)
		assert.Equal(t, entities.PlanKindNutritionAnalysis, generator.inputs[0].Kind)
		assert.Empty(t, generator.inputs[0].Parameters)
	})

	tests := []struct {
		name     string
		kind     string
		body     string
		owner    string
		err      error
		expected int
	}{
		{name: "missing owner", kind: "workout", body: "{}", expected: http.StatusUnauthorized},
		{name: "unknown kind", kind: "yoga", body: "{}", owner: "user-1", expected: http.StatusNotFound},
		{name: "body is not an object", kind: "workout", body: `["a"]`, owner: "user-1", expected: http.StatusBadRequest},
		{name: "validation error", kind: "workout", body: "{}", owner: "user-1", err: apperrors.NewValidationError("bad"), expected: http.StatusBadRequest},
		{name: "persistence error", kind: "workout", body: "{}", owner: "user-1", err: apperrors.NewPersistenceError("failed", nil), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewPlanHandler(&stubPlanGenerator{err: tt.err}, &stubPlanManager{})

			req := newPlanRequest(http.MethodPost, "/api/plans/"+tt.kind+"/generate", tt.body, tt.owner)
			req.SetPathValue("kind", tt.kind)
			w := httptest.NewRecorder()

			handler.GeneratePlan(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestPlanHandler_PlanLifecycle(t *testing.T) {
	manager := &stubPlanManager{plans: map[string]*entities.PersistedPlan{
		"plan-1": {ID: "plan-1", OwnerID: "user-1", Name: "Strength"},
	}}
	handler := handlers.NewPlanHandler(&stubPlanGenerator{}, manager)

	t.Run("get", func(t *testing.T) {
		req := newPlanRequest(http.MethodGet, "/api/plans/plan-1", "", "user-1")
		req.SetPathValue("id", "plan-1")
		w := httptest.NewRecorder()

		handler.GetPlan(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var plan entities.PersistedPlan
		require.NoError(t, json.NewDecoder(w.Body).Decode(&plan))
		assert.Equal(t, "Strength", plan.Name)
	})

	t.Run("get another owner's plan", func(t *testing.T) {
		req := newPlanRequest(http.MethodGet, "/api/plans/plan-1", "", "user-2")
		req.SetPathValue("id", "plan-1")
		w := httptest.NewRecorder()

		handler.GetPlan(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("activate", func(t *testing.T) {
		req := newPlanRequest(http.MethodPatch, "/api/plans/plan-1/active", `{"is_active": true}`, "user-1")
		req.SetPathValue("id", "plan-1")
		w := httptest.NewRecorder()

		handler.SetPlanActive(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, manager.plans["plan-1"].IsActive)
	})

	t.Run("activate without flag", func(t *testing.T) {
		req := newPlanRequest(http.MethodPatch, "/api/plans/plan-1/active", `{}`, "user-1")
		req.SetPathValue("id", "plan-1")
		w := httptest.NewRecorder()

		handler.SetPlanActive(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := newPlanRequest(http.MethodDelete, "/api/plans/plan-1", "", "user-1")
		req.SetPathValue("id", "plan-1")
		w := httptest.NewRecorder()

		handler.DeletePlan(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"plan-1"}, manager.deleted)
	})
}
