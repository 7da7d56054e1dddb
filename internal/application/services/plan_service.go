package services

import (
	"context"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/providers"
	"github.com/zatekoja/fitai/backend/internal/domain/repositories"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

// PlanService handles owner-directed reads and changes of stored plans
type PlanService struct {
	repo   repositories.PlanRepository
	events providers.EventBus
}

// NewPlanService creates a new plan service. events may be nil.
func NewPlanService(repo repositories.PlanRepository, events providers.EventBus) *PlanService {
	return &PlanService{repo: repo, events: events}
}

// GetPlan returns a plan owned by ownerID
func (s *PlanService) GetPlan(ctx context.Context, ownerID, id string) (*entities.PersistedPlan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// another owner's plan is reported as missing
	if plan.OwnerID != ownerID {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	return plan, nil
}

// DeletePlan removes a plan and, through cascading keys, its days and items
func (s *PlanService) DeletePlan(ctx context.Context, ownerID, id string) error {
	plan, err := s.GetPlan(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, plan, entities.PlanEventTypeDeleted)
	return nil
}

// SetActive toggles is_active on one plan. Other plans of the owner are not changed.
func (s *PlanService) SetActive(ctx context.Context, ownerID, id string, active bool) (*entities.PersistedPlan, error) {
	plan, err := s.GetPlan(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	plan.IsActive = active

	eventType := entities.PlanEventTypeDeactivated
	if active {
		eventType = entities.PlanEventTypeActivated
	}
	s.publish(ctx, plan, eventType)
	return plan, nil
}

func (s *PlanService) publish(ctx context.Context, plan *entities.PersistedPlan, eventType entities.PlanEventType) {
	if s.events == nil {
		return
	}
	event := entities.NewPlanEvent(plan, eventType)
	if err := s.events.Publish(ctx, providers.GetOwnerChannel(plan.OwnerID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("plan_id", plan.ID).Msg("failed to publish plan event")
	}
}
