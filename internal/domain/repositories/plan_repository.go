package repositories

import (
	"context"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// PlanRepository defines operations for generated plan storage
type PlanRepository interface {
	// CreateWithChildren stores the header, days and items atomically
	CreateWithChildren(ctx context.Context, plan *entities.PersistedPlan) error
	GetByID(ctx context.Context, id string) (*entities.PersistedPlan, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
}
