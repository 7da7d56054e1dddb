package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// NutritionLogRepository defines operations over consumed-meal logs
type NutritionLogRepository interface {
	// Create stores one log entry. An empty ID is filled in.
	Create(ctx context.Context, log *entities.NutritionLog) error


	// SumByOwner totals the owner's logs consumed within [from, to)
	SumByOwner(ctx context.Context, ownerID string, from, to time.Time) (*entities.NutritionTotals, error)
}
