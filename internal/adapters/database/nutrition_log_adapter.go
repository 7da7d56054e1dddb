package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/repositories"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

const nutritionLogsTable = "nutrition_logs"

// NutritionLogAdapter implements the NutritionLogRepository interface
type NutritionLogAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
	db      *sqlx.DB
	metrics *observability.Metrics
}

// NewNutritionLogAdapter creates a new nutrition log adapter. metrics may be nil.
func NewNutritionLogAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.NutritionLogRepository {
	return &NutritionLogAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
		db:      sqlx.NewDb(client.DB(), "postgres"),
		metrics: metrics,
	}
}

// Create inserts a nutrition log entry
func (a *NutritionLogAdapter) Create(ctx context.Context, log *entities.NutritionLog) (err error) {
	ctx, span := observability.StartSpan(ctx, "NutritionLogAdapter.Create")
	start := time.Now()
	defer func() {
		observability.RecordError(span, err)
		observability.RecordDBMetric(ctx, a.metrics, "insert_nutrition_log", time.Since(start))
		span.End()
	}()

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.dialect.Insert(nutritionLogsTable).
		Rows(goqu.Record{
			"id":          log.ID,
			"owner_id":    log.OwnerID,
			"meal_name":   log.MealName,
			"meal_type":   log.MealType,
			"calories":    log.Calories,
			"protein":     log.Protein,
			"carbs":       log.Carbs,
			"fat":         log.Fat,
			"consumed_at": log.ConsumedAt,
			"notes":       log.Notes,
			"created_at":  log.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create nutrition log", err)
	}
	return nil
}

// SumByOwner totals the owner's logs consumed within [from, to)
func (a *NutritionLogAdapter) SumByOwner(ctx context.Context, ownerID string, from, to time.Time) (*entities.NutritionTotals, error) {
	start := time.Now()
	defer func() {
		observability.RecordDBMetric(ctx, a.metrics, "sum_nutrition_logs", time.Since(start))
	}()

	query, args, err := a.dialect.From(nutritionLogsTable).
		Select(
			goqu.COUNT(goqu.Star()).As("entries"),
			goqu.COALESCE(goqu.SUM("calories"), 0).As("calories"),
			goqu.COALESCE(goqu.SUM("protein"), 0).As("protein"),
			goqu.COALESCE(goqu.SUM("carbs"), 0).As("carbs"),
			goqu.COALESCE(goqu.SUM("fat"), 0).As("fat"),
		).
		Where(
			goqu.C("owner_id").Eq(ownerID),
			goqu.C("consumed_at").Gte(from),
			goqu.C("consumed_at").Lt(to),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	totals := &entities.NutritionTotals{}
	if err := a.db.GetContext(ctx, totals, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to sum nutrition logs", err)
	}
	return totals, nil
}
