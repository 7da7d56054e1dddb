package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/repositories"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

const (
	plansTable     = "plans"
	planDaysTable  = "plan_days"
	planItemsTable = "plan_items"
)

// PlanAdapter implements the PlanRepository interface
type PlanAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
	db      *sqlx.DB
	metrics *observability.Metrics
}

// NewPlanAdapter creates a new plan adapter. metrics may be nil.
func NewPlanAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.PlanRepository {
	return &PlanAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
		db:      sqlx.NewDb(client.DB(), "postgres"),
		metrics: metrics,
	}
}

// CreateWithChildren writes the plan row, then each day row, then each day's
// item rows inside one transaction. Any failure rolls back every row already
// written and is returned as a PERSISTENCE error.
func (a *PlanAdapter) CreateWithChildren(ctx context.Context, plan *entities.PersistedPlan) (err error) {
	ctx, span := observability.StartSpan(ctx, "PlanAdapter.CreateWithChildren")
	start := time.Now()
	defer func() {
		observability.RecordError(span, err)
		observability.RecordDBMetric(ctx, a.metrics, "insert_plan", time.Since(start))
		span.End()
	}()

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewPersistenceError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	header, err := planRecord(plan)
	if err != nil {
		return apperrors.NewPersistenceError("failed to encode plan details", err)
	}
	if err = a.insert(ctx, tx, plansTable, header); err != nil {
		return classifyWriteError("plan", err)
	}

	for _, day := range plan.Days {
		record, encErr := dayRecord(day)
		if encErr != nil {
			err = encErr
			return apperrors.NewPersistenceError("failed to encode plan day", err)
		}
		if err = a.insert(ctx, tx, planDaysTable, record); err != nil {
			return classifyWriteError(fmt.Sprintf("plan day %d", day.Position), err)
		}

		for _, item := range day.Items {
			record, encErr := itemRecord(item)
			if encErr != nil {
				err = encErr
				return apperrors.NewPersistenceError("failed to encode plan item", err)
			}
			if err = a.insert(ctx, tx, planItemsTable, record); err != nil {
				return classifyWriteError(fmt.Sprintf("plan item %d of day %d", item.Position, day.Position), err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return apperrors.NewPersistenceError("failed to commit plan", err)
	}
	return nil
}

func (a *PlanAdapter) insert(ctx context.Context, tx *sql.Tx, table string, record goqu.Record) error {
	query, args, err := a.dialect.Insert(table).Rows(record).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// classifyWriteError labels integrity violations (SQLSTATE class 23) so they
// are distinguishable from connection failures in logs.
func classifyWriteError(what string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return apperrors.NewPersistenceError(
			fmt.Sprintf("failed to store %s: constraint %s violated (%s)", what, pqErr.Constraint, pqErr.Code.Name()), err)
	}
	return apperrors.NewPersistenceError(fmt.Sprintf("failed to store %s", what), err)
}

func planRecord(plan *entities.PersistedPlan) (goqu.Record, error) {
	details, err := json.Marshal(plan.Details)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"id":              plan.ID,
		"owner_id":        plan.OwnerID,
		"kind":            string(plan.Kind),
		"name":            plan.Name,
		"description":     plan.Description,
		"scope_size":      plan.ScopeSize,
		"tag":             plan.Tag,
		"target_calories": plan.TargetCalories,
		"source":          string(plan.Source),
		"details":         string(details),
		"is_active":       plan.IsActive,
		"created_at":      plan.CreatedAt,
		"updated_at":      plan.UpdatedAt,
	}, nil
}

func dayRecord(day entities.PersistedDay) (goqu.Record, error) {
	warmUp, err := jsonList(day.WarmUp)
	if err != nil {
		return nil, err
	}
	coolDown, err := jsonList(day.CoolDown)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"id":               day.ID,
		"plan_id":          day.PlanID,
		"position":         day.Position,
		"week_number":      day.WeekNumber,
		"day_number":       day.DayNumber,
		"label":            day.Label,
		"focus":            day.Focus,
		"duration_minutes": day.DurationMinutes,
		"total_calories":   nullFloat(day.TotalCalories),
		"total_protein":    nullFloat(day.TotalProtein),
		"total_carbs":      nullFloat(day.TotalCarbs),
		"total_fat":        nullFloat(day.TotalFat),
		"warm_up":          warmUp,
		"cool_down":        coolDown,
	}, nil
}

func itemRecord(item entities.PersistedItem) (goqu.Record, error) {
	instructions, err := jsonList(item.Instructions)
	if err != nil {
		return nil, err
	}
	ingredients, err := jsonList(item.Ingredients)
	if err != nil {
		return nil, err
	}
	muscles, err := jsonList(item.Muscles)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"id":             item.ID,
		"day_id":         item.DayID,
		"plan_id":        item.PlanID,
		"position":       item.Position,
		"name":           item.Name,
		"category":       item.Category,
		"scheduled_time": item.ScheduledTime,
		"sets":           nullInt(item.Sets),
		"reps":           item.Reps,
		"rest_seconds":   nullInt(item.RestSeconds),
		"calories":       nullFloat(item.Calories),
		"protein":        nullFloat(item.Protein),
		"carbs":          nullFloat(item.Carbs),
		"fat":            nullFloat(item.Fat),
		"prep_minutes":   nullInt(item.PrepMinutes),
		"cook_minutes":   nullInt(item.CookMinutes),
		"instructions":   instructions,
		"ingredients":    ingredients,
		"muscles":        muscles,
		"equipment":      item.Equipment,
	}, nil
}

// Row shapes scanned by sqlx

type planRow struct {
	ID             string    `db:"id"`
	OwnerID        string    `db:"owner_id"`
	Kind           string    `db:"kind"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	ScopeSize      int       `db:"scope_size"`
	Tag            string    `db:"tag"`
	TargetCalories int       `db:"target_calories"`
	Source         string    `db:"source"`
	Details        []byte    `db:"details"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type dayRow struct {
	ID              string          `db:"id"`
	PlanID          string          `db:"plan_id"`
	Position        int             `db:"position"`
	WeekNumber      int             `db:"week_number"`
	DayNumber       int             `db:"day_number"`
	Label           string          `db:"label"`
	Focus           string          `db:"focus"`
	DurationMinutes int             `db:"duration_minutes"`
	TotalCalories   sql.NullFloat64 `db:"total_calories"`
	TotalProtein    sql.NullFloat64 `db:"total_protein"`
	TotalCarbs      sql.NullFloat64 `db:"total_carbs"`
	TotalFat        sql.NullFloat64 `db:"total_fat"`
	WarmUp          []byte          `db:"warm_up"`
	CoolDown        []byte          `db:"cool_down"`
}

type itemRow struct {
	ID            string          `db:"id"`
	DayID         string          `db:"day_id"`
	PlanID        string          `db:"plan_id"`
	Position      int             `db:"position"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	ScheduledTime string          `db:"scheduled_time"`
	Sets          sql.NullInt64   `db:"sets"`
	Reps          string          `db:"reps"`
	RestSeconds   sql.NullInt64   `db:"rest_seconds"`
	Calories      sql.NullFloat64 `db:"calories"`
	Protein       sql.NullFloat64 `db:"protein"`
	Carbs         sql.NullFloat64 `db:"carbs"`
	Fat           sql.NullFloat64 `db:"fat"`
	PrepMinutes   sql.NullInt64   `db:"prep_minutes"`
	CookMinutes   sql.NullInt64   `db:"cook_minutes"`
	Instructions  []byte          `db:"instructions"`
	Ingredients   []byte          `db:"ingredients"`
	Muscles       []byte          `db:"muscles"`
	Equipment     string          `db:"equipment"`
}

var (
	planColumns = []interface{}{
		"id", "owner_id", "kind", "name", "description", "scope_size", "tag",
		"target_calories", "source", "details", "is_active", "created_at", "updated_at",
	}
	dayColumns = []interface{}{
		"id", "plan_id", "position", "week_number", "day_number", "label", "focus",
		"duration_minutes", "total_calories", "total_protein", "total_carbs", "total_fat",
		"warm_up", "cool_down",
	}
	itemColumns = []interface{}{
		"id", "day_id", "plan_id", "position", "name", "category", "scheduled_time",
		"sets", "reps", "rest_seconds", "calories", "protein", "carbs", "fat",
		"prep_minutes", "cook_minutes", "instructions", "ingredients", "muscles", "equipment",
	}
)

// GetByID loads a plan with its days and items in position order
func (a *PlanAdapter) GetByID(ctx context.Context, id string) (*entities.PersistedPlan, error) {
	if !isPlanID(id) {
		return nil, planNotFound(id)
	}
	query, args, err := a.dialect.From(plansTable).Select(planColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var header planRow
	if err := a.db.GetContext(ctx, &header, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, planNotFound(id)
		}
		return nil, apperrors.NewInternalError("failed to get plan", err)
	}

	plan := &entities.PersistedPlan{
		ID:             header.ID,
		OwnerID:        header.OwnerID,
		Kind:           entities.PlanKind(header.Kind),
		Name:           header.Name,
		Description:    header.Description,
		ScopeSize:      header.ScopeSize,
		Tag:            header.Tag,
		TargetCalories: header.TargetCalories,
		Source:         entities.PlanSource(header.Source),
		IsActive:       header.IsActive,
		CreatedAt:      header.CreatedAt,
		UpdatedAt:      header.UpdatedAt,
		Days:           []entities.PersistedDay{},
	}
	if len(header.Details) > 0 {
		if err := json.Unmarshal(header.Details, &plan.Details); err != nil {
			return nil, apperrors.NewInternalError("failed to decode plan details", err)
		}
	}

	query, args, err = a.dialect.From(planDaysTable).Select(dayColumns...).
		Where(goqu.Ex{"plan_id": id}).
		Order(goqu.C("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	var days []dayRow
	if err := a.db.SelectContext(ctx, &days, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get plan days", err)
	}

	query, args, err = a.dialect.From(planItemsTable).Select(itemColumns...).
		Where(goqu.Ex{"plan_id": id}).
		Order(goqu.C("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	var items []itemRow
	if err := a.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get plan items", err)
	}

	itemsByDay := make(map[string][]entities.PersistedItem, len(days))
	for _, row := range items {
		item := entities.PersistedItem{
			ID:            row.ID,
			DayID:         row.DayID,
			PlanID:        row.PlanID,
			Position:      row.Position,
			Name:          row.Name,
			Category:      row.Category,
			ScheduledTime: row.ScheduledTime,
			Sets:          intFromNull(row.Sets),
			Reps:          row.Reps,
			RestSeconds:   intFromNull(row.RestSeconds),
			Calories:      floatFromNull(row.Calories),
			Protein:       floatFromNull(row.Protein),
			Carbs:         floatFromNull(row.Carbs),
			Fat:           floatFromNull(row.Fat),
			PrepMinutes:   intFromNull(row.PrepMinutes),
			CookMinutes:   intFromNull(row.CookMinutes),
			Instructions:  listFromJSON(row.Instructions),
			Ingredients:   listFromJSON(row.Ingredients),
			Muscles:       listFromJSON(row.Muscles),
			Equipment:     row.Equipment,
		}
		itemsByDay[row.DayID] = append(itemsByDay[row.DayID], item)
	}

	for _, row := range days {
		day := entities.PersistedDay{
			ID:              row.ID,
			PlanID:          row.PlanID,
			Position:        row.Position,
			WeekNumber:      row.WeekNumber,
			DayNumber:       row.DayNumber,
			Label:           row.Label,
			Focus:           row.Focus,
			DurationMinutes: row.DurationMinutes,
			TotalCalories:   floatFromNull(row.TotalCalories),
			TotalProtein:    floatFromNull(row.TotalProtein),
			TotalCarbs:      floatFromNull(row.TotalCarbs),
			TotalFat:        floatFromNull(row.TotalFat),
			WarmUp:          listFromJSON(row.WarmUp),
			CoolDown:        listFromJSON(row.CoolDown),
			Items:           itemsByDay[row.ID],
		}
		if day.Items == nil {
			day.Items = []entities.PersistedItem{}
		}
		plan.Days = append(plan.Days, day)
	}

	return plan, nil
}

// Delete deletes a plan. Days and items go with it through ON DELETE CASCADE.
func (a *PlanAdapter) Delete(ctx context.Context, id string) error {
	if !isPlanID(id) {
		return planNotFound(id)
	}
	query, args, err := a.dialect.Delete(plansTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete plan", err)
	}
	return requireRowAffected(result, id)
}

// SetActive updates is_active on a single plan
func (a *PlanAdapter) SetActive(ctx context.Context, id string, active bool) error {
	if !isPlanID(id) {
		return planNotFound(id)
	}
	query, args, err := a.dialect.Update(plansTable).
		Set(goqu.Record{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update plan", err)
	}
	return requireRowAffected(result, id)
}

func requireRowAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return planNotFound(id)
	}
	return nil
}

// isPlanID reports whether id is a canonical uuid and so can match the primary
// key; anything else would make postgres fail the cast instead of finding no row.
func isPlanID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func planNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("plan with id %s not found", id))
}

func jsonList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func listFromJSON(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil || len(values) == 0 {
		return nil
	}
	return values
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatFromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
