package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/fitai/backend/internal/adapters/database"
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

const (
	planID      = "3f2c8a54-9d1e-4b7a-8c6f-0e5d4b3a2910"
	otherPlanID = "7a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func twoDayWorkout() *entities.PersistedPlan {
	plan := &entities.StructuredPlan{
		Kind:   entities.PlanKindWorkout,
		Header: entities.PlanHeader{Name: "Split", Description: "Upper and lower", ScopeSize: 1, Tag: "beginner"},
		Days: []entities.PlanDay{
			{WeekNumber: 1, DayNumber: 1, Label: "Monday", Items: []entities.PlanItem{
				{Name: "Bench Press", Exercise: &entities.ExerciseDetails{Sets: 3, Reps: "8", RestSeconds: 90}},
				{Name: "Rows", Exercise: &entities.ExerciseDetails{Sets: 3, Reps: "10", RestSeconds: 60}},
			}},
			{WeekNumber: 1, DayNumber: 3, Label: "Wednesday", Items: []entities.PlanItem{
				{Name: "Squat", Exercise: &entities.ExerciseDetails{Sets: 4, Reps: "5", RestSeconds: 120}},
				{Name: "Lunge", Exercise: &entities.ExerciseDetails{Sets: 3, Reps: "12", RestSeconds: 60}},
			}},
		},
	}
	return entities.NewPersistedPlan("user-1", plan, entities.PlanSourceProvider, time.Now().UTC())
}

func TestPlanAdapter_CreateWithChildren(t *testing.T) {
	t.Run("writes header, days and items in order inside one transaction", func(t *testing.T) {
		// Arrange
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)
		plan := twoDayWorkout()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "plans".+'Split'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_days".+'Monday'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Bench Press'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Rows'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_days".+'Wednesday'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Squat'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Lunge'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// Act
		err := adapter.CreateWithChildren(context.Background(), plan)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failing item rolls back everything", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)
		plan := twoDayWorkout()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "plans"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_days".+'Monday'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Bench Press'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Rows'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_days".+'Wednesday'`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "plan_items".+'Squat'`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "plan_items_day_id_position_key"})
		mock.ExpectRollback()

		err := adapter.CreateWithChildren(context.Background(), plan)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
		assert.Contains(t, err.Error(), "plan_items_day_id_position_key")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failing header writes nothing else", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "plans"`).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := adapter.CreateWithChildren(context.Background(), twoDayWorkout())

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := adapter.CreateWithChildren(context.Background(), twoDayWorkout())

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)
		plan := &entities.PersistedPlan{ID: "p1", OwnerID: "user-1", Kind: entities.PlanKindNutritionAnalysis, Name: "Nutrition Analysis"}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "plans"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := adapter.CreateWithChildren(context.Background(), plan)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPlanAdapter_GetByID(t *testing.T) {
	t.Run("assembles days and items by position", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		mock.ExpectQuery(`SELECT .+ FROM "plans"`).WillReturnRows(
			sqlmock.NewRows([]string{"id", "owner_id", "kind", "name", "description", "scope_size", "tag",
				"target_calories", "source", "details", "is_active", "created_at", "updated_at"}).
				AddRow(planID, "user-1", "meal", "Plant Power", "Vegan day", 1, "vegan",
					1800, "fallback", []byte(`{"shopping_list":["Tofu"]}`), true, now, now))
		mock.ExpectQuery(`SELECT .+ FROM "plan_days"`).WillReturnRows(
			sqlmock.NewRows([]string{"id", "plan_id", "position", "week_number", "day_number", "label", "focus",
				"duration_minutes", "total_calories", "total_protein", "total_carbs", "total_fat", "warm_up", "cool_down"}).
				AddRow("d1", planID, 0, 0, 1, "Day 1", "", 0, 450.0, 28.0, 50.0, 15.0, []byte(`[]`), []byte(`[]`)))
		mock.ExpectQuery(`SELECT .+ FROM "plan_items"`).WillReturnRows(
			sqlmock.NewRows([]string{"id", "day_id", "plan_id", "position", "name", "category", "scheduled_time",
				"sets", "reps", "rest_seconds", "calories", "protein", "carbs", "fat", "prep_minutes", "cook_minutes",
				"instructions", "ingredients", "muscles", "equipment"}).
				AddRow("i1", "d1", planID, 0, "Tofu Scramble", "breakfast", "08:00",
					nil, "", nil, 450.0, 28.0, 50.0, 15.0, 5, 10,
					[]byte(`["Cook"]`), []byte(`["Tofu","Spinach"]`), []byte(`[]`), ""))

		plan, err := adapter.GetByID(context.Background(), planID)

		require.NoError(t, err)
		assert.Equal(t, entities.PlanKindMeal, plan.Kind)
		assert.Equal(t, entities.PlanSourceFallback, plan.Source)
		assert.True(t, plan.IsActive)
		assert.Equal(t, []string{"Tofu"}, plan.Details.ShoppingList)
		require.Len(t, plan.Days, 1)
		require.NotNil(t, plan.Days[0].TotalCalories)
		assert.Equal(t, 450.0, *plan.Days[0].TotalCalories)
		require.Len(t, plan.Days[0].Items, 1)

		item := plan.Days[0].Items[0]
		assert.Nil(t, item.Sets)
		require.NotNil(t, item.Calories)
		assert.Equal(t, 450.0, *item.Calories)
		assert.Equal(t, []string{"Tofu", "Spinach"}, item.Ingredients)
		assert.Nil(t, item.Muscles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)

		mock.ExpectQuery(`SELECT .+ FROM "plans"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		plan, err := adapter.GetByID(context.Background(), otherPlanID)

		assert.Nil(t, plan)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestPlanAdapter_DeleteAndSetActive(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)

		mock.ExpectExec(`DELETE FROM "plans" WHERE \("id" = '`+planID+`'\)`).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.Delete(context.Background(), planID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete missing plan", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)

		mock.ExpectExec(`DELETE FROM "plans"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.Delete(context.Background(), planID)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("set active", func(t *testing.T) {
		db, mock := setupMockDB(t)
		adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)

		mock.ExpectExec(`UPDATE "plans" SET .*"is_active"=TRUE`).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.SetActive(context.Background(), planID, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPlanAdapter_MalformedIDIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	adapter := database.NewPlanAdapter(postgres.NewClientFromDB(db), nil)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "", "urn:uuid:" + planID, planID + "0"} {
		t.Run(id, func(t *testing.T) {
			plan, err := adapter.GetByID(ctx, id)
			assert.Nil(t, plan)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

			assert.True(t, apperrors.IsType(adapter.Delete(ctx, id), apperrors.ErrorTypeNotFound))
			assert.True(t, apperrors.IsType(adapter.SetActive(ctx, id, true), apperrors.ErrorTypeNotFound))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet(), "no query reaches the database")
}
