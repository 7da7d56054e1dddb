package services_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/fitai/backend/internal/application/services"
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

func TestNutritionService_DailySummary(t *testing.T) {
	t.Run("summarises one calendar day", func(t *testing.T) {
		// Arrange
		date := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
		from := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

		repo := new(MockNutritionLogRepository)
		repo.On("SumByOwner", mock.Anything, "user-1", from, to).Return(&entities.NutritionTotals{
			Entries:  3,
			Calories: 1500,
			Protein:  75,
			Carbs:    150,
			Fat:      50,
		}, nil).Once()
		service := services.NewNutritionService(repo)

		// Act
		summary, err := service.DailySummary(context.Background(), "user-1", date, 2000)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "2024-03-09", summary.Date)
		assert.Equal(t, 3, summary.Entries)

		assert.Equal(t, 1500.0, summary.Calories.Consumed)
		assert.Equal(t, 500.0, summary.Calories.Remaining)
		assert.Equal(t, 0.75, summary.Calories.Progress)

		assert.Equal(t, 125.0, summary.Protein.Target)
		assert.Equal(t, 225.0, summary.Carbs.Target)
		assert.InDelta(t, 66.67, summary.Fat.Target, 0.01)

		assert.Equal(t, 20.0, summary.Percentages.Protein)
		assert.Equal(t, 40.0, summary.Percentages.Carbs)
		assert.Equal(t, 30.0, summary.Percentages.Fat)
		repo.AssertExpectations(t)
	})

	t.Run("over target has no remaining calories", func(t *testing.T) {
		repo := new(MockNutritionLogRepository)
		repo.On("SumByOwner", mock.Anything, "user-1", mock.Anything, mock.Anything).
			Return(&entities.NutritionTotals{Entries: 1, Calories: 2500}, nil)
		service := services.NewNutritionService(repo)

		summary, err := service.DailySummary(context.Background(), "user-1", time.Now(), 2000)

		require.NoError(t, err)
		assert.Equal(t, 0.0, summary.Calories.Remaining)
		assert.Equal(t, 1.25, summary.Calories.Progress)
	})

	t.Run("empty day", func(t *testing.T) {
		repo := new(MockNutritionLogRepository)
		repo.On("SumByOwner", mock.Anything, "user-1", mock.Anything, mock.Anything).
			Return(&entities.NutritionTotals{}, nil)
		service := services.NewNutritionService(repo)

		summary, err := service.DailySummary(context.Background(), "user-1", time.Now(), 0)

		require.NoError(t, err)
		assert.Equal(t, 0.0, summary.Calories.Progress)
		assert.Equal(t, 0.0, summary.Percentages.Protein)
	})

	t.Run("validation", func(t *testing.T) {
		service := services.NewNutritionService(new(MockNutritionLogRepository))

		_, err := service.DailySummary(context.Background(), "", time.Now(), 2000)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		_, err = service.DailySummary(context.Background(), "user-1", time.Now(), -1)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockNutritionLogRepository)
		repo.On("SumByOwner", mock.Anything, "user-1", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down"))
		service := services.NewNutritionService(repo)

		_, err := service.DailySummary(context.Background(), "user-1", time.Now(), 2000)

		assert.Error(t, err)
	})
}

func amount(v float64) *float64 { return &v }

func mealInput() services.LogMealInput {
	return services.LogMealInput{
		MealName: "Oats",
		MealType: "Breakfast",
		Calories: amount(420),
		Protein:  amount(18),
		Carbs:    amount(60),
		Fat:      amount(9),
		Notes:    "with berries",
	}
}

func TestNutritionService_LogMeal(t *testing.T) {
	t.Run("stores the entry", func(t *testing.T) {
		consumed := time.Date(2026, 3, 9, 7, 30, 0, 0, time.FixedZone("CET", 3600))
		input := mealInput()
		input.ConsumedAt = &consumed

		repo := new(MockNutritionLogRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entities.NutritionLog) bool {
			return l.OwnerID == "user-1" && l.MealName == "Oats" && l.MealType == "breakfast" &&
				l.Calories == 420 && l.Fat == 9 && l.ConsumedAt.Equal(consumed) &&
				l.ConsumedAt.Location() == time.UTC
		})).Return(nil).Once()
		service := services.NewNutritionService(repo)

		log, err := service.LogMeal(context.Background(), "user-1", input)

		require.NoError(t, err)
		assert.Equal(t, "with berries", log.Notes)
		repo.AssertExpectations(t)
	})

	t.Run("defaults name and time", func(t *testing.T) {
		input := mealInput()
		input.MealName = "  "

		repo := new(MockNutritionLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		service := services.NewNutritionService(repo)

		before := time.Now().UTC()
		log, err := service.LogMeal(context.Background(), "user-1", input)

		require.NoError(t, err)
		assert.Equal(t, "Custom entry", log.MealName)
		assert.False(t, log.ConsumedAt.Before(before.Add(-time.Second)))
	})

	t.Run("zero amounts are allowed", func(t *testing.T) {
		input := mealInput()
		input.Fat = amount(0)

		repo := new(MockNutritionLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := services.NewNutritionService(repo).LogMeal(context.Background(), "user-1", input)

		assert.NoError(t, err)
	})

	rejects := []struct {
		name   string
		owner  string
		mutate func(*services.LogMealInput)
	}{
		{name: "missing owner", owner: "", mutate: func(*services.LogMealInput) {}},
		{name: "negative calories", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Calories = amount(-1) }},
		{name: "negative protein", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Protein = amount(-0.5) }},
		{name: "negative carbs", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Carbs = amount(-20) }},
		{name: "negative fat", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Fat = amount(-3) }},
		{name: "missing calories", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Calories = nil }},
		{name: "missing fat", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Fat = nil }},
		{name: "nan protein", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Protein = amount(math.NaN()) }},
		{name: "infinite carbs", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Carbs = amount(math.Inf(1)) }},
		{name: "absurd calories", owner: "user-1", mutate: func(in *services.LogMealInput) { in.Calories = amount(1e19) }},
		{name: "long name", owner: "user-1", mutate: func(in *services.LogMealInput) { in.MealName = strings.Repeat("x", 201) }},
	}

	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockNutritionLogRepository)
			service := services.NewNutritionService(repo)
			input := mealInput()
			tt.mutate(&input)

			_, err := service.LogMeal(context.Background(), tt.owner, input)

			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockNutritionLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).
			Return(apperrors.NewInternalError("failed to create nutrition log", errors.New("db down")))

		_, err := services.NewNutritionService(repo).LogMeal(context.Background(), "user-1", mealInput())

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})
}
