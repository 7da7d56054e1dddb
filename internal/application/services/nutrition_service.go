package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
	"github.com/zatekoja/fitai/backend/pkg/nutrition"
)

const (
	defaultMealName   = "Custom entry"
	maxLoggedCalories = 20000
	maxLoggedMacro    = 5000
	maxMealNameLength = 200
	maxMealNotes      = 2000
)

// LogMealInput is one consumed meal. The four amounts are required.
type LogMealInput struct {
	MealName   string
	MealType   string
	Calories   *float64
	Protein    *float64
	Carbs      *float64
	Fat        *float64
	ConsumedAt *time.Time
	Notes      string
}

// NutritionService derives daily intake summaries from nutrition logs
type NutritionService struct {
	repo repositories.NutritionLogRepository
	now  func() time.Time
}

// NewNutritionService creates a new nutrition service
func NewNutritionService(repo repositories.NutritionLogRepository) *NutritionService {
	return &NutritionService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// LogMeal records a consumed meal for ownerID. ConsumedAt defaults to now.
func (s *NutritionService) LogMeal(ctx context.Context, ownerID string, input LogMealInput) (*entities.NutritionLog, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.NewValidationError("owner id is required")
	}

	amounts := []struct {
		name  string
		value *float64
		max   float64
	}{
		{"calories", input.Calories, maxLoggedCalories},
		{"protein", input.Protein, maxLoggedMacro},
		{"carbs", input.Carbs, maxLoggedMacro},
		{"fat", input.Fat, maxLoggedMacro},
	}
	for _, a := range amounts {
		if err := checkAmount(a.name, a.value, a.max); err != nil {
			return nil, err
		}
	}

	name := strings.TrimSpace(input.MealName)
	if name == "" {
		name = defaultMealName
	}
	if len(name) > maxMealNameLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("meal_name must be at most %d characters", maxMealNameLength))
	}
	if len(input.Notes) > maxMealNotes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("notes must be at most %d characters", maxMealNotes))
	}

	consumedAt := s.now()
	if input.ConsumedAt != nil && !input.ConsumedAt.IsZero() {
		consumedAt = input.ConsumedAt.UTC()
	}

	log := &entities.NutritionLog{
		OwnerID:    ownerID,
		MealName:   name,
		MealType:   strings.ToLower(strings.TrimSpace(input.MealType)),
		Calories:   *input.Calories,
		Protein:    *input.Protein,
		Carbs:      *input.Carbs,
		Fat:        *input.Fat,
		ConsumedAt: consumedAt,
		Notes:      input.Notes,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func checkAmount(name string, v *float64, limit float64) error {
	switch {
	case v == nil:
		return apperrors.NewValidationError(name + " is required")
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		return apperrors.NewValidationError(name + " must be a finite number")
	case *v < 0:
		return apperrors.NewValidationError(name + " must not be negative")
	case *v > limit:
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %g", name, limit))
	}
	return nil
}

// DailySummary totals the owner's intake for the calendar day of date (in
// date's location) and compares it against targetCalories split 25/45/30.
func (s *NutritionService) DailySummary(ctx context.Context, ownerID string, date time.Time, targetCalories float64) (*entities.DailyNutritionSummary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.NewValidationError("owner id is required")
	}
	if targetCalories < 0 {
		return nil, apperrors.NewValidationError("target calories must not be negative")
	}

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	totals, err := s.repo.SumByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	targets := nutrition.DailyMacroTargets(targetCalories)
	split := nutrition.MacroPercentages(totals.Protein, totals.Carbs, totals.Fat, totals.Calories)

	return &entities.DailyNutritionSummary{
		OwnerID:  ownerID,
		Date:     from.Format("2006-01-02"),
		Entries:  totals.Entries,
		Calories: progressOf(totals.Calories, targetCalories),
		Protein:  progressOf(totals.Protein, targets.Protein),
		Carbs:    progressOf(totals.Carbs, targets.Carbs),
		Fat:      progressOf(totals.Fat, targets.Fat),
		Percentages: entities.MacroPercentage{
			Protein: split.Protein,
			Carbs:   split.Carbs,
			Fat:     split.Fat,
		},
	}, nil
}

func progressOf(consumed, target float64) entities.MacroProgress {
	return entities.MacroProgress{
		Consumed:  consumed,
		Target:    target,
		Remaining: nutrition.RemainingCalories(target, consumed),
		Progress:  nutrition.ProgressRatio(consumed, target),
	}
}
