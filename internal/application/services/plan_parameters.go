package services

import (
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/pkg/nutrition"
)

// Parameter defaults applied when a value is absent or has the wrong type.
const (
	defaultFitnessGoal     = "general_fitness"
	defaultWeightKg        = 70.0
	defaultHeightCm        = 170.0
	defaultBodyType        = "mesomorph"
	defaultActivityLevel   = "moderate"
	defaultWorkoutDuration = 30
	defaultDaysPerWeek     = 3
	defaultDifficulty      = "beginner"

	defaultTargetCalories    = 2000
	defaultDietaryPreference = "balanced"
	defaultMealDays          = 7
	defaultCookingTime       = "30 minutes"
	defaultCookingSkill      = "beginner"

	defaultTargetProtein = 150.0
	defaultTargetCarbs   = 250.0
	defaultTargetFat     = 67.0
)

// Upper bounds applied to resolved parameters. Larger values are clamped.
const (
	maxCalories        = 20000
	maxMealDays        = 31
	maxWorkoutDuration = 240
	maxBodyWeightKg    = 500.0
	maxHeightCm        = 300.0
	maxNutrientAmount  = 100000.0
)

var defaultMealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// WorkoutParameters are the resolved inputs of a workout plan request
type WorkoutParameters struct {
	FitnessGoal        string
	CurrentWeight      float64
	TargetWeight       float64
	Height             float64
	BodyType           string
	ActivityLevel      string
	WorkoutTypes       []string
	AvailableEquipment []string
	WorkoutDuration    int
	DaysPerWeek        int
	Difficulty         string
}

// ResolveWorkoutParameters applies defaults to raw workout parameters
func ResolveWorkoutParameters(p entities.GenerationParameters) WorkoutParameters {
	return WorkoutParameters{
		FitnessGoal:        p.String("fitness_goal", defaultFitnessGoal),
		CurrentWeight:      clampFloat(p.Float("current_weight", defaultWeightKg), maxBodyWeightKg),
		TargetWeight:       clampFloat(p.Float("target_weight", defaultWeightKg), maxBodyWeightKg),
		Height:             clampFloat(p.Float("height", defaultHeightCm), maxHeightCm),
		BodyType:           p.String("body_type", defaultBodyType),
		ActivityLevel:      p.String("activity_level", defaultActivityLevel),
		WorkoutTypes:       p.StringList("workout_types", []string{}),
		AvailableEquipment: p.StringList("available_equipment", []string{}),
		WorkoutDuration:    clampInt(p.PositiveInt("workout_duration", defaultWorkoutDuration), 1, maxWorkoutDuration),
		DaysPerWeek:        clampInt(p.PositiveInt("days_per_week", defaultDaysPerWeek), 1, 7),
		Difficulty:         p.String("difficulty", defaultDifficulty),
	}
}

// MealParameters are the resolved inputs of a meal plan request
type MealParameters struct {
	TargetCalories    int
	DietaryPreference string
	Allergies         []string
	MealTypes         []string
	Days              int
	CookingTime       string
	CookingSkill      string
}

// ResolveMealParameters applies defaults to raw meal parameters
func ResolveMealParameters(p entities.GenerationParameters) MealParameters {
	mealTypes := p.StringList("meal_types", defaultMealTypes)
	if len(mealTypes) == 0 {
		mealTypes = append([]string(nil), defaultMealTypes...)
	}
	return MealParameters{
		TargetCalories:    clampInt(p.PositiveInt("target_calories", defaultTargetCalories), 1, maxCalories),
		DietaryPreference: p.String("dietary_preference", defaultDietaryPreference),
		Allergies:         p.StringList("allergies", []string{}),
		MealTypes:         mealTypes,
		Days:              clampInt(p.PositiveInt("days", defaultMealDays), 1, maxMealDays),
		CookingTime:       p.String("cooking_time", defaultCookingTime),
		CookingSkill:      p.String("cooking_skill", defaultCookingSkill),
	}
}

// NutritionParameters are the resolved inputs of a nutrition analysis request.
// Body metrics are optional and stay zero when absent.
type NutritionParameters struct {
	CaloriesConsumed float64
	TargetCalories   float64
	Protein          float64
	Carbs            float64
	Fat              float64
	Fiber            float64
	Sugar            float64
	Sodium           float64
	FitnessGoal      string
	TargetProtein    float64
	TargetCarbs      float64
	TargetFat        float64
	CurrentWeight    float64
	TargetWeight     float64
	Height           float64
}

// ResolveNutritionParameters applies defaults to raw nutrition analysis parameters
func ResolveNutritionParameters(p entities.GenerationParameters) NutritionParameters {
	return NutritionParameters{
		CaloriesConsumed: clampFloat(p.Float("calories_consumed", 0), maxCalories),
		TargetCalories:   clampFloat(p.Float("target_calories", defaultTargetCalories), maxCalories),
		Protein:          clampFloat(p.Float("protein", 0), maxNutrientAmount),
		Carbs:            clampFloat(p.Float("carbs", 0), maxNutrientAmount),
		Fat:              clampFloat(p.Float("fat", 0), maxNutrientAmount),
		Fiber:            clampFloat(p.Float("fiber", 0), maxNutrientAmount),
		Sugar:            clampFloat(p.Float("sugar", 0), maxNutrientAmount),
		Sodium:           clampFloat(p.Float("sodium", 0), maxNutrientAmount),
		FitnessGoal:      p.String("fitness_goal", defaultFitnessGoal),
		TargetProtein:    clampFloat(p.Float("target_protein", defaultTargetProtein), maxNutrientAmount),
		TargetCarbs:      clampFloat(p.Float("target_carbs", defaultTargetCarbs), maxNutrientAmount),
		TargetFat:        clampFloat(p.Float("target_fat", defaultTargetFat), maxNutrientAmount),
		CurrentWeight:    clampFloat(p.Float("current_weight", 0), maxBodyWeightKg),
		TargetWeight:     clampFloat(p.Float("target_weight", 0), maxBodyWeightKg),
		Height:           clampFloat(p.Float("height", 0), maxHeightCm),
	}
}

// Inputs echoes the analysed numbers alongside derived macro percentages and BMI
func (n NutritionParameters) Inputs() map[string]float64 {
	split := nutrition.MacroPercentages(n.Protein, n.Carbs, n.Fat, n.CaloriesConsumed)
	inputs := map[string]float64{
		"calories_consumed":  n.CaloriesConsumed,
		"target_calories":    n.TargetCalories,
		"protein":            n.Protein,
		"carbs":              n.Carbs,
		"fat":                n.Fat,
		"fiber":              n.Fiber,
		"sugar":              n.Sugar,
		"sodium":             n.Sodium,
		"target_protein":     n.TargetProtein,
		"target_carbs":       n.TargetCarbs,
		"target_fat":         n.TargetFat,
		"remaining_calories": nutrition.RemainingCalories(n.TargetCalories, n.CaloriesConsumed),
		"calorie_progress":   nutrition.ProgressRatio(n.CaloriesConsumed, n.TargetCalories),
		"protein_percentage": split.Protein,
		"carbs_percentage":   split.Carbs,
		"fat_percentage":     split.Fat,
	}
	if bmi := nutrition.BMI(n.CurrentWeight, n.Height); bmi > 0 {
		inputs["bmi"] = bmi
	}
	if bmi := nutrition.BMI(n.TargetWeight, n.Height); bmi > 0 {
		inputs["target_bmi"] = bmi
	}
	return inputs
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat caps v at hi; Float already guarantees v >= 0
func clampFloat(v, hi float64) float64 {
	if v > hi {
		return hi
	}
	return v
}
