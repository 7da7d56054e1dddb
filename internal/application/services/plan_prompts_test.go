package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/fitai/backend/internal/application/services"
	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

func TestBuildPrompt_WorkoutDefaults(t *testing.T) {
	prompt := services.BuildPrompt(entities.GenerationRequest{Kind: entities.PlanKindWorkout})

	assert.Equal(t, entities.PlanKindWorkout, prompt.Kind)
	assert.Contains(t, prompt.Text, "Fitness Goal: general_fitness")
	assert.Contains(t, prompt.Text, "Current Weight: 70 kg")
	assert.Contains(t, prompt.Text, "Height: 170 cm")
	assert.Contains(t, prompt.Text, "Body Type: mesomorph")
	assert.Contains(t, prompt.Text, "Preferred Workout Types: []")
	assert.Contains(t, prompt.Text, "Workout Duration: 30 minutes")
	assert.Contains(t, prompt.Text, "Days Per Week: 3")
	assert.Contains(t, prompt.Text, "Difficulty Level: beginner")
	assert.Contains(t, prompt.Text, `"rest_seconds": 60`)
	assert.Contains(t, prompt.Text, prompt.Shape)
}

func TestBuildPrompt_WorkoutEmbedsParameters(t *testing.T) {
	prompt := services.BuildPrompt(entities.GenerationRequest{
		Kind: entities.PlanKindWorkout,
		Parameters: entities.GenerationParameters{
			"fitness_goal":        "muscle_gain",
			"current_weight":      82.5,
			"available_equipment": []interface{}{"dumbbells", "bench"},
			"days_per_week":       "5",
			"difficulty":          42.0,
		},
	})

	assert.Contains(t, prompt.Text, "Fitness Goal: muscle_gain")
	assert.Contains(t, prompt.Text, "Current Weight: 82.5 kg")
	assert.Contains(t, prompt.Text, `Available Equipment: ["dumbbells","bench"]`)
	assert.Contains(t, prompt.Text, "Days Per Week: 5")
	assert.Contains(t, prompt.Text, "Difficulty Level: beginner", "wrongly typed value falls back to default")
}

func TestBuildPrompt_MealDefaults(t *testing.T) {
	prompt := services.BuildPrompt(entities.GenerationRequest{Kind: entities.PlanKindMeal})

	assert.Contains(t, prompt.Text, "Target Calories: 2000 per day")
	assert.Contains(t, prompt.Text, "Dietary Preference: balanced")
	assert.Contains(t, prompt.Text, `Meal Types: ["breakfast","lunch","dinner","snack"]`)
	assert.Contains(t, prompt.Text, "Days: 7")
	assert.Contains(t, prompt.Text, "Cooking Time: 30 minutes")
	assert.Contains(t, prompt.Text, `"meal_prep_tips"`)
}

func TestBuildPrompt_NutritionAnalysis(t *testing.T) {
	prompt := services.BuildPrompt(entities.GenerationRequest{
		Kind:       entities.PlanKindNutritionAnalysis,
		Parameters: entities.GenerationParameters{"calories_consumed": 1650.0, "protein": 90.0},
	})

	assert.Contains(t, prompt.Text, "Calories Consumed: 1650")
	assert.Contains(t, prompt.Text, "Target Calories: 2000")
	assert.Contains(t, prompt.Text, "Protein: 90g")
	assert.Contains(t, prompt.Text, "Target Protein: 150g")
	assert.Contains(t, prompt.Text, "Target Fat: 67g")
	assert.Contains(t, prompt.Text, `"overall_assessment"`)
}

func TestBuildPrompt_IsDeterministic(t *testing.T) {
	req := entities.GenerationRequest{
		Kind:       entities.PlanKindMeal,
		Parameters: entities.GenerationParameters{"allergies": []interface{}{"peanuts"}, "target_calories": 1800.0},
	}

	assert.Equal(t, services.BuildPrompt(req), services.BuildPrompt(req))
}
