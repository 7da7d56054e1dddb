package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// GenerationPrompt is a provider-agnostic rendered request
type GenerationPrompt struct {
	Kind  entities.PlanKind
	Text  string
	Shape string
}

const workoutShape = `{
  "plan_name": "string",
  "description": "string",
  "total_weeks": 4,
  "difficulty": "string",
  "weeks": [
    {
      "week_number": 1,
      "days": [
        {
          "day_number": 1,
          "day_name": "Monday",
          "workout_type": "string",
          "duration_minutes": 30,
          "exercises": [
            {
              "name": "string",
              "sets": 3,
              "reps": "12-15",
              "rest_seconds": 60,
              "instructions": "string",
              "muscles_targeted": ["string"],
              "equipment": "string"
            }
          ],
          "warm_up": ["string"],
          "cool_down": ["string"]
        }
      ]
    }
  ]
}`

const mealShape = `{
  "plan_name": "string",
  "description": "string",
  "target_calories": 2000,
  "dietary_preference": "string",
  "days": [
    {
      "day_number": 1,
      "date": "2024-01-01",
      "meals": [
        {
          "meal_type": "breakfast",
          "time": "08:00",
          "name": "string",
          "calories": 500,
          "protein": 25,
          "carbs": 60,
          "fat": 20,
          "ingredients": ["string"],
          "instructions": ["string"],
          "prep_time": 15,
          "cook_time": 10
        }
      ],
      "total_calories": 2000,
      "total_protein": 150,
      "total_carbs": 250,
      "total_fat": 67
    }
  ],
  "shopping_list": ["string"],
  "meal_prep_tips": ["string"]
}`

const nutritionShape = `{
  "overall_assessment": "string",
  "areas_for_improvement": ["string"],
  "recommendations": ["string"],
  "meal_suggestions": ["string"],
  "macro_balance": "string"
}`

const workoutPromptTemplate = `Create a personalized workout plan for a user with the following details:
- Fitness Goal: %s
- Current Weight: %s kg
- Target Weight: %s kg
- Height: %s cm
- Body Type: %s
- Activity Level: %s
- Preferred Workout Types: %s
- Available Equipment: %s
- Workout Duration: %d minutes
- Days Per Week: %d
- Difficulty Level: %s

Provide a structured workout plan with:
1. A 4-week plan with %d workout days per week
2. Specific exercises with sets, reps and rest periods for every workout
3. Warm-up and cool-down routines for every workout
4. Only equipment from the available list (bodyweight when the list is empty)
`

const mealPromptTemplate = `Create a personalized meal plan for a user with the following details:
- Target Calories: %d per day
- Dietary Preference: %s
- Allergies: %s
- Meal Types: %s
- Days: %d
- Cooking Time: %s
- Skill Level: %s

Provide a structured meal plan with:
1. Daily meal plans for %d days, one entry per requested meal type
2. Ingredients, instructions and nutritional information (grams of protein, carbs and fat) for each meal
3. A shopping list covering every ingredient
4. Meal prep tips and storage instructions
Never include ingredients the user is allergic to.
`

const nutritionPromptTemplate = `Analyze the following nutrition data and provide insights.

Daily Nutrition:
- Calories Consumed: %s
- Target Calories: %s
- Protein: %sg
- Carbs: %sg
- Fat: %sg
- Fiber: %sg
- Sugar: %sg
- Sodium: %smg

User Goals:
- Fitness Goal: %s
- Target Protein: %sg
- Target Carbs: %sg
- Target Fat: %sg

Provide:
1. An overall nutrition assessment
2. Areas that need improvement
3. Specific recommendations (at least one)
4. Meal suggestions for the next day
5. A macro balance analysis
`

const responseInstruction = `
Respond with a single JSON object only, no markdown and no commentary, using exactly this structure:
%s
`

// BuildPrompt renders the prompt for req. It is deterministic and never fails;
// an unknown kind renders as a nutrition analysis request.
func BuildPrompt(req entities.GenerationRequest) GenerationPrompt {
	var body, shape string

	switch req.Kind {
	case entities.PlanKindWorkout:
		w := ResolveWorkoutParameters(req.Parameters)
		shape = workoutShape
		body = fmt.Sprintf(workoutPromptTemplate,
			w.FitnessGoal,
			formatNumber(w.CurrentWeight),
			formatNumber(w.TargetWeight),
			formatNumber(w.Height),
			w.BodyType,
			w.ActivityLevel,
			formatList(w.WorkoutTypes),
			formatList(w.AvailableEquipment),
			w.WorkoutDuration,
			w.DaysPerWeek,
			w.Difficulty,
			w.DaysPerWeek,
		)

	case entities.PlanKindMeal:
		m := ResolveMealParameters(req.Parameters)
		shape = mealShape
		body = fmt.Sprintf(mealPromptTemplate,
			m.TargetCalories,
			m.DietaryPreference,
			formatList(m.Allergies),
			formatList(m.MealTypes),
			m.Days,
			m.CookingTime,
			m.CookingSkill,
			m.Days,
		)

	default:
		n := ResolveNutritionParameters(req.Parameters)
		shape = nutritionShape
		body = fmt.Sprintf(nutritionPromptTemplate,
			formatNumber(n.CaloriesConsumed),
			formatNumber(n.TargetCalories),
			formatNumber(n.Protein),
			formatNumber(n.Carbs),
			formatNumber(n.Fat),
			formatNumber(n.Fiber),
			formatNumber(n.Sugar),
			formatNumber(n.Sodium),
			n.FitnessGoal,
			formatNumber(n.TargetProtein),
			formatNumber(n.TargetCarbs),
			formatNumber(n.TargetFat),
		)
	}

	return GenerationPrompt{
		Kind:  req.Kind,
		Text:  body + fmt.Sprintf(responseInstruction, shape),
		Shape: shape,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[" + strings.Join(items, ", ") + "]"
	}
	return string(b)
}
