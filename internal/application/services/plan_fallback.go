package services

import (
	"strings"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/pkg/nutrition"
)

const (
	fallbackWorkoutName        = "Basic Fitness Plan"
	fallbackWorkoutDescription = "A beginner-friendly workout plan"
	fallbackWorkoutWeeks       = 4

	fallbackMealName        = "Balanced Meal Plan"
	fallbackMealDescription = "A balanced meal plan for healthy eating"

	nutritionAnalysisName = "Nutrition Analysis"
)

// SynthesizePlan builds a minimal plan for req from local templates. It performs
// no I/O, never fails, and its output always passes ValidatePlan.
func SynthesizePlan(req entities.GenerationRequest) *entities.StructuredPlan {
	switch req.Kind {
	case entities.PlanKindWorkout:
		return fallbackWorkoutPlan(ResolveWorkoutParameters(req.Parameters))
	case entities.PlanKindMeal:
		return fallbackMealPlan(ResolveMealParameters(req.Parameters))
	default:
		return fallbackNutritionAnalysis(ResolveNutritionParameters(req.Parameters))
	}
}

type exerciseScheme struct {
	sets        int
	pushUpReps  string
	squatReps   string
	restSeconds int
}

var difficultySchemes = map[string]exerciseScheme{
	"beginner":     {sets: 3, pushUpReps: "8-12", squatReps: "12-15", restSeconds: 60},
	"intermediate": {sets: 4, pushUpReps: "12-15", squatReps: "15-20", restSeconds: 45},
	"advanced":     {sets: 5, pushUpReps: "15-20", squatReps: "20-25", restSeconds: 30},
}

func fallbackWorkoutPlan(p WorkoutParameters) *entities.StructuredPlan {
	scheme, ok := difficultySchemes[strings.ToLower(p.Difficulty)]
	if !ok {
		scheme = difficultySchemes["beginner"]
	}

	day := entities.PlanDay{
		WeekNumber:      1,
		DayNumber:       1,
		Label:           "Monday",
		Focus:           "Full Body",
		DurationMinutes: p.WorkoutDuration,
		WarmUp:          []string{"Arm circles", "Leg swings", "Light jogging in place"},
		CoolDown:        []string{"Stretching", "Deep breathing"},
		Items: []entities.PlanItem{
			{
				Name:         "Push-ups",
				Instructions: []string{"Keep your body straight and lower until chest nearly touches floor"},
				Exercise: &entities.ExerciseDetails{
					Sets:            scheme.sets,
					Reps:            scheme.pushUpReps,
					RestSeconds:     scheme.restSeconds,
					MusclesTargeted: []string{"chest", "shoulders", "triceps"},
					Equipment:       "bodyweight",
				},
			},
			{
				Name:         "Squats",
				Instructions: []string{"Lower until thighs are parallel to floor"},
				Exercise: &entities.ExerciseDetails{
					Sets:            scheme.sets,
					Reps:            scheme.squatReps,
					RestSeconds:     scheme.restSeconds,
					MusclesTargeted: []string{"quadriceps", "glutes"},
					Equipment:       "bodyweight",
				},
			},
		},
	}

	return &entities.StructuredPlan{
		Kind: entities.PlanKindWorkout,
		Header: entities.PlanHeader{
			Name:        fallbackWorkoutName,
			Description: fallbackWorkoutDescription,
			ScopeSize:   fallbackWorkoutWeeks,
			Tag:         p.Difficulty,
		},
		Days: []entities.PlanDay{day},
	}
}

type dishTemplate struct {
	name         string
	ingredients  []string
	instructions []string
	prepMinutes  int
	cookMinutes  int
}

// mealShares weights each meal type's slice of the daily calories
var mealShares = map[string]float64{
	"breakfast": 0.25,
	"lunch":     0.35,
	"dinner":    0.30,
	"snack":     0.10,
}

const otherMealShare = 0.20

var mealTimes = map[string]string{
	"breakfast": "08:00",
	"lunch":     "12:30",
	"snack":     "16:00",
	"dinner":    "19:00",
}

var balancedDishes = map[string]dishTemplate{
	"breakfast": {name: "Oatmeal with Berries", ingredients: []string{"Oats", "Mixed berries", "Almond milk", "Honey"}, instructions: []string{"Cook oats with almond milk", "Top with berries and honey"}, prepMinutes: 5, cookMinutes: 10},
	"lunch":     {name: "Grilled Chicken Salad", ingredients: []string{"Chicken breast", "Mixed greens", "Cherry tomatoes", "Olive oil"}, instructions: []string{"Grill the chicken", "Toss with greens, tomatoes and olive oil"}, prepMinutes: 10, cookMinutes: 15},
	"dinner":    {name: "Baked Salmon with Quinoa", ingredients: []string{"Salmon fillet", "Quinoa", "Broccoli", "Lemon"}, instructions: []string{"Bake salmon with lemon", "Cook quinoa", "Steam broccoli"}, prepMinutes: 10, cookMinutes: 25},
	"snack":     {name: "Greek Yogurt with Nuts", ingredients: []string{"Greek yogurt", "Walnuts"}, instructions: []string{"Top yogurt with walnuts"}, prepMinutes: 2},
}

var vegetarianDishes = map[string]dishTemplate{
	"breakfast": {name: "Veggie Omelette", ingredients: []string{"Eggs", "Spinach", "Bell pepper", "Feta"}, instructions: []string{"Whisk eggs", "Cook with vegetables and feta"}, prepMinutes: 5, cookMinutes: 10},
	"lunch":     {name: "Caprese Quinoa Bowl", ingredients: []string{"Quinoa", "Mozzarella", "Tomatoes", "Basil"}, instructions: []string{"Cook quinoa", "Combine with mozzarella, tomatoes and basil"}, prepMinutes: 10, cookMinutes: 15},
	"dinner":    {name: "Lentil and Vegetable Curry", ingredients: []string{"Red lentils", "Coconut milk", "Spinach", "Curry paste", "Brown rice"}, instructions: []string{"Simmer lentils with curry paste and coconut milk", "Stir in spinach", "Serve over rice"}, prepMinutes: 10, cookMinutes: 30},
	"snack":     {name: "Cottage Cheese with Fruit", ingredients: []string{"Cottage cheese", "Pineapple"}, instructions: []string{"Top cottage cheese with fruit"}, prepMinutes: 2},
}

var veganDishes = map[string]dishTemplate{
	"breakfast": {name: "Tofu Scramble", ingredients: []string{"Firm tofu", "Spinach", "Turmeric", "Whole grain toast"}, instructions: []string{"Crumble tofu into a pan", "Cook with spinach and turmeric", "Serve with toast"}, prepMinutes: 5, cookMinutes: 10},
	"lunch":     {name: "Chickpea Buddha Bowl", ingredients: []string{"Chickpeas", "Brown rice", "Kale", "Tahini"}, instructions: []string{"Roast chickpeas", "Assemble with rice and kale", "Drizzle with tahini"}, prepMinutes: 10, cookMinutes: 20},
	"dinner":    {name: "Black Bean and Sweet Potato Chili", ingredients: []string{"Black beans", "Sweet potato", "Tomatoes", "Onion", "Chili spices"}, instructions: []string{"Saute onion", "Add sweet potato, beans, tomatoes and spices", "Simmer until tender"}, prepMinutes: 15, cookMinutes: 30},
	"snack":     {name: "Hummus with Veggie Sticks", ingredients: []string{"Hummus", "Carrots", "Cucumber"}, instructions: []string{"Slice vegetables", "Serve with hummus"}, prepMinutes: 5},
}

func dishesFor(preference string) map[string]dishTemplate {
	switch strings.ToLower(preference) {
	case "vegan":
		return veganDishes
	case "vegetarian":
		return vegetarianDishes
	default:
		return balancedDishes
	}
}

func fallbackMealPlan(p MealParameters) *entities.StructuredPlan {
	dishes := dishesFor(p.DietaryPreference)

	totalShare := 0.0
	for _, mealType := range p.MealTypes {
		totalShare += shareOf(mealType)
	}

	day := entities.PlanDay{
		DayNumber: 1,
		Label:     "Day 1",
		Items:     make([]entities.PlanItem, 0, len(p.MealTypes)),
	}
	var shopping []string
	seen := make(map[string]bool)

	for _, mealType := range p.MealTypes {
		key := strings.ToLower(mealType)
		dish, ok := dishes[key]
		if !ok {
			dish = dishes["snack"]
		}
		ingredients := withoutAllergens(dish.ingredients, p.Allergies)

		kcal := float64(p.TargetCalories) * shareOf(mealType) / totalShare
		macros := nutrition.DailyMacroTargets(kcal)

		day.Items = append(day.Items, entities.PlanItem{
			Name:         dish.name,
			Instructions: dish.instructions,
			Meal: &entities.MealDetails{
				MealType:    key,
				Time:        mealTimes[key],
				Calories:    nutrition.Round(kcal, 0),
				Protein:     nutrition.Round(macros.Protein, 1),
				Carbs:       nutrition.Round(macros.Carbs, 1),
				Fat:         nutrition.Round(macros.Fat, 1),
				Ingredients: ingredients,
				PrepMinutes: dish.prepMinutes,
				CookMinutes: dish.cookMinutes,
			},
		})

		for _, ing := range ingredients {
			if !seen[ing] {
				seen[ing] = true
				shopping = append(shopping, ing)
			}
		}
	}

	totals := day.SumItems()
	day.Totals = &totals

	return &entities.StructuredPlan{
		Kind: entities.PlanKindMeal,
		Header: entities.PlanHeader{
			Name:           fallbackMealName,
			Description:    fallbackMealDescription,
			ScopeSize:      1,
			Tag:            p.DietaryPreference,
			TargetCalories: p.TargetCalories,
		},
		Days:         []entities.PlanDay{day},
		ShoppingList: shopping,
		PrepTips:     []string{"Prepare breakfast ingredients the night before", "Wash and chop vegetables in advance"},
	}
}

func shareOf(mealType string) float64 {
	if share, ok := mealShares[strings.ToLower(mealType)]; ok {
		return share
	}
	return otherMealShare
}

func withoutAllergens(ingredients, allergies []string) []string {
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		lower := strings.ToLower(ing)
		allergic := false
		for _, a := range allergies {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" && strings.Contains(lower, a) {
				allergic = true
				break
			}
		}
		if !allergic {
			out = append(out, ing)
		}
	}
	return out
}

func fallbackNutritionAnalysis(p NutritionParameters) *entities.StructuredPlan {
	assessment := "Good nutrition balance"
	return &entities.StructuredPlan{
		Kind: entities.PlanKindNutritionAnalysis,
		Header: entities.PlanHeader{
			Name:           nutritionAnalysisName,
			Description:    assessment,
			TargetCalories: entities.RoundCount(p.TargetCalories),
		},
		Analysis: &entities.NutritionAnalysis{
			OverallAssessment:   assessment,
			AreasForImprovement: []string{"Increase protein intake", "Reduce sugar consumption"},
			Recommendations:     []string{"Add more lean protein", "Include more vegetables"},
			MealSuggestions:     []string{"Grilled chicken with vegetables", "Quinoa salad"},
			MacroBalance:        "Well balanced macros",
			Inputs:              p.Inputs(),
		},
	}
}
