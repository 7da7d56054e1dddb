package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// planValidate is safe for concurrent use and caches struct metadata
var planValidate = newPlanValidator()

// repsPattern accepts a count or a range with an optional unit, e.g. "10", "8-12", "30 seconds"
var repsPattern = regexp.MustCompile(`^\d{1,4}(\s*-\s*\d{1,4})?(\s+[A-Za-z][A-Za-z ]*)?$`)

func newPlanValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("reps", func(fl validator.FieldLevel) bool {
		return validReps(fl.Field().String())
	})
	return v
}

func validReps(reps string) bool {
	return repsPattern.MatchString(strings.TrimSpace(reps))
}

// planValidators is the per-kind schema check shared by the extractor and
// the fallback synthesizer.
var planValidators = map[entities.PlanKind]func(*entities.StructuredPlan) error{
	entities.PlanKindWorkout:           validateWorkoutPlan,
	entities.PlanKindMeal:              validateMealPlan,
	entities.PlanKindNutritionAnalysis: validateNutritionAnalysis,
}

// ValidatePlan checks plan against the schema of its kind
func ValidatePlan(plan *entities.StructuredPlan) error {
	if plan == nil {
		return errors.New("plan is nil")
	}
	validate, ok := planValidators[plan.Kind]
	if !ok {
		return fmt.Errorf("unsupported plan kind %q", plan.Kind)
	}
	return validate(plan)
}

func validateDays(plan *entities.StructuredPlan, itemOK func(entities.PlanItem) bool, variant string) error {
	if err := planValidate.Struct(plan); err != nil {
		return err
	}
	if len(plan.Days) == 0 {
		return errors.New("plan has no days")
	}
	for i, day := range plan.Days {
		if len(day.Items) == 0 {
			return fmt.Errorf("day %d has no items", i+1)
		}
		for j, item := range day.Items {
			if !itemOK(item) {
				return fmt.Errorf("day %d item %d is missing %s details", i+1, j+1, variant)
			}
		}
	}
	return nil
}

func validateWorkoutPlan(plan *entities.StructuredPlan) error {
	return validateDays(plan, func(item entities.PlanItem) bool {
		return item.Exercise != nil && item.Meal == nil && validReps(item.Exercise.Reps)
	}, "exercise")
}

func validateMealPlan(plan *entities.StructuredPlan) error {
	return validateDays(plan, func(item entities.PlanItem) bool {
		return item.Meal != nil && item.Exercise == nil
	}, "meal")
}

func validateNutritionAnalysis(plan *entities.StructuredPlan) error {
	if plan.Analysis == nil {
		return errors.New("nutrition analysis is missing")
	}
	if len(plan.Days) > 0 {
		return errors.New("nutrition analysis must not contain days")
	}
	return planValidate.Struct(plan)
}

// flexibleString accepts a JSON string or number
type flexibleString string

func (s *flexibleString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexibleString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexibleString(num.String())
		return nil
	}
	return fmt.Errorf("expected string or number, got %s", string(data))
}

// flexibleStrings accepts a JSON list of strings or a single string
type flexibleStrings []string

func (s *flexibleStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			*s = flexibleStrings{single}
		}
		return nil
	}
	return fmt.Errorf("expected string or list of strings, got %s", string(data))
}

// Provider payloads. Pointers distinguish a missing numeric field from zero.

type workoutPayload struct {
	PlanName    string               `json:"plan_name" validate:"required"`
	Description string               `json:"description" validate:"required"`
	TotalWeeks  *int                 `json:"total_weeks" validate:"omitempty,gte=0,lte=520"`
	Difficulty  string               `json:"difficulty"`
	Weeks       []workoutWeekPayload `json:"weeks" validate:"dive"`
	Days        []workoutDayPayload  `json:"days" validate:"dive"`
}

type workoutWeekPayload struct {
	WeekNumber *int                `json:"week_number" validate:"omitempty,gte=0,lte=520"`
	Days       []workoutDayPayload `json:"days" validate:"required,min=1,dive"`
}

type workoutDayPayload struct {
	DayNumber       *int              `json:"day_number" validate:"omitempty,gte=0,lte=366"`
	DayName         string            `json:"day_name"`
	WorkoutType     string            `json:"workout_type"`
	DurationMinutes *int              `json:"duration_minutes" validate:"omitempty,gte=0,lte=1440"`
	Exercises       []exercisePayload `json:"exercises" validate:"required,min=1,dive"`
	WarmUp          flexibleStrings   `json:"warm_up"`
	CoolDown        flexibleStrings   `json:"cool_down"`
}

type exercisePayload struct {
	Name            string          `json:"name" validate:"required"`
	Sets            *int            `json:"sets" validate:"required,gte=0,lte=1000"`
	Reps            flexibleString  `json:"reps" validate:"required,reps"`
	RestSeconds     *int            `json:"rest_seconds" validate:"required,gte=0,lte=86400"`
	Instructions    flexibleStrings `json:"instructions"`
	MusclesTargeted flexibleStrings `json:"muscles_targeted"`
	Equipment       string          `json:"equipment"`
}

type mealPlanPayload struct {
	PlanName          string           `json:"plan_name" validate:"required"`
	Description       string           `json:"description" validate:"required"`
	TargetCalories    *float64         `json:"target_calories" validate:"omitempty,gte=0,lte=20000"`
	DietaryPreference string           `json:"dietary_preference"`
	Days              []mealDayPayload `json:"days" validate:"required,min=1,dive"`
	ShoppingList      flexibleStrings  `json:"shopping_list"`
	MealPrepTips      flexibleStrings  `json:"meal_prep_tips"`
}

type mealDayPayload struct {
	DayNumber     *int          `json:"day_number" validate:"omitempty,gte=0,lte=366"`
	Date          string        `json:"date"`
	Meals         []mealPayload `json:"meals" validate:"required,min=1,dive"`
	TotalCalories *float64      `json:"total_calories" validate:"omitempty,gte=0,lte=100000"`
	TotalProtein  *float64      `json:"total_protein" validate:"omitempty,gte=0,lte=100000"`
	TotalCarbs    *float64      `json:"total_carbs" validate:"omitempty,gte=0,lte=100000"`
	TotalFat      *float64      `json:"total_fat" validate:"omitempty,gte=0,lte=100000"`
}

type mealPayload struct {
	MealType     string          `json:"meal_type"`
	Time         string          `json:"time"`
	Name         string          `json:"name" validate:"required"`
	Calories     *float64        `json:"calories" validate:"required,gte=0,lte=100000"`
	Protein      *float64        `json:"protein" validate:"required,gte=0,lte=100000"`
	Carbs        *float64        `json:"carbs" validate:"required,gte=0,lte=100000"`
	Fat          *float64        `json:"fat" validate:"required,gte=0,lte=100000"`
	Ingredients  flexibleStrings `json:"ingredients"`
	Instructions flexibleStrings `json:"instructions"`
	PrepTime     *int            `json:"prep_time" validate:"omitempty,gte=0,lte=1440"`
	CookTime     *int            `json:"cook_time" validate:"omitempty,gte=0,lte=1440"`
}

type nutritionPayload struct {
	OverallAssessment   flexibleString  `json:"overall_assessment" validate:"required"`
	AreasForImprovement flexibleStrings `json:"areas_for_improvement"`
	Recommendations     flexibleStrings `json:"recommendations" validate:"required,min=1"`
	MealSuggestions     flexibleStrings `json:"meal_suggestions"`
	MacroBalance        flexibleString  `json:"macro_balance"`
}

func (p *workoutPayload) toPlan() *entities.StructuredPlan {
	weeks := p.Weeks
	if len(weeks) == 0 && len(p.Days) > 0 {
		weeks = []workoutWeekPayload{{Days: p.Days}}
	}

	var days []entities.PlanDay
	for weekIdx, week := range weeks {
		weekNumber := derefInt(week.WeekNumber, weekIdx+1)
		for _, d := range week.Days {
			day := entities.PlanDay{
				WeekNumber:      weekNumber,
				DayNumber:       derefInt(d.DayNumber, 0),
				Label:           d.DayName,
				Focus:           d.WorkoutType,
				DurationMinutes: derefInt(d.DurationMinutes, 0),
				WarmUp:          []string(d.WarmUp),
				CoolDown:        []string(d.CoolDown),
				Items:           make([]entities.PlanItem, 0, len(d.Exercises)),
			}
			for _, ex := range d.Exercises {
				day.Items = append(day.Items, entities.PlanItem{
					Name:         ex.Name,
					Instructions: []string(ex.Instructions),
					Exercise: &entities.ExerciseDetails{
						Sets:            *ex.Sets,
						Reps:            string(ex.Reps),
						RestSeconds:     *ex.RestSeconds,
						MusclesTargeted: []string(ex.MusclesTargeted),
						Equipment:       ex.Equipment,
					},
				})
			}
			days = append(days, day)
		}
	}

	return &entities.StructuredPlan{
		Kind: entities.PlanKindWorkout,
		Header: entities.PlanHeader{
			Name:        p.PlanName,
			Description: p.Description,
			ScopeSize:   derefInt(p.TotalWeeks, len(weeks)),
			Tag:         p.Difficulty,
		},
		Days: days,
	}
}

func (p *mealPlanPayload) toPlan() *entities.StructuredPlan {
	days := make([]entities.PlanDay, 0, len(p.Days))
	for _, d := range p.Days {
		day := entities.PlanDay{
			DayNumber: derefInt(d.DayNumber, 0),
			Label:     d.Date,
			Items:     make([]entities.PlanItem, 0, len(d.Meals)),
		}
		for _, m := range d.Meals {
			day.Items = append(day.Items, entities.PlanItem{
				Name:         m.Name,
				Instructions: []string(m.Instructions),
				Meal: &entities.MealDetails{
					MealType:    m.MealType,
					Time:        m.Time,
					Calories:    *m.Calories,
					Protein:     *m.Protein,
					Carbs:       *m.Carbs,
					Fat:         *m.Fat,
					Ingredients: []string(m.Ingredients),
					PrepMinutes: derefInt(m.PrepTime, 0),
					CookMinutes: derefInt(m.CookTime, 0),
				},
			})
		}

		totals := day.SumItems()
		if d.TotalCalories != nil && d.TotalProtein != nil && d.TotalCarbs != nil && d.TotalFat != nil {
			totals = entities.MacroTotals{
				Calories: *d.TotalCalories,
				Protein:  *d.TotalProtein,
				Carbs:    *d.TotalCarbs,
				Fat:      *d.TotalFat,
			}
		}
		day.Totals = &totals
		days = append(days, day)
	}

	target := 0
	if p.TargetCalories != nil {
		target = entities.RoundCount(*p.TargetCalories)
	}

	return &entities.StructuredPlan{
		Kind: entities.PlanKindMeal,
		Header: entities.PlanHeader{
			Name:           p.PlanName,
			Description:    p.Description,
			ScopeSize:      len(days),
			Tag:            p.DietaryPreference,
			TargetCalories: target,
		},
		Days:         days,
		ShoppingList: []string(p.ShoppingList),
		PrepTips:     []string(p.MealPrepTips),
	}
}

func (p *nutritionPayload) toPlan() *entities.StructuredPlan {
	return &entities.StructuredPlan{
		Kind: entities.PlanKindNutritionAnalysis,
		Header: entities.PlanHeader{
			Name:        nutritionAnalysisName,
			Description: string(p.OverallAssessment),
		},
		Analysis: &entities.NutritionAnalysis{
			OverallAssessment:   string(p.OverallAssessment),
			AreasForImprovement: []string(p.AreasForImprovement),
			Recommendations:     []string(p.Recommendations),
			MealSuggestions:     []string(p.MealSuggestions),
			MacroBalance:        string(p.MacroBalance),
		},
	}
}

func derefInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
