package entities

import "strings"

// PlanKind identifies which plan variant a generation request targets
type PlanKind string

const (
	PlanKindWorkout           PlanKind = "workout"
	PlanKindMeal              PlanKind = "meal"
	PlanKindNutritionAnalysis PlanKind = "nutrition_analysis"
)

// IsValid reports whether k is one of the supported plan kinds
func (k PlanKind) IsValid() bool {
	switch k {
	case PlanKindWorkout, PlanKindMeal, PlanKindNutritionAnalysis:
		return true
	}
	return false
}

// ParsePlanKind accepts the canonical kind names plus their hyphenated forms
func ParsePlanKind(s string) (PlanKind, bool) {
	k := PlanKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	return k, k.IsValid()
}

// PlanSource records whether a plan came from the provider or the fallback synthesizer
type PlanSource string

const (
	PlanSourceProvider PlanSource = "provider"
	PlanSourceFallback PlanSource = "fallback"
)

// GenerationRequest is the immutable input of one pipeline invocation
type GenerationRequest struct {
	Kind       PlanKind
	Parameters GenerationParameters
}

// RawGenerationResult is the untrusted text a provider returned
type RawGenerationResult struct {
	Text              string
	ProviderAvailable bool
	Provider          string
	Model             string
}

// StructuredPlan is a validated plan of one kind. Days and their items keep
// the order the provider (or the fallback) produced them in.
type StructuredPlan struct {
	Kind         PlanKind           `json:"kind"`
	Header       PlanHeader         `json:"header"`
	Days         []PlanDay          `json:"days" validate:"dive"`
	ShoppingList []string           `json:"shopping_list,omitempty"`
	PrepTips     []string           `json:"prep_tips,omitempty"`
	Analysis     *NutritionAnalysis `json:"analysis,omitempty"`
}

// PlanHeader holds the plan-level fields shared by every kind.
// ScopeSize is total weeks for workouts and total days for meal plans;
// Tag is the difficulty or the dietary preference.
type PlanHeader struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description" validate:"required"`
	ScopeSize      int    `json:"scope_size" validate:"gte=0,lte=2147483647"`
	Tag            string `json:"tag"`
	TargetCalories int    `json:"target_calories,omitempty" validate:"gte=0,lte=2147483647"`
}

// PlanDay is one scheduled day of a workout or meal plan
type PlanDay struct {
	WeekNumber      int          `json:"week_number" validate:"gte=0,lte=2147483647"`
	DayNumber       int          `json:"day_number" validate:"gte=0,lte=2147483647"`
	Label           string       `json:"label"`
	Focus           string       `json:"focus,omitempty"`
	DurationMinutes int          `json:"duration_minutes,omitempty" validate:"gte=0,lte=2147483647"`
	WarmUp          []string     `json:"warm_up,omitempty"`
	CoolDown        []string     `json:"cool_down,omitempty"`
	Totals          *MacroTotals `json:"totals,omitempty"`
	Items           []PlanItem   `json:"items" validate:"dive"`
}

// PlanItem is an exercise or a meal. Exactly one of Exercise and Meal is set,
// matching the plan kind.
type PlanItem struct {
	Name         string           `json:"name" validate:"required"`
	Instructions []string         `json:"instructions,omitempty"`
	Exercise     *ExerciseDetails `json:"exercise,omitempty"`
	Meal         *MealDetails     `json:"meal,omitempty"`
}

// ExerciseDetails is the workout-specific part of a plan item
type ExerciseDetails struct {
	Sets            int      `json:"sets" validate:"gte=0,lte=2147483647"`
	Reps            string   `json:"reps" validate:"required"`
	RestSeconds     int      `json:"rest_seconds" validate:"gte=0,lte=2147483647"`
	MusclesTargeted []string `json:"muscles_targeted,omitempty"`
	Equipment       string   `json:"equipment,omitempty"`
}

// MealDetails is the meal-specific part of a plan item
type MealDetails struct {
	MealType    string   `json:"meal_type"`
	Time        string   `json:"time,omitempty"`
	Calories    float64  `json:"calories" validate:"gte=0"`
	Protein     float64  `json:"protein" validate:"gte=0"`
	Carbs       float64  `json:"carbs" validate:"gte=0"`
	Fat         float64  `json:"fat" validate:"gte=0"`
	Ingredients []string `json:"ingredients,omitempty"`
	PrepMinutes int      `json:"prep_minutes" validate:"gte=0,lte=2147483647"`
	CookMinutes int      `json:"cook_minutes" validate:"gte=0,lte=2147483647"`
}

// MacroTotals sums calories and macros in grams
type MacroTotals struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
}

// NutritionAnalysis is the day-less plan variant returned for nutrition analysis
type NutritionAnalysis struct {
	OverallAssessment   string             `json:"overall_assessment" validate:"required"`
	AreasForImprovement []string           `json:"areas_for_improvement"`
	Recommendations     []string           `json:"recommendations" validate:"min=1"`
	MealSuggestions     []string           `json:"meal_suggestions"`
	MacroBalance        string             `json:"macro_balance"`
	Inputs              map[string]float64 `json:"inputs,omitempty"`
}

// ItemCount returns the number of items across all days
func (p *StructuredPlan) ItemCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Items)
	}
	return n
}

// SumItems totals the meal macros of the day's items
func (d *PlanDay) SumItems() MacroTotals {
	var t MacroTotals
	for _, item := range d.Items {
		if item.Meal == nil {
			continue
		}
		t.Calories += item.Meal.Calories
		t.Protein += item.Meal.Protein
		t.Carbs += item.Meal.Carbs
		t.Fat += item.Meal.Fat
	}
	return t
}
