package entities

import (
	"time"

	"github.com/google/uuid"
)

// PersistedPlan is the stored header row of a plan together with its days
type PersistedPlan struct {
	ID             string         `json:"id" db:"id"`
	OwnerID        string         `json:"owner_id" db:"owner_id"`
	Kind           PlanKind       `json:"kind" db:"kind"`
	Name           string         `json:"name" db:"name"`
	Description    string         `json:"description" db:"description"`
	ScopeSize      int            `json:"scope_size" db:"scope_size"`
	Tag            string         `json:"tag" db:"tag"`
	TargetCalories int            `json:"target_calories" db:"target_calories"`
	Source         PlanSource     `json:"source" db:"source"`
	Details        PlanDetails    `json:"details" db:"-"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
	Days           []PersistedDay `json:"days" db:"-"`
}

// PlanDetails holds plan-level lists stored as a single JSON document
type PlanDetails struct {
	ShoppingList []string           `json:"shopping_list,omitempty"`
	PrepTips     []string           `json:"prep_tips,omitempty"`
	Analysis     *NutritionAnalysis `json:"analysis,omitempty"`
}

// PersistedDay is a stored plan day. Position is its zero-based index in the plan.
type PersistedDay struct {
	ID              string          `json:"id"`
	PlanID          string          `json:"plan_id"`
	Position        int             `json:"position"`
	WeekNumber      int             `json:"week_number"`
	DayNumber       int             `json:"day_number"`
	Label           string          `json:"label"`
	Focus           string          `json:"focus,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	TotalCalories   *float64        `json:"total_calories,omitempty"`
	TotalProtein    *float64        `json:"total_protein,omitempty"`
	TotalCarbs      *float64        `json:"total_carbs,omitempty"`
	TotalFat        *float64        `json:"total_fat,omitempty"`
	WarmUp          []string        `json:"warm_up,omitempty"`
	CoolDown        []string        `json:"cool_down,omitempty"`
	Items           []PersistedItem `json:"items"`
}

// PersistedItem is a stored exercise or meal. Position is its zero-based index in the day.
type PersistedItem struct {
	ID            string   `json:"id"`
	DayID         string   `json:"day_id"`
	PlanID        string   `json:"plan_id"`
	Position      int      `json:"position"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	ScheduledTime string   `json:"scheduled_time,omitempty"`
	Sets          *int     `json:"sets,omitempty"`
	Reps          string   `json:"reps,omitempty"`
	RestSeconds   *int     `json:"rest_seconds,omitempty"`
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbs         *float64 `json:"carbs,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	PrepMinutes   *int     `json:"prep_minutes,omitempty"`
	CookMinutes   *int     `json:"cook_minutes,omitempty"`
	Instructions  []string `json:"instructions,omitempty"`
	Ingredients   []string `json:"ingredients,omitempty"`
	Muscles       []string `json:"muscles,omitempty"`
	Equipment     string   `json:"equipment,omitempty"`
}

// ItemCategoryExercise is the category stored for workout items; meal items
// store their meal type.
const ItemCategoryExercise = "exercise"

// NewPersistedPlan lays out a structured plan as header, day and item rows.
// All identifiers are assigned here so the rows can be written in one pass.
// Day numbers default to the day's position when the plan left them unset.
func NewPersistedPlan(ownerID string, plan *StructuredPlan, source PlanSource, now time.Time) *PersistedPlan {
	p := &PersistedPlan{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		Kind:           plan.Kind,
		Name:           plan.Header.Name,
		Description:    plan.Header.Description,
		ScopeSize:      plan.Header.ScopeSize,
		Tag:            plan.Header.Tag,
		TargetCalories: plan.Header.TargetCalories,
		Source:         source,
		Details: PlanDetails{
			ShoppingList: plan.ShoppingList,
			PrepTips:     plan.PrepTips,
			Analysis:     plan.Analysis,
		},
		CreatedAt: now,
		UpdatedAt: now,
		Days:      make([]PersistedDay, 0, len(plan.Days)),
	}

	for dayIdx, day := range plan.Days {
		pd := PersistedDay{
			ID:              uuid.New().String(),
			PlanID:          p.ID,
			Position:        dayIdx,
			WeekNumber:      day.WeekNumber,
			DayNumber:       day.DayNumber,
			Label:           day.Label,
			Focus:           day.Focus,
			DurationMinutes: day.DurationMinutes,
			WarmUp:          day.WarmUp,
			CoolDown:        day.CoolDown,
			Items:           make([]PersistedItem, 0, len(day.Items)),
		}
		if pd.DayNumber == 0 {
			pd.DayNumber = dayIdx + 1
		}
		if day.Totals != nil {
			pd.TotalCalories = floatPtr(day.Totals.Calories)
			pd.TotalProtein = floatPtr(day.Totals.Protein)
			pd.TotalCarbs = floatPtr(day.Totals.Carbs)
			pd.TotalFat = floatPtr(day.Totals.Fat)
		}

		for itemIdx, item := range day.Items {
			pi := PersistedItem{
				ID:           uuid.New().String(),
				DayID:        pd.ID,
				PlanID:       p.ID,
				Position:     itemIdx,
				Name:         item.Name,
				Instructions: item.Instructions,
			}
			switch {
			case item.Exercise != nil:
				pi.Category = ItemCategoryExercise
				pi.Sets = intPtr(item.Exercise.Sets)
				pi.Reps = item.Exercise.Reps
				pi.RestSeconds = intPtr(item.Exercise.RestSeconds)
				pi.Muscles = item.Exercise.MusclesTargeted
				pi.Equipment = item.Exercise.Equipment
			case item.Meal != nil:
				pi.Category = item.Meal.MealType
				pi.ScheduledTime = item.Meal.Time
				pi.Calories = floatPtr(item.Meal.Calories)
				pi.Protein = floatPtr(item.Meal.Protein)
				pi.Carbs = floatPtr(item.Meal.Carbs)
				pi.Fat = floatPtr(item.Meal.Fat)
				pi.PrepMinutes = intPtr(item.Meal.PrepMinutes)
				pi.CookMinutes = intPtr(item.Meal.CookMinutes)
				pi.Ingredients = item.Meal.Ingredients
			}
			pd.Items = append(pd.Items, pi)
		}
		p.Days = append(p.Days, pd)
	}

	return p
}

// ItemCount returns the number of item rows across all days
func (p *PersistedPlan) ItemCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Items)
	}
	return n
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
