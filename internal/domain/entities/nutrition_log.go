package entities

import "time"

// NutritionLog is one consumed meal recorded by a user
type NutritionLog struct {
	ID         string    `json:"id" db:"id"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	MealName   string    `json:"meal_name" db:"meal_name"`
	MealType   string    `json:"meal_type" db:"meal_type"`
	Calories   float64   `json:"calories" db:"calories"`
	Protein    float64   `json:"protein" db:"protein"`
	Carbs      float64   `json:"carbs" db:"carbs"`
	Fat        float64   `json:"fat" db:"fat"`
	ConsumedAt time.Time `json:"consumed_at" db:"consumed_at"`
	Notes      string    `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NutritionTotals aggregates nutrition logs over a time window. Never stored.
type NutritionTotals struct {
	Entries  int     `json:"entries" db:"entries"`
	Calories float64 `json:"calories" db:"calories"`
	Protein  float64 `json:"protein" db:"protein"`
	Carbs    float64 `json:"carbs" db:"carbs"`
	Fat      float64 `json:"fat" db:"fat"`
}

// MacroProgress compares one consumed amount against its daily target
type MacroProgress struct {
	Consumed  float64 `json:"consumed"`
	Target    float64 `json:"target"`
	Remaining float64 `json:"remaining"`
	Progress  float64 `json:"progress"`
}

// DailyNutritionSummary is the per-day view of a user's intake
type DailyNutritionSummary struct {
	OwnerID     string          `json:"owner_id"`
	Date        string          `json:"date"`
	Entries     int             `json:"entries"`
	Calories    MacroProgress   `json:"calories"`
	Protein     MacroProgress   `json:"protein"`
	Carbs       MacroProgress   `json:"carbs"`
	Fat         MacroProgress   `json:"fat"`
	Percentages MacroPercentage `json:"macro_percentages"`
}

// MacroPercentage is the share of consumed calories from each macronutrient
type MacroPercentage struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}
