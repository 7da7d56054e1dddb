// Package nutrition holds the body-metric and macro arithmetic shared by
// plan generation and daily tracking. Every function is pure.
package nutrition

import "math"

// Energy density of each macronutrient in kcal per gram.
const (
	ProteinKcalPerGram = 4.0
	CarbsKcalPerGram   = 4.0
	FatKcalPerGram     = 9.0
)

// Default share of daily calories assigned to each macronutrient.
const (
	ProteinShare = 0.25
	CarbsShare   = 0.45
	FatShare     = 0.30
)

// BMI category labels.
const (
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal weight"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"
)

// BMI returns weight / height(m)^2 rounded to two decimals.
// Zero or negative inputs yield 0.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	// weight*10000/cm^2 keeps values like 40kg/160cm exact before rounding
	return Round(weightKg*10000/(heightCm*heightCm), 2)
}

// BMICategory maps a BMI value onto its category label
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// MacroCalories converts gram amounts into kcal per macronutrient
func MacroCalories(proteinG, carbsG, fatG float64) (protein, carbs, fat float64) {
	return proteinG * ProteinKcalPerGram, carbsG * CarbsKcalPerGram, fatG * FatKcalPerGram
}

// MacroPercentage returns macroKcal as a percentage of totalKcal rounded to one
// decimal, or 0 when totalKcal is not positive.
func MacroPercentage(macroKcal, totalKcal float64) float64 {
	if totalKcal <= 0 {
		return 0
	}
	return Round(macroKcal/totalKcal*100, 1)
}

// MacroSplit is a per-macronutrient triple (grams, kcal or percentages)
type MacroSplit struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// MacroPercentages converts gram amounts into percentages of totalKcal
func MacroPercentages(proteinG, carbsG, fatG, totalKcal float64) MacroSplit {
	p, c, f := MacroCalories(proteinG, carbsG, fatG)
	return MacroSplit{
		Protein: MacroPercentage(p, totalKcal),
		Carbs:   MacroPercentage(c, totalKcal),
		Fat:     MacroPercentage(f, totalKcal),
	}
}

// DailyMacroTargets splits targetKcal 25/45/30 and converts each share to grams
func DailyMacroTargets(targetKcal float64) MacroSplit {
	if targetKcal <= 0 {
		return MacroSplit{}
	}
	return MacroSplit{
		Protein: targetKcal * ProteinShare / ProteinKcalPerGram,
		Carbs:   targetKcal * CarbsShare / CarbsKcalPerGram,
		Fat:     targetKcal * FatShare / FatKcalPerGram,
	}
}

// RemainingCalories returns max(0, target - consumed)
func RemainingCalories(target, consumed float64) float64 {
	return math.Max(0, target-consumed)
}

// ProgressRatio returns consumed / target, or 0 when target is not positive
func ProgressRatio(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return consumed / target
}

// Round rounds v to the given number of decimal places, halves away from zero
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
