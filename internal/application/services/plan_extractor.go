package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

// planPayload is implemented by each kind's provider payload
type planPayload interface {
	toPlan() *entities.StructuredPlan
}

// payloadFactories creates an empty payload to decode into, per kind
var payloadFactories = map[entities.PlanKind]func() planPayload{
	entities.PlanKindWorkout:           func() planPayload { return &workoutPayload{} },
	entities.PlanKindMeal:              func() planPayload { return &mealPlanPayload{} },
	entities.PlanKindNutritionAnalysis: func() planPayload { return &nutritionPayload{} },
}

// ExtractPlan pulls the JSON object embedded in raw (first "{" through last "}"),
// decodes it as the payload for kind and validates the result. Every failure is
// an EXTRACTION AppError; no partial plan is ever returned.
func ExtractPlan(kind entities.PlanKind, raw string) (*entities.StructuredPlan, error) {
	newPayload, ok := payloadFactories[kind]
	if !ok {
		return nil, apperrors.NewExtractionError(fmt.Sprintf("unsupported plan kind %q", kind), nil)
	}

	fragment, err := sliceJSONObject(raw)
	if err != nil {
		return nil, err
	}

	payload := newPayload()
	dec := json.NewDecoder(bytes.NewReader(fragment))
	if err := dec.Decode(payload); err != nil {
		return nil, apperrors.NewExtractionError("provider output is not valid JSON", err)
	}
	if dec.More() {
		return nil, apperrors.NewExtractionError("provider output has trailing content after the JSON object", nil)
	}

	if err := planValidate.Struct(payload); err != nil {
		return nil, apperrors.NewExtractionError("provider output does not match the plan schema", err)
	}

	plan := payload.toPlan()
	if err := ValidatePlan(plan); err != nil {
		return nil, apperrors.NewExtractionError("provider output does not match the plan schema", err)
	}
	return plan, nil
}

func sliceJSONObject(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || end < start {
		return nil, apperrors.NewExtractionError("provider output contains no JSON object", nil)
	}
	return []byte(raw[start : end+1]), nil
}
