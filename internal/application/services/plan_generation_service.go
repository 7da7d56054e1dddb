package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/providers"
	"github.com/zatekoja/fitai/backend/internal/domain/repositories"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

// Fallback reasons recorded on results, logs and metrics.
const (
	FallbackReasonProviderUnavailable = "provider_unavailable"
	FallbackReasonProviderError       = "provider_error"
	FallbackReasonExtractionError     = "extraction_error"
)

// TextGenerator is the generation step of the pipeline
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (entities.RawGenerationResult, error)
}

// GeneratePlanInput is a caller's request for a new plan
type GeneratePlanInput struct {
	Kind       entities.PlanKind
	OwnerID    string
	Parameters entities.GenerationParameters
}

// GeneratePlanResult describes a persisted plan
type GeneratePlanResult struct {
	PlanID         string                   `json:"plan_id"`
	Header         entities.PlanHeader      `json:"header"`
	Plan           *entities.StructuredPlan `json:"plan"`
	Source         entities.PlanSource      `json:"source"`
	FallbackReason string                   `json:"fallback_reason,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

// PlanGenerationService runs prompt building, generation, extraction or
// fallback, and materialization for one request at a time.
type PlanGenerationService struct {
	generator TextGenerator
	repo      repositories.PlanRepository
	events    providers.EventBus
	now       func() time.Time
}

// NewPlanGenerationService creates a new plan generation service. events may be nil.
func NewPlanGenerationService(generator TextGenerator, repo repositories.PlanRepository, events providers.EventBus) *PlanGenerationService {
	return &PlanGenerationService{
		generator: generator,
		repo:      repo,
		events:    events,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate produces and persists a plan. Provider and extraction failures are
// absorbed by falling back to a synthesized plan; the only errors returned are
// VALIDATION (bad input) and PERSISTENCE (nothing was stored).
func (s *PlanGenerationService) Generate(ctx context.Context, input GeneratePlanInput) (*GeneratePlanResult, error) {
	ctx, span := observability.StartSpan(ctx, "PlanGenerationService.Generate")
	defer span.End()

	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return nil, apperrors.NewValidationError("owner id is required")
	}
	if !input.Kind.IsValid() {
		return nil, apperrors.NewValidationError("unsupported plan kind: " + string(input.Kind))
	}

	logger := observability.LoggerFromContext(ctx).With().
		Str("plan_kind", string(input.Kind)).
		Str("owner_id", ownerID).
		Logger()

	req := entities.GenerationRequest{Kind: input.Kind, Parameters: input.Parameters}
	if req.Parameters == nil {
		req.Parameters = entities.GenerationParameters{}
	}

	plan, source, reason := s.produce(ctx, req)
	observability.SetSpanAttributes(span,
		attribute.String("plan.kind", string(input.Kind)),
		attribute.String("plan.source", string(source)),
	)

	persisted := entities.NewPersistedPlan(ownerID, plan, source, s.now())
	if err := s.repo.CreateWithChildren(ctx, persisted); err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("source", string(source)).Msg("failed to persist generated plan")
		if !apperrors.IsType(err, apperrors.ErrorTypePersistence) {
			err = apperrors.NewPersistenceError("failed to persist plan", err)
		}
		return nil, err
	}

	observability.RecordPlanGenerated(ctx, string(input.Kind), string(source), reason)
	logger.Info().
		Str("plan_id", persisted.ID).
		Str("source", string(source)).
		Int("days", len(persisted.Days)).
		Int("items", persisted.ItemCount()).
		Msg("plan generated")

	s.publish(ctx, persisted)

	return &GeneratePlanResult{
		PlanID:         persisted.ID,
		Header:         plan.Header,
		Plan:           plan,
		Source:         source,
		FallbackReason: reason,
		CreatedAt:      persisted.CreatedAt,
	}, nil
}

// produce returns a schema-valid plan, from the provider when possible
func (s *PlanGenerationService) produce(ctx context.Context, req entities.GenerationRequest) (*entities.StructuredPlan, entities.PlanSource, string) {
	logger := observability.LoggerFromContext(ctx).With().Str("plan_kind", string(req.Kind)).Logger()

	prompt := BuildPrompt(req)
	raw, err := s.generator.Generate(ctx, prompt.Text)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("provider", raw.Provider).Msg("generation failed, using fallback plan")
		return s.fallback(req), entities.PlanSourceFallback, FallbackReasonProviderError
	case !raw.ProviderAvailable:
		logger.Info().Msg("generation provider unavailable, using fallback plan")
		return s.fallback(req), entities.PlanSourceFallback, FallbackReasonProviderUnavailable
	}

	plan, err := ExtractPlan(req.Kind, raw.Text)
	if err != nil {
		logger.Warn().Err(err).Str("provider", raw.Provider).Int("response_length", len(raw.Text)).
			Msg("provider output rejected, using fallback plan")
		return s.fallback(req), entities.PlanSourceFallback, FallbackReasonExtractionError
	}

	completeFromRequest(plan, req)
	return plan, entities.PlanSourceProvider, ""
}

func (s *PlanGenerationService) fallback(req entities.GenerationRequest) *entities.StructuredPlan {
	return SynthesizePlan(req)
}

// completeFromRequest fills header fields the provider left out with the
// requested values and attaches the echoed nutrition inputs.
func completeFromRequest(plan *entities.StructuredPlan, req entities.GenerationRequest) {
	switch req.Kind {
	case entities.PlanKindWorkout:
		if plan.Header.Tag == "" {
			plan.Header.Tag = ResolveWorkoutParameters(req.Parameters).Difficulty
		}
	case entities.PlanKindMeal:
		m := ResolveMealParameters(req.Parameters)
		if plan.Header.TargetCalories == 0 {
			plan.Header.TargetCalories = m.TargetCalories
		}
		if plan.Header.Tag == "" {
			plan.Header.Tag = m.DietaryPreference
		}
	case entities.PlanKindNutritionAnalysis:
		n := ResolveNutritionParameters(req.Parameters)
		plan.Header.TargetCalories = entities.RoundCount(n.TargetCalories)
		plan.Analysis.Inputs = n.Inputs()
	}
}

// publish is best-effort; the plan is already committed
func (s *PlanGenerationService) publish(ctx context.Context, plan *entities.PersistedPlan) {
	if s.events == nil {
		return
	}
	event := entities.NewPlanEvent(plan, entities.PlanEventTypeGenerated)
	for _, channel := range []string{providers.EventChannelPlanUpdates, providers.GetOwnerChannel(plan.OwnerID)} {
		if err := s.events.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("plan_id", plan.ID).Str("channel", channel).
				Msg("failed to publish plan event")
		}
	}
}
