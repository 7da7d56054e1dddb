package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type generationInstruments struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
	planCount       metric.Int64Counter
}

var (
	generationOnce    sync.Once
	generationMetrics *generationInstruments
)

// instruments are created lazily from the global meter provider, so they bind
// to whatever Setup installed (or the no-op provider in tests).
func ensureGenerationMetrics() *generationInstruments {
	generationOnce.Do(func() {
		meter := otel.Meter(instrumentationName + "/generation")

		requestCount, err := meter.Int64Counter(
			"ai.generation.request.count",
			metric.WithDescription("Number of text generation requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.generation.request.duration",
			metric.WithDescription("Text generation request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.generation.request.errors",
			metric.WithDescription("Number of failed text generation requests"),
		)
		if err != nil {
			return
		}
		rateLimitWait, err := meter.Float64Histogram(
			"ai.generation.rate_limit.wait",
			metric.WithDescription("Time spent waiting for the provider rate limiter in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		planCount, err := meter.Int64Counter(
			"plan.generation.count",
			metric.WithDescription("Number of generated plans by kind and source"),
		)
		if err != nil {
			return
		}

		generationMetrics = &generationInstruments{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
			rateLimitWait:   rateLimitWait,
			planCount:       planCount,
		}
	})
	return generationMetrics
}

// RecordGenerationRequest records one provider call. statusCode is omitted when 0.
func RecordGenerationRequest(ctx context.Context, provider, model string, statusCode int, duration time.Duration, err error) {
	m := ensureGenerationMetrics()
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	m.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRateLimitWait records time spent blocked on a provider rate limiter
func RecordRateLimitWait(ctx context.Context, provider, model string, wait time.Duration) {
	m := ensureGenerationMetrics()
	if m == nil {
		return
	}
	m.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	))
}

// RecordPlanGenerated counts a materialized plan. reason is empty for provider plans.
func RecordPlanGenerated(ctx context.Context, kind, source, reason string) {
	m := ensureGenerationMetrics()
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("plan.kind", kind),
		attribute.String("plan.source", source),
	}
	if reason != "" {
		attrs = append(attrs, attribute.String("plan.fallback_reason", reason))
	}
	m.planCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}
