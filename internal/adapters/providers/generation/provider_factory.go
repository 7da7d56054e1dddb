package generation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitai/backend/internal/domain/providers"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/gemini"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/fitai/backend/pkg/config"
)

// Supported provider names for GENERATION_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Provider is a text generation provider that owns resources to release on shutdown
type Provider interface {
	providers.TextGenerationProvider
	Close() error
}

// NewTextGenerationProvider selects the provider named in cfg.Generation.
// A missing credential or an unknown name yields an unavailable provider so
// that plan generation degrades to fallback plans instead of failing startup.
func NewTextGenerationProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.Generation.Provider {
	case ProviderGemini, "":
		if cfg.Gemini.APIKey == "" {
			log.Warn().Msg("GEMINI_API_KEY not set; plans will be generated from fallback templates")
			return NewUnavailableProvider(ProviderGemini, cfg.Gemini.Model), nil
		}
		client, err := gemini.NewClient(ctx, &cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		return client, nil

	case ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY not set; plans will be generated from fallback templates")
			return NewUnavailableProvider(ProviderOpenAI, cfg.OpenAI.Model), nil
		}
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai provider: %w", err)
		}
		return client, nil

	default:
		log.Warn().Str("provider", cfg.Generation.Provider).Msg("unknown generation provider; plans will be generated from fallback templates")
		return NewUnavailableProvider(cfg.Generation.Provider, ""), nil
	}
}

// UnavailableProvider reports itself unavailable and never performs I/O
type UnavailableProvider struct {
	name  string
	model string
}

// NewUnavailableProvider creates a provider placeholder for name
func NewUnavailableProvider(name, model string) *UnavailableProvider {
	return &UnavailableProvider{name: name, model: model}
}

func (p *UnavailableProvider) Name() string { return p.name }

func (p *UnavailableProvider) Model() string { return p.model }

func (p *UnavailableProvider) Available() bool { return false }

func (p *UnavailableProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", providers.ErrProviderUnavailable
}

func (p *UnavailableProvider) Close() error { return nil }
