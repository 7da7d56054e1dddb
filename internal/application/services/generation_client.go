package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
	"github.com/zatekoja/fitai/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

// GenerationClient performs one bounded provider call per request
type GenerationClient struct {
	provider providers.TextGenerationProvider
	timeout  time.Duration
}

// NewGenerationClient creates a client around provider. A non-positive timeout
// leaves the call bounded only by the caller's context.
func NewGenerationClient(provider providers.TextGenerationProvider, timeout time.Duration) *GenerationClient {
	return &GenerationClient{provider: provider, timeout: timeout}
}

// Provider returns the wrapped provider
func (c *GenerationClient) Provider() providers.TextGenerationProvider {
	return c.provider
}

// Generate sends prompt to the provider exactly once. When the provider is not
// configured it returns ProviderAvailable=false without any I/O. Transport
// failures, timeouts and empty responses return a PROVIDER AppError.
func (c *GenerationClient) Generate(ctx context.Context, prompt string) (entities.RawGenerationResult, error) {
	if c.provider == nil || !c.provider.Available() {
		return entities.RawGenerationResult{ProviderAvailable: false}, nil
	}

	result := entities.RawGenerationResult{
		ProviderAvailable: true,
		Provider:          c.provider.Name(),
		Model:             c.provider.Model(),
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.provider.GenerateText(callCtx, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return result, apperrors.NewProviderError(fmt.Sprintf("%s call timed out after %s", result.Provider, c.timeout), err)
		}
		return result, apperrors.NewProviderError(fmt.Sprintf("%s call failed", result.Provider), err)
	}
	if strings.TrimSpace(text) == "" {
		return result, apperrors.NewProviderError(fmt.Sprintf("%s returned an empty response", result.Provider), nil)
	}

	result.Text = text
	return result, nil
}
