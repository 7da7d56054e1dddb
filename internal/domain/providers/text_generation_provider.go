package providers

import (
	"context"
	"errors"
)

// ErrProviderUnavailable is returned by providers that have no credential configured
var ErrProviderUnavailable = errors.New("text generation provider is not configured")

// TextGenerationProvider sends one prompt to an external model and returns its text
type TextGenerationProvider interface {
	// Name returns the provider identifier, e.g. "gemini"
	Name() string

	// Model returns the model the provider calls
	Model() string

	// Available reports whether the provider can be called at all.
	// It must not perform network I/O.
	Available() bool

	// GenerateText performs exactly one call. Implementations must not retry.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
