package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	"github.com/zatekoja/fitai/backend/pkg/config"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash"
)

// Client implements providers.TextGenerationProvider on top of the Gemini API
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewClient creates a Gemini client. No request is made until GenerateText.
func NewClient(ctx context.Context, cfg *config.GeminiConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &Client{client: client, model: model, modelName: modelName}, nil
}

// Name implements providers.TextGenerationProvider
func (c *Client) Name() string { return providerName }

// Model implements providers.TextGenerationProvider
func (c *Client) Model() string { return c.modelName }

// Available implements providers.TextGenerationProvider
func (c *Client) Available() bool { return c.client != nil }

// GenerateText sends prompt as a single-turn request and concatenates the text
// parts of the first candidate that has content.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		observability.RecordGenerationRequest(ctx, providerName, c.modelName, statusCode(err), time.Since(start), err)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := firstCandidateText(resp)
	if text == "" {
		err := errors.New("gemini response contained no text")
		observability.RecordGenerationRequest(ctx, providerName, c.modelName, 0, time.Since(start), err)
		return "", err
	}

	observability.RecordGenerationRequest(ctx, providerName, c.modelName, 0, time.Since(start), nil)
	return text, nil
}

// Close closes the underlying Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
