package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	"github.com/zatekoja/fitai/backend/pkg/config"
)

const (
	providerName = "openai"
	defaultModel = "gpt-4o-mini"

	systemPrompt = "You are a certified fitness and nutrition coach. Reply with a single JSON object and nothing else."
)

// Client implements providers.TextGenerationProvider with the OpenAI chat completions API
type Client struct {
	model   string
	opts    []option.RequestOption
	limiter *tokenBucket
}

// NewClient creates a new OpenAI client. SDK retries are disabled; each
// GenerateText call results in exactly one HTTP request.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		model:   model,
		opts:    opts,
		limiter: newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// Name implements providers.TextGenerationProvider
func (c *Client) Name() string { return providerName }

// Model implements providers.TextGenerationProvider
func (c *Client) Model() string { return c.model }

// Available implements providers.TextGenerationProvider
func (c *Client) Available() bool { return true }

// GenerateText sends prompt as the user message and returns the first choice
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			observability.RecordGenerationRequest(ctx, providerName, c.model, 0, 0, err)
			return "", fmt.Errorf("openai rate limiter: %w", err)
		}
		observability.RecordRateLimitWait(ctx, providerName, c.model, time.Since(waitStart))
	}

	client := openai.NewClient(c.opts...)

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		observability.RecordGenerationRequest(ctx, providerName, c.model, statusCode(err), time.Since(start), err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		err := errors.New("openai response contained no text")
		observability.RecordGenerationRequest(ctx, providerName, c.model, 200, time.Since(start), err)
		return "", err
	}

	observability.RecordGenerationRequest(ctx, providerName, c.model, 200, time.Since(start), nil)
	return resp.Choices[0].Message.Content, nil
}

// Close stops the rate limiter refill goroutine
func (c *Client) Close() error {
	if c.limiter != nil {
		c.limiter.Stop()
	}
	return nil
}

func statusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// newTokenBucket returns nil (no limiting) for a negative rpm
func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm < 0 {
		return nil
	}
	if rpm == 0 {
		rpm = 60
	}
	if burst <= 0 {
		burst = 5
	}

	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
		stop:   make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-bucket.stop:
				return
			case <-ticker.C:
				select {
				case bucket.tokens <- struct{}{}:
				default:
				}
			}
		}
	}()

	return bucket
}

type tokenBucket struct {
	tokens   chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

func (b *tokenBucket) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
}
