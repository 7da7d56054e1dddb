package gemini

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/zatekoja/fitai/backend/pkg/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), &config.GeminiConfig{Model: "gemini-2.5-flash"})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewClient_DefaultsModel(t *testing.T) {
	client, err := NewClient(context.Background(), &config.GeminiConfig{APIKey: "test-key"})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "gemini", client.Name())
	assert.Equal(t, defaultModel, client.Model())
	assert.True(t, client.Available())
}

func TestFirstCandidateText(t *testing.T) {
	t.Run("joins text parts of first populated candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"plan_name":`), genai.Text(`"A"}`)}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
			},
		}
		assert.Equal(t, `{"plan_name":"A"}`, firstCandidateText(resp))
	})

	t.Run("empty response", func(t *testing.T) {
		assert.Equal(t, "", firstCandidateText(nil))
		assert.Equal(t, "", firstCandidateText(&genai.GenerateContentResponse{}))
	})
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 429})
	assert.Equal(t, 429, statusCode(err))
	assert.Equal(t, 0, statusCode(fmt.Errorf("plain")))
}
