package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/fitai/backend/internal/application/services"
	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

func TestGenerationClient_Generate(t *testing.T) {
	t.Run("unavailable provider short-circuits", func(t *testing.T) {
		provider := new(MockTextGenerationProvider)
		provider.On("Available").Return(false)
		client := services.NewGenerationClient(provider, time.Second)

		result, err := client.Generate(context.Background(), "prompt")

		require.NoError(t, err)
		assert.False(t, result.ProviderAvailable)
		provider.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	})

	t.Run("nil provider is unavailable", func(t *testing.T) {
		client := services.NewGenerationClient(nil, time.Second)

		result, err := client.Generate(context.Background(), "prompt")

		require.NoError(t, err)
		assert.False(t, result.ProviderAvailable)
	})

	t.Run("returns provider text", func(t *testing.T) {
		provider := new(MockTextGenerationProvider)
		provider.On("Available").Return(true)
		provider.On("GenerateText", mock.Anything, "prompt").Return(`{"plan_name":"x"}`, nil).Once()
		client := services.NewGenerationClient(provider, time.Second)

		result, err := client.Generate(context.Background(), "prompt")

		require.NoError(t, err)
		assert.True(t, result.ProviderAvailable)
		assert.Equal(t, `{"plan_name":"x"}`, result.Text)
		assert.Equal(t, "mock", result.Provider)
		provider.AssertExpectations(t)
	})

	t.Run("provider failure is a provider error and is not retried", func(t *testing.T) {
		provider := new(MockTextGenerationProvider)
		provider.On("Available").Return(true)
		provider.On("GenerateText", mock.Anything, "prompt").Return("", errors.New("503")).Once()
		client := services.NewGenerationClient(provider, time.Second)

		result, err := client.Generate(context.Background(), "prompt")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeProvider))
		assert.True(t, result.ProviderAvailable)
		provider.AssertNumberOfCalls(t, "GenerateText", 1)
	})

	t.Run("empty response is a provider error", func(t *testing.T) {
		provider := new(MockTextGenerationProvider)
		provider.On("Available").Return(true)
		provider.On("GenerateText", mock.Anything, "prompt").Return("  \n", nil)
		client := services.NewGenerationClient(provider, time.Second)

		_, err := client.Generate(context.Background(), "prompt")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeProvider))
	})

	t.Run("call is bounded by the timeout", func(t *testing.T) {
		provider := new(MockTextGenerationProvider)
		provider.On("Available").Return(true)
		provider.On("GenerateText", mock.Anything, "prompt").
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return("", context.DeadlineExceeded)
		client := services.NewGenerationClient(provider, 20*time.Millisecond)

		start := time.Now()
		_, err := client.Generate(context.Background(), "prompt")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeProvider))
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, time.Since(start), time.Second)
	})
}
