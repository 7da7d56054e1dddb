package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/zatekoja/fitai/backend/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		err := apperrors.NewPersistenceError("failed to insert plan", stderrors.New("boom"))
		assert.Equal(t, "PERSISTENCE: failed to insert plan: boom", err.Error())
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := apperrors.NewValidationError("owner id is required")
		assert.Equal(t, "VALIDATION: owner id is required", err.Error())
	})
}

func TestIsType(t *testing.T) {
	cause := stderrors.New("deadline exceeded")
	err := fmt.Errorf("generate: %w", apperrors.NewProviderError("gemini call failed", cause))

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeProvider))
	assert.False(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
	assert.ErrorIs(t, err, cause)
	assert.False(t, apperrors.IsType(cause, apperrors.ErrorTypeProvider))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(apperrors.NewNotFoundError("plan not found")))
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(stderrors.New("plain")))
}
