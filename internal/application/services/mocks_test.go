package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// Mocks

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) CreateWithChildren(ctx context.Context, plan *entities.PersistedPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*entities.PersistedPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PersistedPlan), args.Error(1)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockTextGenerationProvider struct {
	mock.Mock
}

func (m *MockTextGenerationProvider) Name() string { return "mock" }

func (m *MockTextGenerationProvider) Model() string { return "mock-model" }

func (m *MockTextGenerationProvider) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTextGenerationProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.PlanEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	return nil
}

type MockNutritionLogRepository struct {
	mock.Mock
}

func (m *MockNutritionLogRepository) Create(ctx context.Context, log *entities.NutritionLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockNutritionLogRepository) SumByOwner(ctx context.Context, ownerID string, from, to time.Time) (*entities.NutritionTotals, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NutritionTotals), args.Error(1)
}
