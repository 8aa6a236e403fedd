package mocks

import (
	"context"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockArchiveRepository - мок ArchiveRepository для тестов
type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Save(ctx context.Context, event *entity.ArchivedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockArchiveRepository) CountByTypeForDay(ctx context.Context, eventType string, day time.Time) (int64, error) {
	args := m.Called(ctx, eventType, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArchiveRepository) AverageRatingForDay(ctx context.Context, day time.Time) (float64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(float64), args.Error(1)
}

// MockStatsRepository - мок StatsRepository для тестов
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) SaveDailySummary(ctx context.Context, summary *entity.DailySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockStatsRepository) GetDailySummary(ctx context.Context, date string) (*entity.DailySummary, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DailySummary), args.Error(1)
}
