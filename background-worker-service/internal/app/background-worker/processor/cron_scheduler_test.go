package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStatsService мок для StatsServiceInterface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) BuildDailySummary(ctx context.Context, day time.Time) (*entity.DailySummary, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DailySummary), args.Error(1)
}

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	mockSvc := new(MockStatsService)

	// Act
	scheduler := NewCronScheduler(mockSvc)

	// Assert
	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, mockSvc, scheduler.statsSvc)
}

func TestCronScheduler_Start_RunsInitialSummary(t *testing.T) {
	// Arrange
	mockSvc := new(MockStatsService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("BuildDailySummary", mock.Anything, mock.Anything).
		Return(&entity.DailySummary{Date: "2026-03-14"}, nil)

	// Act
	err := scheduler.Start(context.Background(), "*/10 * * * *")
	defer scheduler.Stop()

	// Assert: начальный пересчет выполняется сразу, не дожидаясь расписания
	assert.NoError(t, err)
	mockSvc.AssertCalled(t, "BuildDailySummary", mock.Anything, mock.Anything)
	assert.Len(t, scheduler.GetEntries(), 1)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	mockSvc := new(MockStatsService)
	scheduler := NewCronScheduler(mockSvc)

	// Act
	err := scheduler.Start(context.Background(), "not a schedule")

	// Assert
	assert.Error(t, err)
	mockSvc.AssertNotCalled(t, "BuildDailySummary", mock.Anything, mock.Anything)
}

func TestCronScheduler_Start_InitialSummaryErrorDoesNotFail(t *testing.T) {
	// Arrange
	mockSvc := new(MockStatsService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("BuildDailySummary", mock.Anything, mock.Anything).
		Return(nil, errors.New("redis down"))

	// Act
	err := scheduler.Start(context.Background(), "0 * * * *")
	defer scheduler.Stop()

	// Assert: ошибка пересчета только логируется
	assert.NoError(t, err)
}

func TestCronScheduler_Stop(t *testing.T) {
	// Arrange
	mockSvc := new(MockStatsService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("BuildDailySummary", mock.Anything, mock.Anything).
		Return(&entity.DailySummary{}, nil)

	assert.NoError(t, scheduler.Start(context.Background(), "0 * * * *"))

	// Act / Assert: Stop дожидается завершения и не паникует
	assert.NotPanics(t, func() {
		scheduler.Stop()
	})
}
