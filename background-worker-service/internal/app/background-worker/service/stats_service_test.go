package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/background-worker-service/internal/app/background-worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySummary_Success(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	statsRepo := new(mocks.MockStatsRepository)
	svc := NewStatsService(archiveRepo, statsRepo)

	day := time.Date(2026, 3, 14, 16, 45, 0, 0, time.UTC)

	archiveRepo.On("CountByTypeForDay", mock.Anything, entity.EventTypeFeedbackCreated, day).Return(int64(12), nil)
	archiveRepo.On("CountByTypeForDay", mock.Anything, entity.EventTypeCommentAdded, day).Return(int64(30), nil)
	archiveRepo.On("AverageRatingForDay", mock.Anything, day).Return(4.16666, nil)
	statsRepo.On("SaveDailySummary", mock.Anything, mock.Anything).Return(nil)

	// Act
	summary, err := svc.BuildDailySummary(context.Background(), day)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", summary.Date)
	assert.Equal(t, int64(12), summary.FeedbackCount)
	assert.Equal(t, int64(30), summary.CommentCount)
	// Средний рейтинг округляется до двух знаков
	assert.Equal(t, 4.17, summary.AverageRating)
	assert.False(t, summary.UpdatedAt.IsZero())
	statsRepo.AssertCalled(t, "SaveDailySummary", mock.Anything, mock.MatchedBy(func(s *entity.DailySummary) bool {
		return s.Date == "2026-03-14" && s.FeedbackCount == 12
	}))
}

func TestBuildDailySummary_EmptyDay(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	statsRepo := new(mocks.MockStatsRepository)
	svc := NewStatsService(archiveRepo, statsRepo)

	day := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)

	archiveRepo.On("CountByTypeForDay", mock.Anything, entity.EventTypeFeedbackCreated, day).Return(int64(0), nil)
	archiveRepo.On("CountByTypeForDay", mock.Anything, entity.EventTypeCommentAdded, day).Return(int64(0), nil)
	archiveRepo.On("AverageRatingForDay", mock.Anything, day).Return(0.0, nil)
	statsRepo.On("SaveDailySummary", mock.Anything, mock.Anything).Return(nil)

	// Act
	summary, err := svc.BuildDailySummary(context.Background(), day)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.FeedbackCount)
	assert.Equal(t, 0.0, summary.AverageRating)
}

func TestBuildDailySummary_ArchiveError(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	statsRepo := new(mocks.MockStatsRepository)
	svc := NewStatsService(archiveRepo, statsRepo)

	day := time.Now().UTC()
	archiveRepo.On("CountByTypeForDay", mock.Anything, entity.EventTypeFeedbackCreated, day).
		Return(int64(0), errors.New("db down"))

	// Act
	summary, err := svc.BuildDailySummary(context.Background(), day)

	// Assert
	assert.Nil(t, summary)
	assert.Error(t, err)
	statsRepo.AssertNotCalled(t, "SaveDailySummary", mock.Anything, mock.Anything)
}

func TestBuildDailySummary_SaveError(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	statsRepo := new(mocks.MockStatsRepository)
	svc := NewStatsService(archiveRepo, statsRepo)

	day := time.Now().UTC()
	archiveRepo.On("CountByTypeForDay", mock.Anything, mock.Anything, day).Return(int64(1), nil)
	archiveRepo.On("AverageRatingForDay", mock.Anything, day).Return(5.0, nil)
	statsRepo.On("SaveDailySummary", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	// Act
	summary, err := svc.BuildDailySummary(context.Background(), day)

	// Assert
	assert.Nil(t, summary)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save daily summary")
}
