package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/background-worker-service/internal/app/background-worker/repository"
	"feedbackhub/pkg/logger"
)

// StatsService строит дневные сводки по архиву событий
type StatsService struct {
	archiveRepo repository.ArchiveRepository
	statsRepo   repository.StatsRepository
}

// NewStatsService создает новый сервис дневных сводок
func NewStatsService(archiveRepo repository.ArchiveRepository, statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{
		archiveRepo: archiveRepo,
		statsRepo:   statsRepo,
	}
}

// BuildDailySummary пересчитывает сводку за день и сохраняет ее в Redis
// Средний рейтинг округляется до двух знаков
func (s *StatsService) BuildDailySummary(ctx context.Context, day time.Time) (*entity.DailySummary, error) {
	date := day.UTC().Format("2006-01-02")

	feedbackCount, err := s.archiveRepo.CountByTypeForDay(ctx, entity.EventTypeFeedbackCreated, day)
	if err != nil {
		return nil, fmt.Errorf("failed to count feedbacks: %w", err)
	}

	commentCount, err := s.archiveRepo.CountByTypeForDay(ctx, entity.EventTypeCommentAdded, day)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	avgRating, err := s.archiveRepo.AverageRatingForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}

	summary := &entity.DailySummary{
		Date:          date,
		FeedbackCount: feedbackCount,
		CommentCount:  commentCount,
		AverageRating: math.Round(avgRating*100) / 100,
		UpdatedAt:     time.Now().UTC(),
	}

	if err := s.statsRepo.SaveDailySummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save daily summary: %w", err)
	}

	logger.Info().
		Str("date", date).
		Int64("feedback_count", feedbackCount).
		Int64("comment_count", commentCount).
		Float64("average_rating", summary.AverageRating).
		Msg("Daily summary updated")

	return summary, nil
}
