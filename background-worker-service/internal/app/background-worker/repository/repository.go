package repository

import (
	"context"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
)

// ArchiveRepository - интерфейс архива событий
type ArchiveRepository interface {
	Save(ctx context.Context, event *entity.ArchivedEvent) error
	CountByTypeForDay(ctx context.Context, eventType string, day time.Time) (int64, error)
	AverageRatingForDay(ctx context.Context, day time.Time) (float64, error)
}

// StatsRepository - интерфейс хранилища дневных сводок
type StatsRepository interface {
	SaveDailySummary(ctx context.Context, summary *entity.DailySummary) error
	GetDailySummary(ctx context.Context, date string) (*entity.DailySummary, error)
}
