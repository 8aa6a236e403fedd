package service

import (
	"context"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
)

// EventProcessingServiceInterface определяет интерфейс обработки событий отзывов
type EventProcessingServiceInterface interface {
	// ProcessEvent архивирует одно событие из топика feedback_events
	ProcessEvent(ctx context.Context, event *entity.FeedbackEvent) error
}

// StatsServiceInterface определяет интерфейс построения дневных сводок
type StatsServiceInterface interface {
	// BuildDailySummary пересчитывает сводку за день и сохраняет ее в Redis
	BuildDailySummary(ctx context.Context, day time.Time) (*entity.DailySummary, error)
}
