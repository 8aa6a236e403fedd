package service

import (
	"context"
	"fmt"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/background-worker-service/internal/app/background-worker/repository"
	"feedbackhub/pkg/logger"
)

// EventProcessingService архивирует события отзывов в PostgreSQL
type EventProcessingService struct {
	archiveRepo repository.ArchiveRepository
}

// NewEventProcessingService создает новый сервис обработки событий
func NewEventProcessingService(archiveRepo repository.ArchiveRepository) *EventProcessingService {
	return &EventProcessingService{
		archiveRepo: archiveRepo,
	}
}

// ProcessEvent архивирует одно событие из топика feedback_events
// Неизвестные типы событий пропускаются без ошибки, чтобы не блокировать консьюмер
func (s *EventProcessingService) ProcessEvent(ctx context.Context, event *entity.FeedbackEvent) error {
	switch event.EventType {
	case entity.EventTypeFeedbackCreated, entity.EventTypeFeedbackDeleted, entity.EventTypeCommentAdded:
	default:
		logger.Warn().
			Str("event_type", event.EventType).
			Str("feedback_id", event.FeedbackID).
			Msg("Unknown event type, skipping")
		return nil
	}

	if event.FeedbackID == "" {
		return fmt.Errorf("event has no feedback_id")
	}

	eventTime := event.Timestamp
	if eventTime.IsZero() {
		eventTime = time.Now().UTC()
	}

	archived := &entity.ArchivedEvent{
		EventType:  event.EventType,
		FeedbackID: event.FeedbackID,
		CommentID:  event.CommentID,
		ActorID:    event.ActorID,
		Rating:     event.Rating,
		EventTime:  eventTime,
	}

	if err := s.archiveRepo.Save(ctx, archived); err != nil {
		return fmt.Errorf("failed to process event: %w", err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("feedback_id", event.FeedbackID).
		Msg("Event archived")

	return nil
}
