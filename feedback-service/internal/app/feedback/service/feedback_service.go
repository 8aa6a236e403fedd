package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/infrastructure"
	"feedbackhub/feedback-service/internal/app/feedback/repository"
	"feedbackhub/feedback-service/internal/app/feedback/stream"
	"feedbackhub/pkg/logger"
	"feedbackhub/pkg/metrics"
)

const (
	// DefaultPageSize - размер страницы ленты по умолчанию
	DefaultPageSize = 10
	// MaxPageSize - верхняя граница размера страницы
	MaxPageSize = 50
)

// FeedbackService обрабатывает бизнес-логику отзывов и комментариев
// Координирует репозитории, Kafka и hub live-подписок
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	commentRepo  repository.CommentRepository
	producer     infrastructure.MessagePublisher
	hub          *stream.Hub
}

// NewFeedbackService создает новый сервис отзывов с внедрением зависимостей
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	commentRepo repository.CommentRepository,
	producer infrastructure.MessagePublisher,
	hub *stream.Hub,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		commentRepo:  commentRepo,
		producer:     producer,
		hub:          hub,
	}
}

// CreateFeedback создает новый отзыв
// Валидация выполняется до любого обращения к хранилищу:
// оценка строго 1..5, комментарий непустой после trim, длины в пределах
func (s *FeedbackService) CreateFeedback(ctx context.Context, ident entity.Identity, req *entity.CreateFeedbackRequest) (*entity.Feedback, error) {
	comment := strings.TrimSpace(req.Comment)
	suggestions := strings.TrimSpace(req.Suggestions)

	if req.Rating < 1 || req.Rating > 5 {
		return nil, NewValidationError("please select a rating between 1 and 5")
	}
	if comment == "" {
		return nil, NewValidationError("please provide a comment")
	}
	if utf8.RuneCountInString(comment) > entity.MaxCommentLength {
		return nil, NewValidationError(fmt.Sprintf("comment must be at most %d characters", entity.MaxCommentLength))
	}
	if utf8.RuneCountInString(suggestions) > entity.MaxSuggestionsLength {
		return nil, NewValidationError(fmt.Sprintf("suggestions must be at most %d characters", entity.MaxSuggestionsLength))
	}

	feedback := &entity.Feedback{
		AuthorID:    ident.ID,
		AuthorName:  ident.Name,
		AuthorEmail: ident.Email,
		Rating:      req.Rating,
		Comment:     comment,
	}

	// Пустые suggestions нормализуются в отсутствующее поле, не в ""
	if suggestions != "" {
		feedback.Suggestions = &suggestions
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	metrics.FeedbackSubmitted.WithLabelValues(strconv.Itoa(feedback.Rating)).Inc()

	s.publishEvent(ctx, entity.FeedbackEvent{
		EventType:  entity.EventFeedbackCreated,
		FeedbackID: feedback.ID.Hex(),
		ActorID:    ident.ID,
		Rating:     feedback.Rating,
		Timestamp:  time.Now().UTC(),
	})

	s.hub.Notify(stream.TopicFeed)

	return feedback, nil
}

// ListFeedbacks получает страницу ленты: created_at по убыванию
// after - курсор пагинации; нулевое значение означает первую страницу
func (s *FeedbackService) ListFeedbacks(ctx context.Context, limit int, after time.Time) ([]entity.Feedback, bool, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	feedbacks, err := s.feedbackRepo.List(ctx, limit, after)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list feedbacks: %w", err)
	}

	hasMore := len(feedbacks) == limit

	return feedbacks, hasMore, nil
}

// GetFeedback получает отзыв по ID
func (s *FeedbackService) GetFeedback(ctx context.Context, feedbackID string) (*entity.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return feedback, nil
}

// DeleteFeedback удаляет отзыв вместе с тредом комментариев
// Удалять отзыв может только его автор
func (s *FeedbackService) DeleteFeedback(ctx context.Context, feedbackID string, requesterID string) error {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to get feedback: %w", err)
	}

	if feedback.AuthorID != requesterID {
		return ErrForbidden
	}

	if err := s.feedbackRepo.Delete(ctx, feedbackID); err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	// Каскад: тред не должен переживать отзыв
	if err := s.commentRepo.DeleteByFeedbackID(ctx, feedbackID); err != nil {
		logger.Error().Err(err).Str("feedback_id", feedbackID).Msg("Failed to delete comment thread")
	}

	metrics.FeedbackDeleted.Inc()

	s.publishEvent(ctx, entity.FeedbackEvent{
		EventType:  entity.EventFeedbackDeleted,
		FeedbackID: feedbackID,
		ActorID:    requesterID,
		Timestamp:  time.Now().UTC(),
	})

	s.hub.Notify(stream.TopicFeed)
	s.hub.Notify(stream.TopicComments(feedbackID))

	return nil
}

// LikeFeedback атомарно увеличивает счётчик лайков
func (s *FeedbackService) LikeFeedback(ctx context.Context, feedbackID string) error {
	if err := s.feedbackRepo.IncrementLikes(ctx, feedbackID); err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to like feedback: %w", err)
	}

	s.hub.Notify(stream.TopicFeed)

	return nil
}

// AddComment добавляет комментарий в тред отзыва
// Ответ не содержит оптимистичного состояния треда:
// новый комментарий придёт подписчикам через live-подписку
func (s *FeedbackService) AddComment(ctx context.Context, feedbackID string, ident entity.Identity, req *entity.CreateCommentRequest) (*entity.Comment, error) {
	text := strings.TrimSpace(req.Text)

	if text == "" {
		return nil, NewValidationError("please provide a comment")
	}
	if utf8.RuneCountInString(text) > entity.MaxThreadTextLength {
		return nil, NewValidationError(fmt.Sprintf("comment must be at most %d characters", entity.MaxThreadTextLength))
	}

	// Тред строго привязан к существующему отзыву
	if _, err := s.feedbackRepo.GetByID(ctx, feedbackID); err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	comment := &entity.Comment{
		FeedbackID:    feedbackID,
		CommenterID:   ident.ID,
		CommenterName: ident.Name,
		Text:          text,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	metrics.CommentsAdded.Inc()

	s.publishEvent(ctx, entity.FeedbackEvent{
		EventType:  entity.EventCommentAdded,
		FeedbackID: feedbackID,
		CommentID:  comment.ID.Hex(),
		ActorID:    ident.ID,
		Timestamp:  time.Now().UTC(),
	})

	s.hub.Notify(stream.TopicComments(feedbackID))

	return comment, nil
}

// ListComments получает тред отзыва: created_at по возрастанию
func (s *FeedbackService) ListComments(ctx context.Context, feedbackID string) ([]entity.Comment, error) {
	comments, err := s.commentRepo.ListByFeedbackID(ctx, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// ExportAll читает весь набор отзывов с предзагруженными тредами
// Одно полное чтение без пагинации, используется только выгрузкой CSV
func (s *FeedbackService) ExportAll(ctx context.Context) ([]entity.FeedbackWithComments, error) {
	feedbacks, err := s.feedbackRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedbacks for export: %w", err)
	}

	result := make([]entity.FeedbackWithComments, 0, len(feedbacks))
	for _, fb := range feedbacks {
		comments, err := s.commentRepo.ListByFeedbackID(ctx, fb.ID.Hex())
		if err != nil {
			return nil, fmt.Errorf("failed to load comments for export: %w", err)
		}
		result = append(result, entity.FeedbackWithComments{
			Feedback: fb,
			Comments: comments,
		})
	}

	return result, nil
}

// Stats собирает агрегированную статистику для админ-панели
func (s *FeedbackService) Stats(ctx context.Context) (*entity.FeedbackStats, error) {
	stats, err := s.feedbackRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	totalComments, err := s.commentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	stats.TotalComments = totalComments

	return stats, nil
}

// publishEvent отправляет событие в Kafka
// Ошибки Kafka не прерывают основную операцию: запись уже в хранилище
func (s *FeedbackService) publishEvent(ctx context.Context, event entity.FeedbackEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal feedback event")
		return
	}

	if err := s.producer.PublishMessage(ctx, event.FeedbackID, eventData); err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to publish feedback event")
	}
}
