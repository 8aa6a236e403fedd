package repository

import (
	"context"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
)

// FeedbackRepository определяет методы для работы с коллекцией feedbacks
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	GetByID(ctx context.Context, id string) (*entity.Feedback, error)
	List(ctx context.Context, limit int, after time.Time) ([]entity.Feedback, error)
	ListAll(ctx context.Context) ([]entity.Feedback, error)
	Delete(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entity.FeedbackStats, error)
}

// CommentRepository определяет методы для работы с тредами комментариев
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByFeedbackID(ctx context.Context, feedbackID string) ([]entity.Comment, error)
	DeleteByFeedbackID(ctx context.Context, feedbackID string) error
	Count(ctx context.Context) (int64, error)
}

// ProfileRepository читает документы profiles/{uid}
// Запись профилей - зона ответственности auth-service
type ProfileRepository interface {
	GetByUID(ctx context.Context, uid string) (*entity.Profile, error)
}
