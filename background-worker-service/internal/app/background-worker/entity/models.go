package entity

import (
	"time"
)

// FeedbackEvent - событие из Kafka топика feedback_events
// Формат совпадает с тем, что публикует feedback-service
type FeedbackEvent struct {
	EventType  string    `json:"event_type"` // FEEDBACK_CREATED, FEEDBACK_DELETED, COMMENT_ADDED
	FeedbackID string    `json:"feedback_id"`
	CommentID  string    `json:"comment_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	Rating     int       `json:"rating,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventTypeFeedbackCreated = "FEEDBACK_CREATED"
	EventTypeFeedbackDeleted = "FEEDBACK_DELETED"
	EventTypeCommentAdded    = "COMMENT_ADDED"
)

// ArchivedEvent - строка архива событий в PostgreSQL
// Архив нужен для офлайн-анализа и дневной сводки
type ArchivedEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EventType  string    `json:"event_type" gorm:"type:varchar(50);not null;index"`
	FeedbackID string    `json:"feedback_id" gorm:"type:varchar(64);not null;index"`
	CommentID  string    `json:"comment_id" gorm:"type:varchar(64)"`
	ActorID    string    `json:"actor_id" gorm:"type:varchar(64);not null"`
	Rating     int       `json:"rating" gorm:"not null;default:0"`
	EventTime  time.Time `json:"event_time" gorm:"not null;index"`
	ReceivedAt time.Time `json:"received_at" gorm:"autoCreateTime"`
}

func (ArchivedEvent) TableName() string {
	return "feedback_archive"
}

// DailySummary - дневная сводка по отзывам
// Хранится в Redis под ключом daily_summary:<YYYY-MM-DD>
type DailySummary struct {
	Date          string    `json:"date"` // YYYY-MM-DD
	FeedbackCount int64     `json:"feedback_count"`
	CommentCount  int64     `json:"comment_count"`
	AverageRating float64   `json:"average_rating"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	// RedisKeyPrefixSummary - префикс ключей дневных сводок
	RedisKeyPrefixSummary = "daily_summary:"
)
