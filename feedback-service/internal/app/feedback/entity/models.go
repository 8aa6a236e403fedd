package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role - уровень доступа, выведенный из профиля пользователя
// Явный tagged-тип вместо булевых проверок "роль == строка"
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// Identity - аутентифицированный пользователь из JWT токена
// Неизменяем в течение сессии
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Access - результат разрешения прав доступа для Identity
type Access struct {
	Authenticated bool `json:"authenticated"`
	Role          Role `json:"role"`
}

// Feedback - отзыв о сессии
// Неизменяем после создания (кроме счётчика лайков и удаления автором)
type Feedback struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID    string             `json:"author_id" bson:"author_id"`
	AuthorName  string             `json:"author_name" bson:"author_name"`
	AuthorEmail string             `json:"author_email" bson:"author_email"`
	Rating      int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Comment     string             `json:"comment" bson:"comment"`
	Suggestions *string            `json:"suggestions,omitempty" bson:"suggestions,omitempty"` // nil, если не заполнено
	Likes       int64              `json:"likes" bson:"likes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Comment - комментарий в треде одного отзыва
// Append-only: редактирование и удаление не поддерживаются
type Comment struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FeedbackID    string             `json:"feedback_id" bson:"feedback_id"`
	CommenterID   string             `json:"commenter_id" bson:"commenter_id"`
	CommenterName string             `json:"commenter_name" bson:"commenter_name"`
	Text          string             `json:"text" bson:"text"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// Profile - документ profiles/{uid} с персистентной ролью пользователя
// Создаётся auth-service при первой аутентификации
type Profile struct {
	UID         string    `json:"uid" bson:"_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Email       string    `json:"email" bson:"email"`
	AvatarURL   string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Role        Role      `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// FeedbackWithComments - отзыв с предзагруженным тредом для выгрузки CSV
type FeedbackWithComments struct {
	Feedback Feedback  `json:"feedback"`
	Comments []Comment `json:"comments"`
}

// FeedbackStats - агрегированная статистика для админ-панели
type FeedbackStats struct {
	TotalFeedbacks int64   `json:"total_feedbacks" bson:"total_feedbacks"`
	TotalComments  int64   `json:"total_comments" bson:"total_comments"`
	AverageRating  float64 `json:"average_rating" bson:"average_rating"`
	TotalLikes     int64   `json:"total_likes" bson:"total_likes"`
}

// FeedbackEvent - событие для Kafka топика feedback_events
type FeedbackEvent struct {
	EventType  string    `json:"event_type"` // FEEDBACK_CREATED, FEEDBACK_DELETED, COMMENT_ADDED
	FeedbackID string    `json:"feedback_id"`
	CommentID  string    `json:"comment_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	Rating     int       `json:"rating,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventFeedbackCreated = "FEEDBACK_CREATED"
	EventFeedbackDeleted = "FEEDBACK_DELETED"
	EventCommentAdded    = "COMMENT_ADDED"
)
