package entity

import (
	"time"

	"github.com/google/uuid"
)

// User представляет учетную запись в Postgres
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	Name         string    `json:"name" db:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile - публичный профиль пользователя в MongoDB
// Создается идемпотентно при регистрации; роль выдается только вручную
// в хранилище и никогда не перезаписывается повторной регистрацией
type Profile struct {
	UID         string    `json:"uid" bson:"_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Email       string    `json:"email" bson:"email"`
	AvatarURL   string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Role        string    `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Роли профиля
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RefreshToken - refresh токен, восстановленный из Redis
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// UserWithProfile - учетная запись вместе с профилем и ролью
type UserWithProfile struct {
	User
	Role string `json:"role"`
}
