package repository

import (
	"context"
	"errors"
	"time"

	"feedbackhub/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProfileRepository управляет публичными профилями в MongoDB
// EnsureProfile идемпотентен: повторный вызов не перезаписывает
// существующий документ и, главное, его роль
type ProfileRepository interface {
	EnsureProfile(ctx context.Context, profile *entity.Profile) error
	GetByUID(ctx context.Context, uid string) (*entity.Profile, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error

	AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
