package repository

import (
	"context"
	"errors"
	"fmt"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "auth-service"

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

// Create создает нового пользователя
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpInsert, "users")
	defer timer.ObserveDuration()

	query := `
		INSERT INTO users (id, email, password_hash, name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.AvatarURL, user.CreatedAt,
	)

	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpInsert)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "users")
	defer timer.ObserveDuration()

	query := `SELECT id, email, password_hash, name, avatar_url, created_at FROM users WHERE id = $1`

	var user entity.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail получает пользователя по email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "users")
	defer timer.ObserveDuration()

	query := `SELECT id, email, password_hash, name, avatar_url, created_at FROM users WHERE email = $1`

	var user entity.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}
