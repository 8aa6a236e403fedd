package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает Redis репозиторий для токенов
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken сохраняет refresh токен в Redis с TTL
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	key := fmt.Sprintf("refresh_token:%s", token)

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	if err := r.client.Set(ctx, key, userID.String(), ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	// Множество токенов пользователя нужно для logout со всех устройств
	userTokensKey := fmt.Sprintf("user_tokens:%s", userID.String())
	if err := r.client.SAdd(ctx, userTokensKey, token).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to add token to user set: %w", err)
	}
	r.client.Expire(ctx, userTokensKey, ttl)

	return nil
}

// GetRefreshToken получает refresh токен из Redis
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	key := fmt.Sprintf("refresh_token:%s", token)

	userIDStr, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in Redis: %w", err)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get token TTL: %w", err)
	}

	return &entity.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// DeleteRefreshToken удаляет конкретный refresh токен
func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	key := fmt.Sprintf("refresh_token:%s", token)

	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return fmt.Errorf("failed to get user ID for token: %w", err)
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if userIDStr != "" {
		userTokensKey := fmt.Sprintf("user_tokens:%s", userIDStr)
		r.client.SRem(ctx, userTokensKey, token)
	}

	return nil
}

// DeleteUserRefreshTokens удаляет все refresh токены пользователя
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	userTokensKey := fmt.Sprintf("user_tokens:%s", userID.String())

	tokens, err := r.client.SMembers(ctx, userTokensKey).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	for _, token := range tokens {
		r.client.Del(ctx, fmt.Sprintf("refresh_token:%s", token))
	}

	if err := r.client.Del(ctx, userTokensKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete user tokens set: %w", err)
	}

	return nil
}

// AddToBlacklist добавляет access токен в черный список до его истечения
func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, хранить нечего
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// IsBlacklisted проверяет, отозван ли токен
func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists > 0, nil
}
