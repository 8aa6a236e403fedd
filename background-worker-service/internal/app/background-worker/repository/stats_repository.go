package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// ErrSummaryNotFound возвращается, когда сводки за дату нет в Redis
var ErrSummaryNotFound = fmt.Errorf("daily summary not found")

// statsRepository реализует StatsRepository для работы с Redis
type statsRepository struct {
	client *redis.Client
	ttl    time.Duration // TTL для дневных сводок
}

// NewStatsRepository создает новый репозиторий дневных сводок
func NewStatsRepository(client *redis.Client, ttl time.Duration) StatsRepository {
	return &statsRepository{
		client: client,
		ttl:    ttl,
	}
}

// SaveDailySummary сохраняет дневную сводку в Redis с TTL
func (r *statsRepository) SaveDailySummary(ctx context.Context, summary *entity.DailySummary) error {
	key := entity.RedisKeyPrefixSummary + summary.Date

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal daily summary: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to save daily summary in redis: %w", err)
	}

	return nil
}

// GetDailySummary получает дневную сводку за дату (YYYY-MM-DD)
func (r *statsRepository) GetDailySummary(ctx context.Context, date string) (*entity.DailySummary, error) {
	key := entity.RedisKeyPrefixSummary + date

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSummaryNotFound
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get daily summary from redis: %w", err)
	}

	var summary entity.DailySummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily summary: %w", err)
	}

	return &summary, nil
}
