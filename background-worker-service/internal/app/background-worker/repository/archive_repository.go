package repository

import (
	"context"
	"fmt"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/pkg/metrics"

	"gorm.io/gorm"
)

const serviceName = "background-worker-service"

// archiveRepository реализует ArchiveRepository для работы с PostgreSQL через GORM
type archiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository создает новый репозиторий архива событий
func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

// Save сохраняет событие в архивную таблицу
func (r *archiveRepository) Save(ctx context.Context, event *entity.ArchivedEvent) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpInsert, "feedback_archive")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(event)

	if result.Error != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpInsert)
		return fmt.Errorf("failed to archive event: %w", result.Error)
	}

	return nil
}

// CountByTypeForDay считает события указанного типа за календарный день (UTC)
func (r *archiveRepository) CountByTypeForDay(ctx context.Context, eventType string, day time.Time) (int64, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "feedback_archive")
	defer timer.ObserveDuration()

	start, end := dayBounds(day)

	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.ArchivedEvent{}).
		Where("event_type = ? AND event_time >= ? AND event_time < ?", eventType, start, end).
		Count(&count)

	if result.Error != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return 0, fmt.Errorf("failed to count events: %w", result.Error)
	}

	return count, nil
}

// AverageRatingForDay считает средний рейтинг по событиям создания отзывов за день
// Возвращает 0, если отзывов за день не было
func (r *archiveRepository) AverageRatingForDay(ctx context.Context, day time.Time) (float64, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "feedback_archive")
	defer timer.ObserveDuration()

	start, end := dayBounds(day)

	// COALESCE, чтобы пустой день не превращался в NULL при сканировании
	var avg float64
	result := r.db.WithContext(ctx).
		Model(&entity.ArchivedEvent{}).
		Where("event_type = ? AND event_time >= ? AND event_time < ?", entity.EventTypeFeedbackCreated, start, end).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg)

	if result.Error != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return 0, fmt.Errorf("failed to compute average rating: %w", result.Error)
	}

	return avg, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
