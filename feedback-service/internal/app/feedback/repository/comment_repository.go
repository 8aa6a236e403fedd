package repository

import (
	"context"
	"fmt"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/pkg/logger"
	"feedbackhub/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository создает новый репозиторий комментариев
// Комментарии живут в отдельной коллекции с привязкой по feedback_id
// (логический аналог подколлекции feedbacks/{id}/comments)
func NewCommentRepository(db *mongo.Database) CommentRepository {
	collection := db.Collection("comments")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "feedback_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
		Options: options.Index().SetName("feedback_id_created_at_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn().Err(err).Msg("Failed to create index on feedback_id")
	}

	return &commentRepository{
		collection: collection,
	}
}

// Create добавляет комментарий в тред отзыва
func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpInsert, "comments")
	defer timer.ObserveDuration()

	comment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpInsert)
		return fmt.Errorf("failed to create comment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}

	return nil
}

// ListByFeedbackID получает тред одного отзыва: created_at по возрастанию
func (r *commentRepository) ListByFeedbackID(ctx context.Context, feedbackID string) ([]entity.Comment, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "comments")
	defer timer.ObserveDuration()

	filter := bson.M{"feedback_id": feedbackID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := make([]entity.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return comments, nil
}

// DeleteByFeedbackID удаляет весь тред отзыва
// Вызывается при каскадном удалении отзыва автором
func (r *commentRepository) DeleteByFeedbackID(ctx context.Context, feedbackID string) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpDelete, "comments")
	defer timer.ObserveDuration()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"feedback_id": feedbackID}); err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpDelete)
		return fmt.Errorf("failed to delete comments: %w", err)
	}

	return nil
}

// Count возвращает общее количество комментариев
func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
