package repository

import (
	"context"
	"errors"
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

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrFeedbackNotFound = errors.New("feedback not found")
)

const serviceName = "feedback-service"

type feedbackRepository struct {
	collection *mongo.Collection
}

// NewFeedbackRepository создает новый репозиторий отзывов
// Автоматически создает индекс по created_at для сортировки ленты
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	collection := db.Collection("feedbacks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("created_at_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Индекс может уже существовать, работу не прерываем
		logger.Warn().Err(err).Msg("Failed to create index on created_at")
	}

	return &feedbackRepository{
		collection: collection,
	}
}

// Create создает новый отзыв в MongoDB
// created_at проставляется сервером, лайки начинаются с нуля
func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpInsert, "feedbacks")
	defer timer.ObserveDuration()

	feedback.CreatedAt = time.Now().UTC()
	feedback.Likes = 0

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpInsert)
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = oid
	}

	return nil
}

// GetByID получает отзыв по ID
func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*entity.Feedback, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrFeedbackNotFound
	}

	filter := bson.M{"_id": objectID}

	var feedback entity.Feedback
	err = r.collection.FindOne(ctx, filter).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &feedback, nil
}

// List получает страницу ленты: created_at по убыванию
// after - курсор пагинации (created_at последнего видимого отзыва)
func (r *feedbackRepository) List(ctx context.Context, limit int, after time.Time) ([]entity.Feedback, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "feedbacks")
	defer timer.ObserveDuration()

	filter := bson.M{}
	if !after.IsZero() {
		filter["created_at"] = bson.M{"$lt": after}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return nil, fmt.Errorf("failed to find feedbacks: %w", err)
	}
	defer cursor.Close(ctx)

	feedbacks := make([]entity.Feedback, 0, limit)
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode feedbacks: %w", err)
	}

	return feedbacks, nil
}

// ListAll получает все отзывы без пагинации
// Используется только выгрузкой CSV
func (r *feedbackRepository) ListAll(ctx context.Context) ([]entity.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return nil, fmt.Errorf("failed to find feedbacks: %w", err)
	}
	defer cursor.Close(ctx)

	var feedbacks []entity.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode feedbacks: %w", err)
	}

	return feedbacks, nil
}

// Delete удаляет отзыв из MongoDB
func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpDelete, "feedbacks")
	defer timer.ObserveDuration()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrFeedbackNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpDelete)
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}

// IncrementLikes атомарно увеличивает счётчик лайков на единицу
func (r *feedbackRepository) IncrementLikes(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrFeedbackNotFound
	}

	update := bson.M{"$inc": bson.M{"likes": 1}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpUpdate)
		return fmt.Errorf("failed to increment likes: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}

// Stats считает агрегированную статистику по всем отзывам
func (r *feedbackRepository) Stats(ctx context.Context) (*entity.FeedbackStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_feedbacks", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "average_rating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "total_likes", Value: bson.D{{Key: "$sum", Value: "$likes"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []entity.FeedbackStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	if len(results) == 0 {
		return &entity.FeedbackStats{}, nil
	}

	return &results[0], nil
}
