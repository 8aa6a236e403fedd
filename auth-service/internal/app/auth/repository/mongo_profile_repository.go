package repository

import (
	"context"
	"errors"
	"fmt"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository создает репозиторий профилей поверх MongoDB
func NewMongoProfileRepository(db *mongo.Database) ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection("profiles"),
	}
}

// EnsureProfile создает профиль, если его еще нет
// Upsert с $setOnInsert: повторная регистрация того же пользователя
// не трогает существующий документ, выданная вручную роль сохраняется
func (r *mongoProfileRepository) EnsureProfile(ctx context.Context, profile *entity.Profile) error {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpUpdate, "profiles")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": profile.UID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"display_name": profile.DisplayName,
			"email":        profile.Email,
			"avatar_url":   profile.AvatarURL,
			"role":         profile.Role,
			"created_at":   profile.CreatedAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		metrics.RecordStoreError(serviceName, metrics.StoreOpUpdate)
		return fmt.Errorf("failed to ensure profile: %w", err)
	}

	return nil
}

// GetByUID получает профиль по идентификатору пользователя
func (r *mongoProfileRepository) GetByUID(ctx context.Context, uid string) (*entity.Profile, error) {
	timer := metrics.NewStoreTimer(serviceName, metrics.StoreOpFind, "profiles")
	defer timer.ObserveDuration()

	var profile entity.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		metrics.RecordStoreError(serviceName, metrics.StoreOpFind)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}
