package repository

import (
	"context"
	"errors"
	"fmt"

	"feedbackhub/feedback-service/internal/app/feedback/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type profileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository создает read-only репозиторий профилей
// Профили пишет auth-service, здесь только читаем роль
func NewProfileRepository(db *mongo.Database) ProfileRepository {
	return &profileRepository{
		collection: db.Collection("profiles"),
	}
}

// GetByUID получает профиль по идентификатору пользователя
func (r *profileRepository) GetByUID(ctx context.Context, uid string) (*entity.Profile, error) {
	var profile entity.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}
