package service

import (
	"context"
	"errors"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/repository"
	"feedbackhub/pkg/logger"
)

// RoleResolver выводит уровень доступа из персистентного профиля
// Контракт: Resolve никогда не возвращает ошибку - сбой чтения
// профиля деградирует в роль user и логируется
type RoleResolver struct {
	profileRepo repository.ProfileRepository
}

// NewRoleResolver создает resolver поверх read-only репозитория профилей
func NewRoleResolver(profileRepo repository.ProfileRepository) *RoleResolver {
	return &RoleResolver{
		profileRepo: profileRepo,
	}
}

// Resolve определяет права доступа для идентификатора пользователя
// Пустой uid означает неаутентифицированного посетителя
func (r *RoleResolver) Resolve(ctx context.Context, uid string) entity.Access {
	if uid == "" {
		return entity.Access{Authenticated: false, Role: entity.RoleAnonymous}
	}

	profile, err := r.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			logger.Warn().Err(err).Str("uid", uid).Msg("Role lookup failed, defaulting to user")
		}
		return entity.Access{Authenticated: true, Role: entity.RoleUser}
	}

	switch profile.Role {
	case entity.RoleAdmin:
		return entity.Access{Authenticated: true, Role: entity.RoleAdmin}
	default:
		return entity.Access{Authenticated: true, Role: entity.RoleUser}
	}
}
