package service

import (
	"context"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken string) error
	ValidateToken(ctx context.Context, accessToken string) (*util.JWTClaims, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.UserWithProfile, error)
}
