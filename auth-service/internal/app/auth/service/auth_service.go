package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/auth-service/internal/app/auth/repository"
	"feedbackhub/auth-service/internal/app/auth/util"
	"feedbackhub/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AuthService обрабатывает бизнес-логику аутентификации
// Учетные записи живут в Postgres, публичные профили - в MongoDB,
// refresh токены и черный список - в Redis
type AuthService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	tokenRepo     repository.TokenRepository
	jwtManager    *util.JWTManager
	allowedDomain string
	validate      *validator.Validate
}

// NewAuthService создает новый сервис аутентификации
// allowedDomain ограничивает регистрацию и вход одним email-доменом;
// пустая строка отключает проверку
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
	allowedDomain string,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		tokenRepo:     tokenRepo,
		jwtManager:    jwtManager,
		allowedDomain: strings.ToLower(strings.TrimPrefix(allowedDomain, "@")),
		validate:      validator.New(),
	}
}

// Register регистрирует нового пользователя
// Побочный эффект: идемпотентно создается профиль в MongoDB с ролью user
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !s.domainAllowed(email) {
		return nil, ErrEmailDomainDenied
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Профиль создается с ролью user; если документ уже есть,
	// существующая роль остается нетронутой
	profile := &entity.Profile{
		UID:         user.ID.String(),
		DisplayName: user.Name,
		Email:       user.Email,
		Role:        entity.RoleUser,
		CreatedAt:   user.CreatedAt,
	}
	if err := s.profileRepo.EnsureProfile(ctx, profile); err != nil {
		// Учетная запись уже создана; отсутствие профиля деградирует
		// в роль user при резолве и не блокирует регистрацию
		logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to ensure profile")
	}

	return s.generateAuthResponse(ctx, user)
}

// Login выполняет вход пользователя
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !s.domainAllowed(email) {
		return nil, ErrEmailDomainDenied
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateAuthResponse(ctx, user)
}

// RefreshTokens обменивает refresh токен на новую пару токенов
// Использованный refresh токен удаляется: каждый токен одноразовый
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

// GetCurrentUser получает текущего пользователя с его ролью
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.UserWithProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &entity.UserWithProfile{
		User: *user,
		Role: s.resolveRole(ctx, userID.String()),
	}, nil
}

// Logout инвалидирует access токен и все refresh токены пользователя
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err == nil {
		if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	return nil
}

// ValidateToken проверяет access токен с учетом черного списка
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error) {
	isBlacklisted, err := s.tokenRepo.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if isBlacklisted {
		return nil, util.ErrInvalidToken
	}

	return s.jwtManager.ValidateToken(token)
}

// domainAllowed проверяет email против разрешенного домена
func (s *AuthService) domainAllowed(email string) bool {
	if s.allowedDomain == "" {
		return true
	}
	return strings.HasSuffix(email, "@"+s.allowedDomain)
}

// resolveRole читает роль из профиля
// Любой сбой деградирует в роль user и логируется, никогда не ошибка
func (s *AuthService) resolveRole(ctx context.Context, uid string) string {
	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn().Err(err).Str("uid", uid).Msg("Role lookup failed, defaulting to user")
		}
		return entity.RoleUser
	}

	if profile.Role == entity.RoleAdmin {
		return entity.RoleAdmin
	}
	return entity.RoleUser
}

// generateAuthResponse создает полный ответ с пользователем и токенами
func (s *AuthService) generateAuthResponse(ctx context.Context, user *entity.User) (*entity.AuthResponse, error) {
	tokenPair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.AuthResponse{
		User: entity.UserWithProfile{
			User: *user,
			Role: s.resolveRole(ctx, user.ID.String()),
		},
		Tokens: *tokenPair,
	}, nil
}

// generateTokenPair генерирует пару токенов (access + refresh)
func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*entity.TokenPair, error) {
	role := s.resolveRole(ctx, user.ID.String())

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Name, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
	}, nil
}
