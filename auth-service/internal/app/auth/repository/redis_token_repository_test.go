package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TokenRepositoryTestSuite тестовый suite для Redis repository
type TokenRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      TokenRepository
}

func TestTokenRepositorySuite(t *testing.T) {
	suite.Run(t, new(TokenRepositoryTestSuite))
}

func (s *TokenRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewRedisTokenRepository(s.client)
}

func (s *TokenRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *TokenRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

// ===================== Refresh Token Tests =====================

func (s *TokenRepositoryTestSuite) TestSaveAndGetRefreshToken() {
	ctx := context.Background()
	userID := uuid.New()

	// Arrange
	err := s.repo.SaveRefreshToken(ctx, userID, "refresh-abc", time.Now().Add(time.Hour))
	s.NoError(err)

	// Act
	stored, err := s.repo.GetRefreshToken(ctx, "refresh-abc")

	// Assert
	s.NoError(err)
	s.Equal(userID, stored.UserID)
	s.Equal("refresh-abc", stored.Token)
}

func (s *TokenRepositoryTestSuite) TestSaveRefreshToken_AlreadyExpired() {
	ctx := context.Background()

	// Act
	err := s.repo.SaveRefreshToken(ctx, uuid.New(), "stale", time.Now().Add(-time.Minute))

	// Assert
	s.Error(err)
}

func (s *TokenRepositoryTestSuite) TestGetRefreshToken_NotFound() {
	ctx := context.Background()

	// Act
	stored, err := s.repo.GetRefreshToken(ctx, "unknown")

	// Assert
	s.ErrorIs(err, ErrNotFound)
	s.Nil(stored)
}

func (s *TokenRepositoryTestSuite) TestDeleteRefreshToken() {
	ctx := context.Background()
	userID := uuid.New()

	// Arrange
	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "refresh-abc", time.Now().Add(time.Hour)))

	// Act
	err := s.repo.DeleteRefreshToken(ctx, "refresh-abc")

	// Assert
	s.NoError(err)
	_, err = s.repo.GetRefreshToken(ctx, "refresh-abc")
	s.ErrorIs(err, ErrNotFound)
}

func (s *TokenRepositoryTestSuite) TestDeleteUserRefreshTokens() {
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	// Arrange - у пользователя два токена, у другого один
	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "token-1", time.Now().Add(time.Hour)))
	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "token-2", time.Now().Add(time.Hour)))
	s.NoError(s.repo.SaveRefreshToken(ctx, other, "token-3", time.Now().Add(time.Hour)))

	// Act
	err := s.repo.DeleteUserRefreshTokens(ctx, userID)

	// Assert
	s.NoError(err)

	_, err = s.repo.GetRefreshToken(ctx, "token-1")
	s.ErrorIs(err, ErrNotFound)
	_, err = s.repo.GetRefreshToken(ctx, "token-2")
	s.ErrorIs(err, ErrNotFound)

	// Чужой токен не затронут
	stored, err := s.repo.GetRefreshToken(ctx, "token-3")
	s.NoError(err)
	s.Equal(other, stored.UserID)
}

func (s *TokenRepositoryTestSuite) TestRefreshTokenExpiresWithTTL() {
	ctx := context.Background()
	userID := uuid.New()

	// Arrange
	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "short-lived", time.Now().Add(time.Minute)))

	// Act - перематываем время в miniredis за TTL
	s.miniRedis.FastForward(2 * time.Minute)

	// Assert
	_, err := s.repo.GetRefreshToken(ctx, "short-lived")
	s.ErrorIs(err, ErrNotFound)
}

// ===================== Blacklist Tests =====================

func (s *TokenRepositoryTestSuite) TestBlacklist() {
	ctx := context.Background()

	// Arrange
	s.NoError(s.repo.AddToBlacklist(ctx, "revoked-token", time.Now().Add(time.Hour)))

	// Act
	blacklisted, err := s.repo.IsBlacklisted(ctx, "revoked-token")

	// Assert
	s.NoError(err)
	s.True(blacklisted)

	clean, err := s.repo.IsBlacklisted(ctx, "other-token")
	s.NoError(err)
	s.False(clean)
}

func (s *TokenRepositoryTestSuite) TestAddToBlacklist_ExpiredTokenIgnored() {
	ctx := context.Background()

	// Act - истекший токен хранить незачем
	err := s.repo.AddToBlacklist(ctx, "already-expired", time.Now().Add(-time.Minute))

	// Assert
	s.NoError(err)

	blacklisted, err := s.repo.IsBlacklisted(ctx, "already-expired")
	s.NoError(err)
	s.False(blacklisted)
}

func (s *TokenRepositoryTestSuite) TestBlacklistExpiresWithTTL() {
	ctx := context.Background()

	// Arrange
	s.NoError(s.repo.AddToBlacklist(ctx, "revoked-token", time.Now().Add(time.Minute)))

	// Act
	s.miniRedis.FastForward(2 * time.Minute)

	// Assert
	blacklisted, err := s.repo.IsBlacklisted(ctx, "revoked-token")
	s.NoError(err)
	s.False(blacklisted)
}
