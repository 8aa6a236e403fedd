package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/auth-service/internal/app/auth/service"
	"feedbackhub/pkg/metrics"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
}

func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Conflict", Message: "User with this email already exists"})
		case errors.Is(err, service.ErrEmailDomainDenied):
			c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Forbidden", Message: "Email domain is not allowed"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to register user"})
		}
		return
	}

	metrics.AuthRegistrations.Inc()
	c.JSON(http.StatusCreated, resp)
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Invalid email or password"})
		case errors.Is(err, service.ErrEmailDomainDenied):
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Forbidden", Message: "Email domain is not allowed"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to login"})
		}
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, resp)
}

// RefreshToken обрабатывает POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req entity.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	tokens, err := h.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Invalid or expired refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to refresh token"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// ValidateToken обрабатывает POST /auth/validate
// Используется другими сервисами для проверки access токена
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req entity.ValidateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	claims, err := h.authService.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusOK, entity.ValidateResponse{Valid: false})
		return
	}

	c.JSON(http.StatusOK, entity.ValidateResponse{
		Valid:  true,
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Role:   claims.Role,
	})
}

// GetMe обрабатывает GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not Found", Message: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to get user info"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.authService.Logout(c.Request.Context(), userID, token); err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Logged out successfully"})
}

// userIDFromContext достает uuid пользователя, проставленный Authenticate
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}
