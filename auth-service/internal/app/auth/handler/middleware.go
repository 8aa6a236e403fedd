package handler

import (
	"net/http"
	"strings"

	"feedbackhub/auth-service/internal/app/auth/entity"
	"feedbackhub/auth-service/internal/app/auth/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет access токены на защищенных маршрутах
// Валидация идет через сервис: учитывается черный список в Redis
type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate проверяет JWT токен и добавляет данные пользователя в контекст
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)

		c.Next()
	}
}
