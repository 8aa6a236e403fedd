package handler

import (
	"net/http"
	"strings"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims структура claims для JWT токена
// Должна совпадать с токенами, которые выпускает auth-service
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен и решает вопросы доступа
// Админские маршруты сверяются с персистентной ролью через resolver,
// а не только с claim в токене
type AuthMiddleware struct {
	jwtSecret string
	resolver  *service.RoleResolver
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(jwtSecret string, resolver *service.RoleResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		resolver:  resolver,
	}
}

// Authenticate проверяет JWT токен и добавляет Identity в контекст Gin
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

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.jwtSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized", Message: "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)

		c.Next()
	}
}

// RequireAdmin пропускает только пользователей с персистентной ролью admin
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		access := m.resolver.Resolve(c.Request.Context(), uid)
		if access.Role != entity.RoleAdmin {
			c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Forbidden", Message: "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// identityFromContext собирает Identity из значений, проставленных Authenticate
func identityFromContext(c *gin.Context) (entity.Identity, bool) {
	uid := c.GetString("user_id")
	if uid == "" {
		return entity.Identity{}, false
	}

	return entity.Identity{
		ID:    uid,
		Name:  c.GetString("name"),
		Email: c.GetString("email"),
	}, true
}
