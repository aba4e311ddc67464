package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qa-service/internal/models"
	"qa-service/internal/services"
	"qa-service/pkg/response"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

type AuthMiddleware struct {
	auth *services.AuthService
}

func NewAuthMiddleware(auth *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth resolves the bearer token to a user and stores it on the
// context. Banned accounts are rejected with a distinct 403.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := am.auth.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrAccountBanned) {
				response.Error(c, http.StatusForbidden, "Account is banned")
				return
			}
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the user placed on the context by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
