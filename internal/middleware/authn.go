package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/models"
	"taskhub/backend/internal/services"
)

const currentUserKey = "current_user"

// AuthnMiddleware resolves the bearer token into the authenticated user
// and aborts with 401 (or 404 when the token subject no longer exists)
// otherwise. Resolution happens once per request; downstream handlers
// read the user via CurrentUser.
func AuthnMiddleware(resolver *services.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    http.StatusUnauthorized,
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    http.StatusUnauthorized,
				"message": "Authorization header must use Bearer token",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := resolver.Resolve(tokenStr, time.Now())
		if err != nil {
			status := http.StatusUnauthorized
			message := "Token is invalid or malformed"
			switch {
			case errors.Is(err, apperrors.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, apperrors.ErrUserNotFound):
				status = http.StatusNotFound
				message = "User not found"
			case errors.Is(err, apperrors.ErrMalformedToken):
			default:
				status = http.StatusInternalServerError
				message = "Failed to resolve session"
			}
			c.AbortWithStatusJSON(status, gin.H{
				"success": false,
				"code":    status,
				"message": message,
			})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user placed into the context by
// AuthnMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
