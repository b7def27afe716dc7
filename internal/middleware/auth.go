package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jmherrera/task-tracker-api/internal/constants"
	apierrors "github.com/jmherrera/task-tracker-api/internal/errors"
	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/services"
)

// RequireToken authenticates the request via the "Authorization: Token <key>"
// header. A missing or invalid credential yields 401, never a process error.
func RequireToken(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := parseTokenHeader(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := tokenService.Resolve(key)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, *user)
		c.Next()
	}
}

func parseTokenHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != constants.AuthHeaderPrefix {
		return "", false
	}

	key := strings.TrimSpace(parts[1])
	if key == "" {
		return "", false
	}

	return key, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	return user, ok
}
