package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jmherrera/task-tracker-api/internal/constants"
	apierrors "github.com/jmherrera/task-tracker-api/internal/errors"
	"github.com/jmherrera/task-tracker-api/internal/services"
)

// RequireAdminSession gates the admin console behind a session established by
// the admin login endpoint. The account must still be an active staff member
// at request time.
func RequireAdminSession(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		value := session.Get(constants.ContextKeyUserID)
		if value == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, ok := value.(uint64)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := userService.GetUser(userID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsActive || !user.IsStaff {
			apierrors.Forbidden(c, "Staff access required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, *user)
		c.Next()
	}
}
