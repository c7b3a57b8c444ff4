package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/pkg/response"
)

// ContextUserKey is the gin context key storing the signed in administrator.
const ContextUserKey = "currentUser"

// SessionGuard reports the live administrator or a session-expired error.
type SessionGuard interface {
	RequireSession(ctx context.Context) (*models.User, error)
}

// RequireSession protects console routes. Requests without a live administrator session are
// answered with the session-expired envelope, which carries the login redirect.
func RequireSession(guard SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := guard.RequireSession(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the administrator attached by RequireSession.
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
