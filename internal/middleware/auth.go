package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/response"
)

const (
	ctxUserID  = "auth.user_id"
	ctxIsHost  = "auth.is_host"
	ctxIsStaff = "auth.is_staff"
)

// AuthMiddleware verifies the bearer token and stores the acting
// principal on the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxIsHost, claims.IsHost)
		c.Set(ctxIsStaff, claims.IsStaff)
		c.Next()
	}
}

// RequireHost rejects requests from principals without hosting rights.
// Staff pass through.
func RequireHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsHost(c) && !IsStaff(c) {
			response.Error(c, forbidden("host account required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff rejects requests from non-staff principals.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(c) {
			response.Error(c, forbidden("staff account required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// IsHost reports whether the authenticated user has hosting rights.
func IsHost(c *gin.Context) bool {
	return c.GetBool(ctxIsHost)
}

// IsStaff reports whether the authenticated user is staff.
func IsStaff(c *gin.Context) bool {
	return c.GetBool(ctxIsStaff)
}
