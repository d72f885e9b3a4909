package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"design-insight-backend/internal/shared/server/respond"
)

const ownerIDKey = "ownerId"

// Identity resolves the caller from the X-Guest-Id header and stores the
// owner ID in context. The provider API key travels per-request in the
// body, so there is no server-side account to authenticate against.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(ownerIDKey, "guest:"+guestID)
		c.Next()
	}
}

// OwnerIDFromContext fetches the owner ID set by the identity middleware.
func OwnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
