package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey  = "auth.user_id"
	ctxAddressKey = "auth.address"
)

// Middleware returns a gin handler that requires a valid Bearer token and
// stores the authenticated identity in the request context.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := v.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxAddressKey, claims.Address)
		c.Next()
	}
}

// CurrentUserID reads the authenticated identity id set by Middleware.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CurrentAddress reads the authenticated identity address set by Middleware.
func CurrentAddress(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxAddressKey)
	if !ok {
		return "", false
	}
	addr, ok := v.(string)
	return addr, ok
}
