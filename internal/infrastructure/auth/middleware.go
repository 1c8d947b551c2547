package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where the middleware stores the authenticated user ID.
const ContextUserIDKey = "authUserID"

// Middleware authenticates requests via "Authorization: Bearer <token>", with a
// ?token= query fallback for websocket handshakes where browsers cannot set
// headers.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		claims, err := tm.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user for the request, or "" when the route
// skipped the middleware.
func UserID(c *gin.Context) string {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
