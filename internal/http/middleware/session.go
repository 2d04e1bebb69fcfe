package middleware

import (
	"net/http"
	"strings"

	"montyhall/internal/logger"
	"montyhall/internal/service"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session_id"

// BearerToken reads the session token from the Authorization header or the
// token query parameter.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Query("token")
}

// SessionAuth validates the session token and stores the session id in the context.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		sid, err := service.ParseSessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(sessionKey, sid)
		c.Request = c.Request.WithContext(logger.ContextWithSession(c.Request.Context(), sid))
		c.Next()
	}
}

// SessionID returns the id stored by SessionAuth.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// CORS allows the configured origin, or any origin when allowed is empty.
func CORS(allowed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowed == "" || origin == allowed) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
