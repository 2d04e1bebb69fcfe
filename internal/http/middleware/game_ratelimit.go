package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// NewGameLimiter counts game actions per session. Pass the same limiter to
// GameActions and to the WebSocket hub so both transports share one budget.
func NewGameLimiter(maxActions int, window time.Duration) *ActionLimiter {
	return NewActionLimiter("game_rl", maxActions, window)
}

// GameRateLimit limits game actions per session (not per IP).
// Requires SessionAuth to run before this.
func GameRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	return GameActions(NewGameLimiter(maxActions, window))
}

// GameActions is GameRateLimit over an existing limiter.
func GameActions(l *ActionLimiter) gin.HandlerFunc {
	return rateLimit(l, SessionID, gin.H{
		"error":       "game rate limit exceeded",
		"retry_after": int(l.window.Seconds()),
	})
}
