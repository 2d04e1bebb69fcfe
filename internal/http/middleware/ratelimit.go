package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// KeyFunc picks the identity a limiter counts against.
type KeyFunc func(c *gin.Context) string

// ClientIP keys requests by client address.
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}

type clientInfo struct {
	last  time.Time
	count int
}

// memoryLimiter is the in-process fixed window used when Redis is not configured.
type memoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{clients: make(map[string]*clientInfo)}
}

// hit counts one request for key and returns the count in the current window.
func (m *memoryLimiter) hit(key string, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.last) > window {
		m.clients[key] = &clientInfo{last: now, count: 1}
		m.sweep(now, window)
		return 1
	}
	ci.count++
	return ci.count
}

// sweep drops windows that ended long ago so the map does not grow unbounded.
func (m *memoryLimiter) sweep(now time.Time, window time.Duration) {
	if len(m.clients) < 1024 {
		return
	}
	for k, ci := range m.clients {
		if now.Sub(ci.last) > window {
			delete(m.clients, k)
		}
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
func SimpleRateLimit(maxRequests int, window time.Duration, key KeyFunc) gin.HandlerFunc {
	limiter := newMemoryLimiter()
	return func(c *gin.Context) {
		if limiter.hit(key(c), window) > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath(), "memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath(), "memory").Inc()
		c.Next()
	}
}
