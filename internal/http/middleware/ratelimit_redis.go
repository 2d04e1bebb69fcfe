package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"montyhall/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters fall back to in-memory counting.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Info("redis not configured, using in-memory rate limiting")
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// on ping failure, disable redis client to keep server available
		logger.Warn("redis ping failed, using in-memory rate limiting", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
	logger.Info("redis rate limiter connected", "addr", addr)
}

// CloseRedis releases the shared client.
func CloseRedis() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// RedisEnabled reports whether limits are shared through Redis.
func RedisEnabled() bool {
	return redisClient != nil
}

// PingRedis checks the shared client; it fails when Redis is not configured.
func PingRedis(ctx context.Context) error {
	if redisClient == nil {
		return errors.New("redis not configured")
	}
	return redisClient.Ping(ctx).Err()
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
// Without Redis it counts in memory.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return rateLimit(NewActionLimiter("rl", maxRequests, window), ClientIP, gin.H{"error": "rate limit exceeded"})
}

// ActionLimiter is a fixed-window counter shared by the HTTP middleware and
// callers outside a gin request, such as WebSocket frames.
type ActionLimiter struct {
	prefix    string
	max       int
	window    time.Duration
	windowSec string
	fallback  *memoryLimiter
}

func NewActionLimiter(prefix string, maxRequests int, window time.Duration) *ActionLimiter {
	return &ActionLimiter{
		prefix:    prefix,
		max:       maxRequests,
		window:    window,
		windowSec: strconv.FormatInt(int64(window.Seconds()), 10),
		fallback:  newMemoryLimiter(),
	}
}

// hit counts one action for ident and returns the count in the current window.
func (l *ActionLimiter) hit(ctx context.Context, ident string) (int64, string, error) {
	if redisClient == nil {
		return int64(l.fallback.hit(l.prefix+":"+ident, l.window)), "memory", nil
	}

	rkey := l.prefix + ":" + l.windowSec + ":" + ident
	n, err := redisClient.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, "redis", err
	}
	if n == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, rkey, l.window)
	}
	return n, "redis", nil
}

// Allow counts one action for key. Redis errors fail open.
func (l *ActionLimiter) Allow(ctx context.Context, key string) bool {
	val, backend, err := l.hit(ctx, key)
	if err != nil {
		logger.Warn("rate limiter redis error", "error", err)
		return true
	}
	if val > int64(l.max) {
		RLBlocked.WithLabelValues("ws", backend).Inc()
		return false
	}
	RLRequests.WithLabelValues("ws", backend).Inc()
	return true
}

func rateLimit(l *ActionLimiter, key KeyFunc, blocked gin.H) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := key(c)
		if ident == "" {
			c.Next()
			return
		}

		val, backend, err := l.hit(c.Request.Context(), ident)
		if err != nil {
			// on Redis error, fail-open (allow) but set header
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(l.max)-val), 10))

		if val > int64(l.max) {
			RLBlocked.WithLabelValues(c.FullPath(), backend).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, blocked)
			return
		}

		RLRequests.WithLabelValues(c.FullPath(), backend).Inc()
		c.Next()
	}
}
