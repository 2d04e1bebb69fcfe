package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"montyhall/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSimpleRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", SimpleRateLimit(2, time.Minute, ClientIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, "GET", "/x", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/x", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "GET", "/x", nil).Code)
}

func TestRedisRateLimitFallsBackToMemory(t *testing.T) {
	require.False(t, RedisEnabled())

	r := gin.New()
	r.GET("/x", RedisRateLimit(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := do(r, "GET", "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, "GET", "/x", nil).Code)
}

func TestSessionAuthAndGameRateLimit(t *testing.T) {
	service.InitJWT("middleware-secret")
	tokenA, err := service.GenerateSessionToken("a")
	require.NoError(t, err)
	tokenB, err := service.GenerateSessionToken("b")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/act", SessionAuth(), GameRateLimit(1, time.Minute), func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, "POST", "/act", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "POST", "/act?token=bogus", nil).Code)

	w := do(r, "POST", "/act", http.Header{"Authorization": {"Bearer " + tokenA}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a", w.Body.String())

	// the limit is per session, so b is still allowed
	assert.Equal(t, http.StatusTooManyRequests, do(r, "POST", "/act?token="+tokenA, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, "POST", "/act?token="+tokenB, nil).Code)
}

func TestGameLimiterSharedAcrossTransports(t *testing.T) {
	service.InitJWT("middleware-secret")
	token, err := service.GenerateSessionToken("shared")
	require.NoError(t, err)

	l := NewGameLimiter(2, time.Minute)
	r := gin.New()
	r.POST("/act", SessionAuth(), GameActions(l), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// one action over the socket, one over REST, then the budget is spent
	assert.True(t, l.Allow(context.Background(), "shared"))
	assert.Equal(t, http.StatusOK, do(r, "POST", "/act?token="+token, nil).Code)
	assert.False(t, l.Allow(context.Background(), "shared"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, "POST", "/act?token="+token, nil).Code)

	assert.True(t, l.Allow(context.Background(), "other"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://doors.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "GET", "/x", http.Header{"Origin": {"https://doors.example"}})
	assert.Equal(t, "https://doors.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, "GET", "/x", http.Header{"Origin": {"https://evil.example"}})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, "OPTIONS", "/x", http.Header{"Origin": {"https://doors.example"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
