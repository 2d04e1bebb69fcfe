package http

import (
	"net/http"

	"montyhall/internal/config"
	"montyhall/internal/http/handlers"
	"montyhall/internal/http/middleware"
	"montyhall/internal/service"
	"montyhall/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, sessions *service.SessionService, version string) *ws.Hub {
	return RegisterRoutesWithConfig(r, sessions, version, nil)
}

// RegisterRoutesWithConfig wires every endpoint and returns the WebSocket hub
// so the caller can disconnect clients on shutdown. A nil cfg means defaults.
func RegisterRoutesWithConfig(r *gin.Engine, sessions *service.SessionService, version string, cfg *config.Config) *ws.Hub {
	if cfg == nil {
		cfg = config.Default()
	}

	h := handlers.NewHandlerWithConfig(sessions, handlers.HandlerConfig{
		AllowedOrigin: cfg.AllowedOrigin,
	})
	// one per-session action budget for REST and WebSocket
	gameLimiter := middleware.NewGameLimiter(cfg.GameRateLimit, cfg.GameRateWindow)
	hub := ws.NewHub(sessions, gameLimiter)
	healthHandler := handlers.NewHealthHandler(sessions, hub, version)

	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, gameLimiter)

	// Legacy /api routes
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, gameLimiter)

	// WebSocket view
	r.GET("/ws", middleware.SimpleRateLimit(cfg.APIRateLimit, cfg.APIRateWindow, middleware.ClientIP), h.WS(hub))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return hub
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, gameLimiter *middleware.ActionLimiter) {
	// Sessions
	api.POST("/sessions", h.CreateSession)
	api.DELETE("/sessions", middleware.SessionAuth(), h.EndSession)

	// Game rate limiter middleware (per session, not per IP)
	gameRL := middleware.GameActions(gameLimiter)

	api.GET("/game/info", h.GameInfo)
	api.GET("/game/state", middleware.SessionAuth(), h.GameState)
	api.POST("/game/reset", middleware.SessionAuth(), gameRL, h.Reset)
	api.POST("/game/select", middleware.SessionAuth(), gameRL, h.SelectDoor)
	api.POST("/game/switch", middleware.SessionAuth(), gameRL, h.Switch)
	api.POST("/game/stay", middleware.SessionAuth(), gameRL, h.Stay)
}
