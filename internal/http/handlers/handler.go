package handlers

import (
	"errors"
	"net/http"

	"montyhall/internal/http/middleware"
	"montyhall/internal/service"

	"github.com/gin-gonic/gin"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	AllowedOrigin string
}

type Handler struct {
	Sessions      *service.SessionService
	AllowedOrigin string
}

// NewHandlerWithConfig creates a handler with custom configuration
func NewHandlerWithConfig(sessions *service.SessionService, cfg HandlerConfig) *Handler {
	return &Handler{
		Sessions:      sessions,
		AllowedOrigin: cfg.AllowedOrigin,
	}
}

// getSessionID извлекает session_id из контекста Gin
func getSessionID(c *gin.Context) (string, bool) {
	sid := middleware.SessionID(c)
	return sid, sid != ""
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrInvalidDoor), errors.Is(err, service.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
