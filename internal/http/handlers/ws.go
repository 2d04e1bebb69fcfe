package handlers

import (
	"net/http"

	"montyhall/internal/http/middleware"
	"montyhall/internal/logger"
	"montyhall/internal/service"
	"montyhall/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to a WebSocket view. Without a token a new session is created.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if h.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == h.AllowedOrigin
		},
	}

	return func(c *gin.Context) {
		var sess *service.Session
		created := false

		token := middleware.BearerToken(c)
		if token != "" {
			sid, err := service.ParseSessionToken(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			if sess, err = h.Sessions.Get(sid); err != nil {
				writeServiceError(c, err)
				return
			}
		} else {
			sess = h.Sessions.Create()
			created = true
			var err error
			if token, err = service.GenerateSessionToken(sess.ID); err != nil {
				_ = h.Sessions.End(sess.ID)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
		}

		// WebSocket upgrade
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithSession(sess.ID).Warn("ws upgrade error", "error", err)
			if created {
				_ = h.Sessions.End(sess.ID)
			}
			return
		}

		client := ws.NewClient(sess, conn, hub)
		go client.Run(token)
	}
}
