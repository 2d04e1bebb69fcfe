package ws

import (
	"context"
	"sync"

	"montyhall/internal/logger"
	"montyhall/internal/service"
)

// Limiter counts game actions per session.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Hub tracks the connected view of every session. A session has at most one
// connection; a reconnect replaces the older one. A nil limiter lets every
// action through.
type Hub struct {
	Sessions *service.SessionService
	limiter  Limiter

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(sessions *service.SessionService, limiter Limiter) *Hub {
	h := &Hub{
		Sessions: sessions,
		limiter:  limiter,
		clients:  make(map[string]*Client),
	}
	sessions.OnEnd(h.Disconnect)
	return h
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.SessionID]
	h.clients[c.SessionID] = c
	n := len(h.clients)
	h.mu.Unlock()

	if old != nil && old != c {
		logger.WithSession(c.SessionID).Info("ws reconnect replaces previous connection")
		old.Close()
	}
	logger.WithSession(c.SessionID).Debug("ws client registered", "clients", n)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.SessionID] == c {
		delete(h.clients, c.SessionID)
	}
	h.mu.Unlock()
}

// Disconnect closes the view attached to a session that was ended or expired.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	c := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.mu.Unlock()

	if c != nil {
		logger.WithSession(sessionID).Info("ws closed, session ended")
		c.Close()
	}
}

// allow reports whether the session may apply another action.
func (h *Hub) allow(sessionID string) bool {
	if h.limiter == nil {
		return true
	}
	return h.limiter.Allow(context.Background(), sessionID)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}
}
