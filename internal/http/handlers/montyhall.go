package handlers

import (
	"net/http"

	"montyhall/internal/domain"
	"montyhall/internal/game"
	"montyhall/internal/logger"
	"montyhall/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionResponse is returned when a session is created
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Token     string        `json:"token"`
	State     game.Snapshot `json:"state"`
}

// SelectRequest represents the door selection request
type SelectRequest struct {
	Door *int `json:"door" binding:"required,min=0,max=2"`
}

// CreateSession starts a new game session for a view
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.Sessions.Create()

	token, err := service.GenerateSessionToken(sess.ID)
	if err != nil {
		logger.WithSession(sess.ID).Error("failed to sign session token", "error", err)
		_ = h.Sessions.End(sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		State:     sess.Snapshot(),
	})
}

// EndSession drops the session and its statistics
func (h *Handler) EndSession(c *gin.Context) {
	sid, ok := getSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
		return
	}
	if err := h.Sessions.End(sid); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GameState returns the current snapshot
func (h *Handler) GameState(c *gin.Context) {
	sid, ok := getSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
		return
	}
	sess, err := h.Sessions.Get(sid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// SelectDoor picks a door and reveals a goat
func (h *Handler) SelectDoor(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	h.apply(c, service.ActionSelect, *req.Door)
}

// Switch resolves the round with the remaining closed door
func (h *Handler) Switch(c *gin.Context) {
	h.apply(c, service.ActionSwitch, 0)
}

// Stay resolves the round with the selected door
func (h *Handler) Stay(c *gin.Context) {
	h.apply(c, service.ActionStay, 0)
}

// Reset starts a new round, statistics are kept
func (h *Handler) Reset(c *gin.Context) {
	h.apply(c, service.ActionReset, 0)
}

// apply always answers with the snapshot after the action, including when
// the engine ignored it for the current phase.
func (h *Handler) apply(c *gin.Context, action service.Action, door int) {
	sid, ok := getSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
		return
	}

	snap, err := h.Sessions.Do(sid, action, door)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	logger.WithContext(c.Request.Context()).Debug("game action", "action", action, "phase", snap.Phase)
	c.JSON(http.StatusOK, snap)
}

// GameInfo returns game rules info
func (h *Handler) GameInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"game_type":  domain.GameTypeMontyHall,
		"doors":      game.DoorCount,
		"strategies": []domain.Strategy{domain.StrategySwitch, domain.StrategyStay},
		"win_chance": gin.H{
			"switch": game.TheoreticalWinRate(domain.StrategySwitch) * 100,
			"stay":   game.TheoreticalWinRate(domain.StrategyStay) * 100,
		},
		"description": "Pick a door. A goat is revealed behind another one. Switch or stay!",
	})
}
