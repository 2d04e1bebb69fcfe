package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"montyhall/internal/game"
	"montyhall/internal/logger"
	"montyhall/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one WebSocket view attached to a session.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub     *Hub
	session *service.Session
	log     *slog.Logger

	quit      chan struct{}
	closeOnce sync.Once
}

func NewClient(session *service.Session, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		SessionID: session.ID,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		Hub:       hub,
		session:   session,
		log:       logger.WithSession(session.ID),
		quit:      make(chan struct{}),
	}
}

// Run serves the connection until it is closed. token is echoed back in the
// session message so the view can reconnect.
func (c *Client) Run(token string) {
	go c.writePump()

	c.Hub.Register(c)
	unsubscribe := c.session.Subscribe(c.pushState)
	defer unsubscribe()

	// the session may have ended between the upgrade and Register
	if _, err := c.Hub.Sessions.Get(c.SessionID); err != nil {
		c.Hub.Unregister(c)
		c.Close()
		return
	}

	c.send(Message{Type: MsgSession, Payload: SessionPayload{SessionID: c.SessionID, Token: token}})
	c.send(Message{Type: MsgState, Payload: c.session.Snapshot()})

	c.readPump()
}

// Close stops both pumps. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Close()
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read error", "error", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("ws write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.quit:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// pushState is the engine observer. It runs under the session lock, so it
// never blocks: on a full buffer the oldest queued frame gives way, and the
// newest state always reaches the view.
func (c *Client) pushState(s game.Snapshot) {
	c.send(Message{Type: MsgState, Payload: s})
}

func (c *Client) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("ws marshal error", "type", msg.Type, "error", err)
		return
	}
	for range 2 {
		select {
		case c.Send <- data:
			return
		case <-c.quit:
			return
		default:
		}
		select {
		case <-c.Send:
			c.log.Warn("ws send buffer full, dropping oldest message", "type", msg.Type)
		default:
		}
	}
}
