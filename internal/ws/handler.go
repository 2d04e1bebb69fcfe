package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"montyhall/internal/service"
)

type intent struct {
	ping   bool
	action service.Action
	door   int
}

// parseIntent decodes a client frame.
func parseIntent(raw []byte) (intent, error) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		return intent{}, errors.New("malformed message")
	}

	switch msg.Type {
	case MsgPing:
		return intent{ping: true}, nil
	case MsgSelect:
		var door int
		if len(msg.Value) == 0 {
			return intent{}, errors.New("select requires a door")
		}
		if err := json.Unmarshal(msg.Value, &door); err != nil {
			return intent{}, errors.New("door must be an integer")
		}
		return intent{action: service.ActionSelect, door: door}, nil
	case MsgSwitch:
		return intent{action: service.ActionSwitch}, nil
	case MsgStay:
		return intent{action: service.ActionStay}, nil
	case MsgReset:
		return intent{action: service.ActionReset}, nil
	}
	return intent{}, fmt.Errorf("unknown message type %q", msg.Type)
}

// handleMessage applies a frame to the session. The resulting state reaches
// the client through the session observer.
func (c *Client) handleMessage(raw []byte) {
	in, err := parseIntent(raw)
	if err != nil {
		c.log.Debug("ws bad message", "error", err)
		c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: err.Error()}})
		return
	}

	if in.ping {
		c.send(Message{Type: MsgPong})
		return
	}

	if !c.Hub.allow(c.SessionID) {
		c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: "game rate limit exceeded"}})
		return
	}

	if _, err := c.session.Do(in.action, in.door); err != nil {
		c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: err.Error()}})
	}
}
