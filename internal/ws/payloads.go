package ws

import "encoding/json"

// Message is the envelope for every frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// client → server
type inbound struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// server → client
type SessionPayload struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
