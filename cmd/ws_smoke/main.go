package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type state struct {
	Phase        string `json:"phase"`
	SelectedDoor *int   `json:"selected_door"`
	RevealedDoor *int   `json:"revealed_door"`
	WinningDoor  *int   `json:"winning_door"`
	Result       string `json:"result"`
}

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws", port)
	if token := os.Getenv("SESSION_TOKEN"); token != "" {
		wsURL += "?token=" + token
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// read frames until one of type want arrives
	readUntil := func(want string) frame {
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Fatalf("connection closed while waiting for %s", want)
				}
				continue
			}
			var f frame
			if err := json.Unmarshal(msg, &f); err != nil {
				continue
			}
			if f.Type == "error" {
				log.Fatalf("server error: %s", f.Payload)
			}
			if f.Type == want {
				return f
			}
		}
		log.Fatalf("timeout waiting for %s", want)
		return frame{}
	}

	readState := func() state {
		var s state
		if err := json.Unmarshal(readUntil("state").Payload, &s); err != nil {
			log.Fatalf("decode state: %v", err)
		}
		return s
	}

	sess := readUntil("session")
	log.Printf("session: %s", sess.Payload)

	s := readState()
	if s.Phase != "start" {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"reset"}`)); err != nil {
			log.Fatalf("write reset: %v", err)
		}
		s = readState()
	}
	log.Printf("phase %s", s.Phase)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"select","value":0}`)); err != nil {
		log.Fatalf("write select: %v", err)
	}
	s = readState()
	if s.RevealedDoor == nil {
		log.Fatalf("no door revealed, phase %s", s.Phase)
	}
	log.Printf("selected 0, goat behind %d", *s.RevealedDoor)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"switch"}`)); err != nil {
		log.Fatalf("write switch: %v", err)
	}
	s = readState()
	if s.WinningDoor == nil {
		log.Fatalf("round did not end, phase %s", s.Phase)
	}
	log.Printf("switched: %s (car behind %d)", s.Result, *s.WinningDoor)

	log.Println("smoke test finished")
}
