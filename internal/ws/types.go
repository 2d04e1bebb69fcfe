package ws

const (
	// client - server
	MsgSelect = "select"
	MsgSwitch = "switch"
	MsgStay   = "stay"
	MsgReset  = "reset"
	MsgPing   = "ping"

	// server - client
	MsgSession = "session"
	MsgState   = "state"
	MsgPong    = "pong"
	MsgError   = "error"
)
