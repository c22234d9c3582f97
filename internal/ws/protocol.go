package ws

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSnapshot Action = "snapshot"
	ActionPing     Action = "ping"
)

// Request is a client message on the session stream.
type Request struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventPong     Event = "pong"
)

// SnapshotResponse carries a session progress snapshot.
type SnapshotResponse struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

// ErrorResponse reports a stream-level error.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// PongResponse answers a ping.
type PongResponse struct {
	Event Event `json:"event"`
}
