package websocket

import "github.com/civicsprep/civicsprep-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestPayload is the single client message shape. The progress stream
// is server-push; clients only send keepalives.
type RequestPayload struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventProgress Event = "progress"
	EventPong     Event = "pong"
)

// ProgressResponse carries one progress event to the client.
type ProgressResponse struct {
	Event Event               `json:"event"`
	Data  model.ProgressEvent `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
